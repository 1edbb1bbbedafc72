package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RouteDecisions counts menu router outcomes
	RouteDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "baristabot",
			Name:      "route_decisions_total",
			Help:      "Menu routing outcomes by decision",
		},
		[]string{"decision"},
	)

	// DispatchPaths counts which dispatch branch handled an input
	DispatchPaths = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "baristabot",
			Name:      "dispatch_paths_total",
			Help:      "Inbound inputs by dispatch branch",
		},
		[]string{"path"},
	)

	// WizardOutcomes counts wizard transitions by kind and outcome
	WizardOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "baristabot",
			Name:      "wizard_outcomes_total",
			Help:      "Wizard transitions by kind and outcome",
		},
		[]string{"wizard", "outcome"},
	)

	// WizardsStarted counts wizard starts, including rejected ones
	WizardsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "baristabot",
			Name:      "wizards_started_total",
			Help:      "Wizard start attempts by kind and result",
		},
		[]string{"wizard", "result"},
	)

	// DuplicateCallbacks counts callback deliveries dropped as duplicates
	DuplicateCallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "baristabot",
			Name:      "duplicate_callbacks_total",
			Help:      "Inline callbacks dropped as duplicate deliveries",
		},
	)

	// RemindersFired counts delivered reminders
	RemindersFired = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "baristabot",
			Name:      "reminders_fired_total",
			Help:      "Reminder deliveries by result",
		},
		[]string{"result"},
	)
)

// RegisterActiveWizards exposes the number of users inside a wizard
func RegisterActiveWizards(reg prometheus.Registerer, count func() int) error {
	return reg.Register(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: "baristabot",
			Name:      "active_wizards",
			Help:      "Users with an open wizard",
		},
		func() float64 { return float64(count()) },
	))
}
