package domain

import "time"

// ShiftReport is a cash register shift. Amounts are whole rubles.
type ShiftReport struct {
	ID          int64
	UserID      int64
	Username    string
	Phone       string
	CashMorning int64
	CashWasted  int64
	CashOnline  int64
	CashIn      int64
	CashRest    int64
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Expense is a cash withdrawal recorded against a report
type Expense struct {
	ID          int64
	ReportID    int64
	Amount      int64
	Description string
	CreatedAt   time.Time
}

// Reconciliation summarises a shift for closing
type Reconciliation struct {
	Morning  int64
	CashIn   int64
	Expenses int64
	Online   int64
	Rest     int64
	Total    int64
}

// Reconcile computes cash remaining in the register and the shift total
func (r ShiftReport) Reconcile() Reconciliation {
	rest := r.CashMorning + r.CashIn - r.CashWasted
	return Reconciliation{
		Morning:  r.CashMorning,
		CashIn:   r.CashIn,
		Expenses: r.CashWasted,
		Online:   r.CashOnline,
		Rest:     rest,
		Total:    rest + r.CashOnline,
	}
}
