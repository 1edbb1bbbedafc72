package flows

import (
	"context"
	"fmt"

	"baristabot/internal/conversation"
	"baristabot/internal/domain"
	"baristabot/internal/menu"
	"baristabot/internal/wizard"
)

const fieldCashMorning = "cash_morning"

// ReportSummary renders the state of a shift report
func ReportSummary(rep domain.ShiftReport) string {
	rec := rep.Reconcile()
	status := "🟢 открыта"
	if !rep.IsActive {
		status = "🔴 закрыта"
	}
	opener := rep.Username
	if opener == "" {
		opener = fmt.Sprintf("%d", rep.UserID)
	}
	return summary(fmt.Sprintf("📊 Смена #%d (%s)", rep.ID, status),
		"Открыл: "+opener,
		"Утро: "+rub(rec.Morning),
		"Внесение: "+rub(rec.CashIn),
		"Расходы: "+rub(rec.Expenses),
		"Безнал: "+rub(rec.Online),
		"Остаток в кассе: "+rub(rec.Rest),
		"Итого: "+rub(rec.Total),
	)
}

func reportResult(rep *domain.ShiftReport, headline string) wizard.Result {
	return wizard.Result{
		Message: headline + "\n\n" + ReportSummary(*rep),
		Inline:  menu.ReportPanel(rep.ID),
	}
}

// activeReport fills the report ID unless the wizard was opened from a panel
func activeReport(d Deps) func(ctx context.Context, userID int64, f *conversation.Fields) error {
	return func(ctx context.Context, _ int64, f *conversation.Fields) error {
		if f.Has(FieldReportID) {
			return nil
		}
		rep, err := d.Reports.Active(ctx)
		if err != nil {
			return err
		}
		f.Set(FieldReportID, rep.ID)
		return nil
	}
}

func createReport(d Deps) *wizard.Definition {
	return &wizard.Definition{
		Kind: CreateReport,
		Steps: []wizard.Step{
			{
				Name:     "cash_morning",
				Field:    fieldCashMorning,
				Prompt:   wizard.StaticPrompt("💵 Введите сумму в кассе на начало смены:"),
				Validate: wizard.NonNegativeInt(),
			},
		},
		Commit: func(ctx context.Context, userID int64, f *conversation.Fields) (wizard.Result, error) {
			opener := domain.User{UserID: userID}
			if u, err := d.Roles.User(ctx, userID); err == nil {
				opener = *u
			}
			rep, err := d.Reports.Open(ctx, opener, f.Int64(fieldCashMorning))
			if err != nil {
				return wizard.Result{}, err
			}
			return reportResult(rep, "✅ Смена открыта"), nil
		},
		FailureMessage: failureMessage,
		ReturnMenu:     menu.ReportMenu,
	}
}

func addExpense(d Deps) *wizard.Definition {
	return &wizard.Definition{
		Kind: AddExpense,
		Init: activeReport(d),
		Steps: []wizard.Step{
			{
				Name:     "amount",
				Field:    fieldAmount,
				Prompt:   wizard.StaticPrompt("➖ Введите сумму расхода:"),
				Validate: wizard.PositiveInt(),
			},
			{
				Name:     "description",
				Field:    fieldDescription,
				Prompt:   wizard.StaticPrompt("На что потрачены деньги?"),
				Validate: wizard.Text(1, 200),
			},
		},
		Commit: func(ctx context.Context, _ int64, f *conversation.Fields) (wizard.Result, error) {
			rep, err := d.Reports.AddExpense(ctx, f.Int64(FieldReportID), f.Int64(fieldAmount), f.String(fieldDescription))
			if err != nil {
				return wizard.Result{}, err
			}
			return reportResult(rep, "✅ Расход "+rub(f.Int64(fieldAmount))+" записан"), nil
		},
		FailureMessage: failureMessage,
		ReturnMenu:     menu.ReportMenu,
	}
}

func setCashIn(d Deps) *wizard.Definition {
	return &wizard.Definition{
		Kind: SetCashIn,
		Init: activeReport(d),
		Steps: []wizard.Step{
			{
				Name:     "amount",
				Field:    fieldAmount,
				Prompt:   wizard.StaticPrompt("➕ Введите сумму наличных за смену:"),
				Validate: wizard.NonNegativeInt(),
			},
		},
		Commit: func(ctx context.Context, _ int64, f *conversation.Fields) (wizard.Result, error) {
			rep, err := d.Reports.SetCashIn(ctx, f.Int64(FieldReportID), f.Int64(fieldAmount))
			if err != nil {
				return wizard.Result{}, err
			}
			return reportResult(rep, "✅ Внесение обновлено"), nil
		},
		FailureMessage: failureMessage,
		ReturnMenu:     menu.ReportMenu,
	}
}

func setOnlineCash(d Deps) *wizard.Definition {
	return &wizard.Definition{
		Kind: SetOnlineCash,
		Init: activeReport(d),
		Steps: []wizard.Step{
			{
				Name:     "amount",
				Field:    fieldAmount,
				Prompt:   wizard.StaticPrompt("💳 Введите сумму безналичной оплаты:"),
				Validate: wizard.NonNegativeInt(),
			},
		},
		Commit: func(ctx context.Context, _ int64, f *conversation.Fields) (wizard.Result, error) {
			rep, err := d.Reports.SetOnline(ctx, f.Int64(FieldReportID), f.Int64(fieldAmount))
			if err != nil {
				return wizard.Result{}, err
			}
			return reportResult(rep, "✅ Безнал обновлен"), nil
		},
		FailureMessage: failureMessage,
		ReturnMenu:     menu.ReportMenu,
	}
}

func closeShift(d Deps) *wizard.Definition {
	return &wizard.Definition{
		Kind: CloseShift,
		Init: activeReport(d),
		Steps: []wizard.Step{
			{
				Name:    "confirm",
				Confirm: true,
				Prompt: func(ctx context.Context, _ wizard.Env) (wizard.Prompt, error) {
					rep, err := d.Reports.Active(ctx)
					if err != nil {
						return wizard.Prompt{}, err
					}
					return wizard.Prompt{Text: ReportSummary(*rep) + "\n\nЗакрыть смену?"}, nil
				},
			},
		},
		Commit: func(ctx context.Context, _ int64, f *conversation.Fields) (wizard.Result, error) {
			rep, rec, err := d.Reports.Close(ctx, f.Int64(FieldReportID))
			if err != nil {
				return wizard.Result{}, err
			}
			return wizard.Result{Message: summary(fmt.Sprintf("🔕 Смена #%d закрыта", rep.ID),
				"Остаток в кассе: "+rub(rec.Rest),
				"Безнал: "+rub(rec.Online),
				"Итого за смену: "+rub(rec.Total),
			)}, nil
		},
		FailureMessage: failureMessage,
		CancelText:     "Смена остается открытой",
		ReturnMenu:     menu.ReportMenu,
	}
}
