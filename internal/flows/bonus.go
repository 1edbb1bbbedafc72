package flows

import (
	"context"
	"fmt"

	"baristabot/internal/chat"
	"baristabot/internal/conversation"
	"baristabot/internal/menu"
	"baristabot/internal/service"
	"baristabot/internal/wizard"
)

const (
	fieldName         = "name"
	fieldDescription  = "description"
	fieldPercent      = "percent"
	fieldProgramID    = "program_id"
	fieldMinPurchases = "min_purchases"
	fieldLevelID      = "level_id"
)

func createBonusProgram(d Deps) *wizard.Definition {
	return &wizard.Definition{
		Kind: CreateBonusProgram,
		Steps: []wizard.Step{
			{
				Name:     "name",
				Field:    fieldName,
				Prompt:   wizard.StaticPrompt("🎁 Введите название программы (2-50 символов):"),
				Validate: unique(wizard.Text(2, 50), d.Bonuses.ProgramNameTaken, "Программа с таким названием уже существует"),
			},
			{
				Name:     "percent",
				Field:    fieldPercent,
				Prompt:   wizard.StaticPrompt("Введите базовый процент начисления (0-100):"),
				Validate: wizard.Percent(),
			},
			{
				Name:     "description",
				Field:    fieldDescription,
				Prompt:   wizard.KeyboardPrompt("Введите описание или нажмите «Пропустить»:", menu.SkipKeyboard()...),
				Validate: wizard.OptionalText(500),
			},
			{
				Name:    "confirm",
				Confirm: true,
				Prompt: func(_ context.Context, env wizard.Env) (wizard.Prompt, error) {
					return wizard.Prompt{Text: summary("📋 Новая программа:",
						"Название: "+env.Fields.String(fieldName),
						"Базовый процент: "+env.Fields.Decimal(fieldPercent).String()+"%",
						"Описание: "+orDash(env.Fields.String(fieldDescription)),
						"",
						"Создать программу?",
					)}, nil
				},
			},
		},
		Commit: func(ctx context.Context, userID int64, f *conversation.Fields) (wizard.Result, error) {
			p, err := d.Bonuses.CreateProgram(ctx, service.ProgramInput{
				Name:        f.String(fieldName),
				BasePercent: f.Decimal(fieldPercent),
				Description: f.String(fieldDescription),
				CreatedBy:   userID,
			})
			if err != nil {
				return wizard.Result{}, err
			}
			return wizard.Result{Message: fmt.Sprintf("✅ Программа «%s» создана (ID: %d)", p.Name, p.ID)}, nil
		},
		FailureMessage: failureMessage,
		ReturnMenu:     menu.ProgramMenu,
	}
}

func programItems(ctx context.Context, bonuses *service.BonusService) ([]chat.ListItem, error) {
	programs, err := bonuses.Programs(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]chat.ListItem, 0, len(programs))
	for _, p := range programs {
		items = append(items, chat.ListItem{
			ID:    p.ID,
			Label: fmt.Sprintf("%s (%s%%)", p.Name, p.BasePercent.String()),
		})
	}
	return items, nil
}

func createBonusLevel(d Deps) *wizard.Definition {
	return &wizard.Definition{
		Kind: CreateBonusLevel,
		Steps: []wizard.Step{
			wizard.Select("program", fieldProgramID, "🎁 Выберите программу для нового уровня:",
				func(ctx context.Context, _ wizard.Env) ([]chat.ListItem, error) {
					return programItems(ctx, d.Bonuses)
				}),
			{
				Name:     "name",
				Field:    fieldName,
				Prompt:   wizard.StaticPrompt("Введите название уровня (2-50 символов):"),
				Validate: wizard.Text(2, 50),
			},
			{
				Name:     "min_purchases",
				Field:    fieldMinPurchases,
				Prompt:   wizard.StaticPrompt("Введите минимальную сумму покупок для уровня:"),
				Validate: wizard.PositiveDecimal(),
			},
			{
				Name:     "percent",
				Field:    fieldPercent,
				Prompt:   wizard.StaticPrompt("Введите процент бонусов (0-100):"),
				Validate: wizard.Percent(),
			},
			{
				Name:     "description",
				Field:    fieldDescription,
				Prompt:   wizard.KeyboardPrompt("Введите описание (до 500 символов) или нажмите «Пропустить»:", menu.SkipKeyboard()...),
				Validate: wizard.OptionalText(500),
			},
			{
				Name:    "confirm",
				Confirm: true,
				Prompt: func(_ context.Context, env wizard.Env) (wizard.Prompt, error) {
					return wizard.Prompt{Text: summary("📋 Новый уровень:",
						"Название: "+env.Fields.String(fieldName),
						"Порог: "+money(env.Fields.Decimal(fieldMinPurchases)),
						"Процент: "+env.Fields.Decimal(fieldPercent).String()+"%",
						"Описание: "+orDash(env.Fields.String(fieldDescription)),
						"",
						"Создать уровень?",
					)}, nil
				},
			},
		},
		Commit: func(ctx context.Context, _ int64, f *conversation.Fields) (wizard.Result, error) {
			l, err := d.Bonuses.CreateLevel(ctx, service.LevelInput{
				ProgramID:    f.Int64(fieldProgramID),
				Name:         f.String(fieldName),
				MinPurchases: f.Decimal(fieldMinPurchases),
				Percent:      f.Decimal(fieldPercent),
				Description:  f.String(fieldDescription),
			})
			if err != nil {
				return wizard.Result{}, err
			}
			return wizard.Result{Message: fmt.Sprintf("✅ Уровень «%s» создан (ID: %d)", l.Name, l.ID)}, nil
		},
		FailureMessage: failureMessage,
		ReturnMenu:     menu.LevelMenu,
	}
}

func deleteBonusLevel(d Deps) *wizard.Definition {
	return &wizard.Definition{
		Kind: DeleteBonusLevel,
		Steps: []wizard.Step{
			wizard.Select("level", fieldLevelID, "🗑️ Выберите уровень для удаления:",
				func(ctx context.Context, _ wizard.Env) ([]chat.ListItem, error) {
					levels, err := d.Bonuses.AllLevels(ctx)
					if err != nil {
						return nil, err
					}
					items := make([]chat.ListItem, 0, len(levels))
					for _, l := range levels {
						items = append(items, chat.ListItem{
							ID:    l.ID,
							Label: fmt.Sprintf("%s: от %s, %s%%", l.Name, money(l.MinPurchases), l.Percent.String()),
						})
					}
					return items, nil
				}),
			{
				Name:    "confirm",
				Confirm: true,
				Prompt: func(_ context.Context, env wizard.Env) (wizard.Prompt, error) {
					return wizard.Prompt{Text: fmt.Sprintf("Удалить уровень %d?", env.Fields.Int64(fieldLevelID))}, nil
				},
			},
		},
		Commit: func(ctx context.Context, _ int64, f *conversation.Fields) (wizard.Result, error) {
			if err := d.Bonuses.DeleteLevel(ctx, f.Int64(fieldLevelID)); err != nil {
				return wizard.Result{}, err
			}
			return wizard.Result{Message: "✅ Уровень удален"}, nil
		},
		FailureMessage: failureMessage,
		ReturnMenu:     menu.LevelMenu,
	}
}
