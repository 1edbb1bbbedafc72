package flows

import (
	"context"
	"fmt"

	"baristabot/internal/conversation"
	"baristabot/internal/domain"
	"baristabot/internal/menu"
	"baristabot/internal/wizard"
)

func addInventoryItem(d Deps) *wizard.Definition {
	return &wizard.Definition{
		Kind: AddInventoryItem,
		Steps: []wizard.Step{
			{
				Name:     "name",
				Field:    fieldName,
				Prompt:   wizard.StaticPrompt("📦 Введите название товара:"),
				Validate: wizard.Text(2, 100),
			},
			{
				Name:     "quantity",
				Field:    fieldQuantity,
				Prompt:   wizard.StaticPrompt("Введите количество:"),
				Validate: wizard.PositiveDecimal(),
			},
			{
				Name:     "unit",
				Field:    fieldUnit,
				Prompt:   wizard.KeyboardPrompt("Выберите единицу измерения:", domain.Units),
				Validate: wizard.Choice(domain.Units...),
			},
		},
		Commit: func(ctx context.Context, userID int64, f *conversation.Fields) (wizard.Result, error) {
			item, err := d.Inventory.AddItem(ctx, userID, f.String(fieldName), f.Decimal(fieldQuantity), f.String(fieldUnit))
			if err != nil {
				return wizard.Result{}, err
			}
			return wizard.Result{Message: fmt.Sprintf("✅ Добавлено: %s %s %s", item.Name, item.Quantity.String(), item.Unit)}, nil
		},
		FailureMessage: failureMessage,
		ReturnMenu:     menu.InventoryMenu,
	}
}
