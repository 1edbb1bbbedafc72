package flows

import (
	"context"
	"fmt"
	"strings"

	"baristabot/internal/chat"
	"baristabot/internal/conversation"
	"baristabot/internal/domain"
	"baristabot/internal/menu"
	"baristabot/internal/wizard"
)

const (
	fieldUserID = "user_id"
	fieldField  = "field"
	fieldValue  = "value"
	fieldRole   = "role"
)

func editUser(d Deps) *wizard.Definition {
	fieldLabels := make([]string, 0, len(domain.UserFields()))
	for _, f := range domain.UserFields() {
		fieldLabels = append(fieldLabels, f.Label())
	}

	return &wizard.Definition{
		Kind: EditUser,
		Steps: []wizard.Step{
			wizard.Select("user", fieldUserID, "👥 Выберите пользователя для редактирования:",
				func(ctx context.Context, _ wizard.Env) ([]chat.ListItem, error) {
					return userItems(ctx, d.Roles, 0)
				}),
			{
				Name:     "field",
				Field:    fieldField,
				Prompt:   wizard.KeyboardPrompt("✏️ Какое поле изменить?", rows(fieldLabels...)...),
				Validate: userFieldChoice,
			},
			{
				Name:  "value",
				Field: fieldValue,
				Prompt: func(_ context.Context, env wizard.Env) (wizard.Prompt, error) {
					field := domain.UserField(env.Fields.String(fieldField))
					return wizard.Prompt{Text: fmt.Sprintf("Введите новое значение поля «%s»:", field.Label())}, nil
				},
				Validate: userFieldValue,
			},
			{
				Name:    "confirm",
				Confirm: true,
				Prompt: func(_ context.Context, env wizard.Env) (wizard.Prompt, error) {
					field := domain.UserField(env.Fields.String(fieldField))
					return wizard.Prompt{Text: summary("📝 Проверьте изменения:",
						fmt.Sprintf("Пользователь: %d", env.Fields.Int64(fieldUserID)),
						fmt.Sprintf("%s: %s", field.Label(), env.Fields.String(fieldValue)),
						"",
						"Сохранить?",
					)}, nil
				},
			},
		},
		Commit: func(ctx context.Context, userID int64, f *conversation.Fields) (wizard.Result, error) {
			field := domain.UserField(f.String(fieldField))
			if err := d.Roles.UpdateUserField(ctx, userID, f.Int64(fieldUserID), field, f.String(fieldValue)); err != nil {
				return wizard.Result{}, err
			}
			return wizard.Result{Message: fmt.Sprintf("✅ Поле «%s» обновлено", field.Label())}, nil
		},
		FailureMessage: failureMessage,
		ReturnMenu:     menu.UserMenu,
	}
}

func userFieldChoice(_ context.Context, in wizard.Input) (any, error) {
	candidate := strings.TrimSpace(in.Text)
	if in.Token != nil {
		candidate = in.Token.Arg
	}
	for _, f := range domain.UserFields() {
		if strings.EqualFold(candidate, f.Label()) || candidate == string(f) {
			return string(f), nil
		}
	}
	return nil, wizard.Retry("Выберите поле кнопкой")
}

// userFieldValue depends on the field chosen one step earlier
func userFieldValue(ctx context.Context, in wizard.Input) (any, error) {
	if domain.UserField(in.Fields.String(fieldField)) == domain.UserFieldPhone {
		phone, err := domain.NormalizePhone(in.Text)
		if err != nil {
			return nil, wizard.Retry("Неверный формат телефона. Пример: +79001234567")
		}
		return phone, nil
	}
	return wizard.Text(1, 100)(ctx, in)
}

func changeRole(d Deps) *wizard.Definition {
	roleLabels := make([]string, 0, len(domain.Roles()))
	for _, r := range domain.Roles() {
		roleLabels = append(roleLabels, r.DisplayName())
	}

	return &wizard.Definition{
		Kind: ChangeRole,
		Steps: []wizard.Step{
			wizard.Select("user", fieldUserID, "🎯 Выберите пользователя:",
				func(ctx context.Context, env wizard.Env) ([]chat.ListItem, error) {
					return userItems(ctx, d.Roles, env.UserID)
				}),
			{
				Name:     "role",
				Field:    fieldRole,
				Prompt:   wizard.KeyboardPrompt("🎭 Выберите новую роль:", rows(roleLabels...)...),
				Validate: roleChoice,
			},
			{
				Name:    "confirm",
				Confirm: true,
				Prompt: func(_ context.Context, env wizard.Env) (wizard.Prompt, error) {
					role := domain.Role(env.Fields.String(fieldRole))
					return wizard.Prompt{Text: fmt.Sprintf("Назначить пользователю %d роль %s?",
						env.Fields.Int64(fieldUserID), role.DisplayName())}, nil
				},
			},
		},
		Commit: func(ctx context.Context, userID int64, f *conversation.Fields) (wizard.Result, error) {
			role := domain.Role(f.String(fieldRole))
			if err := d.Roles.ChangeRole(ctx, userID, f.Int64(fieldUserID), role); err != nil {
				return wizard.Result{}, err
			}
			return wizard.Result{Message: fmt.Sprintf("✅ Роль изменена на %s", role.DisplayName())}, nil
		},
		FailureMessage: failureMessage,
		ReturnMenu:     menu.RoleMenu,
	}
}

func roleChoice(_ context.Context, in wizard.Input) (any, error) {
	candidate := strings.TrimSpace(in.Text)
	if in.Token != nil {
		candidate = in.Token.Arg
	}
	for _, r := range domain.Roles() {
		if candidate == r.DisplayName() {
			return string(r), nil
		}
	}
	if r, err := domain.ParseRole(candidate); err == nil {
		return string(r), nil
	}
	return nil, wizard.Retry("Выберите роль кнопкой")
}

func deleteUser(d Deps) *wizard.Definition {
	return &wizard.Definition{
		Kind: DeleteUser,
		Steps: []wizard.Step{
			wizard.Select("user", fieldUserID, "🗑️ Выберите пользователя для удаления:",
				func(ctx context.Context, env wizard.Env) ([]chat.ListItem, error) {
					return userItems(ctx, d.Roles, env.UserID)
				}),
			{
				Name:    "confirm",
				Confirm: true,
				Prompt: func(_ context.Context, env wizard.Env) (wizard.Prompt, error) {
					return wizard.Prompt{Text: fmt.Sprintf("⚠️ Удалить пользователя %d? Действие необратимо.",
						env.Fields.Int64(fieldUserID))}, nil
				},
			},
		},
		Commit: func(ctx context.Context, userID int64, f *conversation.Fields) (wizard.Result, error) {
			if err := d.Roles.DeleteUser(ctx, userID, f.Int64(fieldUserID)); err != nil {
				return wizard.Result{}, err
			}
			return wizard.Result{Message: "✅ Пользователь удален"}, nil
		},
		FailureMessage: failureMessage,
		ReturnMenu:     menu.UserMenu,
	}
}
