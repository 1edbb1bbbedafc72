package flows

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"baristabot/internal/callback"
	"baristabot/internal/chat"
	"baristabot/internal/conversation"
	"baristabot/internal/domain"
	"baristabot/internal/menu"
	"baristabot/internal/service"
	"baristabot/internal/wizard"
)

const (
	fieldPhone      = "phone"
	fieldBirthday   = "birthday"
	fieldCard       = "card"
	fieldAmount     = "amount"
	fieldSearchMode = "mode"
	customerLimit   = 50
)

func registerCustomer(d Deps) *wizard.Definition {
	return &wizard.Definition{
		Kind: RegisterCustomer,
		Steps: []wizard.Step{
			{
				Name:     "name",
				Field:    fieldName,
				Prompt:   wizard.StaticPrompt("👤 Введите имя клиента:"),
				Validate: wizard.Text(2, 100),
			},
			{
				Name:     "phone",
				Field:    fieldPhone,
				Prompt:   wizard.StaticPrompt("📱 Введите номер телефона (например, +79001234567):"),
				Validate: customerPhone(d.Customers),
			},
			{
				Name:     "birthday",
				Field:    fieldBirthday,
				Prompt:   wizard.KeyboardPrompt("🎂 Введите дату рождения (ДД.ММ.ГГГГ) или нажмите «Пропустить»:", menu.SkipKeyboard()...),
				Validate: birthday(d.now),
			},
			{
				Name:    "confirm",
				Confirm: true,
				Prompt: func(_ context.Context, env wizard.Env) (wizard.Prompt, error) {
					bday := "—"
					if t, ok := env.Fields.Time(fieldBirthday); ok {
						bday = t.Format(domain.BirthdayLayout)
					}
					return wizard.Prompt{Text: summary("📋 Данные клиента:",
						"Имя: "+env.Fields.String(fieldName),
						"Телефон: "+env.Fields.String(fieldPhone),
						"Дата рождения: "+bday,
						"",
						"Зарегистрировать?",
					)}, nil
				},
			},
		},
		Commit: func(ctx context.Context, _ int64, f *conversation.Fields) (wizard.Result, error) {
			in := service.RegistrationInput{
				Name:  f.String(fieldName),
				Phone: f.String(fieldPhone),
			}
			if t, ok := f.Time(fieldBirthday); ok {
				in.Birthday = &t
			}
			c, err := d.Customers.Register(ctx, in)
			if err != nil {
				return wizard.Result{}, err
			}
			return wizard.Result{
				Message: fmt.Sprintf("✅ Клиент %s зарегистрирован\n\n💳 Номер карты: %s", c.Name, c.CardNumber),
				Inline:  menu.CustomerPanel(c.ID, c.IsActive),
			}, nil
		},
		FailureMessage: failureMessage,
		ReturnMenu:     menu.CustomerMenu,
	}
}

func customerPhone(customers *service.CustomerService) wizard.Validator {
	return func(ctx context.Context, in wizard.Input) (any, error) {
		if in.Token != nil {
			return nil, wizard.Retry("Введите номер телефона сообщением")
		}
		phone, err := domain.NormalizePhone(in.Text)
		if err != nil {
			return nil, wizard.Retry("Неверный формат телефона. Пример: +79001234567")
		}
		taken, err := customers.PhoneRegistered(ctx, phone)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, wizard.Retry("Клиент с таким телефоном уже зарегистрирован")
		}
		return phone, nil
	}
}

// birthday stores a time.Time, or an empty string when skipped
func birthday(now func() time.Time) wizard.Validator {
	return func(_ context.Context, in wizard.Input) (any, error) {
		if in.Skip {
			return "", nil
		}
		t, err := domain.ParseBirthday(in.Text, now())
		if err != nil {
			return nil, wizard.Retry("Введите дату в формате ДД.ММ.ГГГГ")
		}
		return t, nil
	}
}

func addPurchase(d Deps) *wizard.Definition {
	return &wizard.Definition{
		Kind: AddPurchase,
		Steps: []wizard.Step{
			{
				Name:     "card",
				Field:    fieldCard,
				Prompt:   wizard.StaticPrompt("💳 Введите номер карты клиента (LBC-XXXX-XXXX-XXXX):"),
				Validate: activeCard(d.Customers),
				Skip:     func(f *conversation.Fields) bool { return f.Has(FieldCustomerID) },
			},
			{
				Name:     "amount",
				Field:    fieldAmount,
				Prompt:   wizard.StaticPrompt("💰 Введите сумму покупки:"),
				Validate: wizard.PositiveDecimal(),
			},
			{
				Name:     "description",
				Field:    fieldDescription,
				Prompt:   wizard.KeyboardPrompt("Введите описание покупки или нажмите «Пропустить»:", menu.SkipKeyboard()...),
				Validate: wizard.OptionalText(500),
			},
			{
				Name:    "confirm",
				Confirm: true,
				Prompt: func(ctx context.Context, env wizard.Env) (wizard.Prompt, error) {
					f := env.Fields
					accrual, err := d.Purchases.Preview(ctx, f.Int64(FieldCustomerID), f.Decimal(fieldAmount))
					if err != nil {
						return wizard.Prompt{}, err
					}
					name := f.String(FieldCustomerName)
					if name == "" {
						name = fmt.Sprintf("#%d", f.Int64(FieldCustomerID))
					}
					return wizard.Prompt{Text: summary("🧾 Покупка:",
						"Клиент: "+name,
						"Сумма: "+money(f.Decimal(fieldAmount)),
						"Описание: "+orDash(f.String(fieldDescription)),
						fmt.Sprintf("Будет начислено: %s (%s%%)", money(accrual.Bonus), accrual.Percent.String()),
						"",
						"Провести покупку?",
					)}, nil
				},
			},
		},
		Commit: func(ctx context.Context, userID int64, f *conversation.Fields) (wizard.Result, error) {
			res, err := d.Purchases.Record(ctx, service.PurchaseInput{
				CustomerID:  f.Int64(FieldCustomerID),
				Amount:      f.Decimal(fieldAmount),
				Description: f.String(fieldDescription),
				OperatorID:  userID,
			})
			if err != nil {
				return wizard.Result{}, err
			}
			return wizard.Result{Message: summary(fmt.Sprintf("✅ Покупка #%d проведена", res.Purchase.ID),
				"Сумма: "+money(res.Purchase.Amount),
				fmt.Sprintf("Начислено бонусов: %s (%s%%)", money(res.Accrual.Bonus), res.Accrual.Percent.String()),
				"Доступно бонусов: "+money(res.Customer.AvailableBonuses),
			)}, nil
		},
		FailureMessage: failureMessage,
		ReturnMenu:     menu.CustomerMenu,
	}
}

// activeCard resolves a card number to an active customer
func activeCard(customers *service.CustomerService) wizard.Validator {
	text := wizard.Text(1, 30)
	return func(ctx context.Context, in wizard.Input) (any, error) {
		v, err := text(ctx, in)
		if err != nil {
			return nil, err
		}
		c, err := customers.ActiveByCard(ctx, v.(string))
		if errors.Is(err, domain.ErrNotFound) {
			return nil, wizard.Retry("Активный клиент с такой картой не найден")
		}
		if err != nil {
			return nil, err
		}
		return wizard.Values{
			{Key: fieldCard, Value: c.CardNumber},
			{Key: FieldCustomerID, Value: c.ID},
			{Key: FieldCustomerName, Value: c.Name},
		}, nil
	}
}

var searchModes = []struct {
	label string
	mode  domain.CustomerSearchMode
}{
	{menu.SearchByCard, domain.SearchByCard},
	{menu.SearchByPhone, domain.SearchByPhone},
	{menu.SearchByName, domain.SearchByName},
	{menu.SearchByID, domain.SearchByID},
}

func searchModeChoice(_ context.Context, in wizard.Input) (any, error) {
	candidate := strings.TrimSpace(in.Text)
	if in.Token != nil {
		candidate = in.Token.Arg
	}
	for _, m := range searchModes {
		if candidate == m.label || candidate == string(m.mode) {
			return string(m.mode), nil
		}
	}
	return nil, wizard.Retry("Выберите способ поиска кнопкой")
}

func searchQuery(ctx context.Context, in wizard.Input) (any, error) {
	if domain.CustomerSearchMode(in.Fields.String(fieldSearchMode)) == domain.SearchByID {
		id, err := strconv.ParseInt(strings.TrimSpace(in.Text), 10, 64)
		if err != nil || id <= 0 {
			return nil, wizard.Retry("ID должен быть положительным целым числом")
		}
		return strconv.FormatInt(id, 10), nil
	}
	return wizard.Text(1, 100)(ctx, in)
}

func searchCustomer(d Deps) *wizard.Definition {
	labels := make([]string, 0, len(searchModes))
	for _, m := range searchModes {
		labels = append(labels, m.label)
	}

	return &wizard.Definition{
		Kind: SearchCustomer,
		Steps: []wizard.Step{
			{
				Name:     "mode",
				Field:    fieldSearchMode,
				Prompt:   wizard.KeyboardPrompt("🔍 Выберите способ поиска:", rows(labels...)...),
				Validate: searchModeChoice,
			},
			{
				Name:     "query",
				Field:    fieldQuery,
				Prompt:   wizard.StaticPrompt("Введите запрос для поиска:"),
				Validate: searchQuery,
			},
		},
		Commit: func(ctx context.Context, userID int64, f *conversation.Fields) (wizard.Result, error) {
			query := f.String(fieldQuery)
			found, err := d.Customers.Search(ctx, domain.CustomerSearchMode(f.String(fieldSearchMode)), query)
			if err != nil {
				return wizard.Result{}, err
			}
			if len(found) == 0 {
				return wizard.Result{Message: "🔍 Клиенты не найдены"}, nil
			}

			items := make([]chat.ListItem, 0, len(found))
			buttons := make([][]chat.Button, 0, len(found))
			lines := make([]string, 0, len(found))
			for i, c := range found {
				label := CustomerLabel(c)
				items = append(items, chat.ListItem{ID: c.ID, Label: label})
				buttons = append(buttons, []chat.Button{{Text: label, Token: callback.New(menu.ActCustomerShow, c.ID, "")}})
				lines = append(lines, fmt.Sprintf("%d. %s", i+1, label))
			}
			if d.Lists != nil {
				d.Lists.Set(userID, conversation.ListContext{
					Name:       menu.CustomerList,
					Query:      query,
					Items:      items,
					ShowAction: menu.ActCustomerShow,
				})
			}
			return wizard.Result{
				Message: summary(fmt.Sprintf("🔍 Найдено клиентов: %d", len(found)), lines...),
				Inline:  buttons,
			}, nil
		},
		FailureMessage: failureMessage,
		ReturnMenu:     menu.CustomerMenu,
	}
}

func setCustomerStatus(d Deps) *wizard.Definition {
	pick := wizard.Select("customer", FieldCustomerID, "Выберите клиента:",
		func(ctx context.Context, env wizard.Env) ([]chat.ListItem, error) {
			target := env.Fields.Bool(FieldActive)
			customers, err := d.Customers.List(ctx, customerLimit)
			if err != nil {
				return nil, err
			}
			items := make([]chat.ListItem, 0, len(customers))
			for _, c := range customers {
				if c.IsActive != target {
					items = append(items, chat.ListItem{ID: c.ID, Label: CustomerLabel(c)})
				}
			}
			return items, nil
		})
	pick.Skip = func(f *conversation.Fields) bool { return f.Has(FieldCustomerID) }

	return &wizard.Definition{
		Kind: SetCustomerStatus,
		Init: func(_ context.Context, _ int64, f *conversation.Fields) error {
			if !f.Has(FieldActive) {
				return fmt.Errorf("customer status wizard started without %q", FieldActive)
			}
			return nil
		},
		Steps: []wizard.Step{
			pick,
			{
				Name:    "confirm",
				Confirm: true,
				Prompt: func(ctx context.Context, env wizard.Env) (wizard.Prompt, error) {
					c, err := d.Customers.Get(ctx, env.Fields.Int64(FieldCustomerID))
					if err != nil {
						return wizard.Prompt{}, err
					}
					verb := "Деактивировать"
					if env.Fields.Bool(FieldActive) {
						verb = "Активировать"
					}
					return wizard.Prompt{Text: fmt.Sprintf("%s клиента %s (%s)?", verb, c.Name, c.CardNumber)}, nil
				},
			},
		},
		Commit: func(ctx context.Context, _ int64, f *conversation.Fields) (wizard.Result, error) {
			active := f.Bool(FieldActive)
			if err := d.Customers.SetActive(ctx, f.Int64(FieldCustomerID), active); err != nil {
				return wizard.Result{}, err
			}
			if active {
				return wizard.Result{Message: "✅ Клиент активирован"}, nil
			}
			return wizard.Result{Message: "✅ Клиент деактивирован"}, nil
		},
		FailureMessage: failureMessage,
		ReturnMenu:     menu.CustomerMenu,
	}
}
