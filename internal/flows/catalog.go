package flows

import (
	"context"
	"fmt"
	"strings"

	"baristabot/internal/chat"
	"baristabot/internal/conversation"
	"baristabot/internal/domain"
	"baristabot/internal/menu"
	"baristabot/internal/service"
	"baristabot/internal/wizard"
)

const (
	fieldCategory    = "category"
	fieldUnit        = "unit"
	fieldQuantity    = "quantity"
	fieldQuery       = "query"
	fieldProductID   = "product_id"
	fieldNewCategory = "new_category"
)

func addCatalogItem(d Deps) *wizard.Definition {
	return &wizard.Definition{
		Kind: AddCatalogItem,
		Steps: []wizard.Step{
			{
				Name:  "category",
				Field: fieldCategory,
				Prompt: func(ctx context.Context, _ wizard.Env) (wizard.Prompt, error) {
					categories, err := d.Catalog.Categories(ctx)
					if err != nil {
						return wizard.Prompt{}, err
					}
					return wizard.Prompt{
						Text:     "📂 Выберите категорию или введите новую:",
						Keyboard: rows(categories...),
					}, nil
				},
				Validate: wizard.Text(1, 100),
			},
			{
				Name:     "name",
				Field:    fieldName,
				Prompt:   wizard.StaticPrompt("Введите название товара (2-100 символов):"),
				Validate: unique(wizard.Text(2, 100), d.Catalog.NameTaken, "Товар с таким названием уже есть в каталоге"),
			},
			{
				Name:     "unit",
				Field:    fieldUnit,
				Prompt:   wizard.KeyboardPrompt("Выберите единицу измерения:", domain.Units),
				Validate: wizard.Choice(domain.Units...),
			},
			{
				Name:     "quantity",
				Field:    fieldQuantity,
				Prompt:   wizard.StaticPrompt("Введите стандартное количество:"),
				Validate: wizard.PositiveDecimal(),
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
					f := env.Fields
					return wizard.Prompt{Text: summary("📦 Новый товар:",
						"Категория: "+f.String(fieldCategory),
						"Название: "+f.String(fieldName),
						"Количество: "+f.Decimal(fieldQuantity).String()+" "+f.String(fieldUnit),
						"Описание: "+orDash(f.String(fieldDescription)),
						"",
						"Добавить в каталог?",
					)}, nil
				},
			},
		},
		Commit: func(ctx context.Context, _ int64, f *conversation.Fields) (wizard.Result, error) {
			p, err := d.Catalog.Add(ctx, service.ProductInput{
				Category:        f.String(fieldCategory),
				Name:            f.String(fieldName),
				Unit:            f.String(fieldUnit),
				DefaultQuantity: f.Decimal(fieldQuantity),
				Description:     f.String(fieldDescription),
			})
			if err != nil {
				return wizard.Result{}, err
			}
			return wizard.Result{Message: fmt.Sprintf("✅ Товар «%s» добавлен в категорию «%s»", p.Name, p.Category)}, nil
		},
		FailureMessage: failureMessage,
		ReturnMenu:     menu.CatalogMenu,
	}
}

func productItems(products []domain.Product) []chat.ListItem {
	items := make([]chat.ListItem, 0, len(products))
	for _, p := range products {
		items = append(items, chat.ListItem{
			ID:    p.ID,
			Label: fmt.Sprintf("%s (%s %s)", p.Name, p.DefaultQuantity.String(), p.Unit),
		})
	}
	return items
}

// productQuery searches the catalog; a single hit is selected right away
func productQuery(catalog *service.CatalogService) wizard.Validator {
	text := wizard.Text(1, 100)
	return func(ctx context.Context, in wizard.Input) (any, error) {
		v, err := text(ctx, in)
		if err != nil {
			return nil, err
		}
		query := v.(string)
		found, err := catalog.Search(ctx, query)
		if err != nil {
			return nil, err
		}
		switch len(found) {
		case 0:
			return nil, wizard.Retry("Ничего не найдено, попробуйте другой запрос")
		case 1:
			return wizard.Values{
				{Key: fieldQuery, Value: query},
				{Key: fieldProductID, Value: found[0].ID},
			}, nil
		default:
			return query, nil
		}
	}
}

func productFieldChoice(_ context.Context, in wizard.Input) (any, error) {
	candidate := strings.TrimSpace(in.Text)
	if in.Token != nil {
		candidate = in.Token.Arg
	}
	for _, f := range domain.ProductFields() {
		if strings.EqualFold(candidate, f.Label()) || candidate == string(f) {
			return string(f), nil
		}
	}
	return nil, wizard.Retry("Выберите поле кнопкой")
}

// productFieldValue stores the raw value; the catalog service parses it
func productFieldValue(ctx context.Context, in wizard.Input) (any, error) {
	switch domain.ProductField(in.Fields.String(fieldField)) {
	case domain.ProductFieldName:
		return wizard.Text(2, 100)(ctx, in)
	case domain.ProductFieldUnit:
		return wizard.Choice(domain.Units...)(ctx, in)
	case domain.ProductFieldQuantity:
		v, err := wizard.PositiveDecimal()(ctx, in)
		if err != nil {
			return nil, err
		}
		return fmt.Sprint(v), nil
	case domain.ProductFieldDescription:
		return wizard.Text(1, 500)(ctx, in)
	default:
		return wizard.Text(1, 100)(ctx, in)
	}
}

func editCatalogItem(d Deps) *wizard.Definition {
	fieldLabels := make([]string, 0, len(domain.ProductFields()))
	for _, f := range domain.ProductFields() {
		fieldLabels = append(fieldLabels, f.Label())
	}

	product := wizard.Select("product", fieldProductID, "Найдено несколько товаров, выберите нужный:",
		func(ctx context.Context, env wizard.Env) ([]chat.ListItem, error) {
			found, err := d.Catalog.Search(ctx, env.Fields.String(fieldQuery))
			if err != nil {
				return nil, err
			}
			return productItems(found), nil
		})
	product.Skip = func(f *conversation.Fields) bool { return f.Has(fieldProductID) }

	return &wizard.Definition{
		Kind: EditCatalogItem,
		Steps: []wizard.Step{
			{
				Name:     "query",
				Field:    fieldQuery,
				Prompt:   wizard.StaticPrompt("✏️ Введите название товара для редактирования:"),
				Validate: productQuery(d.Catalog),
			},
			product,
			{
				Name:     "field",
				Field:    fieldField,
				Prompt:   wizard.KeyboardPrompt("Какое поле изменить?", rows(fieldLabels...)...),
				Validate: productFieldChoice,
			},
			{
				Name:  "value",
				Field: fieldValue,
				Prompt: func(_ context.Context, env wizard.Env) (wizard.Prompt, error) {
					field := domain.ProductField(env.Fields.String(fieldField))
					p := wizard.Prompt{Text: fmt.Sprintf("Введите новое значение поля «%s»:", field.Label())}
					if field == domain.ProductFieldUnit {
						p.Keyboard = [][]string{domain.Units}
					}
					return p, nil
				},
				Validate: productFieldValue,
			},
			{
				Name:    "confirm",
				Confirm: true,
				Prompt: func(ctx context.Context, env wizard.Env) (wizard.Prompt, error) {
					p, err := d.Catalog.Get(ctx, env.Fields.Int64(fieldProductID))
					if err != nil {
						return wizard.Prompt{}, err
					}
					field := domain.ProductField(env.Fields.String(fieldField))
					return wizard.Prompt{Text: summary("📝 Проверьте изменения:",
						"Товар: "+p.Name,
						fmt.Sprintf("%s: %s", field.Label(), env.Fields.String(fieldValue)),
						"",
						"Сохранить?",
					)}, nil
				},
			},
		},
		Commit: func(ctx context.Context, _ int64, f *conversation.Fields) (wizard.Result, error) {
			field := domain.ProductField(f.String(fieldField))
			if err := d.Catalog.UpdateField(ctx, f.Int64(fieldProductID), field, f.String(fieldValue)); err != nil {
				return wizard.Result{}, err
			}
			return wizard.Result{Message: fmt.Sprintf("✅ Поле «%s» обновлено", field.Label())}, nil
		},
		FailureMessage: failureMessage,
		ReturnMenu:     menu.CatalogMenu,
	}
}

// categoryStep lists categories by position and stores the chosen name
func categoryStep(catalog *service.CatalogService, name, text string) wizard.Step {
	step := wizard.Select(name, fieldCategory, text,
		func(ctx context.Context, _ wizard.Env) ([]chat.ListItem, error) {
			categories, err := catalog.Categories(ctx)
			if err != nil {
				return nil, err
			}
			items := make([]chat.ListItem, 0, len(categories))
			for i, c := range categories {
				items = append(items, chat.ListItem{ID: int64(i + 1), Label: c})
			}
			return items, nil
		})
	step.Validate = selectedLabel()
	return step
}

func deleteCatalogItem(d Deps) *wizard.Definition {
	return &wizard.Definition{
		Kind: DeleteCatalogItem,
		Steps: []wizard.Step{
			categoryStep(d.Catalog, "category", "🗑️ Выберите категорию:"),
			wizard.Select("product", fieldProductID, "Выберите товар для удаления:",
				func(ctx context.Context, env wizard.Env) ([]chat.ListItem, error) {
					products, err := d.Catalog.ByCategory(ctx, env.Fields.String(fieldCategory))
					if err != nil {
						return nil, err
					}
					return productItems(products), nil
				}),
			{
				Name:    "confirm",
				Confirm: true,
				Prompt: func(ctx context.Context, env wizard.Env) (wizard.Prompt, error) {
					p, err := d.Catalog.Get(ctx, env.Fields.Int64(fieldProductID))
					if err != nil {
						return wizard.Prompt{}, err
					}
					return wizard.Prompt{Text: fmt.Sprintf("Удалить товар «%s» из каталога?", p.Name)}, nil
				},
			},
		},
		Commit: func(ctx context.Context, _ int64, f *conversation.Fields) (wizard.Result, error) {
			if err := d.Catalog.Delete(ctx, f.Int64(fieldProductID)); err != nil {
				return wizard.Result{}, err
			}
			return wizard.Result{Message: "✅ Товар удален из каталога"}, nil
		},
		FailureMessage: failureMessage,
		ReturnMenu:     menu.CatalogMenu,
	}
}

func editCategory(d Deps) *wizard.Definition {
	return &wizard.Definition{
		Kind: EditCategory,
		Steps: []wizard.Step{
			categoryStep(d.Catalog, "category", "📂 Выберите категорию для переименования:"),
			{
				Name:  "new_name",
				Field: fieldNewCategory,
				Prompt: func(_ context.Context, env wizard.Env) (wizard.Prompt, error) {
					return wizard.Prompt{Text: fmt.Sprintf("Введите новое название для «%s»:", env.Fields.String(fieldCategory))}, nil
				},
				Validate: func(ctx context.Context, in wizard.Input) (any, error) {
					v, err := wizard.Text(1, 100)(ctx, in)
					if err != nil {
						return nil, err
					}
					if v.(string) == in.Fields.String(fieldCategory) {
						return nil, wizard.Retry("Новое название совпадает с текущим")
					}
					return v, nil
				},
			},
			{
				Name:    "confirm",
				Confirm: true,
				Prompt: func(_ context.Context, env wizard.Env) (wizard.Prompt, error) {
					return wizard.Prompt{Text: fmt.Sprintf("Переименовать «%s» в «%s»?",
						env.Fields.String(fieldCategory), env.Fields.String(fieldNewCategory))}, nil
				},
			},
		},
		Commit: func(ctx context.Context, _ int64, f *conversation.Fields) (wizard.Result, error) {
			n, err := d.Catalog.RenameCategory(ctx, f.String(fieldCategory), f.String(fieldNewCategory))
			if err != nil {
				return wizard.Result{}, err
			}
			return wizard.Result{Message: fmt.Sprintf("✅ Категория переименована, товаров: %d", n)}, nil
		},
		FailureMessage: failureMessage,
		ReturnMenu:     menu.CatalogMenu,
	}
}
