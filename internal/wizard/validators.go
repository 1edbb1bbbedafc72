package wizard

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"baristabot/internal/chat"

	"github.com/shopspring/decimal"
)

// Validator is the signature every step validator has
type Validator func(ctx context.Context, in Input) (any, error)

// ParseDecimal accepts "1 000,50" style input
func ParseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty number")
	}
	return decimal.NewFromString(s)
}

// Text accepts trimmed text with a rune length in [min, max]
func Text(min, max int) Validator {
	return func(_ context.Context, in Input) (any, error) {
		s := strings.TrimSpace(in.Text)
		n := utf8.RuneCountInString(s)
		switch {
		case in.Token != nil:
			return nil, Retry("Введите текст сообщением")
		case in.Skip:
			return nil, Retry("Это поле обязательное, его нельзя пропустить")
		case n < min:
			return nil, Retry(fmt.Sprintf("Слишком коротко: минимум %d символов", min))
		case max > 0 && n > max:
			return nil, Retry(fmt.Sprintf("Слишком длинно: максимум %d символов", max))
		}
		return s, nil
	}
}

// OptionalText is Text that also accepts the skip token as an empty value
func OptionalText(max int) Validator {
	text := Text(1, max)
	return func(ctx context.Context, in Input) (any, error) {
		if in.Skip {
			return "", nil
		}
		return text(ctx, in)
	}
}

// PositiveDecimal accepts numbers strictly greater than zero
func PositiveDecimal() Validator {
	return func(_ context.Context, in Input) (any, error) {
		d, err := ParseDecimal(in.Text)
		if err != nil {
			return nil, Retry("Введите число")
		}
		if !d.IsPositive() {
			return nil, Retry("Число должно быть больше нуля")
		}
		return d, nil
	}
}

// Percent accepts numbers in [0, 100]
func Percent() Validator {
	hundred := decimal.NewFromInt(100)
	return func(_ context.Context, in Input) (any, error) {
		d, err := ParseDecimal(in.Text)
		if err != nil {
			return nil, Retry("Введите число от 0 до 100")
		}
		if d.IsNegative() || d.GreaterThan(hundred) {
			return nil, Retry("Процент должен быть от 0 до 100")
		}
		return d, nil
	}
}

func parseWhole(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	return strconv.ParseInt(s, 10, 64)
}

// PositiveInt accepts whole numbers greater than zero
func PositiveInt() Validator {
	return func(_ context.Context, in Input) (any, error) {
		n, err := parseWhole(in.Text)
		if err != nil {
			return nil, Retry("Введите целое число")
		}
		if n <= 0 {
			return nil, Retry("Сумма должна быть больше нуля")
		}
		return n, nil
	}
}

// NonNegativeInt accepts whole numbers from zero
func NonNegativeInt() Validator {
	return func(_ context.Context, in Input) (any, error) {
		n, err := parseWhole(in.Text)
		if err != nil {
			return nil, Retry("Введите целое число")
		}
		if n < 0 {
			return nil, Retry("Сумма не может быть отрицательной")
		}
		return n, nil
	}
}

// Choice accepts one of options, typed or sent as an inline choose token
// carrying the option as its argument.
func Choice(options ...string) Validator {
	return func(_ context.Context, in Input) (any, error) {
		candidate := strings.TrimSpace(in.Text)
		if in.Token != nil {
			candidate = in.Token.Arg
		}
		for _, o := range options {
			if strings.EqualFold(candidate, o) {
				return o, nil
			}
		}
		return nil, Retry("Выберите один из предложенных вариантов")
	}
}

// Selected resolves a pick from the list this step rendered: an inline pick
// token with a listed ID, or a typed 1-based position.
func Selected(in Input) (chat.ListItem, error) {
	if in.Choices == nil {
		return chat.ListItem{}, Retry("Список устарел, выберите снова")
	}

	if in.Token != nil {
		if in.Token.Action != ActionPick || in.Token.Arg != in.Choices.Name {
			return chat.ListItem{}, Retry("Эта кнопка относится к другому шагу")
		}
		item, ok := in.Choices.ByID(in.Token.ID)
		if !ok {
			return chat.ListItem{}, Retry("Такого варианта нет в списке")
		}
		return item, nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(in.Text))
	if err != nil {
		return chat.ListItem{}, Retry(fmt.Sprintf("Введите номер от 1 до %d", len(in.Choices.Items)))
	}
	item, ok := in.Choices.ByPosition(n)
	if !ok {
		return chat.ListItem{}, Retry(fmt.Sprintf("Введите номер от 1 до %d", len(in.Choices.Items)))
	}
	return item, nil
}

// SelectID stores the selected item's ID
func SelectID() Validator {
	return func(_ context.Context, in Input) (any, error) {
		item, err := Selected(in)
		if err != nil {
			return nil, err
		}
		return item.ID, nil
	}
}

// Select builds a bounded selection step over items loaded at prompt time
func Select(name, field, text string, load func(ctx context.Context, env Env) ([]chat.ListItem, error)) Step {
	return Step{
		Name:  name,
		Field: field,
		Prompt: func(ctx context.Context, env Env) (Prompt, error) {
			items, err := load(ctx, env)
			if err != nil {
				return Prompt{}, err
			}
			return Prompt{
				Text: text,
				List: &PromptList{Items: items, Footer: "Отправьте номер или нажмите кнопку"},
			}, nil
		},
		Validate: SelectID(),
	}
}

// StaticPrompt returns a prompt builder with fixed text
func StaticPrompt(text string) func(ctx context.Context, env Env) (Prompt, error) {
	return func(context.Context, Env) (Prompt, error) {
		return Prompt{Text: text}, nil
	}
}

// KeyboardPrompt returns a prompt builder with fixed text and reply keyboard rows
func KeyboardPrompt(text string, rows ...[]string) func(ctx context.Context, env Env) (Prompt, error) {
	return func(context.Context, Env) (Prompt, error) {
		return Prompt{Text: text, Keyboard: rows}, nil
	}
}
