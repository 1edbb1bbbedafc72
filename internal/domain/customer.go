package domain

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a loyalty program member
type Customer struct {
	ID               int64
	UserID           *int64
	Name             string
	Phone            string
	Birthday         *time.Time
	CardNumber       string
	RegisteredAt     time.Time
	IsActive         bool
	BonusProgramID   *int64
	TotalPurchases   decimal.Decimal
	TotalBonuses     decimal.Decimal
	AvailableBonuses decimal.Decimal
}

// Purchase is a single recorded purchase with the bonus it earned
type Purchase struct {
	ID          int64
	CustomerID  int64
	Amount      decimal.Decimal
	BonusEarned decimal.Decimal
	Description string
	OperatorID  int64
	CreatedAt   time.Time
}

// BonusTransactionType classifies bonus ledger entries
type BonusTransactionType string

const (
	BonusEarned  BonusTransactionType = "earned"
	BonusSpent   BonusTransactionType = "spent"
	BonusExpired BonusTransactionType = "expired"
)

// CustomerSearchMode selects which customer attribute a search matches
type CustomerSearchMode string

const (
	SearchByCard  CustomerSearchMode = "card"
	SearchByPhone CustomerSearchMode = "phone"
	SearchByName  CustomerSearchMode = "name"
	SearchByID    CustomerSearchMode = "id"
)

// NormalizePhone strips separators and renders the number in +7 form.
// Numbers shorter than ten digits are rejected.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' || r == '-' || r == ' ' || r == '(' || r == ')':
		default:
			return "", fmt.Errorf("%w: phone contains %q", ErrInvalidInput, r)
		}
	}

	digits := b.String()
	switch {
	case len(digits) < 10 || len(digits) > 15:
		return "", fmt.Errorf("%w: phone length %d", ErrInvalidInput, len(digits))
	case len(digits) == 11 && (digits[0] == '7' || digits[0] == '8'):
		return "+7" + digits[1:], nil
	case len(digits) == 10:
		return "+7" + digits, nil
	default:
		return "+" + digits, nil
	}
}

// CardNumberPrefix starts every loyalty card number
const CardNumberPrefix = "LBC"

// NewCardNumber builds a random card number in LBC-XXXX-XXXX-XXXX form
func NewCardNumber(rnd *rand.Rand) string {
	digits := make([]byte, 12)
	for i := range digits {
		digits[i] = byte('0' + rnd.Intn(10))
	}
	return fmt.Sprintf("%s-%s-%s-%s", CardNumberPrefix, digits[0:4], digits[4:8], digits[8:12])
}

// BirthdayLayout is the accepted birthday input format
const BirthdayLayout = "02.01.2006"

// ParseBirthday parses dd.mm.yyyy and rejects future dates
func ParseBirthday(s string, now time.Time) (time.Time, error) {
	t, err := time.Parse(BirthdayLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: birthday %q", ErrInvalidInput, s)
	}
	if t.After(now) || t.Year() < 1900 {
		return time.Time{}, fmt.Errorf("%w: birthday out of range", ErrInvalidInput)
	}
	return t, nil
}
