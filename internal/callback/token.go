package callback

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// maxDataLen is Telegram's callback_data limit minus the unique prefix overhead
const maxDataLen = 64

var ErrMalformed = errors.New("malformed callback token")

// Token is a structured inline-button action: what to do, on which entity, with
// an optional argument. It is encoded once when rendered and decoded once when
// the callback arrives.
type Token struct {
	Action string
	ID     int64
	Arg    string
}

// New builds a token
func New(action string, id int64, arg string) Token {
	return Token{Action: action, ID: id, Arg: arg}
}

// Data encodes the payload carried next to the action. The action travels
// separately as the button's unique identifier.
func (t Token) Data() string {
	if t.ID == 0 && t.Arg == "" {
		return ""
	}
	return strconv.FormatInt(t.ID, 10) + "|" + t.Arg
}

// Validate checks the token fits into callback data
func (t Token) Validate() error {
	if t.Action == "" {
		return fmt.Errorf("%w: empty action", ErrMalformed)
	}
	if strings.ContainsAny(t.Action, "|\f") {
		return fmt.Errorf("%w: action %q contains a separator", ErrMalformed, t.Action)
	}
	if n := len(t.Action) + len(t.Data()) + 2; n > maxDataLen {
		return fmt.Errorf("%w: %d bytes", ErrMalformed, n)
	}
	return nil
}

func (t Token) String() string {
	return t.Action + ":" + t.Data()
}

// Decode restores a token from the unique identifier and payload of an
// inline callback. The argument may itself contain separators.
func Decode(action, data string) (Token, error) {
	action = strings.TrimSpace(action)
	if action == "" {
		return Token{}, fmt.Errorf("%w: empty action", ErrMalformed)
	}

	data = strings.TrimSpace(data)
	if data == "" {
		return Token{Action: action}, nil
	}

	idPart, arg, found := strings.Cut(data, "|")
	if !found {
		return Token{}, fmt.Errorf("%w: %q", ErrMalformed, data)
	}

	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return Token{}, fmt.Errorf("%w: id %q", ErrMalformed, idPart)
	}
	return Token{Action: action, ID: id, Arg: arg}, nil
}
