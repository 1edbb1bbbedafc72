package wizard

import "errors"

// RetryError asks the user to repeat the current step
type RetryError struct {
	Reason string
}

func (e *RetryError) Error() string {
	return "retry: " + e.Reason
}

// Retry builds a RetryError
func Retry(reason string) error {
	return &RetryError{Reason: reason}
}

// IsRetry reports whether err asks for another attempt
func IsRetry(err error) (*RetryError, bool) {
	var r *RetryError
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

// Outcome is the result of handling one input
type Outcome int

const (
	NoActive Outcome = iota
	Retried
	Advanced
	Committed
	Cancelled
	Declined
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Retried:
		return "retried"
	case Advanced:
		return "advanced"
	case Committed:
		return "committed"
	case Cancelled:
		return "cancelled"
	case Declined:
		return "declined"
	case Failed:
		return "failed"
	default:
		return "no_active"
	}
}

// Terminal reports whether the wizard is gone after this outcome
func (o Outcome) Terminal() bool {
	return o == Committed || o == Cancelled || o == Declined || o == Failed
}
