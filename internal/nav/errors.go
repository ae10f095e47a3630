package nav

import (
	"errors"
	"fmt"
)

// Sentinels for each user-facing failure class. Match them with errors.Is.
var (
	ErrEnvironment    = errors.New("environment")
	ErrClassification = errors.New("classification")
	ErrPattern        = errors.New("pattern")
	ErrHeuristicMiss  = errors.New("heuristic miss")
	ErrNotFound       = errors.New("not found")
)

// Error is a terminal navigation failure carrying the message shown to the
// user. None of these are retried.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(kind error, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: cause}
}

// KindName returns a stable label for err's failure class, or "internal"
// when err did not come from navigation.
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrEnvironment):
		return "environment"
	case errors.Is(err, ErrClassification):
		return "classification"
	case errors.Is(err, ErrPattern):
		return "pattern"
	case errors.Is(err, ErrHeuristicMiss):
		return "heuristic_miss"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "internal"
	}
}
