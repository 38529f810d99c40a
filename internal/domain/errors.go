package domain

import "errors"

var (
	ErrValidation        = errors.New("validation failed")
	ErrConflict          = errors.New("conflict")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNotFound          = errors.New("not found")
	ErrMailerUnavailable = errors.New("email not configured")
)

// DetailError keeps a user-facing message while matching a sentinel with
// errors.Is.
type DetailError struct {
	Kind   error
	Detail string
}

func (e *DetailError) Error() string { return e.Detail }
func (e *DetailError) Unwrap() error { return e.Kind }

func Validation(detail string) error {
	return &DetailError{Kind: ErrValidation, Detail: detail}
}

func Conflict(detail string) error {
	return &DetailError{Kind: ErrConflict, Detail: detail}
}

func NotFound(detail string) error {
	return &DetailError{Kind: ErrNotFound, Detail: detail}
}
