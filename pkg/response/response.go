package response

import (
	"errors"
)

// Error is a domain error carrying the HTTP status it maps to.
type Error struct {
	Code int
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	var t *Error
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Err.Error() == t.Err.Error()
}

func NewError(code int, err string) error {
	return &Error{code, errors.New(err)}
}

// Wrap keeps the code and message of a domain error while attaching the cause,
// so errors.Is still matches the declared sentinel.
func Wrap(domainErr error, cause error) error {
	var respErr *Error
	if !errors.As(domainErr, &respErr) || cause == nil {
		return domainErr
	}
	return &wrappedError{domain: respErr, cause: cause}
}

type wrappedError struct {
	domain *Error
	cause  error
}

func (w *wrappedError) Error() string {
	return w.domain.Error() + ": " + w.cause.Error()
}

func (w *wrappedError) Unwrap() []error {
	return []error{w.domain, w.cause}
}
