// Package apperr defines the typed errors services return and handlers map to HTTP statuses.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindTooManyRequests
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindTooManyRequests:
		return "too_many_requests"
	default:
		return "internal"
	}
}

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a kind, a client-facing detail and an optional cause.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Detail + ": " + e.Err.Error()
	}
	return e.Detail
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrBadRequest      = &Error{Kind: KindBadRequest, Detail: "bad request"}
	ErrUnauthorized    = &Error{Kind: KindUnauthorized, Detail: "Could not validate credentials"}
	ErrForbidden       = &Error{Kind: KindForbidden, Detail: "forbidden"}
	ErrNotFound        = &Error{Kind: KindNotFound, Detail: "not found"}
	ErrConflict        = &Error{Kind: KindConflict, Detail: "conflict"}
	ErrTooManyRequests = &Error{Kind: KindTooManyRequests, Detail: "too many requests"}
	ErrInternal        = &Error{Kind: KindInternal, Detail: "internal server error"}
)

func BadRequest(detail string) error      { return &Error{Kind: KindBadRequest, Detail: detail} }
func Unauthorized(detail string) error    { return &Error{Kind: KindUnauthorized, Detail: detail} }
func Forbidden(detail string) error       { return &Error{Kind: KindForbidden, Detail: detail} }
func NotFound(detail string) error        { return &Error{Kind: KindNotFound, Detail: detail} }
func Conflict(detail string) error        { return &Error{Kind: KindConflict, Detail: detail} }
func TooManyRequests(detail string) error { return &Error{Kind: KindTooManyRequests, Detail: detail} }

// Internal wraps an unexpected cause. The cause never reaches the client.
func Internal(err error) error {
	return &Error{Kind: KindInternal, Detail: "internal server error", Err: err}
}

// KindOf returns the kind of err, KindInternal for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// DetailOf returns the client-facing message for err.
func DetailOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Detail
	}
	return ErrInternal.Detail
}
