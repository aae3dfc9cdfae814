package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an application error by how a caller should react. The HTTP
// layer maps each kind to exactly one status code; everything unclassified is
// internal.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindRateLimited
)

// AppError carries a machine-readable code for API clients, a human message,
// and the wrapped cause for logs. Code values are stable API contract; Message
// is not.
type AppError struct {
	Kind    Kind   `json:"-"`
	Code    string `json:"error"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *AppError) StatusCode() int {
	if e == nil {
		return http.StatusInternalServerError
	}
	switch e.Kind {
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
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, code, msg string, err error) *AppError {
	return &AppError{Kind: kind, Code: code, Message: msg, Err: err}
}

func BadRequest(code, msg string, err error) *AppError {
	return New(KindBadRequest, code, msg, err)
}

func Unauthorized(code, msg string, err error) *AppError {
	return New(KindUnauthorized, code, msg, err)
}

func Forbidden(code, msg string, err error) *AppError {
	return New(KindForbidden, code, msg, err)
}

func NotFound(code, msg string, err error) *AppError {
	return New(KindNotFound, code, msg, err)
}

func Conflict(code, msg string, err error) *AppError {
	return New(KindConflict, code, msg, err)
}

func RateLimited(code, msg string, err error) *AppError {
	return New(KindRateLimited, code, msg, err)
}

func Internal(code, msg string, err error) *AppError {
	return New(KindInternal, code, msg, err)
}

// FromError returns err's AppError if it carries one anywhere in its chain,
// otherwise wraps it as internal so no raw error text reaches a client.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("internal_error", http.StatusText(http.StatusInternalServerError), err)
}
