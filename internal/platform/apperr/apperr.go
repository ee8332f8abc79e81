package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an AppError independently of the transport that reports it.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindPermissionDenied
	KindNotFound
	KindConflict
	KindRateLimited
	KindUnavailable
)

var kindStatus = map[Kind]int{
	KindInternal:         http.StatusInternalServerError,
	KindBadRequest:       http.StatusBadRequest,
	KindUnauthorized:     http.StatusUnauthorized,
	KindPermissionDenied: http.StatusForbidden,
	KindNotFound:         http.StatusNotFound,
	KindConflict:         http.StatusConflict,
	KindRateLimited:      http.StatusTooManyRequests,
	KindUnavailable:      http.StatusServiceUnavailable,
}

type AppError struct {
	Code    string `json:"error"`
	Message string `json:"message"`
	Err     error  `json:"-"`
	kind    Kind
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
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.StatusCode())
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *AppError) Kind() Kind {
	if e == nil {
		return KindInternal
	}
	return e.kind
}

func (e *AppError) StatusCode() int {
	if e == nil {
		return http.StatusInternalServerError
	}
	if s, ok := kindStatus[e.kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

func BadRequest(code, msg string, err error) *AppError {
	return newAppError(code, msg, err, KindBadRequest)
}

func NotFound(code, msg string, err error) *AppError {
	return newAppError(code, msg, err, KindNotFound)
}

func Conflict(code, msg string, err error) *AppError {
	return newAppError(code, msg, err, KindConflict)
}

func Unauthorized(code, msg string, err error) *AppError {
	return newAppError(code, msg, err, KindUnauthorized)
}

func Forbidden(code, msg string, err error) *AppError {
	return newAppError(code, msg, err, KindPermissionDenied)
}

func TooManyRequests(code, msg string, err error) *AppError {
	return newAppError(code, msg, err, KindRateLimited)
}

func Unavailable(code, msg string, err error) *AppError {
	return newAppError(code, msg, err, KindUnavailable)
}

func Internal(code, msg string, err error) *AppError {
	return newAppError(code, msg, err, KindInternal)
}

// KindOf reports the kind of the first AppError in err's chain, KindInternal otherwise.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.kind
	}
	return KindInternal
}

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

func newAppError(code, msg string, err error, kind Kind) *AppError {
	return &AppError{
		Code:    code,
		Message: msg,
		Err:     err,
		kind:    kind,
	}
}
