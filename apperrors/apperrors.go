package apperrors

import (
	"errors"
	"net/http"
)

type Kind struct {
	Code   string `json:"code"`
	Status int    `json:"status"`
}

var (
	KindValidation     = Kind{"validation_error", http.StatusBadRequest}
	KindDuplicateEmail = Kind{"duplicate_email", http.StatusConflict}
	KindUnauthorized   = Kind{"unauthorized", http.StatusUnauthorized}
	KindForbidden      = Kind{"forbidden", http.StatusForbidden}
	KindNotFound       = Kind{"not_found", http.StatusNotFound}
	KindRateLimited    = Kind{"rate_limited", http.StatusTooManyRequests}
	KindInternal       = Kind{"internal_error", http.StatusInternalServerError}
)

// Sentinels for errors.Is. Every *Error matches the sentinel of its kind.
var (
	ErrValidation     = &Error{Kind: KindValidation, Message: "validation error"}
	ErrDuplicateEmail = &Error{Kind: KindDuplicateEmail, Message: "user with this email already exists"}
	ErrUnauthorized   = &Error{Kind: KindUnauthorized, Message: "unauthorized"}
	ErrForbidden      = &Error{Kind: KindForbidden, Message: "forbidden"}
	ErrNotFound       = &Error{Kind: KindNotFound, Message: "not found"}
	ErrRateLimited    = &Error{Kind: KindRateLimited, Message: "rate limit exceeded"}
	ErrInternal       = &Error{Kind: KindInternal, Message: "something went wrong"}
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func New(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func Validation(msg string) error {
	return New(KindValidation, msg, nil)
}

func DuplicateEmail(email string) error {
	return New(KindDuplicateEmail, "user with email "+email+" already exists", nil)
}

func Unauthorized(msg string, err error) error {
	return New(KindUnauthorized, msg, err)
}

func Forbidden(msg string) error {
	return New(KindForbidden, msg, nil)
}

func NotFound(msg string) error {
	return New(KindNotFound, msg, nil)
}

func RateLimited(msg string) error {
	return New(KindRateLimited, msg, nil)
}

func Internal(msg string, err error) error {
	return New(KindInternal, msg, err)
}

// KindOf returns the kind of err, or KindInternal for errors outside the taxonomy.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// PublicMessage is what may be shown to the caller. Internal causes stay hidden.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return ErrInternal.Message
}
