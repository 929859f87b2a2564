package apperror

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNetwork     Kind = "network"
	KindHTTP        Kind = "http"
	KindDecode      Kind = "decode"
	KindTimeout     Kind = "timeout"
	KindValidation  Kind = "validation"
	KindPersistence Kind = "persistence"
	KindNotFound    Kind = "not_found"
	KindForbidden   Kind = "forbidden"
	KindConflict    Kind = "conflict"
	KindInternal    Kind = "internal"
)

// Error is the typed error carried across package boundaries. Op names the
// operation that failed ("extraction.submit"), StatusCode is only set for
// KindHTTP.
type Error struct {
	Kind       Kind
	Op         string
	Message    string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Op, e.Kind, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func New(kind Kind, op, message string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Cause: cause}
}

func Network(op string, cause error) *Error {
	return New(KindNetwork, op, "vendor unreachable", cause)
}

func HTTP(op string, status int, body string) *Error {
	return &Error{Kind: KindHTTP, Op: op, Message: body, StatusCode: status}
}

func Decode(op, message string, cause error) *Error {
	return New(KindDecode, op, message, cause)
}

func Timeout(op, message string) *Error {
	return New(KindTimeout, op, message, nil)
}

func Validation(op, message string) *Error {
	return New(KindValidation, op, message, nil)
}

func Persistence(op, message string, cause error) *Error {
	return New(KindPersistence, op, message, cause)
}

func NotFound(op, message string) *Error {
	return New(KindNotFound, op, message, nil)
}

func Forbidden(op, message string) *Error {
	return New(KindForbidden, op, message, nil)
}

func Conflict(op, message string) *Error {
	return New(KindConflict, op, message, nil)
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// UserMessage is the message safe to show to an end user.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		switch e.Kind {
		case KindNetwork, KindHTTP, KindDecode:
			return "resume parsing service is unavailable, please try again later"
		case KindTimeout:
			return "resume parsing is taking longer than expected, it will be re-checked later"
		case KindPersistence, KindInternal:
			return "could not save your data, please try again"
		default:
			return e.Message
		}
	}
	return "unexpected error"
}
