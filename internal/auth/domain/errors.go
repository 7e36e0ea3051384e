package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures that reach a caller. The HTTP layer maps each
// kind to exactly one status code.
type ErrorKind uint8

const (
	KindInternal ErrorKind = iota
	KindBadCredentials
	KindUnauthorized
	KindBadRefreshToken
	KindNotFound
	KindBadRequest
	KindExpired
	KindWeakPassword
	KindConflict
)

var kindNames = map[ErrorKind]string{
	KindInternal:        "internal",
	KindBadCredentials:  "bad_credentials",
	KindUnauthorized:    "unauthorized",
	KindBadRefreshToken: "bad_refresh_token",
	KindNotFound:        "not_found",
	KindBadRequest:      "bad_request",
	KindExpired:         "expired",
	KindWeakPassword:    "weak_password",
	KindConflict:        "conflict",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Error is a classified failure. Msg is safe to show to the caller; the
// wrapped cause is only ever logged.
type Error struct {
	Kind  ErrorKind
	Msg   string
	Rules []string // unmet password rules, for KindWeakPassword
	Err   error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound)
// holds whatever the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is. Their messages are the defaults used when an
// operation has nothing more specific to say.
var (
	ErrInternal        = &Error{Kind: KindInternal, Msg: "internal server error"}
	ErrBadCredentials  = &Error{Kind: KindBadCredentials, Msg: "invalid email or password"}
	ErrUnauthorized    = &Error{Kind: KindUnauthorized, Msg: "you are not signed in"}
	ErrBadRefreshToken = &Error{Kind: KindBadRefreshToken, Msg: "invalid refresh token"}
	ErrNotFound        = &Error{Kind: KindNotFound, Msg: "not found"}
	ErrBadRequest      = &Error{Kind: KindBadRequest, Msg: "bad request"}
	ErrExpired         = &Error{Kind: KindExpired, Msg: "expired"}
	ErrWeakPassword    = &Error{Kind: KindWeakPassword, Msg: "password does not meet the requirements"}
	ErrConflict        = &Error{Kind: KindConflict, Msg: "already exists"}
)

func NotFound(msg string) error     { return &Error{Kind: KindNotFound, Msg: msg} }
func BadRequest(msg string) error   { return &Error{Kind: KindBadRequest, Msg: msg} }
func Expired(msg string) error      { return &Error{Kind: KindExpired, Msg: msg} }
func Unauthorized(msg string) error { return &Error{Kind: KindUnauthorized, Msg: msg} }
func Conflict(msg string) error     { return &Error{Kind: KindConflict, Msg: msg} }

func WeakPassword(rules []string) error {
	return &Error{Kind: KindWeakPassword, Msg: ErrWeakPassword.Msg, Rules: rules}
}

// Internal wraps an unexpected cause. The caller only ever sees the generic
// message.
func Internal(op string, err error) error {
	return &Error{Kind: KindInternal, Msg: ErrInternal.Msg, Err: fmt.Errorf("%s: %w", op, err)}
}

// KindOf classifies err. Anything that is not an *Error is internal.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// AsError returns the *Error inside err, wrapping foreign errors as internal.
func AsError(err error) *Error {
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	return &Error{Kind: KindInternal, Msg: ErrInternal.Msg, Err: err}
}
