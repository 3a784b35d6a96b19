// Package apperr defines the closed set of request-level failure kinds.
package apperr

import (
	"errors"
	"fmt"
)

// Code identifies a failure kind. Codes are surfaced verbatim to clients.
type Code string

const (
	AuthMissing           Code = "auth-missing"
	AuthInsufficient      Code = "auth-insufficient"
	AuthNoUser            Code = "auth-nouser"
	RequiredUsername      Code = "required-username"
	RequiredFieldsMissing Code = "required-fields-missing"
	RequiredSubject       Code = "required-subject"
	InvalidDate           Code = "invalid-date"
	InvalidFilter         Code = "invalid-filter"
	InvalidRequest        Code = "invalid-request"
	NoSuchID              Code = "noSuchId"
	UserNotFound          Code = "user-not-found"
	SubjectNotFound       Code = "subject-not-found"
	UsernameExists        Code = "username-exists"
	SubjectExists         Code = "subject-exists"
	ExportUnavailable     Code = "export-unavailable"
	ServerError           Code = "server-error"
)

// GenericMessage is shown for failures outside the known kinds.
const GenericMessage = "Something went wrong, please try again"

// Error is an expected, request-local failure.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns an Error with the given code and optional message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf is New with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code to an underlying error.
func Wrap(code Code, err error) *Error {
	return &Error{Code: code, Err: err}
}

// CodeOf extracts the code from err, or ServerError if err carries none.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ServerError
}

// MessageOf returns the client-facing message for err.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return GenericMessage
}

// Is reports whether err carries code.
func Is(err error, code Code) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Code == code
}
