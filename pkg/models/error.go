package models

import (
	"errors"
	"fmt"
)

type errorCode string

const (
	ErrInternal errorCode = "internal"
	ErrInvalid  errorCode = "invalid"
	ErrNotFound errorCode = "not_found"
)

// Error is an application error surfaced to the user
type Error struct {
	// Code is a machine-readable error code
	Code errorCode

	// Description is a human-readable description of the error
	Description string
}

func (e *Error) Error() string {
	return "desk-alarm: " + string(e.Code) + ": " + e.Description
}

// Errorf builds an application error with the given code
func Errorf(code errorCode, format string, args ...any) error {
	return &Error{code, fmt.Sprintf(format, args...)}
}

// ErrorCode returns the code attached to err, or ErrInternal if err is not an
// application error.
func ErrorCode(err error) errorCode {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Code != "" {
		return e.Code
	}
	return ErrInternal
}

// ErrorDescription returns the human-readable part of err, or "internal error"
// if err is not an application error.
func ErrorDescription(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Description != "" {
		return e.Description
	}
	return "internal error"
}
