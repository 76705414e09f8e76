package server

import (
	"errors"
	"fmt"
)

var (
	ErrInternalServerError = errors.New("internal server error")
	ErrNotFound            = errors.New("vertex or road not found")
	ErrConflict            = errors.New("conflicts with the engine state")
	ErrBadParamInput       = errors.New("invalid road network parameter")
)

// Error carries a user facing message and one of the sentinel codes above on top of the original error.
type Error struct {
	orig error
	msg  string
	code error
}

func (e *Error) Error() string {
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.orig
}

// Is matches the code, so errors.Is(err, ErrNotFound) works through wrapping.
func (e *Error) Is(target error) bool {
	return e.code == target
}

func (e *Error) Code() error {
	return e.code
}

func (e *Error) Message() string {
	return e.msg
}

func WrapErrorf(orig error, code error, format string, a ...interface{}) error {
	return &Error{
		code: code,
		orig: orig,
		msg:  fmt.Sprintf(format, a...),
	}
}

func NewErrorf(code error, format string, a ...interface{}) error {
	return WrapErrorf(nil, code, format, a...)
}
