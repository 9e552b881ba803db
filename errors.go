package hosting

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorCode uint16

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeSignatureMismatch
	ErrCodeIncompatibleContainerFactory
	ErrCodeTypeMismatch
	ErrCodeAlreadyBuilt
	ErrCodeInvalidArgument
	ErrCodeStartupNotFound
)

var codeNames = map[ErrorCode]string{
	ErrCodeUnknown:                      "UNKNOWN",
	ErrCodeSignatureMismatch:            "SIGNATURE_MISMATCH",
	ErrCodeIncompatibleContainerFactory: "INCOMPATIBLE_CONTAINER_FACTORY",
	ErrCodeTypeMismatch:                 "TYPE_MISMATCH",
	ErrCodeAlreadyBuilt:                 "ALREADY_BUILT",
	ErrCodeInvalidArgument:              "INVALID_ARGUMENT",
	ErrCodeStartupNotFound:              "STARTUP_NOT_FOUND",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", c)
}

// Error is returned for every failure raised by the bootstrap machinery itself.
// Errors produced by startup or factory code are never converted to *Error.
type Error struct {
	Code    ErrorCode
	Message string
	Method  string
	Cause   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s]", e.Code))

	if e.Method != "" {
		b.WriteString(fmt.Sprintf(" method=%s:", e.Method))
	}

	b.WriteString(" ")
	b.WriteString(e.Message)

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func (e *Error) WithMethod(method string) *Error {
	e.Method = method
	return e
}

func newError(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func errSignatureMismatch(method, expected string) *Error {
	return newError(
		ErrCodeSignatureMismatch,
		fmt.Sprintf("method must have the shape %s", expected),
		nil,
	).WithMethod(method)
}

func errIncompatibleFactory(declared, actual string) *Error {
	return newError(
		ErrCodeIncompatibleContainerFactory,
		fmt.Sprintf("startup declares container builder %s, active factory builds %s", declared, actual),
		nil,
	)
}

func errTypeMismatch(expected, actual string) *Error {
	return newError(
		ErrCodeTypeMismatch,
		fmt.Sprintf("container builder is %s, factory expects %s", actual, expected),
		nil,
	)
}

func errAlreadyBuilt() *Error {
	return newError(ErrCodeAlreadyBuilt, "build sequence already ran for this startup", nil)
}

func errInvalidArgument(message string) *Error {
	return newError(ErrCodeInvalidArgument, message, nil)
}

// ErrStartupNotFound reports a startup name nobody registered.
func ErrStartupNotFound(name string) *Error {
	return newError(ErrCodeStartupNotFound, fmt.Sprintf("no startup registered as %q", name), nil)
}

func IsSignatureMismatch(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeSignatureMismatch
}

func IsIncompatibleContainerFactory(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeIncompatibleContainerFactory
}

func IsTypeMismatch(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeTypeMismatch
}

func IsAlreadyBuilt(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeAlreadyBuilt
}

func IsStartupNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeStartupNotFound
}
