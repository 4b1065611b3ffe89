package errs

import (
	"errors"
	"fmt"
	"strings"
)

type Code uint16

const (
	CodeUnknown Code = iota
	CodeInvalidBinding
	CodeUnresolvedDependency
	CodePropertyTypeMismatch
	CodePropertyNotFound
	CodeObjectDisposed
	CodeInvalidOperation
	CodeCyclicDependency
	CodeActivationFailed
	CodeInvalidConfiguration
	CodeModuleApplyFailed
	CodeValidationFailed
)

var codeNames = map[Code]string{
	CodeUnknown:              "UNKNOWN",
	CodeInvalidBinding:       "INVALID_BINDING",
	CodeUnresolvedDependency: "UNRESOLVED_DEPENDENCY",
	CodePropertyTypeMismatch: "PROPERTY_TYPE_MISMATCH",
	CodePropertyNotFound:     "PROPERTY_NOT_FOUND",
	CodeObjectDisposed:       "OBJECT_DISPOSED",
	CodeInvalidOperation:     "INVALID_OPERATION",
	CodeCyclicDependency:     "CYCLIC_DEPENDENCY",
	CodeActivationFailed:     "ACTIVATION_FAILED",
	CodeInvalidConfiguration: "INVALID_CONFIGURATION",
	CodeModuleApplyFailed:    "MODULE_APPLY_FAILED",
	CodeValidationFailed:     "VALIDATION_FAILED",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", c)
}

// Error is the single error type produced by the container. Service names the
// type or key the failure is about.
type Error struct {
	Code    Code
	Message string
	Service string
	Cause   error
	Stack   []string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s]", e.Code))

	if e.Service != "" {
		b.WriteString(fmt.Sprintf(" service=%q:", e.Service))
	}

	b.WriteString(" ")
	b.WriteString(e.Message)

	if len(e.Stack) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(e.Stack, " -> "))
		b.WriteString(")")
	}

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

func (e *Error) WithService(service string) *Error {
	e.Service = service
	return e
}

func (e *Error) WithStack(stack []string) *Error {
	e.Stack = stack
	return e
}

func New(code Code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...), nil)
}

// HasCode reports whether err, or any error it wraps, is an *Error carrying
// code.
func HasCode(err error, code Code) bool {
	return err != nil && errors.Is(err, &Error{Code: code})
}
