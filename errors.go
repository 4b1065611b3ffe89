package microioc

import (
	"fmt"
	"strings"

	"github.com/limitzero/microioc/internal/errs"
)

type Error = errs.Error

type ErrorCode = errs.Code

const (
	ErrCodeUnknown              = errs.CodeUnknown
	ErrCodeInvalidBinding       = errs.CodeInvalidBinding
	ErrCodeUnresolvedDependency = errs.CodeUnresolvedDependency
	ErrCodePropertyTypeMismatch = errs.CodePropertyTypeMismatch
	ErrCodePropertyNotFound     = errs.CodePropertyNotFound
	ErrCodeObjectDisposed       = errs.CodeObjectDisposed
	ErrCodeInvalidOperation     = errs.CodeInvalidOperation
	ErrCodeCyclicDependency     = errs.CodeCyclicDependency
	ErrCodeActivationFailed     = errs.CodeActivationFailed
	ErrCodeInvalidConfiguration = errs.CodeInvalidConfiguration
	ErrCodeModuleApplyFailed    = errs.CodeModuleApplyFailed
	ErrCodeValidationFailed     = errs.CodeValidationFailed
)

func newError(code ErrorCode, message string, cause error) *Error {
	return errs.New(code, message, cause)
}

func errObjectDisposed() *Error {
	return newError(ErrCodeObjectDisposed, "container has been disposed", nil)
}

func errInvalidBinding(service, message string) *Error {
	return newError(ErrCodeInvalidBinding, message, nil).WithService(service)
}

func errNoRegistration(operation string) *Error {
	return newError(
		ErrCodeInvalidOperation,
		fmt.Sprintf("%s requires a prior component registration", operation),
		nil,
	)
}

func errTypeMismatch(service string, got any) *Error {
	return newError(
		ErrCodeActivationFailed,
		fmt.Sprintf("resolved instance of type %T is not a %s", got, service),
		nil,
	).WithService(service)
}

func errCyclicDependency(chain []string) *Error {
	return newError(
		ErrCodeCyclicDependency,
		"cyclic dependency detected: "+strings.Join(chain, " -> "),
		nil,
	).WithStack(chain)
}

func IsInvalidBinding(err error) bool {
	return errs.HasCode(err, ErrCodeInvalidBinding)
}

func IsUnresolved(err error) bool {
	return errs.HasCode(err, ErrCodeUnresolvedDependency)
}

func IsPropertyTypeMismatch(err error) bool {
	return errs.HasCode(err, ErrCodePropertyTypeMismatch)
}

func IsPropertyNotFound(err error) bool {
	return errs.HasCode(err, ErrCodePropertyNotFound)
}

func IsObjectDisposed(err error) bool {
	return errs.HasCode(err, ErrCodeObjectDisposed)
}

func IsInvalidOperation(err error) bool {
	return errs.HasCode(err, ErrCodeInvalidOperation)
}

func IsCyclicDependency(err error) bool {
	return errs.HasCode(err, ErrCodeCyclicDependency)
}

func IsActivationFailed(err error) bool {
	return errs.HasCode(err, ErrCodeActivationFailed)
}

func IsInvalidConfiguration(err error) bool {
	return errs.HasCode(err, ErrCodeInvalidConfiguration)
}

func IsValidationFailed(err error) bool {
	return errs.HasCode(err, ErrCodeValidationFailed)
}
