package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "message only",
			err:  New(CodeObjectDisposed, "container has been disposed", nil),
			want: "[OBJECT_DISPOSED] container has been disposed",
		},
		{
			name: "with service and cause",
			err:  New(CodeActivationFailed, "failed to activate app.Logger", errors.New("disk full")).WithService("app.Logger"),
			want: `[ACTIVATION_FAILED] service="app.Logger": failed to activate app.Logger: disk full`,
		},
		{
			name: "with stack",
			err:  Newf(CodeCyclicDependency, "cyclic dependency detected").WithStack([]string{"A", "B", "A"}),
			want: "[CYCLIC_DEPENDENCY] cyclic dependency detected (A -> B -> A)",
		},
	}

	for _, tt := range tests {
		t.Run(
			tt.name, func(t *testing.T) {
				t.Parallel()
				assert.Equal(t, tt.want, tt.err.Error())
			},
		)
	}
}

func TestCode_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "INVALID_BINDING", CodeInvalidBinding.String())
	assert.Equal(t, "UNKNOWN(999)", Code(999).String())
}

func TestHasCode(t *testing.T) {
	t.Parallel()

	inner := New(CodeCyclicDependency, "cycle", nil)
	outer := New(CodeValidationFailed, "validation failed", inner)
	wrapped := fmt.Errorf("startup: %w", outer)

	assert.True(t, HasCode(wrapped, CodeValidationFailed))
	assert.True(t, HasCode(wrapped, CodeCyclicDependency))
	assert.False(t, HasCode(wrapped, CodeObjectDisposed))
	assert.False(t, HasCode(nil, CodeUnknown))
	assert.False(t, HasCode(errors.New("plain"), CodeUnknown))

	assert.True(t, errors.Is(outer, &Error{Code: CodeValidationFailed}))

	var e *Error
	assert.True(t, errors.As(wrapped, &e))
	assert.Same(t, outer, e)
	assert.Same(t, inner, errors.Unwrap(outer))
}
