// Package microioctest wraps a container for use in tests: it is disposed
// when the test ends and failures are reported through testing.TB.
package microioctest

import (
	"github.com/limitzero/microioc"
)

type TB interface {
	Helper()
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Cleanup(f func())
}

type TestContainer struct {
	*microioc.Container
	tb TB
}

func New(tb TB, opts ...microioc.Option) *TestContainer {
	tb.Helper()

	c := microioc.New(opts...)
	tc := &TestContainer{
		Container: c,
		tb:        tb,
	}

	tb.Cleanup(c.Dispose)

	return tc
}

// MustRegister runs fn against a fresh builder and fails the test if the
// builder recorded an error.
func (tc *TestContainer) MustRegister(fn func(r *microioc.Registration)) {
	tc.tb.Helper()

	r := tc.Registrations()
	fn(r)
	if err := r.Err(); err != nil {
		tc.tb.Fatalf("registration failed: %v", err)
	}
}

func (tc *TestContainer) MustInstall(installers ...microioc.Installer) {
	tc.tb.Helper()

	if err := tc.RegisterFromInstallers(installers...); err != nil {
		tc.tb.Fatalf("installer failed: %v", err)
	}
}

func (tc *TestContainer) RequireValidate() {
	tc.tb.Helper()

	if err := tc.Validate(); err != nil {
		tc.tb.Fatalf("container validation failed: %v", err)
	}
}

// Replace binds value as T. Resolution picks the first matching binding, so
// call it before the registrations it stands in for.
func Replace[T any](tc *TestContainer, value T) {
	tc.tb.Helper()

	r := microioc.RegisterInstance[T](tc.Registrations(), "", value)
	if err := r.Err(); err != nil {
		tc.tb.Fatalf("failed to register %s: %v", microioc.TypeOf[T](), err)
	}
}

func MustResolve[T any](tc *TestContainer) T {
	tc.tb.Helper()

	v, err := microioc.Resolve[T](tc.Container)
	if err != nil {
		tc.tb.Fatalf("failed to resolve %s: %v", microioc.TypeOf[T](), err)
	}
	return v
}

func MustResolveKey[T any](tc *TestContainer, key string) T {
	tc.tb.Helper()

	v, err := microioc.ResolveKeyAs[T](tc.Container, key)
	if err != nil {
		tc.tb.Fatalf("failed to resolve key %q: %v", key, err)
	}
	return v
}

func AssertResolvable[T any](tc *TestContainer) {
	tc.tb.Helper()

	if _, ok := microioc.TryResolve[T](tc.Container); !ok {
		tc.tb.Fatalf("expected container to resolve %s", microioc.TypeOf[T]())
	}
}

func AssertNotResolvable[T any](tc *TestContainer) {
	tc.tb.Helper()

	if _, ok := microioc.TryResolve[T](tc.Container); ok {
		tc.tb.Fatalf("expected container to not resolve %s", microioc.TypeOf[T]())
	}
}
