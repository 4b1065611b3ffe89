package microioc

import (
	"github.com/limitzero/microioc/internal/kernel"
	"github.com/limitzero/microioc/internal/lifecycle"
)

type LifeCycle = lifecycle.LifeCycle

const (
	// Transient builds a new instance for every resolution.
	Transient = lifecycle.Transient
	// Singleton builds one instance per binding and reuses it until the
	// container is disposed.
	Singleton = lifecycle.Singleton
)

// Disposable instances are released when the container that owns them is
// disposed. Instances implementing io.Closer are closed instead.
type Disposable = kernel.Disposable

func ParseLifeCycle(s string) (LifeCycle, bool) {
	return lifecycle.Parse(s)
}
