package kernel

import (
	reflectPkg "reflect"
	"sync/atomic"

	"github.com/limitzero/microioc/internal/errs"
)

// Resolution is the view of the kernel handed to a factory activation. While
// the activation runs, lookups made through it continue the chain of the
// binding being activated, so a factory that ends up needing itself fails
// with a cyclic dependency error instead of waiting on its own singleton
// lock. Once the activation has returned it resolves like the kernel. It is
// safe for concurrent use.
type Resolution struct {
	k      *Kernel
	parent []*Node
	done   atomic.Bool
}

func (k *Kernel) newResolution(c *chain) *Resolution {
	return &Resolution{
		k:      k,
		parent: append([]*Node(nil), c.nodes...),
	}
}

func (r *Resolution) chain() *chain {
	if r.done.Load() {
		return &chain{}
	}
	return &chain{nodes: append([]*Node(nil), r.parent...)}
}

func (r *Resolution) Resolve(t reflectPkg.Type) (any, error) {
	if r.k.disposed.Load() {
		return nil, errDisposed()
	}
	return r.k.resolveDependency(t, r.chain())
}

func (r *Resolution) ResolveKey(key string) (any, error) {
	if r.k.disposed.Load() {
		return nil, errDisposed()
	}

	var node *Node
	if key != "" {
		node = r.k.registry.ByKey(key)
	}
	if node == nil {
		return nil, errs.New(errs.CodeUnresolvedDependency, "no registration found for key "+key, nil).WithService(key)
	}
	return r.k.generate(node, r.chain())
}

// ResolveAll skips bindings that fail, including those already under
// construction on the current chain.
func (r *Resolution) ResolveAll(t reflectPkg.Type) ([]any, error) {
	if r.k.disposed.Load() {
		return nil, errDisposed()
	}
	if t == nil {
		return nil, nil
	}
	return r.k.resolveAll(t, r.chain), nil
}

func errDisposed() *errs.Error {
	return errs.New(errs.CodeObjectDisposed, "container has been disposed", nil)
}
