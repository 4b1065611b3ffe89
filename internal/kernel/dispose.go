package kernel

import (
	"fmt"
	"io"
	reflectPkg "reflect"
)

// Disposable is implemented by instances that hold resources to release when
// the kernel is disposed.
type Disposable interface {
	Dispose()
}

// Dispose releases every owned instance and retires every node. It runs once;
// later calls do nothing. Failures while releasing an instance are logged and
// never stop the remaining nodes from being disposed. Resolution keeps working
// until every node is retired, so factory accessors invoked here may still
// resolve their dependencies.
func (k *Kernel) Dispose() {
	if !k.disposing.CompareAndSwap(false, true) {
		return
	}
	defer k.disposed.Store(true)

	released := make(map[any]struct{})
	nodes := k.registry.Snapshot()

	for _, node := range nodes {
		instance := k.owned(node)
		if instance != nil && !alreadyReleased(released, instance) {
			err := release(instance)
			if err != nil {
				k.logger.Warn("failed to dispose instance", "binding", node.Label(), "error", err)
			}
			for _, hook := range k.onDispose {
				hook(node.Label(), err)
			}
		}
		node.Dispose()
	}

	k.logger.Debug("kernel disposed", "bindings", len(nodes))
}

func (k *Kernel) owned(node *Node) (instance any) {
	defer func() {
		if recover() != nil {
			instance = nil
		}
	}()

	if instance, ok := node.Instance(); ok {
		return instance
	}
	if node.HasFactorySupport {
		r := k.newResolution(&chain{nodes: []*Node{node}})
		defer r.done.Store(true)

		instance, err := node.GetInstance(r)
		if err != nil {
			return nil
		}
		return instance
	}
	return nil
}

// alreadyReleased records instance and reports whether it was seen before.
// Only pointers are deduplicated.
func alreadyReleased(seen map[any]struct{}, instance any) bool {
	if reflectPkg.TypeOf(instance).Kind() != reflectPkg.Ptr {
		return false
	}
	if _, ok := seen[instance]; ok {
		return true
	}
	seen[instance] = struct{}{}
	return false
}

func release(instance any) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("dispose panicked: %v", rec)
		}
	}()

	switch v := instance.(type) {
	case Disposable:
		v.Dispose()
	case io.Closer:
		return v.Close()
	}
	return nil
}
