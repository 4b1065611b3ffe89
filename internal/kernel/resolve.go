package kernel

import (
	reflectPkg "reflect"
	"time"

	"github.com/limitzero/microioc/internal/errs"
	"github.com/limitzero/microioc/internal/lifecycle"
	"github.com/limitzero/microioc/internal/reflect"
)

// chain is the set of bindings under construction on one call stack.
type chain struct {
	nodes []*Node
}

func (c *chain) contains(node *Node) bool {
	for _, n := range c.nodes {
		if n == node {
			return true
		}
	}
	return false
}

func (c *chain) push(node *Node) {
	c.nodes = append(c.nodes, node)
}

func (c *chain) pop() {
	c.nodes = c.nodes[:len(c.nodes)-1]
}

func (c *chain) path(closing *Node) []string {
	path := make([]string, 0, len(c.nodes)+1)
	for _, n := range c.nodes {
		path = append(path, n.Label())
	}
	return append(path, closing.Label())
}

// Resolve builds an instance for t. A disposed kernel returns nothing.
func (k *Kernel) Resolve(t reflectPkg.Type) (any, error) {
	if k.disposed.Load() {
		return nil, nil
	}

	start := time.Now()
	name := reflect.Name(t)

	node := k.Lookup(t)
	if node == nil {
		err := errUnresolved(name)
		k.callResolveHooks(name, time.Since(start), err)
		return nil, err
	}

	instance, err := k.generate(node, &chain{})
	k.callResolveHooks(name, time.Since(start), err)
	return instance, err
}

func (k *Kernel) ResolveKey(key string) (any, error) {
	if k.disposed.Load() {
		return nil, nil
	}

	start := time.Now()

	var node *Node
	if key != "" {
		node = k.registry.ByKey(key)
	}
	if node == nil {
		err := errs.New(errs.CodeUnresolvedDependency, "no registration found for key "+key, nil).WithService(key)
		k.callResolveHooks(key, time.Since(start), err)
		return nil, err
	}

	instance, err := k.generate(node, &chain{})
	k.callResolveHooks(key, time.Since(start), err)
	return instance, err
}

// ResolveAll builds every binding whose contract or concrete type is
// assignable to t, in registration order. Bindings that fail or produce nil
// are skipped.
func (k *Kernel) ResolveAll(t reflectPkg.Type) []any {
	if k.disposed.Load() || t == nil {
		return nil
	}
	return k.resolveAll(t, func() *chain { return &chain{} })
}

func (k *Kernel) resolveAll(t reflectPkg.Type, newChain func() *chain) []any {
	var instances []any
	for _, node := range k.registry.Snapshot() {
		if node.Disposed() {
			continue
		}
		if !k.types.IsAssignableTo(node.Component, t) && !k.types.IsAssignableTo(node.Contract, t) {
			continue
		}

		start := time.Now()
		instance, err := k.generate(node, newChain())
		k.callResolveHooks(node.Label(), time.Since(start), err)
		if err != nil {
			k.logger.Debug("skipping binding in ResolveAll", "binding", node.Label(), "error", err)
			continue
		}
		if reflect.IsNil(instance) {
			continue
		}
		instances = append(instances, instance)
	}
	return instances
}

func (k *Kernel) generate(node *Node, c *chain) (any, error) {
	if c.contains(node) {
		return nil, errs.New(errs.CodeCyclicDependency, "cyclic dependency detected", nil).
			WithService(node.Label()).
			WithStack(c.path(node))
	}

	c.push(node)
	defer c.pop()

	if node.HasFactorySupport {
		return k.activate(node, c)
	}

	if node.LifeCycle() == lifecycle.Singleton {
		return node.singleton(func() (any, error) {
			return k.build(node, c)
		})
	}
	return k.build(node, c)
}

func (k *Kernel) activate(node *Node, c *chain) (any, error) {
	r := k.newResolution(c)
	defer r.done.Store(true)

	instance, err := node.GetInstance(r)
	if err != nil {
		if errs.HasCode(err, errs.CodeCyclicDependency) {
			return nil, err
		}
		return nil, errActivation(node.Label(), err)
	}
	return instance, nil
}

func (k *Kernel) build(node *Node, c *chain) (any, error) {
	instance, err := k.resolveInternal(node.Component, c)
	if err != nil {
		return nil, err
	}

	if err := k.applyProperties(node, instance); err != nil {
		return nil, err
	}
	return instance, nil
}

// resolveInternal constructs t through its greediest constructor, resolving
// every parameter first.
func (k *Kernel) resolveInternal(t reflectPkg.Type, c *chain) (any, error) {
	name := reflect.Name(t)

	ctor := reflect.Greediest(k.types.Constructors(t))
	if ctor == nil {
		return nil, errs.New(errs.CodeUnresolvedDependency, "no constructor available for "+name, nil).WithService(name)
	}

	args := make([]reflectPkg.Value, len(ctor.Params))
	for i, param := range ctor.Params {
		if k.IsSelf(param) {
			args[i] = reflectPkg.ValueOf(k.self)
			continue
		}

		dependency, err := k.resolveDependency(param, c)
		if err != nil {
			return nil, err
		}

		arg, err := argument(dependency, param, i, name)
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}

	instance, err := ctor.Call(args)
	if err != nil {
		return nil, errActivation(name, err)
	}

	k.logger.Debug("constructed component", "component", name, "params", len(ctor.Params))
	return instance, nil
}

func (k *Kernel) resolveDependency(t reflectPkg.Type, c *chain) (any, error) {
	node := k.Lookup(t)
	if node == nil {
		return nil, errUnresolved(reflect.Name(t))
	}

	instance, err := k.generate(node, c)
	if err != nil {
		return nil, err
	}

	// Constructed bindings already carry their properties; factory output
	// gets them here.
	if node.HasFactorySupport && !reflect.IsNil(instance) {
		if err := k.applyProperties(node, instance); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

func argument(dependency any, param reflectPkg.Type, index int, component string) (reflectPkg.Value, error) {
	if dependency == nil {
		return reflectPkg.Zero(param), nil
	}

	value := reflectPkg.ValueOf(dependency)
	if !value.Type().AssignableTo(param) {
		return reflectPkg.Value{}, errs.Newf(
			errs.CodeActivationFailed,
			"resolved %s is not assignable to parameter %d (%s)",
			reflect.Name(value.Type()), index, reflect.Name(param),
		).WithService(component)
	}
	return value, nil
}

func errUnresolved(name string) *errs.Error {
	return errs.New(errs.CodeUnresolvedDependency, "no registration found for component "+name, nil).WithService(name)
}

func errActivation(name string, cause error) *errs.Error {
	return errs.New(errs.CodeActivationFailed, "failed to activate "+name, cause).WithService(name)
}

// ResolveNode builds an instance of a specific binding.
func (k *Kernel) ResolveNode(node *Node) (any, error) {
	if k.disposed.Load() || node == nil {
		return nil, nil
	}

	start := time.Now()
	instance, err := k.generate(node, &chain{})
	k.callResolveHooks(node.Label(), time.Since(start), err)
	return instance, err
}
