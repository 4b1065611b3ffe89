package microioc

import (
	"fmt"
	reflectPkg "reflect"

	"github.com/limitzero/microioc/internal/kernel"
	"github.com/limitzero/microioc/internal/reflect"
)

// Registration is the fluent builder returned by Container.Registrations.
//
// The first call that fails records its error and turns the builder inert:
// later calls do nothing and Err reports the failure. A failed call never
// changes the container.
type Registration struct {
	c    *Container
	last *kernel.Node
	err  error
}

func (c *Container) Registrations() *Registration {
	return &Registration{c: c}
}

func (r *Registration) Err() error {
	return r.err
}

func (r *Registration) fail(err *Error) *Registration {
	if r.err == nil {
		r.err = err
	}
	return r
}

func (r *Registration) ready() bool {
	if r.err != nil {
		return false
	}
	if r.c.disposing.Load() {
		r.err = errObjectDisposed()
		return false
	}
	return true
}

func (r *Registration) add(node *kernel.Node) {
	if stored, _ := r.c.kernel.CreateNode(node); stored != nil {
		r.last = stored
	}
}

// Register binds concrete, optionally under an interface contract and a key.
// Registering the same (contract, concrete, key) twice keeps the first binding.
func (r *Registration) Register(contract, concrete reflectPkg.Type, key string) *Registration {
	if !r.ready() {
		return r
	}

	if concrete == nil {
		return r.fail(errInvalidBinding("<nil>", "the concrete type of a registration cannot be nil"))
	}
	name := reflect.Name(concrete)
	if concrete.Kind() == reflectPkg.Interface {
		return r.fail(errInvalidBinding(name, "the concrete type of a registration cannot be an interface"))
	}

	if contract != nil {
		if contract.Kind() != reflectPkg.Interface {
			return r.fail(errInvalidBinding(name, fmt.Sprintf(
				"the contract %s bound to %s must be an interface type",
				reflect.Name(contract), name,
			)))
		}
		if !concrete.Implements(contract) {
			return r.fail(errInvalidBinding(name, fmt.Sprintf(
				"%s does not implement the contract %s",
				name, reflect.Name(contract),
			)))
		}
		r.c.catalog.Declare(contract)
	}

	r.c.catalog.Declare(concrete)
	r.add(kernel.NewNode(contract, concrete, key))
	return r
}

// RegisterFactory binds t to fn. Interfaces become the binding's contract,
// anything else its concrete type. fn receives a Resolver backed by the
// container; dependencies resolved through it while fn runs take part in
// cycle detection.
func (r *Registration) RegisterFactory(key string, t reflectPkg.Type, fn func(Resolver) (any, error)) *Registration {
	if !r.ready() {
		return r
	}

	if t == nil || fn == nil {
		return r.fail(errInvalidBinding(key, "a factory registration needs a type and a function"))
	}

	name := reflect.Name(t)
	node := factoryNode(t, key)
	node.Activate(func(res *kernel.Resolution) (instance any, err error) {
		defer func() {
			if rec := recover(); rec != nil {
				instance = nil
				err = fmt.Errorf("factory for %s panicked: %v", name, rec)
			}
		}()

		instance, err = fn(res)
		if err != nil {
			return nil, err
		}
		if instance != nil && !reflectPkg.TypeOf(instance).AssignableTo(t) {
			return nil, errTypeMismatch(name, instance)
		}
		return instance, nil
	})

	r.c.catalog.Declare(t)
	r.add(node)
	return r
}

// RegisterInstance binds an existing value under its dynamic type.
func (r *Registration) RegisterInstance(key string, instance any) *Registration {
	if !r.ready() {
		return r
	}
	if reflect.IsNil(instance) {
		return r.fail(errInvalidBinding(key, "a registered instance cannot be nil"))
	}
	return r.registerInstance(key, reflectPkg.TypeOf(instance), instance)
}

func (r *Registration) registerInstance(key string, t reflectPkg.Type, instance any) *Registration {
	node := factoryNode(t, key)
	node.Activate(func(*kernel.Resolution) (any, error) {
		return instance, nil
	})

	r.c.catalog.Declare(t)
	r.add(node)
	return r
}

func factoryNode(t reflectPkg.Type, key string) *kernel.Node {
	if t.Kind() == reflectPkg.Interface {
		return kernel.NewNode(t, nil, key)
	}
	return kernel.NewNode(nil, t, key)
}

// RegisterManyToOpenType registers, without a contract, every concrete type in
// universe that implements openType, implements an interface of universe that
// is an instantiation of the same generic declaration as openType, or is
// assignable to openType. Interfaces in universe are never registered.
func (r *Registration) RegisterManyToOpenType(openType reflectPkg.Type, universe []reflectPkg.Type) *Registration {
	if !r.ready() {
		return r
	}
	if openType == nil {
		return r.fail(errInvalidBinding("<nil>", "the open type cannot be nil"))
	}

	var family []reflectPkg.Type
	for _, t := range universe {
		if t != nil && t.Kind() == reflectPkg.Interface && (t == openType || reflect.SameOpenType(t, openType)) {
			family = append(family, t)
		}
	}

	seen := make(map[reflectPkg.Type]bool, len(universe))
	for _, t := range universe {
		if t == nil || t.Kind() == reflectPkg.Interface || seen[t] {
			continue
		}
		seen[t] = true

		if !matchesOpenType(t, openType, family) {
			continue
		}
		r.c.catalog.Declare(t)
		r.add(kernel.NewNode(nil, t, ""))
	}
	return r
}

func matchesOpenType(t, openType reflectPkg.Type, family []reflectPkg.Type) bool {
	if openType.Kind() == reflectPkg.Interface && t.Implements(openType) {
		return true
	}
	for _, iface := range family {
		if t.Implements(iface) {
			return true
		}
	}
	return t.AssignableTo(openType)
}

// WithPropertyValue configures the exported field name of the most recently
// registered binding whose concrete type or contract is component. It does
// nothing when there is no such binding or name is empty. The value must have
// exactly the field's type; this is checked when the component is built.
func (r *Registration) WithPropertyValue(component reflectPkg.Type, name string, value any) *Registration {
	if !r.ready() || component == nil || name == "" {
		return r
	}

	node := r.c.kernel.FindLast(func(n *kernel.Node) bool {
		return n.Component == component || n.Contract == component
	})
	if node == nil {
		return r
	}

	node.AddProperty(name, value)
	return r
}

// WithLifeCycle applies to the binding created by this builder's last
// registration, or to the container's most recent binding.
func (r *Registration) WithLifeCycle(lc LifeCycle) *Registration {
	if !r.ready() {
		return r
	}

	node := r.last
	if node == nil {
		node = r.c.kernel.Last()
	}
	if node == nil {
		return r.fail(errNoRegistration("WithLifeCycle"))
	}

	node.SetLifeCycle(lc)
	return r
}

// Constructor declares fn as a way to build the type it returns. fn must look
// like func(deps...) T or func(deps...) (T, error) with T concrete. The
// container always uses the constructor with the most parameters.
func (r *Registration) Constructor(fn any) *Registration {
	if !r.ready() {
		return r
	}

	if _, err := r.c.catalog.AddConstructor(fn); err != nil {
		return r.fail(newError(ErrCodeInvalidBinding, "invalid constructor", err).WithService(fmt.Sprintf("%T", fn)))
	}
	return r
}

// DeclareType makes t known to declarative configuration under names, in
// addition to its qualified and short names.
func (r *Registration) DeclareType(t reflectPkg.Type, names ...string) *Registration {
	if !r.ready() {
		return r
	}
	if t == nil {
		return r.fail(errInvalidBinding("<nil>", "cannot declare a nil type"))
	}

	r.c.catalog.Declare(t, names...)
	return r
}
