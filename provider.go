package microioc

import "github.com/limitzero/microioc/internal/reflect"

// RegisterFactory binds T to fn, which receives the container it is
// registered in. When T is an interface it becomes the contract of the binding.
func RegisterFactory[T any](r *Registration, key string, fn func(r Resolver) (T, error)) *Registration {
	if fn == nil {
		return r.RegisterFactory(key, TypeOf[T](), nil)
	}
	return r.RegisterFactory(
		key, TypeOf[T](), func(res Resolver) (any, error) {
			v, err := fn(res)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
	)
}

// RegisterInstance binds an existing value as T, so an instance can be
// registered under one of its interfaces.
func RegisterInstance[T any](r *Registration, key string, instance T) *Registration {
	if !r.ready() {
		return r
	}
	if reflect.IsNil(instance) {
		return r.fail(errInvalidBinding(reflect.Name(TypeOf[T]()), "a registered instance cannot be nil"))
	}
	return r.registerInstance(key, TypeOf[T](), instance)
}
