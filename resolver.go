package microioc

import (
	reflectPkg "reflect"

	"github.com/limitzero/microioc/internal/kernel"
	"github.com/limitzero/microioc/internal/reflect"
)

// Resolver is the view of the container handed to factories and to
// constructor parameters that ask for it.
type Resolver interface {
	Resolve(t reflectPkg.Type) (any, error)
	ResolveKey(key string) (any, error)
	ResolveAll(t reflectPkg.Type) ([]any, error)
}

var (
	_ Resolver = (*Container)(nil)
	_ Resolver = (*kernel.Resolution)(nil)
)

func Resolve[T any](r Resolver) (T, error) {
	var zero T

	instance, err := r.Resolve(TypeOf[T]())
	if err != nil {
		return zero, err
	}
	return cast[T](instance, reflect.Name(TypeOf[T]()))
}

func ResolveKeyAs[T any](r Resolver, key string) (T, error) {
	var zero T

	instance, err := r.ResolveKey(key)
	if err != nil {
		return zero, err
	}
	return cast[T](instance, key)
}

func MustResolve[T any](r Resolver) T {
	v, err := Resolve[T](r)
	if err != nil {
		panic(err)
	}
	return v
}

func TryResolve[T any](r Resolver) (T, bool) {
	v, err := Resolve[T](r)
	return v, err == nil
}

// ResolveAll builds every binding usable as T, in registration order.
func ResolveAll[T any](r Resolver) ([]T, error) {
	instances, err := r.ResolveAll(TypeOf[T]())
	if err != nil {
		return nil, err
	}

	result := make([]T, 0, len(instances))
	for _, instance := range instances {
		if typed, ok := instance.(T); ok {
			result = append(result, typed)
		}
	}
	return result, nil
}

func cast[T any](instance any, service string) (T, error) {
	var zero T
	if instance == nil {
		return zero, nil
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, errTypeMismatch(service, instance)
	}
	return typed, nil
}
