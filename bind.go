package microioc

import (
	reflectPkg "reflect"

	"github.com/limitzero/microioc/internal/reflect"
)

// TypeOf returns the type descriptor of T. Unlike reflect.TypeOf it works for
// interface types.
func TypeOf[T any]() reflectPkg.Type {
	return reflect.TypeOf[T]()
}

// Register binds the concrete type T to the interface I.
//
//	microioc.Register[Logger, *FileLogger](c.Registrations()).WithLifeCycle(microioc.Singleton)
func Register[I, T any](r *Registration) *Registration {
	return r.Register(TypeOf[I](), TypeOf[T](), "")
}

func RegisterKeyed[I, T any](r *Registration, key string) *Registration {
	return r.Register(TypeOf[I](), TypeOf[T](), key)
}

// RegisterType binds the concrete type T without a contract.
func RegisterType[T any](r *Registration) *Registration {
	return r.Register(nil, TypeOf[T](), "")
}

func WithProperty[T any](r *Registration, name string, value any) *Registration {
	return r.WithPropertyValue(TypeOf[T](), name, value)
}

func Declare[T any](r *Registration, names ...string) *Registration {
	return r.DeclareType(TypeOf[T](), names...)
}
