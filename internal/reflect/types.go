package reflect

import (
	"reflect"
	"strconv"
	"strings"
	"sync"
)

var typeNameCache sync.Map

// TypeOf returns the type descriptor of T, including interface types.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Name returns a package-qualified, stable name for t.
func Name(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if cached, ok := typeNameCache.Load(t); ok {
		return cached.(string)
	}

	name := buildName(t)
	typeNameCache.Store(t, name)
	return name
}

func buildName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Ptr:
		return "*" + buildName(t.Elem())
	case reflect.Slice:
		return "[]" + buildName(t.Elem())
	case reflect.Array:
		return "[" + strconv.Itoa(t.Len()) + "]" + buildName(t.Elem())
	case reflect.Map:
		return "map[" + buildName(t.Key()) + "]" + buildName(t.Elem())
	case reflect.Chan:
		switch t.ChanDir() {
		case reflect.RecvDir:
			return "<-chan " + buildName(t.Elem())
		case reflect.SendDir:
			return "chan<- " + buildName(t.Elem())
		default:
			return "chan " + buildName(t.Elem())
		}
	case reflect.Func:
		return t.String()
	default:
		if t.PkgPath() != "" {
			return t.PkgPath() + "." + t.Name()
		}
		if t.Name() == "" {
			return t.String()
		}
		return t.Name()
	}
}

// BaseName strips generic type arguments: "Handler[main.Ping]" -> "Handler".
func BaseName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	name := t.Name()
	if idx := strings.IndexByte(name, '['); idx != -1 {
		name = name[:idx]
	}
	return name
}

// SameOpenType reports whether a and b are instantiations of the same named
// (possibly generic) type declaration.
func SameOpenType(a, b reflect.Type) bool {
	if a == nil || b == nil {
		return false
	}
	base := BaseName(a)
	return base != "" && a.PkgPath() == b.PkgPath() && base == BaseName(b)
}

func IsNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}

func IsInterface(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Interface
}

// IsAssignableTo reports whether a value of type t can be stored in target.
func IsAssignableTo(t, target reflect.Type) bool {
	if t == nil || target == nil {
		return false
	}
	return t.AssignableTo(target)
}
