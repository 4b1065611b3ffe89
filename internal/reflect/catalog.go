package reflect

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Service describes the type-system questions the kernel asks while building
// objects. Catalog is the reflection-backed implementation.
type Service interface {
	IsInterface(t reflect.Type) bool
	IsAssignableTo(t, target reflect.Type) bool
	Constructors(t reflect.Type) []*Constructor
	Property(t reflect.Type, name string) (Property, bool)
}

type Constructor struct {
	Out      reflect.Type
	Params   []reflect.Type
	fn       reflect.Value
	hasError bool
	implicit bool
}

func (c *Constructor) Implicit() bool {
	return c.implicit
}

// Call invokes the constructor. Panics raised by user code are returned as
// errors.
func (c *Constructor) Call(args []reflect.Value) (instance any, err error) {
	if c.implicit {
		return zeroInstance(c.Out), nil
	}

	defer func() {
		if rec := recover(); rec != nil {
			instance = nil
			err = fmt.Errorf("constructor for %s panicked: %v", Name(c.Out), rec)
		}
	}()

	results := c.fn.Call(args)
	if c.hasError && !results[1].IsNil() {
		return nil, results[1].Interface().(error)
	}
	return results[0].Interface(), nil
}

func zeroInstance(t reflect.Type) any {
	switch t.Kind() {
	case reflect.Ptr:
		return reflect.New(t.Elem()).Interface()
	case reflect.Map:
		return reflect.MakeMap(t).Interface()
	default:
		return reflect.Zero(t).Interface()
	}
}

type Property struct {
	Name  string
	Type  reflect.Type
	Index []int
}

type Catalog struct {
	mu           sync.RWMutex
	constructors map[reflect.Type][]*Constructor
	names        map[string]reflect.Type
}

func NewCatalog() *Catalog {
	return &Catalog{
		constructors: make(map[reflect.Type][]*Constructor),
		names:        make(map[string]reflect.Type),
	}
}

// AddConstructor records fn as a constructor of the concrete type it returns.
// fn must have the shape func(deps...) T or func(deps...) (T, error).
func (c *Catalog) AddConstructor(fn any) (*Constructor, error) {
	if fn == nil {
		return nil, errors.New("constructor must not be nil")
	}

	fnVal := reflect.ValueOf(fn)
	fnType := fnVal.Type()
	if fnType.Kind() != reflect.Func {
		return nil, fmt.Errorf("constructor must be a function, got %s", fnType)
	}
	if fnType.IsVariadic() {
		return nil, fmt.Errorf("constructor %s must not be variadic", fnType)
	}

	switch {
	case fnType.NumOut() == 1:
	case fnType.NumOut() == 2 && fnType.Out(1) == errorType:
	default:
		return nil, fmt.Errorf("constructor %s must return T or (T, error)", fnType)
	}

	out := fnType.Out(0)
	if out.Kind() == reflect.Interface {
		return nil, fmt.Errorf("constructor %s must return a concrete type, got interface %s", fnType, Name(out))
	}

	params := make([]reflect.Type, fnType.NumIn())
	for i := range params {
		params[i] = fnType.In(i)
	}

	ctor := &Constructor{
		Out:      out,
		Params:   params,
		fn:       fnVal,
		hasError: fnType.NumOut() == 2,
	}

	c.mu.Lock()
	c.constructors[out] = append(c.constructors[out], ctor)
	c.mu.Unlock()

	c.Declare(out)
	return ctor, nil
}

// Constructors returns the declared constructors of t in declaration order.
// A concrete type without declared constructors gets an implicit one that
// produces its zero value (a fresh allocation for pointer types).
func (c *Catalog) Constructors(t reflect.Type) []*Constructor {
	if t == nil || t.Kind() == reflect.Interface {
		return nil
	}

	c.mu.RLock()
	declared := c.constructors[t]
	c.mu.RUnlock()

	if len(declared) > 0 {
		out := make([]*Constructor, len(declared))
		copy(out, declared)
		return out
	}

	return []*Constructor{{Out: t, implicit: true}}
}

// Greediest picks the constructor with the most parameters; ties go to the
// earliest declared.
func Greediest(ctors []*Constructor) *Constructor {
	var best *Constructor
	for _, ctor := range ctors {
		if best == nil || len(ctor.Params) > len(best.Params) {
			best = ctor
		}
	}
	return best
}

func (c *Catalog) IsInterface(t reflect.Type) bool {
	return IsInterface(t)
}

func (c *Catalog) IsAssignableTo(t, target reflect.Type) bool {
	return IsAssignableTo(t, target)
}

// Property looks up an exported field of t (or of the struct t points to).
func (c *Catalog) Property(t reflect.Type, name string) (Property, bool) {
	if t == nil {
		return Property{}, false
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return Property{}, false
	}

	field, ok := t.FieldByName(name)
	if !ok || !field.IsExported() {
		return Property{}, false
	}

	return Property{Name: field.Name, Type: field.Type, Index: field.Index}, true
}

// Declare makes t findable by Lookup under its qualified name, its short
// String() form and any extra names.
func (c *Catalog) Declare(t reflect.Type, names ...string) {
	if t == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.names[Name(t)] = t
	c.names[t.String()] = t
	for _, name := range names {
		if name != "" {
			c.names[name] = t
		}
	}
}

func (c *Catalog) Lookup(name string) (reflect.Type, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, ok := c.names[name]
	return t, ok
}
