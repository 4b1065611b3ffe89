package reflect

import (
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testInterface interface {
	DoSomething()
}

type testStruct struct {
	Name    string
	Count   int
	private string
}

func (t *testStruct) DoSomething() {}

type Handler[T any] interface {
	Handle(T)
}

type ping struct{}

type pong struct{}

type pingHandler struct{}

func (pingHandler) Handle(ping) {}

func TestName(t *testing.T) {
	t.Parallel()

	pkg := reflect.TypeOf(testStruct{}).PkgPath()

	tests := []struct {
		name string
		typ  reflect.Type
		want string
	}{
		{"builtin", TypeOf[int](), "int"},
		{"pointer", TypeOf[*testStruct](), "*" + pkg + ".testStruct"},
		{"slice", TypeOf[[]string](), "[]string"},
		{"array", TypeOf[[12]byte](), "[12]uint8"},
		{"map", TypeOf[map[string]int](), "map[string]int"},
		{"interface", TypeOf[testInterface](), pkg + ".testInterface"},
		{"stdlib interface", TypeOf[io.Closer](), "io.Closer"},
		{"nil", nil, "<nil>"},
	}

	for _, tt := range tests {
		t.Run(
			tt.name, func(t *testing.T) {
				t.Parallel()
				assert.Equal(t, tt.want, Name(tt.typ))
				assert.Equal(t, tt.want, Name(tt.typ), "cached lookup")
			},
		)
	}
}

func TestTypeOf_Interface(t *testing.T) {
	t.Parallel()

	typ := TypeOf[testInterface]()
	assert.Equal(t, reflect.Interface, typ.Kind())
	assert.True(t, IsInterface(typ))
	assert.False(t, IsInterface(TypeOf[*testStruct]()))
	assert.False(t, IsInterface(nil))
}

func TestIsAssignableTo(t *testing.T) {
	t.Parallel()

	assert.True(t, IsAssignableTo(TypeOf[*testStruct](), TypeOf[testInterface]()))
	assert.False(t, IsAssignableTo(TypeOf[testStruct](), TypeOf[testInterface]()))
	assert.False(t, IsAssignableTo(nil, TypeOf[testInterface]()))
	assert.False(t, IsAssignableTo(TypeOf[int](), nil))
}

func TestSameOpenType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Handler", BaseName(TypeOf[Handler[ping]]()))
	assert.True(t, SameOpenType(TypeOf[Handler[ping]](), TypeOf[Handler[pong]]()))
	assert.False(t, SameOpenType(TypeOf[Handler[ping]](), TypeOf[testInterface]()))
	assert.False(t, SameOpenType(TypeOf[[]int](), TypeOf[[]string]()))
	assert.True(t, IsAssignableTo(TypeOf[pingHandler](), TypeOf[Handler[ping]]()))
}

func TestIsNil(t *testing.T) {
	t.Parallel()

	var ptr *testStruct
	var iface testInterface
	var m map[string]int

	assert.True(t, IsNil(nil))
	assert.True(t, IsNil(ptr))
	assert.True(t, IsNil(iface))
	assert.True(t, IsNil(m))
	assert.False(t, IsNil(0))
	assert.False(t, IsNil(&testStruct{}))
}

func TestCatalog_AddConstructor(t *testing.T) {
	t.Parallel()

	c := NewCatalog()

	ctor, err := c.AddConstructor(func(name string, count int) *testStruct {
		return &testStruct{Name: name, Count: count}
	})
	require.NoError(t, err)
	assert.Equal(t, TypeOf[*testStruct](), ctor.Out)
	assert.Len(t, ctor.Params, 2)
	assert.False(t, ctor.Implicit())

	instance, err := ctor.Call([]reflect.Value{reflect.ValueOf("x"), reflect.ValueOf(3)})
	require.NoError(t, err)
	assert.Equal(t, &testStruct{Name: "x", Count: 3}, instance)

	found, ok := c.Lookup("*" + reflect.TypeOf(testStruct{}).PkgPath() + ".testStruct")
	assert.True(t, ok)
	assert.Equal(t, TypeOf[*testStruct](), found)
}

func TestCatalog_AddConstructor_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   any
	}{
		{"nil", nil},
		{"not a func", 42},
		{"no result", func() {}},
		{"variadic", func(...int) *testStruct { return nil }},
		{"second result not error", func() (*testStruct, int) { return nil, 0 }},
		{"interface result", func() testInterface { return nil }},
	}

	for _, tt := range tests {
		t.Run(
			tt.name, func(t *testing.T) {
				t.Parallel()

				_, err := NewCatalog().AddConstructor(tt.fn)
				assert.Error(t, err)
			},
		)
	}
}

func TestConstructor_CallErrors(t *testing.T) {
	t.Parallel()

	c := NewCatalog()

	failing, err := c.AddConstructor(func() (*testStruct, error) { return nil, errors.New("boom") })
	require.NoError(t, err)
	_, err = failing.Call(nil)
	assert.EqualError(t, err, "boom")

	panicking, err := c.AddConstructor(func() testStruct { panic("bad") })
	require.NoError(t, err)
	_, err = panicking.Call(nil)
	assert.ErrorContains(t, err, "panicked")
}

func TestCatalog_Constructors(t *testing.T) {
	t.Parallel()

	c := NewCatalog()

	implicit := c.Constructors(TypeOf[*testStruct]())
	require.Len(t, implicit, 1)
	assert.True(t, implicit[0].Implicit())

	instance, err := implicit[0].Call(nil)
	require.NoError(t, err)
	assert.Equal(t, &testStruct{}, instance)

	m, err := c.Constructors(TypeOf[map[string]int]())[0].Call(nil)
	require.NoError(t, err)
	assert.NotNil(t, m)

	assert.Nil(t, c.Constructors(TypeOf[testInterface]()))
	assert.Nil(t, c.Constructors(nil))

	_, err = c.AddConstructor(func() *testStruct { return &testStruct{} })
	require.NoError(t, err)
	_, err = c.AddConstructor(func(n string) *testStruct { return &testStruct{Name: n} })
	require.NoError(t, err)
	_, err = c.AddConstructor(func(n string) (*testStruct, error) { return &testStruct{Name: n}, nil })
	require.NoError(t, err)

	declared := c.Constructors(TypeOf[*testStruct]())
	require.Len(t, declared, 3)

	best := Greediest(declared)
	assert.Same(t, declared[1], best)
	assert.Nil(t, Greediest(nil))
}

func TestCatalog_Property(t *testing.T) {
	t.Parallel()

	c := NewCatalog()

	prop, ok := c.Property(TypeOf[*testStruct](), "Count")
	require.True(t, ok)
	assert.Equal(t, TypeOf[int](), prop.Type)
	assert.Equal(t, []int{1}, prop.Index)

	_, ok = c.Property(TypeOf[testStruct](), "Name")
	assert.True(t, ok)

	_, ok = c.Property(TypeOf[*testStruct](), "private")
	assert.False(t, ok)

	_, ok = c.Property(TypeOf[*testStruct](), "Missing")
	assert.False(t, ok)

	_, ok = c.Property(TypeOf[map[string]int](), "Name")
	assert.False(t, ok)
}

func TestCatalog_Declare(t *testing.T) {
	t.Parallel()

	c := NewCatalog()
	c.Declare(TypeOf[testInterface](), "app.Thing", "")
	c.Declare(nil, "ignored")

	for _, name := range []string{"app.Thing", "reflect.testInterface", Name(TypeOf[testInterface]())} {
		found, ok := c.Lookup(name)
		assert.True(t, ok, name)
		assert.Equal(t, TypeOf[testInterface](), found)
	}

	_, ok := c.Lookup("ignored")
	assert.False(t, ok)
}
