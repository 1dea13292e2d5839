package dependor

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"go.uber.org/dig"
)

var digInType = reflect.TypeOf(dig.In{})

// DigModule exposes values of a dig container under dependency names.
//
//	c := dig.New()
//	c.Provide(zap.NewProduction)
//	c.Provide(newPrimaryDB, dig.Name("primary"))
//
//	m := dependor.NewDigModule(c)
//	dependor.ExposeDig[*zap.Logger](m, "logger")
//	dependor.ExposeDigNamed[*sql.DB](m, "db", "primary")
//
// A lookup invokes the container for the bound type. dig builds each value
// once and keeps it, so probing a name is as cheap as resolving it. A name
// whose type has no provider in the container, or that dig yields as the
// zero value, is reported as not provided. A provider that fails is
// reported as present, with its error.
type DigModule struct {
	c *dig.Container

	mu       sync.RWMutex
	bindings map[string]digBinding
}

type digBinding struct {
	typ   reflect.Type
	param reflect.Type // struct { dig.In; Value typ `name:"..." optional:"true"` }
}

var (
	_ Module = (*DigModule)(nil)
	_ Prober = (*DigModule)(nil)
)

// NewDigModule returns a module backed by c.
func NewDigModule(c *dig.Container) *DigModule {
	return &DigModule{c: c, bindings: make(map[string]digBinding)}
}

// Expose binds name to the unnamed value of type t in the container.
func (m *DigModule) Expose(name string, t reflect.Type) *DigModule {
	return m.ExposeNamed(name, "", t)
}

// ExposeNamed binds name to the value of type t provided with
// dig.Name(digName).
func (m *DigModule) ExposeNamed(name, digName string, t reflect.Type) *DigModule {
	tag := `optional:"true"`
	if digName != "" {
		tag = fmt.Sprintf(`name:%q optional:"true"`, digName)
	}

	param := reflect.StructOf([]reflect.StructField{
		{Name: "In", Type: digInType, Anonymous: true},
		{Name: "Value", Type: t, Tag: reflect.StructTag(tag)},
	})

	m.mu.Lock()
	m.bindings[name] = digBinding{typ: t, param: param}
	m.mu.Unlock()
	return m
}

// ExposeDig binds name to the unnamed T in m's container.
func ExposeDig[T any](m *DigModule, name string) *DigModule {
	return m.Expose(name, reflect.TypeOf((*T)(nil)).Elem())
}

// ExposeDigNamed binds name to the T provided with dig.Name(digName).
func ExposeDigNamed[T any](m *DigModule, name, digName string) *DigModule {
	return m.ExposeNamed(name, digName, reflect.TypeOf((*T)(nil)).Elem())
}

// Lookup invokes the container for the type bound to name.
func (m *DigModule) Lookup(name string) (any, bool, error) {
	m.mu.RLock()
	b, ok := m.bindings[name]
	m.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}

	var value reflect.Value
	fnType := reflect.FuncOf([]reflect.Type{b.param}, nil, false)
	fn := reflect.MakeFunc(fnType, func(args []reflect.Value) []reflect.Value {
		value = args[0].FieldByName("Value")
		return nil
	})

	if err := m.c.Invoke(fn.Interface()); err != nil {
		return nil, true, err
	}
	if !value.IsValid() || value.IsZero() {
		return nil, false, nil
	}
	return value.Interface(), true, nil
}

// Provides reports whether name is bound and the container has a provider
// for it. A provider that fails still counts as present.
func (m *DigModule) Provides(name string) bool {
	_, found, _ := m.Lookup(name)
	return found
}

// Names returns the bound names in sorted order.
func (m *DigModule) Names() []string {
	m.mu.RLock()
	names := make([]string, 0, len(m.bindings))
	for name := range m.bindings {
		names = append(names, name)
	}
	m.mu.RUnlock()

	sort.Strings(names)
	return names
}

func (m *DigModule) String() string {
	return "DigModule"
}
