package dependor

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/junioryono/dependor/internal/reflection"
)

// Module is a search module: a lookup source that may provide a value for a
// dependency name.
//
// Lookup returns found == false, with a nil error, when the module does not
// provide name. A non-nil error means the module provides name but failed to
// produce the value.
type Module interface {
	Lookup(name string) (value any, found bool, err error)
}

// Prober is implemented by modules that can answer whether they provide a
// name without building its value. Presence checks prefer it over Lookup.
type Prober interface {
	Provides(name string) bool
}

// ModuleFunc adapts a function to the Module interface.
type ModuleFunc func(name string) (any, bool, error)

// Lookup calls f(name).
func (f ModuleFunc) Lookup(name string) (any, bool, error) {
	return f(name)
}

// provides reports whether m provides name, using Prober when available.
// Lookup failures still count as presence.
func provides(m Module, name string) bool {
	if p, ok := m.(Prober); ok {
		return p.Provides(name)
	}
	_, found, err := m.Lookup(name)
	return found || err != nil
}

// Values is a constant namespace. A key that is present is provided even
// when its value is nil.
type Values map[string]any

var (
	_ Module = Values(nil)
	_ Prober = Values(nil)
)

// Lookup returns the value stored under name.
func (v Values) Lookup(name string) (any, bool, error) {
	value, ok := v[name]
	return value, ok, nil
}

// Provides reports whether name is a key of v.
func (v Values) Provides(name string) bool {
	_, ok := v[name]
	return ok
}

// Factory is a module of named constructors.
//
// Shared constructors run at most once, on first lookup, and their result
// (value or error) is returned to every later lookup. Transient constructors
// run on every lookup.
//
//	f := dependor.NewFactory("infra").
//	    Provide("db", func() (any, error) { return sql.Open("pgx", dsn) }).
//	    ProvideTransient("clock", func() (any, error) { return time.Now(), nil })
type Factory struct {
	name    string
	mu      sync.RWMutex
	entries map[string]*factoryEntry
}

type factoryEntry struct {
	build  func() (any, error)
	shared bool

	once  sync.Once
	value any
	err   error
}

var (
	_ Module = (*Factory)(nil)
	_ Prober = (*Factory)(nil)
)

// NewFactory creates an empty factory. The name only appears in errors and
// log events.
func NewFactory(name string) *Factory {
	return &Factory{
		name:    name,
		entries: make(map[string]*factoryEntry),
	}
}

// Provide registers a shared constructor for name, replacing any previous
// registration.
func (f *Factory) Provide(name string, build func() (any, error)) *Factory {
	return f.register(name, build, true)
}

// ProvideTransient registers a constructor that runs on every lookup.
func (f *Factory) ProvideTransient(name string, build func() (any, error)) *Factory {
	return f.register(name, build, false)
}

func (f *Factory) register(name string, build func() (any, error), shared bool) *Factory {
	if build == nil {
		panic(fmt.Sprintf("dependor: nil constructor for %q in factory %s", name, f.name))
	}

	f.mu.Lock()
	f.entries[name] = &factoryEntry{build: build, shared: shared}
	f.mu.Unlock()
	return f
}

// Provide registers a typed shared constructor on f.
func Provide[T any](f *Factory, name string, build func() (T, error)) *Factory {
	return f.Provide(name, func() (any, error) { return build() })
}

// ProvideTransient registers a typed transient constructor on f.
func ProvideTransient[T any](f *Factory, name string, build func() (T, error)) *Factory {
	return f.ProvideTransient(name, func() (any, error) { return build() })
}

// Lookup builds, or returns the cached, value for name.
func (f *Factory) Lookup(name string) (any, bool, error) {
	f.mu.RLock()
	entry, ok := f.entries[name]
	f.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}

	if !entry.shared {
		value, err := entry.build()
		return value, true, err
	}

	entry.once.Do(func() {
		entry.value, entry.err = entry.build()
	})
	return entry.value, true, entry.err
}

// Provides reports whether a constructor is registered for name.
func (f *Factory) Provides(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.entries[name]
	return ok
}

// Names returns the registered names in sorted order.
func (f *Factory) Names() []string {
	f.mu.RLock()
	names := make([]string, 0, len(f.entries))
	for name := range f.entries {
		names = append(names, name)
	}
	f.mu.RUnlock()

	sort.Strings(names)
	return names
}

func (f *Factory) String() string {
	return fmt.Sprintf("Factory(%q)", f.name)
}

var errType = reflect.TypeOf((*error)(nil)).Elem()

// methodModule serves the no-argument methods of a value.
type methodModule struct {
	recv    reflect.Value
	methods map[string]int
}

// Methods returns a module that treats v as a namespace. Every exported
// method of v that takes no arguments and returns either T or (T, error)
// provides its own name and its lower-camel form, so a method Logger
// answers both "Logger" and "logger". Methods with any other shape are
// ignored. A nil v, or a nil pointer, provides nothing.
func Methods(v any) Module {
	recv := reflect.ValueOf(v)
	m := &methodModule{recv: recv, methods: make(map[string]int)}
	if !recv.IsValid() || (recv.Kind() == reflect.Pointer && recv.IsNil()) {
		return m
	}

	t := recv.Type()
	for i := 0; i < t.NumMethod(); i++ {
		method := t.Method(i)
		if !servesValue(method.Type) {
			continue
		}
		m.methods[method.Name] = i
		if lower := reflection.LowerFirst(method.Name); lower != method.Name {
			if _, taken := m.methods[lower]; !taken {
				m.methods[lower] = i
			}
		}
	}
	return m
}

// servesValue reports whether a method type (receiver included) has the
// func(recv) T or func(recv) (T, error) shape.
func servesValue(t reflect.Type) bool {
	if t.NumIn() != 1 {
		return false
	}
	switch t.NumOut() {
	case 1:
		return true
	case 2:
		return t.Out(1) == errType
	default:
		return false
	}
}

func (m *methodModule) Lookup(name string) (any, bool, error) {
	idx, ok := m.methods[name]
	if !ok {
		return nil, false, nil
	}

	out := m.recv.Method(idx).Call(nil)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, true, out[1].Interface().(error)
	}
	return out[0].Interface(), true, nil
}

func (m *methodModule) Provides(name string) bool {
	_, ok := m.methods[name]
	return ok
}

func (m *methodModule) String() string {
	if !m.recv.IsValid() {
		return "Methods(<nil>)"
	}
	return "Methods(" + formatType(m.recv.Type()) + ")"
}
