package dependor

import (
	"reflect"
	"sync"
)

// Host is the capability surface of an injectable value: callers ask it for
// dependencies by name and can probe first without risking an error.
type Host interface {
	Get(name string) (any, error)
	Resolvable(name string) bool
}

// Injector is a Host that can also instantiate targets.
type Injector interface {
	Host
	Inject(target Target, overrides Overrides) (any, error)
}

var (
	_ Injector = (*Injectable)(nil)
	_ Host     = (*AutoResolver)(nil)
)

// Injectable gives a host type dependency resolution. Embed it and attach
// it when the host is constructed:
//
//	type App struct {
//	    *dependor.Injectable
//	}
//
//	func NewApp() *App {
//	    app := &App{}
//	    app.Injectable = dependor.Attach(app)
//	    return app
//	}
//
// The host resolves through the chain declared for its type with
// LookInModules. The auto resolver is built on first use, exactly once, and
// the chain is frozen at that point.
type Injectable struct {
	host     any
	hostType reflect.Type
	chain    *Chain
	opts     []Option

	once sync.Once
	auto *AutoResolver
}

// Attach binds an Injectable to host. The host is only used to find its
// chain and is never modified.
func Attach(host any, opts ...Option) *Injectable {
	o := newOptions(opts)

	in := &Injectable{
		host:     host,
		hostType: reflect.TypeOf(host),
		chain:    o.chain,
		opts:     opts,
	}
	if in.chain == nil {
		in.chain = ChainOf(in.hostType)
	}

	if o.eager {
		in.resolver()
	}
	return in
}

// resolver returns the auto resolver, building it on first use.
func (in *Injectable) resolver() *AutoResolver {
	in.once.Do(func() {
		in.auto = NewAutoResolver(in.host, in.chain, in.opts...)
	})
	return in.auto
}

// AutoResolver returns the host's auto resolver, building it if needed.
func (in *Injectable) AutoResolver() *AutoResolver {
	if in == nil {
		return nil
	}
	return in.resolver()
}

// Get resolves name through the host's chain.
func (in *Injectable) Get(name string) (any, error) {
	if in == nil {
		return nil, ErrHostNil
	}
	return in.resolver().Get(name)
}

// Resolvable reports whether Get would find name. It never fails.
func (in *Injectable) Resolvable(name string) bool {
	if in == nil {
		return false
	}
	return in.resolver().Resolvable(name)
}

// Inject instantiates target, resolving its dependencies from overrides
// first and from the host's chain otherwise. overrides may be nil.
func (in *Injectable) Inject(target Target, overrides Overrides) (any, error) {
	if in == nil {
		return nil, ErrHostNil
	}

	r := NewOverrideResolver(in.resolver(), overrides, in.opts...)
	return NewInstantiator(r, in.opts...).Instantiate(target)
}

// Check reports every required dependency of target that neither overrides
// nor the host's chain can resolve.
func (in *Injectable) Check(target Target, overrides Overrides) error {
	if in == nil {
		return ErrHostNil
	}

	r := NewOverrideResolver(in.resolver(), overrides, in.opts...)
	return NewInstantiator(r, in.opts...).Check(target)
}

// Inject instantiates the struct type T (or pointer to struct) through h.
//
//	svc, err := dependor.Inject[*Service](app, dependor.Overrides{"logger": testLogger})
func Inject[T any](h Injector, overrides Overrides) (T, error) {
	var zero T
	if h == nil {
		return zero, ErrHostNil
	}

	target, err := Struct[T]()
	if err != nil {
		return zero, err
	}

	return InjectTarget[T](h, target, overrides)
}

// InjectTarget instantiates target through h and asserts the result to T.
func InjectTarget[T any](h Injector, target Target, overrides Overrides) (T, error) {
	var zero T
	if h == nil {
		return zero, ErrHostNil
	}

	instance, err := h.Inject(target, overrides)
	if err != nil {
		return zero, err
	}

	out, ok := instance.(T)
	if !ok {
		return zero, TypeMismatchError{
			Expected: reflect.TypeOf((*T)(nil)).Elem(),
			Actual:   reflect.TypeOf(instance),
		}
	}
	return out, nil
}

// Get resolves name through h and asserts the value to T.
func Get[T any](h Host, name string) (T, error) {
	var zero T
	if h == nil {
		return zero, ErrHostNil
	}

	value, err := h.Get(name)
	if err != nil {
		return zero, err
	}
	if value == nil {
		return zero, nil
	}

	out, ok := value.(T)
	if !ok {
		return zero, TypeMismatchError{
			Name:     name,
			Expected: reflect.TypeOf((*T)(nil)).Elem(),
			Actual:   reflect.TypeOf(value),
		}
	}
	return out, nil
}

// Key is a typed dependency name. Declaring keys once keeps names and their
// value types in one place:
//
//	var LoggerKey = dependor.NewKey[*zap.Logger]("logger")
//
//	log, err := LoggerKey.From(app)
type Key[T any] struct {
	name string
}

// NewKey returns the key for name.
func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

// Name returns the dependency name.
func (k Key[T]) Name() string {
	return k.name
}

// From resolves the key through h.
func (k Key[T]) From(h Host) (T, error) {
	return Get[T](h, k.name)
}

// Set records an override for the key and returns o, allocating it when it
// is nil.
func (k Key[T]) Set(o Overrides, value T) Overrides {
	return o.Set(k.name, value)
}

// Dependency returns the key as a required dependency of a target.
func (k Key[T]) Dependency() Dependency {
	return Dependency{Name: k.name, Type: reflect.TypeOf((*T)(nil)).Elem()}
}

// Checker is implemented by hosts that can dry-run an injection.
type Checker interface {
	Check(target Target, overrides Overrides) error
}

// Check dry-runs Inject[T] through h and reports every missing dependency.
func Check[T any](h Checker, overrides Overrides) error {
	if h == nil {
		return ErrHostNil
	}

	target, err := Struct[T]()
	if err != nil {
		return err
	}
	return h.Check(target, overrides)
}
