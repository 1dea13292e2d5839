package dependor

import (
	"reflect"
	"sync"
)

// Chain is the ordered list of search modules declared for a host type.
//
// Modules are tried in the order they were added; the first module that
// provides a name wins, so earlier modules shadow later ones. A chain is
// append-only and freezes the first time a resolver is built over it, after
// which Add fails with ErrChainFrozen.
type Chain struct {
	owner reflect.Type

	mu      sync.RWMutex
	modules []Module
	frozen  bool
}

// NewChain creates a chain that is not attached to the type registry. The
// owner type is only used in error messages.
func NewChain(owner reflect.Type, modules ...Module) (*Chain, error) {
	c := &Chain{owner: owner}
	if err := c.Add(modules...); err != nil {
		return nil, err
	}
	return c, nil
}

// Owner returns the host type the chain belongs to.
func (c *Chain) Owner() reflect.Type {
	return c.owner
}

// Add appends modules to the chain, preserving call order. Either every
// module is added or none is.
func (c *Chain) Add(modules ...Module) error {
	for _, m := range modules {
		if isNilModule(m) {
			return RegistrationError{Owner: c.owner, Cause: ErrModuleNil}
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.frozen {
		return RegistrationError{Owner: c.owner, Cause: ErrChainFrozen}
	}

	c.modules = append(c.modules, modules...)
	return nil
}

// Lookup tries each module in order and returns the value of the first one
// that provides name. A miss is reported with found == false and a nil
// error. Module failures are wrapped in ProviderError.
func (c *Chain) Lookup(name string) (value any, found bool, err error) {
	_, value, found, err = c.lookup(name)
	return value, found, err
}

func (c *Chain) lookup(name string) (Module, any, bool, error) {
	for _, m := range c.snapshot() {
		value, found, err := m.Lookup(name)
		if err != nil {
			return m, nil, true, ProviderError{Name: name, Module: describeModule(m), Cause: err}
		}
		if found {
			return m, value, true, nil
		}
	}
	return nil, nil, false, nil
}

// Provides reports whether any module provides name. It never fails.
func (c *Chain) Provides(name string) bool {
	for _, m := range c.snapshot() {
		if provides(m, name) {
			return true
		}
	}
	return false
}

// Modules returns a copy of the modules in lookup order.
func (c *Chain) Modules() []Module {
	return append([]Module(nil), c.snapshot()...)
}

// Len returns the number of modules in the chain.
func (c *Chain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.modules)
}

// Freeze makes the chain read-only. It is idempotent.
func (c *Chain) Freeze() {
	c.mu.Lock()
	c.frozen = true
	c.mu.Unlock()
}

// Frozen reports whether the chain is read-only.
func (c *Chain) Frozen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.frozen
}

// snapshot returns the current module slice. Add never mutates elements
// already appended, so callers may iterate it without holding the lock.
func (c *Chain) snapshot() []Module {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.modules[:len(c.modules):len(c.modules)]
}

func isNilModule(m Module) bool {
	if m == nil {
		return true
	}
	v := reflect.ValueOf(m)
	switch v.Kind() {
	case reflect.Pointer, reflect.Func:
		return v.IsNil()
	}
	return false
}

// chains holds the chain declared for each host type.
var chains sync.Map // map[reflect.Type]*Chain

// ChainOf returns the chain declared for host type t, creating an empty one
// on first use. Every instance of t shares it.
func ChainOf(t reflect.Type) *Chain {
	if cached, ok := chains.Load(t); ok {
		return cached.(*Chain)
	}
	actual, _ := chains.LoadOrStore(t, &Chain{owner: t})
	return actual.(*Chain)
}

// Declare returns the chain declared for host type H.
//
//	var _ = dependor.Declare[*App]()
func Declare[H any]() *Chain {
	return ChainOf(reflect.TypeOf((*H)(nil)).Elem())
}

// LookInModules appends search modules to the chain of host type H. Call it
// while the program is being set up, before any H instance resolves a
// dependency.
//
//	func init() {
//	    dependor.LookInModules[*App](
//	        dependor.Values{"region": "eu-west-1"},
//	        infraFactory,
//	    )
//	}
func LookInModules[H any](modules ...Module) error {
	return Declare[H]().Add(modules...)
}
