package depevent

import "time"

// Event defines an event emitted by dependor.
type Event interface {
	event() // Only depevent can implement this interface.
}

func (*ResolverBuilt) event() {}
func (*LookedUp) event()      {}
func (*Missing) event()       {}
func (*Overridden) event()    {}
func (*Instantiated) event()  {}

// ResolverBuilt is emitted when a host builds its auto resolver and the
// host type's module chain is frozen.
type ResolverBuilt struct {
	// Host is the type name of the host instance.
	Host string
	// Modules lists the search modules of the chain in lookup order.
	Modules []string
}

// LookedUp is emitted when a search module answers for a name.
type LookedUp struct {
	Host   string
	Name   string
	Module string
	// Err is set when the module provides the name but failed to produce
	// its value.
	Err error
}

// Missing is emitted when no search module provides a name.
type Missing struct {
	Host string
	Name string
}

// Overridden is emitted when an explicit override answers for a name.
type Overridden struct {
	Name string
}

// Instantiated is emitted after an instantiation pass, successful or not.
type Instantiated struct {
	// PassID identifies the resolution pass.
	PassID string
	Target string
	// Names are the dependency names requested by the target, in order.
	Names   []string
	Runtime time.Duration
	Err     error
}
