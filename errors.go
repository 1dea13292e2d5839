package dependor

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ========================================
// Core Error Values (Sentinel Errors)
// ========================================
// These are base errors that are wrapped in typed errors when returned.
// Match them with errors.Is.

var (
	// Resolution errors.
	ErrDependencyNotFound = errors.New("dependency not found")
	ErrResolverNil        = errors.New("resolver cannot be nil")

	// Declaration errors.
	ErrChainFrozen = errors.New("resolver chain is frozen")
	ErrModuleNil   = errors.New("search module cannot be nil")

	// Instantiation errors.
	ErrTargetNil = errors.New("target cannot be nil")
	ErrHostNil   = errors.New("host cannot be nil")
)

var (
	_ error = DependencyNotFoundError{}
	_ error = ProviderError{}
	_ error = InstantiationError{}
	_ error = RegistrationError{}
	_ error = TargetError{}
	_ error = DuplicateDependencyError{}
	_ error = TypeMismatchError{}
)

// ========================================
// Typed Errors for Rich Context
// ========================================

// DependencyNotFoundError is returned when no search module in a host's
// chain provides the requested name. It is the only point where absence
// becomes a failure.
type DependencyNotFoundError struct {
	Name      string
	Requester reflect.Type // host type whose chain was searched
}

func (e DependencyNotFoundError) Error() string {
	return fmt.Sprintf("dependency %q not found for %s", e.Name, formatType(e.Requester))
}

// Is reports whether target is ErrDependencyNotFound.
func (e DependencyNotFoundError) Is(target error) bool {
	return target == ErrDependencyNotFound
}

// ProviderError wraps a failure reported by a search module while it was
// producing the value for a name.
type ProviderError struct {
	Name   string
	Module string
	Cause  error
}

func (e ProviderError) Error() string {
	return fmt.Sprintf("module %s failed to provide %q: %v", e.Module, e.Name, e.Cause)
}

func (e ProviderError) Unwrap() error {
	return e.Cause
}

// InstantiationError tags a resolution failure with the target being built
// and the dependency that could not be resolved.
type InstantiationError struct {
	Target reflect.Type
	Name   string
	Cause  error
}

func (e InstantiationError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("cannot instantiate %s: %v", formatType(e.Target), e.Cause)
	}
	return fmt.Sprintf("cannot instantiate %s: dependency %q: %v", formatType(e.Target), e.Name, e.Cause)
}

func (e InstantiationError) Unwrap() error {
	return e.Cause
}

// RegistrationError wraps errors raised while declaring search modules.
type RegistrationError struct {
	Owner reflect.Type
	Cause error
}

func (e RegistrationError) Error() string {
	return fmt.Sprintf("cannot declare modules for %s: %v", formatType(e.Owner), e.Cause)
}

func (e RegistrationError) Unwrap() error {
	return e.Cause
}

// TargetError indicates a target type or constructor could not be analyzed.
type TargetError struct {
	Target reflect.Type
	Cause  error
}

func (e TargetError) Error() string {
	return fmt.Sprintf("invalid target %s: %v", formatType(e.Target), e.Cause)
}

func (e TargetError) Unwrap() error {
	return e.Cause
}

// DuplicateDependencyError indicates a target requests the same name twice.
type DuplicateDependencyError struct {
	Target reflect.Type
	Name   string
}

func (e DuplicateDependencyError) Error() string {
	return fmt.Sprintf("target %s requests dependency %q more than once", formatType(e.Target), e.Name)
}

// TypeMismatchError indicates a resolved value cannot be bound to the
// parameter or field that requested it.
type TypeMismatchError struct {
	Name     string
	Expected reflect.Type
	Actual   reflect.Type
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("dependency %q: expected %s, got %s", e.Name, formatType(e.Expected), formatType(e.Actual))
}

// IsNotFound reports whether err was caused by a missing dependency.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDependencyNotFound)
}

// MissingName returns the name carried by the innermost
// DependencyNotFoundError in err's chain.
func MissingName(err error) (string, bool) {
	var nf DependencyNotFoundError
	if errors.As(err, &nf) {
		return nf.Name, true
	}
	return "", false
}

// formatType formats a reflect.Type for error messages.
func formatType(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind() {
	case reflect.Pointer:
		elem := t.Elem()
		if elem.PkgPath() != "" && elem.Name() != "" {
			return "*" + elem.Name()
		}
		return t.String()
	case reflect.Slice:
		elem := t.Elem()
		if elem.PkgPath() != "" && elem.Name() != "" {
			return "[]" + elem.Name()
		}
		return t.String()
	case reflect.Func:
		return t.String()
	default:
		if t.Name() != "" {
			return t.Name()
		}
		return t.String()
	}
}

// describeModule names a search module for errors and events.
func describeModule(m Module) string {
	if s, ok := m.(fmt.Stringer); ok {
		return s.String()
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", m), "dependor.")
}
