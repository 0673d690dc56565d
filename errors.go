package tokendi

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/junioryono/tokendi/internal/graph"
	"github.com/junioryono/tokendi/internal/registry"
)

// ========================================
// Core Error Values (Sentinel Errors)
// ========================================
// Typed errors below wrap these; match them with errors.Is.

var (
	// ErrInvalidTokenKind indicates a value that cannot be used as a token.
	ErrInvalidTokenKind = registry.ErrInvalidTokenKind

	// ErrInvalidDefinition indicates a malformed definition.
	ErrInvalidDefinition = errors.New("invalid definition")

	// ErrDefinitionNotFound indicates that no usable registration is reachable.
	ErrDefinitionNotFound = errors.New("definition not found")

	// ErrCircularDependency indicates a re-entrant resolution on one path.
	ErrCircularDependency = graph.ErrCircularDependency

	// ErrImmutableTable indicates a registration attempt after Build.
	ErrImmutableTable = errors.New("registration table is frozen")

	// ErrContainerClosed indicates use of a container after Close.
	ErrContainerClosed = errors.New("container has been closed")

	// ErrContainerNil indicates a nil container or resolver.
	ErrContainerNil = errors.New("container cannot be nil")
)

var (
	_ error = (*TokenError)(nil)
	_ error = (*DefinitionError)(nil)
	_ error = (*ResolutionError)(nil)
	_ error = (*RegistrationError)(nil)
	_ error = (*TypeMismatchError)(nil)
	_ error = (*DisposalError)(nil)
	_ error = (*LifetimeError)(nil)
	_ error = (*CircularDependencyError)(nil)
	_ error = ModuleError{}
)

// CircularDependencyError reports the chain of identities that formed a cycle.
type CircularDependencyError = graph.CircularDependencyError

// TokenError indicates a value that is not a supported token shape.
type TokenError struct {
	Value  any
	Reason string
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("invalid token %v: %s", e.Value, e.Reason)
}

func (e *TokenError) Unwrap() error {
	return ErrInvalidTokenKind
}

// DefinitionError indicates a definition the normalizer could not accept.
type DefinitionError struct {
	Token      string // empty when the definition was normalized without a token
	Definition any
	Reason     string
}

func (e *DefinitionError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("invalid definition for %s (%T): %s", e.Token, e.Definition, e.Reason)
	}
	return fmt.Sprintf("invalid definition %T: %s", e.Definition, e.Reason)
}

func (e *DefinitionError) Unwrap() error {
	return ErrInvalidDefinition
}

// ResolutionError wraps failures of the engine itself while resolving a token.
// Factory errors are never wrapped in it.
type ResolutionError struct {
	Identity Identity
	Cause    error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve %s: %v", e.Identity, e.Cause)
}

func (e *ResolutionError) Unwrap() error {
	return e.Cause
}

// RegistrationError wraps errors during registration.
type RegistrationError struct {
	Token     string
	Operation string // "set", "normalize"
	Cause     error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Token, e.Cause)
}

func (e *RegistrationError) Unwrap() error {
	return e.Cause
}

// TypeMismatchError indicates a resolved instance was not of the requested type.
type TypeMismatchError struct {
	Expected reflect.Type
	Actual   reflect.Type
	Context  string // "type assertion", "tagged item 2", ...
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Context, formatType(e.Expected), formatType(e.Actual))
}

// DisposalError aggregates errors raised while tearing a container down.
type DisposalError struct {
	Context string // "container", "scope"
	Errors  []error
}

func (e *DisposalError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("%s disposal failed: %v", e.Context, e.Errors[0])
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s disposal failed with %d errors:", e.Context, len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("\n  %d. %v", i+1, err))
	}
	return sb.String()
}

func (e *DisposalError) Unwrap() []error {
	return e.Errors
}

// ModuleError wraps errors raised while applying a module.
type ModuleError struct {
	Module string
	Cause  error
}

func (e ModuleError) Error() string {
	return fmt.Sprintf("module %q: %v", e.Module, e.Cause)
}

func (e ModuleError) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether err is a DefinitionNotFound failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDefinitionNotFound)
}

// IsCircularDependency reports whether err is a circular dependency failure.
func IsCircularDependency(err error) bool {
	var circErr *CircularDependencyError
	return errors.As(err, &circErr)
}

// IsInvalidToken reports whether err is an InvalidTokenKind failure.
func IsInvalidToken(err error) bool {
	return errors.Is(err, ErrInvalidTokenKind)
}

// IsInvalidDefinition reports whether err is an InvalidDefinition failure.
func IsInvalidDefinition(err error) bool {
	return errors.Is(err, ErrInvalidDefinition)
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
	default:
		if t.Name() != "" {
			return t.Name()
		}
		return t.String()
	}
}
