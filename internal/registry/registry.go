package registry

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"
)

// ErrInvalidTokenKind is returned when a value cannot serve as a token.
var ErrInvalidTokenKind = errors.New("invalid token kind")

// Kind distinguishes the three token shapes an Identity can originate from.
type Kind uint8

const (
	// KindName is a string-named dependency.
	KindName Kind = iota + 1

	// KindMarker is an opaque, uniquely generated marker.
	KindMarker

	// KindType is a dependency identified by its Go type.
	KindType
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindName:
		return "name"
	case KindMarker:
		return "marker"
	case KindType:
		return "type"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Identity is the canonical, comparable form of a token.
// It is safe to use as a map key. The zero Identity is never produced
// by a Registry.
type Identity struct {
	kind  Kind
	key   any // string, uuid.UUID or reflect.Type
	label string
}

// Kind returns the shape of the token this identity was derived from.
func (id Identity) Kind() Kind {
	return id.kind
}

// IsZero reports whether id is the zero Identity.
func (id Identity) IsZero() bool {
	return id.kind == 0
}

// String returns the diagnostic label of the identity.
func (id Identity) String() string {
	if id.IsZero() {
		return "<invalid>"
	}

	return id.label
}

// Registry interns identities for names and types.
// Markers are already canonical and pass through unchanged.
type Registry struct {
	mu    sync.RWMutex
	names map[string]Identity
	types map[reflect.Type]Identity
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		names: make(map[string]Identity),
		types: make(map[reflect.Type]Identity),
	}
}

// Name returns the interned identity for a string name.
func (r *Registry) Name(name string) Identity {
	r.mu.RLock()
	id, ok := r.names[name]
	r.mu.RUnlock()
	if ok {
		return id
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.names[name]; ok {
		return id
	}

	id = Identity{kind: KindName, key: name, label: name}
	r.names[name] = id
	return id
}

// Type returns the interned identity for a Go type.
// The type must have a constructable shape.
func (r *Registry) Type(t reflect.Type) (Identity, error) {
	if err := checkConstructable(t); err != nil {
		return Identity{}, err
	}

	r.mu.RLock()
	id, ok := r.types[t]
	r.mu.RUnlock()
	if ok {
		return id, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.types[t]; ok {
		return id, nil
	}

	id = Identity{kind: KindType, key: t, label: "type:" + typeLabel(t)}
	r.types[t] = id
	return id, nil
}

// Marker returns the identity of an opaque marker.
func (r *Registry) Marker(id uuid.UUID, description string) Identity {
	label := description
	if label == "" {
		label = "marker:" + id.String()
	}

	return Identity{kind: KindMarker, key: id, label: label}
}

// Len returns the number of interned names and types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names) + len(r.types)
}

func checkConstructable(t reflect.Type) error {
	if t == nil {
		return fmt.Errorf("%w: type cannot be nil", ErrInvalidTokenKind)
	}

	switch t.Kind() {
	case reflect.Invalid, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return fmt.Errorf("%w: %s is not a constructable type", ErrInvalidTokenKind, t)
	}

	return nil
}

// typeLabel derives a short diagnostic name from the declared type name.
func typeLabel(t reflect.Type) string {
	prefix := ""
	for t.Kind() == reflect.Pointer {
		prefix += "*"
		t = t.Elem()
	}

	if t.Name() == "" {
		return prefix + "Anonymous"
	}

	return prefix + t.Name()
}
