package tokendi

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"github.com/junioryono/tokendi/internal/registry"
)

// Identity is the canonical, comparable form of a Token.
type Identity = registry.Identity

// Token identifies a dependency. It is a closed union of NameToken,
// MarkerToken and TypeToken; other packages cannot add implementations.
type Token interface {
	fmt.Stringer

	identity(r *registry.Registry) (Identity, error)
}

var (
	_ Token = NameToken("")
	_ Token = MarkerToken{}
	_ Token = TypeToken{}
)

// NameToken identifies a dependency by a string name such as "db.connection".
type NameToken string

// Name returns a NameToken.
func Name(name string) NameToken {
	return NameToken(name)
}

func (n NameToken) String() string {
	return string(n)
}

func (n NameToken) identity(r *registry.Registry) (Identity, error) {
	return r.Name(string(n)), nil
}

// MarkerToken is an opaque token that is equal only to itself.
// Two markers created with the same description are still distinct.
type MarkerToken struct {
	id          uuid.UUID
	description string
}

// NewMarker creates a unique MarkerToken. The description is used only
// in diagnostics.
//
// Example:
//
//	var LoggerToken = tokendi.NewMarker("Logger")
func NewMarker(description string) MarkerToken {
	return MarkerToken{id: uuid.New(), description: description}
}

func (m MarkerToken) String() string {
	if m.description == "" {
		return "marker:" + m.id.String()
	}

	return m.description
}

func (m MarkerToken) identity(r *registry.Registry) (Identity, error) {
	if m.id == uuid.Nil {
		return Identity{}, &TokenError{Value: m, Reason: "marker was not created with NewMarker"}
	}

	return r.Marker(m.id, m.description), nil
}

// TypeToken identifies a dependency by its Go type.
type TypeToken struct {
	typ reflect.Type
}

// TypeOf returns the TypeToken for T. Interface types are supported.
//
// Example:
//
//	tokendi.TypeOf[*Database]()
//	tokendi.TypeOf[Logger]() // interface
func TypeOf[T any]() TypeToken {
	return TypeToken{typ: reflect.TypeOf((*T)(nil)).Elem()}
}

// TypeFor returns the TypeToken for t.
func TypeFor(t reflect.Type) TypeToken {
	return TypeToken{typ: t}
}

// Type returns the underlying reflect.Type.
func (t TypeToken) Type() reflect.Type {
	return t.typ
}

func (t TypeToken) String() string {
	if t.typ == nil {
		return "<nil>"
	}

	return t.typ.String()
}

func (t TypeToken) identity(r *registry.Registry) (Identity, error) {
	id, err := r.Type(t.typ)
	if err != nil {
		return Identity{}, &TokenError{Value: t.typ, Reason: err.Error()}
	}

	return id, nil
}

// TokenOf converts v into a Token. Strings become NameTokens,
// reflect.Types become TypeTokens and Tokens are returned unchanged.
// Any other value fails with ErrInvalidTokenKind.
func TokenOf(v any) (Token, error) {
	switch t := v.(type) {
	case Token:
		return t, nil
	case string:
		return NameToken(t), nil
	case reflect.Type:
		if t == nil {
			return nil, &TokenError{Value: v, Reason: "type cannot be nil"}
		}
		return TypeToken{typ: t}, nil
	default:
		return nil, &TokenError{Value: v, Reason: fmt.Sprintf("unsupported token shape %T", v)}
	}
}

// normalize converts any accepted token shape into its interned Identity.
func normalize(r *registry.Registry, v any) (Identity, error) {
	token, err := TokenOf(v)
	if err != nil {
		return Identity{}, err
	}

	return token.identity(r)
}
