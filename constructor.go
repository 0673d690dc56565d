package tokendi

import (
	"fmt"
	"slices"

	"github.com/junioryono/tokendi/internal/reflection"
)

// Constructor describes a Go constructor function together with the
// ordered tokens of its parameters. It is the class-like definition shape:
// the normalizer wraps it in a factory that resolves each dependency and
// calls the function positionally.
//
// The function must return T or (T, error).
type Constructor struct {
	fn   any
	deps []Token
	err  error
}

// Class describes fn with explicit dependency tokens, one per parameter.
// Dependencies may be any token shape accepted by TokenOf. With no
// dependencies fn must take no parameters.
//
// Example:
//
//	tokendi.Class(NewUserService, "db", tokendi.TypeOf[*Logger]())
func Class(fn any, deps ...any) Constructor {
	c := Constructor{fn: fn, deps: make([]Token, 0, len(deps))}

	for i, dep := range deps {
		token, err := TokenOf(dep)
		if err != nil {
			c.err = fmt.Errorf("dependency %d: %w", i, err)
			return c
		}
		c.deps = append(c.deps, token)
	}

	return c
}

// Autowire describes fn using the Go type of each parameter as its
// dependency token. It is the opt-in reflection step: the engine itself
// never inspects constructor signatures.
//
// Example:
//
//	// func NewUserService(db *Database, log Logger) *UserService
//	tokendi.Autowire(NewUserService)
func Autowire(fn any) Constructor {
	info, err := reflection.Default().Analyze(fn)
	if err != nil {
		return Constructor{fn: fn, err: err}
	}

	deps := make([]Token, len(info.Parameters))
	for i, param := range info.Parameters {
		deps[i] = TypeFor(param.Type)
	}

	return Constructor{fn: fn, deps: deps}
}

// Dependencies returns the dependency tokens in parameter order.
func (c Constructor) Dependencies() []Token {
	return slices.Clone(c.deps)
}

// Factory returns the factory that resolves the dependencies and calls
// the constructor.
func (c Constructor) Factory() (Factory, error) {
	if c.err != nil {
		return nil, &DefinitionError{Definition: c.fn, Reason: c.err.Error()}
	}

	info, err := reflection.Default().Analyze(c.fn)
	if err != nil {
		return nil, &DefinitionError{Definition: c.fn, Reason: err.Error()}
	}

	if len(info.Parameters) != len(c.deps) {
		return nil, &DefinitionError{
			Definition: c.fn,
			Reason: fmt.Sprintf("constructor takes %d parameters but %d dependencies were declared (use Class or Autowire)",
				len(info.Parameters), len(c.deps)),
		}
	}

	deps := slices.Clone(c.deps)

	return func(r Resolver) (any, error) {
		args := make([]any, len(deps))
		for i, dep := range deps {
			arg, err := r.Get(dep)
			if err != nil {
				return nil, err
			}

			// A lazy dependency passed to a parameter that is not itself a
			// *Lazy[any] is materialized here, at its first use.
			if lazy, ok := arg.(*Lazy[any]); ok && info.Parameters[i].Type != lazyAnyType {
				if arg, err = lazy.Get(); err != nil {
					return nil, err
				}
			}

			args[i] = arg
		}

		return info.Invoke(args)
	}, nil
}

func (c Constructor) registration() (Registration, error) {
	factory, err := c.Factory()
	if err != nil {
		return Registration{}, err
	}

	return Registration{Factory: factory, Lifetime: Transient, Dependencies: c.Dependencies()}, nil
}
