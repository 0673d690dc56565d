package tokendi

import (
	"errors"
	"fmt"

	"github.com/junioryono/tokendi/internal/registry"
)

// Builder assembles a registration table. It is not safe for concurrent
// registration; build the table on one goroutine, then call Build.
//
// Example:
//
//	b := tokendi.NewBuilder()
//	b.MustSet("db", &Database{DSN: dsn})
//	b.MustSet(tokendi.TypeOf[*UserService](), tokendi.Class(NewUserService, "db"))
//
//	c, err := b.Build()
type Builder struct {
	registry *registry.Registry
	table    *table
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		registry: registry.New(),
		table:    newTable(),
	}
}

// Set normalizes definition and stores it under token, replacing any
// previous registration for the same token. It fails with
// ErrImmutableTable once Build has been called.
func (b *Builder) Set(token any, definition any) error {
	if b.table.isFrozen() {
		return &RegistrationError{Token: fmt.Sprint(token), Operation: "set", Cause: ErrImmutableTable}
	}

	id, err := normalize(b.registry, token)
	if err != nil {
		return &RegistrationError{Token: fmt.Sprint(token), Operation: "normalize", Cause: err}
	}

	reg, err := normalizeDefinition(definition)
	if err != nil {
		if defErr, ok := err.(*DefinitionError); ok {
			defErr.Token = id.String()
		}
		return &RegistrationError{Token: id.String(), Operation: "set", Cause: err}
	}

	if err := b.table.set(id, reg); err != nil {
		return &RegistrationError{Token: id.String(), Operation: "set", Cause: err}
	}

	return nil
}

// MustSet is like Set but panics on error.
func (b *Builder) MustSet(token any, definition any) *Builder {
	if err := b.Set(token, definition); err != nil {
		panic(err)
	}
	return b
}

// AddModules applies modules in order, stopping at the first error.
func (b *Builder) AddModules(modules ...Module) error {
	for _, module := range modules {
		if module == nil {
			continue
		}

		if err := module(b); err != nil {
			return err
		}
	}

	return nil
}

// Has reports whether token is registered.
func (b *Builder) Has(token any) bool {
	id, err := normalize(b.registry, token)
	if err != nil {
		return false
	}

	return b.table.has(id)
}

// Count returns the number of registered tokens.
func (b *Builder) Count() int {
	return b.table.len()
}

// Build freezes the table and returns a container over it. Build may be
// called more than once; each container has its own singletons.
func (b *Builder) Build(opts ...Option) (*Container, error) {
	options := defaultBuildOptions()
	for _, opt := range opts {
		if opt != nil {
			opt.apply(options)
		}
	}

	b.table.freeze()

	c := newContainer(b.registry, b.table, options.parent, options.logger)
	c.logger.Debug().
		Int("registrations", b.table.len()).
		Bool("child", options.parent != nil).
		Msg("container built")

	if options.eager {
		if err := c.createEagerSingletons(); err != nil {
			// release whatever was already built
			if closeErr := c.Close(); closeErr != nil {
				return nil, errors.Join(err, closeErr)
			}
			return nil, err
		}
	}

	return c, nil
}
