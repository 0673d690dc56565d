package tokendi

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/junioryono/tokendi/internal/graph"
	"github.com/junioryono/tokendi/internal/registry"
)

// Container resolves tokens against a frozen registration table.
//
// A Container owns a singleton cache and may have a parent. Lookups that
// miss the container's own table walk up the parent chain; see Get for
// how parent-owned registrations are built.
//
// Container is safe for concurrent use. Singletons are constructed at
// most once per container even under concurrent resolution.
type Container struct {
	id        string
	registry  *registry.Registry
	table     *table
	cache     *instanceCache
	lifecycle *lifecycleManager
	parent    *Container
	logger    zerolog.Logger
	closed    atomic.Bool
}

func newContainer(reg *registry.Registry, t *table, parent *Container, logger zerolog.Logger) *Container {
	id := uuid.NewString()
	logger = logger.With().Str("container", id).Logger()

	return &Container{
		id:        id,
		registry:  reg,
		table:     t,
		cache:     newInstanceCache(),
		lifecycle: newLifecycleManager(t, logger),
		parent:    parent,
		logger:    logger,
	}
}

// ID returns the unique identifier of the container.
func (c *Container) ID() string {
	return c.id
}

// Parent returns the parent container, or nil for a root container.
func (c *Container) Parent() *Container {
	return c.parent
}

// Get resolves token. Accepted token shapes are those of TokenOf.
//
// Resolution looks the identity up in this container's table first, then
// in each ancestor's. When the registration belongs to an ancestor:
//
//   - a singleton already cached by that ancestor is returned as-is
//   - otherwise the ancestor builds it on this container's resolution path,
//     resolving its dependencies through the ancestor's own table, and the
//     result is cached nowhere. A parent-owned singleton reached this way is
//     rebuilt on every Get until the parent itself resolves it.
//
// A registration marked Lazy returns a *Lazy[any] without building
// anything.
func (c *Container) Get(token any) (any, error) {
	return c.resolve(graph.NewPath(), token)
}

// Has reports whether token is registered in this container's own table.
// Parents are not consulted and nothing is built.
func (c *Container) Has(token any) bool {
	id, err := normalize(c.registry, token)
	if err != nil {
		return false
	}

	return c.table.has(id)
}

// GetTagged resolves every registration in this container's own table
// carrying tag, in registration order. Parents are not consulted. An
// unknown tag yields an empty slice.
func (c *Container) GetTagged(tag string) ([]any, error) {
	return c.getTagged(graph.NewPath(), tag)
}

// CreateScope returns a child container that shares this container's
// table but holds its own singletons. Closing the child does not affect
// the parent.
func (c *Container) CreateScope() *Container {
	child := newContainer(c.registry, c.table, c, c.logger)
	c.logger.Debug().Str("scope", child.id).Msg("scope created")
	return child
}

// Resolved reports whether token has a singleton cached in this container.
func (c *Container) Resolved(token any) bool {
	id, err := normalize(c.registry, token)
	if err != nil {
		return false
	}

	_, ok := c.cache.get(id)
	return ok
}

// Registration returns the registration stored for token in this
// container's own table.
func (c *Container) Registration(token any) (Registration, bool) {
	id, err := normalize(c.registry, token)
	if err != nil {
		return Registration{}, false
	}

	reg, ok := c.table.get(id)
	if !ok {
		return Registration{}, false
	}

	return reg.clone(), true
}

// Close disposes this container's singletons. See CloseContext.
func (c *Container) Close() error {
	return c.CloseContext(context.Background())
}

// CloseContext disposes this container's singletons in reverse
// construction order and marks the container closed. Later calls return
// nil. Singletons owned by a parent are left alone.
func (c *Container) CloseContext(ctx context.Context) error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	instances := c.cache.drain()
	c.logger.Debug().Int("instances", len(instances)).Msg("closing container")

	if errs := c.lifecycle.dispose(ctx, instances); len(errs) > 0 {
		return &DisposalError{Context: "container", Errors: errs}
	}

	return nil
}

func (c *Container) resolve(path *graph.Path, token any) (any, error) {
	if c.closed.Load() {
		return nil, ErrContainerClosed
	}

	id, err := normalize(c.registry, token)
	if err != nil {
		return nil, err
	}

	return c.resolveIdentity(path, id)
}

func (c *Container) resolveIdentity(path *graph.Path, id Identity) (any, error) {
	reg, owner, ok := c.lookup(id)
	if !ok {
		return nil, &ResolutionError{Identity: id, Cause: ErrDefinitionNotFound}
	}

	if reg.Factory == nil {
		return nil, &ResolutionError{Identity: id, Cause: ErrDefinitionNotFound}
	}

	if reg.Lazy {
		c.logger.Debug().Str("token", id.String()).Msg("deferring lazy registration")
		return NewLazy(func() (any, error) {
			if c.closed.Load() {
				return nil, ErrContainerClosed
			}
			return c.construct(graph.NewPath(), id, reg, owner)
		}), nil
	}

	return c.construct(path, id, reg, owner)
}

// lookup finds the registration for id starting at c and walking up the
// parent chain. It returns the container whose table holds it.
func (c *Container) lookup(id Identity) (Registration, *Container, bool) {
	for e := c; e != nil; e = e.parent {
		if reg, ok := e.table.get(id); ok {
			return reg, e, true
		}
	}

	return Registration{}, nil, false
}

func (c *Container) construct(path *graph.Path, id Identity, reg Registration, owner *Container) (any, error) {
	if owner != c {
		c.logger.Debug().
			Str("token", id.String()).
			Str("owner", owner.id).
			Msg("delegating to parent registration")

		if reg.Lifetime == Singleton {
			if instance, ok := owner.cache.get(id); ok {
				return instance, nil
			}
		}

		// Dependencies come from the owner's table, on the requester's path.
		return owner.build(path, id, reg)
	}

	if reg.Lifetime != Singleton {
		return c.build(path, id, reg)
	}

	if instance, ok := c.cache.get(id); ok {
		return instance, nil
	}

	if err := path.Begin(id); err != nil {
		return nil, err
	}
	defer path.End(id)

	unlock := c.cache.lock(id)
	defer unlock()

	if instance, ok := c.cache.get(id); ok {
		return instance, nil
	}

	instance, err := c.invoke(path, id, reg)
	if err != nil {
		return nil, err
	}

	if !c.cache.set(id, instance) {
		// The container closed while the factory ran.
		c.lifecycle.dispose(context.Background(), []cachedInstance{{identity: id, instance: instance}})
		return nil, ErrContainerClosed
	}

	return instance, nil
}

// build runs the factory without caching the result.
func (c *Container) build(path *graph.Path, id Identity, reg Registration) (any, error) {
	if err := path.Begin(id); err != nil {
		return nil, err
	}
	defer path.End(id)

	return c.invoke(path, id, reg)
}

func (c *Container) invoke(path *graph.Path, id Identity, reg Registration) (any, error) {
	c.logger.Debug().
		Str("token", id.String()).
		Str("lifetime", reg.Lifetime.String()).
		Int("depth", path.Depth()).
		Msg("constructing")

	instance, err := reg.Factory(&pathResolver{container: c, path: path})
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("token", id.String()).
			Msg("factory failed")
		return nil, err
	}

	return instance, nil
}

func (c *Container) getTagged(path *graph.Path, tag string) ([]any, error) {
	if c.closed.Load() {
		return nil, ErrContainerClosed
	}

	ids := c.table.tagged(tag)
	instances := make([]any, 0, len(ids))

	for _, id := range ids {
		instance, err := c.resolveIdentity(path, id)
		if err != nil {
			return nil, err
		}
		instances = append(instances, instance)
	}

	return instances, nil
}

// createEagerSingletons builds every non-lazy singleton in registration
// order.
func (c *Container) createEagerSingletons() error {
	for _, id := range c.table.identities() {
		reg, _ := c.table.get(id)
		if reg.Lifetime != Singleton || reg.Lazy || reg.Factory == nil {
			continue
		}

		if _, err := c.resolveIdentity(graph.NewPath(), id); err != nil {
			return err
		}
	}

	return nil
}
