package tokendi

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/junioryono/tokendi/config"
)

// Option configures Builder.Build.
type Option interface {
	apply(*buildOptions)
}

// buildOptions holds build configuration.
type buildOptions struct {
	parent *Container
	logger zerolog.Logger
	eager  bool
}

func defaultBuildOptions() *buildOptions {
	return &buildOptions{logger: zerolog.Nop()}
}

// optionFunc adapts a function to Option.
type optionFunc func(*buildOptions)

func (f optionFunc) apply(opts *buildOptions) {
	f(opts)
}

// WithParent makes the built container a child of parent. Tokens missing
// from the new table are looked up in parent's. Passing nil builds a root
// container.
func WithParent(parent *Container) Option {
	return optionFunc(func(opts *buildOptions) {
		opts.parent = parent
	})
}

// WithLogger sets the logger used for resolution and disposal events.
// Containers log nothing by default.
func WithLogger(logger zerolog.Logger) Option {
	return optionFunc(func(opts *buildOptions) {
		opts.logger = logger
	})
}

// WithEagerSingletons builds every non-lazy singleton during Build, so
// construction errors surface before the container is used.
func WithEagerSingletons() Option {
	return optionFunc(func(opts *buildOptions) {
		opts.eager = true
	})
}

// WithConfig applies a loaded config.Config: its logger (written to
// stderr) and its eager-singleton flag. A nil cfg is ignored.
func WithConfig(cfg *config.Config) Option {
	return optionFunc(func(opts *buildOptions) {
		if cfg == nil {
			return
		}
		opts.logger = cfg.Logger(os.Stderr)
		opts.eager = opts.eager || cfg.EagerSingletons
	})
}
