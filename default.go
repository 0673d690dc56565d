package tokendi

import "sync/atomic"

var defaultContainer atomic.Pointer[Container]

// SetDefault sets the container returned by Default. This is similar to
// slog.SetDefault. Pass nil to remove it.
func SetDefault(c *Container) {
	defaultContainer.Store(c)
}

// Default returns the default container, or nil if none has been set.
func Default() *Container {
	return defaultContainer.Load()
}
