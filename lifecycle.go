package tokendi

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// lifecycleManager tears down the singletons of one container. It runs
// outside resolution: the engine only records construction order in the
// instance cache.
type lifecycleManager struct {
	table  *table
	logger zerolog.Logger
}

func newLifecycleManager(t *table, logger zerolog.Logger) *lifecycleManager {
	return &lifecycleManager{table: t, logger: logger}
}

// dispose releases instances in reverse construction order. A
// registration's OnDestroy hook takes precedence over the Disposable
// interfaces; instances with neither are skipped. Every instance is
// visited even when an earlier one fails.
func (m *lifecycleManager) dispose(ctx context.Context, instances []cachedInstance) []error {
	var errs []error

	for i := len(instances) - 1; i >= 0; i-- {
		entry := instances[i]

		if err := m.disposeOne(ctx, entry); err != nil {
			m.logger.Error().
				Err(err).
				Str("token", entry.identity.String()).
				Msg("dispose failed")
			errs = append(errs, fmt.Errorf("%s: %w", entry.identity, err))
		}
	}

	return errs
}

func (m *lifecycleManager) disposeOne(ctx context.Context, entry cachedInstance) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during disposal: %v", r)
		}
	}()

	if reg, ok := m.table.get(entry.identity); ok && reg.OnDestroy != nil {
		return reg.OnDestroy(entry.instance)
	}

	switch d := entry.instance.(type) {
	case DisposableWithContext:
		return d.Close(ctx)
	case Disposable:
		return d.Close()
	}

	return nil
}
