package store

import (
	"context"
	"fmt"

	"github.com/saunasuites/suites/internal/config"
)

// Open returns the Store selected by cfg.StoreDriver.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		return OpenSQLite(cfg.DBPath)
	case config.DriverPostgres:
		return OpenPostgres(ctx, cfg.DatabaseURL)
	case config.DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
