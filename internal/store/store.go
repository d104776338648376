// Package store persists simulation history. History sits on top of a Slots
// backend: a tiny named-value store with SQLite, Postgres and in-memory
// implementations.
package store

import (
	"context"
	errs "errors"
	"fmt"

	"github.com/pkg/errors"

	"github.com/DaanHessen/humanos-tui/internal/util"
)

var ErrNoChange = errs.New("no change")

// Slots stores opaque values under string keys. Put replaces the whole value.
type Slots interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open returns the slot backend selected by cfg.HistoryBackend.
func Open(ctx context.Context, cfg util.Config) (Slots, error) {
	switch cfg.HistoryBackend {
	case util.BackendMemory:
		return NewMemory(), nil
	case util.BackendPostgres:
		db, err := OpenPostgres(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return db, nil
	case util.BackendSQLite, "":
		db, err := OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.HistoryBackend)
	}
}

// Helper error wrap
func wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, msg)
}
