// Package store persists collected task records. Stores are append-only;
// records are never rewritten once stored.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spboyer/promptlift/internal/models"
)

// Backend names.
const (
	BackendJSONL  = "jsonl"
	BackendBadger = "badger"
)

// Store is an append-only record log, partitioned by method.
type Store interface {
	// Append stores records in order. Records must be valid.
	Append(ctx context.Context, records ...models.TaskRecord) error
	// Population reads every stored record back, in append order.
	Population(ctx context.Context) (*models.Population, error)
	Close() error
}

// Options configures Open.
type Options struct {
	// Compress gzips JSONL files. Ignored by the badger backend.
	Compress bool
	// InMemory keeps a badger store off disk. Ignored by the jsonl backend.
	InMemory bool
	Logger   *slog.Logger
}

// Open returns the store for backend rooted at dir.
func Open(backend, dir string, opts Options) (Store, error) {
	switch backend {
	case "", BackendJSONL:
		return OpenJSONL(dir, opts.Compress)
	case BackendBadger:
		cfg := DefaultBadgerConfig()
		cfg.Path = dir
		cfg.InMemory = opts.InMemory
		cfg.Logger = opts.Logger
		return OpenBadger(cfg)
	}
	return nil, fmt.Errorf("unknown store backend %q", backend)
}

func validate(records []models.TaskRecord) error {
	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}
