package store

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/spboyer/promptlift/internal/models"
)

// BadgerConfig configures a BadgerDB record store.
type BadgerConfig struct {
	// Path is the database directory. Required unless InMemory is set.
	Path string

	// InMemory runs the database without touching disk. Used by tests.
	InMemory bool

	// SyncWrites fsyncs every commit.
	SyncWrites bool

	// Logger receives BadgerDB's internal logs. Nil disables them.
	Logger *slog.Logger
}

// DefaultBadgerConfig returns the configuration used by the CLI.
func DefaultBadgerConfig() BadgerConfig {
	return BadgerConfig{SyncWrites: true}
}

// badgerLogger adapts slog.Logger to badger.Logger.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Key layout: "rec/<method>/" + 8-byte big-endian sequence. Iterating a
// method prefix yields records in append order.
var (
	recordPrefix = []byte("rec/")
	sequenceKey  = []byte("meta/seq")
)

const sequenceBandwidth = 128

// BadgerStore keeps records in a BadgerDB key-value store.
type BadgerStore struct {
	db  *badger.DB
	seq *badger.Sequence
}

// OpenBadger opens or creates the database described by cfg.
func OpenBadger(cfg BadgerConfig) (*BadgerStore, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	seq, err := db.GetSequence(sequenceKey, sequenceBandwidth)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open record sequence: %w", err)
	}
	return &BadgerStore{db: db, seq: seq}, nil
}

func methodPrefix(m models.Method) []byte {
	return append(append([]byte(nil), recordPrefix...), []byte(string(m)+"/")...)
}

func recordKey(m models.Method, n uint64) []byte {
	key := methodPrefix(m)
	return binary.BigEndian.AppendUint64(key, n)
}

// Append writes all records in one transaction.
func (s *BadgerStore) Append(ctx context.Context, records ...models.TaskRecord) error {
	if err := validate(records); err != nil {
		return err
	}
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := s.seq.Next()
		if err != nil {
			return fmt.Errorf("next record sequence: %w", err)
		}
		val, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encoding record %s: %w", rec.TaskID, err)
		}
		if err := wb.Set(recordKey(rec.Method, n), val); err != nil {
			return fmt.Errorf("writing record %s: %w", rec.TaskID, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("committing records: %w", err)
	}
	return nil
}

func (s *BadgerStore) Population(ctx context.Context) (*models.Population, error) {
	pop := models.NewPopulation()
	err := s.db.View(func(txn *badger.Txn) error {
		for _, m := range []models.Method{models.MethodManual, models.MethodGenerated} {
			records, err := scan(ctx, txn, methodPrefix(m))
			if err != nil {
				return err
			}
			if m == models.MethodManual {
				pop.AppendBaseline(records...)
			} else {
				pop.AppendEnhanced(records...)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pop, nil
}

func scan(ctx context.Context, txn *badger.Txn, prefix []byte) ([]models.TaskRecord, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	var records []models.TaskRecord
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var rec models.TaskRecord
		err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
		if err != nil {
			return nil, fmt.Errorf("decoding record %x: %w", it.Item().Key(), err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *BadgerStore) Close() error {
	return errors.Join(s.seq.Release(), s.db.Close())
}
