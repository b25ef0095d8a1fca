// Package snapshot persists the last successful NEO feed fetch per date range
// in an embedded BadgerDB, so the feed cache can serve stale data while the
// upstream API is unavailable.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/couchcryptid/asteroid-impact-service/internal/domain"
)

// ErrNotFound is returned when no snapshot exists for a key.
var ErrNotFound = errors.New("snapshot not found")

const keyPrefix = "neo-feed:"

// Snapshot is one stored feed result.
type Snapshot struct {
	Key       string            `json:"key"`
	FetchedAt time.Time         `json:"fetched_at"`
	Asteroids []domain.Asteroid `json:"asteroids"`
}

// Config holds configuration for a snapshot store.
type Config struct {
	// Dir is the badger directory. Ignored when InMemory is true.
	Dir string

	// InMemory keeps everything in RAM; data is lost on Close.
	InMemory bool

	// SyncWrites fsyncs every write.
	SyncWrites bool

	// Retention expires snapshots after this long. Zero keeps them forever.
	Retention time.Duration

	// Logger receives badger's internal logs. Nil disables them.
	Logger *slog.Logger
}

// DefaultConfig returns a persistent configuration rooted at dir. An empty
// dir yields an in-memory store.
func DefaultConfig(dir string) Config {
	if dir == "" {
		return InMemoryConfig()
	}
	return Config{
		Dir:        dir,
		SyncWrites: true,
		Retention:  30 * 24 * time.Hour,
	}
}

// InMemoryConfig returns a configuration for tests and stateless deployments.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// Store is a badger-backed snapshot store. Safe for concurrent use.
type Store struct {
	db        *badger.DB
	retention time.Duration
}

// Open opens (or creates) a snapshot store.
func Open(cfg Config) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Dir == "" {
			return nil, errors.New("snapshot dir is required for persistent store")
		}
		if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
			return nil, fmt.Errorf("create snapshot dir %s: %w", cfg.Dir, err)
		}
		opts = badger.DefaultOptions(cfg.Dir)
	}

	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}
	return &Store{db: db, retention: cfg.Retention}, nil
}

// Put stores s under s.Key, replacing any previous snapshot.
func (s *Store) Put(ctx context.Context, snap Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snap.Key == "" {
		return errors.New("snapshot key is required")
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(keyPrefix+snap.Key), data)
		if s.retention > 0 {
			e = e.WithTTL(s.retention)
		}
		return txn.SetEntry(e)
	})
}

// Get returns the snapshot stored under key, or ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot %s: %w", key, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot %s: %w", key, err)
	}
	return snap, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// badgerLogger adapts slog.Logger to badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
