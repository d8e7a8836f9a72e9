// Package store keeps saved games.
//
// A [Store] holds opaque save blobs (the compressed documents produced by
// package saves) together with an [Entry] describing each one. Backends:
//   - memory: in-process map for tests and the standalone server
//   - file: a directory of .usg files plus a JSON index, for the CLI
//   - sqlite: a single database file (modernc.org/sqlite, no cgo)
//   - redis: blobs in hashes, ordered by a sorted set index
//   - mongo: one document per save
//
// All backends are safe for concurrent use. Use [Open] to build the backend
// named by a config.StoreConfig.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/untangle/pkg/config"
	errs "github.com/matzehuels/untangle/pkg/errors"
	"github.com/matzehuels/untangle/pkg/observability"
)

// ErrNotFound is returned when no save has the requested ID.
var ErrNotFound = errors.New("save not found")

// Entry describes a stored save.
type Entry struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	LevelNumber int       `json:"level_number"`
	CreatedAt   time.Time `json:"created_at"`
	Size        int       `json:"size"`
}

// Store is the interface for save storage backends.
type Store interface {
	// Put stores data under e. An empty e.Name becomes "Level <n>", an
	// empty e.ID gets a fresh UUID and a zero CreatedAt is set to now; Size
	// is always set from data. An existing save with the same ID is
	// replaced. Put returns the stored entry.
	Put(ctx context.Context, e Entry, data []byte) (Entry, error)

	// Get returns the data and entry of a save, or ErrNotFound.
	Get(ctx context.Context, id string) ([]byte, Entry, error)

	// List returns all entries, newest first.
	List(ctx context.Context) ([]Entry, error)

	// Delete removes a save, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Close releases the backend's resources.
	Close() error
}

// Open builds the backend selected by cfg.Backend. Every call on the
// returned store is reported to the registered observability hooks.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	if cfg.Timeout.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout.Duration)
		defer cancel()
	}
	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case config.BackendFile:
		s, err = NewFileStore(cfg.Dir)
	case config.BackendSQLite:
		s, err = NewSQLiteStore(ctx, cfg.SQLitePath)
	case config.BackendRedis:
		s, err = NewRedisStore(ctx, RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
	case config.BackendMongo:
		s, err = NewMongoStore(ctx, MongoConfig{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDatabase,
			Collection: cfg.MongoCollection,
		})
	case "memory":
		s = NewMemoryStore()
	default:
		return nil, errs.New(errs.ErrCodeInvalidConfig, "unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "open %s store", cfg.Backend)
	}
	return &instrumented{inner: s, backend: cfg.Backend, timeout: cfg.Timeout.Duration}, nil
}

// prepare fills in the derived fields of an entry before it is stored.
func prepare(e Entry, data []byte) (Entry, error) {
	if e.Name == "" {
		e.Name = fmt.Sprintf("Level %d", e.LevelNumber)
	}
	if err := errs.ValidateSaveName(e.Name); err != nil {
		return Entry{}, err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	} else if _, err := uuid.Parse(e.ID); err != nil {
		return Entry{}, errs.New(errs.ErrCodeInvalidInput, "save id %q is not a UUID", e.ID)
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	e.CreatedAt = e.CreatedAt.UTC()
	e.Size = len(data)
	return e, nil
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// newestFirst orders entries by creation time, newest first, then by ID.
func newestFirst(a, b Entry) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	}
	return 0
}

// =============================================================================
// Instrumentation
// =============================================================================

type instrumented struct {
	inner   Store
	backend string
	timeout time.Duration
}

// Instrument wraps s so every call is reported to observability.Store().
func Instrument(s Store, backend string) Store {
	return &instrumented{inner: s, backend: backend}
}

func (s *instrumented) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *instrumented) report(ctx context.Context, op string, size int, start time.Time, err error) {
	observability.Store().OnStoreOp(ctx, s.backend, op, size, time.Since(start), err)
}

func (s *instrumented) Put(ctx context.Context, e Entry, data []byte) (Entry, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	start := time.Now()
	out, err := s.inner.Put(ctx, e, data)
	s.report(ctx, "put", len(data), start, err)
	return out, err
}

func (s *instrumented) Get(ctx context.Context, id string) ([]byte, Entry, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	start := time.Now()
	data, e, err := s.inner.Get(ctx, id)
	s.report(ctx, "get", len(data), start, err)
	return data, e, err
}

func (s *instrumented) List(ctx context.Context) ([]Entry, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	start := time.Now()
	out, err := s.inner.List(ctx)
	s.report(ctx, "list", 0, start, err)
	return out, err
}

func (s *instrumented) Delete(ctx context.Context, id string) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	start := time.Now()
	err := s.inner.Delete(ctx, id)
	s.report(ctx, "delete", 0, start, err)
	return err
}

func (s *instrumented) Close() error { return s.inner.Close() }
