package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/untangle/pkg/config"
	errs "github.com/matzehuels/untangle/pkg/errors"
	"github.com/matzehuels/untangle/pkg/observability"
)

// testStore runs the behaviour every backend must share.
func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("Empty", func(t *testing.T) {
		entries, err := s.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("PutGet", func(t *testing.T) {
		data := []byte{0x1f, 0x8b, 0x00, 0xff, 0x10}
		e, err := s.Put(ctx, Entry{Name: "first", LevelNumber: 3}, data)
		require.NoError(t, err)
		assert.NotEmpty(t, e.ID)
		assert.Equal(t, len(data), e.Size)
		assert.False(t, e.CreatedAt.IsZero())

		got, ge, err := s.Get(ctx, e.ID)
		require.NoError(t, err)
		assert.Equal(t, data, got)
		assert.Equal(t, e.ID, ge.ID)
		assert.Equal(t, "first", ge.Name)
		assert.Equal(t, 3, ge.LevelNumber)
		assert.Equal(t, len(data), ge.Size)
		assert.True(t, e.CreatedAt.Equal(ge.CreatedAt), "created %v != %v", e.CreatedAt, ge.CreatedAt)

		require.NoError(t, s.Delete(ctx, e.ID))
	})

	t.Run("Replace", func(t *testing.T) {
		e, err := s.Put(ctx, Entry{Name: "a", LevelNumber: 1}, []byte("one"))
		require.NoError(t, err)
		e2, err := s.Put(ctx, Entry{ID: e.ID, Name: "b", LevelNumber: 2}, []byte("two!"))
		require.NoError(t, err)
		assert.Equal(t, e.ID, e2.ID)

		got, ge, err := s.Get(ctx, e.ID)
		require.NoError(t, err)
		assert.Equal(t, []byte("two!"), got)
		assert.Equal(t, "b", ge.Name)
		assert.Equal(t, 2, ge.LevelNumber)

		entries, err := s.List(ctx)
		require.NoError(t, err)
		assert.Len(t, entries, 1)

		require.NoError(t, s.Delete(ctx, e.ID))
	})

	t.Run("ListNewestFirst", func(t *testing.T) {
		base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		var ids []string
		for i := range 3 {
			e, err := s.Put(ctx, Entry{
				Name:        "save",
				LevelNumber: i + 1,
				CreatedAt:   base.Add(time.Duration(i) * time.Minute),
			}, []byte{byte(i)})
			require.NoError(t, err)
			ids = append(ids, e.ID)
		}

		entries, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, ids[2], entries[0].ID)
		assert.Equal(t, ids[1], entries[1].ID)
		assert.Equal(t, ids[0], entries[2].ID)
		assert.Equal(t, 3, entries[0].LevelNumber)

		for _, id := range ids {
			require.NoError(t, s.Delete(ctx, id))
		}
	})

	t.Run("Missing", func(t *testing.T) {
		id := uuid.NewString()
		_, _, err := s.Get(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, s.Delete(ctx, id), ErrNotFound)
	})

	t.Run("DeleteTwice", func(t *testing.T) {
		e, err := s.Put(ctx, Entry{LevelNumber: 1}, []byte("x"))
		require.NoError(t, err)
		require.NoError(t, s.Delete(ctx, e.ID))
		assert.ErrorIs(t, s.Delete(ctx, e.ID), ErrNotFound)
		_, _, err = s.Get(ctx, e.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("InvalidEntry", func(t *testing.T) {
		_, err := s.Put(ctx, Entry{ID: "../../etc/passwd", LevelNumber: 1}, []byte("x"))
		assert.True(t, errs.Is(err, errs.ErrCodeInvalidInput), "got %v", err)

		_, err = s.Put(ctx, Entry{Name: "bad/name", LevelNumber: 1}, []byte("x"))
		assert.True(t, errs.Is(err, errs.ErrCodeInvalidSaveName), "got %v", err)
	})
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	t.Cleanup(func() { s.Close() })
	testStore(t, s)
}

func TestMemoryStore_CopiesData(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	data := []byte("abc")
	e, err := s.Put(ctx, Entry{LevelNumber: 1}, data)
	require.NoError(t, err)
	data[0] = 'z'

	got, _, err := s.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)
	got[1] = 'z'

	again, _, err := s.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "saves"))
	require.NoError(t, err)
	testStore(t, s)
}

func TestFileStore_Persists(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := NewFileStore(dir)
	require.NoError(t, err)
	e, err := s.Put(ctx, Entry{Name: "keep", LevelNumber: 7}, []byte("payload"))
	require.NoError(t, err)
	assert.FileExists(t, s.Path(e.ID))

	reopened, err := NewFileStore(dir)
	require.NoError(t, err)
	data, got, err := reopened.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)
	assert.Equal(t, "keep", got.Name)
	assert.Equal(t, 7, got.LevelNumber)

	require.NoError(t, reopened.Delete(ctx, e.ID))
	assert.NoFileExists(t, s.Path(e.ID))
}

func TestNewFileStore_EmptyDir(t *testing.T) {
	_, err := NewFileStore("")
	assert.Error(t, err)
}

func TestSQLiteStore_Memory(t *testing.T) {
	s, err := NewSQLiteStore(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	testStore(t, s)
}

func TestSQLiteStore_File(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db", "untangle.db")

	s, err := NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	testStore(t, s)

	e, err := s.Put(ctx, Entry{Name: "persisted", LevelNumber: 4}, []byte("blob"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })

	data, got, err := reopened.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("blob"), data)
	assert.Equal(t, "persisted", got.Name)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("File", func(t *testing.T) {
		cfg := config.Default().Store
		cfg.Dir = t.TempDir()
		s, err := Open(ctx, cfg)
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		testStore(t, s)
	})

	t.Run("SQLite", func(t *testing.T) {
		cfg := config.Default().Store
		cfg.Backend = config.BackendSQLite
		cfg.SQLitePath = filepath.Join(t.TempDir(), "saves.db")
		s, err := Open(ctx, cfg)
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		testStore(t, s)
	})

	t.Run("Unknown", func(t *testing.T) {
		cfg := config.Default().Store
		cfg.Backend = "floppy"
		_, err := Open(ctx, cfg)
		assert.True(t, errs.Is(err, errs.ErrCodeInvalidConfig), "got %v", err)
	})
}

type recordedOp struct {
	backend, op string
	size        int
	err         error
}

type recordingHooks struct {
	ops []recordedOp
}

func (h *recordingHooks) OnStoreOp(_ context.Context, backend, op string, size int, _ time.Duration, err error) {
	h.ops = append(h.ops, recordedOp{backend, op, size, err})
}

func TestInstrument(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetStoreHooks(hooks)
	t.Cleanup(observability.Reset)

	ctx := context.Background()
	s := Instrument(NewMemoryStore(), "memory")

	e, err := s.Put(ctx, Entry{LevelNumber: 1}, []byte("12345"))
	require.NoError(t, err)
	_, _, err = s.Get(ctx, e.ID)
	require.NoError(t, err)
	_, err = s.List(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, e.ID))
	err = s.Delete(ctx, e.ID)
	require.Error(t, err)

	require.Len(t, hooks.ops, 5)
	assert.Equal(t, recordedOp{"memory", "put", 5, nil}, hooks.ops[0])
	assert.Equal(t, recordedOp{"memory", "get", 5, nil}, hooks.ops[1])
	assert.Equal(t, "list", hooks.ops[2].op)
	assert.Equal(t, "delete", hooks.ops[3].op)
	assert.True(t, errors.Is(hooks.ops[4].err, ErrNotFound))
}

func TestPrepare_DefaultName(t *testing.T) {
	e, err := prepare(Entry{LevelNumber: 12}, []byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, "Level 12", e.Name)
	assert.Equal(t, 3, e.Size)
	assert.Equal(t, time.UTC, e.CreatedAt.Location())
	_, err = uuid.Parse(e.ID)
	assert.NoError(t, err)
}
