package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

const (
	fileExt   = ".usg"
	indexFile = "index.json"
)

// FileStore keeps each save as a .usg file in a directory, with an
// index.json sidecar holding the entries. The save files are complete
// saves on their own and can be opened directly by path.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates a file store in dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create save dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the store directory.
func (s *FileStore) Dir() string { return s.dir }

// Path returns the file a save is stored in.
func (s *FileStore) Path(id string) string {
	return filepath.Join(s.dir, id+fileExt)
}

func (s *FileStore) Put(ctx context.Context, e Entry, data []byte) (Entry, error) {
	e, err := prepare(e, data)
	if err != nil {
		return Entry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeAtomic(s.Path(e.ID), data); err != nil {
		return Entry{}, fmt.Errorf("write save: %w", err)
	}
	index, err := s.readIndex()
	if err != nil {
		return Entry{}, err
	}
	index[e.ID] = e
	if err := s.writeIndex(index); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (s *FileStore) Get(ctx context.Context, id string) ([]byte, Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	index, err := s.readIndex()
	if err != nil {
		return nil, Entry{}, err
	}
	e, ok := index[id]
	if !ok {
		return nil, Entry{}, notFound(id)
	}
	data, err := os.ReadFile(s.Path(id))
	if os.IsNotExist(err) {
		return nil, Entry{}, notFound(id)
	}
	if err != nil {
		return nil, Entry{}, fmt.Errorf("read save: %w", err)
	}
	return data, e, nil
}

func (s *FileStore) List(ctx context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	index, err := s.readIndex()
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(index))
	for _, e := range index {
		out = append(out, e)
	}
	slices.SortFunc(out, newestFirst)
	return out, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.readIndex()
	if err != nil {
		return err
	}
	if _, ok := index[id]; !ok {
		return notFound(id)
	}
	delete(index, id)
	if err := s.writeIndex(index); err != nil {
		return err
	}
	if err := os.Remove(s.Path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove save: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) readIndex() (map[string]Entry, error) {
	index := make(map[string]Entry)
	data, err := os.ReadFile(filepath.Join(s.dir, indexFile))
	if os.IsNotExist(err) {
		return index, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("parse index: %w", err)
	}
	return index, nil
}

func (s *FileStore) writeIndex(index map[string]Entry) error {
	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	if err := writeAtomic(filepath.Join(s.dir, indexFile), data); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

var _ Store = (*FileStore)(nil)
