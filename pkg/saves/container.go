package saves

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	errs "github.com/matzehuels/untangle/pkg/errors"
)

// Extension is the file extension of saved games.
const Extension = ".usg"

// MaxDocumentSize bounds the decompressed size of a save.
const MaxDocumentSize = 16 << 20

// Write compresses the hashed document of sg to w.
func Write(w io.Writer, sg *SavedGame) error {
	doc, err := Marshal(sg)
	if err != nil {
		return fmt.Errorf("encode save: %w", err)
	}
	zw, err := gzip.NewWriterLevel(w, gzip.BestCompression)
	if err != nil {
		return err
	}
	zw.Name = "untangle.json"
	zw.ModTime = sg.CreatedAt
	if _, err := zw.Write(doc); err != nil {
		zw.Close()
		return fmt.Errorf("compress save: %w", err)
	}
	return zw.Close()
}

// Read decompresses and verifies a save from r.
func Read(r io.Reader) (*SavedGame, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, corrupt(ErrMalformed, "save is not compressed data")
	}
	defer zr.Close()

	doc, err := io.ReadAll(io.LimitReader(zr, MaxDocumentSize+1))
	if err != nil {
		return nil, corrupt(ErrMalformed, "cannot decompress save")
	}
	if len(doc) > MaxDocumentSize {
		return nil, corrupt(ErrMalformed, "save exceeds %d bytes", MaxDocumentSize)
	}
	return Unmarshal(doc)
}

// Encode returns the compressed bytes of sg.
func Encode(sg *SavedGame) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, sg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode verifies and decodes compressed save bytes.
func Decode(data []byte) (*SavedGame, error) {
	return Read(bytes.NewReader(data))
}

// SaveFile writes sg to path, replacing any existing file only once the
// new content is complete.
func SaveFile(path string, sg *SavedGame) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".untangle-*"+Extension)
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, sg); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// LoadFile reads and verifies the save at path.
func LoadFile(path string) (*SavedGame, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "no save at %s", path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}
