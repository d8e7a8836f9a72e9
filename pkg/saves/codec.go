package saves

import (
	"bytes"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"

	errs "github.com/matzehuels/untangle/pkg/errors"
)

const hashKey = "hash"

// Causes wrapped by CORRUPT_SAVE errors.
var (
	ErrMalformed       = errors.New("malformed save document")
	ErrMissingHash     = errors.New("save has no integrity hash")
	ErrHashMismatch    = errors.New("save integrity hash does not match")
	ErrMissingVertices = errors.New("save has no vertices")
	ErrMissingVersion  = errors.New("save has no version")
)

func corrupt(cause error, format string, args ...any) error {
	return errs.Wrap(errs.ErrCodeCorruptSave, cause, format, args...)
}

// Marshal encodes sg as a hashed JSON document.
func Marshal(sg *SavedGame) ([]byte, error) {
	raw, err := json.Marshal(sg)
	if err != nil {
		return nil, err
	}
	doc, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}
	canonical, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	doc[hashKey] = digest(canonical)
	return json.Marshal(doc)
}

// Unmarshal verifies and decodes a hashed JSON document.
//
// Integrity is checked first: any modified byte is reported as corrupt. Only
// a correctly signed save from a newer release is reported as unsupported.
func Unmarshal(data []byte) (*SavedGame, error) {
	doc, err := decodeObject(data)
	if err != nil {
		return nil, corrupt(ErrMalformed, "cannot parse save")
	}

	stored, ok := doc[hashKey].(string)
	if !ok {
		return nil, corrupt(ErrMissingHash, "save is not signed")
	}
	delete(doc, hashKey)
	canonical, err := json.Marshal(doc)
	if err != nil {
		return nil, corrupt(ErrMalformed, "cannot canonicalise save")
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(digest(canonical))) != 1 {
		return nil, corrupt(ErrHashMismatch, "save was modified or damaged")
	}

	version, err := peekVersion(doc)
	if err != nil {
		return nil, err
	}
	if version > CurrentVersion {
		return nil, errs.New(errs.ErrCodeUnsupportedVersion,
			"save version %d is not supported (newest supported is %d)", version, CurrentVersion)
	}

	if err := checkVertices(doc); err != nil {
		return nil, err
	}
	var sg SavedGame
	if err := json.Unmarshal(canonical, &sg); err != nil {
		return nil, corrupt(ErrMalformed, "cannot decode save")
	}
	return &sg, nil
}

func peekVersion(doc map[string]any) (int, error) {
	n, ok := doc["version"].(json.Number)
	if !ok {
		return 0, corrupt(ErrMissingVersion, "save has no version")
	}
	v, err := n.Int64()
	if err != nil || v < 1 {
		return 0, corrupt(ErrMalformed, "invalid save version %s", n)
	}
	return int(v), nil
}

// checkVertices rejects a missing vertex list and null entries, which the
// struct decoder would otherwise turn into zero vertices.
func checkVertices(doc map[string]any) error {
	list, ok := doc["vertices"].([]any)
	if !ok {
		return corrupt(ErrMissingVertices, "save has no vertex list")
	}
	for i, v := range list {
		if _, ok := v.(map[string]any); !ok {
			return corrupt(ErrMissingVertices, "vertex %d is empty", i)
		}
	}
	return nil
}

// decodeObject parses a JSON object keeping numbers as their literal text,
// so re-encoding reproduces them byte for byte. Map keys are sorted by
// encoding/json on output. Anything after the object other than whitespace
// is rejected.
func decodeObject(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrMalformed
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, ErrMalformed
	}
	return doc, nil
}

func digest(data []byte) string {
	sum := sha256.Sum256(data)
	return base64.StdEncoding.EncodeToString(sum[:])
}
