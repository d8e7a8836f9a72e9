package saves

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/untangle/pkg/errors"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Export writes a readable, unsigned dump of sg. It is meant for
// inspection; only Write produces loadable saves.
func Export(w io.Writer, sg *SavedGame, format string) error {
	if err := errs.ValidateFormat(format, FormatJSON, FormatYAML); err != nil {
		return err
	}
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(sg); err != nil {
			return fmt.Errorf("export yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sg)
	}
}
