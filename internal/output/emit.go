// Package output writes the inventory JSON the host tool consumes. Everything
// here goes to stdout; diagnostics belong on stderr.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"ghinventory/internal/inventory"
)

// WriteInventory emits the full `--list` document.
func WriteInventory(w io.Writer, inv *inventory.Inventory, indent bool) error {
	if w == nil {
		return fmt.Errorf("inventory writer must not be nil")
	}
	encoder := json.NewEncoder(w)
	if indent {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(inv); err != nil {
		return fmt.Errorf("failed to encode inventory: %w", err)
	}
	return flushIfPossible(w)
}

// WriteHostVars emits the `--host <name>` document. A nil vars map (unknown
// host) becomes an empty JSON object, which is what the contract asks for.
func WriteHostVars(w io.Writer, vars map[string]any, indent bool) error {
	if w == nil {
		return fmt.Errorf("hostvars writer must not be nil")
	}
	if vars == nil {
		vars = map[string]any{}
	}
	encoder := json.NewEncoder(w)
	if indent {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(vars); err != nil {
		return fmt.Errorf("failed to encode hostvars: %w", err)
	}
	return flushIfPossible(w)
}

// flushIfPossible drains buffered writers so the document is complete before
// the process exits.
func flushIfPossible(w io.Writer) error {
	f, ok := w.(interface{ Flush() error })
	if !ok {
		return nil
	}
	return f.Flush()
}
