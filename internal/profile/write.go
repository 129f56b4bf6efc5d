package profile

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Encode writes f as indented JSON.
func Encode(w io.Writer, f Filament) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("failed to serialize profile: %w", err)
	}
	return nil
}

// Write creates path, including missing parent directories, and writes f
// to it.
func Write(path string, f Filament) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create profile file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close profile file: %w", cerr)
		}
	}()

	return Encode(file, f)
}

// Path returns the output file for a profile named name under dir.
func Path(dir, name string) string {
	return filepath.Join(dir, Slugify(name)+".json")
}
