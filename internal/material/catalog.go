package material

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var builtinPresets []byte

// DefaultKey is the catalog key used when the caller does not pick one.
const DefaultKey = "pla"

// Catalog is an immutable set of named presets. It is built once at start-up
// and handed to whoever needs it; there is no package-level instance.
type Catalog struct {
	presets map[string]Preset
}

// DefaultCatalog returns the built-in presets.
func DefaultCatalog() (*Catalog, error) {
	presets, err := decodePresets(builtinPresets)
	if err != nil {
		return nil, fmt.Errorf("decode built-in presets: %w", err)
	}
	return &Catalog{presets: presets}, nil
}

// LoadCatalog returns the built-in presets with the entries of the YAML file
// at path layered on top. Keys are case-insensitive; a file entry replaces a
// built-in of the same key. An empty path yields the built-ins only.
func LoadCatalog(path string) (*Catalog, error) {
	cat, err := DefaultCatalog()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return cat, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presets %s: %w", path, err)
	}
	extra, err := decodePresets(data)
	if err != nil {
		return nil, fmt.Errorf("decode presets %s: %w", path, err)
	}
	for k, p := range extra {
		cat.presets[k] = p
	}
	return cat, nil
}

// Lookup returns a copy of the preset stored under key.
func (c *Catalog) Lookup(key string) (Preset, bool) {
	p, ok := c.presets[normalizeKey(key)]
	return p, ok
}

// Keys returns the catalog keys in sorted order.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.presets))
	for k := range c.presets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of presets.
func (c *Catalog) Len() int {
	return len(c.presets)
}

func decodePresets(data []byte) (map[string]Preset, error) {
	raw := map[string]Preset{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	out := make(map[string]Preset, len(raw))
	for k, p := range raw {
		key := normalizeKey(k)
		if key == "" {
			return nil, fmt.Errorf("preset with empty key")
		}
		if err := validatePreset(p); err != nil {
			return nil, fmt.Errorf("preset %q: %w", key, err)
		}
		out[key] = p
	}
	return out, nil
}

func validatePreset(p Preset) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if p.FanSpeedMin > p.FanSpeedMax {
		return fmt.Errorf("fan_speed_min %d exceeds fan_speed_max %d", p.FanSpeedMin, p.FanSpeedMax)
	}
	return nil
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}
