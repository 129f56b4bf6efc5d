package generator

import (
	"maps"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetSchemas(t *testing.T) {
	for _, s := range []struct {
		name   string
		def    map[string]any
		closed bool
	}{
		{PresetSchema.Name, PresetSchema.Definition, false},
		{StrictPresetSchema.Name, StrictPresetSchema.Definition, true},
	} {
		t.Run(s.name, func(t *testing.T) {
			props, ok := s.def["properties"].(map[string]any)
			require.True(t, ok)
			assert.ElementsMatch(t, presetKeys, slices.Collect(maps.Keys(props)))

			// Ranges are enforced by clamping, never by validation.
			for key, p := range props {
				prop := p.(map[string]any)
				assert.Equal(t, "number", prop["type"], key)
				assert.NotContains(t, prop, "minimum", key)
				assert.NotContains(t, prop, "maximum", key)
			}

			if !s.closed {
				assert.NotContains(t, s.def, "required")
				assert.NotContains(t, s.def, "additionalProperties")
				return
			}
			assert.Equal(t, presetKeys, s.def["required"])
			assert.Equal(t, false, s.def["additionalProperties"])
		})
	}

	assert.NotEqual(t, PresetSchema.Name, StrictPresetSchema.Name, "names key the compiled-schema cache")
	assert.Equal(t, presetKeys, PresetSchema.Order)
	assert.Equal(t, presetKeys, StrictPresetSchema.Order)
}

func TestPromptListsKeysInSchemaOrder(t *testing.T) {
	msg := buildUserMessage(parseInput)
	assert.Contains(t, msg, "with keys: "+strings.Join(presetKeys, ", ")+".")
}
