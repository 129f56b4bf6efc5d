package hint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTemperature(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		fallback  int
		want      int
		defaulted bool
	}{
		{"empty", "", 210, 210, true},
		{"blank", "   ", 60, 60, true},
		{"single value", "205", 0, 205, false},
		{"single value padded", " 215 ", 0, 215, false},
		{"range hyphen", "190-230", 0, 210, false},
		{"range en dash", "190–230", 0, 210, false},
		{"range with spaces", "190 - 231", 0, 210, false},
		{"range odd sum truncates", "200-215", 0, 207, false},
		{"range three parts uses first two", "180-200-260", 0, 190, false},
		{"trailing dash single number", "205-", 99, 99, true},
		{"negative single value", "-5", 99, -5, false},
		{"non numeric", "abc", 99, 99, true},
		{"non numeric range", "hot-cold", 99, 99, true},
		{"half numeric range", "190-abc", 99, 99, true},
		{"decimal", "205.5", 77, 77, true},
		{"unit suffix", "205C", 77, 77, true},
		{"dash only", "-", 42, 42, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTemperature(tt.raw, tt.fallback)
			assert.Equal(t, tt.want, got.Int())
			assert.Equal(t, tt.defaulted, got.IsDefaulted())
			if tt.defaulted {
				assert.NotEmpty(t, got.Reason)
				assert.Equal(t, Defaulted, got.Source)
			} else {
				assert.Empty(t, got.Reason)
				assert.Equal(t, Parsed, got.Source)
			}
		})
	}
}

func TestParseTemperature_EmptyAlwaysFallback(t *testing.T) {
	for _, fb := range []int{-40, 0, 1, 60, 210, 1 << 20} {
		assert.Equal(t, fb, ParseTemperature("", fb).Value)
	}
}

func TestSourceString(t *testing.T) {
	assert.Equal(t, "parsed", Parsed.String())
	assert.Equal(t, "defaulted", Defaulted.String())
}
