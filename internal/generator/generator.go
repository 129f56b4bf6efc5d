// Package generator proposes a fresh material preset for a filament that is
// not in the catalog, either from fixed heuristics or from an LLM.
package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/filagen/internal/material"
)

// Generator produces a material preset from user hints.
type Generator interface {
	// Generate returns a preset whose fields are within the generated
	// bounds declared in package material.
	Generate(ctx context.Context, in Input) (material.Preset, error)
}

// Input carries the user's description of a new filament.
type Input struct {
	MaterialName string
	NozzleHint   int
	BedHint      int
	Cooling      Cooling
}

// Cooling is the requested part-cooling level.
type Cooling string

const (
	CoolingLow    Cooling = "low"
	CoolingMedium Cooling = "medium"
	CoolingHigh   Cooling = "high"
)

// ParseCooling normalizes s. Unknown values map to CoolingMedium.
func ParseCooling(s string) Cooling {
	switch c := Cooling(strings.ToLower(strings.TrimSpace(s))); c {
	case CoolingLow, CoolingHigh:
		return c
	default:
		return CoolingMedium
	}
}

// GenerationError reports that a generator could not produce a preset.
// Raw holds the collaborator's answer text when one was received.
type GenerationError struct {
	Raw string
	Err error
}

func (e *GenerationError) Error() string {
	if e.Raw != "" {
		return fmt.Sprintf("material generation failed: %v (raw response: %s)", e.Err, truncate(e.Raw, 200))
	}
	return fmt.Sprintf("material generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
