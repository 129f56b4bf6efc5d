// Package profile builds and writes OrcaSlicer filament profiles for the
// Creality K1C.
package profile

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/abhisek/filagen/internal/bounds"
	"github.com/abhisek/filagen/internal/material"
	"github.com/abhisek/filagen/internal/tuning"
)

const (
	// Inherits is the stock OrcaSlicer profile every generated profile
	// extends.
	Inherits = "Creality Generic PLA"

	// Version is the OrcaSlicer profile format version.
	Version = "1.9.0.2"
)

// Filament is an OrcaSlicer filament profile. Field order is the key order
// of the written JSON.
type Filament struct {
	Name                      string   `json:"name"`
	FilamentSettingsID        string   `json:"filament_settings_id"`
	Inherits                  string   `json:"inherits"`
	NozzleTemperature         []string `json:"nozzle_temperature"`
	HotPlateTemp              []string `json:"hot_plate_temp"`
	AdditionalCoolingFanSpeed []string `json:"additional_cooling_fan_speed"`
	PressureAdvance           []string `json:"pressure_advance"`
	EnablePressureAdvance     []string `json:"enable_pressure_advance"`
	Version                   string   `json:"version"`
}

// Build assembles the profile for tuned parameters t. pressureAdvance is
// the value to write, normally from EffectivePressureAdvance.
func Build(t tuning.Parameters, pressureAdvance float64, name string) Filament {
	enable := "0"
	if pressureAdvance > 0 {
		enable = "1"
	}
	return Filament{
		Name:                      name,
		FilamentSettingsID:        name,
		Inherits:                  Inherits,
		NozzleTemperature:         []string{strconv.Itoa(t.NozzleTemp)},
		HotPlateTemp:              []string{strconv.Itoa(t.BedTemp)},
		AdditionalCoolingFanSpeed: []string{strconv.Itoa(t.FanSpeedMax)},
		PressureAdvance:           []string{formatFloat(pressureAdvance)},
		EnablePressureAdvance:     []string{enable},
		Version:                   Version,
	}
}

// EffectivePressureAdvance returns override clamped to the pressure advance
// bounds, or tuned when no override was given.
func EffectivePressureAdvance(override *float64, tuned float64) float64 {
	if override == nil {
		return tuned
	}
	return bounds.Clamp(*override, material.MinPressureAdvance, material.MaxPressureAdvance)
}

// formatFloat renders v the way OrcaSlicer's own exports do: the shortest
// round-tripping form, always carrying a decimal point or an exponent.
func formatFloat(v float64) string {
	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a profile name into a file name stem.
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = strings.Trim(nonSlugChars.ReplaceAllString(s, "_"), "_")
	if s == "" {
		return "profile"
	}
	return s
}
