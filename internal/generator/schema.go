package generator

import "github.com/abhisek/filagen/internal/llm"

// presetKeys lists the answer keys in the order the prompt asks for them.
var presetKeys = []string{
	"nozzle_temp",
	"bed_temp",
	"fan_speed",
	"fan_speed_min",
	"fan_speed_max",
	"flow_ratio",
	"retraction_length",
	"retraction_speed",
	"pressure_advance",
}

// PresetSchema describes the answer the LLM is asked for. It constrains
// types only: missing keys fall back to defaults and ranges are enforced
// by clamping in ParsePreset.
var PresetSchema = &llm.Schema{
	Name:        "filament-preset",
	Description: "Print settings proposed for a 3D printing filament",
	Definition: map[string]any{
		"type":       "object",
		"properties": presetProperties(),
	},
	Order: presetKeys,
}

// StrictPresetSchema is the closed form of PresetSchema for providers with
// native structured output, which must be told every key up front. It
// still carries no ranges: an out-of-range answer is clamped, not retried.
var StrictPresetSchema = &llm.Schema{
	Name:        "filament-preset-strict",
	Description: PresetSchema.Description,
	Definition: map[string]any{
		"type":                 "object",
		"properties":           presetProperties(),
		"required":             presetKeys,
		"additionalProperties": false,
	},
	Order: presetKeys,
}

func presetProperties() map[string]any {
	return map[string]any{
		"nozzle_temp":       numberProp("Nozzle temperature in degrees Celsius"),
		"bed_temp":          numberProp("Bed temperature in degrees Celsius"),
		"fan_speed":         numberProp("Part cooling fan speed percentage"),
		"fan_speed_min":     numberProp("Minimum part cooling fan speed percentage"),
		"fan_speed_max":     numberProp("Maximum part cooling fan speed percentage"),
		"flow_ratio":        numberProp("Extrusion multiplier, near 1.0"),
		"retraction_length": numberProp("Retraction length in millimeters"),
		"retraction_speed":  numberProp("Retraction speed in mm/s"),
		"pressure_advance":  numberProp("Pressure advance factor"),
	}
}

func numberProp(desc string) map[string]any {
	return map[string]any{
		"type":        "number",
		"description": desc,
	}
}
