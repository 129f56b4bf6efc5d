// Package material defines filament presets, the built-in preset catalog,
// and the name-based material classification used by the generators and
// the tuner.
package material

// Preset is a filament's baseline safe operating envelope. Presets are
// values: once built by the catalog or a generator they are never mutated.
type Preset struct {
	// Name is the display identifier, e.g. "PLA K1C" or "Generic PLA-CF".
	Name string `yaml:"name" json:"name"`

	// NozzleTemp and BedTemp are in degrees Celsius.
	NozzleTemp int `yaml:"nozzle_temp" json:"nozzle_temp"`
	BedTemp    int `yaml:"bed_temp" json:"bed_temp"`

	// Part cooling fan percentages, 0-100, FanSpeedMin <= FanSpeedMax.
	FanSpeed    int `yaml:"fan_speed" json:"fan_speed"`
	FanSpeedMin int `yaml:"fan_speed_min" json:"fan_speed_min"`
	FanSpeedMax int `yaml:"fan_speed_max" json:"fan_speed_max"`

	// FlowRatio is the extrusion multiplier, expected near 1.0.
	FlowRatio float64 `yaml:"flow_ratio" json:"flow_ratio"`

	// Density (g/cm3) and Cost are informational and not used by tuning.
	Density float64 `yaml:"density" json:"density"`
	Cost    float64 `yaml:"cost" json:"cost"`

	// RetractionLength is in millimeters, RetractionSpeed in mm/s.
	RetractionLength float64 `yaml:"retraction_length" json:"retraction_length"`
	RetractionSpeed  int     `yaml:"retraction_speed" json:"retraction_speed"`

	DefaultPressureAdvance float64 `yaml:"default_pressure_advance" json:"default_pressure_advance"`
}

// Safe envelope for generated presets. Catalog entries are hand-authored
// and trusted to already sit inside it.
const (
	MinNozzleTemp = 160
	MaxNozzleTemp = 290
	MinBedTemp    = 30
	MaxBedTemp    = 120

	MinFanSpeed = 0
	MaxFanSpeed = 100

	MinFlowRatio = 0.9
	MaxFlowRatio = 1.1

	MinRetractionLength = 0.4
	MaxRetractionLength = 1.8
	MinRetractionSpeed  = 15
	MaxRetractionSpeed  = 55

	MinPressureAdvance = 0.0
	MaxPressureAdvance = 0.2
)

// Density and cost placeholders shared by the generators.
const (
	DefaultDensity      = 1.24
	CarbonFilledDensity = 1.30
	PolyamideMinDensity = 1.14
	GeneratedPresetCost = 25.0
)
