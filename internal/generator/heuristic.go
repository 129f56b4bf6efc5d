package generator

import (
	"context"

	"github.com/abhisek/filagen/internal/bounds"
	"github.com/abhisek/filagen/internal/material"
)

const (
	heuristicFlowRatio       = 1.0
	heuristicRetractionSpeed = 38
	heuristicPressureAdvance = 0.02
)

type coolingProfile struct {
	fanSpeed, fanMin, fanMax int
	retractionLength         float64
}

var coolingProfiles = map[Cooling]coolingProfile{
	CoolingHigh:   {fanSpeed: 90, fanMin: 70, fanMax: 100, retractionLength: 0.8},
	CoolingLow:    {fanSpeed: 40, fanMin: 25, fanMax: 60, retractionLength: 1.0},
	CoolingMedium: {fanSpeed: 60, fanMin: 40, fanMax: 80, retractionLength: 0.9},
}

// Heuristic derives a preset from the hints alone. It never fails.
type Heuristic struct{}

// NewHeuristic returns a Heuristic generator.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

func (h *Heuristic) Generate(_ context.Context, in Input) (material.Preset, error) {
	cooling := ParseCooling(string(in.Cooling))
	cp := coolingProfiles[cooling]

	density := material.DefaultDensity
	if material.IsCarbonFilled(in.MaterialName) {
		density = material.CarbonFilledDensity
	}
	if material.IsPolyamide(in.MaterialName) {
		density = max(density, material.PolyamideMinDensity)
	}

	pa := heuristicPressureAdvance
	if cooling == CoolingHigh {
		pa = 0.0
	}

	return material.Preset{
		Name:                   in.MaterialName,
		NozzleTemp:             bounds.Clamp(in.NozzleHint, material.MinNozzleTemp, material.MaxNozzleTemp),
		BedTemp:                bounds.Clamp(in.BedHint, material.MinBedTemp, material.MaxBedTemp),
		FanSpeed:               cp.fanSpeed,
		FanSpeedMin:            cp.fanMin,
		FanSpeedMax:            cp.fanMax,
		FlowRatio:              heuristicFlowRatio,
		Density:                density,
		Cost:                   material.GeneratedPresetCost,
		RetractionLength:       cp.retractionLength,
		RetractionSpeed:        heuristicRetractionSpeed,
		DefaultPressureAdvance: pa,
	}, nil
}
