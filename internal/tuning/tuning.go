// Package tuning reconciles a requested nozzle temperature with a preset's
// safe envelope and derives the runtime fan, flow and bed settings.
package tuning

import (
	"math"

	"github.com/abhisek/filagen/internal/bounds"
	"github.com/abhisek/filagen/internal/material"
)

// Tuning window around the preset's own nozzle temperature. Running colder
// than the baseline risks layer adhesion, so the cool side is narrower.
const (
	MaxCoolerBy = 10
	MaxHotterBy = 15

	// BedBoostThreshold is how far above baseline the nozzle must run before
	// the bed is raised by BedBoost.
	BedBoostThreshold = 5
	BedBoost          = 5

	flowPerDegree = 0.002
	minFlowRatio  = 0.96
	maxFlowRatio  = 1.04
)

// Parameters are the final runtime settings derived from a preset.
type Parameters struct {
	NozzleTemp      int
	BedTemp         int
	FanSpeed        int
	FanSpeedMin     int
	FanSpeedMax     int
	FlowRatio       float64
	PressureAdvance float64
}

// Tune derives runtime parameters for base at the requested nozzle
// temperature. It is pure: equal inputs give identical outputs.
func Tune(base material.Preset, requested int) Parameters {
	nozzle := bounds.Clamp(requested, base.NozzleTemp-MaxCoolerBy, base.NozzleTemp+MaxHotterBy)
	delta := nozzle - base.NozzleTemp

	bed := base.BedTemp
	if nozzle > base.NozzleTemp+BedBoostThreshold {
		bed = base.BedTemp + BedBoost
	}

	fan, fanMin, fanMax := fanCurve(base, delta)

	flow := bounds.Clamp(base.FlowRatio-float64(delta)*flowPerDegree, minFlowRatio, maxFlowRatio)

	return Parameters{
		NozzleTemp:      nozzle,
		BedTemp:         bed,
		FanSpeed:        fan,
		FanSpeedMin:     fanMin,
		FanSpeedMax:     fanMax,
		FlowRatio:       round3(flow),
		PressureAdvance: base.DefaultPressureAdvance,
	}
}

// fanCurve backs the fan off as the nozzle runs hotter (delta > 0) and
// raises it when running cooler. PLA stays near full cooling; other
// families keep a moderate curve.
func fanCurve(base material.Preset, delta int) (speed, lo, hi int) {
	if material.IsPLAFamily(base.Name) {
		speed = bounds.Clamp(base.FanSpeed-2*delta, 80, 100)
		lo = bounds.Clamp(base.FanSpeedMin-delta, 70, 100)
		return speed, lo, 100
	}

	half := float64(delta) * 0.5
	speed = bounds.Clamp(base.FanSpeed-delta, 25, 65)
	lo = int(bounds.Clamp(float64(base.FanSpeedMin)-half, 20, 60))
	hi = int(bounds.Clamp(float64(base.FanSpeedMax)-half, 40, 80))
	return speed, lo, hi
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
