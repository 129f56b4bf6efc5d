package generator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/abhisek/filagen/internal/bounds"
	"github.com/abhisek/filagen/internal/llm"
	"github.com/abhisek/filagen/internal/material"
)

// Defaults for keys the LLM leaves out.
const (
	defaultFanSpeed         = 60.0
	defaultFanMinOffset     = 20.0
	defaultFanMaxFloor      = 60.0
	defaultFlowRatio        = 1.0
	defaultRetractionLength = 0.9
	defaultRetractionSpeed  = 38.0
	defaultPressureAdvance  = 0.02
)

// number is a JSON numeric field that tolerates quoted numbers. A null or
// absent value leaves it unset. Values past the float64 range read as
// ±Inf and get clamped like any other out-of-range answer.
type number struct {
	v   float64
	set bool
}

func (n *number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	text := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &text); err != nil {
			return err
		}
		text = strings.TrimSpace(text)
	}
	f, err := strconv.ParseFloat(text, 64)
	if (err != nil && !errors.Is(err, strconv.ErrRange)) || math.IsNaN(f) {
		return fmt.Errorf("non-numeric value %s", b)
	}
	n.v, n.set = f, true
	return nil
}

func (n number) or(def float64) float64 {
	if n.set {
		return n.v
	}
	return def
}

type presetOutput struct {
	NozzleTemp       number
	BedTemp          number
	FanSpeed         number
	FanSpeedMin      number
	FanSpeedMax      number
	FlowRatio        number
	RetractionLength number
	RetractionSpeed  number
	PressureAdvance  number
}

// decodePreset reads the answer keys by exact name. encoding/json would
// also accept "NOZZLE_TEMP" or "Fan_Speed" for a tagged struct field.
func decodePreset(body []byte) (presetOutput, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return presetOutput{}, err
	}

	var out presetOutput
	targets := map[string]*number{
		"nozzle_temp":       &out.NozzleTemp,
		"bed_temp":          &out.BedTemp,
		"fan_speed":         &out.FanSpeed,
		"fan_speed_min":     &out.FanSpeedMin,
		"fan_speed_max":     &out.FanSpeedMax,
		"flow_ratio":        &out.FlowRatio,
		"retraction_length": &out.RetractionLength,
		"retraction_speed":  &out.RetractionSpeed,
		"pressure_advance":  &out.PressureAdvance,
	}
	for _, key := range presetKeys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		if err := targets[key].UnmarshalJSON(raw); err != nil {
			return presetOutput{}, fmt.Errorf("%s: %w", key, err)
		}
	}
	return out, nil
}

// ParsePreset turns an LLM answer into a preset. Missing keys take their
// defaults and every value is clamped into the generated bounds, so the
// result is safe whatever the answer contained. It fails with a
// *GenerationError when raw is not a JSON object.
func ParsePreset(in Input, raw []byte) (material.Preset, error) {
	body := llm.StripCodeFence(raw)
	if len(body) == 0 || body[0] != '{' {
		return material.Preset{}, &GenerationError{
			Raw: string(raw),
			Err: errors.New("LLM did not return a JSON object"),
		}
	}

	out, err := decodePreset(body)
	if err != nil {
		return material.Preset{}, &GenerationError{
			Raw: string(raw),
			Err: fmt.Errorf("LLM did not return valid JSON: %w", err),
		}
	}

	nozzle := bounds.Clamp(out.NozzleTemp.or(float64(in.NozzleHint)), material.MinNozzleTemp, material.MaxNozzleTemp)
	bed := bounds.Clamp(out.BedTemp.or(float64(in.BedHint)), material.MinBedTemp, material.MaxBedTemp)

	fan := bounds.Clamp(out.FanSpeed.or(defaultFanSpeed), material.MinFanSpeed, material.MaxFanSpeed)
	fanMin := bounds.Clamp(out.FanSpeedMin.or(max(0, fan-defaultFanMinOffset)), material.MinFanSpeed, material.MaxFanSpeed)
	fanMax := bounds.Clamp(out.FanSpeedMax.or(max(fan, defaultFanMaxFloor)), material.MinFanSpeed, material.MaxFanSpeed)
	fanMin = min(fanMin, fanMax)

	density := material.DefaultDensity
	if material.IsCarbonFilled(in.MaterialName) {
		density = material.CarbonFilledDensity
	}

	return material.Preset{
		Name:        in.MaterialName,
		NozzleTemp:  int(nozzle),
		BedTemp:     int(bed),
		FanSpeed:    int(fan),
		FanSpeedMin: int(fanMin),
		FanSpeedMax: int(fanMax),
		FlowRatio:   bounds.Clamp(out.FlowRatio.or(defaultFlowRatio), material.MinFlowRatio, material.MaxFlowRatio),
		Density:     density,
		Cost:        material.GeneratedPresetCost,
		RetractionLength: bounds.Clamp(out.RetractionLength.or(defaultRetractionLength),
			material.MinRetractionLength, material.MaxRetractionLength),
		RetractionSpeed: int(bounds.Clamp(out.RetractionSpeed.or(defaultRetractionSpeed),
			material.MinRetractionSpeed, material.MaxRetractionSpeed)),
		DefaultPressureAdvance: bounds.Clamp(out.PressureAdvance.or(defaultPressureAdvance),
			material.MinPressureAdvance, material.MaxPressureAdvance),
	}, nil
}
