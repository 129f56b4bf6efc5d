package generator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/filagen/internal/llm"
	"github.com/abhisek/filagen/internal/material"
)

func TestWithFallback_PrimarySucceeds(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: []byte(`{"nozzle_temp": 222}`)})
	called := false
	gen := WithFallback(NewLLM(mock, DefaultConfig()), NewHeuristic(), func(error) { called = true })

	p, err := gen.Generate(context.Background(), Input{MaterialName: "X", NozzleHint: 200, BedHint: 60})
	require.NoError(t, err)

	assert.Equal(t, 222, p.NozzleTemp)
	assert.False(t, called)
}

func TestWithFallback_UsesSecondary(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: errors.New("down")})
	var got error
	gen := WithFallback(NewLLM(mock, DefaultConfig()), NewHeuristic(), func(err error) { got = err })

	in := Input{MaterialName: "X", NozzleHint: 200, BedHint: 60, Cooling: CoolingHigh}
	p, err := gen.Generate(context.Background(), in)
	require.NoError(t, err)

	want, _ := NewHeuristic().Generate(context.Background(), in)
	assert.Equal(t, want, p)

	var genErr *GenerationError
	assert.ErrorAs(t, got, &genErr)
}

type failing struct{ err error }

func (f failing) Generate(context.Context, Input) (material.Preset, error) {
	return material.Preset{}, f.err
}

func TestWithFallback_BothFail(t *testing.T) {
	second := errors.New("second")
	gen := WithFallback(failing{errors.New("first")}, failing{second}, nil)

	_, err := gen.Generate(context.Background(), Input{})
	assert.ErrorIs(t, err, second)
}
