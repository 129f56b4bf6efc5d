package generator

import (
	"context"
	"errors"

	"github.com/abhisek/filagen/internal/llm"
	"github.com/abhisek/filagen/internal/material"
)

// Purpose labels material generation requests in the LLM event log.
const Purpose = "material-gen"

// Config controls the behavior of the LLM generator.
type Config struct {
	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// UseSchema sends PresetSchema with the request so providers that
	// support structured output constrain the answer.
	UseSchema bool

	// StrictSchema sends StrictPresetSchema instead. Only set it for
	// providers that enforce the schema server-side (see
	// llm.Config.StrictOutput): the closed form requires every key, so a
	// model left to follow the prompt alone would fail validation where
	// the open form falls back to defaults.
	StrictSchema bool
}

// DefaultConfig returns the recommended LLM generator settings.
func DefaultConfig() Config {
	return Config{
		Temperature: 0.3,
		MaxTokens:   512,
		UseSchema:   true,
	}
}

// LLM asks an llm.Provider for a preset and clamps whatever comes back.
type LLM struct {
	provider llm.Provider
	config   Config
}

// NewLLM creates an LLM generator with the given provider and config.
func NewLLM(provider llm.Provider, cfg Config) *LLM {
	return &LLM{provider: provider, config: cfg}
}

// Generate fails with *GenerationError on any provider or parse failure.
func (g *LLM) Generate(ctx context.Context, in Input) (material.Preset, error) {
	ctx = llm.WithPurpose(ctx, Purpose)

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(in)},
		},
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}
	switch {
	case g.config.UseSchema && g.config.StrictSchema:
		req.Schema = StrictPresetSchema
	case g.config.UseSchema:
		req.Schema = PresetSchema
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		genErr := &GenerationError{Err: err}
		var invalid *llm.ErrInvalidResponse
		if errors.As(err, &invalid) {
			genErr.Raw = string(invalid.Content)
		}
		return material.Preset{}, genErr
	}

	return ParsePreset(in, resp.Content)
}
