package generator

import (
	"context"
	"log/slog"

	"github.com/abhisek/filagen/internal/material"
)

type fallback struct {
	primary    Generator
	secondary  Generator
	onFallback func(error)
}

// WithFallback returns a Generator that tries primary and, if it fails,
// returns secondary's result instead. onFallback, if non-nil, is called
// with primary's error before secondary runs.
func WithFallback(primary, secondary Generator, onFallback func(error)) Generator {
	return &fallback{primary: primary, secondary: secondary, onFallback: onFallback}
}

func (f *fallback) Generate(ctx context.Context, in Input) (material.Preset, error) {
	p, err := f.primary.Generate(ctx, in)
	if err == nil {
		return p, nil
	}

	slog.Warn("primary generator failed, using fallback",
		"material", in.MaterialName, "error", err)
	if f.onFallback != nil {
		f.onFallback(err)
	}
	return f.secondary.Generate(ctx, in)
}
