package ai

import (
	"context"
)

// Generator sends one prompt to a generative model and returns its raw text.
// Callers must treat the reply as untrusted; see CleanJSON.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
