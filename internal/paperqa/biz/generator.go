package biz

import (
	"context"
	"fmt"

	"github.com/kart-io/logger"
)

// ChatClient generates deterministic JSON completions.
type ChatClient interface {
	// GenerateJSON runs the prompt with JSON output mode and zero temperature.
	GenerateJSON(ctx context.Context, prompt string, systemPrompt string) (string, error)
}

// Generator produces answers from assembled prompts.
type Generator struct {
	llm ChatClient
}

// NewGenerator creates a generator backed by the given chat client.
func NewGenerator(llm ChatClient) *Generator {
	return &Generator{llm: llm}
}

// Generate runs the prompt through the model and returns the raw output.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if ctx.Err() != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, ctx.Err())
	}

	raw, err := g.llm.GenerateJSON(ctx, prompt, systemInstruction)
	if err != nil {
		logger.Errorw("LLM generation failed", "error", err.Error())
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	logger.Infof("LLM answer generated (length: %d)", len(raw))
	return raw, nil
}
