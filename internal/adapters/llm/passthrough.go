package llm

import (
	"context"
	"strings"
)

// PassthroughGenerator implements mock mode: it never calls a model and
// returns the retrieved context verbatim, concatenated in rank order.
// Selected once at construction when MOCK_GENERATION is set.
type PassthroughGenerator struct{}

// NewPassthroughGenerator creates the mock-mode generator.
func NewPassthroughGenerator() *PassthroughGenerator {
	return &PassthroughGenerator{}
}

// Generate ignores the prompt and echoes the context block.
func (g *PassthroughGenerator) Generate(ctx context.Context, prompt string, contextParts []string) (string, error) {
	return strings.Join(contextParts, "\n\n"), nil
}
