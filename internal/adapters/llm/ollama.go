// Package llm provides the answer generator adapters.
// Clean Architecture: Adapters implementing ports.Generator.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

// OllamaGenerator implements ports.Generator using the official Ollama client.
type OllamaGenerator struct {
	client *api.Client
	model  string
}

// NewOllamaGenerator creates a new Ollama-backed generator.
func NewOllamaGenerator(baseURL, model string) (*OllamaGenerator, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3.2"
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing generator host: %w", err)
	}

	return &OllamaGenerator{
		client: api.NewClient(u, http.DefaultClient),
		model:  model,
	}, nil
}

// Generate produces an answer for the prompt. The retrieved context is
// already part of the prompt; the context argument exists for the
// pass-through implementation.
func (g *OllamaGenerator) Generate(ctx context.Context, prompt string, context []string) (string, error) {
	stream := false
	req := &api.GenerateRequest{
		Model:  g.model,
		Prompt: prompt,
		Stream: &stream,
	}

	var sb strings.Builder
	err := g.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		sb.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("calling Ollama generate: %w", err)
	}

	return sb.String(), nil
}
