package llm

import (
	"context"
	"testing"
)

func TestPassthroughGenerator_EchoesContext(t *testing.T) {
	gen := NewPassthroughGenerator()

	answer, err := gen.Generate(context.Background(), "ignored prompt", []string{"first", "second", "third"})

	if err != nil {
		t.Fatalf("passthrough failed: %v", err)
	}
	if answer != "first\n\nsecond\n\nthird" {
		t.Errorf("expected rank-ordered concatenation, got %q", answer)
	}
}

func TestPassthroughGenerator_EmptyContext(t *testing.T) {
	gen := NewPassthroughGenerator()

	answer, err := gen.Generate(context.Background(), "prompt", nil)

	if err != nil {
		t.Fatalf("passthrough failed: %v", err)
	}
	if answer != "" {
		t.Errorf("no context should echo nothing, got %q", answer)
	}
}
