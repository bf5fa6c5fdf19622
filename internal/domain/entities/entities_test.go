package entities

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestDocument_Creation(t *testing.T) {
	doc := Document{
		ID:        "doc-123",
		Text:      "Hello world",
		Embedding: []float32{0.1, 0.2, 0.3},
		CreatedAt: time.Now(),
	}

	if doc.ID != "doc-123" {
		t.Errorf("expected ID doc-123, got %s", doc.ID)
	}
	if len(doc.Embedding) != 3 {
		t.Errorf("expected 3 embedding dims, got %d", len(doc.Embedding))
	}
}

func TestRetrievedSnippet_Score(t *testing.T) {
	snippet := RetrievedSnippet{
		DocumentID: "doc-123",
		Text:       "some text",
		Score:      0.95,
	}

	if snippet.Score < 0.9 {
		t.Error("expected high score")
	}
}

func TestQueryResponse_WithSources(t *testing.T) {
	resp := QueryResponse{
		Answer: "The answer is 42",
		Sources: []RetrievedSnippet{
			{DocumentID: "doc-1", Text: "context", Score: 0.9},
		},
	}

	if resp.Answer == "" {
		t.Error("answer should not be empty")
	}
	if len(resp.Sources) == 0 {
		t.Error("sources should not be empty")
	}
}

func TestErrorKinds_WrapAndMatch(t *testing.T) {
	cases := []struct {
		name string
		kind error
	}{
		{"invalid input", ErrInvalidInput},
		{"retrieval unavailable", ErrRetrievalUnavailable},
		{"generation failed", ErrGenerationFailed},
		{"embedding failed", ErrEmbeddingFailed},
		{"store unavailable", ErrStoreUnavailable},
	}

	for _, tc := range cases {
		wrapped := fmt.Errorf("%w: connection refused", tc.kind)
		if !errors.Is(wrapped, tc.kind) {
			t.Errorf("%s: wrapped error should match its kind", tc.name)
		}
	}
}

func TestErrorKinds_Distinct(t *testing.T) {
	if errors.Is(ErrRetrievalUnavailable, ErrStoreUnavailable) {
		t.Error("error kinds must be distinct")
	}
	if errors.Is(ErrGenerationFailed, ErrEmbeddingFailed) {
		t.Error("error kinds must be distinct")
	}
}
