// Package usecases contains application business rules.
// Clean Architecture: Usecases orchestrate entities and depend on port interfaces.
package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ragserve/ragserve/internal/domain/entities"
	"github.com/ragserve/ragserve/internal/domain/ports"
)

// QueryUseCase answers a question from retrieved context.
// Each invocation is stateless and independent; the two outbound calls
// (retrieval, generation) are each bounded by the configured timeout.
// No retries: retry policy belongs to the caller or the deployment layer.
type QueryUseCase struct {
	embedder  ports.EmbeddingService
	store     ports.VectorStore
	generator ports.Generator
	topK      int
	timeout   time.Duration
}

// NewQueryUseCase creates a QueryUseCase with injected dependencies.
func NewQueryUseCase(
	embedder ports.EmbeddingService,
	store ports.VectorStore,
	generator ports.Generator,
	topK int,
	timeout time.Duration,
) *QueryUseCase {
	if topK <= 0 {
		topK = 3
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &QueryUseCase{
		embedder:  embedder,
		store:     store,
		generator: generator,
		topK:      topK,
		timeout:   timeout,
	}
}

// Query retrieves the topK most similar documents, assembles a context block
// in rank order and asks the generator for an answer.
//
// A reachable store returning zero documents is not an error: the query
// proceeds with an empty context block. Only a failed retrieval maps to
// ErrRetrievalUnavailable.
func (uc *QueryUseCase) Query(ctx context.Context, req *entities.QueryRequest) (*entities.QueryResponse, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, fmt.Errorf("%w: question must not be empty", entities.ErrInvalidInput)
	}

	embedCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	embedding, err := uc.embedder.Embed(embedCtx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding question: %v", entities.ErrRetrievalUnavailable, err)
	}

	searchCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	snippets, err := uc.store.Search(searchCtx, embedding, uc.topK)
	if err != nil {
		return nil, fmt.Errorf("%w: searching store: %v", entities.ErrRetrievalUnavailable, err)
	}

	contextParts := make([]string, len(snippets))
	for i, s := range snippets {
		contextParts[i] = s.Text
	}

	genCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	answer, err := uc.generator.Generate(genCtx, buildPrompt(question, contextParts), contextParts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrGenerationFailed, err)
	}
	if strings.TrimSpace(answer) == "" {
		// Never an empty success: an empty generation is a failure.
		return nil, fmt.Errorf("%w: generator returned an empty answer", entities.ErrGenerationFailed)
	}

	return &entities.QueryResponse{
		Answer:  answer,
		Sources: snippets,
	}, nil
}

// buildPrompt creates the generator prompt with the retrieved context.
func buildPrompt(question string, context []string) string {
	var sb strings.Builder
	sb.WriteString("You are a helpful assistant. Answer the question based on the provided context.\n\n")
	sb.WriteString("Context:\n")
	sb.WriteString(strings.Join(context, "\n\n"))
	sb.WriteString("\n\nQuestion: ")
	sb.WriteString(question)
	sb.WriteString("\n\nAnswer:")
	return sb.String()
}
