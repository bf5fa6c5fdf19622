package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ragserve/ragserve/internal/domain/entities"
	"github.com/ragserve/ragserve/internal/domain/ports"
)

// AddUseCase appends new text to the knowledge store.
type AddUseCase struct {
	embedder ports.EmbeddingService
	store    ports.VectorStore
	timeout  time.Duration
}

// NewAddUseCase creates an AddUseCase with injected dependencies.
func NewAddUseCase(embedder ports.EmbeddingService, store ports.VectorStore, timeout time.Duration) *AddUseCase {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &AddUseCase{
		embedder: embedder,
		store:    store,
		timeout:  timeout,
	}
}

// Add embeds text and inserts it as a new document.
// Each call mints a fresh ID: repeated calls with identical text create
// duplicate documents. Inserts are intentionally not deduplicated.
func (uc *AddUseCase) Add(ctx context.Context, text string) (*entities.AddResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text must not be empty", entities.ErrInvalidInput)
	}

	embedCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	embedding, err := uc.embedder.Embed(embedCtx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrEmbeddingFailed, err)
	}

	doc := entities.Document{
		ID:        uuid.NewString(),
		Text:      text,
		Embedding: embedding,
		CreatedAt: time.Now(),
	}

	insertCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	if err := uc.store.Insert(insertCtx, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrStoreUnavailable, err)
	}

	return &entities.AddResult{ID: doc.ID}, nil
}
