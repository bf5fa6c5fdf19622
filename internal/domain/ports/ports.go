// Package ports defines interfaces for external dependencies.
// Clean Architecture: These are the boundaries - usecases depend on these abstractions,
// not concrete implementations. Adapters implement these interfaces.
package ports

import (
	"context"

	"github.com/ragserve/ragserve/internal/domain/entities"
)

// EmbeddingService generates vector embeddings for text.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Generator produces a natural-language answer from a prompt.
// Two implementations exist: the real LLM-backed generator and a
// pass-through generator that returns the retrieved context verbatim.
// The choice between them is made once at construction time.
type Generator interface {
	// Generate produces an answer given a prompt and the retrieved context snippets.
	Generate(ctx context.Context, prompt string, context []string) (string, error)
}

// VectorStore persists and queries embedded documents.
// The service treats it as an opaque retrieval oracle; consistency of its
// own concurrent writes is the external service's responsibility.
type VectorStore interface {
	// Insert stores a document with its embedding.
	Insert(ctx context.Context, doc entities.Document) error

	// Search finds the topK most similar documents to a query embedding,
	// ordered by descending similarity.
	Search(ctx context.Context, embedding []float32, topK int) ([]entities.RetrievedSnippet, error)

	// Close releases resources held by the store client.
	Close() error
}

// DocumentLoader reads seed documents from disk.
type DocumentLoader interface {
	// Load reads the text content of the file at path.
	Load(ctx context.Context, path string) (string, error)

	// SupportedExtensions returns file extensions this loader handles.
	SupportedExtensions() []string
}

// FileWatcher monitors a directory for changes.
type FileWatcher interface {
	// Watch starts monitoring the directory and emits events.
	Watch(ctx context.Context, dir string) (<-chan FileEvent, error)

	// Stop stops the watcher.
	Stop() error
}

// FileEvent represents a file system change.
type FileEvent struct {
	Path      string
	Operation FileOperation
}

// FileOperation is the type of file change.
type FileOperation int

const (
	FileCreated FileOperation = iota
	FileModified
	FileDeleted
)
