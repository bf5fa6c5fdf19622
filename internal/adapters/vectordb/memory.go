// Package vectordb provides knowledge store adapters.
// Clean Architecture: Adapters implementing ports.VectorStore.
// Qdrant is the primary backend; sqlite and memory are embedded fallbacks.
package vectordb

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/ragserve/ragserve/internal/domain/entities"
)

// InMemoryStore is a process-local vector store for tests and development.
type InMemoryStore struct {
	mu   sync.RWMutex
	docs map[string]entities.Document
}

// NewInMemoryStore creates a new in-memory vector store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		docs: make(map[string]entities.Document),
	}
}

// Insert stores a document with its embedding.
func (s *InMemoryStore) Insert(ctx context.Context, doc entities.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[doc.ID] = doc
	return nil
}

// Search finds the topK most similar documents to a query embedding.
func (s *InMemoryStore) Search(ctx context.Context, embedding []float32, topK int) ([]entities.RetrievedSnippet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]entities.RetrievedSnippet, 0, len(s.docs))
	for _, doc := range s.docs {
		results = append(results, entities.RetrievedSnippet{
			DocumentID: doc.ID,
			Text:       doc.Text,
			Score:      cosineSimilarity(embedding, doc.Embedding),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Close is a no-op for the in-memory store.
func (s *InMemoryStore) Close() error {
	return nil
}

// cosineSimilarity calculates cosine similarity between two vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
