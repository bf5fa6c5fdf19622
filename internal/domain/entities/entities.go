// Package entities contains core business entities.
// These are the enterprise business rules - pure domain objects with no external dependencies.
package entities

import "time"

// Document is a unit of text stored in the knowledge store.
// Every stored document carries exactly one embedding, generated at insertion time.
type Document struct {
	ID        string
	Text      string
	Embedding []float32
	CreatedAt time.Time
}

// RetrievedSnippet is one knowledge-store hit for a query, ranked by similarity.
type RetrievedSnippet struct {
	DocumentID string
	Text       string
	Score      float64
}

// QueryRequest is a transient question; it has no identity beyond the request.
type QueryRequest struct {
	Question string
}

// QueryResponse carries the answer plus the source snippets used to build it.
type QueryResponse struct {
	Answer  string
	Sources []RetrievedSnippet
}

// AddResult acknowledges an insertion with the new document's identifier.
type AddResult struct {
	ID string
}
