package entities

import "errors"

// Error kinds surfaced to callers. Usecases wrap the underlying cause with
// fmt.Errorf("%w: ...") so handlers can map kinds with errors.Is while the
// detail stays in the message.
var (
	// ErrInvalidInput marks an empty or whitespace-only question or text.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRetrievalUnavailable marks a knowledge store that could not be reached
	// or could not be searched.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")

	// ErrGenerationFailed marks an answer generator that failed or timed out.
	// A failed generation never produces a partial answer.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrEmbeddingFailed marks a failed vectorization during insertion.
	ErrEmbeddingFailed = errors.New("embedding failed")

	// ErrStoreUnavailable marks a knowledge store that rejected a write.
	ErrStoreUnavailable = errors.New("store unavailable")
)
