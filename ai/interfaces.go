package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input
	// texts; callers rely on positional correspondence.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Explainer generates a short natural-language rationale for why a search
// query matches an initiative description.
// Implementations must be thread-safe for concurrent use.
type Explainer interface {
	// Explain returns a 1-2 sentence justification of the match, trimmed of
	// surrounding whitespace. Errors are wrapped with ErrExplanationTransport
	// or ErrExplanationParse so callers can degrade to fallback text.
	Explain(ctx context.Context, query, description string) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages Embedder and Explainer
// instances, ensuring they share configuration and credentials.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Explainer returns the match explanation service.
	// The returned Explainer is safe for concurrent use.
	Explainer() Explainer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
