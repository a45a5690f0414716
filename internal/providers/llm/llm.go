package llm

import "context"

// Provider is the optional secondary analysis collaborator: a model that
// cross-checks the deterministic engine's read of a call. The pipeline never
// depends on it.
type Provider interface {
	// Complete returns the model's full text answer for a single prompt.
	Complete(ctx context.Context, prompt string) (string, error)
	Close() error
}

// Embedder turns text into a fixed-size vector for semantic lookup over
// stored transcripts. Like Provider, it is optional.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
