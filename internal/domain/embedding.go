package domain

import "context"

// EmbeddingProvider is the fallible text vectorization contract implemented
// by the primary transport and its decorators (cache). The non-failing
// embedding chain built on top of it lives in the embedding package.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
