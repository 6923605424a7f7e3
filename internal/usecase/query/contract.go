package query

import (
	"context"

	"github.com/fredygallego8/wayuulingo-api/internal/domain"
)

// Embedder turns free text into a fixed-length vector. Total: degraded
// providers are handled inside the embedding chain, never here.
type Embedder interface {
	Embed(ctx context.Context, text string) []float32
}

// Searcher runs a nearest-neighbor query against the vector index.
type Searcher interface {
	Search(ctx context.Context, vector []float32, topK int) ([]domain.RawHit, error)
}

// Answerer produces a grounded answer from the query and assembled context.
// Total: generation failures resolve to a fixed fallback sentence inside.
type Answerer interface {
	Answer(ctx context.Context, query, contextBlock string) string
}
