package embedding

import (
	"context"

	"go.uber.org/zap"

	"github.com/fredygallego8/wayuulingo-api/internal/domain"
	"github.com/fredygallego8/wayuulingo-api/internal/metrics"
)

// Generator composes the primary provider chain with the deterministic local
// fallback. Its Embed never fails: any primary error, an empty vector, or a
// vector shorter than the collection dimensionality switches to the fallback,
// and a longer vector is truncated to the first dim components (no padding,
// no renormalization after truncation).
type Generator struct {
	provider domain.EmbeddingProvider
	dim      int
	logger   *zap.Logger
}

// NewGenerator creates an embedding generator targeting the collection
// dimensionality dim.
func NewGenerator(provider domain.EmbeddingProvider, dim int, logger *zap.Logger) *Generator {
	return &Generator{provider: provider, dim: dim, logger: logger}
}

// Embed converts text to a vector of exactly the target dimensionality.
func (g *Generator) Embed(ctx context.Context, text string) []float32 {
	vec, err := g.provider.Embed(ctx, text)
	if err != nil {
		g.logger.Warn("Primary embedding failed, using deterministic fallback", zap.Error(err))
		return g.fallback(text)
	}

	if len(vec) < g.dim {
		// A short vector cannot be searched against the collection; padding
		// would silently search with a zero-signal tail.
		g.logger.Warn("Primary embedding shorter than collection dimensionality, using fallback",
			zap.Int("got", len(vec)), zap.Int("want", g.dim))
		return g.fallback(text)
	}

	if len(vec) > g.dim {
		vec = vec[:g.dim]
	}
	return vec
}

func (g *Generator) fallback(text string) []float32 {
	metrics.EmbeddingRequestsTotal.WithLabelValues("fallback", "success").Inc()
	return Fallback(text, g.dim)
}
