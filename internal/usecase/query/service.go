// Package query implements the retrieval-and-grounding pipeline: embed the
// query, search the vector index, normalize and assemble the hits, and ask
// the generative model for a grounded answer.
package query

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fredygallego8/wayuulingo-api/internal/domain"
)

// Options holds the pipeline tunables.
type Options struct {
	DefaultLimit    int
	MaxLimit        int
	ContextResults  int
	EmbedTimeout    time.Duration
	SearchTimeout   time.Duration
	GenerateTimeout time.Duration
}

// Service runs the pipeline. All state is read-only after construction, so
// concurrent requests share it without locking.
type Service struct {
	embedder Embedder
	searcher Searcher
	answerer Answerer
	opts     Options
	logger   *zap.Logger
}

// New creates the pipeline service.
func New(embedder Embedder, searcher Searcher, answerer Answerer, opts Options, logger *zap.Logger) *Service {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 5
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = 10
	}
	if opts.ContextResults <= 0 {
		opts.ContextResults = 5
	}
	return &Service{
		embedder: embedder,
		searcher: searcher,
		answerer: answerer,
		opts:     opts,
		logger:   logger,
	}
}

// Search performs one full query: embed, search, normalize, assemble,
// answer. The three upstream calls run sequentially; each step depends on
// the previous one. The response is always well-formed: a search failure
// aborts with an error field and empty results, while embedding and
// generation failures are recovered inside their components.
func (s *Service) Search(ctx context.Context, queryText string, limit int) domain.SearchResponse {
	if limit <= 0 {
		limit = s.opts.DefaultLimit
	}
	if limit > s.opts.MaxLimit {
		limit = s.opts.MaxLimit
	}

	embedCtx, cancelEmbed := s.withTimeout(ctx, s.opts.EmbedTimeout)
	vector := s.embedder.Embed(embedCtx, queryText)
	cancelEmbed()

	searchCtx, cancelSearch := s.withTimeout(ctx, s.opts.SearchTimeout)
	rawHits, err := s.searcher.Search(searchCtx, vector, limit)
	cancelSearch()
	if err != nil {
		s.logger.Error("Vector search failed", zap.String("query", queryText), zap.Error(err))
		return domain.SearchResponse{
			Query:   queryText,
			Results: []domain.Hit{},
			Error:   err.Error(),
		}
	}

	hits := make([]domain.Hit, len(rawHits))
	for i, raw := range rawHits {
		hits[i] = domain.Normalize(raw)
	}

	contextBlock := BuildContext(hits, s.opts.ContextResults)

	genCtx, cancelGen := s.withTimeout(ctx, s.opts.GenerateTimeout)
	answer := s.answerer.Answer(genCtx, queryText, contextBlock)
	cancelGen()

	return domain.SearchResponse{
		Query:      queryText,
		Results:    hits,
		AIResponse: answer,
	}
}

func (s *Service) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
