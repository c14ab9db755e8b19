// Package retriever implements the query path: embed the question, find the
// nearest chunks owned by the caller, and hand them to the answer generator.
package retriever

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/lumina/server/internal/answer"
	"codeberg.org/lumina/server/internal/embedder"
	"codeberg.org/lumina/server/internal/logger"
)

type Option func(*Service)

// WithLimit sets the number of chunks used when a request does not say.
func WithLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

// WithTimeout bounds a whole query, embedding and generation included.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.timeout = d
	}
}

func NewService(emb embedder.Embedder, searcher Searcher, generator answer.Generator, opts ...Option) *Service {
	if generator == nil {
		generator = answer.Passthrough{}
	}

	s := &Service{
		embedder:  emb,
		searcher:  searcher,
		generator: generator,
		limit:     DefaultLimit,
		logger:    logger.Component("retriever"),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) Query(ctx context.Context, req Request) (*Response, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.limit
	}

	start := time.Now()

	vec, err := s.embedder.Embed(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := s.searcher.SearchChunks(ctx, vec, req.UserID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}

	s.logger.Debug("chunks retrieved",
		"user_id", req.UserID,
		"results", len(results),
		"limit", limit,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if len(results) == 0 {
		return &Response{Answer: NoResultsAnswer, Sources: []string{}}, nil
	}

	text, err := s.generator.Generate(ctx, req.Query, buildContext(results))
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	return &Response{Answer: text, Sources: uniqueSources(results)}, nil
}
