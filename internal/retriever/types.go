package retriever

import (
	"context"
	"log/slog"
	"time"

	"codeberg.org/lumina/server/internal/answer"
	"codeberg.org/lumina/server/internal/embedder"
	"codeberg.org/lumina/server/internal/storage"
)

// NoResultsAnswer is returned when the user has no chunk close to the query.
const NoResultsAnswer = "I couldn't find any relevant information."

const DefaultLimit = 3

// Searcher is the read side of the document store.
type Searcher interface {
	SearchChunks(ctx context.Context, embedding []float32, userID string, limit int) ([]storage.SearchResult, error)
}

// Service answers free-text questions from one user's documents.
type Service struct {
	embedder  embedder.Embedder
	searcher  Searcher
	generator answer.Generator
	limit     int
	timeout   time.Duration
	logger    *slog.Logger
}

type Request struct {
	Query  string `json:"query"`
	UserID string `json:"user_id"`
	Limit  int    `json:"limit,omitempty"`
}

type Response struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}
