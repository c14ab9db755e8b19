package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the document and chunk store behind ingestion and queries.
// Client and MemoryStore both implement it.
type Store interface {
	InitSchema(ctx context.Context) error
	Ping(ctx context.Context) error
	Dimension() int
	Close()

	CreateDocument(ctx context.Context, filename, userID, taskID string) (*Document, error)
	DocumentByTaskID(ctx context.Context, taskID string) (*Document, error)
	ListDocuments(ctx context.Context, userID string, limit, offset int) ([]DocumentSummary, int, error)
	InsertChunks(ctx context.Context, chunks []Chunk) error
	SearchChunks(ctx context.Context, embedding []float32, userID string, limit int) ([]SearchResult, error)
	CountChunks(ctx context.Context, documentID int64) (int, error)
}

var (
	_ Store = (*Client)(nil)
	_ Store = (*MemoryStore)(nil)
)

// Client is the Postgres/pgvector document store.
type Client struct {
	pool      *pgxpool.Pool
	dimension int
}

type Document struct {
	ID        int64     `json:"id"`
	Filename  string    `json:"filename"`
	UserID    string    `json:"user_id"`
	TaskID    string    `json:"task_id"`
	CreatedAt time.Time `json:"created_at"`
}

// DocumentSummary is a document listed with the number of chunks stored for it.
type DocumentSummary struct {
	Document
	Chunks int `json:"chunks"`
}

type Chunk struct {
	ID         int64
	DocumentID int64
	Seq        int
	Content    string
	Embedding  []float32
}

// SearchResult is one chunk returned by a similarity search, with the owning
// document's filename and its L2 distance from the query vector.
type SearchResult struct {
	ChunkID    int64
	DocumentID int64
	Seq        int
	Content    string
	Filename   string
	Distance   float64
}
