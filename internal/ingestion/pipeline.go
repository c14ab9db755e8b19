// Package ingestion turns one queued task into a stored document: read the
// source file, create the document row, chunk, embed each chunk and persist
// the chunks in a single batch.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"
	"unicode/utf8"

	"codeberg.org/lumina/server/internal/chunker"
	"codeberg.org/lumina/server/internal/embedder"
	apperrors "codeberg.org/lumina/server/internal/errors"
	"codeberg.org/lumina/server/internal/logger"
	"codeberg.org/lumina/server/internal/storage"
)

// DocumentWriter is the part of the document store the pipeline writes to.
type DocumentWriter interface {
	CreateDocument(ctx context.Context, filename, userID, taskID string) (*storage.Document, error)
	InsertChunks(ctx context.Context, chunks []storage.Chunk) error
}

type Pipeline struct {
	store    DocumentWriter
	embedder embedder.Embedder
	chunker  *chunker.Chunker
	logger   *slog.Logger
}

type Option func(*Pipeline)

func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

func WithChunker(c *chunker.Chunker) Option {
	return func(p *Pipeline) {
		p.chunker = c
	}
}

func NewPipeline(store DocumentWriter, emb embedder.Embedder, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:    store,
		embedder: emb,
		chunker:  chunker.Default(),
		logger:   logger.Component("ingestion"),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Process runs one task to completion. Each call creates a new Document, so
// processing the same task twice yields two documents.
func (p *Pipeline) Process(ctx context.Context, task Task) (*Result, error) {
	if err := task.Validate(); err != nil {
		return nil, err
	}

	log := p.logger.With("task_id", task.TaskID, "user_id", task.UserID, "file", task.OriginalName)
	start := time.Now()

	text, err := readSource(task.FilePath)
	if err != nil {
		return nil, err
	}

	doc, err := p.store.CreateDocument(ctx, task.OriginalName, task.UserID, task.TaskID)
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	log.Debug("document created", "document_id", doc.ID, "chars", utf8.RuneCountInString(text))

	staged := make([]storage.Chunk, 0, p.chunker.Count(text))
	seq := 0

	for content := range p.chunker.Split(text) {
		vec, err := p.embedder.Embed(ctx, content)
		if err != nil {
			return nil, &PartialError{
				DocumentID: doc.ID,
				Err:        fmt.Errorf("failed to embed chunk %d: %w", seq, err),
			}
		}

		staged = append(staged, storage.Chunk{
			DocumentID: doc.ID,
			Seq:        seq,
			Content:    content,
			Embedding:  vec,
		})
		seq++
	}

	if err := p.store.InsertChunks(ctx, staged); err != nil {
		return nil, &PartialError{
			DocumentID: doc.ID,
			Err:        fmt.Errorf("failed to store %d chunks: %w", len(staged), err),
		}
	}

	log.Info("document indexed",
		"document_id", doc.ID,
		"chunks", len(staged),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &Result{DocumentID: doc.ID, Chunks: len(staged)}, nil
}

// DocumentCreated reports whether err came from a task that had already
// persisted its Document.
func DocumentCreated(err error) bool {
	var partial *PartialError
	return errors.As(err, &partial)
}

func readSource(path string) (string, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
		return "", apperrors.Permanent("read source", fmt.Errorf("%w: %s", apperrors.ErrSourceNotFound, path))
	}

	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return "", apperrors.Transient("read source", err)
	}

	if !utf8.Valid(data) {
		return "", apperrors.Permanent("read source", fmt.Errorf("%s is not valid UTF-8 text", path))
	}

	return string(data), nil
}
