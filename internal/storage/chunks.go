package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	apperrors "codeberg.org/lumina/server/internal/errors"
	"codeberg.org/lumina/server/internal/logger"
)

// InsertChunks writes all chunks in a single transaction. Either every chunk
// is stored or none is.
func (c *Client) InsertChunks(ctx context.Context, chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	for _, chunk := range chunks {
		if len(chunk.Embedding) != c.dimension {
			return apperrors.Store("insert chunks", fmt.Errorf("%w: chunk %d has %d values, column holds %d",
				apperrors.ErrDimensionMismatch, chunk.Seq, len(chunk.Embedding), c.dimension))
		}
	}

	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return apperrors.Store("begin transaction", err)
	}

	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			logger.Warn("failed to rollback transaction", "error", err)
		}
	}()

	batch := &pgx.Batch{}

	for _, chunk := range chunks {
		batch.Queue(insertChunkQuery,
			chunk.DocumentID,
			chunk.Seq,
			chunk.Content,
			pgvector.NewVector(chunk.Embedding),
		)
	}

	br := tx.SendBatch(ctx, batch)

	for i := range chunks {
		if _, err := br.Exec(); err != nil {
			br.Close() //nolint:errcheck,gosec
			return apperrors.Store(fmt.Sprintf("insert chunk %d", i), err)
		}
	}

	// batch results must be closed before the connection can commit
	if err := br.Close(); err != nil {
		return apperrors.Store("close batch", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.Store("commit transaction", err)
	}

	return nil
}

// SearchChunks returns up to limit chunks owned by userID, nearest to
// embedding by L2 distance.
func (c *Client) SearchChunks(ctx context.Context, embedding []float32, userID string, limit int) ([]SearchResult, error) {
	rows, err := c.pool.Query(ctx, searchChunksQuery, pgvector.NewVector(embedding), userID, limit)
	if err != nil {
		return nil, apperrors.Store("search chunks", err)
	}
	defer rows.Close()

	var results []SearchResult

	for rows.Next() {
		var r SearchResult

		if err := rows.Scan(
			&r.ChunkID,
			&r.DocumentID,
			&r.Seq,
			&r.Content,
			&r.Filename,
			&r.Distance,
		); err != nil {
			return nil, apperrors.Store("scan chunk", err)
		}

		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Store("iterate chunks", err)
	}

	return results, nil
}

func (c *Client) CountChunks(ctx context.Context, documentID int64) (int, error) {
	var count int

	if err := c.pool.QueryRow(ctx, countChunksQuery, documentID).Scan(&count); err != nil {
		return 0, apperrors.Store("count chunks", err)
	}

	return count, nil
}
