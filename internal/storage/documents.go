package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	apperrors "codeberg.org/lumina/server/internal/errors"
)

// CreateDocument inserts a document row and returns it with the id and
// timestamp the database assigned.
func (c *Client) CreateDocument(ctx context.Context, filename, userID, taskID string) (*Document, error) {
	doc := &Document{
		Filename: filename,
		UserID:   userID,
		TaskID:   taskID,
	}

	err := c.pool.QueryRow(ctx, insertDocumentQuery, filename, userID, taskID).Scan(&doc.ID, &doc.CreatedAt)
	if err != nil {
		return nil, apperrors.Store("create document", err)
	}

	return doc, nil
}

// DocumentByTaskID returns the most recent document created for taskID, or
// ErrNotFound.
func (c *Client) DocumentByTaskID(ctx context.Context, taskID string) (*Document, error) {
	var doc Document

	err := c.pool.QueryRow(ctx, documentByTaskIDQuery, taskID).Scan(
		&doc.ID,
		&doc.Filename,
		&doc.UserID,
		&doc.TaskID,
		&doc.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("document for task %s: %w", taskID, apperrors.ErrNotFound)
	}

	if err != nil {
		return nil, apperrors.Store("document by task", err)
	}

	return &doc, nil
}

// ListDocuments returns one page of userID's documents, newest first, along
// with the total number of documents the user owns.
func (c *Client) ListDocuments(ctx context.Context, userID string, limit, offset int) ([]DocumentSummary, int, error) {
	var total int
	if err := c.pool.QueryRow(ctx, countDocumentsQuery, userID).Scan(&total); err != nil {
		return nil, 0, apperrors.Store("count documents", err)
	}

	rows, err := c.pool.Query(ctx, listDocumentsQuery, userID, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Store("list documents", err)
	}
	defer rows.Close()

	docs := []DocumentSummary{}

	for rows.Next() {
		var d DocumentSummary

		if err := rows.Scan(&d.ID, &d.Filename, &d.UserID, &d.TaskID, &d.CreatedAt, &d.Chunks); err != nil {
			return nil, 0, apperrors.Store("scan document", err)
		}

		docs = append(docs, d)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.Store("list documents", err)
	}

	return docs, total, nil
}
