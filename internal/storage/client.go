// Package storage persists documents and their embedded chunks and answers
// tenant-scoped nearest-neighbour searches over them.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "codeberg.org/lumina/server/internal/errors"
	"codeberg.org/lumina/server/internal/logger"
)

// NewClient opens a connection pool sized for a single consumer plus the HTTP
// handlers, and pings the database once.
func NewClient(ctx context.Context, connString string, dimension int) (*Client, error) {
	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	// simple protocol keeps us compatible with PgBouncer-style poolers
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, apperrors.Store("ping", err)
	}

	return &Client{pool: pool, dimension: dimension}, nil
}

func (c *Client) Close() {
	c.pool.Close()
}

func (c *Client) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

func (c *Client) Dimension() int {
	return c.dimension
}

// InitSchema installs the vector extension and creates the documents and
// document_chunks tables if they do not exist yet.
func (c *Client) InitSchema(ctx context.Context) error {
	statements := []string{
		createExtensionQuery,
		createDocumentsTableQuery,
		createDocumentsUserIndexQuery,
		createDocumentsTaskIndexQuery,
		fmt.Sprintf(createChunksTableQuery, c.dimension),
		createChunksDocumentIndexQuery,
	}

	for _, stmt := range statements {
		if _, err := c.pool.Exec(ctx, stmt); err != nil {
			return apperrors.Store("init schema", err)
		}
	}

	logger.Info("database schema ready", "embedding_dimension", c.dimension)

	return nil
}
