package main

import (
	"context"
	"fmt"

	"codeberg.org/lumina/server/internal/chunker"
	"codeberg.org/lumina/server/internal/config"
	"codeberg.org/lumina/server/internal/embedder"
	"codeberg.org/lumina/server/internal/ingestion"
	"codeberg.org/lumina/server/internal/logger"
	"codeberg.org/lumina/server/internal/storage"
)

// opens the store and makes sure the schema exists
func openStore(ctx context.Context, cfg *config.Config) (*storage.Client, error) {
	if cfg.UsesMemoryStore() {
		return nil, fmt.Errorf("DATABASE_URL=%s only works inside the server process", config.MemoryDatabaseURL)
	}

	store, err := storage.NewClient(ctx, cfg.DatabaseURL, cfg.EmbeddingDimension)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := store.InitSchema(ctx); err != nil {
		store.Close()
		return nil, err
	}

	logger.Info("connected to database")

	return store, nil
}

// builds and warms up the configured embedder
func openEmbedder(ctx context.Context, cfg *config.Config) (embedder.Embedder, error) {
	emb, err := embedder.New(embedder.Options{
		Provider:  cfg.EmbedderProvider,
		Model:     cfg.EmbedderModel,
		URL:       cfg.EmbedderURL,
		APIKey:    cfg.OpenAIKey,
		Dimension: cfg.EmbeddingDimension,
		Timeout:   cfg.EmbedTimeout,
	})
	if err != nil {
		return nil, err
	}

	if err := embedder.Warmup(ctx, emb); err != nil {
		return nil, err
	}

	return emb, nil
}

func newPipeline(cfg *config.Config, store *storage.Client, emb embedder.Embedder) (*ingestion.Pipeline, error) {
	ch, err := chunker.New(cfg.ChunkSize)
	if err != nil {
		return nil, err
	}

	return ingestion.NewPipeline(store, emb, ingestion.WithChunker(ch)), nil
}
