package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"codeberg.org/lumina/server/internal/answer"
	"codeberg.org/lumina/server/internal/chunker"
	"codeberg.org/lumina/server/internal/config"
	"codeberg.org/lumina/server/internal/embedder"
	"codeberg.org/lumina/server/internal/ingestion"
	"codeberg.org/lumina/server/internal/logger"
	"codeberg.org/lumina/server/internal/retriever"
	"codeberg.org/lumina/server/internal/storage"
)

// upper bound on loading the embedding model at startup
const warmupTimeout = 5 * time.Minute

// builds the embedder, warms it up, and wires the pipeline and query service
func InitializeServices(ctx context.Context, cfg *config.Config, store storage.Store, rdb *redis.Client) (*Services, error) {
	emb, err := embedder.New(embedder.Options{
		Provider:  cfg.EmbedderProvider,
		Model:     cfg.EmbedderModel,
		URL:       cfg.EmbedderURL,
		APIKey:    cfg.OpenAIKey,
		Dimension: cfg.EmbeddingDimension,
		Timeout:   cfg.EmbedTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	logger.Info("loading embedding model",
		"provider", cfg.EmbedderProvider,
		"model", emb.Model(),
		"dimension", emb.Dimension(),
	)

	warmCtx, cancel := context.WithTimeout(ctx, warmupTimeout)
	defer cancel()

	if err := embedder.Warmup(warmCtx, emb); err != nil {
		return nil, err
	}

	logger.Info("embedding model loaded")

	// only the query path goes through the cache; chunks are embedded once
	queryEmbedder := emb
	if rdb != nil {
		queryEmbedder = embedder.NewCachedEmbedder(emb, rdb, cfg.EmbeddingCacheTTL)
	}

	ch, err := chunker.New(cfg.ChunkSize)
	if err != nil {
		return nil, err
	}

	generator, err := answer.New(answer.Config{
		Provider: answer.Provider(cfg.GeneratorProvider),
		Model:    cfg.GeneratorModel,
		BaseURL:  cfg.GeneratorURL(),
		APIKey:   cfg.OpenAIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create answer generator: %w", err)
	}

	return &Services{
		Embedder: emb,
		Pipeline: ingestion.NewPipeline(store, emb,
			ingestion.WithChunker(ch),
		),
		Retriever: retriever.NewService(queryEmbedder, store, generator,
			retriever.WithLimit(cfg.QueryLimit),
			retriever.WithTimeout(cfg.QueryTimeout),
		),
	}, nil
}
