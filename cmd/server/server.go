package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"codeberg.org/lumina/server/internal/config"
	"codeberg.org/lumina/server/internal/embedder"
	"codeberg.org/lumina/server/internal/logger"
	"codeberg.org/lumina/server/internal/queue"
	"codeberg.org/lumina/server/internal/storage"
)

// creates and configures a new server instance with all dependencies
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := store.InitSchema(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	// redis is optional; without it query embeddings are not cached
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = embedder.NewRedisClient(cfg.RedisURL)
		if err != nil {
			logger.ErrorErr(err, "failed to connect to redis, continuing without embedding cache")
			rdb = nil
		}
	}

	services, err := InitializeServices(ctx, cfg, store, rdb)
	if err != nil {
		closeRedis(rdb)
		store.Close()

		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	consumer := queue.NewConsumer(
		queue.NewAMQPBroker(cfg.AMQPURL),
		services.Pipeline,
		store,
		queue.ConsumerConfig{
			Queue:          cfg.QueueName,
			ReconnectDelay: cfg.ReconnectDelay,
			TaskTimeout:    cfg.TaskTimeout,
		},
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger())

	server := &Server{
		config:   cfg,
		store:    store,
		redis:    rdb,
		services: services,
		consumer: consumer,
		router:   router,
	}

	RegisterRoutes(router, server)

	return server, nil
}

// connects to Postgres, or builds the in-memory store for DATABASE_URL=memory://
func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	if cfg.UsesMemoryStore() {
		logger.Warn("using in-memory store, documents are lost on restart",
			"dimension", cfg.EmbeddingDimension)

		return storage.NewMemoryStore(cfg.EmbeddingDimension), nil
	}

	store, err := storage.NewClient(ctx, cfg.DatabaseURL, cfg.EmbeddingDimension)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return store, nil
}

func closeRedis(rdb *redis.Client) {
	if rdb != nil {
		rdb.Close() //nolint:errcheck,gosec // best-effort cleanup
	}
}
