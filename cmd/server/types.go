package main

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"codeberg.org/lumina/server/internal/config"
	"codeberg.org/lumina/server/internal/embedder"
	"codeberg.org/lumina/server/internal/ingestion"
	"codeberg.org/lumina/server/internal/queue"
	"codeberg.org/lumina/server/internal/retriever"
	"codeberg.org/lumina/server/internal/storage"
)

// holds all dependencies and state for the API server
type Server struct {
	config   *config.Config
	store    storage.Store
	redis    *redis.Client
	services *Services
	consumer *queue.Consumer
	router   *gin.Engine
}

// holds the domain services built once at startup
type Services struct {
	Embedder  embedder.Embedder
	Pipeline  *ingestion.Pipeline
	Retriever *retriever.Service
}
