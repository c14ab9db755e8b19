package config

import "time"

type Config struct {
	Environment string
	ServiceName string
	Port        string
	CORSOrigins []string

	DatabaseURL string
	RedisURL    string

	AMQPURL        string
	QueueName      string
	ReconnectDelay time.Duration

	EmbedderProvider   string
	EmbedderModel      string
	EmbedderURL        string
	OpenAIKey          string
	EmbeddingDimension int
	EmbeddingCacheTTL  time.Duration

	GeneratorProvider string
	GeneratorModel    string

	ChunkSize  int
	QueryLimit int

	EmbedTimeout time.Duration
	QueryTimeout time.Duration
	TaskTimeout  time.Duration
}

// reports whether the process runs with production settings
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// reports whether DATABASE_URL asks for the non-persistent in-memory store
func (c *Config) UsesMemoryStore() bool {
	return c.DatabaseURL == MemoryDatabaseURL
}

// the generator shares the embedder's server when both run on ollama
func (c *Config) GeneratorURL() string {
	if c.GeneratorProvider == ProviderOllama && c.EmbedderProvider == ProviderOllama {
		return c.EmbedderURL
	}

	return ""
}

// flags shared by ingester subcommands that submit a document
type IngestFlags struct {
	File   string
	UserID string
	Name   string
	TaskID string
}
