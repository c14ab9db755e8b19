package embedder

import (
	"context"
	"time"
)

// Embedder maps text to a fixed-dimension vector. Implementations are safe for
// concurrent use once constructed.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
	Model() string
}

// Options selects and configures an Embedder implementation.
type Options struct {
	Provider  string // "ollama", "openai" or "hashing"
	Model     string
	URL       string
	APIKey    string
	Dimension int
	Timeout   time.Duration // per call, zero means unbounded
}

const (
	ProviderOllama  = "ollama"
	ProviderOpenAI  = "openai"
	ProviderHashing = "hashing"

	// text embedded once at startup to check the model answers with the right width
	warmupProbe = "lumina warmup probe"
)
