package answer

import "context"

// Generator turns retrieved context into the answer returned to the caller.
type Generator interface {
	Generate(ctx context.Context, query, retrieved string) (string, error)
}

type Provider string

const (
	ProviderPassthrough Provider = "passthrough"
	ProviderOllama      Provider = "ollama"
	ProviderOpenAI      Provider = "openai"
)

type Config struct {
	Provider Provider
	Model    string
	BaseURL  string // ollama server or OpenAI-compatible /v1 root
	APIKey   string

	MaxTokens   int
	Temperature float64
}
