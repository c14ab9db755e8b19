package embedder

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
)

// OllamaEmbedder runs a sentence-embedding model (all-minilm by default)
// behind a local Ollama server.
type OllamaEmbedder struct {
	embedder  embeddings.Embedder
	model     string
	dimension int
}

func NewOllamaEmbedder(serverURL, model string, dimension int) (*OllamaEmbedder, error) {
	client, err := ollama.New(
		ollama.WithModel(model),
		ollama.WithServerURL(serverURL),
	)
	if err != nil {
		return nil, err
	}

	// chunk boundaries are positional, so newlines stay part of the embedded text
	e, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(false))
	if err != nil {
		return nil, err
	}

	return &OllamaEmbedder{
		embedder:  e,
		model:     model,
		dimension: dimension,
	}, nil
}

func (e *OllamaEmbedder) Dimension() int {
	return e.dimension
}

func (e *OllamaEmbedder) Model() string {
	return e.model
}

func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("ollama embed: %w", err)
	}

	if len(vectors) == 0 {
		return nil, fmt.Errorf("ollama embed: no vectors returned")
	}

	return vectors[0], nil
}
