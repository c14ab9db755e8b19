// Package answer produces the final answer for a query from the chunks the
// retriever found. The default generator passes the context through; an LLM
// generator can be swapped in without touching the query path.
package answer

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	apperrors "codeberg.org/lumina/server/internal/errors"
)

const (
	defaultMaxTokens   = 1024
	defaultTemperature = 0.2
)

// New returns the generator selected by cfg.Provider.
func New(cfg Config) (Generator, error) {
	switch cfg.Provider {
	case "", ProviderPassthrough:
		return Passthrough{}, nil

	case ProviderOllama:
		opts := []ollama.Option{ollama.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
		}

		model, err := ollama.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create ollama generator: %w", err)
		}

		return NewLLMGenerator(model, cfg), nil

	case ProviderOpenAI:
		opts := []openai.Option{openai.WithToken(cfg.APIKey), openai.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}

		model, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai generator: %w", err)
		}

		return NewLLMGenerator(model, cfg), nil

	default:
		return nil, fmt.Errorf("unsupported generator provider: %q", cfg.Provider)
	}
}

// LLMGenerator asks a chat model to answer from the retrieved context only.
type LLMGenerator struct {
	model       llms.Model
	maxTokens   int
	temperature float64
}

func NewLLMGenerator(model llms.Model, cfg Config) *LLMGenerator {
	g := &LLMGenerator{
		model:       model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}

	if g.maxTokens <= 0 {
		g.maxTokens = defaultMaxTokens
	}

	if g.temperature <= 0 {
		g.temperature = defaultTemperature
	}

	return g
}

func (g *LLMGenerator) Generate(ctx context.Context, query, retrieved string) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, g.model, buildPrompt(query, retrieved),
		llms.WithTemperature(g.temperature),
		llms.WithMaxTokens(g.maxTokens),
	)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindUnknown {
			return "", apperrors.Resource("generate answer", err)
		}

		return "", fmt.Errorf("generate answer: %w", err)
	}

	return strings.TrimSpace(out), nil
}

func buildPrompt(query, retrieved string) string {
	var b strings.Builder

	b.WriteString(`You answer questions about the user's own documents.
Use only the sources below. If they do not contain the answer, say so.
Mention the source filename for every fact you use.

`)
	b.WriteString("SOURCES:\n")
	b.WriteString(retrieved)
	b.WriteString("\n\nQUESTION:\n")
	b.WriteString(query)
	b.WriteString("\n\nANSWER:\n")

	return b.String()
}
