// Package embedder provides the embedding capability shared by ingestion and
// querying: a provider-specific client wrapped with dimension checks, per-call
// timeouts and error classification.
package embedder

import (
	"context"
	"fmt"
	"time"

	apperrors "codeberg.org/lumina/server/internal/errors"
)

// New builds the configured provider and wraps it so every vector it returns
// is checked against opts.Dimension.
func New(opts Options) (Embedder, error) {
	if opts.Dimension <= 0 {
		return nil, fmt.Errorf("embedding dimension must be positive, got %d", opts.Dimension)
	}

	var inner Embedder

	switch opts.Provider {
	case ProviderOllama:
		e, err := NewOllamaEmbedder(opts.URL, opts.Model, opts.Dimension)
		if err != nil {
			return nil, fmt.Errorf("failed to create ollama embedder: %w", err)
		}

		inner = e

	case ProviderOpenAI:
		inner = NewOpenAIEmbedder(OpenAIConfig{
			APIKey:    opts.APIKey,
			BaseURL:   opts.URL,
			Model:     opts.Model,
			Dimension: opts.Dimension,
		})

	case ProviderHashing:
		inner = NewHashingEmbedder(opts.Dimension)

	default:
		return nil, fmt.Errorf("unsupported embedder provider: %q", opts.Provider)
	}

	return Checked(inner, opts.Timeout), nil
}

// Checked wraps e so that calls are bounded by timeout, failures carry
// ErrEmbedding, and vectors of the wrong width are rejected.
func Checked(e Embedder, timeout time.Duration) Embedder {
	if c, ok := e.(*checkedEmbedder); ok {
		return c
	}

	return &checkedEmbedder{inner: e, timeout: timeout}
}

type checkedEmbedder struct {
	inner   Embedder
	timeout time.Duration
}

func (c *checkedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, apperrors.Embedding("embed", err)
	}

	if want := c.inner.Dimension(); len(vec) != want {
		return nil, apperrors.Embedding("embed",
			fmt.Errorf("%w: model %s returned %d values, want %d",
				apperrors.ErrDimensionMismatch, c.inner.Model(), len(vec), want))
	}

	return vec, nil
}

func (c *checkedEmbedder) Dimension() int {
	return c.inner.Dimension()
}

func (c *checkedEmbedder) Model() string {
	return c.inner.Model()
}

// Warmup performs the one blocking round trip that loads the model and
// verifies its output width. It must succeed before ingestion or queries start.
func Warmup(ctx context.Context, e Embedder) error {
	start := time.Now()

	if _, err := Checked(e, 0).Embed(ctx, warmupProbe); err != nil {
		return fmt.Errorf("embedder warmup failed after %s: %w", time.Since(start).Round(time.Millisecond), err)
	}

	return nil
}
