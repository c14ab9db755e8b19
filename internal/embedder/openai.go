package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "codeberg.org/lumina/server/internal/errors"
	"golang.org/x/time/rate"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "text-embedding-3-small"

	// requests per second and burst allowed against the embeddings endpoint
	openaiRequestsPerSecond = 50
	openaiBurst             = 10
)

// shared HTTP client for embedding API calls
var openaiHTTPClient = &http.Client{
	Timeout: 60 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

type embeddingRequest struct {
	Input      []string `json:"input"`
	Model      string   `json:"model"`
	Encoding   string   `json:"encoding_format"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Model string `json:"model"`
}

type OpenAIConfig struct {
	APIKey    string
	BaseURL   string // any OpenAI-compatible /v1 root
	Model     string
	Dimension int
}

// OpenAIEmbedder talks to an OpenAI-compatible embeddings endpoint and asks
// for vectors truncated to the configured dimension.
type OpenAIEmbedder struct {
	config     OpenAIConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewOpenAIEmbedder(config OpenAIConfig) *OpenAIEmbedder {
	if config.BaseURL == "" {
		config.BaseURL = defaultOpenAIBaseURL
	}

	if config.Model == "" {
		config.Model = defaultOpenAIModel
	}

	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &OpenAIEmbedder{
		config:     config,
		httpClient: openaiHTTPClient,
		limiter:    rate.NewLimiter(openaiRequestsPerSecond, openaiBurst),
	}
}

func (e *OpenAIEmbedder) Dimension() int {
	return e.config.Dimension
}

func (e *OpenAIEmbedder) Model() string {
	return e.config.Model
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, apperrors.Transient("rate limit", err)
	}

	reqBody := embeddingRequest{
		Input:      []string{text},
		Model:      e.config.Model,
		Encoding:   "float",
		Dimensions: e.config.Dimension,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, apperrors.Permanent("marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.config.BaseURL+"/embeddings", bytes.NewReader(jsonData))
	if err != nil {
		return nil, apperrors.Permanent("create request", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if e.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.config.APIKey)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Transient("send request", err)
	}

	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, apperrors.New(kindForStatus(resp.StatusCode), "embeddings API",
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var embResp embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&embResp); err != nil {
		return nil, apperrors.Transient("decode response", err)
	}

	if len(embResp.Data) == 0 {
		return nil, apperrors.Permanent("embeddings API", fmt.Errorf("no embeddings returned"))
	}

	return embResp.Data[0].Embedding, nil
}

func kindForStatus(status int) apperrors.Kind {
	switch {
	case status == http.StatusTooManyRequests, status == http.StatusServiceUnavailable:
		return apperrors.KindResource
	case status >= 500:
		return apperrors.KindTransient
	default:
		return apperrors.KindPermanent
	}
}
