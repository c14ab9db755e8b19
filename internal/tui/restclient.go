package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// timeout for query requests
const queryRequestTimeout = 90 * time.Second

// talks to the lumina REST API on behalf of one user
type QueryClient struct {
	endpoint   string
	userID     string
	httpClient *http.Client
}

func NewQueryClient(endpoint, userID string) *QueryClient {
	if endpoint == "" {
		endpoint = "http://localhost:8000"
	}

	return &QueryClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		userID:   userID,
		httpClient: &http.Client{
			Timeout: queryRequestTimeout,
		},
	}
}

func (c *QueryClient) UserID() string {
	return c.userID
}

// sends a question to POST /query
func (c *QueryClient) Query(ctx context.Context, query string) (*QueryResponseMsg, error) {
	payload, err := json.Marshal(queryRequest{Query: query, UserID: c.userID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/query", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result queryResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	// failures come back as 200 with an error field
	if result.Error != "" {
		return nil, errors.New(result.Error)
	}

	return &QueryResponseMsg{
		query:   query,
		answer:  result.Answer,
		sources: result.Sources,
	}, nil
}

// returns a tea.Cmd that sends a query
func (c *QueryClient) QueryCmd(query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), queryRequestTimeout)
		defer cancel()

		resp, err := c.Query(ctx, query)
		if err != nil {
			return QueryErrorMsg{query: query, err: err}
		}

		return *resp
	}
}

// probes GET /health
func (c *QueryClient) Health(ctx context.Context) (*healthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	var result healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse health response (status %d): %w", resp.StatusCode, err)
	}

	return &result, nil
}

// returns a tea.Cmd that probes the server
func (c *QueryClient) HealthCmd() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	h, err := c.Health(ctx)
	if err != nil {
		return HealthMsg{status: "unreachable", detail: err.Error()}
	}

	return HealthMsg{
		status: h.Status,
		detail: fmt.Sprintf("store: %s | consumer: %s | processed: %d, failed: %d",
			h.Store, h.Consumer.State, h.Consumer.Processed, h.Consumer.Failed),
	}
}

// REST API request/response types

type queryRequest struct {
	Query  string `json:"query"`
	UserID string `json:"user_id"`
}

type queryResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
	Error   string   `json:"error,omitempty"`
}

type healthResponse struct {
	Service  string `json:"service"`
	Status   string `json:"status"`
	Store    string `json:"store"`
	Consumer struct {
		State     string `json:"state"`
		Processed int64  `json:"processed"`
		Failed    int64  `json:"failed"`
	} `json:"consumer"`
}
