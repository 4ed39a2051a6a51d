package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Adityahash12/agent-api-adapter/internal/adapter"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
	Kind    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (HTTP %d): %s", e.Kind, e.Status, e.Message)
}

// Client calls a running adapter server.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient returns a client for baseURL with a 30 second timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Generate calls POST /generate.
func (c *Client) Generate(ctx context.Context, req adapter.GenerateRequest) (adapter.GenerateResponse, error) {
	var resp adapter.GenerateResponse

	path := "/generate"
	if req.Explain {
		path += "?explain=true"
	}

	err := c.post(ctx, path, req, &resp)

	return resp, err
}

// Transform calls POST /transform.
func (c *Client) Transform(ctx context.Context, req adapter.TransformRequest) (adapter.TransformResponse, error) {
	var resp adapter.TransformResponse
	err := c.post(ctx, "/transform", req, &resp)

	return resp, err
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}

	httpResp, err := hc.Do(httpReq)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if httpResp.StatusCode/100 != 2 {
		apiErr := &APIError{Status: httpResp.StatusCode}

		var er ErrorResponse
		if json.Unmarshal(data, &er) == nil && er.Error != "" {
			apiErr.Message, apiErr.Kind = er.Error, er.Kind
		} else {
			apiErr.Message, apiErr.Kind = strings.TrimSpace(string(data)), "Internal"
		}

		return apiErr
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
