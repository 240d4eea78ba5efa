package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Config holds the configuration for connecting to the WalletGate service.
type Config struct {
	APIURL string // Base URL, e.g. "http://localhost:8080"
}

// GateClient is a pure HTTP client for the WalletGate API.
type GateClient struct {
	cfg        Config
	httpClient *http.Client
}

// NewGateClient creates a new client for the WalletGate service.
func NewGateClient(cfg Config) *GateClient {
	return &GateClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// apiError represents an error response from the service.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// doRequest makes an HTTP request to the service and returns the response body.
func (c *GateClient) doRequest(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	u, err := url.Parse(c.cfg.APIURL + path)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, apiErr.Message)
		}
		return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, string(respBody))
	}

	return json.RawMessage(respBody), nil
}

// signingRequest is the wire form shared by classify and submit.
type signingRequest struct {
	Kind              string `json:"kind"`
	Destination       string `json:"destination,omitempty"`
	Calldata          string `json:"calldata,omitempty"`
	Value             string `json:"value,omitempty"`
	Message           string `json:"message,omitempty"`
	ApprovalUnlimited bool   `json:"approvalUnlimited,omitempty"`
}

// Connect asks the gate to connect to the wallet provider.
func (c *GateClient) Connect(ctx context.Context) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodPost, "/v1/connect", nil, nil)
}

// Classify runs the classifier without touching the gate.
func (c *GateClient) Classify(ctx context.Context, req signingRequest) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodPost, "/v1/classify", nil, req)
}

// Submit parks a request in the pending slot.
func (c *GateClient) Submit(ctx context.Context, req signingRequest) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodPost, "/v1/requests", nil, req)
}

// GetState returns the gate state including any pending approval.
func (c *GateClient) GetState(ctx context.Context) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodGet, "/v1/state", nil, nil)
}

// Confirm approves the pending request.
func (c *GateClient) Confirm(ctx context.Context) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodPost, "/v1/pending/confirm", nil, nil)
}

// Reject discards the pending request.
func (c *GateClient) Reject(ctx context.Context) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodPost, "/v1/pending/reject", nil, nil)
}

// GetLog returns recent gate outcomes, most recent first.
func (c *GateClient) GetLog(ctx context.Context, limit int) (json.RawMessage, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return c.doRequest(ctx, http.MethodGet, "/v1/log", q, nil)
}
