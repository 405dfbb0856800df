package factory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client represents a pizza factory API client
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new factory client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Create HTTP client with reasonable timeout
	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
	}, nil
}

// GetConfig returns the client configuration
func (c *Client) GetConfig() Config {
	return c.config
}

// Fulfill submits an order for fulfillment. One attempt, no retry: the
// caller decides what to do with a failure.
func (c *Client) Fulfill(ctx context.Context, req FulfillRequest) (*FulfillResponse, error) {
	resp, err := c.doRequest(ctx, "api/order", req)
	if err != nil {
		return nil, err
	}

	var fulfillResp FulfillResponse
	if err := json.Unmarshal(resp, &fulfillResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal fulfill response: %w", err)
	}

	return &fulfillResp, nil
}

// Verify asks the factory to validate a fulfillment token it issued
func (c *Client) Verify(ctx context.Context, jwt string) (*VerifyResponse, error) {
	resp, err := c.doRequest(ctx, "api/order/verify", VerifyRequest{JWT: jwt})
	if err != nil {
		return nil, err
	}

	var verifyResp VerifyResponse
	if err := json.Unmarshal(resp, &verifyResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal verify response: %w", err)
	}

	return &verifyResp, nil
}

// Ping probes factory availability
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: factory returned status %d", ErrFulfillmentFailed, resp.StatusCode)
	}
	return nil
}

// doRequest performs an HTTP request to the factory API
func (c *Client) doRequest(ctx context.Context, endpoint string, payload interface{}) ([]byte, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	url := fmt.Sprintf("%s/%s", c.config.BaseURL, endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		errResp := ErrorResponse{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(body, &errResp); err != nil {
			errResp.Message = fmt.Sprintf("unexpected status code: %d", resp.StatusCode)
		}
		return nil, &errResp
	}

	return body, nil
}
