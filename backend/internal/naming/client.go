package naming

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "castgraph/backend/pkg/errors"
	"castgraph/backend/pkg/logger"
)

// GeneratePath is the naming endpoint, relative to the server root.
const GeneratePath = "/api/name/generate"

// Client is a Suggester that calls a remote /api/name/generate endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.Named("naming.client"),
	}
}

// Suggest posts the request and returns the reply body as the suggestion.
func (c *Client) Suggest(ctx context.Context, req Request) (string, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + GeneratePath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", apperrors.NewNamingRequestFailed(0, 1, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Naming API error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("url", url),
			zap.String("response_body", string(body)),
		)
		return "", apperrors.NewNamingRequestFailed(resp.StatusCode, 1, fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
	}

	if len(body) == 0 {
		return "", apperrors.NewNamingRequestFailed(resp.StatusCode, 1, fmt.Errorf("empty response"))
	}

	return string(body), nil
}
