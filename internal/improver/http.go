package improver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"
)

const maxResponseBytes = 4 << 20

// HTTPConfig configures HTTPClient. Client credentials are optional; when ClientID is
// empty requests are sent unauthenticated.
type HTTPConfig struct {
	URL          string
	Timeout      time.Duration
	ClientID     string
	ClientSecret string
	TokenURL     string
}

// HTTPClient calls a remote improvement service: POST {"text"} -> {"improved_text"}.
type HTTPClient struct {
	endpoint   string
	httpClient *http.Client
}

type improveRequest struct {
	Text string `json:"text"`
}

type improveResponse struct {
	ImprovedText *string `json:"improved_text"`
}

// NewHTTPClient constructs an HTTPClient.
func NewHTTPClient(ctx context.Context, cfg HTTPConfig) (*HTTPClient, error) {
	endpoint := strings.TrimSpace(cfg.URL)
	if endpoint == "" {
		return nil, fmt.Errorf("IMPROVER_URL is required for the http improver")
	}

	httpClient := &http.Client{}
	if cfg.ClientID != "" {
		if strings.TrimSpace(cfg.TokenURL) == "" {
			return nil, fmt.Errorf("IMPROVER_TOKEN_URL is required with IMPROVER_CLIENT_ID")
		}
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		httpClient = cc.Client(ctx)
	}
	httpClient.Timeout = cfg.Timeout

	return &HTTPClient{endpoint: endpoint, httpClient: httpClient}, nil
}

// Improve sends text to the remote service. Transport failures, non-2xx answers and
// malformed bodies all wrap ErrUnavailable.
func (c *HTTPClient) Improve(ctx context.Context, text string) (string, error) {
	payload, err := json.Marshal(improveRequest{Text: text})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var parsed improveResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: parse response: %v", ErrUnavailable, err)
	}
	if parsed.ImprovedText == nil {
		return "", fmt.Errorf("%w: response missing improved_text", ErrUnavailable)
	}
	return *parsed.ImprovedText, nil
}

var _ Client = (*HTTPClient)(nil)
