package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxKeyResponseBytes = 64 << 10

// ErrUpstreamUnavailable means the identity authority could not supply a signing key.
var ErrUpstreamUnavailable = errors.New("identity authority unavailable")

// KeyFetcher returns the PEM-encoded key used to verify identity tokens.
type KeyFetcher interface {
	FetchPublicKey(ctx context.Context) (string, error)
}

// HTTPKeyFetcher asks the identity authority for its public key on every call.
type HTTPKeyFetcher struct {
	url    string
	client *http.Client
}

type publicKeyResponse struct {
	PublicKey string `json:"public_key"`
}

// NewHTTPKeyFetcher constructs a fetcher for url. A non-positive timeout defaults to 5s.
func NewHTTPKeyFetcher(url string, timeout time.Duration) *HTTPKeyFetcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPKeyFetcher{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// FetchPublicKey performs GET <url>. All failures wrap ErrUpstreamUnavailable.
func (f *HTTPKeyFetcher) FetchPublicKey(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxKeyResponseBytes))
		return "", fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var body publicKeyResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxKeyResponseBytes)).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUpstreamUnavailable, err)
	}
	if strings.TrimSpace(body.PublicKey) == "" {
		return "", fmt.Errorf("%w: response has no public_key", ErrUpstreamUnavailable)
	}
	return body.PublicKey, nil
}

var _ KeyFetcher = (*HTTPKeyFetcher)(nil)
