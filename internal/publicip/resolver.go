// Package publicip looks up the address the outside world sees for this host.
package publicip

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxBodySize caps how much of the echo service response is read.
const maxBodySize = 1024

var (
	ErrEmptyResponse    = errors.New("ip service returned an empty body")
	ErrResponseTooLarge = errors.New("ip service response exceeds 1 KiB")
)

// Resolver asks a plain-text "what is my IP" service for the caller's address.
type Resolver struct {
	ServiceURL string
	HTTPClient *http.Client
	Timeout    time.Duration
}

func New(serviceURL string, timeout time.Duration) *Resolver {
	return &Resolver{ServiceURL: serviceURL, Timeout: timeout}
}

// Resolve performs a single GET and returns the whole response body,
// trimmed of surrounding whitespace, as the address.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.ServiceURL, nil)
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")

	client := r.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("http request returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return "", fmt.Errorf("error reading response body: %w", err)
	}
	if len(body) > maxBodySize {
		return "", ErrResponseTooLarge
	}

	addr := strings.TrimSpace(string(body))
	if addr == "" {
		return "", ErrEmptyResponse
	}
	return addr, nil
}
