package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	// maxArtifactSize defines the maximum allowed artifact size (100MB)
	maxArtifactSize = 100 * 1024 * 1024
	// defaultTimeout for HTTP requests
	defaultTimeout = 30 * time.Second
	// defaultUserAgent for HTTP requests
	defaultUserAgent = "beanlens/1.0 (+https://github.com/beanlens/beanlens)"
	// retryAttempts per URL before giving up
	retryAttempts = 3
)

// fetch downloads urlStr with retry logic. A 404 is permanent; transient
// failures are retried with exponential backoff.
func (m *Manager) fetch(ctx context.Context, urlStr string) ([]byte, error) {
	operation := func() ([]byte, error) {
		return m.download(ctx, urlStr)
	}

	data, err := backoff.Retry(ctx, operation,
		backoff.WithMaxTries(retryAttempts),
		backoff.WithMaxElapsedTime(defaultTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s after retries: %w", urlStr, err)
	}
	return data, nil
}

// download performs a single download attempt
func (m *Manager) download(ctx context.Context, urlStr string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// Retrying a missing artifact will not make it appear
		return nil, backoff.Permanent(fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	if resp.ContentLength > 0 && resp.ContentLength > maxArtifactSize {
		return nil, backoff.Permanent(fmt.Errorf("artifact size (%d bytes) exceeds maximum limit (%d bytes)", resp.ContentLength, int64(maxArtifactSize)))
	}

	limitedReader := io.LimitReader(resp.Body, maxArtifactSize+1)
	data, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(data) > maxArtifactSize {
		return nil, backoff.Permanent(fmt.Errorf("artifact size exceeds maximum limit (%d bytes)", int64(maxArtifactSize)))
	}

	return data, nil
}
