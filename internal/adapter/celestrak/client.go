// Package celestrak fetches TLE group listings over HTTP.
package celestrak

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/orbit-catalog-etl/internal/observability"
)

// maxBodyBytes caps a single listing; the full active catalog is a few MiB.
const maxBodyBytes = 50 << 20

// ErrBodyTooLarge is returned when a listing exceeds maxBodyBytes.
var ErrBodyTooLarge = errors.New("celestrak response exceeds size limit")

// Client fetches TLE text from the CelesTrak GP endpoint.
// It implements pipeline.CatalogExtractor.
type Client struct {
	httpClient *http.Client
	baseURL    string
	group      string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a CelesTrak client for the given group.
func NewClient(baseURL, group string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		group:   group,
		metrics: metrics,
		logger:  logger,
	}
}

// Extract fetches the configured group.
func (c *Client) Extract(ctx context.Context) (string, error) {
	return c.FetchGroup(ctx, c.group)
}

// FetchGroup downloads one group listing in three-line TLE format.
func (c *Client) FetchGroup(ctx context.Context, group string) (string, error) {
	params := url.Values{
		"GROUP":  {group},
		"FORMAT": {"tle"},
	}
	fullURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch group %s: %w", group, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("celestrak error: status %d: %s", resp.StatusCode, body)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return "", fmt.Errorf("read group %s: %w", group, err)
	}
	if len(body) > maxBodyBytes {
		return "", ErrBodyTooLarge
	}

	c.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	c.logger.Debug("fetched tle group", "group", group, "bytes", len(body))
	return string(body), nil
}
