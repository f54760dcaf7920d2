package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/dlserver/internal/domain"
)

// Client implements domain.CatalogClient against the dlserver HTTP API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new catalog API client. A zero timeout leaves requests
// bounded only by their context.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// doRequest performs a GET against the API and returns the body of a 2xx response.
// No retries: a failed request is reported once and the caller decides.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if query != nil {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("catalog request", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", domain.ErrUnexpectedStatus, resp.StatusCode)
	}

	return body, nil
}

// Search returns per-library results for title. A body that is not a JSON
// array of results decodes to zero results rather than an error.
func (c *Client) Search(ctx context.Context, title, libraryName string) ([]domain.LibraryResult, error) {
	query := url.Values{}
	query.Set("title", title)
	query.Set("libraryName", libraryName)

	body, err := c.doRequest(ctx, "/search", query)
	if err != nil {
		return nil, err
	}

	results, err := decodeSearchResponse(body)
	if err != nil {
		c.logger.Warn("malformed search response", "error", err, "title", title, "library", libraryName)
		return nil, nil
	}
	return results, nil
}

// LibraryNames returns the library names exposed by /libraryList
func (c *Client) LibraryNames(ctx context.Context) ([]string, error) {
	body, err := c.doRequest(ctx, "/libraryList", nil)
	if err != nil {
		return nil, err
	}

	names, err := decodeLibraryList(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse library list: %w", err)
	}
	return names, nil
}
