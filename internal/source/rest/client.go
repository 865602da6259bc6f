// Package rest implements the HTTP API source adapter. The upstream
// endpoint over-returns: it serves whole collections, so the engine
// post-filters its records.
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	maxAttempts  = 3
	baseBackoff  = 500 * time.Millisecond
	apiKeyHeader = "x-api-key"
)

// User is the wire shape of one upstream entity. Unknown JSON keys are
// ignored.
type User struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Region     string `json:"region"`
	SignupDate string `json:"signup_date"`
}

// Client fetches user collections from the upstream API. Responses are
// cached per path for a short TTL so repeated queries within one
// session do not refetch.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	cache   *ttlCache
}

// NewClient builds a client for the API at baseURL. cacheTTL of zero
// disables caching.
func NewClient(baseURL, apiKey string, cacheTTL time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
		cache:   newTTLCache(cacheTTL),
	}
}

// FetchUsers retrieves the collection at path (e.g. "/users"), retrying
// transient failures with exponential backoff.
func (c *Client) FetchUsers(ctx context.Context, path string) ([]User, error) {
	if cached, ok := c.cache.get(path); ok {
		return cached, nil
	}

	u, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return nil, fmt.Errorf("build url for %q: %w", path, err)
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := baseBackoff << (attempt - 1)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		users, retryable, err := c.fetchOnce(ctx, u)
		if err == nil {
			c.cache.put(path, users)
			return users, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return nil, fmt.Errorf("fetch %s: %w", path, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, u string) (users []User, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= 500:
		io.Copy(io.Discard, resp.Body)
		return nil, true, fmt.Errorf("upstream status %d", resp.StatusCode)
	default:
		// 4xx is not transient: the key or the path is wrong.
		io.Copy(io.Discard, resp.Body)
		return nil, false, fmt.Errorf("upstream status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return nil, false, fmt.Errorf("decode response: %w", err)
	}
	return users, false, nil
}
