package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const listPath = "/api/get_server_list"

const maxErrorBody = 512

// FetchError reports a failed catalog fetch for one ordering.
type FetchError struct {
	Ordering Ordering
	Status   int
	Err      error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d: %v", e.Ordering.Wire(), e.Status, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Ordering.Wire(), e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client fetches server lists from a catalog over HTTP.
type Client struct {
	base *url.URL
	http *http.Client
}

// NewClient builds a client for baseURL. A zero timeout leaves the
// per-request deadline to the caller's context.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("catalog url is empty")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse catalog url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("catalog url %q must use http or https", baseURL)
	}
	return &Client{
		base: parsed,
		http: &http.Client{Timeout: timeout},
	}, nil
}

// URL returns the request URL used for ordering o.
func (c *Client) URL(o Ordering) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + listPath
	quoted, _ := json.Marshal(o.Wire())
	q := url.Values{}
	q.Set("ordering", string(quoted))
	u.RawQuery = q.Encode()
	return u.String()
}

// Fetch retrieves the entries for o. Any failure is returned as *FetchError.
func (c *Client) Fetch(ctx context.Context, o Ordering) ([]Entry, error) {
	if !o.Valid() {
		return nil, &FetchError{Ordering: o, Err: fmt.Errorf("invalid ordering %d", int(o))}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(o), nil)
	if err != nil {
		return nil, &FetchError{Ordering: o, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Ordering: o, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &FetchError{
			Ordering: o,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("unexpected response %q", strings.TrimSpace(string(body))),
		}
	}

	var entries []Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, &FetchError{Ordering: o, Status: resp.StatusCode, Err: fmt.Errorf("decode: %w", err)}
	}
	for i, entry := range entries {
		if err := entry.validate(); err != nil {
			return nil, &FetchError{Ordering: o, Status: resp.StatusCode, Err: fmt.Errorf("entry %d: %w", i, err)}
		}
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}
