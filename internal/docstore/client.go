// Package docstore talks to a Firebase-style hierarchical document store
// over its REST surface and adapts it to the series persistence contract.
package docstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"statsync/internal/contract"
)

// Characters the store treats as path structure; segments containing them
// must be escaped before joining.
var reservedPathChars = regexp.MustCompile(`[.$#\[\]/\\]`)

// EscapeSegment rewrites reserved path characters so the segment is safe
// to embed in a document path.
func EscapeSegment(segment string) string {
	return reservedPathChars.ReplaceAllString(segment, "_")
}

// Client is a minimal REST client for the document store. Paths are slash
// separated and rooted at the database URL.
type Client struct {
	baseURL    string
	authSecret string
	httpClient *http.Client
}

// NewClient builds a store client. authSecret may be empty for databases
// with open rules.
func NewClient(baseURL, authSecret string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		authSecret: authSecret,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) endpoint(path string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	if c.authSecret != "" {
		query.Set("auth", c.authSecret)
	}
	u := c.baseURL + "/" + strings.Trim(path, "/") + ".json"
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// Get reads the subtree at path into out. Absent nodes decode as JSON null
// and leave out untouched; callers detect absence with a pointer target.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, nil), nil)
	if err != nil {
		return &contract.StoreError{Path: path, Op: "get", Err: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &contract.StoreError{Path: path, Op: "get", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &contract.StoreError{Path: path, Op: "get", Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &contract.StoreError{Path: path, Op: "get", Err: err}
	}
	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &contract.StoreError{Path: path, Op: "get", Err: err}
	}
	return nil
}

// Set replaces the entire subtree at path with value. Partial-field updates
// are the caller's job via read-merge-write.
func (c *Client) Set(ctx context.Context, path string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return &contract.StoreError{Path: path, Op: "set", Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.endpoint(path, nil), bytes.NewReader(payload))
	if err != nil {
		return &contract.StoreError{Path: path, Op: "set", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &contract.StoreError{Path: path, Op: "set", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &contract.StoreError{Path: path, Op: "set", Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	return nil
}

// ShallowKeys lists the child keys under path without pulling the subtree.
func (c *Client) ShallowKeys(ctx context.Context, path string) ([]string, error) {
	query := url.Values{"shallow": {"true"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, query), nil)
	if err != nil {
		return nil, &contract.StoreError{Path: path, Op: "shallow", Err: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &contract.StoreError{Path: path, Op: "shallow", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &contract.StoreError{Path: path, Op: "shallow", Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &contract.StoreError{Path: path, Op: "shallow", Err: err}
	}
	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return nil, nil
	}
	var children map[string]any
	if err := json.Unmarshal(body, &children); err != nil {
		return nil, &contract.StoreError{Path: path, Op: "shallow", Err: err}
	}
	keys := make([]string, 0, len(children))
	for k := range children {
		keys = append(keys, k)
	}
	return keys, nil
}
