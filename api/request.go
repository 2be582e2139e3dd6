package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// APIError represents a response whose body could not be decoded as JSON.
// Application-level failures (a well-formed body with ok:false) are not
// errors; they are returned to the caller as data.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("stockfighter api error %d: %s", e.StatusCode, e.Message)
}

// do performs an HTTP request against a fully-qualified URL and decodes the
// response body into result.
func (c *Client) do(ctx context.Context, method, url string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Starfighter-Authorization", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	// The venue reports failed operations inside a well-formed body, often
	// with a non-2xx status. Decode regardless of status and let the caller
	// inspect ok/error; only an undecodable body is a transport error.
	if err := json.Unmarshal(data, result); err != nil {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       data,
		}
	}

	return nil
}

// get performs a GET against the order-book API.
func (c *Client) get(ctx context.Context, path string, result any) error {
	return c.do(ctx, http.MethodGet, c.baseURL+"/"+path, nil, result)
}

// post performs a POST against the order-book API.
func (c *Client) post(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPost, c.baseURL+"/"+path, body, result)
}

// del performs a DELETE against the order-book API.
func (c *Client) del(ctx context.Context, path string, result any) error {
	return c.do(ctx, http.MethodDelete, c.baseURL+"/"+path, nil, result)
}
