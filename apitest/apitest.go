// Package apitest provides test helpers for routers built with binder.
package apitest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bjaus/binder"
)

// Client wraps an httptest.Server for convenient API testing.
type Client struct {
	Server *httptest.Server
}

// NewClient creates a test client from a router.
func NewClient(t testing.TB, r *binder.Router) *Client {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &Client{Server: srv}
}

// Response holds a raw API response and, for failures, the decoded problem.
type Response struct {
	Status  int
	Headers http.Header
	Body    []byte
	// Problem is set when the response carries a JSON problem document.
	Problem *binder.ProblemDetail
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(t testing.TB, v any) {
	t.Helper()
	if err := json.Unmarshal(r.Body, v); err != nil {
		t.Fatalf("apitest: decode body %q: %v", r.Body, err)
	}
}

// Get sends a GET request.
func Get(t testing.TB, c *Client, path string) *Response {
	t.Helper()
	return Do(t, c, http.MethodGet, path, "")
}

// Post sends a POST request with a JSON body.
func Post(t testing.TB, c *Client, path, body string) *Response {
	t.Helper()
	return Do(t, c, http.MethodPost, path, body)
}

// Put sends a PUT request with a JSON body.
func Put(t testing.TB, c *Client, path, body string) *Response {
	t.Helper()
	return Do(t, c, http.MethodPut, path, body)
}

// Delete sends a DELETE request.
func Delete(t testing.TB, c *Client, path string) *Response {
	t.Helper()
	return Do(t, c, http.MethodDelete, path, "")
}

// Do sends a request with an optional raw JSON body.
func Do(t testing.TB, c *Client, method, path, body string) *Response {
	t.Helper()

	var reqBody io.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, c.Server.URL+path, reqBody)
	if err != nil {
		t.Fatalf("apitest: create request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("apitest: execute request: %v", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			t.Errorf("apitest: close body: %v", closeErr)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("apitest: read body: %v", err)
	}

	result := &Response{
		Status:  resp.StatusCode,
		Headers: resp.Header,
		Body:    raw,
	}

	if resp.Header.Get("Content-Type") == "application/problem+json" {
		var pd binder.ProblemDetail
		if decErr := json.Unmarshal(raw, &pd); decErr == nil {
			result.Problem = &pd
		}
	}

	return result
}
