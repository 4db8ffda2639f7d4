// Package transport provides HTTP transport utilities for the SDK.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

// RequestIDHeader is sent with every request and echoed back by the API.
const RequestIDHeader = "X-Request-ID"

// Request represents an HTTP request to be made.
type Request struct {
	Method  string
	URL     string
	Query   url.Values
	Body    any
	Headers map[string]string
}

// Response represents an HTTP response.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
	RequestID  string
}

// HTTPDoer is an interface for HTTP operations.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Transport handles HTTP communication with the API.
type Transport struct {
	HTTPClient HTTPDoer
	UserAgent  string
}

// Do executes an HTTP request and returns the response.
// Headers from req are applied after the transport defaults, so callers can
// override Content-Type, User-Agent or the request id.
func (t *Transport) Do(ctx context.Context, req Request) (*Response, error) {
	fullURL := req.URL
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	var bodyReader io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if t.UserAgent != "" {
		httpReq.Header.Set("User-Agent", t.UserAgent)
	}
	httpReq.Header.Set(RequestIDHeader, uuid.NewString())

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := t.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	requestID := resp.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = httpReq.Header.Get(RequestIDHeader)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
		Headers:    resp.Header,
		RequestID:  requestID,
	}, nil
}
