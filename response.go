package openpanel

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/joshuawatkins04/openpanel-go/internal/transport"
)

// Response is the raw API response of a request that was not classified as
// an error.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Body is the full response body.
	Body []byte
	// Header holds the response headers.
	Header http.Header
	// RequestID is the X-Request-ID of the exchange.
	RequestID string
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func newResponse(resp *transport.Response) *Response {
	return &Response{
		StatusCode: resp.StatusCode,
		Body:       resp.Body,
		Header:     resp.Headers,
		RequestID:  resp.RequestID,
	}
}
