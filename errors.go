package openpanel

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a TrackingError or ExportError.
type Kind string

// Error kinds.
const (
	KindBadRequest   Kind = "bad_request"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindRateLimited  Kind = "rate_limited"
	KindServerError  Kind = "server_error"
	KindTransport    Kind = "transport"
	KindInvalid      Kind = "invalid"
)

// Sentinel errors for common conditions. Both TrackingError and ExportError
// match them through errors.Is.
var (
	// ErrBadRequest indicates the API rejected the request parameters.
	ErrBadRequest = errors.New("openpanel: bad request")

	// ErrUnauthorized indicates invalid or missing client credentials.
	ErrUnauthorized = errors.New("openpanel: unauthorized")

	// ErrForbidden indicates the credentials lack access to the project.
	ErrForbidden = errors.New("openpanel: forbidden")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("openpanel: not found")

	// ErrRateLimited indicates the request was rate limited.
	ErrRateLimited = errors.New("openpanel: rate limited")

	// ErrServerError indicates the API failed internally.
	ErrServerError = errors.New("openpanel: internal server error")

	// ErrTransport indicates the request never produced an HTTP response.
	ErrTransport = errors.New("openpanel: transport failure")

	// ErrInvalid indicates a client-side validation failure; nothing was sent.
	ErrInvalid = errors.New("openpanel: invalid request")
)

var kindSentinels = map[Kind]error{
	KindBadRequest:   ErrBadRequest,
	KindUnauthorized: ErrUnauthorized,
	KindForbidden:    ErrForbidden,
	KindNotFound:     ErrNotFound,
	KindRateLimited:  ErrRateLimited,
	KindServerError:  ErrServerError,
	KindTransport:    ErrTransport,
	KindInvalid:      ErrInvalid,
}

// statusClass is the fixed status table of one component.
type statusClass struct {
	kind    Kind
	message string
}

// trackingStatuses are the statuses the tracking endpoint turns into errors.
var trackingStatuses = map[int]statusClass{
	http.StatusUnauthorized:        {KindUnauthorized, "Unauthorized"},
	http.StatusTooManyRequests:     {KindRateLimited, "Too many requests"},
	http.StatusInternalServerError: {KindServerError, "Internal server error"},
}

// exportStatuses are the statuses the export endpoints turn into errors.
var exportStatuses = map[int]statusClass{
	http.StatusBadRequest:          {KindBadRequest, "Bad request"},
	http.StatusUnauthorized:        {KindUnauthorized, "Unauthorized"},
	http.StatusForbidden:           {KindForbidden, "Forbidden"},
	http.StatusNotFound:            {KindNotFound, "Not found"},
	http.StatusTooManyRequests:     {KindRateLimited, "Too many requests"},
	http.StatusInternalServerError: {KindServerError, "Internal server error"},
}

// TrackingError is returned by every Tracker operation that fails.
type TrackingError struct {
	// Kind classifies the failure.
	Kind Kind
	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int
	// Message is the human-readable message ("Unauthorized", "Too many requests", ...).
	// For transport failures it is the underlying error text.
	Message string
	// RequestID identifies the request for support, when known.
	RequestID string
	// Err is the underlying cause for transport and validation failures.
	Err error
}

func (e *TrackingError) Error() string {
	return formatError("tracking", e.Message, e.StatusCode, e.RequestID)
}

func (e *TrackingError) Unwrap() error { return e.Err }

// Is implements errors.Is support for sentinel errors.
func (e *TrackingError) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// ExportError is returned by every Exporter operation that fails.
type ExportError struct {
	// Kind classifies the failure.
	Kind Kind
	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int
	// Message is the human-readable message ("Bad request", "Forbidden", ...).
	// For transport failures it is the underlying error text.
	Message string
	// RequestID identifies the request for support, when known.
	RequestID string
	// Err is the underlying cause for transport and validation failures.
	Err error
}

func (e *ExportError) Error() string {
	return formatError("export", e.Message, e.StatusCode, e.RequestID)
}

func (e *ExportError) Unwrap() error { return e.Err }

// Is implements errors.Is support for sentinel errors.
func (e *ExportError) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

func formatError(component, message string, status int, requestID string) string {
	switch {
	case status != 0 && requestID != "":
		return fmt.Sprintf("openpanel: %s: %s (status=%d, request_id=%s)", component, message, status, requestID)
	case status != 0:
		return fmt.Sprintf("openpanel: %s: %s (status=%d)", component, message, status)
	default:
		return fmt.Sprintf("openpanel: %s: %s", component, message)
	}
}

// IsUnauthorized reports whether the error is an authorization error.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsRateLimited reports whether the error indicates rate limiting.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsTransportError reports whether the request failed before a response arrived.
func IsTransportError(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsValidationError reports whether the error is a client-side validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalid)
}
