// Package openpaneltest provides an in-process fake of the OpenPanel tracking
// and export API for tests and local examples.
//
//	srv := openpaneltest.NewServer(openpaneltest.WithCredentials("id", "secret"))
//	defer srv.Close()
//
//	cfg := &openpanel.Config{
//	    TrackURL:     srv.TrackURL(),
//	    ExportURL:    srv.ExportURL(),
//	    ClientID:     "id",
//	    ClientSecret: "secret",
//	    ProjectID:    "proj",
//	}
package openpaneltest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	headerClientID     = "openpanel-client-id"
	headerClientSecret = "openpanel-client-secret"
	headerRequestID    = "X-Request-ID"
)

// Request is a request received by the fake server.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// DecodeBody unmarshals the JSON request body into v.
func (r Request) DecodeBody(v any) error {
	return json.Unmarshal(r.Body, v)
}

// StoredEvent is a tracked event as returned by the fake export endpoint.
type StoredEvent struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	ProfileID  string         `json:"profileId,omitempty"`
	Properties map[string]any `json:"properties"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// Server is a fake OpenPanel API listening on a local port.
type Server struct {
	// URL is the base URL of the server, e.g. http://127.0.0.1:12345.
	URL string

	server       *httptest.Server
	clientID     string
	clientSecret string

	mu       sync.Mutex
	requests []Request
	events   []StoredEvent
	statuses map[string]int
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithCredentials makes the server answer 401 to requests that do not carry
// exactly these client credentials.
func WithCredentials(clientID, clientSecret string) ServerOption {
	return func(s *Server) {
		s.clientID = clientID
		s.clientSecret = clientSecret
	}
}

// NewServer starts a fake server. Callers must Close it.
func NewServer(opts ...ServerOption) *Server {
	s := &Server{statuses: map[string]int{}}
	for _, opt := range opts {
		opt(s)
	}

	r := gin.New()
	r.Use(s.record, s.forcedStatus, s.authenticate)
	r.POST("/track", s.handleTrack)
	export := r.Group("/export")
	export.Use(requireProject)
	export.GET("/events", s.handleEvents)
	export.GET("/charts", s.handleCharts)

	s.server = httptest.NewServer(r)
	s.URL = s.server.URL
	return s
}

// Close shuts the server down.
func (s *Server) Close() {
	s.server.Close()
}

// TrackURL returns the URL of the tracking endpoint.
func (s *Server) TrackURL() string {
	return s.URL + "/track"
}

// ExportURL returns the base URL of the export endpoints.
func (s *Server) ExportURL() string {
	return s.URL + "/export"
}

// RespondWith makes every later request to path answer with status.
// A status of 0 restores normal handling.
func (s *Server) RespondWith(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.statuses, path)
		return
	}
	s.statuses[path] = status
}

// Requests returns every request received so far, in arrival order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request, if any.
func (s *Server) LastRequest() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// Events returns the events accepted by the tracking endpoint.
func (s *Server) Events() []StoredEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StoredEvent, len(s.events))
	copy(out, s.events)
	return out
}

// Reset forgets recorded requests, events and forced statuses.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
	s.events = nil
	s.statuses = map[string]int{}
}

func (s *Server) record(c *gin.Context) {
	var body []byte
	if c.Request.Body != nil {
		body, _ = io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
	}

	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Query:  c.Request.URL.Query(),
		Header: c.Request.Header.Clone(),
		Body:   body,
	})
	s.mu.Unlock()

	if id := c.GetHeader(headerRequestID); id != "" {
		c.Header(headerRequestID, id)
	}
	c.Next()
}

func (s *Server) forcedStatus(c *gin.Context) {
	s.mu.Lock()
	status, ok := s.statuses[c.Request.URL.Path]
	s.mu.Unlock()

	if ok {
		c.AbortWithStatusJSON(status, gin.H{"error": http.StatusText(status)})
		return
	}
	c.Next()
}

func (s *Server) authenticate(c *gin.Context) {
	if s.clientID == "" {
		c.Next()
		return
	}
	if c.GetHeader(headerClientID) != s.clientID || c.GetHeader(headerClientSecret) != s.clientSecret {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Next()
}

func requireProject(c *gin.Context) {
	if c.Query("projectId") == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "projectId required"})
		return
	}
	c.Next()
}

// trackRequest is the body accepted by POST /track.
type trackRequest struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type trackBody struct {
	Name       string         `json:"name"`
	Properties map[string]any `json:"properties"`
}

func (s *Server) handleTrack(c *gin.Context) {
	var req trackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}
	if req.Type == "" || len(req.Payload) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type and payload required"})
		return
	}

	id := uuid.NewString()

	if req.Type == "track" {
		var body trackBody
		if err := json.Unmarshal(req.Payload, &body); err != nil || body.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
			return
		}
		profileID, _ := body.Properties["profileId"].(string)

		s.mu.Lock()
		s.events = append(s.events, StoredEvent{
			ID:         id,
			Name:       body.Name,
			ProfileID:  profileID,
			Properties: body.Properties,
			CreatedAt:  time.Now().UTC(),
		})
		s.mu.Unlock()
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (s *Server) matchingEvents(c *gin.Context) []StoredEvent {
	name := c.Query("event")
	profileID := c.Query("profileId")

	s.mu.Lock()
	defer s.mu.Unlock()

	out := []StoredEvent{}
	for _, e := range s.events {
		if name != "" && e.Name != name {
			continue
		}
		if profileID != "" && e.ProfileID != profileID {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (s *Server) handleEvents(c *gin.Context) {
	events := s.matchingEvents(c)
	c.JSON(http.StatusOK, gin.H{
		"meta": gin.H{"count": len(events)},
		"data": events,
	})
}

func (s *Server) handleCharts(c *gin.Context) {
	counts := map[string]int{}
	var order []string
	for _, e := range s.matchingEvents(c) {
		if _, seen := counts[e.Name]; !seen {
			order = append(order, e.Name)
		}
		counts[e.Name]++
	}

	series := make([]gin.H, 0, len(order))
	for _, name := range order {
		series = append(series, gin.H{"name": name, "count": counts[name]})
	}
	c.JSON(http.StatusOK, gin.H{"series": series})
}
