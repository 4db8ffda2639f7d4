package openpanel

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/joshuawatkins04/openpanel-go/internal/transport"
	"github.com/joshuawatkins04/openpanel-go/internal/validation"
)

// Export endpoints, relative to Config.ExportURL.
const (
	EndpointEvents = "events"
	EndpointCharts = "charts"
)

// Exporter reads data from the OpenPanel export API for one project.
type Exporter struct {
	transport *transport.Transport
	baseURL   string
	projectID string
	headers   map[string]string
	logger    Logger
}

// NewExporter creates an Exporter from cfg. ProjectID, both credentials and
// ExportURL are required.
func NewExporter(cfg *Config, opts ...Option) (*Exporter, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	config, err := newClientConfig(*cfg, opts)
	if err != nil {
		return nil, fmt.Errorf("invalid option: %w", err)
	}

	if err := validation.ValidateProjectID(cfg.ProjectID); err != nil {
		return nil, err
	}
	if err := validation.ValidateCredentials(cfg.ClientID, cfg.ClientSecret); err != nil {
		return nil, err
	}
	if err := validation.ValidateURL("exportUrl", cfg.ExportURL); err != nil {
		return nil, err
	}

	return &Exporter{
		transport: &transport.Transport{
			HTTPClient: config.httpClient,
			UserAgent:  userAgent(config.userAgent),
		},
		baseURL:   strings.TrimSuffix(cfg.ExportURL, "/"),
		projectID: cfg.ProjectID,
		headers: map[string]string{
			HeaderClientID:     cfg.ClientID,
			HeaderClientSecret: cfg.ClientSecret,
		},
		logger: config.logger,
	}, nil
}

// ProjectID returns the project every request is scoped to.
func (e *Exporter) ProjectID() string {
	return e.projectID
}

// Events exports raw events of the project between startDate and endDate
// matching filter. Empty dates fall back to filter.Start and filter.End;
// filter may be nil.
func (e *Exporter) Events(ctx context.Context, startDate, endDate string, filter *Query) (*Response, error) {
	return e.get(ctx, EndpointEvents, startDate, endDate, filter)
}

// Charts exports aggregated chart data of the project, with the same
// parameters as Events.
func (e *Exporter) Charts(ctx context.Context, startDate, endDate string, filter *Query) (*Response, error) {
	return e.get(ctx, EndpointCharts, startDate, endDate, filter)
}

func (e *Exporter) get(ctx context.Context, endpoint, startDate, endDate string, filter *Query) (*Response, error) {
	if filter != nil && filter.Range != "" && !filter.Range.Valid() {
		err := fmt.Errorf("range: unknown date range %q", filter.Range)
		return nil, &ExportError{Kind: KindInvalid, Message: err.Error(), Err: err}
	}

	query := filter.Values()
	query.Set("projectId", e.projectID)
	if startDate != "" {
		query.Set("start", startDate)
	}
	if endDate != "" {
		query.Set("end", endDate)
	}

	resp, err := e.transport.Do(ctx, transport.Request{
		Method:  http.MethodGet,
		URL:     e.baseURL + "/" + endpoint,
		Query:   query,
		Headers: e.headers,
	})
	if err != nil {
		e.logger.Error("openpanel export request failed", "endpoint", endpoint, "error", err)
		return nil, &ExportError{Kind: KindTransport, Message: err.Error(), Err: err}
	}

	if class, ok := exportStatuses[resp.StatusCode]; ok {
		e.logger.Error("openpanel export request rejected",
			"endpoint", endpoint, "status", resp.StatusCode, "request_id", resp.RequestID)
		return nil, &ExportError{
			Kind:       class.kind,
			StatusCode: resp.StatusCode,
			Message:    class.message,
			RequestID:  resp.RequestID,
		}
	}

	e.logger.Debug("openpanel export request sent",
		"endpoint", endpoint, "status", resp.StatusCode, "request_id", resp.RequestID)
	return newResponse(resp), nil
}
