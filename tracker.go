package openpanel

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/http"

	"github.com/joshuawatkins04/openpanel-go/internal/transport"
	"github.com/joshuawatkins04/openpanel-go/internal/validation"
)

// Credential headers sent with every request.
const (
	HeaderClientID     = "openpanel-client-id"
	HeaderClientSecret = "openpanel-client-secret"
)

// Tracker sends events, identifications, property adjustments and revenue
// to the OpenPanel tracking endpoint.
type Tracker struct {
	transport        *transport.Transport
	url              string
	headers          map[string]string
	globalProperties map[string]any
	disabled         bool
	logger           Logger
}

// FilterFunc reports whether an event payload should be dropped before sending.
type FilterFunc func(payload map[string]any) bool

// TrackOption configures a single Track call.
type TrackOption func(*trackOptions)

type trackOptions struct {
	trackingType string
	filter       FilterFunc
}

// WithTrackingType overrides the wire-level type of a Track call.
// Default: "track"
func WithTrackingType(trackingType string) TrackOption {
	return func(o *trackOptions) {
		if trackingType != "" {
			o.trackingType = trackingType
		}
	}
}

// WithFilter drops the event, without sending it, when filter returns true.
func WithFilter(filter FilterFunc) TrackOption {
	return func(o *trackOptions) {
		o.filter = filter
	}
}

// NewTracker creates a Tracker from cfg. Credentials and the track URL are
// only required when the tracker is enabled.
func NewTracker(cfg *Config, opts ...Option) (*Tracker, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	config, err := newClientConfig(*cfg, opts)
	if err != nil {
		return nil, fmt.Errorf("invalid option: %w", err)
	}

	disabled := cfg.Disabled
	if config.disabled != nil {
		disabled = *config.disabled
	}

	if !disabled {
		if err := validation.ValidateCredentials(cfg.ClientID, cfg.ClientSecret); err != nil {
			return nil, err
		}
		if err := validation.ValidateURL("trackUrl", cfg.TrackURL); err != nil {
			return nil, err
		}
	}

	return &Tracker{
		transport: &transport.Transport{
			HTTPClient: config.httpClient,
			UserAgent:  userAgent(config.userAgent),
		},
		url: cfg.TrackURL,
		headers: map[string]string{
			"Content-Type":     "application/json",
			HeaderClientID:     cfg.ClientID,
			HeaderClientSecret: cfg.ClientSecret,
		},
		globalProperties: maps.Clone(config.globalProperties),
		disabled:         disabled,
		logger:           config.logger,
	}, nil
}

func userAgent(suffix string) string {
	ua := fmt.Sprintf("openpanel-go/%s", Version)
	if suffix != "" {
		ua = ua + " " + suffix
	}
	return ua
}

// SetHeader sets a header sent with every subsequent request.
func (t *Tracker) SetHeader(key, value string) {
	t.headers[key] = value
}

// Headers returns a copy of the headers sent with every request.
func (t *Tracker) Headers() map[string]string {
	return maps.Clone(t.headers)
}

// GlobalProperties returns a copy of the properties merged into every event.
func (t *Tracker) GlobalProperties() map[string]any {
	return maps.Clone(t.globalProperties)
}

// Disabled reports whether the tracker suppresses all network I/O.
func (t *Tracker) Disabled() bool {
	return t.disabled
}

// Track sends an event named name with the given properties. Global
// properties are merged in; keys in payload win on collision.
//
// It returns (nil, nil) when the tracker is disabled or a filter drops the
// event.
func (t *Tracker) Track(ctx context.Context, name string, payload map[string]any, opts ...TrackOption) (*Response, error) {
	if t.disabled {
		return nil, nil
	}

	o := trackOptions{trackingType: TrackingTypeTrack}
	for _, opt := range opts {
		opt(&o)
	}

	if o.filter != nil && o.filter(payload) {
		t.logger.Debug("openpanel event filtered", "name", name)
		return nil, nil
	}

	if err := validation.ValidateEventName(name); err != nil {
		return nil, invalidTracking(err)
	}

	return t.send(ctx, envelope{
		Type: o.trackingType,
		Payload: trackPayload{
			Name:       name,
			Properties: mergeProperties(t.globalProperties, payload),
		},
	})
}

// Identify creates or updates the profile of user. Global properties are
// merged under the user's properties.
func (t *Tracker) Identify(ctx context.Context, user IdentifyUser) (*Response, error) {
	if t.disabled {
		return nil, nil
	}

	if err := validation.ValidateProfileID(user.ProfileID); err != nil {
		return nil, invalidTracking(err)
	}

	t.logger.Debug("openpanel identify", "profile_id", user.ProfileID, "email", user.Email)

	return t.send(ctx, envelope{
		Type: TrackingTypeIdentify,
		Payload: identifyPayload{
			ProfileID:  user.ProfileID,
			FirstName:  user.FirstName,
			LastName:   user.LastName,
			Email:      user.Email,
			Properties: mergeProperties(t.globalProperties, user.Properties),
		},
	})
}

// IncrementProperty increments a numeric property on the user's profile.
// An empty property defaults to "visits" and a zero value to 1.
func (t *Tracker) IncrementProperty(ctx context.Context, user IdentifyUser, property string, value int) (*Response, error) {
	return t.adjustProperty(ctx, TrackingTypeIncrement, user, property, value)
}

// DecrementProperty decrements a numeric property on the user's profile.
// An empty property defaults to "visits" and a zero value to 1.
func (t *Tracker) DecrementProperty(ctx context.Context, user IdentifyUser, property string, value int) (*Response, error) {
	return t.adjustProperty(ctx, TrackingTypeDecrement, user, property, value)
}

func (t *Tracker) adjustProperty(ctx context.Context, trackingType string, user IdentifyUser, property string, value int) (*Response, error) {
	if t.disabled {
		return nil, nil
	}

	if property == "" {
		property = defaultIncrementProperty
	}
	if value == 0 {
		value = defaultIncrementValue
	}

	if err := validation.ValidateProfileID(user.ProfileID); err != nil {
		return nil, invalidTracking(err)
	}
	if err := validation.ValidateProperty(property); err != nil {
		return nil, invalidTracking(err)
	}

	return t.send(ctx, envelope{
		Type: trackingType,
		Payload: propertyPayload{
			ProfileID: user.ProfileID,
			Property:  property,
			Value:     value,
		},
	})
}

// Revenue tracks a "revenue" event for user. The event properties are the
// global properties, then profileId and revenue, then extra; later keys win.
func (t *Tracker) Revenue(ctx context.Context, user IdentifyUser, amount int64, extra map[string]any) (*Response, error) {
	if t.disabled {
		return nil, nil
	}

	base := map[string]any{
		"profileId": user.ProfileID,
		"revenue":   amount,
	}

	return t.send(ctx, envelope{
		Type: TrackingTypeTrack,
		Payload: trackPayload{
			Name:       revenueEventName,
			Properties: mergeProperties(t.globalProperties, base, extra),
		},
	})
}

// send posts body to the tracking endpoint and classifies the response.
func (t *Tracker) send(ctx context.Context, body envelope) (*Response, error) {
	resp, err := t.transport.Do(ctx, transport.Request{
		Method:  http.MethodPost,
		URL:     t.url,
		Body:    body,
		Headers: t.headers,
	})
	if err != nil {
		t.logger.Error("openpanel tracking request failed", "type", body.Type, "error", err)
		return nil, &TrackingError{Kind: KindTransport, Message: err.Error(), Err: err}
	}

	if class, ok := trackingStatuses[resp.StatusCode]; ok {
		t.logger.Error("openpanel tracking request rejected",
			"type", body.Type, "status", resp.StatusCode, "request_id", resp.RequestID)
		return nil, &TrackingError{
			Kind:       class.kind,
			StatusCode: resp.StatusCode,
			Message:    class.message,
			RequestID:  resp.RequestID,
		}
	}

	t.logger.Debug("openpanel tracking request sent",
		"type", body.Type, "status", resp.StatusCode, "request_id", resp.RequestID)
	return newResponse(resp), nil
}

func invalidTracking(err error) *TrackingError {
	return &TrackingError{Kind: KindInvalid, Message: err.Error(), Err: err}
}
