package openpanel

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/joshuawatkins04/openpanel-go/internal/logger"
)

// HTTPDoer is an interface for HTTP operations (for testing).
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option configures a Tracker or Exporter.
type Option func(*clientConfig) error

// clientConfig holds internal configuration.
type clientConfig struct {
	httpClient       HTTPDoer
	userAgent        string
	timeout          time.Duration
	logger           Logger
	globalProperties map[string]any
	disabled         *bool
}

// newClientConfig applies opts on top of the values carried by cfg.
func newClientConfig(cfg Config, opts []Option) (*clientConfig, error) {
	c := &clientConfig{
		timeout:          cfg.Timeout(),
		logger:           nopLogger{},
		globalProperties: cfg.GlobalProperties,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	return c, nil
}

// WithHTTPClient sets a custom HTTP client.
// Default: http.Client with the configured timeout
func WithHTTPClient(client HTTPDoer) Option {
	return func(c *clientConfig) error {
		if client == nil {
			return errors.New("HTTP client cannot be nil")
		}
		c.httpClient = client
		return nil
	}
}

// WithTimeout sets the request timeout. It is ignored when WithHTTPClient
// supplies a client.
// Default: Config.TimeoutSeconds, or 10 seconds
func WithTimeout(d time.Duration) Option {
	return func(c *clientConfig) error {
		if d <= 0 {
			return errors.New("timeout must be positive")
		}
		c.timeout = d
		return nil
	}
}

// WithUserAgent sets a custom User-Agent suffix.
// The SDK will prepend its own identifier.
func WithUserAgent(ua string) Option {
	return func(c *clientConfig) error {
		c.userAgent = ua
		return nil
	}
}

// WithLogger sets the logger used for request diagnostics.
// Default: no logging
func WithLogger(l Logger) Option {
	return func(c *clientConfig) error {
		if l == nil {
			return errors.New("logger cannot be nil")
		}
		c.logger = l
		return nil
	}
}

// WithDebugLogging writes JSON log lines, including debug entries, to w.
// Email addresses are redacted.
func WithDebugLogging(w io.Writer) Option {
	return WithLogger(logger.New(w, logger.DEBUG))
}

// WithGlobalProperties sets properties sent with every tracked event and
// identify call. Call-supplied keys take precedence on collision.
// Replaces Config.GlobalProperties.
func WithGlobalProperties(props map[string]any) Option {
	return func(c *clientConfig) error {
		c.globalProperties = props
		return nil
	}
}

// WithDisabled turns every sending operation into a no-op.
// Overrides Config.Disabled.
func WithDisabled(disabled bool) Option {
	return func(c *clientConfig) error {
		c.disabled = &disabled
		return nil
	}
}
