package openpanel

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultTrackURL       = "https://api.openpanel.dev/track"
	defaultExportURL      = "https://api.openpanel.dev/export"
	defaultTimeoutSeconds = 10
)

// Environment variables read by LoadConfigFromEnv.
const (
	EnvTrackURL       = "OPENPANEL_TRACK_URL"
	EnvExportURL      = "OPENPANEL_EXPORT_URL"
	EnvClientID       = "OPENPANEL_CLIENT_ID"
	EnvClientSecret   = "OPENPANEL_CLIENT_SECRET"
	EnvProjectID      = "OPENPANEL_PROJECT_ID"
	EnvDisabled       = "OPENPANEL_DISABLED"
	EnvTimeoutSeconds = "OPENPANEL_TIMEOUT_SECONDS"
)

// Config holds the connection settings shared by Tracker and Exporter.
type Config struct {
	// TrackURL is the full URL of the tracking endpoint.
	TrackURL string `yaml:"track_url"`
	// ExportURL is the base URL of the export API; endpoint names are appended.
	ExportURL string `yaml:"export_url"`
	// ClientID is sent in the openpanel-client-id header.
	ClientID string `yaml:"client_id"`
	// ClientSecret is sent in the openpanel-client-secret header.
	ClientSecret string `yaml:"client_secret"`
	// ProjectID scopes export requests. Only the Exporter needs it.
	ProjectID string `yaml:"project_id"`
	// TimeoutSeconds bounds each HTTP request.
	TimeoutSeconds int `yaml:"timeout_seconds"`
	// Disabled suppresses all network I/O from the Tracker.
	Disabled bool `yaml:"disabled"`
	// GlobalProperties are merged into every tracked event.
	GlobalProperties map[string]any `yaml:"global_properties"`
}

// DefaultConfig returns a Config pointing at the hosted OpenPanel API.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Timeout returns the configured timeout as a duration
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultTimeoutSeconds * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c *Config) applyDefaults() {
	if c.TrackURL == "" {
		c.TrackURL = defaultTrackURL
	}
	if c.ExportURL == "" {
		c.ExportURL = defaultExportURL
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = defaultTimeoutSeconds
	}
}

// LoadConfig reads and parses a YAML configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadConfigFromEnv loads configuration with environment variable overrides.
// A .env file in the working directory is loaded first if present. When path
// is empty no YAML file is read and the defaults are used as the base.
func LoadConfigFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = LoadConfig(path); err != nil {
			return nil, err
		}
	}

	if v := os.Getenv(EnvTrackURL); v != "" {
		cfg.TrackURL = v
	}
	if v := os.Getenv(EnvExportURL); v != "" {
		cfg.ExportURL = v
	}
	if v := os.Getenv(EnvClientID); v != "" {
		cfg.ClientID = v
	}
	if v := os.Getenv(EnvClientSecret); v != "" {
		cfg.ClientSecret = v
	}
	if v := os.Getenv(EnvProjectID); v != "" {
		cfg.ProjectID = v
	}
	if v := os.Getenv(EnvDisabled); v != "" {
		disabled, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvDisabled, err)
		}
		cfg.Disabled = disabled
	}
	if v := os.Getenv(EnvTimeoutSeconds); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer, got %q", EnvTimeoutSeconds, v)
		}
		cfg.TimeoutSeconds = secs
	}

	return cfg, nil
}
