package classifier

import (
	"log/slog"
	"time"
)

// Config holds remote scorer configuration.
type Config struct {
	// BaseURL is the scoring sidecar address.
	BaseURL string

	// Timeout bounds one inference round trip.
	Timeout time.Duration

	// Logger is the structured logger.
	Logger *slog.Logger
}

// Option is a functional option for configuring the remote scorer.
type Option func(*Config)

// WithBaseURL sets the sidecar address.
// Example: "http://localhost:9090"
func WithBaseURL(url string) Option {
	return func(c *Config) { c.BaseURL = url }
}

// WithTimeout sets the inference request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// DefaultConfig returns sensible defaults for a local sidecar.
func DefaultConfig() *Config {
	return &Config{
		BaseURL: "http://localhost:9090",
		Timeout: 30 * time.Second,
		Logger:  slog.Default(),
	}
}

// Apply applies functional options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}
