package ratelimit

import (
	"net/http"
	"time"
)

// EndpointConfig limits one endpoint pattern. Path segments of "*" match any
// single segment, so "/jobs/*/analyze" covers every job.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Endpoints       []EndpointConfig
}

// Settings are the operator-facing knobs a Config is built from.
type Settings struct {
	Disabled          bool
	GenerationPerHour int
	GenerationBurst   int
	DefaultPerMinute  int
	Whitelist         []string
}

// DefaultConfig returns the built-in limits.
func DefaultConfig() *Config {
	return NewConfig(Settings{GenerationPerHour: 10, GenerationBurst: 2, DefaultPerMinute: 1000})
}

// NewConfig builds a Config. Generation endpoints share the strict hourly
// limit; everything else uses the per-minute default. Health is unlimited.
func NewConfig(s Settings) *Config {
	if s.Disabled {
		return &Config{Enabled: false}
	}
	whitelist := make(map[string]bool, len(s.Whitelist))
	for _, ip := range s.Whitelist {
		whitelist[ip] = true
	}

	gen := func(path string) EndpointConfig {
		return EndpointConfig{Path: path, Method: http.MethodPost, Limit: s.GenerationPerHour, Window: time.Hour, Burst: s.GenerationBurst}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    s.DefaultPerMinute,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		Whitelist:       whitelist,
		Endpoints: []EndpointConfig{
			{Path: "/health", Method: http.MethodGet, Limit: 0},
			gen("/resumes"),
			gen("/resumes/stream"),
			gen("/jobs/*/analyze"),
		},
	}
}

// match returns the endpoint config for a request and the bucket key it
// shares. Unmatched requests fall into one default bucket per client.
func (c *Config) match(path, method string) (EndpointConfig, string) {
	for _, ep := range c.Endpoints {
		if ep.Method == method && matchPath(ep.Path, path) {
			return ep, ep.Path
		}
	}
	return EndpointConfig{Limit: c.DefaultLimit, Window: c.DefaultWindow, Burst: c.DefaultLimit}, "default"
}
