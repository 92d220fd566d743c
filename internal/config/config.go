// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/resume-synth/internal/db"
	"github.com/jonathan/resume-synth/internal/llm"
)

// Config represents the configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Database
	DatabaseURL     string `json:"database_url,omitempty" yaml:"database_url,omitempty"`
	MaxConns        int32  `json:"max_conns,omitempty" yaml:"max_conns,omitempty"`
	MinConns        int32  `json:"min_conns,omitempty" yaml:"min_conns,omitempty"`
	MaxConnLifetime string `json:"max_conn_lifetime,omitempty" yaml:"max_conn_lifetime,omitempty"` // e.g. "30m"
	SimpleProtocol  bool   `json:"simple_protocol,omitempty" yaml:"simple_protocol,omitempty"`

	// Generation
	Provider          string `json:"provider,omitempty" yaml:"provider,omitempty"` // gemini or vertex
	APIKey            string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	VertexProject     string `json:"vertex_project,omitempty" yaml:"vertex_project,omitempty"`
	VertexLocation    string `json:"vertex_location,omitempty" yaml:"vertex_location,omitempty"`
	ModelLite         string `json:"model_lite,omitempty" yaml:"model_lite,omitempty"`
	ModelStandard     string `json:"model_standard,omitempty" yaml:"model_standard,omitempty"`
	ModelAdvanced     string `json:"model_advanced,omitempty" yaml:"model_advanced,omitempty"`
	GenerationTimeout string `json:"generation_timeout,omitempty" yaml:"generation_timeout,omitempty"` // e.g. "90s"

	// Pipeline
	PersistMode      string `json:"persist_mode,omitempty" yaml:"persist_mode,omitempty"` // transactional or incremental
	ParallelSections bool   `json:"parallel_sections,omitempty" yaml:"parallel_sections,omitempty"`
	Seniority        string `json:"seniority,omitempty" yaml:"seniority,omitempty"`
	Background       string `json:"background,omitempty" yaml:"background,omitempty"` // Path to background text file

	// Server
	Port              int  `json:"port,omitempty" yaml:"port,omitempty"`
	RateLimitDisabled bool `json:"rate_limit_disabled,omitempty" yaml:"rate_limit_disabled,omitempty"`
	GenerationPerHour int  `json:"generation_per_hour,omitempty" yaml:"generation_per_hour,omitempty"`
	GenerationBurst   int  `json:"generation_burst,omitempty" yaml:"generation_burst,omitempty"`
	DefaultPerMinute  int  `json:"default_per_minute,omitempty" yaml:"default_per_minute,omitempty"`

	// Behavior
	UseBrowser bool `json:"use_browser,omitempty" yaml:"use_browser,omitempty"` // Use headless browser for SPA job boards
	Verbose    bool `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Provider:          string(llm.ProviderGemini),
		VertexLocation:    "us-central1",
		GenerationTimeout: "90s",
		PersistMode:       "transactional",
		Seniority:         db.SeniorityMidSenior,
		Port:              8080,
		GenerationPerHour: 10,
		GenerationBurst:   2,
		DefaultPerMinute:  1000,
	}
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// ApplyEnv loads .env if present and overrides fields from the environment.
func (c *Config) ApplyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("VERTEX_PROJECT"); v != "" {
		c.VertexProject = v
		if c.Provider == "" {
			c.Provider = string(llm.ProviderVertex)
		}
	}
	if v := os.Getenv("VERTEX_LOCATION"); v != "" {
		c.VertexLocation = v
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("PERSIST_MODE"); v != "" {
		c.PersistMode = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	switch llm.Provider(c.Provider) {
	case "", llm.ProviderGemini, llm.ProviderVertex:
	default:
		return fmt.Errorf("config error: unknown provider %q", c.Provider)
	}

	switch c.PersistMode {
	case "", "transactional", "incremental":
	default:
		return fmt.Errorf("config error: 'persist_mode' must be transactional or incremental")
	}

	for name, value := range map[string]string{
		"generation_timeout": c.GenerationTimeout,
		"max_conn_lifetime":  c.MaxConnLifetime,
	} {
		if value == "" {
			continue
		}
		if d, err := time.ParseDuration(value); err != nil || d < 0 {
			return fmt.Errorf("config error: '%s' must be a positive duration", name)
		}
	}

	if c.MaxConns < 0 || c.MinConns < 0 {
		return fmt.Errorf("config error: pool sizes must be non-negative")
	}
	if c.MaxConns > 0 && c.MinConns > c.MaxConns {
		return fmt.Errorf("config error: 'min_conns' exceeds 'max_conns'")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range")
	}
	if c.GenerationPerHour < 0 || c.GenerationBurst < 0 || c.DefaultPerMinute < 0 {
		return fmt.Errorf("config error: rate limits must be non-negative")
	}

	if c.Background != "" {
		if _, err := os.Stat(c.Background); os.IsNotExist(err) {
			return fmt.Errorf("config error: background file not found: %s", c.Background)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	for _, f := range []struct{ dst, def *string }{
		{&result.DatabaseURL, &defaults.DatabaseURL},
		{&result.MaxConnLifetime, &defaults.MaxConnLifetime},
		{&result.Provider, &defaults.Provider},
		{&result.APIKey, &defaults.APIKey},
		{&result.VertexProject, &defaults.VertexProject},
		{&result.VertexLocation, &defaults.VertexLocation},
		{&result.ModelLite, &defaults.ModelLite},
		{&result.ModelStandard, &defaults.ModelStandard},
		{&result.ModelAdvanced, &defaults.ModelAdvanced},
		{&result.GenerationTimeout, &defaults.GenerationTimeout},
		{&result.PersistMode, &defaults.PersistMode},
		{&result.Seniority, &defaults.Seniority},
		{&result.Background, &defaults.Background},
	} {
		if *f.dst == "" {
			*f.dst = *f.def
		}
	}

	// Numeric fields: use default if zero
	if result.MaxConns == 0 {
		result.MaxConns = defaults.MaxConns
	}
	if result.MinConns == 0 {
		result.MinConns = defaults.MinConns
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.GenerationPerHour == 0 {
		result.GenerationPerHour = defaults.GenerationPerHour
	}
	if result.GenerationBurst == 0 {
		result.GenerationBurst = defaults.GenerationBurst
	}
	if result.DefaultPerMinute == 0 {
		result.DefaultPerMinute = defaults.DefaultPerMinute
	}

	// Bool fields: true wins
	result.SimpleProtocol = result.SimpleProtocol || defaults.SimpleProtocol
	result.ParallelSections = result.ParallelSections || defaults.ParallelSections
	result.RateLimitDisabled = result.RateLimitDisabled || defaults.RateLimitDisabled
	result.UseBrowser = result.UseBrowser || defaults.UseBrowser
	result.Verbose = result.Verbose || defaults.Verbose

	return result
}

// Timeout returns the per-call generation timeout, or zero for the service default.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.GenerationTimeout)
	if err != nil {
		return 0
	}
	return d
}

// PoolConfig returns the database pool settings.
func (c *Config) PoolConfig() db.PoolConfig {
	lifetime, _ := time.ParseDuration(c.MaxConnLifetime)
	return db.PoolConfig{
		URL:             c.DatabaseURL,
		MaxConns:        c.MaxConns,
		MinConns:        c.MinConns,
		MaxConnLifetime: lifetime,
		SimpleProtocol:  c.SimpleProtocol,
	}
}

// LLMConfig returns the model configuration for the selected provider.
func (c *Config) LLMConfig() *llm.Config {
	var cfg *llm.Config
	if llm.Provider(c.Provider) == llm.ProviderVertex {
		cfg = llm.DefaultVertexConfig(c.VertexProject, c.VertexLocation)
	} else {
		cfg = llm.DefaultGeminiConfig()
	}
	for tier, model := range map[llm.ModelTier]string{
		llm.TierLite:     c.ModelLite,
		llm.TierStandard: c.ModelStandard,
		llm.TierAdvanced: c.ModelAdvanced,
	} {
		if model != "" {
			cfg = cfg.WithModel(tier, model)
		}
	}
	return cfg
}
