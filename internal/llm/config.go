// Package llm provides the model configuration and provider clients behind
// the content generation service.
package llm

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for extraction: job analysis, background parsing
	TierLite ModelTier = "lite"
	// TierStandard is for section generation
	TierStandard ModelTier = "standard"
	// TierAdvanced is reserved for sections that need heavier rewriting
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini API (API key auth)
	ProviderGemini Provider = "gemini"
	// ProviderVertex is Gemini served through Vertex AI (ADC auth)
	ProviderVertex Provider = "vertex"
)

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
	// Temperature applied to every request
	Temperature float32
	// VertexProject and VertexLocation are required for ProviderVertex
	VertexProject  string
	VertexLocation string
}

// DefaultConfig returns the default configuration (Gemini API)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider:    ProviderGemini,
		Temperature: 0.1,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// DefaultVertexConfig returns the Gemini models served from Vertex AI
func DefaultVertexConfig(project, location string) *Config {
	cfg := DefaultGeminiConfig()
	cfg.Provider = ProviderVertex
	cfg.VertexProject = project
	cfg.VertexLocation = location
	if cfg.VertexLocation == "" {
		cfg.VertexLocation = "us-central1"
	}
	return cfg
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a copy of the config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := *c
	newConfig.Models = make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return &newConfig
}
