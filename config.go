package trickle

import (
	"fmt"
	"net/url"
	"time"
)

// DefaultGreeting opens every new conversation.
const DefaultGreeting = "Hi, I'm your AI assistant. How can I help?"

// Config is the application configuration.
type Config struct {
	Endpoint     EndpointConfig `yaml:"endpoint"`
	Models       []Model        `yaml:"models"`
	DefaultModel string         `yaml:"default_model"`
	Validation   ValidationMode `yaml:"validation"`
	Greeting     string         `yaml:"greeting"`
	Log          LogConfig      `yaml:"log"`
}

// EndpointConfig locates the chat-completions endpoint.
type EndpointConfig struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
	// HeaderTimeout bounds the wait for response headers. The body itself is
	// not bounded: replies stream for as long as the model generates.
	HeaderTimeout time.Duration `yaml:"header_timeout"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
	File   string `yaml:"file"`   // path, "stderr", or "discard"; empty = default file
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Endpoint: EndpointConfig{
			URL:           "https://api.openai.com/v1/chat/completions",
			HeaderTimeout: 30 * time.Second,
		},
		Models: []Model{
			{Name: "gpt-4o-mini", Label: "GPT-4o mini"},
			{Name: "deepseek-r1-250120", Label: "DeepSeek R1"},
		},
		DefaultModel: "gpt-4o-mini",
		Validation:   ValidationLenient,
		Greeting:     DefaultGreeting,
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks the configuration for internal consistency.
func (c Config) Validate() error {
	if c.Endpoint.URL == "" {
		return fmt.Errorf("endpoint url is required: %w", ErrValidation)
	}
	if err := validateURL("endpoint url", c.Endpoint.URL); err != nil {
		return err
	}
	for _, m := range c.Models {
		if m.URL == "" {
			continue
		}
		if err := validateURL(fmt.Sprintf("model %q url", m.Name), m.URL); err != nil {
			return err
		}
	}
	if c.Endpoint.HeaderTimeout < 0 {
		return fmt.Errorf("endpoint header_timeout must be non-negative, got %s: %w", c.Endpoint.HeaderTimeout, ErrValidation)
	}
	if _, err := ParseValidationMode(string(c.Validation)); err != nil {
		return err
	}
	if _, err := NewModelRegistry(c.Models, c.DefaultModel); err != nil {
		return err
	}
	return nil
}

// Registry builds the model registry described by the configuration.
func (c Config) Registry() (*ModelRegistry, error) {
	return NewModelRegistry(c.Models, c.DefaultModel)
}

func validateURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q: %w", field, raw, ErrValidation)
	}
	return nil
}
