package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Port     int    `yaml:"port"`
	Headless bool   `yaml:"headless"`
	Version  string `yaml:"-"`

	Gemini     GeminiConfig     `yaml:"gemini"`
	Decoration DecorationConfig `yaml:"decoration"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// GeminiConfig configures the remote inference call.
type GeminiConfig struct {
	APIKey          string  `yaml:"api_key"`
	Model           string  `yaml:"model"`
	BaseURL         string  `yaml:"base_url"`
	MaxOutputTokens int32   `yaml:"max_output_tokens"`
	Temperature     float32 `yaml:"temperature"`
	Timeout         string  `yaml:"timeout"`
}

// DecorationConfig configures the header animation. An empty URL disables it.
type DecorationConfig struct {
	AnimationURL string `yaml:"animation_url"`
	Timeout      string `yaml:"timeout"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Port: 8080,
		Gemini: GeminiConfig{
			Model:           "gemini-2.0-flash",
			MaxOutputTokens: 300,
			Temperature:     0.3,
			Timeout:         "60s",
		},
		Decoration: DecorationConfig{
			AnimationURL: "https://lottie.host/6f6a89d9-7ee8-4dee-b1d8-64519202e300/9IsLLH0RoC.json",
			Timeout:      "5s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads configuration from a YAML file on top of the defaults and then
// applies environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides pulls the API key and a few operational knobs from the
// environment. GEMINI_API_KEY takes precedence over GOOGLE_API_KEY.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		c.Gemini.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Gemini.APIKey = key
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		c.Gemini.Model = model
	}
	if level := os.Getenv("POTABILITY_LOG_LEVEL"); level != "" {
		c.Logging.Level = strings.ToLower(level)
	}
}

// Validate checks that the configuration can start the application.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if strings.TrimSpace(c.Gemini.APIKey) == "" {
		return errors.New("gemini api key is required: set GEMINI_API_KEY or gemini.api_key")
	}
	if c.Gemini.Model == "" {
		return errors.New("gemini model is required")
	}
	if c.Gemini.MaxOutputTokens <= 0 {
		return fmt.Errorf("invalid max_output_tokens %d", c.Gemini.MaxOutputTokens)
	}
	if c.Gemini.Temperature < 0 || c.Gemini.Temperature > 2 {
		return fmt.Errorf("temperature %v out of range [0, 2]", c.Gemini.Temperature)
	}
	if _, err := c.GeminiTimeout(); err != nil {
		return err
	}
	if _, err := c.DecorationTimeout(); err != nil {
		return err
	}
	return nil
}

// GeminiTimeout returns the per-call inference timeout. Zero means no limit
// beyond the client library default.
func (c *Config) GeminiTimeout() (time.Duration, error) {
	return parseDuration("gemini.timeout", c.Gemini.Timeout)
}

// DecorationTimeout returns the header animation fetch timeout.
func (c *Config) DecorationTimeout() (time.Duration, error) {
	return parseDuration("decoration.timeout", c.Decoration.Timeout)
}

func parseDuration(name, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", name, value)
	}
	return d, nil
}
