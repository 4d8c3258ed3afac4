package engine

import (
	"fmt"
	"os"

	"github.com/germanamz/tandy/pkg/logging"
	"gopkg.in/yaml.v3"
)

// Config is the top-level engine configuration.
type Config struct {
	// StartupNotification delivers OnStart to applications that implement
	// StartupNotifier before the run loop starts.
	StartupNotification bool `yaml:"startup_notification"`
	// EngineBanner logs "Tandy Engine Start!" once logging is ready.
	EngineBanner bool           `yaml:"engine_banner"`
	Headless     bool           `yaml:"headless"` // Skip the interactive loop.
	Hold         bool           `yaml:"hold"`     // Headless loop waits for cancellation.
	Logging      logging.Config `yaml:"logging"`
	Text         TextConfig     `yaml:"text"`
}

// TextConfig holds text output settings.
type TextConfig struct {
	Width int `yaml:"width"` // Wrap column for terminal output (0 = no wrapping).
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		StartupNotification: true,
		EngineBanner:        true,
		Logging:             logging.DefaultConfig(),
		Text:                TextConfig{Width: 100},
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig. Environment variables
// referenced as ${VAR} or $VAR are expanded before parsing.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return Config{}, fmt.Errorf("engine: load config: %w", err)
	}

	return ParseConfig(os.ExpandEnv(string(data)))
}

// LoadConfigRaw reads a YAML file without expanding environment variables, so
// ${VAR} references survive an edit-and-save cycle.
func LoadConfigRaw(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return Config{}, fmt.Errorf("engine: load config: %w", err)
	}

	return ParseConfig(string(data))
}

// ParseConfig decodes YAML on top of DefaultConfig without env expansion.
func ParseConfig(data string) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("engine: parse config: %w", err)
	}

	return cfg, nil
}

// MarshalConfig encodes cfg as YAML.
func MarshalConfig(cfg Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("engine: marshal config: %w", err)
	}
	return data, nil
}

// Validate checks that the configuration is internally consistent.
func (c Config) Validate() error {
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("engine: config: %w", err)
	}

	if c.Text.Width < 0 {
		return fmt.Errorf("engine: config: text width must not be negative, got %d", c.Text.Width)
	}

	if c.Hold && !c.Headless {
		return fmt.Errorf("engine: config: hold requires headless")
	}

	return nil
}
