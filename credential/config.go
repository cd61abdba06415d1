package credential

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/sp301415/quivr/syntax"
)

// Config is the file form of the Credentialler settings.
type Config struct {
	Workers       int    `yaml:"workers"`
	Parallel      *bool  `yaml:"parallel"`
	MaxDataLength int    `yaml:"max_data_length"`
	LogLevel      string `yaml:"log_level"`
}

// LoadConfig reads a YAML config from path.
// Missing fields take their defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("credential: empty config path")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("credential: read config: %w", err)
	}
	return ParseConfig(content)
}

// ParseConfig parses a YAML config.
func ParseConfig(content []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("credential: parse config: %w", err)
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() error {
	if c.Workers < 0 {
		return fmt.Errorf("credential: workers must be non-negative, got %d", c.Workers)
	}
	if c.Workers == 0 {
		c.Workers = DefaultParametersLiteral.Workers
	}

	if c.Parallel == nil {
		parallel := DefaultParametersLiteral.Parallel
		c.Parallel = &parallel
	}

	if c.MaxDataLength <= 0 {
		c.MaxDataLength = syntax.DefaultMaxDataLength
	}

	if c.LogLevel == "" {
		c.LogLevel = zerolog.InfoLevel.String()
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("credential: log level: %w", err)
	}
	return nil
}

// Parameters compiles c into Parameters.
func (c *Config) Parameters() Parameters {
	return ParametersLiteral{
		Workers:       c.Workers,
		Parallel:      *c.Parallel,
		MaxDataLength: c.MaxDataLength,
	}.Compile()
}

// Level returns the configured log level.
func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
