package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for mcpmoose binaries.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	OpenAI    OpenAIConfig    `koanf:"openai"`
	Artifacts ArtifactsConfig `koanf:"artifacts"`
	Extractor ExtractorConfig `koanf:"extractor"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds settings for the syntaxd HTTP service.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// OpenAIConfig holds settings for the chat-completions client used by the
// object extractor. APIKey is never logged or serialized.
type OpenAIConfig struct {
	APIKey     string        `koanf:"api_key" json:"-"`
	BaseURL    string        `koanf:"base_url"`
	Model      string        `koanf:"model"`
	MaxRetries int           `koanf:"max_retries"`
	Timeout    time.Duration `koanf:"timeout"`
}

// ArtifactsConfig points at the pre-built catalog files.
type ArtifactsConfig struct {
	// ObjectList is the path to objects.json (flat Block/Object name list).
	ObjectList string `koanf:"object_list"`
	// SyntaxMap is the path to syntax_map.json (name -> snippet).
	SyntaxMap string `koanf:"syntax_map"`
}

// ExtractorConfig tunes the prefilter stage.
type ExtractorConfig struct {
	// MinKeep is the minimum number of candidate names handed to the model.
	MinKeep int `koanf:"min_keep"`
}

// LoggingConfig controls zap construction.
type LoggingConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json or console
}

// Validate checks the configuration for values that would fail at runtime.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server shutdown_timeout must be positive")
	}
	if c.OpenAI.Timeout <= 0 {
		return fmt.Errorf("openai timeout must be positive")
	}
	if c.OpenAI.MaxRetries < 0 {
		return fmt.Errorf("openai max_retries must not be negative")
	}
	if c.Extractor.MinKeep < 1 {
		return fmt.Errorf("extractor min_keep must be at least 1")
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging format %q must be json or console", c.Logging.Format)
	}
	if c.Artifacts.ObjectList == "" {
		return fmt.Errorf("artifacts object_list path is empty")
	}
	if c.Artifacts.SyntaxMap == "" {
		return fmt.Errorf("artifacts syntax_map path is empty")
	}
	return nil
}
