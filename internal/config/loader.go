// Package config provides layered configuration loading for mcpmoose.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/dotenv"
	koanfyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Environment variable names kept from the original tool. They predate the
// sectioned SECTION_FIELD scheme and override it when set.
const (
	EnvObjectList = "MCP_OBJECT_LIST"
	EnvSyntaxMap  = "SYNTAX_MAP"
)

// Load builds a Config with the following precedence (highest wins):
//
//  1. Process environment variables (OPENAI_API_KEY, SERVER_PORT, ...)
//  2. A .env file in the working directory, if present
//  3. YAML config file (configPath, optional)
//  4. Hardcoded defaults
//
// Environment variables map to config fields by splitting on the first
// underscore: SERVER_SHUTDOWN_TIMEOUT -> server.shutdown_timeout,
// OPENAI_API_KEY -> openai.api_key. The legacy MCP_OBJECT_LIST and
// SYNTAX_MAP variables are honored on top of that mapping.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		content, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
		if err := k.Load(rawbytes.Provider(content), koanfyaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	}

	// .env file, if one exists where the command runs. Same contract as the
	// original tool, which loaded it before reading the environment.
	if _, err := os.Stat(".env"); err == nil {
		if err := k.Load(file.Provider(".env"), dotenv.ParserEnv("", ".", envTransform)); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	applyLegacyEnv(k, &cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// envTransform maps SECTION_FIELD_NAME to section.field_name. Only the first
// underscore separates the section; the rest of the name keeps its
// underscores (OPENAI_API_KEY -> openai.api_key).
func envTransform(s string) string {
	lower := strings.ToLower(s)
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

// applyLegacyEnv honors the original tool's flat variable names, which do
// not fit the sectioned scheme. The transform maps them to mcp.object_list
// and syntax.map, so reading those keys covers both the .env file and the
// process environment; the environment layer loads last and wins.
func applyLegacyEnv(k *koanf.Koanf, cfg *Config) {
	if v := k.String("mcp.object_list"); v != "" {
		cfg.Artifacts.ObjectList = v
	}
	if v := k.String("syntax.map"); v != "" {
		cfg.Artifacts.SyntaxMap = v
	}
}

// applyDefaults sets default values for fields left unset by all layers.
func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	if cfg.OpenAI.BaseURL == "" {
		cfg.OpenAI.BaseURL = "https://api.openai.com"
	}
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = "gpt-4o-mini"
	}
	if cfg.OpenAI.MaxRetries == 0 {
		cfg.OpenAI.MaxRetries = 3
	}
	if cfg.OpenAI.Timeout == 0 {
		cfg.OpenAI.Timeout = 60 * time.Second
	}

	if cfg.Artifacts.ObjectList == "" {
		cfg.Artifacts.ObjectList = "artifacts/objects.json"
	}
	if cfg.Artifacts.SyntaxMap == "" {
		cfg.Artifacts.SyntaxMap = "artifacts/syntax_map.json"
	}

	if cfg.Extractor.MinKeep == 0 {
		cfg.Extractor.MinKeep = 200
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}
