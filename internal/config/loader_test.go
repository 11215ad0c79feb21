package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes into dir for the duration of the test; it stands in for
// testing.T.Chdir, which requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Errorf("restoring working directory: %v", err)
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, "https://api.openai.com", cfg.OpenAI.BaseURL)
	assert.Equal(t, "artifacts/objects.json", cfg.Artifacts.ObjectList)
	assert.Equal(t, "artifacts/syntax_map.json", cfg.Artifacts.SyntaxMap)
	assert.Equal(t, 200, cfg.Extractor.MinKeep)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9000
openai:
  model: gpt-4o
extractor:
  min_keep: 50
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, 50, cfg.Extractor.MinKeep)
	// Untouched fields still get defaults.
	assert.Equal(t, "localhost", cfg.Server.Host)
}

func TestLoadMissingYAMLFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("openai:\n  model: gpt-4o\n"), 0o600))

	t.Setenv("OPENAI_MODEL", "gpt-4o-mini")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
}

func TestLegacyEnvNames(t *testing.T) {
	t.Setenv(EnvObjectList, "/tmp/custom_objects.json")
	t.Setenv(EnvSyntaxMap, "/tmp/custom_map.json")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/custom_objects.json", cfg.Artifacts.ObjectList)
	assert.Equal(t, "/tmp/custom_map.json", cfg.Artifacts.SyntaxMap)
}

func TestLegacyEnvNamesFromDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	dotenv := "MCP_OBJECT_LIST=/custom/objects.json\n" +
		"SYNTAX_MAP=/custom/map.json\n" +
		"OPENAI_MODEL=gpt-4o\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(dotenv), 0o600))
	chdir(t, dir)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/custom/objects.json", cfg.Artifacts.ObjectList)
	assert.Equal(t, "/custom/map.json", cfg.Artifacts.SyntaxMap)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
}

func TestProcessEnvBeatsDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("MCP_OBJECT_LIST=/dotenv/objects.json\n"), 0o600))
	chdir(t, dir)

	t.Setenv(EnvObjectList, "/env/objects.json")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/env/objects.json", cfg.Artifacts.ObjectList)
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SERVER_PORT", "server.port"},
		{"SERVER_SHUTDOWN_TIMEOUT", "server.shutdown_timeout"},
		{"OPENAI_API_KEY", "openai.api_key"},
		{"ARTIFACTS_OBJECT_LIST", "artifacts.object_list"},
		{"EXTRACTOR_MIN_KEEP", "extractor.min_keep"},
		{"HOME", "home"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, envTransform(tt.in), tt.in)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	t.Run("default config is valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("rejects bad port", func(t *testing.T) {
		cfg := valid()
		cfg.Server.Port = 70000
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects bad log format", func(t *testing.T) {
		cfg := valid()
		cfg.Logging.Format = "xml"
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects zero min_keep", func(t *testing.T) {
		cfg := valid()
		cfg.Extractor.MinKeep = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects empty artifact paths", func(t *testing.T) {
		cfg := valid()
		cfg.Artifacts.SyntaxMap = ""
		assert.Error(t, cfg.Validate())
	})
}
