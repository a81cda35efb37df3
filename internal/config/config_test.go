package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "env-key")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "groq", cfg.LLM.Provider)
	assert.Equal(t, "llama3-70b-8192", cfg.LLM.Model)
	assert.Len(t, cfg.LLM.Models, 4)
	assert.Equal(t, "env-key", cfg.LLM.APIKey)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 600, cfg.Diagram.Width)
	assert.Equal(t, 400, cfg.Diagram.Height)
	assert.Same(t, cfg, Get())
}

func TestLoad_FileOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
llm:
  provider: qwen
  api_key: file-key
  model: qwen-plus
  timeout: 15s
diagram:
  width: 800
  height: 500
  seed: 42
`)
	t.Setenv("DASHSCOPE_API_KEY", "ignored")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "qwen", cfg.LLM.Provider)
	assert.Equal(t, "file-key", cfg.LLM.APIKey)
	assert.Equal(t, 15*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 800, cfg.Diagram.Width)
	assert.Equal(t, int64(42), cfg.Diagram.Seed)
}

func TestLoad_RejectsUnknownProvider(t *testing.T) {
	path := writeConfig(t, "llm:\n  provider: carrier-pigeon\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier-pigeon")
}

func TestLoad_DiagramSizeAboveMaxSide(t *testing.T) {
	path := writeConfig(t, "diagram:\n  width: 3000\n  max_side: 2000\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_side")
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeConfig(t, "server: [unterminated\n")

	_, err := Load(path)
	require.Error(t, err)
}
