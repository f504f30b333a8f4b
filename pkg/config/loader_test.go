package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ha1tch/fst-toolkit/pkg/logging"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fst.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeFile(t, `
log:
  level: debug
render:
  width: 1024
  title: demo
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 1024, cfg.Render.Width)
	assert.Equal(t, "demo", cfg.Render.Title)
	assert.Equal(t, 600, cfg.Render.Height)
	assert.Equal(t, "main", cfg.Codegen.Package)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Malformed", "log: [unterminated"},
		{"BadLevel", "log:\n  level: loud\n"},
		{"BadSize", "render:\n  width: -1\n"},
		{"EmptyPackage", "codegen:\n  package: \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "fst.yaml")
	require.NoError(t, WriteDefault(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var cfg Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, *Default(), cfg)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), loaded)
}

func TestLogging(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "warn"
	cfg.Log.JSON = true

	assert.Equal(t, logging.Config{Level: logging.LevelWarn, JSON: true, Service: "fst"}, cfg.Logging("fst"))
}
