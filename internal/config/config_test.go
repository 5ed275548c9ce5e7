package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	p := filepath.Join(dir, dirName)
	require.NoError(t, os.MkdirAll(p, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(p, fileName), []byte(body), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	cfg, err := Load(Sources{HomeDir: t.TempDir(), WorkDir: t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, "claude-sonnet-4-5", cfg.AI.Model)
	assert.Equal(t, 20*time.Second, cfg.AI.Timeout)
	assert.Equal(t, int64(1024), cfg.AI.MaxTokens)
	assert.Equal(t, "Sprint 1", cfg.Defaults.Sprint)
	assert.Equal(t, 4.0, cfg.Canvas.DragThreshold)
	assert.Equal(t, 0, cfg.Canvas.MaxSuggestions)
	assert.Equal(t, 40.0, cfg.Gantt.PxPerDay)
	assert.Equal(t, "127.0.0.1:7420", cfg.Web.Addr)
	assert.False(t, cfg.AIAvailable())
}

func TestLoad_ProjectOverridesGlobal(t *testing.T) {
	home, wd := t.TempDir(), t.TempDir()
	writeConfig(t, home, "defaults:\n  sprint: Sprint 7\ngantt:\n  px_per_day: 30\n")
	writeConfig(t, wd, "defaults:\n  sprint: Sprint 8\n")

	cfg, err := Load(Sources{HomeDir: home, WorkDir: wd})
	require.NoError(t, err)
	assert.Equal(t, "Sprint 8", cfg.Defaults.Sprint)
	assert.Equal(t, 30.0, cfg.Gantt.PxPerDay, "global value survives the merge")
}

func TestLoad_EnvOverridesFiles(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, "ai:\n  timeout: 5s\n")
	t.Setenv("ZENFLOW_AI_TIMEOUT", "2s")
	t.Setenv("ZENFLOW_WEB_ADDR", ":9000")

	cfg, err := Load(Sources{HomeDir: home, WorkDir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.AI.Timeout)
	assert.Equal(t, ":9000", cfg.Web.Addr)
}

func TestLoad_APIKeyFallback(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-fallback-key")
	cfg, err := Load(Sources{HomeDir: t.TempDir(), WorkDir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, "sk-ant-fallback-key", cfg.AI.APIKey)
	assert.True(t, cfg.AIAvailable())
	assert.Equal(t, "sk-a…-key", cfg.Redacted().AI.APIKey)
	assert.Equal(t, "sk-ant-fallback-key", cfg.AI.APIKey, "Redacted copies")

	t.Setenv("ZENFLOW_AI_API_KEY", "sk-explicit")
	cfg, err = Load(Sources{HomeDir: t.TempDir(), WorkDir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, "sk-explicit", cfg.AI.APIKey)
}

func TestLoad_ExplicitFileAndValidation(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(p, []byte("tui:\n  glyphs: emoji\n"), 0o644))
	_, err := Load(Sources{File: p})
	assert.ErrorContains(t, err, "tui.glyphs")

	require.NoError(t, os.WriteFile(p, []byte("tui: [not, a, map"), 0o644))
	_, err = Load(Sources{File: p})
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(p, []byte("canvas:\n  max_suggestions: -1\n"), 0o644))
	_, err = Load(Sources{File: p})
	assert.ErrorContains(t, err, "canvas.max_suggestions")

	_, err = Load(Sources{File: filepath.Join(dir, "missing.yaml")})
	assert.NoError(t, err)
}
