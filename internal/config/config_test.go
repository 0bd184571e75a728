package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "textaug.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
  max_threads: 4
  max_items: 100
redis:
  addr: "localhost:6379"
  db: 2
log:
  level: debug
  format: text
augmenter:
  type: random_char
  action: swap
  swap_mode: middle
  aug_char_p: 0.5
  min_char: 2
  stopwords: [the, a]
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 4, cfg.Server.MaxThreads)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "random_char", cfg.Augmenter.Type)
	assert.Equal(t, "swap", cfg.Augmenter.Action)
	require.NotNil(t, cfg.Augmenter.CharP)
	assert.Equal(t, 0.5, *cfg.Augmenter.CharP)
	require.NotNil(t, cfg.Augmenter.MinChar)
	assert.Equal(t, 2, *cfg.Augmenter.MinChar)
	assert.Equal(t, []string{"the", "a"}, cfg.Augmenter.Stopwords)
	assert.Equal(t, "en", cfg.Augmenter.Lang, "defaults survive a partial file")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":7070")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("LOG_LEVEL", "WARN")
	t.Setenv("TEXTAUG_LANG", "ru")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "ru", cfg.Augmenter.Lang)

	t.Setenv("REDIS_DB", "not-a-number")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Redis.DB)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "server: [unterminated"},
		{"bad log level", "log:\n  level: loud\n"},
		{"bad augmenter type", "augmenter:\n  type: magic\n"},
		{"bad probability", "augmenter:\n  type: ocr\n  aug_word_p: 2\n"},
		{"zero threads", "server:\n  max_threads: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLogConfig_NewLogger(t *testing.T) {
	var buf bytes.Buffer
	LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf).Info("hidden")
	assert.Empty(t, buf.String())

	LogConfig{Level: "debug", Format: "json"}.NewLogger(&buf).Debug("shown")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	LogConfig{Level: "info", Format: "text"}.NewLogger(&buf).Info("plain")
	assert.Contains(t, buf.String(), "msg=plain")
}
