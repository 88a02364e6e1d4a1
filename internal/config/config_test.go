package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "./emojiril.db", cfg.DatabasePath)
	assert.True(t, cfg.EmojiPreset)
	assert.Equal(t, "", cfg.Prefix)
	assert.Equal(t, "", cfg.Suffix)
	assert.Equal(t, []string{"script", "style"}, cfg.SkipElements)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, int64(1<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, 30*time.Second, cfg.Feed.Timeout)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "emojiril.yaml")
	content := `
database_path: /tmp/aliases.db
prefix: "[["
suffix: "]]"
emoji_preset: false
log:
  level: debug
server:
  addr: ":9000"
  rate_limit: 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("EMOJIRIL_SERVER_ADDR", ":9999")
	t.Setenv("EMOJIRIL_SANITIZE", "true")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/aliases.db", cfg.DatabasePath)
	assert.Equal(t, "[[", cfg.Prefix)
	assert.Equal(t, "]]", cfg.Suffix)
	assert.False(t, cfg.EmojiPreset)
	assert.True(t, cfg.Sanitize)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, 5.0, cfg.Server.RateLimit)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
