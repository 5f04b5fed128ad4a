package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadFrom(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "th", cfg.Coach.Locale)
	assert.Equal(t, 10, cfg.Coach.RequestsPerMinute)
	assert.Equal(t, 72, cfg.Auth.TokenTTLHours)
	assert.Equal(t, []int{0, 100, 250, 500, 1000, 2000, 3500, 5500, 8000, 11000}, cfg.Progression.LevelThresholds)
	assert.Empty(t, cfg.Redis.Addr)
	assert.False(t, cfg.Tts.Enabled)
}

func TestLoad_FileAndLocalOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", `
server:
  port: "9000"
database:
  driver: sqlite
  path: /tmp/sq.db
llm:
  provider: ollama
coach:
  locale: en
progression:
  level_thresholds: [0, 50, 150]
  timezone: Asia/Bangkok
`)
	writeFile(t, dir, "config.local.yaml", `
server:
  port: "9100"
redis:
  addr: localhost:6379
`)

	cfg, err := LoadFrom(viper.New(), dir)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/sq.db", cfg.Database.Path)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, "en", cfg.Coach.Locale)
	assert.Equal(t, []int{0, 50, 150}, cfg.Progression.LevelThresholds)
	assert.Equal(t, "Asia/Bangkok", cfg.Progression.Timezone)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "llama3.2", cfg.Ollama.Model)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("STUDYQUEST_COACH_LOCALE", "en")
	t.Setenv("PORT", "7070")

	cfg, err := LoadFrom(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, "en", cfg.Coach.Locale)
	assert.Equal(t, "7070", cfg.Server.Port)
}

func TestLoad_BadYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "server: [unterminated")
	_, err := LoadFrom(viper.New(), dir)
	assert.Error(t, err)
}
