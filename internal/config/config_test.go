package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, 20*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "file", cfg.Store.Backend)
	assert.Equal(t, "./data", cfg.Store.File.Dir)
	assert.Equal(t, "manual", cfg.Appearance.Source)
	assert.Equal(t, "United States", cfg.Preferences.DefaultRegion)
	assert.Equal(t, 10, cfg.Practice.DefaultQuestionCount)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SYLLABUS_STORE_BACKEND", "redis")
	t.Setenv("REDIS_ADDRESS", "cache:6380")
	t.Setenv("SYLLABUS_LLM_PROVIDER", "Ollama")
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("SYLLABUS_PRACTICE_DEFAULT_QUESTION_COUNT", "7")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, "cache:6380", cfg.Store.Redis.Address)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, "secret", cfg.LLM.Gemini.APIKey)
	assert.Equal(t, 7, cfg.Practice.DefaultQuestionCount)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		v := viper.New()
		setDefaults(v)
		return fromViper(v)
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown provider", func(c *Config) { c.LLM.Provider = "openai" }},
		{"unknown backend", func(c *Config) { c.Store.Backend = "s3" }},
		{"sql without dsn", func(c *Config) { c.Store.Backend = "sql" }},
		{"file appearance without path", func(c *Config) { c.Appearance.Source = "file" }},
		{"non-positive practice count", func(c *Config) { c.Practice.DefaultQuestionCount = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
