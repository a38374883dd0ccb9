package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_NAME", "ladder.db")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "")
	t.Setenv("CACHE_TTL", "2s")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_MODEL", "")

	cfg := Load()
	assert.Equal(t, "ladder.db", cfg.DBName)
	assert.Equal(t, "secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 2*time.Second, cfg.CacheTTL)
	assert.Equal(t, defaultTokenTTL, cfg.Auth.TokenTTL)
	assert.Empty(t, cfg.OpenAI.APIKey)
	assert.Equal(t, defaultModel, cfg.OpenAI.Model)
}

func TestGetDuration(t *testing.T) {
	t.Setenv("SOME_TTL", "not-a-duration")
	assert.Equal(t, time.Minute, getDuration("SOME_TTL", time.Minute))

	t.Setenv("SOME_TTL", "-3s")
	assert.Equal(t, time.Minute, getDuration("SOME_TTL", time.Minute))

	t.Setenv("SOME_TTL", "750ms")
	assert.Equal(t, 750*time.Millisecond, getDuration("SOME_TTL", time.Minute))

	assert.Equal(t, time.Second, getDuration("UNSET_TTL_FOR_TEST", time.Second))
}
