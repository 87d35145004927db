package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "course_service", cfg.DatabaseName)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 587, cfg.SMTPPort)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("SMTP_PORT", "2525")

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 2525, cfg.SMTPPort)
}

func TestGetEnvDuration_BadValue(t *testing.T) {
	t.Setenv("TOKEN_TTL", "not-a-duration")

	assert.Equal(t, time.Hour, getEnvDuration("TOKEN_TTL", time.Hour))
}
