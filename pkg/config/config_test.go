package config

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Identity: IdentityConfig{JWTSecret: "secret"},
		Crypto: CryptoConfig{
			TokenEncryptionKey: base64.StdEncoding.EncodeToString(make([]byte, 32)),
		},
		Scheduler: SchedulerConfig{BriefingHour: 6},
	}
}

func TestValidate(t *testing.T) {
	t.Run("accepts a complete config", func(t *testing.T) {
		require.NoError(t, validConfig().Validate())
	})

	t.Run("requires identity secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.Identity.JWTSecret = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "IDENTITY_JWT_SECRET")
	})

	t.Run("rejects short encryption key", func(t *testing.T) {
		cfg := validConfig()
		cfg.Crypto.TokenEncryptionKey = base64.StdEncoding.EncodeToString([]byte("short"))
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "32 bytes")
	})

	t.Run("rejects out of range briefing hour", func(t *testing.T) {
		cfg := validConfig()
		cfg.Scheduler.BriefingHour = 24
		assert.Error(t, cfg.Validate())
	})
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("IDENTITY_JWT_SECRET", "from-env")
	t.Setenv("PORT", "9191")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Identity.JWTSecret)
	assert.Equal(t, "9191", cfg.Server.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "http://localhost:8080/api/integrations/slack/callback", cfg.CallbackURL("slack"))
}
