package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Port:              "8290",
		Env:               "development",
		SessionSecret:     "dev-session-secret-change-in-production",
		SessionTTLHours:   168,
		InstancePath:      "./instance",
		UploadsFolder:     "uploads",
		AllowedExtensions: "png,jpg,jpeg,gif",
	}
}

func TestValidateDevelopmentDefaults(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidateRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing port", func(c *Config) { c.Port = "" }},
		{"missing session secret", func(c *Config) { c.SessionSecret = "" }},
		{"missing instance path", func(c *Config) { c.InstancePath = "" }},
		{"missing uploads folder", func(c *Config) { c.UploadsFolder = "" }},
		{"empty extension list", func(c *Config) { c.AllowedExtensions = " , ," }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateProductionStrictness(t *testing.T) {
	cfg := validConfig()
	cfg.Env = "production"
	cfg.DBPassword = "strong-db-password"

	// Default secret is refused in production.
	assert.Error(t, cfg.Validate())

	cfg.SessionSecret = "short"
	assert.Error(t, cfg.Validate())

	cfg.SessionSecret = "a-sufficiently-long-production-secret-value"
	assert.NoError(t, cfg.Validate())

	cfg.DBPassword = "password"
	assert.Error(t, cfg.Validate())
}

func TestSessionTTL(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, 168*time.Hour, cfg.SessionTTL())

	cfg.SessionTTLHours = 0
	assert.Equal(t, 168*time.Hour, cfg.SessionTTL(), "falls back to a week")

	cfg.SessionTTLHours = 2
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL())
}

func TestAllowedExtensionSet(t *testing.T) {
	cfg := validConfig()
	cfg.AllowedExtensions = "PNG, .jpg , jpeg,, gif"

	set := cfg.AllowedExtensionSet()
	assert.Len(t, set, 4)
	for _, ext := range []string{"png", "jpg", "jpeg", "gif"} {
		_, ok := set[ext]
		assert.True(t, ok, "extension %s", ext)
	}
}
