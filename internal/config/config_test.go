package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg := Load()

	assert.Equal(t, ":3000", cfg.ServerAddr)
	assert.Equal(t, "https://www.instagram.com", cfg.InstagramBaseURL)
	assert.Equal(t, "936619743392459", cfg.InstagramAppID)
	assert.Equal(t, 10, cfg.AnalyzeLimit)
	assert.Equal(t, 1500*time.Millisecond, cfg.AnalyzeDelay)
	assert.Equal(t, 20, cfg.AutoSearchMediaLimit)
	assert.Equal(t, 10, cfg.AutoSearchProfileLimit)
	assert.Equal(t, 500*time.Millisecond, cfg.AutoSearchDelay)
	assert.Zero(t, cfg.ProbeInterval)
	assert.False(t, cfg.AuthEnabled())
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "console", cfg.LogEncoding())
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENV", "production")
	t.Setenv("ANALYZE_DELAY", "250")
	t.Setenv("AUTO_SEARCH_DELAY", "2s")
	t.Setenv("INSTAGRAM_RPS", "0.5")
	t.Setenv("ANALYZE_LIMIT", "nope")
	t.Setenv("OIDC_ISSUER", "https://sso.example.com")

	cfg := Load()

	assert.Equal(t, 250*time.Millisecond, cfg.AnalyzeDelay)
	assert.Equal(t, 2*time.Second, cfg.AutoSearchDelay)
	assert.Equal(t, 0.5, cfg.InstagramRPS)
	assert.Equal(t, 10, cfg.AnalyzeLimit)
	assert.True(t, cfg.AuthEnabled())
	assert.False(t, cfg.IsDev())
	assert.Equal(t, "json", cfg.LogEncoding())
}
