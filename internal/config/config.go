package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr  string
	BaseURL     string
	TLSEnabled  bool
	TLSCertFile string
	TLSKeyFile  string

	// OIDC (optional; auth is disabled when OIDCIssuer is empty)
	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string

	// Session
	SessionSecret string // Used for signing cookies (min 32 chars)

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// Cache
	RedisURL string // empty = in-process cache
	CacheTTL time.Duration

	// Instagram upstream
	InstagramBaseURL      string
	InstagramAppID        string
	InstagramUserAgent    string
	InstagramRPS          float64
	InstagramBurst        int
	InstagramMaxAttempts  int
	InstagramBaseBackoff  time.Duration
	InstagramTimeout      time.Duration
	InstagramFallbackHTML bool

	// Pipeline
	AnalyzeLimit           int
	AnalyzeDelay           time.Duration
	AutoSearchMediaLimit   int
	AutoSearchProfileLimit int
	AutoSearchDelay        time.Duration

	// Upstream probe (disabled when ProbeInterval is 0)
	ProbeInterval time.Duration
	ProbeUsername string

	// Logging
	LogLevel  string
	LogFormat string // "json" or "console"

	// Site Branding
	SiteTitle   string // env: SITE_TITLE, default: "Influencer Finder"
	SiteTagline string // env: SITE_TAGLINE
	SiteFooter  string // env: SITE_FOOTER
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:              getEnv("ENV", "development"),
		ServerAddr:       getEnv("SERVER_ADDR", ":3000"),
		BaseURL:          getEnv("BASE_URL", "http://localhost:3000"),
		TLSEnabled:       getEnv("TLS_ENABLED", "") == "true",
		TLSCertFile:      getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:       getEnv("TLS_KEY_FILE", ""),
		OIDCIssuer:       getEnv("OIDC_ISSUER", ""),
		OIDCClientID:     getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret: getEnv("OIDC_CLIENT_SECRET", ""),
		OIDCRedirectURL:  getEnv("OIDC_REDIRECT_URL", "http://localhost:3000/auth/callback"),
		SessionSecret:    getEnv("SESSION_SECRET", "change-me-in-production-min-32-chars"),
		CORSOrigins:      getEnv("CORS_ORIGINS", ""),

		RedisURL: getEnv("REDIS_URL", ""),
		CacheTTL: getEnvDuration("CACHE_TTL", 6*time.Hour),

		InstagramBaseURL:      getEnv("INSTAGRAM_BASE_URL", "https://www.instagram.com"),
		InstagramAppID:        getEnv("INSTAGRAM_APP_ID", "936619743392459"),
		InstagramUserAgent:    getEnv("INSTAGRAM_USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		InstagramRPS:          getEnvFloat("INSTAGRAM_RPS", 1),
		InstagramBurst:        getEnvInt("INSTAGRAM_BURST", 1),
		InstagramMaxAttempts:  getEnvInt("INSTAGRAM_MAX_ATTEMPTS", 3),
		InstagramBaseBackoff:  getEnvDuration("INSTAGRAM_BASE_BACKOFF", 2*time.Second),
		InstagramTimeout:      getEnvDuration("INSTAGRAM_TIMEOUT", 15*time.Second),
		InstagramFallbackHTML: getEnv("INSTAGRAM_FALLBACK_HTML", "") != "",

		AnalyzeLimit:           getEnvInt("ANALYZE_LIMIT", 10),
		AnalyzeDelay:           getEnvDuration("ANALYZE_DELAY", 1500*time.Millisecond),
		AutoSearchMediaLimit:   getEnvInt("AUTO_SEARCH_MEDIA_LIMIT", 20),
		AutoSearchProfileLimit: getEnvInt("AUTO_SEARCH_PROFILE_LIMIT", 10),
		AutoSearchDelay:        getEnvDuration("AUTO_SEARCH_DELAY", 500*time.Millisecond),

		ProbeInterval: getEnvDuration("PROBE_INTERVAL", 0),
		ProbeUsername: getEnv("PROBE_USERNAME", "instagram"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", ""),

		SiteTitle:   getEnv("SITE_TITLE", "Influencer Finder"),
		SiteTagline: getEnv("SITE_TAGLINE", "Trouvez les influenceuses alignées avec votre savonnerie"),
		SiteFooter:  getEnv("SITE_FOOTER", "Influencer Finder - cosmétiques artisanaux"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return fallback
}

// getEnvDuration accepts Go durations ("1500ms") and bare milliseconds ("1500").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(raw); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// AuthEnabled reports whether OIDC sign-in protects the UI and API.
func (c *Config) AuthEnabled() bool {
	return c.OIDCIssuer != ""
}

// LogEncoding returns the configured log format, defaulting to console in
// development and JSON elsewhere.
func (c *Config) LogEncoding() string {
	if c.LogFormat != "" {
		return c.LogFormat
	}
	if c.IsDev() {
		return "console"
	}
	return "json"
}
