package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// Identity provider
	IdentityURL       string
	IdentityAPIKey    string
	IdentityJWTSecret string // 空の場合はアクセストークンのローカル検証を行わない
	IdentityTimeout   time.Duration

	// Session
	SessionSecret          string
	SessionMaxAge          int
	SessionCleanupInterval time.Duration

	// Dashboard
	ScheduleTimezone string

	// Rate Limit（1分あたりのリクエスト数）
	RateLimitForms int
	RateLimitAuth  int

	// Retention
	ContactRetentionDays int

	// Logging
	LogLevel string

	// Server
	ServerPort string
	BaseURL    string

	// Cookie
	CookieSecure bool
	CookieDomain string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string
	required := func(key string) string {
		v := os.Getenv(key)
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg.DatabaseURL = required("DATABASE_URL")
	cfg.IdentityURL = required("IDENTITY_URL")
	cfg.IdentityAPIKey = required("IDENTITY_API_KEY")
	cfg.SessionSecret = required("SESSION_SECRET")
	cfg.BaseURL = required("BASE_URL")

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.IdentityJWTSecret = getEnvString("IDENTITY_JWT_SECRET", "")
	cfg.IdentityTimeout = getEnvDuration("IDENTITY_TIMEOUT", 10*time.Second)
	cfg.SessionMaxAge = getEnvInt("SESSION_MAX_AGE", 86400)
	cfg.SessionCleanupInterval = getEnvDuration("SESSION_CLEANUP_INTERVAL", time.Hour)
	cfg.ScheduleTimezone = getEnvString("SCHEDULE_TIMEZONE", "UTC")
	cfg.RateLimitForms = getEnvInt("RATE_LIMIT_FORMS", 20)
	cfg.RateLimitAuth = getEnvInt("RATE_LIMIT_AUTH", 10)
	cfg.ContactRetentionDays = getEnvInt("CONTACT_RETENTION_DAYS", 365)
	cfg.LogLevel = getEnvString("LOG_LEVEL", "info")
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "")

	positive := map[string]bool{
		"IDENTITY_TIMEOUT":         cfg.IdentityTimeout > 0,
		"SESSION_MAX_AGE":          cfg.SessionMaxAge > 0,
		"SESSION_CLEANUP_INTERVAL": cfg.SessionCleanupInterval > 0,
		"RATE_LIMIT_FORMS":         cfg.RateLimitForms > 0,
		"RATE_LIMIT_AUTH":          cfg.RateLimitAuth > 0,
	}
	var invalid []string
	for key, ok := range positive {
		if !ok {
			invalid = append(invalid, key)
		}
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)
		return nil, fmt.Errorf("environment variables must be positive: %v", invalid)
	}

	if _, err := time.LoadLocation(cfg.ScheduleTimezone); err != nil {
		return nil, fmt.Errorf("invalid SCHEDULE_TIMEZONE %q: %w", cfg.ScheduleTimezone, err)
	}

	return cfg, nil
}

// Location はスケジュールの日付比較に使うタイムゾーンを返す。
// Loadで検証済みのため、読み込みに失敗した場合はUTCを返す。
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ScheduleTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
