// Package config loads the server's settings from the environment.
// An optional .env file in the working directory is read first; variables
// already set in the environment win over the file.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment names.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Backend kinds.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendREST     = "rest"
)

// keyLength is the size of the session and CSRF secrets in bytes.
const keyLength = 32

var (
	ErrMissingSessionKey = errors.New("ASCEND_SESSION_KEY is required in production")
	ErrMissingCSRFKey    = errors.New("ASCEND_CSRF_KEY is required in production")
	ErrNoAdminUsers      = errors.New("ASCEND_ADMIN_USERS must list at least one admin in production")
	ErrMissingBackendURL = errors.New("ASCEND_BACKEND_URL is required for the rest backend")
	ErrUnknownBackend    = errors.New("ASCEND_BACKEND must be one of: sqlite, postgres, rest")
	ErrMissingChatID     = errors.New("ASCEND_TELEGRAM_CHAT_ID is required when ASCEND_TELEGRAM_TOKEN is set")
)

// Config holds every injected setting. No credential has a default in source.
type Config struct {
	Env  string
	Addr string

	Backend       string
	DatabaseURL   string // postgres DSN, or sqlite file path
	BackendURL    string
	BackendKey    string
	RemoteTimeout time.Duration
	SeedContent   bool

	BucketEndpoint  string
	BucketRegion    string
	BucketName      string
	BucketAccessKey string
	BucketSecretKey string
	BucketPublicURL string
	BucketPathStyle bool
	UploadsDir      string

	FormRelayURL      string
	CheckoutScriptURL string
	CheckoutPublicKey string
	AdminPanelURL     string

	ResendKey    string
	EmailFrom    string
	EmailReplyTo string
	NotifyTo     []string

	TelegramToken  string
	TelegramChatID int64 // negative for group chats

	AdminUsers     []byte // JSON array, see storage/admin.ParseDirectory
	SessionKey     []byte
	CSRFKey        []byte
	SessionTTL     time.Duration
	TrustedOrigins []string

	Location           *time.Location
	RateLimitPerSecond int
	LogFormat          string
	LogLevel           slog.Level
}

// Load reads .env (if present) and the environment.
// PRE: none
// POST: Returns a config with defaults applied, or an error naming the malformed variable
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		Env:               envOrDefault("ASCEND_ENV", EnvDevelopment),
		Addr:              envOrDefault("ASCEND_ADDR", ":8080"),
		Backend:           strings.ToLower(envOrDefault("ASCEND_BACKEND", BackendSQLite)),
		DatabaseURL:       os.Getenv("ASCEND_DATABASE_URL"),
		BackendURL:        os.Getenv("ASCEND_BACKEND_URL"),
		BackendKey:        os.Getenv("ASCEND_BACKEND_KEY"),
		BucketEndpoint:    os.Getenv("ASCEND_BUCKET_ENDPOINT"),
		BucketRegion:      envOrDefault("ASCEND_BUCKET_REGION", "auto"),
		BucketName:        os.Getenv("ASCEND_BUCKET_NAME"),
		BucketAccessKey:   os.Getenv("ASCEND_BUCKET_ACCESS_KEY"),
		BucketSecretKey:   os.Getenv("ASCEND_BUCKET_SECRET_KEY"),
		BucketPublicURL:   os.Getenv("ASCEND_BUCKET_PUBLIC_URL"),
		UploadsDir:        envOrDefault("ASCEND_UPLOADS_DIR", "uploads"),
		FormRelayURL:      os.Getenv("ASCEND_FORM_RELAY_URL"),
		CheckoutScriptURL: os.Getenv("ASCEND_CHECKOUT_SCRIPT_URL"),
		CheckoutPublicKey: os.Getenv("ASCEND_CHECKOUT_PUBLIC_KEY"),
		AdminPanelURL:     envOrDefault("ASCEND_ADMIN_PANEL_URL", "/backoffice/"),
		ResendKey:         os.Getenv("ASCEND_RESEND_KEY"),
		EmailFrom:         envOrDefault("ASCEND_EMAIL_FROM", "Ascend <hello@ascend.example>"),
		EmailReplyTo:      os.Getenv("ASCEND_EMAIL_REPLY_TO"),
		NotifyTo:          envList("ASCEND_NOTIFY_TO"),
		TelegramToken:     os.Getenv("ASCEND_TELEGRAM_TOKEN"),
		AdminUsers:        []byte(strings.TrimSpace(os.Getenv("ASCEND_ADMIN_USERS"))),
		TrustedOrigins:    envList("ASCEND_TRUSTED_ORIGINS"),
		LogFormat:         strings.ToLower(envOrDefault("ASCEND_LOG_FORMAT", "text")),
	}

	var err error
	if cfg.DatabaseURL == "" && cfg.Backend == BackendSQLite {
		cfg.DatabaseURL = "ascend.db"
	}
	if cfg.RemoteTimeout, err = envDuration("ASCEND_REMOTE_TIMEOUT", 15*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL, err = envDuration("ASCEND_SESSION_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitPerSecond, err = envInt("ASCEND_RATE_LIMIT", 10); err != nil {
		return Config{}, err
	}
	if cfg.SeedContent, err = envBool("ASCEND_SEED_CONTENT", cfg.Backend == BackendSQLite); err != nil {
		return Config{}, err
	}
	if cfg.BucketPathStyle, err = envBool("ASCEND_BUCKET_PATH_STYLE", false); err != nil {
		return Config{}, err
	}
	if v := os.Getenv("ASCEND_TELEGRAM_CHAT_ID"); v != "" {
		if cfg.TelegramChatID, err = strconv.ParseInt(v, 10, 64); err != nil {
			return Config{}, fmt.Errorf("ASCEND_TELEGRAM_CHAT_ID must be a numeric chat id, got %q", v)
		}
	}
	if cfg.SessionKey, err = envKey("ASCEND_SESSION_KEY"); err != nil {
		return Config{}, err
	}
	if cfg.CSRFKey, err = envKey("ASCEND_CSRF_KEY"); err != nil {
		return Config{}, err
	}
	if cfg.Location, err = time.LoadLocation(envOrDefault("ASCEND_TIMEZONE", "UTC")); err != nil {
		return Config{}, fmt.Errorf("ASCEND_TIMEZONE: %w", err)
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(envOrDefault("ASCEND_LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("ASCEND_LOG_LEVEL: %w", err)
	}
	return cfg, nil
}

// IsProduction reports whether the server runs with production requirements.
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Validate enforces the settings the chosen environment and backend need.
// PRE: c was returned by Load
// POST: Returns nil, or the first missing requirement
func (c Config) Validate() error {
	switch c.Backend {
	case BackendSQLite, BackendPostgres:
	case BackendREST:
		if c.BackendURL == "" {
			return ErrMissingBackendURL
		}
	default:
		return ErrUnknownBackend
	}
	if c.TelegramToken != "" && c.TelegramChatID == 0 {
		return ErrMissingChatID
	}
	if !c.IsProduction() {
		return nil
	}
	if len(c.SessionKey) == 0 {
		return ErrMissingSessionKey
	}
	if len(c.CSRFKey) == 0 {
		return ErrMissingCSRFKey
	}
	if len(c.AdminUsers) == 0 || string(c.AdminUsers) == "[]" {
		return ErrNoAdminUsers
	}
	return nil
}

// UsesBucket reports whether uploads go to an S3-compatible bucket rather than UploadsDir.
func (c Config) UsesBucket() bool {
	return c.BucketName != ""
}

// FillDevKeys generates random session and CSRF keys for any that are unset.
// Sessions and forms do not survive a restart with generated keys.
// PRE: Validate has passed
// POST: SessionKey and CSRFKey are both keyLength bytes
func (c *Config) FillDevKeys() error {
	for _, k := range []*[]byte{&c.SessionKey, &c.CSRFKey} {
		if len(*k) > 0 {
			continue
		}
		key := make([]byte, keyLength)
		if _, err := rand.Read(key); err != nil {
			return fmt.Errorf("generate key: %w", err)
		}
		*k = key
		slog.Warn("config_event", "event", "random_key_generated", "hint", "set ASCEND_SESSION_KEY and ASCEND_CSRF_KEY to keep sessions across restarts")
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be true or false, got %q", key, v)
	}
	return b, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration such as 15s, got %q", key, v)
	}
	return d, nil
}

// envList splits a comma-separated variable, dropping blanks.
func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// envKey decodes a hex-encoded 32-byte secret. Unset yields nil.
func envKey(key string) ([]byte, error) {
	v := os.Getenv(key)
	if v == "" {
		return nil, nil
	}
	b, err := hex.DecodeString(v)
	if err != nil || len(b) != keyLength {
		return nil, fmt.Errorf("%s must be %d hex characters (%d bytes)", key, keyLength*2, keyLength)
	}
	return b, nil
}
