package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort     string
	AppEnv      string
	AppTimezone string
	LogLevel    string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string

	KV KVConfig

	JWTPrivateKeyPath      string
	JWTPublicKeyPath       string
	JWTExpiryHours         int
	RefreshTokenExpiryDays int

	AdminEmails            []string
	SignupEnabled          bool
	AdminRefreshInterval   time.Duration
	AdminSyntheticFallback bool
	ChatSeedSample         bool

	CacheSizeMB    int
	MetricsEnabled bool
	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users    string
	Sessions string
	Chat     string
	KV       string
}

// KVConfig selects and configures the key-value backend.
type KVConfig struct {
	Backend    string // memory | pebble | dynamo | s3
	PebblePath string
	S3Prefix   string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:     getEnv("APP_PORT", "3000"),
		AppEnv:      getEnv("APP_ENV", "development"),
		AppTimezone: getEnv("APP_TIMEZONE", "UTC"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:    getEnv("DYNAMO_TABLE_USERS", "users"),
			Sessions: getEnv("DYNAMO_TABLE_SESSIONS", "sessions"),
			Chat:     getEnv("DYNAMO_TABLE_CHAT", "chat_messages"),
			KV:       getEnv("DYNAMO_TABLE_KV", "kv_store"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "ai-dashboard-kv"),

		KV: KVConfig{
			Backend:    strings.ToLower(getEnv("KV_BACKEND", "pebble")),
			PebblePath: getEnv("KV_PEBBLE_PATH", "./data/kv"),
			S3Prefix:   getEnv("KV_S3_PREFIX", "kv/"),
		},

		JWTPrivateKeyPath:      getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:       getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiryHours:         getEnvInt("JWT_EXPIRY_HOURS", 24),
		RefreshTokenExpiryDays: getEnvInt("REFRESH_TOKEN_EXPIRY_DAYS", 30),

		AdminEmails:            getEnvList("ADMIN_EMAILS", ""),
		SignupEnabled:          getEnvBool("SIGNUP_ENABLED", true),
		AdminRefreshInterval:   getEnvDuration("ADMIN_REFRESH_INTERVAL", 10*time.Second),
		AdminSyntheticFallback: getEnvBool("ADMIN_SYNTHETIC_FALLBACK", false),
		ChatSeedSample:         getEnvBool("CHAT_SEED_SAMPLE", false),

		CacheSizeMB:    getEnvInt("CACHE_SIZE_MB", 16),
		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", "*"),
	}
}

// Location resolves AppTimezone, falling back to UTC for unknown names.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.AppTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvDuration accepts Go durations ("15s") or a bare number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return fallback
}

func getEnvList(key, fallback string) []string {
	raw := getEnv(key, fallback)
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
