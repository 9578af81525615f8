package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Token lifetime defaults, used whenever the corresponding environment value
// is missing or malformed.
const (
	DefaultAccessTokenTTL  = time.Hour
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Config holds application level configuration loaded from environment
// variables. It is built once at startup and passed by injection; nothing
// mutates it afterwards.
type Config struct {
	ServerPort      string
	MySQLDSN        string
	RedisAddr       string
	RedisDB         int
	RedisPass       string
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	AppURL          string
	Production      bool
	CookieSecure    bool

	SMTPHost  string
	SMTPPort  int
	SMTPUser  string
	SMTPPass  string
	FromEmail string

	StorageEndpoint  string
	StorageBucket    string
	StorageAccessKey string
	StorageSecretKey string
	StoragePublicURL string

	SwaggerHost string
}

// Load builds Config from environment with sensible defaults. A local .env
// file is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	production := getEnv("APP_ENV", "development") == "production"

	return &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		MySQLDSN:        getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/authcore?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		RedisPass:       os.Getenv("REDIS_PASSWORD"),
		JWTSecret:       getEnv("JWT_SECRET", "change-me"),
		AccessTokenTTL:  getEnvDuration("JWT_EXPIRES_IN", DefaultAccessTokenTTL),
		RefreshTokenTTL: getEnvDuration("REFRESH_TOKEN_EXPIRES_IN", DefaultRefreshTokenTTL),
		AppURL:          getEnv("APP_URL", "http://localhost:5173"),
		Production:      production,
		CookieSecure:    production,

		SMTPHost:  getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:  getEnvInt("SMTP_PORT", 587),
		SMTPUser:  os.Getenv("SMTP_USER"),
		SMTPPass:  os.Getenv("SMTP_PASS"),
		FromEmail: getEnv("FROM_EMAIL", os.Getenv("SMTP_USER")),

		StorageEndpoint:  os.Getenv("STORAGE_ENDPOINT"),
		StorageBucket:    os.Getenv("STORAGE_BUCKET"),
		StorageAccessKey: os.Getenv("STORAGE_ACCESS_KEY_ID"),
		StorageSecretKey: os.Getenv("STORAGE_SECRET_ACCESS_KEY"),
		StoragePublicURL: os.Getenv("STORAGE_PUBLIC_URL"),

		SwaggerHost: os.Getenv("SWAGGER_HOST"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, ok := parseDuration(v); ok {
			return parsed
		}
	}
	return def
}

// parseDuration accepts the standard Go forms ("1h", "30m") plus a "d" suffix
// for days ("7d"), which token lifetimes are conventionally configured in.
func parseDuration(v string) (time.Duration, bool) {
	if strings.HasSuffix(v, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(v, "d"))
		if err != nil || days <= 0 {
			return 0, false
		}
		return time.Duration(days) * 24 * time.Hour, true
	}
	parsed, err := time.ParseDuration(v)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
