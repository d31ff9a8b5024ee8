package app

import (
	"os"
	"strconv"
	"time"

	"github.com/inkwellhq/inkwell/pkg/jwtx"
)

type Config struct {
	SessionSecret string        // Required: HMAC secret for session tokens
	SessionIssuer string        // Optional: issuer claim for session tokens (default: inkwell)
	SessionTTL    time.Duration // Optional: session token lifetime (default: 7 days)

	GoogleClientID string // Optional: OAuth client ID; with none configured the verifier rejects every assertion

	S3Region    string // Required for uploads
	S3Bucket    string // Required for uploads
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string        // Optional: override for MinIO and compatible stores
	UploadTTL   time.Duration // Optional: presigned upload URL lifetime (default: 5m)

	DatabaseFile        string        // Optional: path to SQLite database file (default: ./inkwell.db)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionIssuer: getEnvOrDefault("SESSION_ISSUER", "inkwell"),
		SessionTTL:    getEnvDurationOrDefault("SESSION_TTL", jwtx.DefaultSessionTTL),

		GoogleClientID: os.Getenv("GOOGLE_CLIENT_ID"),

		S3Region:    getEnvOrDefault("S3_REGION", "ap-southeast-2"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		UploadTTL:   getEnvDurationOrDefault("UPLOAD_URL_TTL", 5*time.Minute),

		DatabaseFile:        getEnvOrDefault("DATABASE_FILE", "inkwell.db"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
