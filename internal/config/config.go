package config

import (
	"os"
	"strconv"
)

// Backend selects which Store implementation the process runs on.
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

// RedisConfig holds the key-value substrate and pub/sub settings. An empty
// Addr means the local backend falls back to an in-memory substrate, which is
// fine for a single process but persists nothing.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	Channel   string
}

// RemoteConfig holds the REST backend settings.
type RemoteConfig struct {
	BaseURL    string
	TimeoutSec int
}

// MinIOConfig holds object storage settings for uploaded document files.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost string
	Port    string
	Backend string
	Redis   RedisConfig
	Remote  RemoteConfig
	MinIO   MinIOConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"),
		Backend: getEnv("STORE_BACKEND", BackendLocal),
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", ""),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getEnvInt("REDIS_DB", 0),
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "studyhub"),
			Channel:   getEnv("REDIS_CHANNEL", "studyhub:changes"),
		},
		Remote: RemoteConfig{
			BaseURL:    getEnv("REMOTE_BASE_URL", ""),
			TimeoutSec: getEnvInt("REMOTE_TIMEOUT_SEC", 10),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
