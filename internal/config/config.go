package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting the process needs. It is built once in main
// and handed to the components that need it.
type Config struct {
	AppName  string
	HTTPAddr string

	DBDriver         string // "sqlite" or "postgres"
	SQLitePath       string
	DBHost           string
	DBPort           uint
	DBName           string
	DBSecretID       string
	DBSSLModeDisable bool

	SecretKey  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	CORSAllowedOrigins []string
	LoginRateLimit     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	ExportBucket string
	AWSRegion    string

	NotifyWebhookURL string
}

// Load reads .env (if present) and the environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	return Config{
		AppName:  getEnv("APP_NAME", "Team Sheet Studio API"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		DBDriver:         strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		SQLitePath:       getEnv("SQLITE_PATH", "team_sheet.db"),
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           uint(getEnvInt("DB_PORT", 5432)),
		DBName:           getEnv("DB_NAME", "teamsheet"),
		DBSecretID:       getEnv("DB_SECRET_ID", ""),
		DBSSLModeDisable: getEnv("DB_SSL_MODE_DISABLE", "") == "true",

		SecretKey:  getEnv("SECRET_KEY", "change-me"),
		AccessTTL:  time.Duration(getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60)) * time.Minute,
		RefreshTTL: time.Duration(getEnvInt("REFRESH_TOKEN_EXPIRE_MINUTES", 60*24*7)) * time.Minute,

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LoginRateLimit:     getEnv("LOGIN_RATE_LIMIT", "20-M"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      time.Duration(getEnvInt("CACHE_TTL_SECONDS", 30)) * time.Second,

		ExportBucket: getEnv("EXPORT_S3_BUCKET", ""),
		AWSRegion:    getEnv("AWS_REGION", "us-east-1"),

		NotifyWebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("invalid %s=%q, using %d", key, raw, defaultValue)
		return defaultValue
	}
	return n
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
