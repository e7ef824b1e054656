package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	GinMode        string
	MongoURI       string
	DBName         string
	JWTSecret      string
	AccessTokenTTL time.Duration
	RedisURL       string
	CORSOrigins    []string
	FrontendURL    string
	PublicBaseURL  string
	UploadDir      string
	S3             S3Options
	Mail           MailOptions
}

// S3Options configures the object storage uploader. Uploads fall back to the
// local upload directory when Bucket is empty.
type S3Options struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	CustomDomain    string
}

func (o S3Options) Enabled() bool {
	return o.Bucket != ""
}

type MailOptions struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

func (o MailOptions) Enabled() bool {
	return o.Host != ""
}

// Load reads the process environment (and .env when present). The returned
// error is non-nil only for settings the server cannot start without.
func Load() (Config, error) {
	envErr := godotenv.Load()

	cfg := Config{
		Port:           getEnvOrDefault("PORT", "8080"),
		GinMode:        getEnvOrDefault("GIN_MODE", "release"),
		MongoURI:       getEnvOrDefault("MONGO_URI", ""),
		DBName:         getEnvOrDefault("DB_NAME", "abrealestate"),
		JWTSecret:      getEnvOrDefault("JWT_SECRET", ""),
		AccessTokenTTL: getDurationEnv("ACCESS_TOKEN_TTL", 7, 24*time.Hour),
		RedisURL:       getEnvOrDefault("REDIS_URL", ""),
		CORSOrigins:    getListEnv("CORS_ORIGINS", []string{"http://localhost:5173"}),
		FrontendURL:    strings.TrimRight(getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"), "/"),
		PublicBaseURL:  strings.TrimRight(getEnvOrDefault("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		UploadDir:      getEnvOrDefault("UPLOAD_DIR", "./public/uploads"),
		S3: S3Options{
			Bucket:          getEnvOrDefault("S3_BUCKET", ""),
			Region:          getEnvOrDefault("S3_REGION", "us-east-1"),
			Endpoint:        getEnvOrDefault("S3_ENDPOINT", ""),
			AccessKeyID:     getEnvOrDefault("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnvOrDefault("S3_SECRET_ACCESS_KEY", ""),
			CustomDomain:    strings.TrimRight(getEnvOrDefault("S3_CUSTOM_DOMAIN", ""), "/"),
		},
		Mail: MailOptions{
			Host: getEnvOrDefault("MAIL_HOST", ""),
			Port: getIntEnv("MAIL_PORT", 587),
			User: getEnvOrDefault("MAIL_USER", ""),
			Pass: getEnvOrDefault("MAIL_PASS", ""),
			From: getEnvOrDefault("MAIL_FROM", ""),
		},
	}

	if err := cfg.validate(); err != nil {
		if envErr != nil {
			return cfg, fmt.Errorf("%w (.env not loaded: %v)", err, envErr)
		}
		return cfg, err
	}
	return cfg, nil
}

func (c Config) IsDev() bool {
	return c.GinMode == "debug"
}

func (c Config) validate() error {
	missing := make([]string, 0, 2)
	if c.MongoURI == "" {
		missing = append(missing, "MONGO_URI")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("required env not set: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	return time.Duration(getIntEnv(key, defaultValue)) * unit
}

func getListEnv(key string, defaultValue []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
