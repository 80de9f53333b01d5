package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

// Config holds the application configuration
type Config struct {
	AppEnv string
	Server struct {
		Port           string
		RequestTimeout time.Duration
		CORSOrigins    []string
	}
	Log struct {
		Level  string // debug, info, warn, error
		Format string // console, json
	}
	DB struct {
		URL      string // used in production
		Host     string
		Port     string
		User     string
		Password string
		Name     string
	}
	Redis struct {
		URL      string
		Addr     string
		Username string
		Password string
	}
	Auth struct {
		APISecret     string
		AdminEmail    string
		AdminPassword string
	}
	Archive struct {
		Backend string // drive, s3
		Drive   struct {
			ClientID     string
			ClientSecret string
			RefreshToken string
			FolderID     string
		}
		S3 struct {
			Bucket string
			Region string
			Prefix string
		}
	}
	Device struct {
		CookieName   string
		CookieMaxAge int // seconds
	}
	Upload struct {
		MaxBytes int64
	}
	Notify struct {
		SendGridKey string
		From        string
		To          string
		ProductLink string
	}
	Limiter struct {
		JanitorSpec string
		MaxIdle     time.Duration
	}
}

// Load reads .env outside production and builds the config from the environment.
func Load() *Config {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}
	return FromEnv()
}

// FromEnv builds the config from the current environment only.
func FromEnv() *Config {
	cfg := &Config{}

	cfg.AppEnv = getEnv("APP_ENV", "dev")

	cfg.Server.Port = getEnv("PORT", getEnv("API_PORT", "5000"))
	cfg.Server.RequestTimeout = getDuration("REQUEST_TIMEOUT", 5*time.Second)
	cfg.Server.CORSOrigins = splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "console")

	cfg.DB.URL = getEnv("DATABASE_URL", "")
	cfg.DB.Host = getEnv("DB_HOST", "localhost")
	cfg.DB.Port = getEnv("DB_PORT", "5432")
	cfg.DB.User = getEnv("DB_USER", "postgres")
	cfg.DB.Password = getEnv("DB_PASSWORD", "")
	cfg.DB.Name = getEnv("DB_NAME", "screenwatch")

	cfg.Redis.URL = getEnv("REDIS_URL", "")
	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Username = getEnv("REDIS_USERNAME", "")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")

	cfg.Auth.APISecret = getEnv("API_SECRET", "")
	cfg.Auth.AdminEmail = strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL")))
	cfg.Auth.AdminPassword = strings.TrimSpace(os.Getenv("ADMIN_PASSWORD"))

	cfg.Archive.Backend = strings.ToLower(getEnv("ARCHIVE_BACKEND", "drive"))
	cfg.Archive.Drive.ClientID = getEnv("GOOGLE_CLIENT_ID", "")
	cfg.Archive.Drive.ClientSecret = getEnv("GOOGLE_CLIENT_SECRET", "")
	cfg.Archive.Drive.RefreshToken = getEnv("GOOGLE_REFRESH_TOKEN", "")
	cfg.Archive.Drive.FolderID = getEnv("GOOGLE_FOLDER_ID", "")
	cfg.Archive.S3.Bucket = strings.SplitN(getEnv("S3_BUCKET", ""), "/", 2)[0]
	cfg.Archive.S3.Region = getEnv("AWS_REGION", "us-east-2")
	cfg.Archive.S3.Prefix = getEnv("S3_PREFIX", "screenshots/")

	cfg.Device.CookieName = getEnv("DEVICE_COOKIE_NAME", "deviceUUID")
	cfg.Device.CookieMaxAge = getInt("DEVICE_COOKIE_MAX_AGE", 365*24*60*60)

	cfg.Upload.MaxBytes = int64(getInt("UPLOAD_MAX_BYTES", 10*1024*1024))

	cfg.Notify.SendGridKey = getEnv("SENDGRID_API_KEY", "")
	cfg.Notify.From = getEnv("NOTIFY_FROM", "no-reply@screenwatch.local")
	cfg.Notify.To = getEnv("NOTIFY_EMAIL", "")
	cfg.Notify.ProductLink = getEnv("NOTIFY_PRODUCT_LINK", "http://localhost:3000/")

	cfg.Limiter.JanitorSpec = getEnv("LIMITER_JANITOR_SPEC", "@every 1m")
	cfg.Limiter.MaxIdle = getDuration("LIMITER_MAX_IDLE", 3*time.Minute)

	return cfg
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// DSN returns the Postgres connection string. In production DATABASE_URL is
// used and sslmode=require is appended when missing.
func (c *Config) DSN() string {
	if c.IsProduction() && c.DB.URL != "" {
		dsn := c.DB.URL
		if !strings.Contains(dsn, "sslmode=") {
			dsn += lo.Ternary(strings.Contains(dsn, "?"), "&sslmode=require", "?sslmode=require")
		}
		return dsn
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		c.DB.Host, c.DB.User, c.DB.Password, c.DB.Name, c.DB.Port,
	)
}

func getEnv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	return lo.Ternary(v != "", v, def)
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
