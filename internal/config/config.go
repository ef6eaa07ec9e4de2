package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds every externally supplied setting of the blog.
type Config struct {
	Server struct {
		Port         int
		CookieSecure bool
		CORSOrigins  []string
		Lambda       bool
		Mode         string
	}
	Database struct {
		URI string
	}
	Session struct {
		SecretKey  string
		Expiration time.Duration
	}
	Mail struct {
		Address  string
		Password string
		Host     string
		Port     int
		Timeout  time.Duration
	}
	Log struct {
		Level  string
		Format string
	}
}

var ErrMissingSecret = errors.New("SECRET_KEY must be set")

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present; variables already set in
// the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.WithError(err).Warn("could not read .env file")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{}

	cfg.Server.Port = getInt("PORT", 5001)
	cfg.Server.CookieSecure = getBool("COOKIE_SECURE", false)
	cfg.Server.CORSOrigins = getList("CORS_ORIGINS")
	cfg.Server.Lambda = getBool("LAMBDA_RUNTIME", false)
	cfg.Server.Mode = getEnv("GIN_MODE", "release")

	cfg.Database.URI = getEnv("DB_URI", "sqlite:///posts.db")

	cfg.Session.SecretKey = getEnv("SECRET_KEY", "")
	cfg.Session.Expiration = time.Duration(getInt("SESSION_HOURS", 24)) * time.Hour

	cfg.Mail.Address = getEnv("EMAIL_KEY", "")
	cfg.Mail.Password = getEnv("PASSWORD_KEY", "")
	cfg.Mail.Host = getEnv("MAIL_HOST", "smtp.gmail.com")
	cfg.Mail.Port = getInt("MAIL_PORT", 587)
	cfg.Mail.Timeout = getDuration("MAIL_TIMEOUT", 10*time.Second)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "text")

	if cfg.Session.SecretKey == "" {
		return nil, ErrMissingSecret
	}
	return cfg, nil
}

// ConfigureLogging applies the log level and format to the standard logrus
// logger.
func (c *Config) ConfigureLogging() {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		log.WithError(err).Warnf("unknown log level %q, using info", c.Log.Level)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if strings.EqualFold(c.Log.Format, "json") {
		log.SetFormatter(&log.JSONFormatter{})
		return
	}
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.WithError(err).Warnf("invalid %s, using %d", key, fallback)
		return fallback
	}
	return value
}

func getBool(key string, fallback bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		log.WithError(err).Warnf("invalid %s, using %t", key, fallback)
		return fallback
	}
	return value
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		log.WithError(err).Warnf("invalid %s, using %s", key, fallback)
		return fallback
	}
	return value
}

func getList(key string) []string {
	var items []string
	for _, item := range strings.Split(getEnv(key, ""), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
