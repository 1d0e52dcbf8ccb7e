package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "config/config.yaml"

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	Debug           bool          `yaml:"debug"`
}

type DatabaseConfig struct {
	DSN          string `yaml:"url"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

type AuthConfig struct {
	JWTSecret  string        `yaml:"jwt_secret"`
	AccessTTL  time.Duration `yaml:"access_ttl"`
	SessionTTL time.Duration `yaml:"session_ttl"`
}

type EmailConfig struct {
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUser     string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`
	FromEmail    string `yaml:"from_email"`
}

func (e EmailConfig) Enabled() bool {
	return e.SMTPHost != "" && e.FromEmail != ""
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != 0
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type BulkConfig struct {
	Concurrency int `yaml:"concurrency"`
}

type ReportsConfig struct {
	FontPath string `yaml:"font_path"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Email    EmailConfig    `yaml:"email"`
	Telegram TelegramConfig `yaml:"telegram"`
	Log      LogConfig      `yaml:"log"`
	Bulk     BulkConfig     `yaml:"bulk"`
	Reports  ReportsConfig  `yaml:"reports"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: 5 * time.Second,
			AllowedOrigins:  []string{"*"},
		},
		Database: DatabaseConfig{
			MaxOpenConns: 20,
			MaxIdleConns: 5,
		},
		Auth: AuthConfig{
			AccessTTL:  15 * time.Minute,
			SessionTTL: 30 * 24 * time.Hour,
		},
		Email: EmailConfig{SMTPPort: 587},
		Log:   LogConfig{Level: "info", Format: "console"},
		Bulk:  BulkConfig{Concurrency: 8},
	}
}

// Load reads the YAML file at path over the defaults, then applies CRMHUB_*
// environment overrides. A missing file at DefaultPath is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	cfg := Default()

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && path == DefaultPath:
	default:
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return errors.New("database.url is required")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return errors.New("auth.jwt_secret must be at least 16 characters")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Auth.AccessTTL <= 0 || c.Auth.SessionTTL <= 0 {
		return errors.New("auth ttl values must be positive")
	}
	if c.Bulk.Concurrency < 1 {
		c.Bulk.Concurrency = 1
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := getEnv("CRMHUB_PORT", ""); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CRMHUB_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if v := getEnv("CRMHUB_ALLOWED_ORIGINS", ""); v != "" {
		cfg.Server.AllowedOrigins = splitList(v)
	}
	if v := getEnv("CRMHUB_TELEGRAM_CHAT_ID", ""); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("CRMHUB_TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.Telegram.ChatID = id
	}
	cfg.Database.DSN = getEnv("CRMHUB_DATABASE_URL", cfg.Database.DSN)
	cfg.Auth.JWTSecret = getEnv("CRMHUB_JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Email.SMTPPassword = getEnv("CRMHUB_SMTP_PASSWORD", cfg.Email.SMTPPassword)
	cfg.Telegram.BotToken = getEnv("CRMHUB_TELEGRAM_TOKEN", cfg.Telegram.BotToken)
	cfg.Log.Level = getEnv("CRMHUB_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("CRMHUB_LOG_FORMAT", cfg.Log.Format)
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
