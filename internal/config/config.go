package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrInvalidConfig возвращается при некорректной конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Auth     AuthConfig     `toml:"auth"`
	Email    EmailConfig    `toml:"email"`
	Outbox   OutboxConfig   `toml:"outbox"`
	Site     SiteConfig     `toml:"site"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	AutoMigrate     bool   `toml:"auto_migrate"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type AuthConfig struct {
	// JWTSecret ключ HMAC для проверки токенов админки
	JWTSecret string `toml:"jwt_secret"`
	// CronSecret общий секрет внешнего планировщика
	CronSecret string `toml:"cron_secret"`
}

type EmailConfig struct {
	APIURL     string `toml:"api_url"`
	APIKey     string `toml:"api_key"`
	From       string `toml:"from"`
	StaffEmail string `toml:"staff_email"`
	Timeout    int    `toml:"timeout"` // секунды
}

type OutboxConfig struct {
	PollInterval int `toml:"poll_interval"` // секунды
	BatchSize    int `toml:"batch_size"`
	MaxAttempts  int `toml:"max_attempts"`
	BaseBackoff  int `toml:"base_backoff"` // секунды
}

type SiteConfig struct {
	// BaseURL публичный адрес сайта, используется в ссылках писем
	BaseURL string `toml:"base_url"`
	// CompanyName подпись в письмах
	CompanyName string `toml:"company_name"`
}

// Load читает конфигурацию из TOML файла, применяет значения по умолчанию
// и переопределения из переменных окружения
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default конфигурация по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "trek-booking-service",
		},
		Email: EmailConfig{
			Timeout: 10,
		},
		Outbox: OutboxConfig{
			PollInterval: 10,
			BatchSize:    20,
			MaxAttempts:  5,
			BaseBackoff:  30,
		},
		Site: SiteConfig{
			CompanyName: "Kilimanjaro Treks",
		},
	}
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.Host) == "" {
		return fmt.Errorf("%w: database.host is required", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Site.BaseURL) == "" {
		return fmt.Errorf("%w: site.base_url is required", ErrInvalidConfig)
	}
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("%w: server.http_port must be positive", ErrInvalidConfig)
	}
	if c.Outbox.MaxAttempts <= 0 || c.Outbox.BatchSize <= 0 || c.Outbox.PollInterval <= 0 {
		return fmt.Errorf("%w: outbox settings must be positive", ErrInvalidConfig)
	}
	c.Site.BaseURL = strings.TrimRight(c.Site.BaseURL, "/")
	return nil
}

// applyEnv секреты можно не хранить в файле
func (c *Config) applyEnv() {
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("CRON_SECRET"); v != "" {
		c.Auth.CronSecret = v
	}
	if v := os.Getenv("EMAIL_API_KEY"); v != "" {
		c.Email.APIKey = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
}
