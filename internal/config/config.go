package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/nowly-app/Nowly-BookingService/internal/domain"
)

// Config конфигурация сервиса, загружается из config.toml
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Auth          AuthConfig          `toml:"auth"`
	Booking       BookingConfig       `toml:"booking"`
	Geocoder      GeocoderConfig      `toml:"geocoder"`
	Notifications NotificationsConfig `toml:"notifications"`
	Jobs          JobsConfig          `toml:"jobs"`
}

// ServerConfig настройки HTTP-сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

// DatabaseConfig настройки подключения к Postgres
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
}

// DSN возвращает строку подключения к Postgres
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`  // Пустая строка - только stdout
	Level string `toml:"level"` // debug | info | warn | error
}

// MetricsConfig настройки прометеевских метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// AuthConfig настройки проверки токенов
// Секрет общий с сервисом аккаунтов, который выпускает токены
type AuthConfig struct {
	JWTSecret       string `toml:"jwt_secret"`
	TokenTTLMinutes int    `toml:"token_ttl_minutes"`
}

// BookingConfig настройки протокола бронирования
type BookingConfig struct {
	// Mode режим предотвращения двойного бронирования:
	// "per-datetime" - конфликт по тройке (слот, дата, время), слот многоразовый
	// "per-slot"     - одно бронирование на слот, флаг доступности гасится
	Mode string `toml:"mode"`
}

// GeocoderConfig настройки клиента геокодера
type GeocoderConfig struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// NotificationsConfig настройки email-уведомлений
type NotificationsConfig struct {
	Enabled        bool   `toml:"enabled"`
	SendgridAPIKey string `toml:"sendgrid_api_key"`
	FromEmail      string `toml:"from_email"`
	FromName       string `toml:"from_name"`
}

// JobsConfig настройки фоновых задач
type JobsConfig struct {
	AutoCompleteEnabled  bool   `toml:"auto_complete_enabled"`
	AutoCompleteSchedule string `toml:"auto_complete_schedule"` // cron-выражение
}

// Load читает и валидирует конфигурацию из toml-файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("config: server.http_port must be positive")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("config: auth.jwt_secret is required")
	}
	if !domain.BookingMode(c.Booking.Mode).IsValid() {
		return fmt.Errorf("config: booking.mode must be %q or %q", domain.ModePerDateTime, domain.ModePerSlot)
	}
	if c.Notifications.Enabled && c.Notifications.SendgridAPIKey == "" {
		return fmt.Errorf("config: notifications.sendgrid_api_key is required when notifications are enabled")
	}
	return nil
}
