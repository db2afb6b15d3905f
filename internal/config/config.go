package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса
type Config struct {
	Server          ServerConfig       `toml:"server"`
	Database        DatabaseConfig     `toml:"database"`
	Logs            LogsConfig         `toml:"logs"`
	Metrics         MetricsConfig      `toml:"metrics"`
	CatalogService  IntegrationConfig  `toml:"catalog_service"`
	IdentityService IntegrationConfig  `toml:"identity_service"`
	Appointments    AppointmentsConfig `toml:"appointments"`
	Payments        PaymentsConfig     `toml:"payments"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN возвращает строку подключения к базе данных
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// IntegrationConfig настройки интеграционного HTTP клиента
type IntegrationConfig struct {
	URL      string `toml:"url"`
	Timeout  int    `toml:"timeout"`
	CacheTTL int    `toml:"cache_ttl"`
}

// AppointmentsConfig настройки жизненного цикла записей
type AppointmentsConfig struct {
	HoldMinutes           int `toml:"hold_minutes"`
	SweepThresholdMinutes int `toml:"sweep_threshold_minutes"`
}

// PaymentsConfig настройки симуляции платежей
type PaymentsConfig struct {
	HighValueThreshold float64 `toml:"high_value_threshold"`
	DefaultCurrency    string  `toml:"default_currency"`
}

// Load загружает конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("config: server.http_port must be positive")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("config: database.dbname is required")
	}
	if c.CatalogService.URL == "" {
		return fmt.Errorf("config: catalog_service.url is required")
	}
	if c.IdentityService.URL == "" {
		return fmt.Errorf("config: identity_service.url is required")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Appointments.HoldMinutes <= 0 {
		c.Appointments.HoldMinutes = 30
	}
	if c.Appointments.SweepThresholdMinutes <= 0 {
		c.Appointments.SweepThresholdMinutes = 30
	}
	if c.Payments.HighValueThreshold <= 0 {
		c.Payments.HighValueThreshold = 500
	}
	if c.Payments.DefaultCurrency == "" {
		c.Payments.DefaultCurrency = "USD"
	}
	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
}
