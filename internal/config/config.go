package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса, загружается из config.toml
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Database    DatabaseConfig    `toml:"database"`
	Logs        LogsConfig        `toml:"logs"`
	Metrics     MetricsConfig     `toml:"metrics"`
	MercadoPago MercadoPagoConfig `toml:"mercadopago"`
	Booking     BookingConfig     `toml:"booking"`
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

// DSN собирает строку подключения
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
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

// MercadoPagoConfig настройки платежного провайдера
// Пустой AccessToken вне production включает dev-режим без оплаты
type MercadoPagoConfig struct {
	BaseURL         string `toml:"base_url"`
	AccessToken     string `toml:"access_token"`
	WebhookSecret   string `toml:"webhook_secret"`
	Sandbox         bool   `toml:"sandbox"`
	Mode            string `toml:"mode"` // "production" или "dev"
	Currency        string `toml:"currency"`
	NotificationURL string `toml:"notification_url"`
	SuccessURL      string `toml:"success_url"`
	FailureURL      string `toml:"failure_url"`
	PendingURL      string `toml:"pending_url"`
	Timeout         int    `toml:"timeout"`
}

// IsConfigured возвращает true, если провайдер настроен
func (m MercadoPagoConfig) IsConfigured() bool {
	return m.AccessToken != ""
}

// IsProduction возвращает true для production-режима
func (m MercadoPagoConfig) IsProduction() bool {
	return m.Mode == "production"
}

// BookingConfig настройки бизнес-логики бронирования
type BookingConfig struct {
	HoldTTLMinutes          int `toml:"hold_ttl_minutes"`
	CancelLeadTimeHours     int `toml:"cancel_lead_time_hours"`
	SweepIntervalMinutes    int `toml:"sweep_interval_minutes"`
	WebhookLogRetentionDays int `toml:"webhook_log_retention_days"`
	SlotGranularityMinutes  int `toml:"slot_granularity_minutes"`
	SearchHorizonDays       int `toml:"search_horizon_days"`
}

// Load загружает конфигурацию из toml файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// applyDefaults подставляет значения по умолчанию для незаполненных полей
func applyDefaults(cfg *Config) {
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 300
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.ServiceName == "" {
		cfg.Metrics.ServiceName = "agendabarber"
	}
	if cfg.MercadoPago.BaseURL == "" {
		cfg.MercadoPago.BaseURL = "https://api.mercadopago.com"
	}
	if cfg.MercadoPago.Currency == "" {
		cfg.MercadoPago.Currency = "ARS"
	}
	if cfg.MercadoPago.Timeout == 0 {
		cfg.MercadoPago.Timeout = 10
	}
	if cfg.Booking.HoldTTLMinutes == 0 {
		cfg.Booking.HoldTTLMinutes = 15
	}
	if cfg.Booking.CancelLeadTimeHours == 0 {
		cfg.Booking.CancelLeadTimeHours = 2
	}
	if cfg.Booking.SweepIntervalMinutes == 0 {
		cfg.Booking.SweepIntervalMinutes = 5
	}
	if cfg.Booking.WebhookLogRetentionDays == 0 {
		cfg.Booking.WebhookLogRetentionDays = 30
	}
	if cfg.Booking.SlotGranularityMinutes == 0 {
		cfg.Booking.SlotGranularityMinutes = 60
	}
	if cfg.Booking.SearchHorizonDays == 0 {
		cfg.Booking.SearchHorizonDays = 30
	}
}
