package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса, загружается из config.toml
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Database    DatabaseConfig    `toml:"database"`
	Redis       RedisConfig       `toml:"redis"`
	Routing     RoutingConfig     `toml:"routing_service"`
	Pricing     PricingConfig     `toml:"pricing_service"`
	Logs        LogsConfig        `toml:"logs"`
	Metrics     MetricsConfig     `toml:"metrics"`
	Jobs        JobsConfig        `toml:"jobs"`
	Reservation ReservationConfig `toml:"reservation"`
	Travel      TravelConfig      `toml:"travel"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
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
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN возвращает строку подключения к PostgreSQL
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// RedisConfig настройки Redis (кеш времени в пути)
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// RoutingConfig настройки клиента геокодинга/маршрутизации
type RoutingConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// PricingConfig настройки клиента pricing-сервиса
type PricingConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus-метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// JobsConfig настройки фоновых задач
type JobsConfig struct {
	GenerationSpec      string `toml:"generation_spec"`       // cron-выражение генерации слотов
	SweepSpec           string `toml:"sweep_spec"`            // cron-выражение очистки резервирований
	HorizonDays         int    `toml:"horizon_days"`          // горизонт генерации
	TenantBudgetSeconds int    `toml:"tenant_budget_seconds"` // бюджет на одного тенанта
}

// ReservationConfig настройки резервирования слотов
type ReservationConfig struct {
	DefaultTTLMinutes int `toml:"default_ttl_minutes"`
	MaxTTLMinutes     int `toml:"max_ttl_minutes"`
}

// TravelConfig настройки кеша времени в пути и пиковых окон
type TravelConfig struct {
	CacheTTLHours    int    `toml:"cache_ttl_hours"`
	MorningPeakStart string `toml:"morning_peak_start"` // HH:MM
	MorningPeakEnd   string `toml:"morning_peak_end"`
	EveningPeakStart string `toml:"evening_peak_start"`
	EveningPeakEnd   string `toml:"evening_peak_end"`
}

// Load загружает конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}
	return &cfg, nil
}
