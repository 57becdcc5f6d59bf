package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
)

var (
	// ErrInvalidConfig возвращается, когда конфигурация не проходит проверку
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервера календарей
type Config struct {
	Server     ServerConfig      `toml:"server"`
	Database   DatabaseConfig    `toml:"database"`
	Logs       LogsConfig        `toml:"logs"`
	Metrics    MetricsConfig     `toml:"metrics"`
	Auth       AuthConfig        `toml:"auth"`
	CORS       CORSConfig        `toml:"cors"`
	Feeds      FeedsConfig       `toml:"feeds"`
	Apartments []ApartmentConfig `toml:"apartments"`
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

// AuthConfig проверка JWT провайдера аутентификации (HS256)
type AuthConfig struct {
	JWTSecret     string   `toml:"jwt_secret"`
	Audience      string   `toml:"audience"`
	AdminSubjects []string `toml:"admin_subjects"` // пусто - любой валидный токен
}

type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
}

type FeedsConfig struct {
	Timeout          int    `toml:"timeout"`   // секунды
	CacheTTL         int    `toml:"cache_ttl"` // секунды, сколько отдавать тело без повторного запроса
	UserAgent        string `toml:"user_agent"`
	RefreshCron      string `toml:"refresh_cron"` // пусто - без фонового обновления
	ExpandPastDays   int    `toml:"expand_past_days"`
	ExpandFutureDays int    `toml:"expand_future_days"`
}

type ApartmentConfig struct {
	Key     string `toml:"key"`
	ID      string `toml:"id"`
	Name    string `toml:"name"`
	ICalURL string `toml:"ical_url"`
}

// Load читает TOML-файл конфигурации.
// Перед разбором подгружается .env (если есть) и подставляются ${VAR} из окружения,
// так секреты (пароль БД, JWT-секрет, токены iCal) не хранятся в файле.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	return Parse(os.ExpandEnv(string(raw)))
}

// Parse разбирает содержимое конфигурации, применяет значения по умолчанию и валидирует
func Parse(data string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}
	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "apartment_calendar"
	}
	if c.Auth.Audience == "" {
		c.Auth.Audience = "authenticated"
	}
	if c.Feeds.Timeout == 0 {
		c.Feeds.Timeout = 15
	}
	if c.Feeds.CacheTTL == 0 {
		c.Feeds.CacheTTL = 300
	}
	if c.Feeds.UserAgent == "" {
		c.Feeds.UserAgent = "Mozilla/5.0 (compatible; ApartmentCalendar/1.0)"
	}
	if c.Feeds.ExpandPastDays == 0 {
		c.Feeds.ExpandPastDays = 365
	}
	if c.Feeds.ExpandFutureDays == 0 {
		c.Feeds.ExpandFutureDays = 730
	}
}

// Validate проверяет обязательные поля
func (c *Config) Validate() error {
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database host and dbname are required", ErrInvalidConfig)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: auth.jwt_secret is required", ErrInvalidConfig)
	}
	if len(c.Apartments) == 0 {
		return fmt.Errorf("%w: at least one [[apartments]] entry is required", ErrInvalidConfig)
	}

	keys := make(map[string]struct{}, len(c.Apartments))
	ids := make(map[string]struct{}, len(c.Apartments))
	for i, a := range c.Apartments {
		if strings.TrimSpace(a.Key) == "" || strings.TrimSpace(a.ID) == "" {
			return fmt.Errorf("%w: apartments[%d]: key and id are required", ErrInvalidConfig, i)
		}
		if _, ok := keys[a.Key]; ok {
			return fmt.Errorf("%w: duplicate apartment key %q", ErrInvalidConfig, a.Key)
		}
		if _, ok := ids[a.ID]; ok {
			return fmt.Errorf("%w: duplicate apartment id %q", ErrInvalidConfig, a.ID)
		}
		keys[a.Key] = struct{}{}
		ids[a.ID] = struct{}{}
	}
	return nil
}

// DomainApartments переводит секции [[apartments]] в доменные квартиры
func (c *Config) DomainApartments() domain.Apartments {
	result := make(domain.Apartments, 0, len(c.Apartments))
	for _, a := range c.Apartments {
		name := a.Name
		if name == "" {
			name = a.Key
		}
		result = append(result, domain.Apartment{
			Key:     a.Key,
			ID:      a.ID,
			Name:    name,
			FeedURL: strings.TrimSpace(a.ICalURL),
		})
	}
	return result
}
