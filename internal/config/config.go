package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Драйверы доставки событий аудита
const (
	AuditDriverLog      = "log"
	AuditDriverKafka    = "kafka"
	AuditDriverRabbitMQ = "rabbitmq"
)

var (
	// ErrLoad ошибка чтения или разбора файла конфигурации
	ErrLoad = errors.New("config: failed to load")

	// ErrInvalid конфигурация не прошла проверку
	ErrInvalid = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server         ServerConfig        `toml:"server"`
	Database       DatabaseConfig      `toml:"database"`
	Logs           LogsConfig          `toml:"logs"`
	Metrics        MetricsConfig       `toml:"metrics"`
	Auth           AuthConfig          `toml:"auth"`
	TenancyService ServiceClientConfig `toml:"tenancy_service"`
	Redis          RedisConfig         `toml:"redis"`
	Audit          AuditConfig         `toml:"audit"`
	Reservations   ReservationsConfig  `toml:"reservations"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
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

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// AuthConfig настройки аутентификации.
// Пустой JWTSecret включает режим доверенных заголовков X-User-ID / X-User-Staff (за API gateway)
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
}

// ServiceClientConfig настройки HTTP клиента внешнего сервиса
type ServiceClientConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// RedisConfig настройки кэша доступности
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	TTL      int    `toml:"ttl"` // секунды
}

// AuditConfig настройки доставки событий аудита
type AuditConfig struct {
	Driver  string   `toml:"driver"`
	Brokers []string `toml:"brokers"`
	Topic   string   `toml:"topic"`
	AMQPURL string   `toml:"amqp_url"`
	Queue   string   `toml:"queue"`
	Timeout int      `toml:"timeout"` // секунды
}

// ReservationsConfig бизнес-настройки бронирований
type ReservationsConfig struct {
	// Timezone IANA зона, в которой определяется "сегодня" для проверки прошедшей даты
	Timezone string `toml:"timezone"`
}

// Location возвращает часовой пояс бронирований
func (r ReservationsConfig) Location() (*time.Location, error) {
	return time.LoadLocation(r.Timezone)
}

// Load читает TOML файл, подгружает .env (если есть) и применяет переменные окружения
func Load(path string) (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoad, path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv секреты и адреса инфраструктуры берутся из окружения, если заданы
func (c *Config) applyEnv() {
	overrideString(&c.Database.Host, "DB_HOST")
	overrideInt(&c.Database.Port, "DB_PORT")
	overrideString(&c.Database.User, "DB_USER")
	overrideString(&c.Database.Password, "DB_PASSWORD")
	overrideString(&c.Database.DBName, "DB_NAME")
	overrideString(&c.Auth.JWTSecret, "AUTH_JWT_SECRET")
	overrideString(&c.Redis.Addr, "REDIS_ADDR")
	overrideString(&c.Redis.Password, "REDIS_PASSWORD")
	overrideString(&c.Audit.AMQPURL, "AUDIT_AMQP_URL")
	overrideString(&c.TenancyService.URL, "TENANCY_SERVICE_URL")

	if brokers := os.Getenv("AUDIT_KAFKA_BROKERS"); brokers != "" {
		c.Audit.Brokers = strings.Split(brokers, ",")
	}
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.HTTPPort, 8080)
	setDefault(&c.Server.ReadTimeout, 10)
	setDefault(&c.Server.WriteTimeout, 10)
	setDefault(&c.Server.IdleTimeout, 60)
	setDefault(&c.Server.ShutdownTimeout, 10)

	setDefault(&c.Database.Port, 5432)
	setDefault(&c.Database.MaxOpenConns, 25)
	setDefault(&c.Database.MaxIdleConns, 5)
	setDefault(&c.Database.ConnMaxLifetime, 300)
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "reservation_service"
	}

	setDefault(&c.TenancyService.Timeout, 5)

	setDefault(&c.Redis.TTL, 30)

	if c.Audit.Driver == "" {
		c.Audit.Driver = AuditDriverLog
	}
	setDefault(&c.Audit.Timeout, 3)

	if c.Reservations.Timezone == "" {
		c.Reservations.Timezone = "UTC"
	}
}

// Validate проверяет, что конфигурация пригодна для запуска
func (c *Config) Validate() error {
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database host and dbname are required", ErrInvalid)
	}
	if c.TenancyService.URL == "" {
		return fmt.Errorf("%w: tenancy_service.url is required", ErrInvalid)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis.addr is required when redis is enabled", ErrInvalid)
	}

	switch c.Audit.Driver {
	case AuditDriverLog:
	case AuditDriverKafka:
		if len(c.Audit.Brokers) == 0 || c.Audit.Topic == "" {
			return fmt.Errorf("%w: audit.brokers and audit.topic are required for kafka driver", ErrInvalid)
		}
	case AuditDriverRabbitMQ:
		if c.Audit.AMQPURL == "" || c.Audit.Queue == "" {
			return fmt.Errorf("%w: audit.amqp_url and audit.queue are required for rabbitmq driver", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown audit driver %q", ErrInvalid, c.Audit.Driver)
	}

	if _, err := c.Reservations.Location(); err != nil {
		return fmt.Errorf("%w: reservations.timezone: %v", ErrInvalid, err)
	}

	return nil
}

func overrideString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setDefault(dst *int, def int) {
	if *dst == 0 {
		*dst = def
	}
}
