package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Booking  BookingConfig  `yaml:"booking"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
}

type HTTPConfig struct {
	Address                string   `yaml:"address"`
	AllowedOrigins         []string `yaml:"allowed_origins"`
	ShutdownTimeoutSeconds int      `yaml:"shutdown_timeout_seconds"`
}

type DatabaseConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	Name        string `yaml:"name"`
	SSLMode     string `yaml:"ssl_mode"`
	AutoMigrate bool   `yaml:"auto_migrate"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type StorageConfig struct {
	Driver string `yaml:"driver"`
}

// Empty Addr disables the flights cache.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Empty Brokers disables event publishing.
type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type BookingConfig struct {
	// Refund percentages are pointers so that an explicit 0 survives defaulting.
	SelfRefundPercent  *int   `yaml:"self_refund_percent"`
	AdminRefundPercent *int   `yaml:"admin_refund_percent"`
	ReferenceAttempts  int    `yaml:"reference_attempts"`
	SeatLetters        string `yaml:"seat_letters"`
	FlightsCacheTTL    int    `yaml:"flights_cache_ttl_seconds"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

const (
	DefaultSelfRefundPercent  = 80
	DefaultAdminRefundPercent = 100
	DefaultReferenceAttempts  = 3
)

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("DATABASE_PASSWORD"); v != "" {
		c.Database.Password = v
	}
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.HTTP.ShutdownTimeoutSeconds == 0 {
		c.HTTP.ShutdownTimeoutSeconds = 5
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageDriverPostgres
	}
	if c.Booking.SelfRefundPercent == nil {
		v := DefaultSelfRefundPercent
		c.Booking.SelfRefundPercent = &v
	}
	if c.Booking.AdminRefundPercent == nil {
		v := DefaultAdminRefundPercent
		c.Booking.AdminRefundPercent = &v
	}
	if c.Booking.ReferenceAttempts == 0 {
		c.Booking.ReferenceAttempts = DefaultReferenceAttempts
	}
	if c.Booking.SeatLetters == "" {
		c.Booking.SeatLetters = "ABCDEF"
	}
	if c.Booking.FlightsCacheTTL == 0 {
		c.Booking.FlightsCacheTTL = 60
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) Validate() error {
	var errs []error
	if p := c.Booking.SelfRefundPercent; p != nil && (*p < 0 || *p > 100) {
		errs = append(errs, fmt.Errorf("booking.self_refund_percent must be within 0..100, got %d", *p))
	}
	if p := c.Booking.AdminRefundPercent; p != nil && (*p < 0 || *p > 100) {
		errs = append(errs, fmt.Errorf("booking.admin_refund_percent must be within 0..100, got %d", *p))
	}
	if c.Booking.ReferenceAttempts < 0 {
		errs = append(errs, errors.New("booking.reference_attempts must not be negative"))
	}
	switch c.Storage.Driver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q is not supported", c.Storage.Driver))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret (or JWT_SECRET) is required"))
	}
	return errors.Join(errs...)
}
