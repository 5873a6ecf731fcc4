package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Images   ImageConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name    string `env:"APP_NAME" envDefault:"employee-directory"`
	Env     string `env:"APP_ENV" envDefault:"development"`
	Host    string `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port    string `env:"APP_PORT" envDefault:"8080"`
	Version string `env:"APP_VERSION" envDefault:"dev"`
}

// HTTPConfig tunes the fiber transport.
type HTTPConfig struct {
	RequestTimeout  time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	CORSOrigins     string        `env:"HTTP_CORS_ORIGINS" envDefault:"*"`
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN           string        `env:"POSTGRES_DSN"`
	MaxConns      int32         `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
	MinConns      int32         `env:"POSTGRES_MIN_CONNS" envDefault:"2"`
	ConnMaxIdle   time.Duration `env:"POSTGRES_CONN_MAX_IDLE" envDefault:"30s"`
	ConnMaxLife   time.Duration `env:"POSTGRES_CONN_MAX_LIFE" envDefault:"5m"`
	RunMigrations bool          `env:"POSTGRES_RUN_MIGRATIONS" envDefault:"true"`
	MigrationsDir string        `env:"MIGRATIONS_DIR" envDefault:"migrations"`
}

// RedisConfig holds Redis connection values. An empty Addr disables event publishing.
type RedisConfig struct {
	Addr          string `env:"REDIS_ADDR"`
	Password      string `env:"REDIS_PASSWORD"`
	DB            int    `env:"REDIS_DB" envDefault:"0"`
	EventsChannel string `env:"REDIS_EVENTS_CHANNEL" envDefault:"employee-directory.events"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// ImageConfig selects and configures the profile image backend.
type ImageConfig struct {
	Driver        string `env:"IMAGE_STORAGE_DRIVER" envDefault:"local"`
	MaxBytes      int64  `env:"IMAGE_MAX_BYTES" envDefault:"5242880"`
	LocalDir      string `env:"IMAGE_LOCAL_DIR" envDefault:"./data/uploads"`
	PublicBaseURL string `env:"IMAGE_PUBLIC_BASE_URL" envDefault:"http://localhost:8080/uploads"`
	Cloudinary    CloudinaryConfig
}

// CloudinaryConfig holds credentials for the hosted image backend.
type CloudinaryConfig struct {
	CloudName string `env:"CLOUDINARY_NAME"`
	APIKey    string `env:"CLOUDINARY_API_KEY"`
	APISecret string `env:"CLOUDINARY_API_SECRET"`
	Folder    string `env:"CLOUDINARY_FOLDER" envDefault:"uploads"`
}

// Image storage drivers.
const (
	ImageDriverLocal      = "local"
	ImageDriverCloudinary = "cloudinary"
)

// Load reads configuration from a .env file (when present) and environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads configuration from the current environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Postgres.DSN) == "" {
		return errors.New("config: POSTGRES_DSN must be set")
	}
	if c.Images.MaxBytes <= 0 {
		return errors.New("config: IMAGE_MAX_BYTES must be positive")
	}
	switch c.Images.Driver {
	case ImageDriverLocal:
		if c.Images.LocalDir == "" {
			return errors.New("config: IMAGE_LOCAL_DIR must be set for the local driver")
		}
	case ImageDriverCloudinary:
		cld := c.Images.Cloudinary
		if cld.CloudName == "" || cld.APIKey == "" || cld.APISecret == "" {
			return errors.New("config: CLOUDINARY_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET must be set")
		}
	default:
		return fmt.Errorf("config: unknown IMAGE_STORAGE_DRIVER %q", c.Images.Driver)
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// Enabled reports whether a Redis address was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.Addr) != ""
}
