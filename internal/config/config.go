package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Database drivers
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Asset providers
const (
	AssetsLocal      = "local"
	AssetsCloudinary = "cloudinary"
	AssetsS3         = "s3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port            string        `yaml:"port" env:"SERVER_PORT"`
		Mode            string        `yaml:"mode" env:"SERVER_MODE"`
		PublicURL       string        `yaml:"public_url" env:"SERVER_PUBLIC_URL"`
		StoragePath     string        `yaml:"storage_path" env:"SERVER_STORAGE_PATH"`
		ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
	} `yaml:"server"`

	Database struct {
		Driver          string `yaml:"driver" env:"DB_DRIVER"`
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
		Seed            bool   `yaml:"seed" env:"DB_SEED"`
	} `yaml:"database"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Assets struct {
		Provider        string `yaml:"provider" env:"ASSETS_PROVIDER"`
		Endpoint        string `yaml:"endpoint" env:"ASSETS_ENDPOINT"`
		UploadPreset    string `yaml:"upload_preset" env:"ASSETS_UPLOAD_PRESET"`
		S3Bucket        string `yaml:"s3_bucket" env:"ASSETS_S3_BUCKET"`
		S3Region        string `yaml:"s3_region" env:"ASSETS_S3_REGION"`
		S3Prefix        string `yaml:"s3_prefix" env:"ASSETS_S3_PREFIX"`
		S3PublicBaseURL string `yaml:"s3_public_base_url" env:"ASSETS_S3_PUBLIC_BASE_URL"`
	} `yaml:"assets"`

	RateLimit struct {
		Enabled bool    `yaml:"enabled" env:"RATE_LIMIT_ENABLED"`
		RPS     float64 `yaml:"rps" env:"RATE_LIMIT_RPS"`
		Burst   int     `yaml:"burst" env:"RATE_LIMIT_BURST"`
	} `yaml:"rate_limit"`

	Metrics struct {
		Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED"`
		Path    string `yaml:"path" env:"METRICS_PATH"`
	} `yaml:"metrics"`

	Mail struct {
		Host      string        `yaml:"host" env:"MAIL_HOST"`
		Port      int           `yaml:"port" env:"MAIL_PORT"`
		Username  string        `yaml:"username" env:"MAIL_USERNAME"`
		Password  string        `yaml:"password" env:"MAIL_PASSWORD"`
		FromName  string        `yaml:"from_name" env:"MAIL_FROM_NAME"`
		FromEmail string        `yaml:"from_email" env:"MAIL_FROM_EMAIL"`
		UseTLS    bool          `yaml:"use_tls" env:"MAIL_USE_TLS"`
		NotifyTo  string        `yaml:"notify_to" env:"MAIL_NOTIFY_TO"`
		Timeout   time.Duration `yaml:"timeout" env:"MAIL_TIMEOUT"`
	} `yaml:"mail"`

	Client struct {
		BaseURL           string        `yaml:"base_url" env:"CATALOG_API_URL"`
		Timeout           time.Duration `yaml:"timeout" env:"CATALOG_TIMEOUT"`
		AdminUser         string        `yaml:"admin_user" env:"CATALOG_ADMIN_USER"`
		FormationPageSize int           `yaml:"formation_page_size" env:"CATALOG_FORMATION_PAGE_SIZE"`
		AdminPageSize     int           `yaml:"admin_page_size" env:"CATALOG_ADMIN_PAGE_SIZE"`
		GalleryPageSize   int           `yaml:"gallery_page_size" env:"CATALOG_GALLERY_PAGE_SIZE"`
		SearchDebounce    time.Duration `yaml:"search_debounce" env:"CATALOG_SEARCH_DEBOUNCE"`
	} `yaml:"client"`
}

// LoadConfig loads configuration from defaults, an optional YAML file, an
// optional .env file and finally the process environment.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// .env never overrides variables already present in the environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Default returns a configuration populated with defaults only.
func Default() *Config {
	config := &Config{}
	setDefaults(config)
	return config
}

func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.StoragePath = "uploads"
	config.Server.ReadTimeout = 10 * time.Second
	config.Server.WriteTimeout = 30 * time.Second
	config.Server.ShutdownTimeout = 10 * time.Second

	config.Database.Driver = DriverPostgres
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "vitrine"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"
	config.Database.Seed = true

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Assets.Provider = AssetsLocal
	config.Assets.UploadPreset = "institue"

	config.RateLimit.Enabled = true
	config.RateLimit.RPS = 5
	config.RateLimit.Burst = 10

	config.Metrics.Enabled = true
	config.Metrics.Path = "/metrics"

	// no host means notification mails are logged and skipped
	config.Mail.Port = 587
	config.Mail.FromName = "Institut"
	config.Mail.Timeout = 10 * time.Second

	config.Client.BaseURL = "http://localhost:8080/api/v1"
	config.Client.Timeout = 15 * time.Second
	config.Client.AdminUser = "admin"
	config.Client.FormationPageSize = 9
	config.Client.AdminPageSize = 20
	config.Client.GalleryPageSize = 12
	config.Client.SearchDebounce = 400 * time.Millisecond
}

func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case DriverPostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
			return fmt.Errorf("invalid database connection lifetime: %w", err)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}

	if config.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	switch config.Assets.Provider {
	case AssetsLocal:
	case AssetsCloudinary:
		if config.Assets.Endpoint == "" || config.Assets.UploadPreset == "" {
			return fmt.Errorf("cloudinary assets require endpoint and upload_preset")
		}
	case AssetsS3:
		if config.Assets.S3Bucket == "" {
			return fmt.Errorf("s3 assets require s3_bucket")
		}
	default:
		return fmt.Errorf("unsupported assets provider %q", config.Assets.Provider)
	}

	if config.RateLimit.Enabled && (config.RateLimit.RPS <= 0 || config.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit rps and burst must be positive")
	}

	if config.Mail.Host != "" {
		if config.Mail.Port < 1 || config.Mail.Port > 65535 {
			return fmt.Errorf("mail port must be between 1 and 65535")
		}
		if config.Mail.FromEmail == "" {
			return fmt.Errorf("mail from_email is required when mail host is set")
		}
	}

	for name, size := range map[string]int{
		"formation_page_size": config.Client.FormationPageSize,
		"admin_page_size":     config.Client.AdminPageSize,
		"gallery_page_size":   config.Client.GalleryPageSize,
	} {
		if size < 1 || size > 100 {
			return fmt.Errorf("client %s must be between 1 and 100", name)
		}
	}

	if d := config.Client.SearchDebounce; d < 300*time.Millisecond || d > 500*time.Millisecond {
		return fmt.Errorf("client search_debounce must be between 300ms and 500ms, got %s", d)
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// PublicBaseURL is the externally reachable origin of the server, used to
// build URLs of locally stored assets.
func (c *Config) PublicBaseURL() string {
	if c.Server.PublicURL != "" {
		return strings.TrimRight(c.Server.PublicURL, "/")
	}
	return "http://localhost:" + c.Server.Port
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production")
}
