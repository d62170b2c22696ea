package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// DatabaseConfig holds PostgreSQL connection settings.
// URL takes precedence; the discrete fields are used to build a DSN when it is empty.
type DatabaseConfig struct {
	URL                string `koanf:"url" validate:"required_without=Host"`
	Host               string `koanf:"host"`
	Port               string `koanf:"port"`
	User               string `koanf:"user"`
	Password           string `koanf:"password"`
	Name               string `koanf:"name"`
	SSLMode            string `koanf:"sslmode"`
	MaxOpenConns       int    `koanf:"max_open_conns" validate:"gte=0"`
	MaxIdleConns       int    `koanf:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetimeSec int    `koanf:"conn_max_lifetime_sec" validate:"gte=0"`
}

// MinIOConfig holds object storage settings for realtor photos.
// Photo uploads are disabled when Endpoint is empty.
type MinIOConfig struct {
	Endpoint     string `koanf:"endpoint"`
	AccessKey    string `koanf:"access_key" validate:"required_with=Endpoint"`
	SecretKey    string `koanf:"secret_key" validate:"required_with=Endpoint"`
	Bucket       string `koanf:"bucket" validate:"required_with=Endpoint"`
	UseSSL       bool   `koanf:"use_ssl"`
	URLExpirySec int    `koanf:"url_expiry_sec" validate:"gte=0"`
}

// Enabled reports whether object storage is configured.
func (c MinIOConfig) Enabled() bool {
	return c.Endpoint != ""
}

// LogConfig selects the zerolog level and output format.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// AppConfig is the centralized configuration struct for the application.
type AppConfig struct {
	AppHost            string         `koanf:"app_host" validate:"required"`
	Port               string         `koanf:"port" validate:"required,numeric"`
	RequestTimeoutSec  int            `koanf:"request_timeout_sec" validate:"gte=1"`
	ShutdownTimeoutSec int            `koanf:"shutdown_timeout_sec" validate:"gte=1"`
	Database           DatabaseConfig `koanf:"database"`
	MinIO              MinIOConfig    `koanf:"minio"`
	Log                LogConfig      `koanf:"log"`
}

// Addr is the listen address.
func (c *AppConfig) Addr() string {
	return c.AppHost + ":" + c.Port
}

// envKeys maps environment variables onto koanf key paths. Anything else in the
// environment is ignored.
var envKeys = map[string]string{
	"APP_HOST":                 "app_host",
	"PORT":                     "port",
	"REQUEST_TIMEOUT_SEC":      "request_timeout_sec",
	"SHUTDOWN_TIMEOUT_SEC":     "shutdown_timeout_sec",
	"DATABASE_URL":             "database.url",
	"DB_HOST":                  "database.host",
	"DB_PORT":                  "database.port",
	"DB_USER":                  "database.user",
	"DB_PASSWORD":              "database.password",
	"DB_NAME":                  "database.name",
	"DB_SSLMODE":               "database.sslmode",
	"DB_MAX_OPEN_CONNS":        "database.max_open_conns",
	"DB_MAX_IDLE_CONNS":        "database.max_idle_conns",
	"DB_CONN_MAX_LIFETIME_SEC": "database.conn_max_lifetime_sec",
	"MINIO_ENDPOINT":           "minio.endpoint",
	"MINIO_ACCESS_KEY":         "minio.access_key",
	"MINIO_SECRET_KEY":         "minio.secret_key",
	"MINIO_BUCKET":             "minio.bucket",
	"MINIO_USE_SSL":            "minio.use_ssl",
	"PHOTO_URL_EXPIRY_SEC":     "minio.url_expiry_sec",
	"LOG_LEVEL":                "log.level",
	"LOG_FORMAT":               "log.format",
}

// Load reads configuration from environment variables (.env is auto-loaded if present;
// real environment variables take precedence), applies defaults and validates the result.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider("", ".", func(s string) string {
		return envKeys[s]
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &AppConfig{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	applyDefaults(cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyDefaults(c *AppConfig) {
	setDefault(&c.AppHost, "127.0.0.1")
	setDefault(&c.Port, "8080")
	setDefaultInt(&c.RequestTimeoutSec, 5)
	setDefaultInt(&c.ShutdownTimeoutSec, 10)

	setDefault(&c.Database.Port, "5432")
	setDefault(&c.Database.SSLMode, "disable")
	setDefaultInt(&c.Database.MaxOpenConns, 10)
	setDefaultInt(&c.Database.MaxIdleConns, 5)
	setDefaultInt(&c.Database.ConnMaxLifetimeSec, 300)

	setDefaultInt(&c.MinIO.URLExpirySec, 7*24*60*60)

	setDefault(&c.Log.Level, "info")
	setDefault(&c.Log.Format, "json")
	c.Log.Level = strings.ToLower(c.Log.Level)
	c.Log.Format = strings.ToLower(c.Log.Format)
}

func setDefault(v *string, def string) {
	if *v == "" {
		*v = def
	}
}

func setDefaultInt(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}
