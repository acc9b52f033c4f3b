package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Driver string

const (
	DriverMemory   Driver = "memory"
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

type Config struct {
	Port    string `mapstructure:"PORT"`
	Env     string `mapstructure:"ENV"`
	AppName string `mapstructure:"APP_NAME"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	DBDriver       Driver `mapstructure:"DB_DRIVER"`
	DBDSN          string `mapstructure:"DB_DSN"`
	DBMaxOpenConns int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	SQLitePath     string `mapstructure:"SQLITE_PATH"`

	// Zona horaria de la medianoche del refresco diario.
	RefreshTimezone string `mapstructure:"REFRESH_TIMEZONE"`

	MetricsEnabled bool `mapstructure:"METRICS_ENABLED"`
}

var keys = []string{
	"PORT", "ENV", "APP_NAME",
	"LOG_LEVEL", "LOG_FORMAT",
	"DB_DRIVER", "DB_DSN", "DB_MAX_OPEN_CONNS", "SQLITE_PATH",
	"REFRESH_TIMEZONE", "METRICS_ENABLED",
}

// Load lee variables de entorno y, si existe, un .env en el directorio actual.
func Load() (*Config, error) {
	return load(".env")
}

func load(envFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("APP_NAME", "estancia-digital")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("DB_DRIVER", string(DriverMemory))
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("SQLITE_PATH", "estancia.db")
	v.SetDefault("REFRESH_TIMEZONE", "Local")
	v.SetDefault("METRICS_ENABLED", true)

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// El .env es opcional.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.DBDriver = Driver(strings.ToLower(strings.TrimSpace(string(cfg.DBDriver))))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate revisa que driver y DSN sean coherentes.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverMemory:
	case DriverPostgres:
		if strings.TrimSpace(c.DBDSN) == "" {
			return fmt.Errorf("DB_DSN is required when DB_DRIVER=postgres")
		}
	case DriverSQLite:
		if strings.TrimSpace(c.DSN()) == "" {
			return fmt.Errorf("SQLITE_PATH or DB_DSN is required when DB_DRIVER=sqlite")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q (memory, postgres, sqlite)", c.DBDriver)
	}

	if c.DBMaxOpenConns < 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be >= 0")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("REFRESH_TIMEZONE: %w", err)
	}
	return nil
}

// DSN resuelve la cadena de conexión; en SQLite cae a SQLITE_PATH.
func (c *Config) DSN() string {
	if c.DBDriver == DriverSQLite && strings.TrimSpace(c.DBDSN) == "" {
		return c.SQLitePath
	}
	return c.DBDSN
}

func (c *Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.RefreshTimezone)
	if tz == "" || tz == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(tz)
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}
