package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	AppHost  string
	HTTPPort string
	AppEnv   string
	LogLevel string

	// DataFile is the path to the categorized ticket CSV export.
	DataFile string
	// DateLayout is the Go layout the export's timestamp columns use.
	DateLayout string
}

// DefaultDateLayout matches the export's dd/mm/yyyy hh:mm timestamps.
const DefaultDateLayout = "02/01/2006 15:04"

func Load() (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	cfg := &Config{
		AppHost:    getEnv("APP_HOST", "0.0.0.0"),
		HTTPPort:   firstEnv("APP_PORT", "HTTP_PORT", "8099"),
		AppEnv:     getEnv("APP_ENV", "development"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		DataFile:   getEnv("DATA_FILE", "data/tickets_categorized.csv"),
		DateLayout: getEnv("DATE_LAYOUT", DefaultDateLayout),
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DataFile == "" {
		return errors.New("config: DATA_FILE is required")
	}
	if c.DateLayout == "" {
		return errors.New("config: DATE_LAYOUT must not be empty")
	}
	return nil
}

func (c *Config) Addr() string {
	return c.AppHost + ":" + c.HTTPPort
}

func firstEnv(keysAndDef ...string) string {
	if len(keysAndDef) == 0 {
		return ""
	}
	def := keysAndDef[len(keysAndDef)-1]
	for _, k := range keysAndDef[:len(keysAndDef)-1] {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return def
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
