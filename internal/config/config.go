package config

import (
	"log"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port      string `envconfig:"PORT" default:"8080"`
	DBDSN     string `envconfig:"DB_DSN" default:"mirage.db"`
	StaticDir string `envconfig:"STATIC_DIR" default:"./web/static"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile   string `envconfig:"LOG_FILE" default:""`
}

// Load reads MIRAGE_-prefixed environment variables (falling back to the
// plain names via envconfig defaults) and logs the effective settings.
func Load() Config {
	var cfg Config
	if err := envconfig.Process("mirage", &cfg); err != nil {
		log.Fatalf("[config] %v", err)
	}
	log.Printf("[config] PORT=%s DB_DSN=%s STATIC_DIR=%s LOG_LEVEL=%s", cfg.Port, cfg.DBDSN, cfg.StaticDir, cfg.LogLevel)
	return cfg
}
