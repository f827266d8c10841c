package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds service configuration, loaded from an optional YAML file with
// environment variable overrides. Environment always wins so container
// deployments can skip the file entirely.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
}

type ServerConfig struct {
	Addr           string `yaml:"addr"`
	AllowedOrigins string `yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

type RabbitMQConfig struct {
	URL string `yaml:"url"`
}

// ConnString builds a lib/pq connection string.
func (d DatabaseConfig) ConnString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// Load reads the YAML file at path (skipped when path is empty or the file
// does not exist), then applies environment overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		b, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(b, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	overrideString(&cfg.Server.Addr, "SERVER_ADDR", ":8080")
	overrideString(&cfg.Server.AllowedOrigins, "ALLOWED_ORIGINS", "http://localhost:3000")
	overrideString(&cfg.Database.Host, "DB_HOST", "localhost")
	overrideString(&cfg.Database.Port, "DB_PORT", "5432")
	overrideString(&cfg.Database.User, "DB_USER", "")
	overrideString(&cfg.Database.Password, "DB_PASSWORD", "")
	overrideString(&cfg.Database.Name, "DB_NAME", "")
	overrideString(&cfg.Database.SSLMode, "DB_SSLMODE", "disable")
	overrideString(&cfg.RabbitMQ.URL, "RABBITMQ_URL", "")

	return cfg, nil
}

// Validate checks that required database settings are present.
func (c *Config) Validate() error {
	if c.Database.User == "" || c.Database.Password == "" || c.Database.Name == "" {
		return fmt.Errorf("missing required database configuration (DB_USER, DB_PASSWORD, DB_NAME)")
	}
	return nil
}

func overrideString(dst *string, envKey, fallback string) {
	if v := os.Getenv(envKey); v != "" {
		*dst = v
		return
	}
	if *dst == "" {
		*dst = fallback
	}
}
