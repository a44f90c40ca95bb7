// Package config handles loading and parsing application configuration.
// The config file path comes from (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// Every value in the file can also be overridden by the environment
// variable named in its env:"..." tag.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Config is the root configuration structure.
type Config struct {
	// Env controls log format and verbosity: "dev", "staging" or "prod".
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	Storage     Storage     `yaml:"storage"`
	Validation  Validation  `yaml:"validation"`
	Attachments Attachments `yaml:"attachments"`

	// HTTPServer is embedded so cfg.Addr works as well as cfg.HTTPServer.Addr.
	HTTPServer `yaml:"http_server"`
}

// Storage selects where student records live.
type Storage struct {
	// Backend is "memory" (lost on restart) or "sqlite".
	Backend string `yaml:"backend" env:"STORAGE_BACKEND" env-default:"memory"`

	// Path is the SQLite file; ignored by the memory backend.
	Path string `yaml:"path" env:"STORAGE_PATH"`

	// Seed loads the two demo students into an empty store at startup.
	// No env-default here: cleanenv would treat an explicit false as unset.
	Seed bool `yaml:"seed" env:"STORAGE_SEED"`
}

// Validation picks the form rule set: "basic", "email" or "strict".
type Validation struct {
	Profile string `yaml:"profile" env:"VALIDATION_PROFILE" env-default:"strict"`
}

// Attachments limits uploaded files.
type Attachments struct {
	MaxBytes int `yaml:"max_bytes" env:"ATTACHMENTS_MAX_BYTES" env-default:"5242880"`
}

// HTTPServer holds settings specific to the HTTP server.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:8082".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:"localhost:8082"`
}

// Load reads the YAML file at path, applies env overrides and defaults,
// and checks the result.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	if err := cfg.check(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromEnv builds a Config from environment variables and defaults only,
// for running without a file.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("cannot read config from env: %w", err)
	}
	if err := cfg.check(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoad reads, validates, and returns the application config, exiting
// the process on any failure. If this function returns, the config is valid.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	if configPath == "" {
		log.Fatal("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	return cfg
}

func (c *Config) check() error {
	switch c.Storage.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.Storage.Path == "" {
			return errors.New("storage.path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	if c.Attachments.MaxBytes < 0 {
		return errors.New("attachments.max_bytes must not be negative")
	}
	return nil
}
