package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultEnvFiles are loaded, when present, before the config is read.
var DefaultEnvFiles = []string{".env", ".envtemplate"}

// Environment variables consulted when the YAML leaves credentials empty.
const (
	EnvEmail          = "EMAIL"
	EnvPassword       = "PASSWORD"
	EnvAPIKey         = "KALSHI_API_KEY_ID"
	EnvPrivateKeyPath = "KALSHI_PRIVATE_KEY_PATH"
)

// LoadEnvFiles loads each existing file into the process environment.
// Variables already set are never overridden. Missing files are skipped.
func LoadEnvFiles(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load env file %s: %w", p, err)
		}
	}
	return nil
}

// Load reads a YAML config file and expands environment variables.
// An empty path yields a zero Config populated only from the environment.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		// Expand ${VAR} environment variables
		expanded := os.ExpandEnv(string(data))

		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config yaml: %w", err)
		}
	}

	cfg.applyEnv()
	return &cfg, nil
}

// LoadWithDefaults loads config and applies default values.
func LoadWithDefaults(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadAndValidate loads config, applies defaults, and validates.
func LoadAndValidate(path string) (*Config, error) {
	cfg, err := LoadWithDefaults(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if c.API.Email == "" {
		c.API.Email = os.Getenv(EnvEmail)
	}
	if c.API.Password == "" {
		c.API.Password = os.Getenv(EnvPassword)
	}
	if c.API.APIKey == "" {
		c.API.APIKey = os.Getenv(EnvAPIKey)
	}
	if c.API.PrivateKeyPath == "" {
		c.API.PrivateKeyPath = os.Getenv(EnvPrivateKeyPath)
	}
}
