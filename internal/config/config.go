package config

import "time"

// Config is the root configuration for the bracket client.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Brackets BracketsConfig `yaml:"brackets"`
	Log      LogConfig      `yaml:"log"`
	Database DBConfig       `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
	Stream   StreamConfig   `yaml:"stream"`
	Poller   PollerConfig   `yaml:"poller"`
}

// APIConfig holds Kalshi API settings.
type APIConfig struct {
	RestURL        string        `yaml:"rest_url"`
	WSURL          string        `yaml:"ws_url"`
	Email          string        `yaml:"email"`            // Login email (falls back to $EMAIL)
	Password       string        `yaml:"password"`         // Login password (falls back to $PASSWORD)
	APIKey         string        `yaml:"api_key"`          // API key ID (for KALSHI-ACCESS-KEY header)
	PrivateKeyPath string        `yaml:"private_key_path"` // Path to RSA private key PEM file
	Timeout        time.Duration `yaml:"timeout"`
	MaxRetries     *int          `yaml:"max_retries"` // nil means DefaultMaxRetries; 0 disables retries
	RetryBackoff   time.Duration `yaml:"retry_backoff"`
}

// Retries returns the configured retry count, or DefaultMaxRetries when
// max_retries is absent.
func (a APIConfig) Retries() int {
	if a.MaxRetries == nil {
		return DefaultMaxRetries
	}
	return *a.MaxRetries
}

// HasLogin reports whether email/password credentials are configured.
func (a APIConfig) HasLogin() bool {
	return a.Email != "" && a.Password != ""
}

// HasKey reports whether API key signing is configured.
func (a APIConfig) HasKey() bool {
	return a.APIKey != "" && a.PrivateKeyPath != ""
}

// BracketsConfig selects which markets make up a day's snapshot.
type BracketsConfig struct {
	SeriesTicker   string `yaml:"series_ticker"`
	OrderbookDepth int    `yaml:"orderbook_depth"` // 0 = all levels
}

// LogConfig controls the slog handler built in main.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// DBConfig holds the optional PostgreSQL archive connection.
type DBConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// CacheConfig holds the optional Redis publisher settings.
type CacheConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// StreamConfig holds WebSocket settings for watch mode.
type StreamConfig struct {
	Channels     []string      `yaml:"channels"`
	PingTimeout  time.Duration `yaml:"ping_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	BufferSize   int           `yaml:"buffer_size"`
}

// PollerConfig holds settings for repeated combined fetches.
type PollerConfig struct {
	Interval time.Duration `yaml:"interval"` // 0 = fetch once
}
