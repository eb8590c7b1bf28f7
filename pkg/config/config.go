package config

import (
	"time"
)

// Config is the root configuration for the registry daemon.
type Config struct {
	Gateway GatewayConfig `yaml:"gateway"`
	Store   StoreConfig   `yaml:"store"`
	Auth    AuthConfig    `yaml:"auth"`
	Logging LoggingConfig `yaml:"logging"`
}

// GatewayConfig contains HTTP gateway configuration.
type GatewayConfig struct {
	ListenAddr     string        `yaml:"listen_addr"`     // e.g. ":6820"
	RequestTimeout time.Duration `yaml:"request_timeout"` // per-request middleware timeout
	MaxBodyBytes   int64         `yaml:"max_body_bytes"`  // request body cap
}

// StoreConfig contains durable store configuration.
type StoreConfig struct {
	// Path is the SQLite database file. Empty disables persistence and the
	// registry runs purely in memory.
	Path string `yaml:"path"`
}

// AuthConfig controls how the gateway establishes caller identity.
type AuthConfig struct {
	// DevMode accepts a bare X-Caller header instead of a signed request.
	// Never enable outside local development.
	DevMode bool `yaml:"dev_mode"`

	// MaxClockSkew bounds the age of a signed request timestamp.
	MaxClockSkew time.Duration `yaml:"max_clock_skew"`

	// AdminTokenHash is the bcrypt hash of the token that gates the
	// deposit faucet. Empty disables the faucet.
	AdminTokenHash string `yaml:"admin_token_hash"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Colors bool   `yaml:"colors"`
	File   string `yaml:"file"` // empty logs to stdout
}

// Default returns the configuration used when no file is provided.
func Default() *Config {
	return &Config{
		Gateway: GatewayConfig{
			ListenAddr:     ":6820",
			RequestTimeout: 30 * time.Second,
			MaxBodyBytes:   1 << 20,
		},
		Auth: AuthConfig{
			MaxClockSkew: 5 * time.Minute,
		},
		Logging: LoggingConfig{
			Colors: true,
		},
	}
}
