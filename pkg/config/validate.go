package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration for values that would make the daemon
// misbehave at runtime.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Gateway.ListenAddr) == "" {
		return fmt.Errorf("gateway.listen_addr cannot be empty")
	}
	if c.Gateway.RequestTimeout <= 0 {
		return fmt.Errorf("gateway.request_timeout must be positive")
	}
	if c.Gateway.MaxBodyBytes <= 0 {
		return fmt.Errorf("gateway.max_body_bytes must be positive")
	}
	if c.Auth.MaxClockSkew <= 0 {
		return fmt.Errorf("auth.max_clock_skew must be positive")
	}
	return nil
}
