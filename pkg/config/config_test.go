package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestDecodeStrictOverlaysDefaults(t *testing.T) {
	yaml := `
gateway:
  listen_addr: ":9000"
store:
  path: /var/lib/registry/registry.db
auth:
  dev_mode: true
`
	cfg := Default()
	if err := DecodeStrict(strings.NewReader(yaml), cfg); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if cfg.Gateway.ListenAddr != ":9000" {
		t.Fatalf("unexpected listen addr: %s", cfg.Gateway.ListenAddr)
	}
	if cfg.Store.Path != "/var/lib/registry/registry.db" {
		t.Fatalf("unexpected store path: %s", cfg.Store.Path)
	}
	if !cfg.Auth.DevMode {
		t.Fatalf("dev_mode not set")
	}
	// Untouched values keep their defaults.
	if cfg.Gateway.RequestTimeout != 30*time.Second {
		t.Fatalf("request timeout overwritten: %s", cfg.Gateway.RequestTimeout)
	}
	if cfg.Auth.MaxClockSkew != 5*time.Minute {
		t.Fatalf("clock skew overwritten: %s", cfg.Auth.MaxClockSkew)
	}
}

func TestDecodeStrictRejectsUnknownFields(t *testing.T) {
	yaml := `
gateway:
  listen_adr: ":9000"
`
	cfg := Default()
	if err := DecodeStrict(strings.NewReader(yaml), cfg); err == nil {
		t.Fatalf("typo'd field should be rejected")
	}
}

func TestValidateCatchesBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty listen addr", func(c *Config) { c.Gateway.ListenAddr = " " }},
		{"zero timeout", func(c *Config) { c.Gateway.RequestTimeout = 0 }},
		{"zero body cap", func(c *Config) { c.Gateway.MaxBodyBytes = 0 }},
		{"zero clock skew", func(c *Config) { c.Auth.MaxClockSkew = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
