package main

import (
	"flag"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/libvault/registry/pkg/config"
	"github.com/libvault/registry/pkg/logging"
)

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func getEnvBoolDefault(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return def
	}
}

// parseDaemonConfig loads configuration for the daemon.
// Priority: flags > env > config file > defaults.
func parseDaemonConfig(logger *logging.ColoredLogger) *config.Config {
	configPath := flag.String("config", getEnvDefault("REGISTRY_CONFIG", ""), "Path to a YAML config file")
	addr := flag.String("addr", getEnvDefault("REGISTRY_ADDR", ""), "HTTP listen address (e.g., :6820)")
	storePath := flag.String("store", getEnvDefault("REGISTRY_STORE", ""), "SQLite database path; empty runs in-memory only")
	devMode := flag.Bool("dev", getEnvBoolDefault("REGISTRY_DEV_MODE", false), "Accept X-Caller header instead of signed requests")
	adminHash := flag.String("admin-token-hash", getEnvDefault("REGISTRY_ADMIN_TOKEN_HASH", ""), "bcrypt hash of the deposit faucet token")
	skew := flag.Duration("max-clock-skew", 0, "Max age of signed request timestamps")

	// Do not call flag.Parse() elsewhere to avoid double-parsing
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadFile(*configPath)
		if err != nil {
			logger.ComponentError(logging.ComponentGeneral, "failed to load config file",
				zap.String("path", *configPath), zap.Error(err))
			os.Exit(1)
		}
		cfg = loaded
	}

	if *addr != "" {
		cfg.Gateway.ListenAddr = *addr
	}
	if *storePath != "" {
		cfg.Store.Path = *storePath
	}
	if *devMode {
		cfg.Auth.DevMode = true
	}
	if *adminHash != "" {
		cfg.Auth.AdminTokenHash = *adminHash
	}
	if *skew > 0 {
		cfg.Auth.MaxClockSkew = *skew
	}
	if err := cfg.Validate(); err != nil {
		logger.ComponentError(logging.ComponentGeneral, "invalid configuration", zap.Error(err))
		os.Exit(1)
	}

	logger.ComponentInfo(logging.ComponentGeneral, "Loaded registry configuration",
		zap.String("addr", cfg.Gateway.ListenAddr),
		zap.String("store", cfg.Store.Path),
		zap.Bool("dev_mode", cfg.Auth.DevMode),
		zap.Duration("request_timeout", cfg.Gateway.RequestTimeout),
	)
	return cfg
}
