package client

import "time"

// ClientConfig holds connection and identity settings for a registry client.
type ClientConfig struct {
	// BaseURL is the gateway's HTTP base, e.g. "http://localhost:6820".
	BaseURL string

	// PrivateKeyHex is the secp256k1 key used to sign mutating requests,
	// hex-encoded with or without a 0x prefix. Optional for read-only use.
	PrivateKeyHex string

	// DevCaller, when set, is sent as the X-Caller header instead of a
	// signature. Only honored by gateways running in dev mode.
	DevCaller string

	// AdminToken unlocks the deposit faucet. Optional.
	AdminToken string

	// RequestTimeout bounds each HTTP call.
	RequestTimeout time.Duration

	// QuietMode suppresses client logging.
	QuietMode bool
}

// DefaultConfig returns a config pointed at a local gateway.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:        "http://localhost:6820",
		RequestTimeout: 30 * time.Second,
	}
}
