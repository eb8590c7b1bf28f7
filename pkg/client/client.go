// Package client is the Go client library for the registry gateway. It
// mirrors every gateway operation, signing mutating requests with the
// configured key so the gateway can recover the caller's address.
package client

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/libvault/registry/pkg/auth"
)

// Client talks to one registry gateway.
type Client struct {
	config *ClientConfig
	http   *http.Client
	key    *ecdsa.PrivateKey // nil for read-only clients
	logger *zap.Logger
}

// New creates a client from the given config.
func New(config *ClientConfig) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if config.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	var key *ecdsa.PrivateKey
	if config.PrivateKeyHex != "" {
		k, err := ethcrypto.HexToECDSA(strings.TrimPrefix(config.PrivateKeyHex, "0x"))
		if err != nil {
			return nil, fmt.Errorf("failed to parse private key: %w", err)
		}
		key = k
	}

	logger := zap.NewNop()
	if !config.QuietMode {
		l, err := zap.NewProduction()
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
		logger = l
	}

	timeout := config.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		config: config,
		http:   &http.Client{Timeout: timeout},
		key:    key,
		logger: logger,
	}, nil
}

// Address returns the caller address derived from the configured key, or ""
// for a read-only client.
func (c *Client) Address() string {
	if c.key == nil {
		return ""
	}
	return ethcrypto.PubkeyToAddress(c.key.PublicKey).Hex()
}

// do performs one request against the gateway, signing it when the client
// holds a key, and decodes the JSON response into out (may be nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		payload = b
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	switch {
	case c.config.DevCaller != "":
		req.Header.Set("X-Caller", c.config.DevCaller)
	case c.key != nil:
		ts := time.Now().Unix()
		sig, err := auth.Sign(c.key, ts, method, path, payload)
		if err != nil {
			return fmt.Errorf("failed to sign request: %w", err)
		}
		req.Header.Set(auth.HeaderTimestamp, fmt.Sprintf("%d", ts))
		req.Header.Set(auth.HeaderSignature, sig)
	}
	if c.config.AdminToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.AdminToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if json.Unmarshal(data, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}
