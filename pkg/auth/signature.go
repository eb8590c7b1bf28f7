// Package auth implements signed-request caller identification. A client
// signs a canonical digest of its request with a secp256k1 key; the gateway
// recovers the public key from the signature and derives the caller address
// from it, so no credential database is needed.
package auth

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Header names carried by signed requests.
const (
	HeaderTimestamp = "X-Registry-Timestamp"
	HeaderSignature = "X-Registry-Signature"
)

// CanonicalMessage builds the byte string both sides sign and verify:
// timestamp, method, path, and the keccak hash of the body, newline-joined.
// The body hash keeps the message fixed-size regardless of payload.
func CanonicalMessage(timestamp int64, method, path string, body []byte) []byte {
	bodyHash := ethcrypto.Keccak256(body)
	msg := fmt.Sprintf("%d\n%s\n%s\n%s",
		timestamp, strings.ToUpper(method), path, hex.EncodeToString(bodyHash))
	return []byte(msg)
}

// Sign produces a 0x-prefixed hex signature over the canonical message.
func Sign(key *ecdsa.PrivateKey, timestamp int64, method, path string, body []byte) (string, error) {
	digest := ethcrypto.Keccak256(CanonicalMessage(timestamp, method, path, body))
	sig, err := ethcrypto.Sign(digest, key)
	if err != nil {
		return "", fmt.Errorf("failed to sign request: %w", err)
	}
	return "0x" + hex.EncodeToString(sig), nil
}

// Recover verifies the signature against the canonical message and returns
// the signer's address.
func Recover(sigHex string, timestamp int64, method, path string, body []byte) (common.Address, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(sigHex, "0x"))
	if err != nil {
		return common.Address{}, fmt.Errorf("malformed signature: %w", err)
	}
	if len(raw) != 65 {
		return common.Address{}, fmt.Errorf("signature must be 65 bytes, got %d", len(raw))
	}

	digest := ethcrypto.Keccak256(CanonicalMessage(timestamp, method, path, body))
	pub, err := ethcrypto.SigToPub(digest, raw)
	if err != nil {
		return common.Address{}, fmt.Errorf("signature recovery failed: %w", err)
	}
	return ethcrypto.PubkeyToAddress(*pub), nil
}
