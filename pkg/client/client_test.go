package client

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/libvault/registry/pkg/auth"
)

func TestNewValidatesConfig(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatalf("nil config should be rejected")
	}
	if _, err := New(&ClientConfig{}); err == nil {
		t.Fatalf("empty base URL should be rejected")
	}
	if _, err := New(&ClientConfig{BaseURL: "http://x", PrivateKeyHex: "zz"}); err == nil {
		t.Fatalf("malformed key should be rejected")
	}
}

func TestSignedRequestHeaders(t *testing.T) {
	key, err := ethcrypto.GenerateKey()
	if err != nil {
		t.Fatalf("keygen failed: %v", err)
	}
	want := ethcrypto.PubkeyToAddress(key.PublicKey)

	var recovered string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sig := r.Header.Get(auth.HeaderSignature)
		tsHeader := r.Header.Get(auth.HeaderTimestamp)
		if sig == "" || tsHeader == "" {
			t.Errorf("missing signature headers")
		}
		ts, err := strconv.ParseInt(tsHeader, 10, 64)
		if err != nil {
			t.Errorf("bad timestamp header %q: %v", tsHeader, err)
		}
		body, _ := io.ReadAll(r.Body)
		addr, err := auth.Recover(sig, ts, r.Method, r.URL.Path, body)
		if err != nil {
			t.Errorf("recover failed: %v", err)
		}
		recovered = addr.Hex()
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	c, err := New(&ClientConfig{
		BaseURL:       server.URL,
		PrivateKeyHex: "0x" + hex.EncodeToString(ethcrypto.FromECDSA(key)),
		QuietMode:     true,
	})
	if err != nil {
		t.Fatalf("client init failed: %v", err)
	}
	if c.Address() != want.Hex() {
		t.Fatalf("derived address %s, want %s", c.Address(), want.Hex())
	}

	if err := c.Register(context.Background(), "strutil", RegisterOptions{}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if recovered != want.Hex() {
		t.Fatalf("gateway recovered %s, want %s", recovered, want.Hex())
	}
}

func TestAPIErrorDecoding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{
			"code":  "NAME_CONFLICT",
			"error": "library name already exists",
		})
	}))
	defer server.Close()

	c, err := New(&ClientConfig{BaseURL: server.URL, DevCaller: "0x0000000000000000000000000000000000000001", QuietMode: true})
	if err != nil {
		t.Fatalf("client init failed: %v", err)
	}

	err = c.Register(context.Background(), "strutil", RegisterOptions{})
	if err == nil {
		t.Fatalf("expected error")
	}
	if ErrorCode(err) != "NAME_CONFLICT" {
		t.Fatalf("unexpected code %q", ErrorCode(err))
	}
	apiErr, ok := err.(*APIError)
	if !ok || apiErr.Status != http.StatusConflict {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBalanceParsing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"address": "0x0000000000000000000000000000000000000001",
			"balance": "123456789012345678901234567890",
		})
	}))
	defer server.Close()

	c, _ := New(&ClientConfig{BaseURL: server.URL, QuietMode: true})
	bal, err := c.Balance(context.Background(), "0x0000000000000000000000000000000000000001")
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	want, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	if bal.Cmp(want) != 0 {
		t.Fatalf("unexpected balance %s", bal)
	}
}

func TestEventsURL(t *testing.T) {
	c, _ := New(&ClientConfig{BaseURL: "https://registry.example.com", QuietMode: true})
	u, err := c.eventsURL("version.published")
	if err != nil {
		t.Fatalf("eventsURL failed: %v", err)
	}
	want := "wss://registry.example.com/v1/events/ws?type=version.published"
	if u != want {
		t.Fatalf("got %s, want %s", u, want)
	}

	c, _ = New(&ClientConfig{BaseURL: "http://localhost:6820", QuietMode: true})
	u, _ = c.eventsURL("")
	if u != "ws://localhost:6820/v1/events/ws" {
		t.Fatalf("got %s", u)
	}
}
