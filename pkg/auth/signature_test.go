package auth

import (
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

func TestSignAndRecoverRoundTrip(t *testing.T) {
	key, err := ethcrypto.GenerateKey()
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	want := ethcrypto.PubkeyToAddress(key.PublicKey)

	body := []byte(`{"name":"strutil"}`)
	sig, err := Sign(key, 1700000000, "POST", "/v1/libraries", body)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	got, err := Recover(sig, 1700000000, "POST", "/v1/libraries", body)
	if err != nil {
		t.Fatalf("recover failed: %v", err)
	}
	if got != want {
		t.Fatalf("recovered %s, want %s", got.Hex(), want.Hex())
	}
}

func TestRecoverDetectsTampering(t *testing.T) {
	key, _ := ethcrypto.GenerateKey()
	want := ethcrypto.PubkeyToAddress(key.PublicKey)
	sig, err := Sign(key, 1700000000, "POST", "/v1/libraries", []byte(`{"name":"a"}`))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	// Any altered field yields a different recovered address (or an error),
	// never the signer's.
	cases := []struct {
		name               string
		ts                 int64
		method, path, body string
	}{
		{"timestamp", 1700000001, "POST", "/v1/libraries", `{"name":"a"}`},
		{"method", 1700000000, "DELETE", "/v1/libraries", `{"name":"a"}`},
		{"path", 1700000000, "POST", "/v1/libraries/x", `{"name":"a"}`},
		{"body", 1700000000, "POST", "/v1/libraries", `{"name":"b"}`},
	}
	for _, tc := range cases {
		got, err := Recover(sig, tc.ts, tc.method, tc.path, []byte(tc.body))
		if err == nil && got == want {
			t.Errorf("%s: tampered request recovered the signer's address", tc.name)
		}
	}
}

func TestRecoverRejectsMalformedSignatures(t *testing.T) {
	if _, err := Recover("0xzz", 0, "GET", "/", nil); err == nil {
		t.Fatalf("expected error for non-hex signature")
	}
	if _, err := Recover("0xdeadbeef", 0, "GET", "/", nil); err == nil {
		t.Fatalf("expected error for short signature")
	}
}

func TestCanonicalMessageNormalizesMethod(t *testing.T) {
	a := CanonicalMessage(1, "post", "/v1/libraries", nil)
	b := CanonicalMessage(1, "POST", "/v1/libraries", nil)
	if string(a) != string(b) {
		t.Fatalf("method casing should not change the message")
	}
}
