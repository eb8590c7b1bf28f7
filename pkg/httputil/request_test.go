package httputil

import (
	"math/big"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseAddress(t *testing.T) {
	addr, ok := ParseAddress("0x1111111111111111111111111111111111111111")
	if !ok {
		t.Fatalf("expected valid address")
	}
	if addr.Hex() != "0x1111111111111111111111111111111111111111" {
		t.Fatalf("unexpected address: %s", addr.Hex())
	}

	// Whitespace is tolerated, garbage is not.
	if _, ok := ParseAddress("  0x1111111111111111111111111111111111111111 "); !ok {
		t.Fatalf("expected whitespace to be trimmed")
	}
	for _, bad := range []string{"", "0x123", "not-an-address", "0xZZ11111111111111111111111111111111111111"} {
		if _, ok := ParseAddress(bad); ok {
			t.Errorf("ParseAddress(%q) should fail", bad)
		}
	}
}

func TestParseAmount(t *testing.T) {
	n, ok := ParseAmount("1000000000000000000")
	if !ok || n.Cmp(big.NewInt(1000000000000000000)) != 0 {
		t.Fatalf("unexpected result: %v %v", n, ok)
	}
	if n, ok := ParseAmount("0"); !ok || n.Sign() != 0 {
		t.Fatalf("zero should parse")
	}
	for _, bad := range []string{"", "-1", "1.5", "0x10", "abc"} {
		if _, ok := ParseAmount(bad); ok {
			t.Errorf("ParseAmount(%q) should fail", bad)
		}
	}
}

func TestDecodeJSONStrict(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"strutil"}`))
	var p payload
	if err := DecodeJSONStrict(r, &p); err != nil || p.Name != "strutil" {
		t.Fatalf("decode failed: %v %+v", err, p)
	}

	r = httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"x","bogus":1}`))
	if err := DecodeJSONStrict(r, &p); err == nil {
		t.Fatalf("unknown fields should be rejected")
	}
}

func TestExtractBearerToken(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	if tok := ExtractBearerToken(r); tok != "" {
		t.Fatalf("expected empty token, got %q", tok)
	}
	r.Header.Set("Authorization", "Bearer secret-token")
	if tok := ExtractBearerToken(r); tok != "secret-token" {
		t.Fatalf("unexpected token %q", tok)
	}
	r.Header.Set("Authorization", "Basic dXNlcg==")
	if tok := ExtractBearerToken(r); tok != "" {
		t.Fatalf("non-bearer scheme should yield empty token")
	}
}

func TestQueryParam(t *testing.T) {
	r := httptest.NewRequest("GET", "/?limit=5", nil)
	if got := QueryParam(r, "limit", "100"); got != "5" {
		t.Fatalf("expected 5, got %s", got)
	}
	if got := QueryParam(r, "type", "all"); got != "all" {
		t.Fatalf("expected default, got %s", got)
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, 404, "NOT_FOUND", "library does not exist")
	if w.Code != 404 {
		t.Fatalf("unexpected status %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"code":"NOT_FOUND"`) || !strings.Contains(body, `"error":"library does not exist"`) {
		t.Fatalf("unexpected body: %s", body)
	}
}
