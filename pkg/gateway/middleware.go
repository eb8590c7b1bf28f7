package gateway

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/libvault/registry/pkg/auth"
	"github.com/libvault/registry/pkg/httputil"
	"github.com/libvault/registry/pkg/logging"
)

type contextKey string

const callerKey contextKey = "caller"

// callerFrom returns the verified caller identity, if any.
func callerFrom(ctx context.Context) (common.Address, bool) {
	addr, ok := ctx.Value(callerKey).(common.Address)
	return addr, ok
}

// requireCaller writes 401 and returns false when the request carries no
// verified identity.
func (g *Gateway) requireCaller(w http.ResponseWriter, r *http.Request) (common.Address, bool) {
	addr, ok := callerFrom(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED",
			"request must be signed (or carry X-Caller in dev mode)")
		return common.Address{}, false
	}
	return addr, true
}

// callerIdentity establishes the caller address for signed requests. Reads
// work without identity; handlers that mutate call requireCaller. The body
// is buffered so the signature can cover it and the handler can still read
// it.
func (g *Gateway) callerIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.cfg.Auth.DevMode {
			if raw := r.Header.Get("X-Caller"); raw != "" {
				if addr, ok := httputil.ParseAddress(raw); ok {
					r = r.WithContext(context.WithValue(r.Context(), callerKey, addr))
				}
			}
			next.ServeHTTP(w, r)
			return
		}

		sig := r.Header.Get(auth.HeaderSignature)
		if sig == "" {
			next.ServeHTTP(w, r)
			return
		}

		ts, err := strconv.ParseInt(r.Header.Get(auth.HeaderTimestamp), 10, 64)
		if err != nil {
			httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "malformed signature timestamp")
			return
		}
		if skew := time.Since(time.Unix(ts, 0)); skew > g.cfg.Auth.MaxClockSkew || skew < -g.cfg.Auth.MaxClockSkew {
			httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "signature timestamp outside allowed skew")
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, g.cfg.Gateway.MaxBodyBytes))
		if err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "failed to read request body")
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		addr, err := auth.Recover(sig, ts, r.Method, r.URL.Path, body)
		if err != nil {
			g.logger.ComponentWarn(logging.ComponentGateway, "signature verification failed", zap.Error(err))
			httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "invalid request signature")
			return
		}

		r = r.WithContext(context.WithValue(r.Context(), callerKey, addr))
		next.ServeHTTP(w, r)
	})
}

type statusResponseWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusResponseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack lets the websocket upgrade pass through the logging wrapper.
func (w *statusResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hj.Hijack()
}

// requestLogger logs one line per request.
func (g *Gateway) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		g.logger.ComponentDebug(logging.ComponentGateway, "request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", sw.status),
			zap.Duration("took", time.Since(start)),
		)
	})
}
