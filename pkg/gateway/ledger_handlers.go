package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/libvault/registry/pkg/errors"
	"github.com/libvault/registry/pkg/httputil"
)

// balanceHandler handles GET /v1/ledger/balances/{address}
func (g *Gateway) balanceHandler(w http.ResponseWriter, r *http.Request) {
	addr, ok := httputil.ParseAddress(chi.URLParam(r, "address"))
	if !ok {
		httputil.WriteError(w, http.StatusBadRequest, errors.CodeInvalidAddress, "malformed address")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"address": addr.Hex(),
		"balance": g.svc.Bank().BalanceOf(addr).String(),
	})
}

type depositRequest struct {
	Address string `json:"address"`
	Amount  string `json:"amount"`
}

// depositHandler handles POST /v1/ledger/deposits. This is the faucet that
// brings value into the system; it is gated by the admin token.
func (g *Gateway) depositHandler(w http.ResponseWriter, r *http.Request) {
	if g.cfg.Auth.AdminTokenHash == "" {
		httputil.WriteError(w, http.StatusForbidden, errors.CodeNotOwner, "deposit faucet is disabled")
		return
	}
	token := httputil.ExtractBearerToken(r)
	if token == "" || bcrypt.CompareHashAndPassword([]byte(g.cfg.Auth.AdminTokenHash), []byte(token)) != nil {
		httputil.WriteError(w, http.StatusUnauthorized, errors.CodeUnauthenticated, "invalid admin token")
		return
	}

	var req depositRequest
	if err := httputil.DecodeJSONStrict(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, errors.CodeInvalidArgument, "malformed request body")
		return
	}
	addr, ok := httputil.ParseAddress(req.Address)
	if !ok {
		httputil.WriteError(w, http.StatusBadRequest, errors.CodeInvalidAddress, "malformed address")
		return
	}
	amount, ok := httputil.ParseAmount(req.Amount)
	if !ok {
		httputil.WriteError(w, http.StatusBadRequest, errors.CodeInvalidArgument, "amount must be a non-negative decimal string")
		return
	}

	if err := g.svc.Deposit(r.Context(), addr, amount); err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"address": addr.Hex(),
		"balance": g.svc.Bank().BalanceOf(addr).String(),
	})
}
