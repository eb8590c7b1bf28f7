package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/libvault/registry/pkg/errors"
	"github.com/libvault/registry/pkg/httputil"
)

type authorizeRequest struct {
	Address string `json:"address"`
}

// authorizeHandler handles POST /v1/libraries/{name}/authorizations
func (g *Gateway) authorizeHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := g.requireCaller(w, r)
	if !ok {
		return
	}

	var req authorizeRequest
	if err := httputil.DecodeJSONStrict(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, errors.CodeInvalidArgument, "malformed request body")
		return
	}
	addr, ok := httputil.ParseAddress(req.Address)
	if !ok {
		httputil.WriteError(w, http.StatusBadRequest, errors.CodeInvalidAddress, "malformed address")
		return
	}

	name := chi.URLParam(r, "name")
	if err := g.svc.Authorize(r.Context(), caller, name, addr); err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteSuccess(w)
}

// revokeHandler handles DELETE /v1/libraries/{name}/authorizations/{address}
func (g *Gateway) revokeHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := g.requireCaller(w, r)
	if !ok {
		return
	}
	addr, ok := httputil.ParseAddress(chi.URLParam(r, "address"))
	if !ok {
		httputil.WriteError(w, http.StatusBadRequest, errors.CodeInvalidAddress, "malformed address")
		return
	}

	name := chi.URLParam(r, "name")
	if err := g.svc.Revoke(r.Context(), caller, name, addr); err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteSuccess(w)
}

// hasAccessHandler handles GET /v1/libraries/{name}/access/{address}
func (g *Gateway) hasAccessHandler(w http.ResponseWriter, r *http.Request) {
	addr, ok := httputil.ParseAddress(chi.URLParam(r, "address"))
	if !ok {
		httputil.WriteError(w, http.StatusBadRequest, errors.CodeInvalidAddress, "malformed address")
		return
	}
	granted, err := g.svc.HasAccess(chi.URLParam(r, "name"), addr)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"has_access": granted})
}
