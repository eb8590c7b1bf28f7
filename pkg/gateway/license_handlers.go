package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/libvault/registry/pkg/errors"
	"github.com/libvault/registry/pkg/httputil"
)

type setLicenseRequest struct {
	Fee      string `json:"fee"` // decimal string, avoids float truncation
	Required bool   `json:"required"`
}

// setLicenseHandler handles PUT /v1/libraries/{name}/license
func (g *Gateway) setLicenseHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := g.requireCaller(w, r)
	if !ok {
		return
	}

	var req setLicenseRequest
	if err := httputil.DecodeJSONStrict(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, errors.CodeInvalidArgument, "malformed request body")
		return
	}
	fee, ok := httputil.ParseAmount(req.Fee)
	if !ok {
		httputil.WriteError(w, http.StatusBadRequest, errors.CodeInvalidArgument, "fee must be a non-negative decimal string")
		return
	}

	name := chi.URLParam(r, "name")
	if err := g.svc.SetLicense(r.Context(), caller, name, fee, req.Required); err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteSuccess(w)
}

type purchaseRequest struct {
	Payment string `json:"payment"`
}

// purchaseHandler handles POST /v1/libraries/{name}/license/purchase
func (g *Gateway) purchaseHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := g.requireCaller(w, r)
	if !ok {
		return
	}

	var req purchaseRequest
	if err := httputil.DecodeJSONStrict(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, errors.CodeInvalidArgument, "malformed request body")
		return
	}
	payment, ok := httputil.ParseAmount(req.Payment)
	if !ok {
		httputil.WriteError(w, http.StatusBadRequest, errors.CodeInvalidArgument, "payment must be a non-negative decimal string")
		return
	}

	name := chi.URLParam(r, "name")
	if err := g.svc.Purchase(r.Context(), caller, name, payment); err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteSuccess(w)
}

// hasLicenseHandler handles GET /v1/libraries/{name}/license/{address}
func (g *Gateway) hasLicenseHandler(w http.ResponseWriter, r *http.Request) {
	addr, ok := httputil.ParseAddress(chi.URLParam(r, "address"))
	if !ok {
		httputil.WriteError(w, http.StatusBadRequest, errors.CodeInvalidAddress, "malformed address")
		return
	}
	owned, err := g.svc.HasUserLicense(chi.URLParam(r, "name"), addr)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"has_license": owned})
}
