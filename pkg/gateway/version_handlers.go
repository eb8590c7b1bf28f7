package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/libvault/registry/pkg/errors"
	"github.com/libvault/registry/pkg/httputil"
)

type publishRequest struct {
	Version      string   `json:"version"`
	ContentRef   string   `json:"content_ref"`
	Dependencies []string `json:"dependencies"`
}

// publishHandler handles POST /v1/libraries/{name}/versions
func (g *Gateway) publishHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := g.requireCaller(w, r)
	if !ok {
		return
	}

	var req publishRequest
	if err := httputil.DecodeJSONStrict(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, errors.CodeInvalidArgument, "malformed request body")
		return
	}
	if req.Version == "" {
		httputil.WriteError(w, http.StatusBadRequest, errors.CodeInvalidArgument, "version is required")
		return
	}

	name := chi.URLParam(r, "name")
	if err := g.svc.Publish(r.Context(), caller, name, req.Version, req.ContentRef, req.Dependencies); err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"status":  "ok",
		"name":    name,
		"version": req.Version,
	})
}

// deprecateHandler handles POST /v1/libraries/{name}/versions/{version}/deprecate
func (g *Gateway) deprecateHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := g.requireCaller(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "name")
	version := chi.URLParam(r, "version")
	if err := g.svc.Deprecate(r.Context(), caller, name, version); err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteSuccess(w)
}

// versionInfoHandler handles GET /v1/libraries/{name}/versions/{version}
func (g *Gateway) versionInfoHandler(w http.ResponseWriter, r *http.Request) {
	info, err := g.svc.GetVersionInfo(chi.URLParam(r, "name"), chi.URLParam(r, "version"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, info)
}

// listVersionsHandler handles GET /v1/libraries/{name}/versions
func (g *Gateway) listVersionsHandler(w http.ResponseWriter, r *http.Request) {
	versions, err := g.svc.GetVersionNumbers(chi.URLParam(r, "name"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if versions == nil {
		versions = []string{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"versions": versions})
}
