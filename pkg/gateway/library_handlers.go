package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/libvault/registry/pkg/errors"
	"github.com/libvault/registry/pkg/httputil"
	"github.com/libvault/registry/pkg/registry"
)

// writeServiceError maps a registry error onto the HTTP response.
func writeServiceError(w http.ResponseWriter, err error) {
	httputil.WriteError(w, errors.StatusCode(err), errors.Code(err), err.Error())
}

type registerRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	IsPrivate   bool     `json:"is_private"`
	Language    string   `json:"language"`
}

// registerHandler handles POST /v1/libraries
func (g *Gateway) registerHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := g.requireCaller(w, r)
	if !ok {
		return
	}

	var req registerRequest
	if err := httputil.DecodeJSONStrict(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, errors.CodeInvalidArgument, "malformed request body")
		return
	}
	if req.Name == "" {
		httputil.WriteError(w, http.StatusBadRequest, errors.CodeInvalidArgument, "name is required")
		return
	}

	err := g.svc.Register(r.Context(), caller, registry.RegisterParams{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		Private:     req.IsPrivate,
		Language:    req.Language,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{"status": "ok", "name": req.Name})
}

// deleteHandler handles DELETE /v1/libraries/{name}
func (g *Gateway) deleteHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := g.requireCaller(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "name")
	if err := g.svc.Delete(r.Context(), caller, name); err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteSuccess(w)
}

// libraryInfoHandler handles GET /v1/libraries/{name}
func (g *Gateway) libraryInfoHandler(w http.ResponseWriter, r *http.Request) {
	info, err := g.svc.GetLibraryInfo(chi.URLParam(r, "name"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, info)
}

// listLibrariesHandler handles GET /v1/libraries
func (g *Gateway) listLibrariesHandler(w http.ResponseWriter, r *http.Request) {
	names := g.svc.GetAllLibraryNames()
	if names == nil {
		names = []string{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"names": names})
}
