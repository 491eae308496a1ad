// Package http provides http transport for the municipality catalog
package http

import (
	stdhttp "net/http"

	perr "agenda/internal/platform/errors"
	phttp "agenda/internal/platform/net/http"
	"agenda/internal/services/municipalities/domain"
	svc "agenda/internal/services/municipalities/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Register mounts catalog endpoints on the given router
func Register(r phttp.Router, s svc.Service) {
	h := &handlers{svc: s}

	r.Get("/", phttp.JSONHandlerNoBody(h.list))
	r.Patch("/{id}/active", phttp.JSONHandler(h.setActive))
}

type handlers struct{ svc svc.Service }

type setActiveInput struct {
	Active *bool `json:"active" validate:"required"`
}

// list returns the catalog; ?active=true narrows to active entries
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	activeOnly := r.URL.Query().Get("active") == "true"
	ms, err := h.svc.List(r.Context(), activeOnly)
	if err != nil {
		return nil, err
	}
	return domain.ViewsOf(ms), nil
}

func (h *handlers) setActive(r *stdhttp.Request, in setActiveInput) (any, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return nil, perr.InvalidArgf("invalid municipality id")
	}
	m, err := h.svc.SetActive(r.Context(), id, *in.Active)
	if err != nil {
		return nil, err
	}
	return domain.ViewOf(m), nil
}
