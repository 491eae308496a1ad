// Package http provides http transport for the agenda service
package http

import (
	stdhttp "net/http"
	"time"

	perr "agenda/internal/platform/errors"
	phttp "agenda/internal/platform/net/http"
	"agenda/internal/services/agenda/domain"
	svc "agenda/internal/services/agenda/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Register mounts agenda endpoints on the given router
func Register(r phttp.Router, s svc.Service) {
	h := &handlers{svc: s}

	r.Get("/", phttp.JSONHandlerNoBody(h.list))
	r.Post("/", phttp.JSONHandlerCreated(h.create))
	r.Get("/{id}", phttp.JSONHandlerNoBody(h.get))
	r.Put("/{id}", phttp.JSONHandler(h.update))
	r.Post("/{id}/finalize", phttp.JSONHandlerNoBody(h.finalize))
	r.Post("/{id}/cancel", phttp.JSONHandlerNoBody(h.cancel))
}

type handlers struct{ svc svc.Service }

func eventID(r *stdhttp.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, perr.InvalidArgf("invalid event id")
	}
	return id, nil
}

func (h *handlers) create(r *stdhttp.Request, in domain.CreateEventInput) (any, error) {
	e, err := h.svc.Create(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return domain.ViewOf(e), nil
}

func (h *handlers) update(r *stdhttp.Request, in domain.UpdateEventInput) (any, error) {
	id, err := eventID(r)
	if err != nil {
		return nil, err
	}
	e, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		return nil, err
	}
	return domain.ViewOf(e), nil
}

func (h *handlers) get(r *stdhttp.Request) (any, error) {
	id, err := eventID(r)
	if err != nil {
		return nil, err
	}
	e, err := h.svc.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}
	return domain.ViewOf(e), nil
}

// list accepts optional from/to RFC3339 query bounds; both or neither
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	var from, to *time.Time
	q := r.URL.Query()
	if f, t := q.Get("from"), q.Get("to"); f != "" || t != "" {
		ft, err := time.Parse(time.RFC3339, f)
		if err != nil {
			return nil, perr.WithField(perr.InvalidArgf("invalid from bound"), "from")
		}
		tt, err := time.Parse(time.RFC3339, t)
		if err != nil {
			return nil, perr.WithField(perr.InvalidArgf("invalid to bound"), "to")
		}
		from, to = &ft, &tt
	}
	es, err := h.svc.List(r.Context(), from, to)
	if err != nil {
		return nil, err
	}
	return domain.ViewsOf(es), nil
}

func (h *handlers) finalize(r *stdhttp.Request) (any, error) {
	id, err := eventID(r)
	if err != nil {
		return nil, err
	}
	e, err := h.svc.Finalize(r.Context(), id)
	if err != nil {
		return nil, err
	}
	return domain.ViewOf(e), nil
}

func (h *handlers) cancel(r *stdhttp.Request) (any, error) {
	id, err := eventID(r)
	if err != nil {
		return nil, err
	}
	e, err := h.svc.Cancel(r.Context(), id)
	if err != nil {
		return nil, err
	}
	return domain.ViewOf(e), nil
}
