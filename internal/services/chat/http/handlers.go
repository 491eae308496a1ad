// Package http provides http transport for the agenda assistant
package http

import (
	stdhttp "net/http"

	phttp "agenda/internal/platform/net/http"
	"agenda/internal/services/chat/domain"
	svc "agenda/internal/services/chat/service"
)

// Register mounts the assistant endpoint on the given router
func Register(r phttp.Router, s svc.Service) {
	h := &handlers{svc: s}
	r.Post("/", phttp.JSONHandler(h.ask))
}

type handlers struct{ svc svc.Service }

// ask always replies 200 with a Reply; Success false covers faults.
// The conversation channel never surfaces HTTP errors for backend trouble
func (h *handlers) ask(r *stdhttp.Request, in domain.AskInput) (any, error) {
	return h.svc.Ask(r.Context(), in), nil
}
