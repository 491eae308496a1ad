// Package domain defines the types and ports of the agenda assistant
package domain

import (
	"context"
	"time"

	agendadomain "agenda/internal/services/agenda/domain"
	munidomain "agenda/internal/services/municipalities/domain"

	"github.com/google/uuid"
)

// AskInput is the chat request payload
type AskInput struct {
	Message string `json:"message" validate:"required"`
}

// Reply is the chat response: a flag and the rendered Spanish text.
// Success false means the assistant could not answer for technical reasons;
// a "no events found" answer is still a success
type Reply struct {
	Success      bool   `json:"success"`
	ResponseText string `json:"response_text"`
}

// EventReader is the slice of the agenda the assistant reads.
// It is the agenda QueryPort verbatim; the assistant never writes
type EventReader interface {
	ListBetween(ctx context.Context, from, to time.Time) ([]agendadomain.Event, error)
	RecentByMunicipality(ctx context.Context, municipalityID uuid.UUID, limit int) ([]agendadomain.Event, error)
	SearchRecent(ctx context.Context, terms []string, limit int) ([]agendadomain.Event, error)
	CountAll(ctx context.Context) (int, error)
	CountAttendance(ctx context.Context, principal bool) (int, error)
	CountHolidays(ctx context.Context) (int, error)
}

// CatalogReader resolves municipality names against the catalog
type CatalogReader interface {
	FindByName(ctx context.Context, name string) (munidomain.Municipality, error)
}

// ServicePort is the assistant contract
type ServicePort interface {
	Ask(ctx context.Context, in AskInput) Reply
}
