package domain

import (
	"context"
	"time"

	"agenda/internal/core/lifecycle"

	"github.com/google/uuid"
)

// ServicePort is the write-side contract of the agenda service
type ServicePort interface {
	Create(ctx context.Context, in CreateEventInput) (Event, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateEventInput) (Event, error)
	Get(ctx context.Context, id uuid.UUID) (Event, error)
	List(ctx context.Context, from, to *time.Time) ([]Event, error)
	Finalize(ctx context.Context, id uuid.UUID) (Event, error)
	Cancel(ctx context.Context, id uuid.UUID) (Event, error)
}

// QueryPort is the read-only surface the assistant consumes.
// Implementations never mutate state
type QueryPort interface {
	// ListBetween returns events with [from, to) start instants, ascending
	ListBetween(ctx context.Context, from, to time.Time) ([]Event, error)

	// RecentByMunicipality returns the latest events in a municipality, descending
	RecentByMunicipality(ctx context.Context, municipalityID uuid.UUID, limit int) ([]Event, error)

	// SearchRecent matches any term against name, place and organizer, descending
	SearchRecent(ctx context.Context, terms []string, limit int) ([]Event, error)

	CountAll(ctx context.Context) (int, error)
	CountAttendance(ctx context.Context, principal bool) (int, error)
	CountHolidays(ctx context.Context) (int, error)
}

// Repo abstracts the storage operations the agenda service needs
type Repo interface {
	Insert(ctx context.Context, e *Event) error
	UpdateFields(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id uuid.UUID) (Event, error)

	ListBetween(ctx context.Context, from, to time.Time) ([]Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
	RecentByMunicipality(ctx context.Context, municipalityID uuid.UUID, limit int) ([]Event, error)
	SearchRecent(ctx context.Context, terms []string, limit int) ([]Event, error)

	CountAll(ctx context.Context) (int, error)
	CountAttendance(ctx context.Context, principal bool) (int, error)
	CountHolidays(ctx context.Context) (int, error)

	// ListForSweep returns non-terminal events without a manual finalization,
	// optionally restricted to start instants within [from, to)
	ListForSweep(ctx context.Context, from, to *time.Time) ([]Event, error)

	// SwapState is a compare-and-set on the stored state; false means the row
	// moved under us and the caller should leave it for the next pass
	SwapState(ctx context.Context, id uuid.UUID, expect, next lifecycle.State) (bool, error)

	// SetFinal stamps a terminal transition (manual finalization or cancel)
	SetFinal(ctx context.Context, id uuid.UUID, state lifecycle.State, manualDoneAt *time.Time) error
}
