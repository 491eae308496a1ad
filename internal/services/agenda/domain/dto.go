package domain

import (
	"time"

	"agenda/internal/core/lifecycle"
)

// CreateEventInput is the write payload for new events.
// PrincipalAttended defaults to true when omitted, matching the paper form
// the agenda office fills in
type CreateEventInput struct {
	Name              string    `json:"name" validate:"required"`
	StartsAt          time.Time `json:"starts_at" validate:"required"`
	MunicipalityID    string    `json:"municipality_id" validate:"required,uuid"`
	Place             string    `json:"place" validate:"required"`
	IsHoliday         bool      `json:"is_holiday"`
	Organizer         string    `json:"organizer" validate:"required"`
	PrincipalAttended *bool     `json:"principal_attended"`
	DelegateName      string    `json:"delegate_name"`
	Description       string    `json:"description"`
	Notes             string    `json:"notes"`
	CreatedBy         string    `json:"created_by" validate:"required"`
}

// UpdateEventInput is a full replace of the editable fields
type UpdateEventInput struct {
	Name              string    `json:"name" validate:"required"`
	StartsAt          time.Time `json:"starts_at" validate:"required"`
	MunicipalityID    string    `json:"municipality_id" validate:"required,uuid"`
	Place             string    `json:"place" validate:"required"`
	IsHoliday         bool      `json:"is_holiday"`
	Organizer         string    `json:"organizer" validate:"required"`
	PrincipalAttended *bool     `json:"principal_attended"`
	DelegateName      string    `json:"delegate_name"`
	Description       string    `json:"description"`
	Notes             string    `json:"notes"`
}

// EventView is the read shape returned by the API
type EventView struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	StartsAt          time.Time       `json:"starts_at"`
	MunicipalityID    string          `json:"municipality_id"`
	Municipality      string          `json:"municipality"`
	Place             string          `json:"place"`
	IsHoliday         bool            `json:"is_holiday"`
	Organizer         string          `json:"organizer"`
	PrincipalAttended bool            `json:"principal_attended"`
	DelegateName      string          `json:"delegate_name,omitempty"`
	State             lifecycle.State `json:"state"`
	ManualDoneAt      *time.Time      `json:"manual_done_at,omitempty"`
	Description       string          `json:"description,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	CreatedBy         string          `json:"created_by"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ViewOf projects an Event into its API shape
func ViewOf(e Event) EventView {
	return EventView{
		ID:                e.ID.String(),
		Name:              e.Name,
		StartsAt:          e.StartsAt,
		MunicipalityID:    e.MunicipalityID.String(),
		Municipality:      e.Municipality,
		Place:             e.Place,
		IsHoliday:         e.IsHoliday,
		Organizer:         e.Organizer,
		PrincipalAttended: e.Attendance.Principal,
		DelegateName:      e.Attendance.Delegate,
		State:             e.State,
		ManualDoneAt:      e.ManualDoneAt,
		Description:       e.Description,
		Notes:             e.Notes,
		CreatedBy:         e.CreatedBy,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

// ViewsOf projects a slice of events
func ViewsOf(es []Event) []EventView {
	out := make([]EventView, 0, len(es))
	for _, e := range es {
		out = append(out, ViewOf(e))
	}
	return out
}

// SweepReport summarizes one pass of the state sweeper
type SweepReport struct {
	Scanned int `json:"scanned"`
	Changed int `json:"changed"`
	Stale   int `json:"stale"` // CAS misses: someone else moved the row first
}
