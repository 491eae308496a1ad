// Package domain defines the core types and interfaces for the agenda service
package domain

import (
	"strings"
	"time"

	"agenda/internal/core/lifecycle"
	perr "agenda/internal/platform/errors"

	"github.com/google/uuid"
)

// Attendance records who covered the event: the governor in person, or a
// named representative sent in their place. The two arms are exclusive;
// a delegate name is normalized away when the governor attended and is
// mandatory when they did not
type Attendance struct {
	Principal bool
	Delegate  string
}

// PrincipalAttendance is the governor-in-person arm
func PrincipalAttendance() Attendance { return Attendance{Principal: true} }

// DelegateAttendance is the representative arm; the name is required
func DelegateAttendance(name string) (Attendance, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Attendance{}, perr.WithField(
			perr.Validationf("delegate name is required when the governor does not attend"),
			"delegate_name",
		)
	}
	return Attendance{Delegate: name}, nil
}

// NewAttendance builds the union from its storage shape, normalizing the
// delegate name when the principal attended
func NewAttendance(principal bool, delegate string) (Attendance, error) {
	if principal {
		return PrincipalAttendance(), nil
	}
	return DelegateAttendance(delegate)
}

// Event is an entry of the governor's agenda
type Event struct {
	ID             uuid.UUID
	Name           string
	StartsAt       time.Time
	MunicipalityID uuid.UUID
	Municipality   string // catalog name, joined on read
	Place          string
	IsHoliday      bool
	Organizer      string
	Attendance     Attendance
	State          lifecycle.State
	ManualDoneAt   *time.Time
	Description    string
	Notes          string
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Schedule projects the event onto the lifecycle engine's input
func (e *Event) Schedule() lifecycle.Schedule {
	return lifecycle.Schedule{StartsAt: e.StartsAt, State: e.State, ManualDoneAt: e.ManualDoneAt}
}

// ApplySchedule copies a recomputed schedule back onto the event
func (e *Event) ApplySchedule(s lifecycle.Schedule) {
	e.State = s.State
	e.ManualDoneAt = s.ManualDoneAt
}
