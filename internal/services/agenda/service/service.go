// Package service contains the agenda workflows
package service

import (
	"context"
	"strings"
	"time"

	"agenda/internal/core/lifecycle"
	"agenda/internal/platform/clock"
	perr "agenda/internal/platform/errors"
	"agenda/internal/platform/logger"
	ptime "agenda/internal/platform/time"
	"agenda/internal/services/agenda/domain"

	"github.com/google/uuid"
)

// Service is the full agenda contract: writes plus the read-only queries
type Service interface {
	domain.ServicePort
	domain.QueryPort
}

// Svc implements the agenda service
type Svc struct {
	repo   domain.Repo
	engine *lifecycle.Engine
	clock  clock.Clock
	log    logger.Logger
}

// Compile-time assertion: Svc implements Service
var _ Service = (*Svc)(nil)

// New constructs an agenda service
func New(repo domain.Repo, engine *lifecycle.Engine, clk clock.Clock, log logger.Logger) *Svc {
	if repo == nil {
		panic("agenda.Service requires a non nil Repo")
	}
	if engine == nil {
		panic("agenda.Service requires a non nil lifecycle Engine")
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &Svc{repo: repo, engine: engine, clock: clk, log: log}
}

// minNameLen matches the shortest event name the agenda office accepts
const minNameLen = 5

func validName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if len([]rune(name)) < minNameLen {
		return "", perr.WithField(
			perr.Validationf("name must be at least %d characters", minNameLen), "name")
	}
	return name, nil
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, perr.WithField(perr.InvalidArgf("invalid municipality id"), "municipality_id")
	}
	return id, nil
}

// Create registers a new event; its initial state is derived from the clock
// so backdated captures land directly in finished
func (s *Svc) Create(ctx context.Context, in domain.CreateEventInput) (domain.Event, error) {
	name, err := validName(in.Name)
	if err != nil {
		return domain.Event{}, err
	}
	munID, err := parseID(in.MunicipalityID)
	if err != nil {
		return domain.Event{}, err
	}
	att, err := attendanceOf(in.PrincipalAttended, in.DelegateName)
	if err != nil {
		return domain.Event{}, err
	}

	e := domain.Event{
		ID:             uuid.New(),
		Name:           name,
		StartsAt:       in.StartsAt.UTC(),
		MunicipalityID: munID,
		Place:          strings.TrimSpace(in.Place),
		IsHoliday:      in.IsHoliday,
		Organizer:      strings.TrimSpace(in.Organizer),
		Attendance:     att,
		State:          lifecycle.StateScheduled,
		Description:    in.Description,
		Notes:          in.Notes,
		CreatedBy:      in.CreatedBy,
	}
	e.State = s.engine.Derive(e.Schedule(), s.clock.Now())

	if err := s.repo.Insert(ctx, &e); err != nil {
		return domain.Event{}, err
	}
	logger.C(ctx).Info().
		Str("event_id", e.ID.String()).
		Str("state", string(e.State)).
		Msg("event created")
	return s.Get(ctx, e.ID)
}

// Update replaces the editable fields. The stored state is re-derived from
// the (possibly moved) start instant unless the event is frozen
func (s *Svc) Update(ctx context.Context, id uuid.UUID, in domain.UpdateEventInput) (domain.Event, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Event{}, err
	}
	if e.State == lifecycle.StateCancelled {
		return domain.Event{}, perr.Conflictf("event %s is cancelled", id)
	}

	name, err := validName(in.Name)
	if err != nil {
		return domain.Event{}, err
	}
	munID, err := parseID(in.MunicipalityID)
	if err != nil {
		return domain.Event{}, err
	}
	att, err := attendanceOf(in.PrincipalAttended, in.DelegateName)
	if err != nil {
		return domain.Event{}, err
	}

	e.Name = name
	e.StartsAt = in.StartsAt.UTC()
	e.MunicipalityID = munID
	e.Place = strings.TrimSpace(in.Place)
	e.IsHoliday = in.IsHoliday
	e.Organizer = strings.TrimSpace(in.Organizer)
	e.Attendance = att
	e.Description = in.Description
	e.Notes = in.Notes
	e.State = s.engine.Derive(e.Schedule(), s.clock.Now())

	if err := s.repo.UpdateFields(ctx, &e); err != nil {
		return domain.Event{}, err
	}
	return s.Get(ctx, id)
}

// Get fetches one event; the returned state is always the derived one, so a
// stale stored state never reaches the caller
func (s *Svc) Get(ctx context.Context, id uuid.UUID) (domain.Event, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Event{}, err
	}
	e.State = s.engine.Derive(e.Schedule(), s.clock.Now())
	return e, nil
}

// List returns events within [from, to), or the latest 50 when unbounded
func (s *Svc) List(ctx context.Context, from, to *time.Time) ([]domain.Event, error) {
	var (
		es  []domain.Event
		err error
	)
	if from != nil && to != nil {
		es, err = s.repo.ListBetween(ctx, *from, *to)
	} else {
		es, err = s.repo.ListRecent(ctx, 50)
	}
	if err != nil {
		return nil, err
	}
	return s.derived(es), nil
}

// Finalize marks the event finished by hand. Repeating the call is a no-op;
// finalizing an event that has not started is a conflict
func (s *Svc) Finalize(ctx context.Context, id uuid.UUID) (domain.Event, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Event{}, err
	}
	if e.ManualDoneAt != nil {
		return e, nil
	}
	if e.State == lifecycle.StateCancelled {
		return domain.Event{}, perr.Conflictf("event %s is cancelled", id)
	}

	now := s.clock.Now()
	sched := e.Schedule()
	sched.State = s.engine.Derive(sched, now)
	if !s.engine.CanFinalize(sched, now) {
		return domain.Event{}, perr.Conflictf("event %s cannot be finalized yet", id)
	}
	s.engine.Finalize(&sched, now)
	e.ApplySchedule(sched)

	if err := s.repo.SetFinal(ctx, id, e.State, e.ManualDoneAt); err != nil {
		return domain.Event{}, err
	}
	logger.C(ctx).Info().
		Str("event_id", id.String()).
		Time("done_at", ptime.Deref(e.ManualDoneAt)).
		Msg("event finalized manually")
	return e, nil
}

// Cancel moves the event to its terminal cancelled state. Cancelling twice is
// a no-op; a finished event cannot be cancelled
func (s *Svc) Cancel(ctx context.Context, id uuid.UUID) (domain.Event, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Event{}, err
	}
	if e.State == lifecycle.StateCancelled {
		return e, nil
	}
	if s.engine.Derive(e.Schedule(), s.clock.Now()) == lifecycle.StateFinished {
		return domain.Event{}, perr.Conflictf("event %s already finished", id)
	}

	e.State = lifecycle.StateCancelled
	if err := s.repo.SetFinal(ctx, id, e.State, e.ManualDoneAt); err != nil {
		return domain.Event{}, err
	}
	logger.C(ctx).Info().Str("event_id", id.String()).Msg("event cancelled")
	return e, nil
}

// QueryPort, consumed by the assistant. All reads return derived states

// ListBetween returns events starting within [from, to), ascending
func (s *Svc) ListBetween(ctx context.Context, from, to time.Time) ([]domain.Event, error) {
	es, err := s.repo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return s.derived(es), nil
}

// RecentByMunicipality returns the latest events in a municipality, descending
func (s *Svc) RecentByMunicipality(ctx context.Context, municipalityID uuid.UUID, limit int) ([]domain.Event, error) {
	es, err := s.repo.RecentByMunicipality(ctx, municipalityID, limit)
	if err != nil {
		return nil, err
	}
	return s.derived(es), nil
}

// SearchRecent matches any term against name, place and organizer, descending
func (s *Svc) SearchRecent(ctx context.Context, terms []string, limit int) ([]domain.Event, error) {
	es, err := s.repo.SearchRecent(ctx, terms, limit)
	if err != nil {
		return nil, err
	}
	return s.derived(es), nil
}

// CountAll counts every registered event
func (s *Svc) CountAll(ctx context.Context) (int, error) { return s.repo.CountAll(ctx) }

// CountAttendance counts events by who covered them
func (s *Svc) CountAttendance(ctx context.Context, principal bool) (int, error) {
	return s.repo.CountAttendance(ctx, principal)
}

// CountHolidays counts holiday events
func (s *Svc) CountHolidays(ctx context.Context) (int, error) { return s.repo.CountHolidays(ctx) }

func (s *Svc) derived(es []domain.Event) []domain.Event {
	now := s.clock.Now()
	for i := range es {
		es[i].State = s.engine.Derive(es[i].Schedule(), now)
	}
	return es
}

func attendanceOf(principal *bool, delegate string) (domain.Attendance, error) {
	p := true
	if principal != nil {
		p = *principal
	}
	return domain.NewAttendance(p, delegate)
}
