// Package lifecycle derives the authoritative state of an agenda event from
// wall-clock time in the civil zone the agenda is authored in.
//
// Events run on a fixed one hour window: before the start they are scheduled,
// during [start, start+1h) they are in progress, afterwards they are finished.
// A manual finalization freezes the state against recomputation, and a
// cancellation is terminal: the engine never revives a cancelled event even
// once its hour has passed.
package lifecycle

import "time"

// State is the lifecycle state of an agenda event
type State string

const (
	// StateScheduled means the event has not started yet
	StateScheduled State = "scheduled"
	// StateInProgress means the event started less than Window ago
	StateInProgress State = "in_progress"
	// StateFinished means the event ended, by clock or by manual finalization
	StateFinished State = "finished"
	// StateCancelled is set only by explicit user action and is terminal
	StateCancelled State = "cancelled"
)

// Window is how long an event counts as in progress after its start
const Window = time.Hour

// ZoneName is the IANA civil zone all agenda date math happens in.
// Mexico abolished DST for this zone in 2022; current tzdata rules apply
const ZoneName = "America/Mexico_City"

// Schedule is the minimal slice of an event the engine operates on
type Schedule struct {
	StartsAt     time.Time
	State        State
	ManualDoneAt *time.Time
}

// Engine computes lifecycle states against a civil zone
type Engine struct {
	zone *time.Location
}

// New returns an Engine pinned to the given zone
func New(zone *time.Location) *Engine {
	if zone == nil {
		zone = time.UTC
	}
	return &Engine{zone: zone}
}

// Default returns an Engine pinned to ZoneName
func Default() (*Engine, error) {
	loc, err := time.LoadLocation(ZoneName)
	if err != nil {
		return nil, err
	}
	return New(loc), nil
}

// MustDefault is Default but panics on a missing tz database
func MustDefault() *Engine {
	e, err := Default()
	if err != nil {
		panic(err)
	}
	return e
}

// Zone returns the civil zone the engine is pinned to
func (e *Engine) Zone() *time.Location { return e.zone }

// Derive computes the state of s at the evaluation instant now.
// Manual finalization and cancellation short-circuit; otherwise the
// half-open window test applies: now == start is in progress,
// now == start+Window is finished
func (e *Engine) Derive(s Schedule, now time.Time) State {
	if s.ManualDoneAt != nil {
		return s.State
	}
	if s.State == StateCancelled {
		return StateCancelled
	}

	at := now.In(e.zone)
	start := s.StartsAt.In(e.zone)

	switch {
	case at.Before(start):
		return StateScheduled
	case at.Before(start.Add(Window)):
		return StateInProgress
	default:
		return StateFinished
	}
}

// Apply recomputes the state of s and mutates it on change.
// Persisting the change is the caller's job
func (e *Engine) Apply(s *Schedule, now time.Time) (State, bool) {
	next := e.Derive(*s, now)
	if next == s.State {
		return next, false
	}
	s.State = next
	return next, true
}

// Finalize marks s finished by hand and stamps the finalization instant.
// A second call is a no-op so the original audit timestamp survives
func (e *Engine) Finalize(s *Schedule, now time.Time) bool {
	if s.ManualDoneAt != nil {
		return false
	}
	at := now.UTC()
	s.State = StateFinished
	s.ManualDoneAt = &at
	return true
}

// CanFinalize reports whether s accepts a manual finalization at now:
// the event must have started and not be finished or already finalized
func (e *Engine) CanFinalize(s Schedule, now time.Time) bool {
	if s.ManualDoneAt != nil || s.State == StateFinished {
		return false
	}
	return !now.In(e.zone).Before(s.StartsAt.In(e.zone))
}

// SinceStart returns the time elapsed since the event started,
// or false when it has not started yet
func (e *Engine) SinceStart(s Schedule, now time.Time) (time.Duration, bool) {
	d := now.Sub(s.StartsAt)
	if d < 0 {
		return 0, false
	}
	return d, true
}

// SameCivilDay reports whether a and b fall on the same calendar day in the civil zone
func (e *Engine) SameCivilDay(a, b time.Time) bool {
	ay, am, ad := a.In(e.zone).Date()
	by, bm, bd := b.In(e.zone).Date()
	return ay == by && am == bm && ad == bd
}

// DayBoundsOf returns the UTC instants bounding the civil day containing t,
// half-open [from, to)
func (e *Engine) DayBoundsOf(t time.Time) (time.Time, time.Time) {
	y, m, d := t.In(e.zone).Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, e.zone)
	return from.UTC(), from.AddDate(0, 0, 1).UTC()
}
