package service_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"agenda/internal/core/lifecycle"
	"agenda/internal/platform/clock"
	perr "agenda/internal/platform/errors"
	"agenda/internal/platform/logger"
	"agenda/internal/services/agenda/domain"
	"agenda/internal/services/agenda/service"

	"github.com/google/uuid"
)

// fakeRepo is an in-memory domain.Repo for service tests
type fakeRepo struct {
	mu     sync.Mutex
	events map[uuid.UUID]domain.Event

	// ids whose stored state is flipped right before a SwapState, to
	// simulate a concurrent writer winning the race
	raceWith map[uuid.UUID]lifecycle.State
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		events:   map[uuid.UUID]domain.Event{},
		raceWith: map[uuid.UUID]lifecycle.State{},
	}
}

func (f *fakeRepo) Insert(_ context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now().UTC()
	e.CreatedAt, e.UpdatedAt = now, now
	f.events[e.ID] = *e
	return nil
}

func (f *fakeRepo) UpdateFields(_ context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[e.ID]; !ok {
		return perr.NotFoundf("event %s not found", e.ID)
	}
	f.events[e.ID] = *e
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return domain.Event{}, perr.NotFoundf("event %s not found", id)
	}
	return e, nil
}

func (f *fakeRepo) all() []domain.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Event, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e)
	}
	return out
}

func (f *fakeRepo) ListBetween(_ context.Context, from, to time.Time) ([]domain.Event, error) {
	var out []domain.Event
	for _, e := range f.all() {
		if !e.StartsAt.Before(from) && e.StartsAt.Before(to) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

func (f *fakeRepo) ListRecent(_ context.Context, limit int) ([]domain.Event, error) {
	out := f.all()
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.After(out[j].StartsAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepo) RecentByMunicipality(_ context.Context, id uuid.UUID, limit int) ([]domain.Event, error) {
	var out []domain.Event
	for _, e := range f.all() {
		if e.MunicipalityID == id {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.After(out[j].StartsAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepo) SearchRecent(_ context.Context, terms []string, limit int) ([]domain.Event, error) {
	match := func(e domain.Event) bool {
		for _, t := range terms {
			t = strings.ToLower(t)
			if strings.Contains(strings.ToLower(e.Name), t) ||
				strings.Contains(strings.ToLower(e.Place), t) ||
				strings.Contains(strings.ToLower(e.Organizer), t) {
				return true
			}
		}
		return false
	}
	var out []domain.Event
	for _, e := range f.all() {
		if match(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.After(out[j].StartsAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepo) CountAll(_ context.Context) (int, error) { return len(f.all()), nil }

func (f *fakeRepo) CountAttendance(_ context.Context, principal bool) (int, error) {
	n := 0
	for _, e := range f.all() {
		if e.Attendance.Principal == principal {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) CountHolidays(_ context.Context) (int, error) {
	n := 0
	for _, e := range f.all() {
		if e.IsHoliday {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) ListForSweep(_ context.Context, from, to *time.Time) ([]domain.Event, error) {
	var out []domain.Event
	for _, e := range f.all() {
		if e.ManualDoneAt != nil {
			continue
		}
		if e.State != lifecycle.StateScheduled && e.State != lifecycle.StateInProgress {
			continue
		}
		if from != nil && to != nil {
			if e.StartsAt.Before(*from) || !e.StartsAt.Before(*to) {
				continue
			}
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

func (f *fakeRepo) SwapState(_ context.Context, id uuid.UUID, expect, next lifecycle.State) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return false, nil
	}
	if st, racing := f.raceWith[id]; racing {
		e.State = st
		f.events[id] = e
		delete(f.raceWith, id)
	}
	if e.State != expect || e.ManualDoneAt != nil {
		return false, nil
	}
	e.State = next
	f.events[id] = e
	return true, nil
}

func (f *fakeRepo) SetFinal(_ context.Context, id uuid.UUID, state lifecycle.State, manualDoneAt *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return perr.NotFoundf("event %s not found", id)
	}
	e.State = state
	e.ManualDoneAt = manualDoneAt
	f.events[id] = e
	return nil
}

// fixtures

var baseStart = time.Date(2024, time.March, 15, 16, 0, 0, 0, time.UTC) // 10:00 in Mexico City

func harness(t *testing.T, now time.Time) (*service.Svc, *fakeRepo) {
	t.Helper()
	engine, err := lifecycle.Default()
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	repo := newFakeRepo()
	return service.New(repo, engine, clock.NewFixed(now), *logger.Named("agenda-test")), repo
}

func createInput() domain.CreateEventInput {
	return domain.CreateEventInput{
		Name:           "Inauguración de hospital",
		StartsAt:       baseStart,
		MunicipalityID: uuid.NewString(),
		Place:          "Hospital General",
		Organizer:      "Secretaría de Salud",
		CreatedBy:      "capturista",
	}
}

func TestCreateDerivesState(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		want lifecycle.State
	}{
		{"future event", baseStart.Add(-24 * time.Hour), lifecycle.StateScheduled},
		{"running event", baseStart.Add(30 * time.Minute), lifecycle.StateInProgress},
		{"backdated capture", baseStart.Add(3 * time.Hour), lifecycle.StateFinished},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := harness(t, tc.now)
			e, err := svc.Create(context.Background(), createInput())
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			if e.State != tc.want {
				t.Fatalf("state = %q, want %q", e.State, tc.want)
			}
		})
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := harness(t, baseStart)

	in := createInput()
	in.Name = "  Acto  " // 4 runes trimmed
	_, err := svc.Create(context.Background(), in)
	if !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("short name error = %v", err)
	}
	if e, ok := perr.As(err); !ok || e.Field() != "name" {
		t.Fatalf("short name field = %v", err)
	}

	no := false
	in = createInput()
	in.PrincipalAttended = &no
	_, err = svc.Create(context.Background(), in)
	if !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("missing delegate error = %v", err)
	}
	if e, ok := perr.As(err); !ok || e.Field() != "delegate_name" {
		t.Fatalf("missing delegate field = %v", err)
	}
}

func TestAttendanceNormalization(t *testing.T) {
	svc, _ := harness(t, baseStart)

	// a stray delegate name with the governor present is dropped, not an error
	yes := true
	in := createInput()
	in.PrincipalAttended = &yes
	in.DelegateName = "Lic. Pérez"
	e, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !e.Attendance.Principal || e.Attendance.Delegate != "" {
		t.Fatalf("attendance = %+v", e.Attendance)
	}

	no := false
	in = createInput()
	in.Name = "Feria del maíz regional"
	in.PrincipalAttended = &no
	in.DelegateName = "  Lic. Pérez  "
	e, err = svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create delegate: %v", err)
	}
	if e.Attendance.Principal || e.Attendance.Delegate != "Lic. Pérez" {
		t.Fatalf("attendance = %+v", e.Attendance)
	}
}

func TestFinalize(t *testing.T) {
	svc, _ := harness(t, baseStart.Add(10*time.Minute))
	e, err := svc.Create(context.Background(), createInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	done, err := svc.Finalize(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if done.State != lifecycle.StateFinished || done.ManualDoneAt == nil {
		t.Fatalf("finalized event = %+v", done)
	}
	stamp := *done.ManualDoneAt

	// repeat is a no-op, not an error, and keeps the stamp
	again, err := svc.Finalize(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("second Finalize: %v", err)
	}
	if again.ManualDoneAt == nil || !again.ManualDoneAt.Equal(stamp) {
		t.Fatalf("stamp moved: %v -> %v", stamp, again.ManualDoneAt)
	}

	// the freeze survives reads long after the window
	got, err := svc.Get(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.State != lifecycle.StateFinished {
		t.Fatalf("state after freeze = %q", got.State)
	}
}

func TestFinalizeBeforeStart(t *testing.T) {
	svc, _ := harness(t, baseStart.Add(-time.Hour))
	e, err := svc.Create(context.Background(), createInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Finalize(context.Background(), e.ID); !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("Finalize before start = %v, want conflict", err)
	}
}

func TestCancel(t *testing.T) {
	svc, _ := harness(t, baseStart.Add(-time.Hour))
	e, err := svc.Create(context.Background(), createInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	c, err := svc.Cancel(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if c.State != lifecycle.StateCancelled {
		t.Fatalf("state = %q", c.State)
	}

	// cancelling again is a no-op
	if _, err := svc.Cancel(context.Background(), e.ID); err != nil {
		t.Fatalf("second Cancel: %v", err)
	}

	// cancelled is terminal: reads never revive it, updates bounce
	got, _ := svc.Get(context.Background(), e.ID)
	if got.State != lifecycle.StateCancelled {
		t.Fatalf("state after read = %q", got.State)
	}
	_, err = svc.Update(context.Background(), e.ID, domain.UpdateEventInput{
		Name: "Evento renombrado", StartsAt: baseStart,
		MunicipalityID: uuid.NewString(), Place: "x", Organizer: "y",
	})
	if !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("Update on cancelled = %v, want conflict", err)
	}
}

func TestCancelFinishedConflict(t *testing.T) {
	svc, _ := harness(t, baseStart.Add(3*time.Hour))
	e, err := svc.Create(context.Background(), createInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Cancel(context.Background(), e.ID); !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("Cancel finished = %v, want conflict", err)
	}
}

func TestGetDerivesStaleState(t *testing.T) {
	// stored state says scheduled; the clock says the hour has long passed
	svc, repo := harness(t, baseStart.Add(6*time.Hour))
	id := uuid.New()
	repo.events[id] = domain.Event{
		ID: id, Name: "Gira por la costa", StartsAt: baseStart,
		State: lifecycle.StateScheduled,
	}

	got, err := svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.State != lifecycle.StateFinished {
		t.Fatalf("derived state = %q, want finished", got.State)
	}
	// derive-on-read does not write
	if repo.events[id].State != lifecycle.StateScheduled {
		t.Fatalf("stored state mutated to %q", repo.events[id].State)
	}
}
