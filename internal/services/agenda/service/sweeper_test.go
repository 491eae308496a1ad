package service_test

import (
	"context"
	"testing"
	"time"

	"agenda/internal/core/lifecycle"
	"agenda/internal/platform/clock"
	"agenda/internal/platform/logger"
	"agenda/internal/services/agenda/domain"
	"agenda/internal/services/agenda/service"

	"github.com/google/uuid"
)

func sweepHarness(t *testing.T, now time.Time) (*service.Sweeper, *fakeRepo) {
	t.Helper()
	engine, err := lifecycle.Default()
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	repo := newFakeRepo()
	return service.NewSweeper(repo, engine, clock.NewFixed(now), *logger.Named("sweep-test")), repo
}

func seed(repo *fakeRepo, name string, startsAt time.Time, state lifecycle.State) uuid.UUID {
	id := uuid.New()
	repo.events[id] = domain.Event{ID: id, Name: name, StartsAt: startsAt, State: state}
	return id
}

func TestSweepAdvancesStates(t *testing.T) {
	now := baseStart.Add(30 * time.Minute)
	sw, repo := sweepHarness(t, now)

	running := seed(repo, "arranca ahora", baseStart, lifecycle.StateScheduled)
	over := seed(repo, "terminó hace rato", baseStart.Add(-3*time.Hour), lifecycle.StateInProgress)
	future := seed(repo, "todavía no", baseStart.Add(24*time.Hour), lifecycle.StateScheduled)

	rep, err := sw.Sweep(context.Background(), false, false)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if rep.Scanned != 3 || rep.Changed != 2 || rep.Stale != 0 {
		t.Fatalf("report = %+v", rep)
	}
	if st := repo.events[running].State; st != lifecycle.StateInProgress {
		t.Fatalf("running state = %q", st)
	}
	if st := repo.events[over].State; st != lifecycle.StateFinished {
		t.Fatalf("over state = %q", st)
	}
	if st := repo.events[future].State; st != lifecycle.StateScheduled {
		t.Fatalf("future state = %q", st)
	}
}

func TestSweepSkipsFrozenAndCancelled(t *testing.T) {
	now := baseStart.Add(5 * time.Hour)
	sw, repo := sweepHarness(t, now)

	done := now.Add(-time.Hour)
	frozen := uuid.New()
	repo.events[frozen] = domain.Event{
		ID: frozen, Name: "cerrado a mano", StartsAt: baseStart,
		State: lifecycle.StateInProgress, ManualDoneAt: &done,
	}
	cancelled := seed(repo, "cancelado", baseStart, lifecycle.StateCancelled)

	rep, err := sw.Sweep(context.Background(), false, false)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if rep.Scanned != 0 || rep.Changed != 0 {
		t.Fatalf("report = %+v", rep)
	}
	if st := repo.events[frozen].State; st != lifecycle.StateInProgress {
		t.Fatalf("frozen state mutated to %q", st)
	}
	if st := repo.events[cancelled].State; st != lifecycle.StateCancelled {
		t.Fatalf("cancelled state mutated to %q", st)
	}
}

func TestSweepDryRun(t *testing.T) {
	now := baseStart.Add(2 * time.Hour)
	sw, repo := sweepHarness(t, now)
	id := seed(repo, "debería finalizar", baseStart, lifecycle.StateScheduled)

	rep, err := sw.Sweep(context.Background(), false, true)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if rep.Changed != 1 {
		t.Fatalf("report = %+v", rep)
	}
	if st := repo.events[id].State; st != lifecycle.StateScheduled {
		t.Fatalf("dry run wrote state %q", st)
	}
}

func TestSweepOnlyToday(t *testing.T) {
	now := baseStart.Add(2 * time.Hour)
	sw, repo := sweepHarness(t, now)

	today := seed(repo, "evento de hoy", baseStart, lifecycle.StateScheduled)
	yesterday := seed(repo, "evento de ayer", baseStart.Add(-24*time.Hour), lifecycle.StateScheduled)

	rep, err := sw.Sweep(context.Background(), true, false)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if rep.Scanned != 1 || rep.Changed != 1 {
		t.Fatalf("report = %+v", rep)
	}
	if st := repo.events[today].State; st != lifecycle.StateFinished {
		t.Fatalf("today state = %q", st)
	}
	if st := repo.events[yesterday].State; st != lifecycle.StateScheduled {
		t.Fatalf("yesterday swept to %q", st)
	}
}

func TestSweepStaleRow(t *testing.T) {
	now := baseStart.Add(30 * time.Minute)
	sw, repo := sweepHarness(t, now)

	id := seed(repo, "con carrera", baseStart, lifecycle.StateScheduled)
	// someone cancels the event between the read and the swap
	repo.raceWith[id] = lifecycle.StateCancelled

	rep, err := sw.Sweep(context.Background(), false, false)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if rep.Stale != 1 || rep.Changed != 0 {
		t.Fatalf("report = %+v", rep)
	}
	if st := repo.events[id].State; st != lifecycle.StateCancelled {
		t.Fatalf("state = %q, want the concurrent cancel to stand", st)
	}
}
