//go:build integration_pg
// +build integration_pg

package repo_test

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"agenda/internal/core/lifecycle"
	perr "agenda/internal/platform/errors"
	"agenda/internal/platform/store"
	"agenda/internal/services/agenda/domain"
	"agenda/internal/services/agenda/repo"
	munirepo "agenda/internal/services/municipalities/repo"
	"agenda/migrations"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres launches a disposable Postgres and returns DSN + stop func
func startPostgres(t *testing.T) (dsn string, stop func()) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)

	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "postgres",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(2 * time.Minute),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		cancel()
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get container host: %v", err)
	}
	mp, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get mapped port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, mp.Port())
	stop = func() {
		_ = c.Terminate(context.Background())
		cancel()
	}
	return dsn, stop
}

// openStore opens the platform store against the container and applies the schema
func openStore(t *testing.T, ctx context.Context, dsn string) *store.Store {
	t.Helper()

	st, err := store.Open(ctx, store.Config{URL: dsn, MaxConns: 2},
		store.WithLogger(zerolog.New(io.Discard)))
	if err != nil {
		t.Fatalf("store open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	if err := migrations.Apply(ctx, st.Pool().Pool); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	return st
}

func TestEventRepo_Integration_RoundTrip(t *testing.T) {
	dsn, stop := startPostgres(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	st := openStore(t, ctx, dsn)
	events := repo.NewPG(st.PG)
	munis := munirepo.NewPG(st.PG)

	created, err := munis.InsertIgnore(ctx, "Tuxtla Gutiérrez")
	if err != nil {
		t.Fatalf("seed municipality: %v", err)
	}
	if !created {
		t.Fatal("expected fresh municipality row")
	}
	mun, err := munis.FindByName(ctx, "tuxtla")
	if err != nil {
		t.Fatalf("find municipality: %v", err)
	}

	start := time.Date(2024, time.March, 15, 16, 0, 0, 0, time.UTC)
	e := domain.Event{
		ID:             uuid.New(),
		Name:           "Entrega de becas escolares",
		StartsAt:       start,
		MunicipalityID: mun.ID,
		Place:          "Parque Central",
		Organizer:      "Secretaría de Educación",
		Attendance:     domain.PrincipalAttendance(),
		State:          lifecycle.StateScheduled,
		CreatedBy:      "integration",
	}
	if err := events.Insert(ctx, &e); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if e.CreatedAt.IsZero() || e.UpdatedAt.IsZero() {
		t.Fatal("insert did not backfill timestamps")
	}

	got, err := events.GetByID(ctx, e.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Municipality != "Tuxtla Gutiérrez" {
		t.Fatalf("joined municipality = %q", got.Municipality)
	}
	if !got.StartsAt.Equal(start) {
		t.Fatalf("starts_at = %v want %v", got.StartsAt, start)
	}
	if !got.Attendance.Principal || got.Attendance.Delegate != "" {
		t.Fatalf("attendance = %+v", got.Attendance)
	}

	// same name on the same civil day must collide
	dup := e
	dup.ID = uuid.New()
	dup.StartsAt = start.Add(3 * time.Hour)
	err = events.Insert(ctx, &dup)
	if err == nil {
		t.Fatal("expected civil-day uniqueness violation")
	}
	if !perr.IsDuplicateKey(err) {
		t.Fatalf("expected duplicate key error, got %v", err)
	}

	// CAS: hit, then miss on the stale expectation
	swapped, err := events.SwapState(ctx, e.ID, lifecycle.StateScheduled, lifecycle.StateInProgress)
	if err != nil {
		t.Fatalf("swap: %v", err)
	}
	if !swapped {
		t.Fatal("expected CAS hit")
	}
	swapped, err = events.SwapState(ctx, e.ID, lifecycle.StateScheduled, lifecycle.StateFinished)
	if err != nil {
		t.Fatalf("swap stale: %v", err)
	}
	if swapped {
		t.Fatal("expected CAS miss on stale expectation")
	}

	// manual finalization freezes the row out of future sweeps
	doneAt := time.Now().UTC().Truncate(time.Microsecond)
	if err := events.SetFinal(ctx, e.ID, lifecycle.StateFinished, &doneAt); err != nil {
		t.Fatalf("set final: %v", err)
	}
	sweepable, err := events.ListForSweep(ctx, nil, nil)
	if err != nil {
		t.Fatalf("list for sweep: %v", err)
	}
	if len(sweepable) != 0 {
		t.Fatalf("frozen row still sweepable: %d rows", len(sweepable))
	}

	swapped, err = events.SwapState(ctx, e.ID, lifecycle.StateFinished, lifecycle.StateInProgress)
	if err != nil {
		t.Fatalf("swap frozen: %v", err)
	}
	if swapped {
		t.Fatal("CAS must not touch manually finalized rows")
	}
}

func TestEventRepo_Integration_SearchAndCounts(t *testing.T) {
	dsn, stop := startPostgres(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	st := openStore(t, ctx, dsn)
	events := repo.NewPG(st.PG)
	munis := munirepo.NewPG(st.PG)

	if _, err := munis.InsertIgnore(ctx, "Tapachula"); err != nil {
		t.Fatalf("seed municipality: %v", err)
	}
	mun, err := munis.FindByName(ctx, "Tapachula")
	if err != nil {
		t.Fatalf("find municipality: %v", err)
	}

	base := time.Date(2024, time.March, 10, 16, 0, 0, 0, time.UTC)
	insert := func(name string, dayOffset int, holiday bool, delegate string) {
		att := domain.PrincipalAttendance()
		if delegate != "" {
			att, err = domain.DelegateAttendance(delegate)
			if err != nil {
				t.Fatalf("attendance: %v", err)
			}
		}
		e := domain.Event{
			ID:             uuid.New(),
			Name:           name,
			StartsAt:       base.AddDate(0, 0, dayOffset),
			MunicipalityID: mun.ID,
			Place:          "Centro de convenciones",
			IsHoliday:      holiday,
			Organizer:      "Gobierno del Estado",
			Attendance:     att,
			State:          lifecycle.StateScheduled,
			CreatedBy:      "integration",
		}
		if err := events.Insert(ctx, &e); err != nil {
			t.Fatalf("insert %q: %v", name, err)
		}
	}
	insert("Foro de educación media", 0, false, "")
	insert("Feria de la primavera", 1, true, "Lic. Gómez")
	insert("Supervisión de obra carretera", 2, false, "")

	found, err := events.SearchRecent(ctx, []string{"educación"}, 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(found) != 1 || found[0].Name != "Foro de educación media" {
		t.Fatalf("search results: %+v", found)
	}

	// a token carrying LIKE metacharacters matches literally, never as a wildcard
	found, err = events.SearchRecent(ctx, []string{"educaci%n"}, 5)
	if err != nil {
		t.Fatalf("search metacharacter: %v", err)
	}
	if len(found) != 0 {
		t.Fatalf("metacharacter token over-matched: %+v", found)
	}

	recent, err := events.RecentByMunicipality(ctx, mun.ID, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 || !recent[0].StartsAt.After(recent[1].StartsAt) {
		t.Fatalf("recent ordering: %+v", recent)
	}

	total, err := events.CountAll(ctx)
	if err != nil {
		t.Fatalf("count all: %v", err)
	}
	principal, err := events.CountAttendance(ctx, true)
	if err != nil {
		t.Fatalf("count principal: %v", err)
	}
	holidays, err := events.CountHolidays(ctx)
	if err != nil {
		t.Fatalf("count holidays: %v", err)
	}
	if total != 3 || principal != 2 || holidays != 1 {
		t.Fatalf("counts total=%d principal=%d holidays=%d", total, principal, holidays)
	}
}
