// Package repo provides Postgres bindings for the agenda domain.Repo
package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"agenda/internal/core/lifecycle"
	perr "agenda/internal/platform/errors"
	"agenda/internal/platform/store"
	"agenda/internal/services/agenda/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PG implements domain.Repo over the platform sql seam
type PG struct {
	db store.RowQuerier
}

// Compile-time assertion: PG implements domain.Repo
var _ domain.Repo = (*PG)(nil)

// NewPG binds the repo to a querier (pool or open transaction)
func NewPG(db store.RowQuerier) *PG { return &PG{db: db} }

const eventCols = `
	e.id, e.name, e.starts_at, e.municipality_id, m.name,
	e.place, e.is_holiday, e.organizer, e.principal_attended, e.delegate_name,
	e.state, e.manual_done_at, e.description, e.notes,
	e.created_by, e.created_at, e.updated_at`

const eventFrom = ` FROM events e JOIN municipalities m ON m.id = e.municipality_id`

func scanEvent(row store.Row) (domain.Event, error) {
	var (
		e         domain.Event
		principal bool
		delegate  string
	)
	err := row.Scan(
		&e.ID, &e.Name, &e.StartsAt, &e.MunicipalityID, &e.Municipality,
		&e.Place, &e.IsHoliday, &e.Organizer, &principal, &delegate,
		&e.State, &e.ManualDoneAt, &e.Description, &e.Notes,
		&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return domain.Event{}, err
	}
	e.Attendance = domain.Attendance{Principal: principal, Delegate: delegate}
	return e, nil
}

func collectEvents(rows store.Rows) ([]domain.Event, error) {
	defer rows.Close()
	var out []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Insert persists a new event and backfills the DB-assigned timestamps
func (r *PG) Insert(ctx context.Context, e *domain.Event) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO events (
			id, name, starts_at, municipality_id, place, is_holiday, organizer,
			principal_attended, delegate_name, state, manual_done_at,
			description, notes, created_by
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING created_at, updated_at
	`,
		e.ID, e.Name, e.StartsAt, e.MunicipalityID, e.Place, e.IsHoliday,
		e.Organizer, e.Attendance.Principal, e.Attendance.Delegate,
		e.State, e.ManualDoneAt, e.Description, e.Notes, e.CreatedBy,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return perr.FromPostgresWithField(err, "insert event")
	}
	return nil
}

// UpdateFields replaces the editable columns of an existing event
func (r *PG) UpdateFields(ctx context.Context, e *domain.Event) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE events SET
			name = $2, starts_at = $3, municipality_id = $4, place = $5,
			is_holiday = $6, organizer = $7, principal_attended = $8,
			delegate_name = $9, state = $10, description = $11, notes = $12,
			updated_at = now()
		WHERE id = $1
	`,
		e.ID, e.Name, e.StartsAt, e.MunicipalityID, e.Place, e.IsHoliday,
		e.Organizer, e.Attendance.Principal, e.Attendance.Delegate,
		e.State, e.Description, e.Notes,
	)
	if err != nil {
		return perr.FromPostgresWithField(err, "update event")
	}
	if tag.RowsAffected() == 0 {
		return perr.NotFoundf("event %s not found", e.ID)
	}
	return nil
}

// GetByID fetches one event with its municipality name
func (r *PG) GetByID(ctx context.Context, id uuid.UUID) (domain.Event, error) {
	e, err := scanEvent(r.db.QueryRow(ctx, `SELECT`+eventCols+eventFrom+` WHERE e.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Event{}, perr.NotFoundf("event %s not found", id)
		}
		return domain.Event{}, perr.FromPostgres(err, "get event")
	}
	return e, nil
}

// ListBetween returns events starting within [from, to), ascending
func (r *PG) ListBetween(ctx context.Context, from, to time.Time) ([]domain.Event, error) {
	rows, err := r.db.Query(ctx,
		`SELECT`+eventCols+eventFrom+`
		 WHERE e.starts_at >= $1 AND e.starts_at < $2
		 ORDER BY e.starts_at ASC`, from, to)
	if err != nil {
		return nil, perr.FromPostgres(err, "list events by range")
	}
	return collectEvents(rows)
}

// ListRecent returns the latest events, descending
func (r *PG) ListRecent(ctx context.Context, limit int) ([]domain.Event, error) {
	rows, err := r.db.Query(ctx,
		`SELECT`+eventCols+eventFrom+` ORDER BY e.starts_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "list recent events")
	}
	return collectEvents(rows)
}

// RecentByMunicipality returns the latest events in one municipality, descending
func (r *PG) RecentByMunicipality(ctx context.Context, municipalityID uuid.UUID, limit int) ([]domain.Event, error) {
	rows, err := r.db.Query(ctx,
		`SELECT`+eventCols+eventFrom+`
		 WHERE e.municipality_id = $1
		 ORDER BY e.starts_at DESC LIMIT $2`, municipalityID, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "list events by municipality")
	}
	return collectEvents(rows)
}

// likeEscaper neutralizes LIKE metacharacters so user tokens match literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchRecent matches any term (ILIKE) against name, place and organizer
func (r *PG) SearchRecent(ctx context.Context, terms []string, limit int) ([]domain.Event, error) {
	if len(terms) == 0 {
		return nil, nil
	}
	patterns := make([]string, len(terms))
	for i, t := range terms {
		patterns[i] = "%" + likeEscaper.Replace(t) + "%"
	}
	rows, err := r.db.Query(ctx,
		`SELECT`+eventCols+eventFrom+`
		 WHERE e.name ILIKE ANY($1::text[])
		    OR e.place ILIKE ANY($1::text[])
		    OR e.organizer ILIKE ANY($1::text[])
		 ORDER BY e.starts_at DESC LIMIT $2`, patterns, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "search events")
	}
	return collectEvents(rows)
}

func (r *PG) countWhere(ctx context.Context, where string, args ...any) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM events e`+where, args...).Scan(&n); err != nil {
		return 0, perr.FromPostgres(err, "count events")
	}
	return n, nil
}

// CountAll counts every registered event
func (r *PG) CountAll(ctx context.Context) (int, error) {
	return r.countWhere(ctx, "")
}

// CountAttendance counts events by who covered them
func (r *PG) CountAttendance(ctx context.Context, principal bool) (int, error) {
	return r.countWhere(ctx, ` WHERE e.principal_attended = $1`, principal)
}

// CountHolidays counts holiday events
func (r *PG) CountHolidays(ctx context.Context) (int, error) {
	return r.countWhere(ctx, ` WHERE e.is_holiday`)
}

// ListForSweep returns rows the sweeper may still move: non-terminal state
// and no manual finalization, optionally bounded by start instant
func (r *PG) ListForSweep(ctx context.Context, from, to *time.Time) ([]domain.Event, error) {
	q := `SELECT` + eventCols + eventFrom + `
		 WHERE e.state IN ('scheduled','in_progress')
		   AND e.manual_done_at IS NULL`
	args := []any{}
	if from != nil && to != nil {
		q += fmt.Sprintf(" AND e.starts_at >= $%d AND e.starts_at < $%d", len(args)+1, len(args)+2)
		args = append(args, *from, *to)
	}
	q += ` ORDER BY e.starts_at ASC`

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, perr.FromPostgres(err, "list events for sweep")
	}
	return collectEvents(rows)
}

// SwapState flips the stored state only if it still holds the expected value
func (r *PG) SwapState(ctx context.Context, id uuid.UUID, expect, next lifecycle.State) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE events SET state = $3, updated_at = now()
		WHERE id = $1 AND state = $2 AND manual_done_at IS NULL
	`, id, expect, next)
	if err != nil {
		return false, perr.FromPostgres(err, "swap event state")
	}
	return tag.RowsAffected() == 1, nil
}

// SetFinal stamps a terminal transition
func (r *PG) SetFinal(ctx context.Context, id uuid.UUID, state lifecycle.State, manualDoneAt *time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE events SET state = $2, manual_done_at = $3, updated_at = now()
		WHERE id = $1
	`, id, state, manualDoneAt)
	if err != nil {
		return perr.FromPostgres(err, "finalize event")
	}
	if tag.RowsAffected() == 0 {
		return perr.NotFoundf("event %s not found", id)
	}
	return nil
}
