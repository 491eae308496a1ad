// Package repo provides Postgres bindings for the municipality catalog
package repo

import (
	"context"
	"errors"

	perr "agenda/internal/platform/errors"
	"agenda/internal/platform/store"
	"agenda/internal/services/municipalities/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PG implements domain.Repo over the platform sql seam
type PG struct {
	db store.RowQuerier
}

// Compile-time assertion: PG implements domain.Repo
var _ domain.Repo = (*PG)(nil)

// NewPG binds the repo to a querier
func NewPG(db store.RowQuerier) *PG { return &PG{db: db} }

// InsertIgnore adds a municipality unless the name already exists
func (r *PG) InsertIgnore(ctx context.Context, name string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO municipalities (id, name, active)
		VALUES ($1, $2, true)
		ON CONFLICT (name) DO NOTHING
	`, uuid.New(), name)
	if err != nil {
		return false, perr.FromPostgres(err, "insert municipality")
	}
	return tag.RowsAffected() == 1, nil
}

// List returns the catalog ordered by name
func (r *PG) List(ctx context.Context, activeOnly bool) ([]domain.Municipality, error) {
	q := `SELECT id, name, active FROM municipalities`
	if activeOnly {
		q += ` WHERE active`
	}
	q += ` ORDER BY name ASC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, perr.FromPostgres(err, "list municipalities")
	}
	defer rows.Close()

	var out []domain.Municipality
	for rows.Next() {
		var m domain.Municipality
		if err := rows.Scan(&m.ID, &m.Name, &m.Active); err != nil {
			return nil, perr.FromPostgres(err, "scan municipality")
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// FindByName resolves a case-insensitive partial match, shortest name first
// so "tuxtla" hits "Tuxtla Gutiérrez" before "Tuxtla Chico" only when the
// full name sorts earlier; ties go to alphabetical order
func (r *PG) FindByName(ctx context.Context, name string) (domain.Municipality, error) {
	var m domain.Municipality
	err := r.db.QueryRow(ctx, `
		SELECT id, name, active FROM municipalities
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY length(name) ASC, name ASC
		LIMIT 1
	`, name).Scan(&m.ID, &m.Name, &m.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Municipality{}, perr.NotFoundf("municipality %q not found", name)
		}
		return domain.Municipality{}, perr.FromPostgres(err, "find municipality")
	}
	return m, nil
}

// GetByID fetches one municipality
func (r *PG) GetByID(ctx context.Context, id uuid.UUID) (domain.Municipality, error) {
	var m domain.Municipality
	err := r.db.QueryRow(ctx,
		`SELECT id, name, active FROM municipalities WHERE id = $1`, id,
	).Scan(&m.ID, &m.Name, &m.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Municipality{}, perr.NotFoundf("municipality %s not found", id)
		}
		return domain.Municipality{}, perr.FromPostgres(err, "get municipality")
	}
	return m, nil
}

// SetActive flips the active flag
func (r *PG) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE municipalities SET active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return perr.FromPostgres(err, "set municipality active")
	}
	if tag.RowsAffected() == 0 {
		return perr.NotFoundf("municipality %s not found", id)
	}
	return nil
}
