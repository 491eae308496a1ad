// Package service contains the municipality catalog workflows
package service

import (
	"context"
	"strings"

	perr "agenda/internal/platform/errors"
	"agenda/internal/platform/logger"
	"agenda/internal/services/municipalities/domain"

	"github.com/google/uuid"
)

// Service defines the municipality catalog contract
type Service interface {
	domain.ServicePort
}

// Svc implements the catalog service
type Svc struct {
	repo domain.Repo
	log  logger.Logger
}

// Compile-time assertion: Svc implements Service
var _ Service = (*Svc)(nil)

// New constructs a catalog service
func New(repo domain.Repo, log logger.Logger) *Svc {
	if repo == nil {
		panic("municipalities.Service requires a non nil Repo")
	}
	return &Svc{repo: repo, log: log}
}

// Seed loads the Chiapas catalog. Names already present are left untouched,
// so the loader can run on every deploy
func (s *Svc) Seed(ctx context.Context) (domain.SeedReport, error) {
	var rep domain.SeedReport
	for _, name := range domain.Catalog {
		created, err := s.repo.InsertIgnore(ctx, name)
		if err != nil {
			return rep, err
		}
		if created {
			rep.Created++
		} else {
			rep.Existing++
		}
	}
	s.log.Info().
		Int("created", rep.Created).
		Int("existing", rep.Existing).
		Int("catalog", len(domain.Catalog)).
		Msg("municipality catalog seeded")
	return rep, nil
}

// List returns the catalog, optionally only active entries
func (s *Svc) List(ctx context.Context, activeOnly bool) ([]domain.Municipality, error) {
	return s.repo.List(ctx, activeOnly)
}

// FindByName resolves a case-insensitive partial name
func (s *Svc) FindByName(ctx context.Context, name string) (domain.Municipality, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Municipality{}, perr.WithField(
			perr.Validationf("municipality name is required"), "name")
	}
	return s.repo.FindByName(ctx, name)
}

// SetActive flips the active flag and returns the updated entry
func (s *Svc) SetActive(ctx context.Context, id uuid.UUID, active bool) (domain.Municipality, error) {
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return domain.Municipality{}, err
	}
	return s.repo.GetByID(ctx, id)
}
