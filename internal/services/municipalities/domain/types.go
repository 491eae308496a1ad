// Package domain defines the core types and interfaces for the municipality catalog
package domain

import (
	"context"

	"github.com/google/uuid"
)

// Municipality is one entry of the Chiapas catalog
type Municipality struct {
	ID     uuid.UUID
	Name   string
	Active bool
}

// View is the API shape of a municipality
type View struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// ViewOf projects a Municipality into its API shape
func ViewOf(m Municipality) View {
	return View{ID: m.ID.String(), Name: m.Name, Active: m.Active}
}

// ViewsOf projects a slice of municipalities
func ViewsOf(ms []Municipality) []View {
	out := make([]View, 0, len(ms))
	for _, m := range ms {
		out = append(out, ViewOf(m))
	}
	return out
}

// SeedReport summarizes one catalog load
type SeedReport struct {
	Created  int `json:"created"`
	Existing int `json:"existing"`
}

// ServicePort is the municipality catalog contract
type ServicePort interface {
	// Seed loads the Chiapas catalog; loading twice creates nothing new
	Seed(ctx context.Context) (SeedReport, error)

	List(ctx context.Context, activeOnly bool) ([]Municipality, error)

	// FindByName resolves a case-insensitive partial name to one municipality
	FindByName(ctx context.Context, name string) (Municipality, error)

	SetActive(ctx context.Context, id uuid.UUID, active bool) (Municipality, error)
}

// Repo abstracts catalog storage
type Repo interface {
	// InsertIgnore adds a municipality unless the name already exists;
	// false means it was already there
	InsertIgnore(ctx context.Context, name string) (bool, error)

	List(ctx context.Context, activeOnly bool) ([]Municipality, error)
	FindByName(ctx context.Context, name string) (Municipality, error)
	GetByID(ctx context.Context, id uuid.UUID) (Municipality, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}
