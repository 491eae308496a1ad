package service

import (
	"context"
	"time"

	"agenda/internal/core/lifecycle"
	"agenda/internal/platform/clock"
	"agenda/internal/platform/logger"
	ptime "agenda/internal/platform/time"
	"agenda/internal/services/agenda/domain"
)

// Sweeper drives automatic state transitions in batch. The web layer derives
// states on read; the sweeper is what keeps the stored column honest for
// anything reading the table directly
type Sweeper struct {
	repo   domain.Repo
	engine *lifecycle.Engine
	clock  clock.Clock
	log    logger.Logger
}

// NewSweeper constructs a sweeper over the agenda repo
func NewSweeper(repo domain.Repo, engine *lifecycle.Engine, clk clock.Clock, log logger.Logger) *Sweeper {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &Sweeper{repo: repo, engine: engine, clock: clk, log: log}
}

// Sweep recomputes the state of every sweepable event and persists changes
// with a compare-and-set per row. A CAS miss means a concurrent writer moved
// the row first; the row is counted stale and left for the next pass.
// With dryRun nothing is written, only counted
func (s *Sweeper) Sweep(ctx context.Context, onlyToday, dryRun bool) (domain.SweepReport, error) {
	now := s.clock.Now()

	var from, to *time.Time
	if onlyToday {
		f, t := s.engine.DayBoundsOf(now)
		from, to = ptime.Ptr(f), ptime.Ptr(t)
	}

	events, err := s.repo.ListForSweep(ctx, from, to)
	if err != nil {
		return domain.SweepReport{}, err
	}

	rep := domain.SweepReport{Scanned: len(events)}
	for _, e := range events {
		sched := e.Schedule()
		next, changed := s.engine.Apply(&sched, now)
		if !changed {
			continue
		}
		if dryRun {
			rep.Changed++
			continue
		}

		ok, err := s.repo.SwapState(ctx, e.ID, e.State, next)
		if err != nil {
			return rep, err
		}
		if !ok {
			rep.Stale++
			s.log.Debug().
				Str("event_id", e.ID.String()).
				Str("expected", string(e.State)).
				Msg("sweep: state moved concurrently, skipping")
			continue
		}
		rep.Changed++
		s.log.Info().
			Str("event_id", e.ID.String()).
			Str("from", string(e.State)).
			Str("to", string(next)).
			Msg("sweep: state advanced")
	}
	return rep, nil
}
