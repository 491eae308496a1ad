// Package service contains the agenda assistant workflows
package service

import (
	"context"
	"fmt"
	"strings"

	"agenda/internal/core/chat"
	"agenda/internal/core/lifecycle"
	"agenda/internal/platform/clock"
	perr "agenda/internal/platform/errors"
	"agenda/internal/platform/logger"
	"agenda/internal/services/chat/domain"
)

// Query limits, matching the assistant's reply headers
const (
	municipalityLimit = 10
	searchLimit       = 5
)

// Service defines the assistant contract
type Service interface {
	domain.ServicePort
}

// Svc implements the assistant: classify, query, render.
// It only ever reads; writes stay with the agenda service
type Svc struct {
	events     domain.EventReader
	catalog    domain.CatalogReader
	classifier *chat.Classifier
	engine     *lifecycle.Engine
	clock      clock.Clock
}

// Compile-time assertion: Svc implements Service
var _ Service = (*Svc)(nil)

// New constructs the assistant service
func New(events domain.EventReader, catalog domain.CatalogReader, engine *lifecycle.Engine, clk clock.Clock) *Svc {
	if events == nil || catalog == nil {
		panic("chat.Service requires non nil readers")
	}
	if engine == nil {
		panic("chat.Service requires a non nil lifecycle Engine")
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &Svc{
		events:     events,
		catalog:    catalog,
		classifier: chat.NewClassifier(),
		engine:     engine,
		clock:      clk,
	}
}

// Ask answers one message. Interpretation misses ("I did not understand")
// are successful replies; only data-layer faults flip Success off, with a
// generic apology so internals never leak into the conversation
func (s *Svc) Ask(ctx context.Context, in domain.AskInput) domain.Reply {
	now := s.clock.Now()
	today := chat.DateOf(now.In(s.engine.Zone()))
	cl := s.classifier.Classify(in.Message, today)

	text, err := s.answer(ctx, cl, today)
	if err != nil {
		logger.C(ctx).Error().Err(err).
			Str("intent", cl.Intent.String()).
			Msg("assistant query failed")
		return domain.Reply{Success: false, ResponseText: replyFault}
	}
	return domain.Reply{Success: true, ResponseText: text}
}

func (s *Svc) answer(ctx context.Context, cl chat.Classification, today chat.Date) (string, error) {
	switch cl.Intent {
	case chat.IntentDate:
		return s.answerDate(ctx, cl, today)
	case chat.IntentMunicipality:
		return s.answerMunicipality(ctx, cl)
	case chat.IntentStat:
		return s.answerStat(ctx, cl.Stat)
	case chat.IntentSearch:
		return s.answerSearch(ctx, cl.Terms)
	case chat.IntentHelp:
		return replyHelp, nil
	default:
		return replyFallback, nil
	}
}

func (s *Svc) answerDate(ctx context.Context, cl chat.Classification, today chat.Date) (string, error) {
	if cl.DateErr {
		return replyBadDate, nil
	}
	loc := s.engine.Zone()

	if cl.Date != nil {
		d := *cl.Date
		from, to := d.BoundsIn(loc)
		events, err := s.events.ListBetween(ctx, from, to)
		if err != nil {
			return "", err
		}
		if len(events) == 0 {
			// future and past days get different wording: one is still
			// plannable, the other is history
			if d.After(today) {
				return fmt.Sprintf(
					"📅 No hay eventos programados para el **%s**.\n\n¿Te gustaría que revise fechas cercanas?",
					d.Spanish()), nil
			}
			return fmt.Sprintf("📅 No hubo eventos registrados el **%s**.", d.Spanish()), nil
		}
		header := fmt.Sprintf("📅 **Eventos para el %s** (%d evento%s):\n\n",
			d.Spanish(), len(events), plural(len(events)))
		return renderDayEvents(header, events, loc), nil
	}

	r := *cl.Range
	from, to := r.BoundsIn(loc)
	events, err := s.events.ListBetween(ctx, from, to)
	if err != nil {
		return "", err
	}
	if len(events) == 0 {
		return fmt.Sprintf("📅 No hay eventos programados para %s.", r.Label), nil
	}
	header := fmt.Sprintf("📅 **Eventos para %s** (%d eventos):\n\n", r.Label, len(events))
	return renderDayEvents(header, events, loc), nil
}

func (s *Svc) answerMunicipality(ctx context.Context, cl chat.Classification) (string, error) {
	m, err := s.catalog.FindByName(ctx, cl.Canonical)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return fmt.Sprintf("No encontré el municipio '%s' en el sistema.", cl.Alias), nil
		}
		return "", err
	}

	events, err := s.events.RecentByMunicipality(ctx, m.ID, municipalityLimit)
	if err != nil {
		return "", err
	}
	if len(events) == 0 {
		return fmt.Sprintf("No encontré eventos programados en %s.", m.Name), nil
	}
	return renderMunicipalityEvents(m.Name, municipalityLimit, events, s.engine.Zone()), nil
}

func (s *Svc) answerStat(ctx context.Context, kind chat.StatKind) (string, error) {
	switch kind {
	case chat.StatTotal:
		total, err := s.events.CountAll(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("📊 **Total de eventos registrados**: %d eventos", total), nil

	case chat.StatPrincipal:
		n, err := s.events.CountAttendance(ctx, true)
		if err != nil {
			return "", err
		}
		total, err := s.events.CountAll(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("👤 **Eventos con asistencia del Gobernador**: %d eventos (%s%%)", n, pct(n, total)), nil

	case chat.StatDelegate:
		n, err := s.events.CountAttendance(ctx, false)
		if err != nil {
			return "", err
		}
		total, err := s.events.CountAll(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("🤝 **Eventos con representante**: %d eventos (%s%%)", n, pct(n, total)), nil

	case chat.StatHoliday:
		n, err := s.events.CountHolidays(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("🎉 **Eventos festivos**: %d eventos", n), nil

	default:
		return "¿Qué estadística específica te interesa?", nil
	}
}

func (s *Svc) answerSearch(ctx context.Context, terms []string) (string, error) {
	if len(terms) == 0 {
		return replyNoSearchTerms, nil
	}
	events, err := s.events.SearchRecent(ctx, terms, searchLimit)
	if err != nil {
		return "", err
	}
	if len(events) == 0 {
		return fmt.Sprintf("No encontré eventos relacionados con: %s", strings.Join(terms, ", ")), nil
	}
	return renderSearchEvents(terms, events, s.engine.Zone()), nil
}
