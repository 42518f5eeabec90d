package ticket

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/chamados-pro/internal/domain/schedule"
	domain "github.com/BruksfildServices01/chamados-pro/internal/domain/ticket"
	"github.com/BruksfildServices01/chamados-pro/internal/httperr"
	"github.com/BruksfildServices01/chamados-pro/internal/metrics"
)

type ListCalendarEvents struct {
	repo   domain.Repository
	events schedule.EventSource
	log    zerolog.Logger
}

func NewListCalendarEvents(
	repo domain.Repository,
	events schedule.EventSource,
	log zerolog.Logger,
) *ListCalendarEvents {
	return &ListCalendarEvents{
		repo:   repo,
		events: events,
		log:    log.With().Str("usecase", "calendar_events").Logger(),
	}
}

// Execute devolve lista vazia quando a integração está desconectada.
// Falhas do Google viram erro "calendar_unavailable"; o cliente trata
// resposta não-OK como lista vazia.
func (uc *ListCalendarEvents) Execute(
	ctx context.Context,
	companyID string,
	timeMin time.Time,
	timeMax time.Time,
) ([]schedule.CalendarEvent, error) {

	if !timeMax.After(timeMin) {
		return nil, httperr.ErrBusiness("invalid_range")
	}

	tn, err := loadTenant(ctx, uc.repo, companyID)
	if err != nil {
		return nil, err
	}

	if uc.events == nil || !CalendarGate(tn.settings).Connected() {
		return []schedule.CalendarEvent{}, nil
	}

	events, err := uc.events.ListEvents(ctx, eventQuery(tn, timeMin, timeMax))
	if err != nil {
		metrics.IncCalendarFailure("events")
		uc.log.Warn().Err(err).Str("company_id", companyID).Msg("list calendar events failed")
		return nil, httperr.ErrBusiness("calendar_unavailable")
	}

	if events == nil {
		events = []schedule.CalendarEvent{}
	}
	return events, nil
}
