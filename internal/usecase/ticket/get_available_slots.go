package ticket

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/chamados-pro/internal/domain/schedule"
	domain "github.com/BruksfildServices01/chamados-pro/internal/domain/ticket"
	"github.com/BruksfildServices01/chamados-pro/internal/httperr"
	"github.com/BruksfildServices01/chamados-pro/internal/metrics"
)

const (
	defaultRangeDays = 14
	maxRangeDays     = 62
)

type AvailableSlotsInput struct {
	CompanyID string
	StartDate string
	EndDate   string
	ServiceID string
	// horas; zero usa o serviço ou o padrão da empresa
	Duration int
}

type AvailableSlotsOutput struct {
	Slots []schedule.AvailableSlot `json:"slots"`
	Count int                      `json:"count"`
}

type GetAvailableSlots struct {
	repo   domain.Repository
	events schedule.EventSource
	log    zerolog.Logger
	now    func() time.Time
}

func NewGetAvailableSlots(
	repo domain.Repository,
	events schedule.EventSource,
	log zerolog.Logger,
) *GetAvailableSlots {
	return &GetAvailableSlots{
		repo:   repo,
		events: events,
		log:    log.With().Str("usecase", "available_slots").Logger(),
		now:    time.Now,
	}
}

func (uc *GetAvailableSlots) Execute(
	ctx context.Context,
	in AvailableSlotsInput,
) (*AvailableSlotsOutput, error) {

	tn, err := loadTenant(ctx, uc.repo, in.CompanyID)
	if err != nil {
		return nil, err
	}
	return uc.execute(ctx, tn, in)
}

func (uc *GetAvailableSlots) execute(
	ctx context.Context,
	tn *tenant,
	in AvailableSlotsInput,
) (*AvailableSlotsOutput, error) {

	now := uc.now().In(tn.loc)

	// --------------------------------------------------
	// 1️⃣ Intervalo de datas
	// --------------------------------------------------
	from, to, err := dateRange(in.StartDate, in.EndDate, now, tn.loc)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Duração
	// --------------------------------------------------
	duration := in.Duration
	if in.ServiceID != "" {
		service, err := uc.repo.GetService(ctx, tn.company.ID, in.ServiceID)
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !service.Active) {
			// serviço removido ou inativo: nada a oferecer
			uc.log.Warn().
				Str("company_id", tn.company.ID).
				Str("service_id", in.ServiceID).
				Msg("service not found or inactive")
			return &AvailableSlotsOutput{Slots: []schedule.AvailableSlot{}}, nil
		}
		if err != nil {
			return nil, err
		}
		if duration <= 0 {
			duration = service.Duration
		}
	}
	if duration <= 0 {
		duration = defaultDuration(tn.settings)
	}

	// --------------------------------------------------
	// 3️⃣ Chamados existentes (com proteção)
	// --------------------------------------------------
	windowStart := from.AddDate(0, 0, -1)
	windowEnd := to.AddDate(0, 0, 2)

	tickets, err := uc.repo.ListBlockingTickets(ctx, tn.company.ID, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	reserved := make([]schedule.Interval, 0, len(tickets))
	for _, t := range tickets {
		start, end := domain.ProtectedInterval(t, tn.settings.BufferMinutes, tn.settings.TravelMinutes)
		reserved = append(reserved, schedule.Interval{Start: start, End: end})
	}

	// --------------------------------------------------
	// 4️⃣ Google Calendar (falha = sem filtro)
	// --------------------------------------------------
	busy := uc.calendarBusy(ctx, tn, windowStart, windowEnd)

	// --------------------------------------------------
	// 5️⃣ Geração
	// --------------------------------------------------
	slots := schedule.GenerateSlots(schedule.GeneratorInput{
		Config:          schedule.NormalizeWorkingHours(tn.settings.WorkingHours, tn.settings.WorkingDays),
		From:            from,
		To:              to,
		Location:        tn.loc,
		Now:             now,
		DurationMinutes: duration * 60,
		LeadTimeMinutes: tn.settings.LeadTimeMinutes,
		Padding:         time.Duration(tn.settings.BufferMinutes+tn.settings.TravelMinutes) * time.Minute,
		Reserved:        reserved,
		Busy:            busy,
	})

	metrics.ObserveSlots(len(slots))

	return &AvailableSlotsOutput{Slots: slots, Count: len(slots)}, nil
}

func (uc *GetAvailableSlots) calendarBusy(ctx context.Context, tn *tenant, from, to time.Time) []schedule.Interval {
	gate := CalendarGate(tn.settings)
	if uc.events == nil || !gate.Active() {
		return nil
	}

	events, err := uc.events.ListEvents(ctx, eventQuery(tn, from, to))
	if err != nil {
		metrics.IncCalendarFailure("events")
		uc.log.Debug().Err(err).Str("company_id", tn.company.ID).Msg("calendar events unavailable")
		return nil
	}

	return schedule.BusyIntervals(events, gate, tn.loc)
}

// dateRange: início vazio = hoje; fim vazio = início + 14 dias.
// Aceita YYYY-MM-DD ou um instante RFC3339, lido como a data local do negócio.
func dateRange(startDate, endDate string, now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if startDate != "" {
		d, err := parseRangeDate(startDate, loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = d
	}

	to := from.AddDate(0, 0, defaultRangeDays)
	if endDate != "" {
		d, err := parseRangeDate(endDate, loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = d
	}

	if to.Before(from) || to.Sub(from) > maxRangeDays*24*time.Hour {
		return time.Time{}, time.Time{}, httperr.ErrBusiness("invalid_range")
	}
	return from, to, nil
}

func parseRangeDate(v string, loc *time.Location) (time.Time, error) {
	if d, err := schedule.ParseDate(v, loc); err == nil {
		return d, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, httperr.ErrBusiness("invalid_date")
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}
