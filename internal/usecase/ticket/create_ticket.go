package ticket

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/chamados-pro/internal/audit"
	"github.com/BruksfildServices01/chamados-pro/internal/domain/schedule"
	domain "github.com/BruksfildServices01/chamados-pro/internal/domain/ticket"
	"github.com/BruksfildServices01/chamados-pro/internal/httperr"
	"github.com/BruksfildServices01/chamados-pro/internal/metrics"
	"github.com/BruksfildServices01/chamados-pro/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateTicketInput struct {
	CompanyID    string
	UserID       string
	TechnicianID *string

	Draft domain.Draft

	SyncToGoogleCalendar bool
	// escolha do usuário; só vale quando a empresa permite por chamado
	CalculationsOverride *bool
}

// ======================================================
// USE CASE
// ======================================================

type CreateTicket struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	calendar CalendarWriter
	log      zerolog.Logger
	now      func() time.Time
}

func NewCreateTicket(
	repo domain.Repository,
	audit *audit.Dispatcher,
	calendar CalendarWriter,
	log zerolog.Logger,
) *CreateTicket {
	return &CreateTicket{
		repo:     repo,
		audit:    audit,
		calendar: calendar,
		log:      log.With().Str("usecase", "create_ticket").Logger(),
		now:      time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateTicket) Execute(
	ctx context.Context,
	in CreateTicketInput,
) (*models.Ticket, error) {

	// --------------------------------------------------
	// 1️⃣ Empresa, configuração e fuso do negócio
	// --------------------------------------------------
	tn, err := loadTenant(ctx, uc.repo, in.CompanyID)
	if err != nil {
		return nil, err
	}

	draft := in.Draft

	// --------------------------------------------------
	// 2️⃣ Cliente
	// --------------------------------------------------
	var client *models.Client
	var ref *domain.ClientRef
	if draft.ClientID != "" {
		client, err = uc.repo.GetClient(ctx, in.CompanyID, draft.ClientID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("client_not_found")
		}
		if err != nil {
			return nil, err
		}

		ct, _ := domain.ParseClientType(client.Type)
		ref = &domain.ClientRef{
			ID:      client.ID,
			Type:    ct,
			Address: client.Address,
			City:    client.City,
			State:   client.State,
		}
	}

	// --------------------------------------------------
	// 3️⃣ Número do chamado (parceiros)
	// --------------------------------------------------
	var nextNumber string
	if ref != nil && ref.Type.IsPartner() && draft.TicketNumber == "" {
		year := uc.now().In(tn.loc).Year()
		existing, err := uc.repo.ListTicketNumbers(ctx, in.CompanyID, domain.NumberPrefix(year))
		if err != nil {
			return nil, err
		}
		nextNumber = domain.NextNumber(year, existing)
	}

	// --------------------------------------------------
	// 4️⃣ Cálculos, serviço e duração padrão
	// --------------------------------------------------
	if ref != nil {
		policy := domain.PolicyFromSettings(
			tn.settings.CalculationsEnabled,
			tn.settings.CalculationsPerTicket,
			tn.settings.CalculationsClientTypes,
		)
		draft.CalculationsEnabled = policy.Resolve(ref.Type, in.CalculationsOverride)
	}

	var service *models.Service
	if (ref == nil || !ref.Type.IsPartner()) && draft.ServiceID != "" {
		service, err = uc.repo.GetService(ctx, in.CompanyID, draft.ServiceID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("service_not_found")
		}
		if err != nil {
			return nil, err
		}
	}

	if draft.Duration <= 0 {
		draft.Duration = defaultDuration(tn.settings)
		switch {
		case ref != nil && ref.Type.IsPartner() && client.DefaultHoursIncluded != nil && *client.DefaultHoursIncluded > 0:
			draft.Duration = *client.DefaultHoursIncluded
		case service != nil && service.Duration > 0:
			draft.Duration = service.Duration
		}
	}

	// --------------------------------------------------
	// 5️⃣ Validação (mesmas regras do formulário)
	// --------------------------------------------------
	payload, err := domain.BuildPayload(draft, domain.BuildOptions{
		Client:         ref,
		NextNumber:     nextNumber,
		SyncToCalendar: in.SyncToGoogleCalendar,
	})
	if err != nil {
		return nil, err
	}

	base := payload.Base()

	window, err := domain.ComputeWindow(draft.ScheduledDate, draft.ScheduledTime, base.Duration, tn.loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	// --------------------------------------------------
	// 6️⃣ Montagem do chamado por variante
	// --------------------------------------------------
	t := &models.Ticket{
		CompanyID:           in.CompanyID,
		TechnicianID:        in.TechnicianID,
		ClientID:            base.ClientID,
		Status:              string(domain.InitialStatus()),
		ScheduledFor:        window.Start,
		ScheduledEndFor:     window.End,
		Duration:            base.Duration,
		BufferMinutes:       tn.settings.BufferMinutes,
		TravelMinutes:       tn.settings.TravelMinutes,
		Description:         base.Description,
		CalculationsEnabled: base.CalculationsEnabled,

		SyncToGoogleCalendar: base.SyncToGoogleCalendar,
	}

	switch p := payload.(type) {
	case domain.ServicePayload:
		t.ServiceID = &p.ServiceID
		t.Address = p.Address
		t.City = p.City
		t.State = p.State

	case domain.PartnerBillingPayload:
		t.TicketNumber = p.TicketNumber
		t.FinalClient = p.FinalClient
		t.ServiceAddress = p.ServiceAddress
		t.Address = p.ServiceAddress
		t.ChargeType = string(p.ChargeType)
		t.ApprovedBy = p.ApprovedBy
		t.TicketValue = nullMoney(p.TicketValue)
		t.KmRate = nullMoney(p.KmRate)
		t.AdditionalHourRate = nullMoney(p.AdditionalHourRate)
	}

	// --------------------------------------------------
	// 7️⃣ Conflito de horário + criação (transação)
	// --------------------------------------------------
	protectedStart, protectedEnd := domain.ProtectedInterval(
		*t,
		tn.settings.BufferMinutes,
		tn.settings.TravelMinutes,
	)

	if err := uc.repo.CreateTicketExclusive(ctx, t, protectedStart, protectedEnd); err != nil {
		if httperr.IsExclusionConflict(err) {
			return nil, httperr.ErrBusiness("time_conflict")
		}
		return nil, err
	}

	// --------------------------------------------------
	// 8️⃣ Google Calendar (não bloqueia a criação)
	// --------------------------------------------------
	if base.SyncToGoogleCalendar {
		uc.syncCalendar(ctx, tn, t, client)
	}

	// --------------------------------------------------
	// 9️⃣ Auditoria + métricas
	// --------------------------------------------------
	clientType := ""
	if ref != nil {
		clientType = string(ref.Type)
	}
	metrics.IncTicketCreated(clientType)

	uc.audit.Dispatch(audit.Event{
		CompanyID: in.CompanyID,
		UserID:    optional(in.UserID),
		Action:    "ticket_created",
		Entity:    "ticket",
		EntityID:  &t.ID,
		Metadata: map[string]any{
			"kind":          payload.Kind(),
			"ticket_number": t.TicketNumber,
		},
	})

	return t, nil
}

func (uc *CreateTicket) syncCalendar(ctx context.Context, tn *tenant, t *models.Ticket, client *models.Client) {
	if uc.calendar == nil || !CalendarGate(tn.settings).Active() {
		return
	}

	summary := "Chamado"
	if t.TicketNumber != "" {
		summary += " " + t.TicketNumber
	}
	if client != nil {
		summary += " - " + client.Name
	}

	eventID, err := uc.calendar.InsertEvent(ctx, eventQuery(tn, t.ScheduledFor, t.ScheduledEndFor), schedule.CalendarEvent{
		Summary:    summary,
		Start:      t.ScheduledFor.In(tn.loc).Format(time.RFC3339),
		End:        t.ScheduledEndFor.In(tn.loc).Format(time.RFC3339),
		CalendarID: tn.settings.GoogleCalendarID,
	})
	if err != nil {
		metrics.IncCalendarFailure("insert")
		uc.log.Warn().Err(err).Str("ticket_id", t.ID).Msg("calendar sync failed")
		return
	}

	t.GoogleCalendarEventID = eventID
	if err := uc.repo.UpdateTicket(ctx, t); err != nil {
		uc.log.Warn().Err(err).Str("ticket_id", t.ID).Msg("saving calendar event id failed")
	}
}

func nullMoney(s string) decimal.NullDecimal {
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := domain.ParseMoney(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
