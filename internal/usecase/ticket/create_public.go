package ticket

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/chamados-pro/internal/audit"
	domain "github.com/BruksfildServices01/chamados-pro/internal/domain/ticket"
	"github.com/BruksfildServices01/chamados-pro/internal/httperr"
	"github.com/BruksfildServices01/chamados-pro/internal/metrics"
	"github.com/BruksfildServices01/chamados-pro/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreatePublicTicketInput struct {
	Slug string

	ClientName  string
	ClientPhone string
	ClientEmail string

	ServiceID string

	Date        string
	Time        string
	Description string
	Address     string
}

// ======================================================
// USE CASE
// ======================================================

// CreatePublicTicket agenda pelo link público da empresa. O horário
// pedido precisa constar na lista gerada para o mesmo dia.
type CreatePublicTicket struct {
	repo  domain.Repository
	slots *GetAvailableSlots
	audit *audit.Dispatcher
}

func NewCreatePublicTicket(
	repo domain.Repository,
	slots *GetAvailableSlots,
	audit *audit.Dispatcher,
) *CreatePublicTicket {
	return &CreatePublicTicket{
		repo:  repo,
		slots: slots,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreatePublicTicket) Execute(
	ctx context.Context,
	in CreatePublicTicketInput,
) (*models.Ticket, error) {

	if strings.TrimSpace(in.ClientName) == "" || strings.TrimSpace(in.ClientPhone) == "" {
		return nil, httperr.ErrBusiness("client_required")
	}

	// --------------------------------------------------
	// 1️⃣ Empresa pelo slug
	// --------------------------------------------------
	tn, err := loadPublicTenant(ctx, uc.repo, in.Slug)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Serviço liberado para agendamento público
	// --------------------------------------------------
	service, err := uc.repo.GetService(ctx, tn.company.ID, in.ServiceID)
	if err != nil || !service.Active || !service.PublicBooking {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	duration := service.Duration
	if duration <= 0 {
		duration = defaultDuration(tn.settings)
	}

	// --------------------------------------------------
	// 3️⃣ Horário precisa estar entre os livres
	// --------------------------------------------------
	out, err := uc.slots.execute(ctx, tn, AvailableSlotsInput{
		CompanyID: tn.company.ID,
		StartDate: in.Date,
		EndDate:   in.Date,
		ServiceID: service.ID,
		Duration:  duration,
	})
	if err != nil {
		return nil, err
	}

	available := false
	for _, s := range out.Slots {
		if s.Date == in.Date && s.Time == in.Time {
			available = true
			break
		}
	}
	if !available {
		return nil, httperr.ErrBusiness("slot_unavailable")
	}

	window, err := domain.ComputeWindow(in.Date, in.Time, duration, tn.loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	// --------------------------------------------------
	// 4️⃣ Cliente (get or create)
	// --------------------------------------------------
	client, err := uc.repo.GetOrCreateClient(
		ctx,
		tn.company.ID,
		strings.TrimSpace(in.ClientName),
		strings.TrimSpace(in.ClientPhone),
		strings.TrimSpace(in.ClientEmail),
	)
	if err != nil {
		return nil, err
	}

	address := in.Address
	if address == "" {
		address = client.Address
	}

	// --------------------------------------------------
	// 5️⃣ Criação com verificação de conflito
	// --------------------------------------------------
	t := &models.Ticket{
		CompanyID:       tn.company.ID,
		ClientID:        client.ID,
		ServiceID:       &service.ID,
		Status:          string(domain.InitialStatus()),
		ScheduledFor:    window.Start,
		ScheduledEndFor: window.End,
		Duration:        duration,
		BufferMinutes:   tn.settings.BufferMinutes,
		TravelMinutes:   tn.settings.TravelMinutes,
		Description:     in.Description,
		Address:         address,
		City:            client.City,
		State:           client.State,
	}

	start, end := domain.ProtectedInterval(*t, tn.settings.BufferMinutes, tn.settings.TravelMinutes)
	if err := uc.repo.CreateTicketExclusive(ctx, t, start, end); err != nil {
		if httperr.IsExclusionConflict(err) {
			return nil, httperr.ErrBusiness("time_conflict")
		}
		return nil, err
	}

	// --------------------------------------------------
	// 6️⃣ Auditoria
	// --------------------------------------------------
	metrics.IncTicketCreated(client.Type)

	uc.audit.Dispatch(audit.Event{
		CompanyID: tn.company.ID,
		Action:    "ticket_created_public",
		Entity:    "ticket",
		EntityID:  &t.ID,
	})

	return t, nil
}

// PublicSlots lista horários livres pelo slug da empresa.
func (uc *GetAvailableSlots) PublicSlots(
	ctx context.Context,
	slug string,
	in AvailableSlotsInput,
) (*AvailableSlotsOutput, error) {

	tn, err := loadPublicTenant(ctx, uc.repo, slug)
	if err != nil {
		return nil, err
	}

	if in.ServiceID != "" {
		service, err := uc.repo.GetService(ctx, tn.company.ID, in.ServiceID)
		if err != nil || !service.Active || !service.PublicBooking {
			return nil, httperr.ErrBusiness("service_not_found")
		}
	}

	in.CompanyID = tn.company.ID
	return uc.execute(ctx, tn, in)
}

func loadPublicTenant(ctx context.Context, repo domain.Repository, slug string) (*tenant, error) {
	company, err := repo.GetCompanyBySlug(ctx, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("company_not_found")
	}
	if err != nil {
		return nil, err
	}
	return withSettings(ctx, repo, company)
}
