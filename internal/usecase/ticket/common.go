package ticket

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/chamados-pro/internal/domain/schedule"
	domain "github.com/BruksfildServices01/chamados-pro/internal/domain/ticket"
	"github.com/BruksfildServices01/chamados-pro/internal/dto"
	"github.com/BruksfildServices01/chamados-pro/internal/httperr"
	"github.com/BruksfildServices01/chamados-pro/internal/models"
	"github.com/BruksfildServices01/chamados-pro/internal/timezone"
)

// CalendarWriter cria o evento do chamado no calendário da empresa.
type CalendarWriter interface {
	InsertEvent(ctx context.Context, q schedule.EventQuery, ev schedule.CalendarEvent) (string, error)
}

// tenant reúne empresa, configuração e fuso resolvido.
type tenant struct {
	company  *models.Company
	settings *models.IntegrationSettings
	loc      *time.Location
}

func loadTenant(ctx context.Context, repo domain.Repository, companyID string) (*tenant, error) {
	company, err := repo.GetCompanyByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("company_not_found")
		}
		return nil, err
	}
	return withSettings(ctx, repo, company)
}

func withSettings(ctx context.Context, repo domain.Repository, company *models.Company) (*tenant, error) {
	settings, err := repo.GetIntegrationSettings(ctx, company.ID)
	if err != nil {
		return nil, err
	}

	return &tenant{
		company:  company,
		settings: settings,
		loc:      timezone.Resolve(settings.Timezone, company.Timezone),
	}, nil
}

// CalendarGate traduz o estado salvo da integração.
func CalendarGate(s *models.IntegrationSettings) schedule.CalendarGate {
	return schedule.CalendarGate{
		Status:           s.GoogleCalendarStatus,
		Enabled:          schedule.EnabledFlag{Disabled: s.GoogleCalendarEnabled != nil && !*s.GoogleCalendarEnabled},
		ActiveCalendarID: s.GoogleCalendarID,
	}
}

func eventQuery(t *tenant, from, to time.Time) schedule.EventQuery {
	return schedule.EventQuery{
		CompanyID:  t.company.ID,
		CalendarID: t.settings.GoogleCalendarID,
		Token:      t.settings.GoogleCalendarToken,
		TimeMin:    from,
		TimeMax:    to,
	}
}

func defaultDuration(s *models.IntegrationSettings) int {
	if s.DefaultDurationHours > 0 {
		return s.DefaultDurationHours
	}
	return domain.DefaultDurationHours
}

func toListDTO(tickets []models.Ticket, loc *time.Location) []dto.TicketListDTO {
	out := make([]dto.TicketListDTO, 0, len(tickets))
	for _, t := range tickets {
		item := dto.TicketListDTO{
			ID:             t.ID,
			TicketNumber:   t.TicketNumber,
			ScheduledFor:   t.ScheduledFor.In(loc),
			ScheduledEnd:   t.ScheduledEndFor.In(loc),
			Status:         t.Status,
			ClientName:     t.Client.Name,
			ClientType:     t.Client.Type,
			FinalClient:    t.FinalClient,
			Address:        t.Address,
			TicketValue:    domain.FormatNullBRL(t.TicketValue),
			CalendarSynced: t.GoogleCalendarEventID != "",
		}
		if t.ServiceAddress != "" {
			item.Address = t.ServiceAddress
		}
		if t.Service != nil {
			item.ServiceName = t.Service.Name
		}
		out = append(out, item)
	}
	return out
}
