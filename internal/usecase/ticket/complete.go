package ticket

import (
	"context"
	"time"

	"github.com/BruksfildServices01/chamados-pro/internal/audit"
	domain "github.com/BruksfildServices01/chamados-pro/internal/domain/ticket"
	"github.com/BruksfildServices01/chamados-pro/internal/metrics"
	"github.com/BruksfildServices01/chamados-pro/internal/models"
)

type CompleteTicket struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewCompleteTicket(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CompleteTicket {
	return &CompleteTicket{
		repo:  repo,
		audit: audit,
		now:   time.Now,
	}
}

func (uc *CompleteTicket) Execute(
	ctx context.Context,
	companyID string,
	userID string,
	ticketID string,
) (*models.Ticket, error) {

	t, err := findTicket(ctx, uc.repo, companyID, ticketID)
	if err != nil {
		return nil, err
	}

	if err := domain.Complete(t, uc.now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateTicket(ctx, t); err != nil {
		return nil, err
	}

	metrics.IncTicketTransition(t.Status)

	uc.audit.Dispatch(audit.Event{
		CompanyID: companyID,
		UserID:    optional(userID),
		Action:    "ticket_completed",
		Entity:    "ticket",
		EntityID:  &t.ID,
	})

	return t, nil
}
