package ticket

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/chamados-pro/internal/audit"
	domain "github.com/BruksfildServices01/chamados-pro/internal/domain/ticket"
	"github.com/BruksfildServices01/chamados-pro/internal/httperr"
	"github.com/BruksfildServices01/chamados-pro/internal/metrics"
	"github.com/BruksfildServices01/chamados-pro/internal/models"
)

type CancelTicket struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewCancelTicket(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CancelTicket {
	return &CancelTicket{
		repo:  repo,
		audit: audit,
		now:   time.Now,
	}
}

func (uc *CancelTicket) Execute(
	ctx context.Context,
	companyID string,
	userID string,
	ticketID string,
	reason string,
) (*models.Ticket, error) {

	t, err := findTicket(ctx, uc.repo, companyID, ticketID)
	if err != nil {
		return nil, err
	}

	if err := domain.Cancel(t, uc.now(), reason); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateTicket(ctx, t); err != nil {
		return nil, err
	}

	metrics.IncTicketTransition(t.Status)

	uc.audit.Dispatch(audit.Event{
		CompanyID: companyID,
		UserID:    optional(userID),
		Action:    "ticket_cancelled",
		Entity:    "ticket",
		EntityID:  &t.ID,
		Metadata:  map[string]string{"reason": reason},
	})

	return t, nil
}

func findTicket(ctx context.Context, repo domain.Repository, companyID, ticketID string) (*models.Ticket, error) {
	t, err := repo.GetTicket(ctx, companyID, ticketID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("ticket_not_found")
	}
	return t, err
}
