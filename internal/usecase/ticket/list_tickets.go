package ticket

import (
	"context"
	"time"

	"github.com/BruksfildServices01/chamados-pro/internal/domain/schedule"
	domain "github.com/BruksfildServices01/chamados-pro/internal/domain/ticket"
	"github.com/BruksfildServices01/chamados-pro/internal/dto"
	"github.com/BruksfildServices01/chamados-pro/internal/httperr"
)

const maxReportDays = 366

type ListTickets struct {
	repo domain.Repository
}

func NewListTickets(repo domain.Repository) *ListTickets {
	return &ListTickets{repo: repo}
}

// ByDate lista os chamados do dia (YYYY-MM-DD) no fuso da empresa.
func (uc *ListTickets) ByDate(
	ctx context.Context,
	companyID string,
	date string,
) ([]dto.TicketListDTO, error) {

	tn, err := loadTenant(ctx, uc.repo, companyID)
	if err != nil {
		return nil, err
	}

	start, err := schedule.ParseDate(date, tn.loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	return uc.period(ctx, tn, start, start.AddDate(0, 0, 1))
}

func (uc *ListTickets) ByMonth(
	ctx context.Context,
	companyID string,
	year int,
	month int,
) ([]dto.TicketListDTO, error) {

	if month < 1 || month > 12 || year < 2000 {
		return nil, httperr.ErrBusiness("invalid_month")
	}

	tn, err := loadTenant(ctx, uc.repo, companyID)
	if err != nil {
		return nil, err
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, tn.loc)
	return uc.period(ctx, tn, start, start.AddDate(0, 1, 0))
}

// Between lista de from até to (inclusive), usado na exportação.
func (uc *ListTickets) Between(
	ctx context.Context,
	companyID string,
	from string,
	to string,
) ([]dto.TicketListDTO, error) {

	tn, err := loadTenant(ctx, uc.repo, companyID)
	if err != nil {
		return nil, err
	}

	start, err := schedule.ParseDate(from, tn.loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}
	end, err := schedule.ParseDate(to, tn.loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	end = end.AddDate(0, 0, 1)
	if !end.After(start) || end.Sub(start) > maxReportDays*24*time.Hour {
		return nil, httperr.ErrBusiness("invalid_range")
	}

	return uc.period(ctx, tn, start, end)
}

func (uc *ListTickets) period(
	ctx context.Context,
	tn *tenant,
	start time.Time,
	end time.Time,
) ([]dto.TicketListDTO, error) {

	tickets, err := uc.repo.ListTicketsForPeriod(ctx, tn.company.ID, start, end)
	if err != nil {
		return nil, err
	}
	return toListDTO(tickets, tn.loc), nil
}
