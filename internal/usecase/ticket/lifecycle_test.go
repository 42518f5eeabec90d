package ticket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/chamados-pro/internal/domain/ticket"
	"github.com/BruksfildServices01/chamados-pro/internal/httperr"
	"github.com/BruksfildServices01/chamados-pro/internal/models"
)

func TestCancelTicket(t *testing.T) {
	repo := &repoMock{}
	open := &models.Ticket{ID: "t1", CompanyID: companyID, Status: string(domain.StatusOpen)}
	repo.On("GetTicket", mock.Anything, companyID, "t1").Return(open, nil)
	repo.On("GetTicket", mock.Anything, companyID, "nope").Return(nil, gorm.ErrRecordNotFound)
	repo.On("UpdateTicket", mock.Anything, open).Return(nil)

	d, sink := newDispatcher()
	uc := NewCancelTicket(repo, d)

	got, err := uc.Execute(context.Background(), companyID, "user-1", "t1", "cliente ausente")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), got.Status)
	assert.NotNil(t, got.CancelledAt)

	_, err = uc.Execute(context.Background(), companyID, "user-1", "t1", "")
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))

	_, err = uc.Execute(context.Background(), companyID, "user-1", "nope", "")
	assert.True(t, httperr.IsBusiness(err, "ticket_not_found"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))
	assert.Equal(t, []string{"ticket_cancelled"}, sink.actions)
}

func TestCompleteTicket(t *testing.T) {
	repo := &repoMock{}
	started := &models.Ticket{ID: "t2", CompanyID: companyID, Status: string(domain.StatusStarted)}
	repo.On("GetTicket", mock.Anything, companyID, "t2").Return(started, nil)
	repo.On("UpdateTicket", mock.Anything, started).Return(nil)

	d, _ := newDispatcher()
	got, err := NewCompleteTicket(repo, d).Execute(context.Background(), companyID, "", "t2")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), got.Status)
	assert.NotNil(t, got.CompletedAt)
}

func TestGetNextNumber_UsesBusinessYear(t *testing.T) {
	repo := &repoMock{}
	expectTenant(repo, testSettings())

	uc := NewGetNextNumber(repo)
	// 02:00Z de 1º de janeiro ainda é 2024 em São Paulo
	uc.now = func() time.Time { return time.Date(2025, 1, 1, 2, 0, 0, 0, time.UTC) }

	repo.On("ListTicketNumbers", mock.Anything, companyID, "2024-").Return([]string{"2024-0120", "lixo"}, nil)

	n, err := uc.Execute(context.Background(), companyID)
	require.NoError(t, err)
	assert.Equal(t, "2024-0121", n)
}

func TestListTickets_ByDateAndMonth(t *testing.T) {
	service := &models.Service{Name: "Instalação"}
	tickets := []models.Ticket{
		{
			ID:              "t1",
			ScheduledFor:    time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC),
			ScheduledEndFor: time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC),
			Status:          "ABERTO",
			Client:          models.Client{Name: "João", Type: "PF"},
			Service:         service,
			Address:         "Rua A",
		},
	}

	repo := &repoMock{}
	expectTenant(repo, testSettings())
	repo.On("ListTicketsForPeriod", mock.Anything, companyID, mock.MatchedBy(func(s time.Time) bool {
		return s.Format("2006-01-02 15:04 -0700") == "2024-01-10 00:00 -0300"
	}), mock.Anything).Return(tickets, nil)
	repo.On("ListTicketsForPeriod", mock.Anything, companyID, mock.MatchedBy(func(s time.Time) bool {
		return s.Day() == 1
	}), mock.MatchedBy(func(e time.Time) bool {
		return e.Month() == time.February
	})).Return(tickets, nil)

	uc := NewListTickets(repo)

	byDate, err := uc.ByDate(context.Background(), companyID, "2024-01-10")
	require.NoError(t, err)
	require.Len(t, byDate, 1)
	assert.Equal(t, "Instalação", byDate[0].ServiceName)
	assert.Equal(t, "09:00", byDate[0].ScheduledFor.Format("15:04"))

	byMonth, err := uc.ByMonth(context.Background(), companyID, 2024, 1)
	require.NoError(t, err)
	assert.Len(t, byMonth, 1)

	_, err = uc.ByMonth(context.Background(), companyID, 2024, 13)
	assert.True(t, httperr.IsBusiness(err, "invalid_month"))

	_, err = uc.ByDate(context.Background(), companyID, "10/01/2024")
	assert.True(t, httperr.IsBusiness(err, "invalid_date"))
}

func TestListTickets_Between(t *testing.T) {
	repo := &repoMock{}
	expectTenant(repo, testSettings())
	repo.On("ListTicketsForPeriod", mock.Anything, companyID, mock.Anything, mock.MatchedBy(func(e time.Time) bool {
		// fim exclusivo no dia seguinte ao "to"
		return e.Format("2006-01-02 15:04") == "2024-02-01 00:00"
	})).Return([]models.Ticket{}, nil)

	uc := NewListTickets(repo)

	items, err := uc.Between(context.Background(), companyID, "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = uc.Between(context.Background(), companyID, "2024-02-01", "2024-01-01")
	assert.True(t, httperr.IsBusiness(err, "invalid_range"))

	_, err = uc.Between(context.Background(), companyID, "2023-01-01", "2024-12-31")
	assert.True(t, httperr.IsBusiness(err, "invalid_range"))

	_, err = uc.Between(context.Background(), companyID, "ontem", "2024-01-31")
	assert.True(t, httperr.IsBusiness(err, "invalid_date"))
}
