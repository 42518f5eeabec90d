package ticket

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/chamados-pro/internal/httperr"
	"github.com/BruksfildServices01/chamados-pro/internal/models"
)

func publicRepo() *repoMock {
	repo := &repoMock{}
	repo.On("GetCompanyBySlug", mock.Anything, "acme").Return(testCompany(), nil)
	repo.On("GetIntegrationSettings", mock.Anything, companyID).Return(mondayMorningSettings(), nil)
	repo.On("GetService", mock.Anything, companyID, "svc-pub").
		Return(&models.Service{ID: "svc-pub", Active: true, PublicBooking: true, Duration: 1}, nil)
	repo.On("ListBlockingTickets", mock.Anything, companyID, mock.Anything, mock.Anything).Return([]models.Ticket{}, nil)
	return repo
}

func newPublic(repo *repoMock) *CreatePublicTicket {
	d, _ := newDispatcher()
	return NewCreatePublicTicket(repo, newSlots(repo, nil), d)
}

func TestCreatePublicTicket_BooksFreeSlot(t *testing.T) {
	repo := publicRepo()
	repo.On("GetOrCreateClient", mock.Anything, companyID, "Maria", "11999990000", "").
		Return(&models.Client{ID: "c-maria", Type: "PF", Address: "Rua B, 2"}, nil)
	repo.On("CreateTicketExclusive", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	tk, err := newPublic(repo).Execute(context.Background(), CreatePublicTicketInput{
		Slug:        "acme",
		ClientName:  " Maria ",
		ClientPhone: "11999990000",
		ServiceID:   "svc-pub",
		Date:        "2024-01-01",
		Time:        "09:00",
	})
	require.NoError(t, err)

	assert.Equal(t, "c-maria", tk.ClientID)
	assert.Equal(t, "Rua B, 2", tk.Address)
	assert.Equal(t, 1, tk.Duration)
	assert.Equal(t, "ABERTO", tk.Status)
}

func TestCreatePublicTicket_RejectsUnavailableTime(t *testing.T) {
	repo := publicRepo()

	_, err := newPublic(repo).Execute(context.Background(), CreatePublicTicketInput{
		Slug:        "acme",
		ClientName:  "Maria",
		ClientPhone: "11999990000",
		ServiceID:   "svc-pub",
		Date:        "2024-01-01",
		Time:        "11:30",
	})
	assert.True(t, httperr.IsBusiness(err, "slot_unavailable"))
	repo.AssertNotCalled(t, "GetOrCreateClient", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreatePublicTicket_RequiresContact(t *testing.T) {
	_, err := newPublic(&repoMock{}).Execute(context.Background(), CreatePublicTicketInput{Slug: "acme"})
	assert.True(t, httperr.IsBusiness(err, "client_required"))
}
