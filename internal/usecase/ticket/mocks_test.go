package ticket

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"

	"github.com/BruksfildServices01/chamados-pro/internal/audit"
	"github.com/BruksfildServices01/chamados-pro/internal/domain/schedule"
	"github.com/BruksfildServices01/chamados-pro/internal/models"
)

type repoMock struct {
	mock.Mock
}

func (m *repoMock) GetCompanyByID(ctx context.Context, id string) (*models.Company, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*models.Company)
	return c, args.Error(1)
}

func (m *repoMock) GetCompanyBySlug(ctx context.Context, slug string) (*models.Company, error) {
	args := m.Called(ctx, slug)
	c, _ := args.Get(0).(*models.Company)
	return c, args.Error(1)
}

func (m *repoMock) GetIntegrationSettings(ctx context.Context, companyID string) (*models.IntegrationSettings, error) {
	args := m.Called(ctx, companyID)
	s, _ := args.Get(0).(*models.IntegrationSettings)
	return s, args.Error(1)
}

func (m *repoMock) GetClient(ctx context.Context, companyID, clientID string) (*models.Client, error) {
	args := m.Called(ctx, companyID, clientID)
	c, _ := args.Get(0).(*models.Client)
	return c, args.Error(1)
}

func (m *repoMock) GetOrCreateClient(ctx context.Context, companyID, name, phone, email string) (*models.Client, error) {
	args := m.Called(ctx, companyID, name, phone, email)
	c, _ := args.Get(0).(*models.Client)
	return c, args.Error(1)
}

func (m *repoMock) GetService(ctx context.Context, companyID, serviceID string) (*models.Service, error) {
	args := m.Called(ctx, companyID, serviceID)
	s, _ := args.Get(0).(*models.Service)
	return s, args.Error(1)
}

func (m *repoMock) CreateTicket(ctx context.Context, t *models.Ticket) error {
	return m.Called(ctx, t).Error(0)
}

func (m *repoMock) CreateTicketExclusive(ctx context.Context, t *models.Ticket, start, end time.Time) error {
	args := m.Called(ctx, t, start, end)
	if args.Error(0) == nil && t.ID == "" {
		t.ID = "ticket-1"
	}
	return args.Error(0)
}

func (m *repoMock) ListTicketNumbers(ctx context.Context, companyID, prefix string) ([]string, error) {
	args := m.Called(ctx, companyID, prefix)
	n, _ := args.Get(0).([]string)
	return n, args.Error(1)
}

func (m *repoMock) GetTicket(ctx context.Context, companyID, ticketID string) (*models.Ticket, error) {
	args := m.Called(ctx, companyID, ticketID)
	t, _ := args.Get(0).(*models.Ticket)
	return t, args.Error(1)
}

func (m *repoMock) UpdateTicket(ctx context.Context, t *models.Ticket) error {
	return m.Called(ctx, t).Error(0)
}

func (m *repoMock) ListBlockingTickets(ctx context.Context, companyID string, start, end time.Time) ([]models.Ticket, error) {
	args := m.Called(ctx, companyID, start, end)
	t, _ := args.Get(0).([]models.Ticket)
	return t, args.Error(1)
}

func (m *repoMock) ListTicketsForPeriod(ctx context.Context, companyID string, start, end time.Time) ([]models.Ticket, error) {
	args := m.Called(ctx, companyID, start, end)
	t, _ := args.Get(0).([]models.Ticket)
	return t, args.Error(1)
}

type eventSourceMock struct {
	mock.Mock
}

func (m *eventSourceMock) ListEvents(ctx context.Context, q schedule.EventQuery) ([]schedule.CalendarEvent, error) {
	args := m.Called(ctx, q)
	ev, _ := args.Get(0).([]schedule.CalendarEvent)
	return ev, args.Error(1)
}

func (m *eventSourceMock) InsertEvent(ctx context.Context, q schedule.EventQuery, ev schedule.CalendarEvent) (string, error) {
	args := m.Called(ctx, q, ev)
	return args.String(0), args.Error(1)
}

type auditSink struct {
	mu      sync.Mutex
	actions []string
}

func (s *auditSink) Log(_ context.Context, ev audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, ev.Action)
	return nil
}

func newDispatcher() (*audit.Dispatcher, *auditSink) {
	sink := &auditSink{}
	return audit.NewDispatcher(sink, zerolog.Nop()), sink
}

var brt = time.FixedZone("BRT", -3*60*60)

const companyID = "company-1"

func testCompany() *models.Company {
	return &models.Company{ID: companyID, Name: "Acme", Slug: "acme", Timezone: "America/Sao_Paulo"}
}

func testSettings() *models.IntegrationSettings {
	return &models.IntegrationSettings{
		CompanyID:            companyID,
		GoogleCalendarStatus: "disconnected",
		LeadTimeMinutes:      30,
		BufferMinutes:        15,
		TravelMinutes:        30,
		DefaultDurationHours: 3,
		Timezone:             "America/Sao_Paulo",
	}
}

func expectTenant(repo *repoMock, settings *models.IntegrationSettings) {
	repo.On("GetCompanyByID", mock.Anything, companyID).Return(testCompany(), nil)
	repo.On("GetIntegrationSettings", mock.Anything, companyID).Return(settings, nil)
}

func fixedNow(s string) func() time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", s, brt)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}
