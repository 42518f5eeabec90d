package ticketdraft

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/BruksfildServices01/chamados-pro/internal/apiclient"
	"github.com/BruksfildServices01/chamados-pro/internal/domain/schedule"
	domain "github.com/BruksfildServices01/chamados-pro/internal/domain/ticket"
	"github.com/BruksfildServices01/chamados-pro/internal/models"
)

// ======================================================
// MOCK
// ======================================================

type apiMock struct {
	mock.Mock
}

func (m *apiMock) ListClients(ctx context.Context) ([]models.Client, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]models.Client)
	return out, args.Error(1)
}

func (m *apiMock) ListServices(ctx context.Context) ([]models.Service, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]models.Service)
	return out, args.Error(1)
}

func (m *apiMock) NextNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *apiMock) Settings(ctx context.Context) (*apiclient.Settings, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).(*apiclient.Settings)
	return out, args.Error(1)
}

func (m *apiMock) Events(ctx context.Context, timeMin, timeMax time.Time) ([]schedule.CalendarEvent, error) {
	args := m.Called(ctx, timeMin, timeMax)
	out, _ := args.Get(0).([]schedule.CalendarEvent)
	return out, args.Error(1)
}

func (m *apiMock) AvailableSlots(ctx context.Context, startDate, endDate, serviceID string) (*apiclient.SlotsResponse, error) {
	args := m.Called(ctx, startDate, endDate, serviceID)
	out, _ := args.Get(0).(*apiclient.SlotsResponse)
	return out, args.Error(1)
}

func (m *apiMock) SearchDocument(ctx context.Context, document string) (*models.Client, error) {
	args := m.Called(ctx, document)
	out, _ := args.Get(0).(*models.Client)
	return out, args.Error(1)
}

func (m *apiMock) CreateTicket(ctx context.Context, payload domain.Payload) (*models.Ticket, error) {
	args := m.Called(ctx, payload)
	out, _ := args.Get(0).(*models.Ticket)
	return out, args.Error(1)
}

func (m *apiMock) CreateService(ctx context.Context, name string) (*models.Service, error) {
	args := m.Called(ctx, name)
	out, _ := args.Get(0).(*models.Service)
	return out, args.Error(1)
}

func (m *apiMock) CalendarAuthURL(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

var _ API = (*apiclient.Client)(nil)

// ======================================================
// FIXTURES
// ======================================================

func intPtr(v int) *int { return &v }
func boolPtr(v bool) *bool { return &v }

var (
	pfClient = models.Client{
		ID: "c-pf", Type: "PF", Name: "João Silva",
		Address: "Rua A, 10", City: "São Paulo", State: "SP",
	}
	partnerClient = models.Client{
		ID: "c-par", Type: "EMPRESA_PARCEIRA", Name: "Parceira TI",
		Address:              "Av. Parceira, 500",
		DefaultHoursIncluded: intPtr(4),
		DefaultTicketValue:   decimal.NewNullDecimal(decimal.NewFromInt(150)),
	}
	catalog = []models.Service{
		{ID: "s-rede", Name: "Instalação de rede", Duration: 2},
		{ID: "s-local", Name: "  Combinar no Local ", Duration: 1},
	}
)

func baseSettings() *apiclient.Settings {
	s := &apiclient.Settings{}
	s.DefaultDurationHours = 2
	s.Timezone = "America/Sao_Paulo"
	s.GoogleCalendarStatus = "disconnected"
	return s
}

type loads struct {
	clients     []models.Client
	services    []models.Service
	next        string
	settings    *apiclient.Settings
	settingsErr error
	events      []schedule.CalendarEvent
	eventsErr   error
	slots       []schedule.AvailableSlot
	slotsErr    error
}

func defaultLoads() loads {
	return loads{
		clients:  []models.Client{pfClient, partnerClient},
		services: catalog,
		next:     "2030-0007",
		settings: baseSettings(),
		events:   []schedule.CalendarEvent{},
	}
}

// expect registra as seis consultas de abertura; hook roda dentro de cada uma.
func (l loads) expect(m *apiMock, hook func(mock.Arguments)) {
	if hook == nil {
		hook = func(mock.Arguments) {}
	}

	var slots *apiclient.SlotsResponse
	if l.slotsErr == nil {
		slots = &apiclient.SlotsResponse{Slots: l.slots, Count: len(l.slots)}
	}

	m.On("ListClients", mock.Anything).Run(hook).Return(l.clients, nil)
	m.On("ListServices", mock.Anything).Run(hook).Return(l.services, nil)
	m.On("NextNumber", mock.Anything).Run(hook).Return(l.next, nil)
	m.On("Settings", mock.Anything).Run(hook).Return(l.settings, l.settingsErr)
	m.On("Events", mock.Anything, mock.Anything, mock.Anything).Run(hook).Return(l.events, l.eventsErr)
	m.On("AvailableSlots", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Run(hook).Return(slots, l.slotsErr)
}

func newController(m *apiMock) *Controller {
	c := New(m, zerolog.Nop())
	c.now = func() time.Time { return time.Date(2030, 3, 1, 12, 0, 0, 0, time.UTC) }
	return c
}

func openWith(t *testing.T, l loads, preset Preset) (*Controller, *apiMock) {
	t.Helper()
	m := &apiMock{}
	l.expect(m, nil)
	c := newController(m)
	require.NoError(t, c.Open(context.Background(), preset))
	return c, m
}

func slot(date, clock string) schedule.AvailableSlot {
	return schedule.AvailableSlot{Date: date, Time: clock, Datetime: date + "T" + clock + ":00-03:00"}
}

// ======================================================
// ABERTURA
// ======================================================

func TestOpen_SeedsFromSettingsAndClient(t *testing.T) {
	c, _ := openWith(t, defaultLoads(), Preset{ClientID: "c-pf"})

	v := c.Snapshot()
	assert.Equal(t, StateEditing, v.State)
	assert.Equal(t, 2, v.Draft.Duration)
	assert.Equal(t, "Rua A, 10", v.Draft.Address)
	assert.Equal(t, "s-local", v.Draft.ServiceID)
	assert.True(t, v.Draft.CalculationsEnabled)
	assert.Equal(t, "2030-0007", v.NextNumber)
	require.NotNil(t, v.Client)
	assert.Equal(t, "João Silva", v.Client.Name)

	for _, q := range allQueries {
		assert.False(t, v.Queries[q].Loading, q)
		assert.NoError(t, v.Queries[q].Err, q)
	}
}

func TestOpen_PartnerSeedsHoursAndBilling(t *testing.T) {
	c, _ := openWith(t, defaultLoads(), Preset{ClientID: "c-par"})

	v := c.Snapshot()
	assert.Equal(t, 4, v.Draft.Duration)
	assert.Equal(t, "150,00", v.Draft.TicketValue)
	assert.Equal(t, "Av. Parceira, 500", v.Draft.Address)

	// troca de cliente reaplica os padrões que vieram do anterior
	require.NoError(t, c.SetClient("c-pf"))
	v = c.Snapshot()
	assert.Equal(t, 2, v.Draft.Duration)
	assert.Equal(t, "Rua A, 10", v.Draft.Address)
}

func TestOpen_ManualDurationSurvivesClientChange(t *testing.T) {
	c, _ := openWith(t, defaultLoads(), Preset{ClientID: "c-pf"})

	require.NoError(t, c.SetDuration(5))
	require.NoError(t, c.SetClient("c-par"))
	assert.Equal(t, 5, c.Snapshot().Draft.Duration)

	assert.Error(t, c.SetDuration(0))
}

func TestOpen_KeepsTypedAddress(t *testing.T) {
	c, _ := openWith(t, defaultLoads(), Preset{ClientID: "c-pf"})

	require.NoError(t, c.SetField("address", "Rua Nova, 1"))
	require.NoError(t, c.SetClient("c-par"))
	assert.Equal(t, "Rua Nova, 1", c.Snapshot().Draft.Address)
}

func TestOpen_SettingsFailureUsesDefaults(t *testing.T) {
	l := defaultLoads()
	l.settings = nil
	l.settingsErr = errors.New("boom")

	c, _ := openWith(t, l, Preset{ClientID: "c-pf"})

	v := c.Snapshot()
	assert.Equal(t, StateEditing, v.State)
	assert.Equal(t, domain.DefaultDurationHours, v.Draft.Duration)
	assert.Error(t, v.Queries[QuerySettings].Err)
	assert.False(t, v.CalendarConnected)
}

func TestOpen_EventsAndSlotsFailuresDegrade(t *testing.T) {
	l := defaultLoads()
	l.eventsErr = errors.New("calendar down")
	l.slotsErr = errors.New("slots down")

	c, _ := openWith(t, l, Preset{ClientID: "c-pf", Date: "2030-03-04"})

	v := c.Snapshot()
	assert.Equal(t, StateEditing, v.State)
	assert.Equal(t, schedule.AvailabilityUnknown, v.AvailableDates.State)
	assert.Equal(t, schedule.AvailabilityUnknown, v.AvailableTimes.State)
	assert.True(t, v.AvailableDates.Allows("2030-03-09"))
	assert.Error(t, v.Queries[QueryEvents].Err)
	assert.Error(t, v.Queries[QuerySlots].Err)
	assert.NoError(t, v.Queries[QueryClients].Err)
}

func TestOpen_RunsQueriesConcurrently(t *testing.T) {
	started := make(chan struct{}, len(allQueries))
	release := make(chan struct{})
	defer func() {
		select {
		case <-release:
		default:
			close(release)
		}
	}()

	m := &apiMock{}
	defaultLoads().expect(m, func(mock.Arguments) {
		started <- struct{}{}
		<-release
	})
	c := newController(m)

	done := make(chan error, 1)
	go func() { done <- c.Open(context.Background(), Preset{}) }()

	for range allQueries {
		select {
		case <-started:
		case <-time.After(2 * time.Second):
			t.Fatal("queries did not start in parallel")
		}
	}

	assert.Equal(t, StateOpen, c.State())
	assert.True(t, c.Snapshot().Queries[QueryClients].Loading)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StateEditing, c.State())
}

func TestOpen_StateGuards(t *testing.T) {
	m := &apiMock{}
	defaultLoads().expect(m, nil)
	c := newController(m)

	assert.ErrorIs(t, c.SetClient("c-pf"), ErrNotEditing)
	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrNotEditing)

	require.NoError(t, c.Open(context.Background(), Preset{}))
	assert.ErrorIs(t, c.Open(context.Background(), Preset{}), ErrAlreadyOpen)
	assert.Error(t, c.SetField("nope", "x"))

	c.Close()
	assert.Equal(t, StateClosed, c.State())
	assert.Empty(t, c.Snapshot().Clients)
}

// ======================================================
// CAMPOS DERIVADOS
// ======================================================

func TestEndTime_RollsOverMonth(t *testing.T) {
	l := defaultLoads()
	l.settings.DefaultDurationHours = 3

	c, _ := openWith(t, l, Preset{ClientID: "c-pf", Date: "2024-01-31", Time: "23:00"})

	v := c.Snapshot()
	assert.Equal(t, "2024-02-01", v.EndDate)
	assert.Equal(t, "02:00", v.EndTime)

	require.NoError(t, c.SetDuration(1))
	v = c.Snapshot()
	assert.Equal(t, "2024-02-01", v.EndDate)
	assert.Equal(t, "00:00", v.EndTime)
}

func availabilityLoads() loads {
	l := defaultLoads()
	l.settings.GoogleCalendarStatus = "connected"
	l.settings.GoogleCalendarID = schedule.PrimaryCalendarID
	l.events = []schedule.CalendarEvent{
		{ID: "feriado", Start: "2030-03-05", End: "2030-03-06"},
		{ID: "reuniao", Start: "2030-03-04T09:00:00-03:00", End: "2030-03-04T11:00:00-03:00"},
	}
	l.slots = []schedule.AvailableSlot{
		slot("2030-03-04", "09:00"),
		slot("2030-03-04", "10:00"),
		slot("2030-03-04", "14:00"),
		slot("2030-03-05", "09:00"),
		slot("2030-03-06", "09:00"),
	}
	return l
}

func TestAvailability_SubtractsBusyEvents(t *testing.T) {
	c, _ := openWith(t, availabilityLoads(), Preset{ClientID: "c-pf", Date: "2030-03-04"})

	v := c.Snapshot()
	assert.True(t, v.CalendarConnected)
	assert.True(t, v.SyncToCalendar)

	require.Equal(t, schedule.AvailabilitySome, v.AvailableDates.State)
	assert.Equal(t, []string{"2030-03-04", "2030-03-06"}, v.AvailableDates.Values.Sorted())
	assert.Equal(t, []string{"2030-03-05"}, v.UnavailableDays)
	assert.Equal(t, []string{"14:00"}, v.AvailableTimes.Values)
}

func TestAvailability_DisabledCalendarIgnoresEvents(t *testing.T) {
	l := availabilityLoads()
	l.settings.GoogleCalendarEnabled = boolPtr(false)

	c, _ := openWith(t, l, Preset{ClientID: "c-pf", Date: "2030-03-04"})

	v := c.Snapshot()
	assert.False(t, v.SyncToCalendar)
	assert.Empty(t, v.UnavailableDays)
	assert.Equal(t, []string{"09:00", "10:00", "14:00"}, v.AvailableTimes.Values)
	assert.Len(t, v.AvailableDates.Values, 3)
}

func TestAvailability_AllTimesBusyIsKnownEmpty(t *testing.T) {
	l := availabilityLoads()
	l.slots = []schedule.AvailableSlot{slot("2030-03-04", "09:00"), slot("2030-03-04", "10:00")}

	c, _ := openWith(t, l, Preset{ClientID: "c-pf", Date: "2030-03-04"})

	v := c.Snapshot()
	assert.Equal(t, schedule.AvailabilityNone, v.AvailableTimes.State)
	assert.NotNil(t, v.AvailableTimes.Values)
}

func TestSetSchedule_DropsTimeUnavailableOnNewDate(t *testing.T) {
	c, _ := openWith(t, availabilityLoads(), Preset{ClientID: "c-pf", Date: "2030-03-04", Time: "14:00"})

	require.NoError(t, c.SetSchedule("2030-03-06", "14:00"))
	v := c.Snapshot()
	assert.Equal(t, "2030-03-06", v.Draft.ScheduledDate)
	assert.Empty(t, v.Draft.ScheduledTime)

	require.NoError(t, c.SetSchedule("2030-03-06", "09:00"))
	assert.Equal(t, "09:00", c.Snapshot().Draft.ScheduledTime)

	assert.Error(t, c.SetSchedule("06/03/2030", "09:00"))
	assert.Error(t, c.SetSchedule("2030-03-06", "9h"))
}

func TestRefreshSlots_UsesSelectedService(t *testing.T) {
	m := &apiMock{}
	m.On("AvailableSlots", mock.Anything, "2030-03-01", "2030-04-30", "s-rede").
		Return(&apiclient.SlotsResponse{Slots: []schedule.AvailableSlot{slot("2030-03-04", "08:00")}, Count: 1}, nil).
		Once()
	availabilityLoads().expect(m, nil)

	c := newController(m)
	require.NoError(t, c.Open(context.Background(), Preset{ClientID: "c-pf", Date: "2030-03-04"}))

	require.NoError(t, c.SetService("s-rede"))
	require.NoError(t, c.RefreshSlots(context.Background()))

	v := c.Snapshot()
	assert.Equal(t, []string{"08:00"}, v.AvailableTimes.Values)
	m.AssertCalled(t, "AvailableSlots", mock.Anything, "2030-03-01", "2030-04-30", "s-rede")
}

func TestSetSchedule_KeepsTimeWhenSlotsFailed(t *testing.T) {
	l := availabilityLoads()
	l.slotsErr = errors.New("slots down")

	c, _ := openWith(t, l, Preset{ClientID: "c-pf", Date: "2030-03-04", Time: "10:00"})

	require.NoError(t, c.SetSchedule("2030-03-05", "10:00"))

	v := c.Snapshot()
	assert.Equal(t, "10:00", v.Draft.ScheduledTime)
	assert.Equal(t, schedule.AvailabilityUnknown, v.AvailableTimes.State)
	assert.Equal(t, schedule.AvailabilityUnknown, v.AvailableDates.State)
	// eventos continuam bloqueando o dia inteiro
	assert.Equal(t, []string{"2030-03-05"}, v.UnavailableDays)
}

func TestSetService_MarksSlotsStale(t *testing.T) {
	c, _ := openWith(t, availabilityLoads(), Preset{ClientID: "c-pf", Date: "2030-03-04"})
	require.Equal(t, schedule.AvailabilitySome, c.Snapshot().AvailableTimes.State)

	// mesmo serviço não invalida nada
	require.NoError(t, c.SetService("s-local"))
	require.Equal(t, schedule.AvailabilitySome, c.Snapshot().AvailableTimes.State)

	require.NoError(t, c.SetService("s-rede"))

	v := c.Snapshot()
	assert.True(t, v.Queries[QuerySlots].Stale)
	assert.Equal(t, schedule.AvailabilityUnknown, v.AvailableTimes.State)
	assert.Equal(t, schedule.AvailabilityUnknown, v.AvailableDates.State)
}

func TestRefreshSlots_FailureDropsPreviousServiceSlots(t *testing.T) {
	m := &apiMock{}
	m.On("AvailableSlots", mock.Anything, "2030-03-01", "2030-04-30", "s-rede").
		Return(nil, errors.New("slots down")).
		Once()
	l := availabilityLoads()
	l.slots = []schedule.AvailableSlot{slot("2030-03-04", "08:00")}
	l.expect(m, nil)

	c := newController(m)
	require.NoError(t, c.Open(context.Background(), Preset{ClientID: "c-pf", Date: "2030-03-04"}))
	require.Equal(t, []string{"2030-03-04"}, c.Snapshot().AvailableDates.Values.Sorted())

	require.NoError(t, c.SetService("s-rede"))
	assert.Error(t, c.RefreshSlots(context.Background()))

	v := c.Snapshot()
	assert.Error(t, v.Queries[QuerySlots].Err)
	assert.Equal(t, schedule.AvailabilityUnknown, v.AvailableDates.State)
	assert.Equal(t, schedule.AvailabilityUnknown, v.AvailableTimes.State)
	assert.Nil(t, v.AvailableTimes.Values)
}

func TestRefreshSlots_ServiceChangedDuringLoad(t *testing.T) {
	var c *Controller

	m := &apiMock{}
	m.On("AvailableSlots", mock.Anything, "2030-03-01", "2030-04-30", "s-rede").
		Run(func(mock.Arguments) { require.NoError(t, c.SetService("s-local")) }).
		Return(&apiclient.SlotsResponse{Slots: []schedule.AvailableSlot{slot("2030-03-04", "08:00")}, Count: 1}, nil).
		Once()
	availabilityLoads().expect(m, nil)

	c = newController(m)
	require.NoError(t, c.Open(context.Background(), Preset{ClientID: "c-pf", Date: "2030-03-04"}))

	require.NoError(t, c.SetService("s-rede"))
	require.NoError(t, c.RefreshSlots(context.Background()))

	v := c.Snapshot()
	assert.Equal(t, "s-local", v.Draft.ServiceID)
	assert.True(t, v.Queries[QuerySlots].Stale)
	assert.Equal(t, schedule.AvailabilityUnknown, v.AvailableTimes.State)
}

func TestCalculations_PolicyAndToggle(t *testing.T) {
	l := defaultLoads()
	l.settings.CalculationsPerTicket = true
	l.settings.CalculationsClientTypes = datatypes.JSON(`["EMPRESA_PARCEIRA"]`)

	c, _ := openWith(t, l, Preset{ClientID: "c-pf"})

	v := c.Snapshot()
	assert.False(t, v.Draft.CalculationsEnabled)
	assert.False(t, v.CalculationsToggle)
	assert.ErrorIs(t, c.SetCalculations(true), ErrNoToggle)

	require.NoError(t, c.SetClient("c-par"))
	v = c.Snapshot()
	assert.True(t, v.Draft.CalculationsEnabled)
	assert.True(t, v.CalculationsToggle)

	require.NoError(t, c.SetCalculations(false))
	assert.False(t, c.Snapshot().Draft.CalculationsEnabled)

	// trocar de cliente descarta a escolha manual
	require.NoError(t, c.SetClient("c-pf"))
	require.NoError(t, c.SetClient("c-par"))
	assert.True(t, c.Snapshot().Draft.CalculationsEnabled)
}

func TestCalculations_GlobalOff(t *testing.T) {
	l := defaultLoads()
	l.settings.CalculationsEnabled = boolPtr(false)
	l.settings.CalculationsPerTicket = true

	c, _ := openWith(t, l, Preset{ClientID: "c-par"})

	assert.False(t, c.Snapshot().Draft.CalculationsEnabled)
	assert.ErrorIs(t, c.SetCalculations(true), ErrNoToggle)
}

// ======================================================
// ENVIO
// ======================================================

func TestSubmit_InvalidDraftNeverReachesAPI(t *testing.T) {
	c, m := openWith(t, defaultLoads(), Preset{})

	_, err := c.Submit(context.Background())
	fe, ok := domain.AsFieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, []string{"clientId", "scheduledDate", "scheduledTime"}, fe.Fields())

	v := c.Snapshot()
	assert.Equal(t, StateEditing, v.State)
	assert.True(t, v.Errors.Has("clientId"))
	m.AssertNotCalled(t, "CreateTicket", mock.Anything, mock.Anything)

	// editar o campo limpa o erro dele
	require.NoError(t, c.SetClient("c-pf"))
	assert.False(t, c.Snapshot().Errors.Has("clientId"))
}

func TestSubmit_NonPartnerNeedsService(t *testing.T) {
	l := defaultLoads()
	l.services = []models.Service{catalog[0]}

	c, m := openWith(t, l, Preset{ClientID: "c-pf", Date: "2030-03-04", Time: "14:00"})

	fe := c.Validate()
	assert.Equal(t, []string{"serviceId"}, fe.Fields())

	_, err := c.Submit(context.Background())
	assert.Error(t, err)
	m.AssertNotCalled(t, "CreateTicket", mock.Anything, mock.Anything)
}

func TestSubmit_ServicePayload(t *testing.T) {
	c, m := openWith(t, defaultLoads(), Preset{ClientID: "c-pf", Date: "2030-03-04", Time: "14:00"})
	require.NoError(t, c.SetField("description", "Trocar roteador"))

	var got domain.Payload
	m.On("CreateTicket", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(domain.Payload) }).
		Return(&models.Ticket{ID: "t-1"}, nil)

	ticket, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "t-1", ticket.ID)

	assert.Equal(t, domain.ServicePayload{
		Common: domain.Common{
			ClientID:            "c-pf",
			ScheduledFor:        "2030-03-04T14:00:00",
			Duration:            2,
			Description:         "Trocar roteador",
			CalculationsEnabled: true,
		},
		ServiceID: "s-local",
		Address:   "Rua A, 10",
		City:      "São Paulo",
		State:     "SP",
	}, got)

	v := c.Snapshot()
	assert.Equal(t, StateClosed, v.State)
	assert.Equal(t, domain.Draft{}, v.Draft)
}

func TestSubmit_PartnerPayloadUsesNextNumber(t *testing.T) {
	c, m := openWith(t, defaultLoads(), Preset{ClientID: "c-par", Date: "2030-03-04", Time: "09:00"})
	require.NoError(t, c.SetField("finalClient", "Padaria Central"))
	require.NoError(t, c.SetField("serviceAddress", "Rua B, 20"))
	require.NoError(t, c.SetField("ticketValue", "0,00"))

	_, err := c.Submit(context.Background())
	fe, ok := domain.AsFieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, []string{"ticketValue"}, fe.Fields())

	require.NoError(t, c.SetField("ticketValue", "150,00"))

	var got domain.Payload
	m.On("CreateTicket", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(domain.Payload) }).
		Return(&models.Ticket{ID: "t-2"}, nil)

	_, err = c.Submit(context.Background())
	require.NoError(t, err)

	p, ok := got.(domain.PartnerBillingPayload)
	require.True(t, ok)
	assert.Equal(t, "2030-0007", p.TicketNumber)
	assert.Equal(t, "150.00", p.TicketValue)
	assert.Equal(t, domain.DefaultChargeType, p.ChargeType)
	assert.Equal(t, 4, p.Duration)
	assert.Equal(t, "Rua B, 20", p.ServiceAddress)
}

func TestSubmit_FailureKeepsDraftEditable(t *testing.T) {
	c, m := openWith(t, defaultLoads(), Preset{ClientID: "c-pf", Date: "2030-03-04", Time: "14:00"})
	before := c.Snapshot().Draft

	conflict := &apiclient.APIError{Status: 409, Code: "time_conflict", Message: "Conflito de horário com outro chamado."}
	m.On("CreateTicket", mock.Anything, mock.Anything).Return(nil, conflict).Once()

	_, err := c.Submit(context.Background())
	require.ErrorIs(t, err, conflict)

	v := c.Snapshot()
	assert.Equal(t, StateEditing, v.State)
	assert.Equal(t, before, v.Draft)
	require.Error(t, v.SubmitErr)
	assert.Equal(t, "Conflito de horário com outro chamado.", v.SubmitErr.Error())

	rejected := &apiclient.APIError{Status: 400, Code: "validation_failed", Fields: []string{"scheduledFor"}}
	m.On("CreateTicket", mock.Anything, mock.Anything).Return(nil, rejected).Once()

	_, err = c.Submit(context.Background())
	require.Error(t, err)
	v = c.Snapshot()
	assert.Equal(t, domain.ErrInvalid, v.Errors["scheduledFor"])

	// nova edição limpa a mensagem do servidor
	require.NoError(t, c.SetField("description", "x"))
	assert.NoError(t, c.Snapshot().SubmitErr)
}

// ======================================================
// AÇÕES AUXILIARES
// ======================================================

func TestLookupDocument(t *testing.T) {
	c, m := openWith(t, defaultLoads(), Preset{})

	m.On("SearchDocument", mock.Anything, "52998224725").Return(nil, apiclient.ErrNotFound)
	found := models.Client{ID: "c-new", Type: "EMPRESA_PARCEIRA", Name: "Nova Parceira", DefaultHoursIncluded: intPtr(6)}
	m.On("SearchDocument", mock.Anything, "11222333000181").Return(&found, nil)
	m.On("SearchDocument", mock.Anything, "00000000000").Return(nil, errors.New("timeout"))

	client, ok, err := c.LookupDocument(context.Background(), "52998224725")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, client)

	client, ok, err = c.LookupDocument(context.Background(), "11222333000181")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "c-new", client.ID)

	v := c.Snapshot()
	assert.Equal(t, "c-new", v.Draft.ClientID)
	assert.Equal(t, 6, v.Draft.Duration)
	assert.Len(t, v.Clients, 3)

	_, _, err = c.LookupDocument(context.Background(), "00000000000")
	assert.Error(t, err)
}

func TestCreateService_SelectsNewService(t *testing.T) {
	c, m := openWith(t, defaultLoads(), Preset{ClientID: "c-pf"})

	m.On("CreateService", mock.Anything, "Visita técnica").
		Return(&models.Service{ID: "s-new", Name: "Visita técnica", Duration: 1}, nil)

	s, err := c.CreateService(context.Background(), "  Visita técnica ")
	require.NoError(t, err)
	assert.Equal(t, "s-new", s.ID)

	v := c.Snapshot()
	assert.Equal(t, "s-new", v.Draft.ServiceID)
	assert.Len(t, v.Services, 3)

	_, err = c.CreateService(context.Background(), "   ")
	_, ok := domain.AsFieldErrors(err)
	assert.True(t, ok)
	m.AssertNumberOfCalls(t, "CreateService", 1)
}

func TestConnectCalendar(t *testing.T) {
	m := &apiMock{}
	m.On("CalendarAuthURL", mock.Anything).Return("https://accounts.google.com/o/oauth2/auth?state=x", nil).Once()
	m.On("CalendarAuthURL", mock.Anything).Return("", errors.New("google_not_configured")).Once()

	c := newController(m)

	u, err := c.ConnectCalendar(context.Background())
	require.NoError(t, err)
	assert.Contains(t, u, "accounts.google.com")

	_, err = c.ConnectCalendar(context.Background())
	assert.Error(t, err)
}
