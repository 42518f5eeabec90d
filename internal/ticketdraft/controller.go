package ticketdraft

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/BruksfildServices01/chamados-pro/internal/apiclient"
	"github.com/BruksfildServices01/chamados-pro/internal/domain/schedule"
	domain "github.com/BruksfildServices01/chamados-pro/internal/domain/ticket"
	"github.com/BruksfildServices01/chamados-pro/internal/models"
	"github.com/BruksfildServices01/chamados-pro/internal/timezone"
)

// API é o que o formulário consome da API REST. *apiclient.Client satisfaz.
type API interface {
	ListClients(ctx context.Context) ([]models.Client, error)
	ListServices(ctx context.Context) ([]models.Service, error)
	NextNumber(ctx context.Context) (string, error)
	Settings(ctx context.Context) (*apiclient.Settings, error)
	Events(ctx context.Context, timeMin, timeMax time.Time) ([]schedule.CalendarEvent, error)
	AvailableSlots(ctx context.Context, startDate, endDate, serviceID string) (*apiclient.SlotsResponse, error)
	SearchDocument(ctx context.Context, document string) (*models.Client, error)
	CreateTicket(ctx context.Context, payload domain.Payload) (*models.Ticket, error)
	CreateService(ctx context.Context, name string) (*models.Service, error)
	CalendarAuthURL(ctx context.Context) (string, error)
}

var (
	ErrAlreadyOpen = errors.New("draft already open")
	ErrNotOpen     = errors.New("draft is not open")
	ErrNotEditing  = errors.New("draft is not editable")
	ErrNoToggle    = errors.New("calculations toggle not allowed")
)

const (
	// serviço usado quando o atendimento é combinado na visita
	onSiteServiceName = "combinar no local"

	slotRangeDays  = 60
	eventRangeDays = 62
)

// ===============================
// Estados
// ===============================

type State int

const (
	StateClosed State = iota
	StateOpen
	StateEditing
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	default:
		return "closed"
	}
}

// Query identifica cada consulta independente do formulário.
type Query string

const (
	QueryClients    Query = "clients"
	QueryServices   Query = "services"
	QueryNextNumber Query = "nextNumber"
	QuerySettings   Query = "settings"
	QueryEvents     Query = "events"
	QuerySlots      Query = "slots"
)

var allQueries = []Query{QueryClients, QueryServices, QueryNextNumber, QuerySettings, QueryEvents, QuerySlots}

// Stale marca uma resposta que não vale mais para o rascunho atual
// (ex.: slots de outro serviço) até a próxima recarga.
type QueryStatus struct {
	Loading bool
	Stale   bool
	Err     error
}

// usable: terminou sem erro e ainda corresponde ao rascunho.
func (s QueryStatus) usable() bool {
	return !s.Loading && !s.Stale && s.Err == nil
}

// Preset são os valores trazidos de quem abriu o formulário.
type Preset struct {
	ClientID  string
	ServiceID string
	Date      string
	Time      string
}

// Controller guarda o rascunho de um chamado. Um único escritor; as
// consultas concorrentes publicam resultados sob o mutex.
type Controller struct {
	api API
	log zerolog.Logger
	now func() time.Time

	mu    sync.Mutex
	state State
	// incrementado a cada reset; respostas de gerações antigas são descartadas
	gen int

	draft           domain.Draft
	calcOverride    *bool
	durationTouched bool
	syncToCalendar  bool

	clients    []models.Client
	services   []models.Service
	nextNumber string
	settings   *apiclient.Settings
	events     []schedule.CalendarEvent
	slots      []schedule.AvailableSlot
	queries    map[Query]QueryStatus

	errors    domain.FieldErrors
	submitErr error
}

func New(api API, log zerolog.Logger) *Controller {
	return &Controller{
		api:     api,
		log:     log.With().Str("component", "ticketdraft").Logger(),
		now:     time.Now,
		queries: map[Query]QueryStatus{},
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ======================================================
// ABERTURA
// ======================================================

// Open dispara as consultas em paralelo e semeia o rascunho quando todas
// terminam. Falha de uma consulta não cancela as outras.
func (c *Controller) Open(ctx context.Context, preset Preset) error {
	c.mu.Lock()
	if c.state != StateClosed {
		c.mu.Unlock()
		return ErrAlreadyOpen
	}
	c.resetLocked()
	gen := c.gen
	c.state = StateOpen
	c.draft.ClientID = preset.ClientID
	c.draft.ServiceID = preset.ServiceID
	c.draft.ScheduledDate = preset.Date
	c.draft.ScheduledTime = preset.Time
	for _, q := range allQueries {
		c.queries[q] = QueryStatus{Loading: true}
	}
	c.mu.Unlock()

	c.log.Debug().Str("client_id", preset.ClientID).Str("date", preset.Date).Msg("draft opening")

	now := c.now()
	today := now.In(timezone.Location(timezone.DefaultTimezone))
	startDate := today.Format(schedule.DateLayout)
	endDate := today.AddDate(0, 0, slotRangeDays).Format(schedule.DateLayout)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		clients, err := c.api.ListClients(gctx)
		c.publish(gen, QueryClients, err, func() { c.clients = clients })
		return nil
	})
	g.Go(func() error {
		services, err := c.api.ListServices(gctx)
		c.publish(gen, QueryServices, err, func() { c.services = services })
		return nil
	})
	g.Go(func() error {
		number, err := c.api.NextNumber(gctx)
		c.publish(gen, QueryNextNumber, err, func() { c.nextNumber = number })
		return nil
	})
	g.Go(func() error {
		settings, err := c.api.Settings(gctx)
		c.publish(gen, QuerySettings, err, func() { c.settings = settings })
		return nil
	})
	g.Go(func() error {
		events, err := c.api.Events(gctx, today.AddDate(0, 0, -1), today.AddDate(0, 0, eventRangeDays))
		c.publish(gen, QueryEvents, err, func() { c.events = events })
		return nil
	})
	g.Go(func() error {
		out, err := c.api.AvailableSlots(gctx, startDate, endDate, preset.ServiceID)
		c.publish(gen, QuerySlots, err, func() {
			if out != nil {
				c.slots = out.Slots
			}
		})
		return nil
	})

	_ = g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen || c.state != StateOpen {
		// fechado durante o carregamento
		return ErrNotOpen
	}
	c.seedLocked()
	c.state = StateEditing

	c.log.Debug().
		Int("clients", len(c.clients)).
		Int("services", len(c.services)).
		Int("slots", len(c.slots)).
		Int("events", len(c.events)).
		Msg("draft ready")
	return nil
}

// publish grava o resultado de uma consulta. Erros só ficam registrados
// no estado da consulta.
func (c *Controller) publish(gen int, q Query, err error, apply func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.publishLocked(gen, q, err, apply)
}

func (c *Controller) publishLocked(gen int, q Query, err error, apply func()) {
	if gen != c.gen {
		return
	}

	if err != nil {
		c.log.Debug().Err(err).Str("query", string(q)).Msg("draft query failed")
		c.queries[q] = QueryStatus{Err: err}
		return
	}
	apply()
	c.queries[q] = QueryStatus{}
}

// RefreshSlots recarrega os slots, filtrando pela duração do serviço escolhido.
// Os slots anteriores são descartados antes da consulta: se ela falhar a
// disponibilidade fica desconhecida.
func (c *Controller) RefreshSlots(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateEditing {
		c.mu.Unlock()
		return ErrNotEditing
	}
	gen := c.gen
	serviceID := c.draft.ServiceID
	today := c.now().In(c.locationLocked())
	c.slots = nil
	c.queries[QuerySlots] = QueryStatus{Loading: true}
	c.mu.Unlock()

	out, err := c.api.AvailableSlots(ctx, today.Format(schedule.DateLayout),
		today.AddDate(0, 0, slotRangeDays).Format(schedule.DateLayout), serviceID)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen == c.gen && c.draft.ServiceID != serviceID {
		// o serviço mudou durante a consulta
		c.queries[QuerySlots] = QueryStatus{Stale: true}
		return err
	}
	c.publishLocked(gen, QuerySlots, err, func() {
		if out != nil {
			c.slots = out.Slots
		}
	})
	return err
}

// Close descarta o rascunho em qualquer estado.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

func (c *Controller) resetLocked() {
	c.gen++
	c.state = StateClosed
	c.draft = domain.Draft{}
	c.calcOverride = nil
	c.durationTouched = false
	c.syncToCalendar = false
	c.clients, c.services, c.events, c.slots = nil, nil, nil, nil
	c.nextNumber = ""
	c.settings = nil
	c.queries = map[Query]QueryStatus{}
	c.errors = nil
	c.submitErr = nil
}

// ======================================================
// SEMENTES
// ======================================================

func (c *Controller) seedLocked() {
	c.draft.Duration = c.defaultDurationLocked(c.clientLocked(c.draft.ClientID))

	if client := c.clientLocked(c.draft.ClientID); client != nil {
		c.applyClientLocked(client, "")
	} else if c.draft.ClientID != "" {
		c.log.Debug().Str("client_id", c.draft.ClientID).Msg("preset client not in list")
	}

	if c.draft.ServiceID == "" {
		if s := c.onSiteServiceLocked(); s != nil {
			c.draft.ServiceID = s.ID
		}
	}

	if c.settings != nil {
		c.syncToCalendar = c.gateLocked().Active()
	}
	c.recomputeCalculationsLocked()
}

// defaultDurationLocked: horas incluídas do parceiro, senão o padrão da empresa.
func (c *Controller) defaultDurationLocked(client *models.Client) int {
	if client != nil && domain.ClientType(client.Type).IsPartner() &&
		client.DefaultHoursIncluded != nil && *client.DefaultHoursIncluded > 0 {
		return *client.DefaultHoursIncluded
	}
	if c.settings != nil && c.settings.DefaultDurationHours > 0 {
		return c.settings.DefaultDurationHours
	}
	return domain.DefaultDurationHours
}

func (c *Controller) onSiteServiceLocked() *models.Service {
	for i := range c.services {
		if normalizeName(c.services[i].Name) == onSiteServiceName {
			return &c.services[i]
		}
	}
	return nil
}

func (c *Controller) clientLocked(id string) *models.Client {
	if id == "" {
		return nil
	}
	for i := range c.clients {
		if c.clients[i].ID == id {
			return &c.clients[i]
		}
	}
	return nil
}

func (c *Controller) locationLocked() *time.Location {
	if c.settings == nil {
		return timezone.Location(timezone.DefaultTimezone)
	}
	return timezone.Resolve(c.settings.Timezone)
}

func (c *Controller) gateLocked() schedule.CalendarGate {
	s := c.settings
	if s == nil {
		return schedule.CalendarGate{}
	}
	return schedule.CalendarGate{
		Status:           s.GoogleCalendarStatus,
		Enabled:          schedule.EnabledFlag{Disabled: s.GoogleCalendarEnabled != nil && !*s.GoogleCalendarEnabled},
		ActiveCalendarID: s.GoogleCalendarID,
	}
}

func (c *Controller) policyLocked() domain.CalculationPolicy {
	if c.settings == nil {
		return domain.PolicyFromSettings(nil, false, nil)
	}
	return domain.PolicyFromSettings(c.settings.CalculationsEnabled, c.settings.CalculationsPerTicket, c.settings.CalculationsClientTypes)
}

func (c *Controller) recomputeCalculationsLocked() {
	var clientType domain.ClientType
	if client := c.clientLocked(c.draft.ClientID); client != nil {
		clientType = domain.ClientType(client.Type)
	}
	c.draft.CalculationsEnabled = c.policyLocked().Resolve(clientType, c.calcOverride)
}
