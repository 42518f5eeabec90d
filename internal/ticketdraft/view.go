package ticketdraft

import (
	"github.com/BruksfildServices01/chamados-pro/internal/domain/schedule"
	domain "github.com/BruksfildServices01/chamados-pro/internal/domain/ticket"
	"github.com/BruksfildServices01/chamados-pro/internal/models"
)

// View é uma fotografia do formulário. Os campos derivados são
// recalculados a cada chamada a partir do estado atual.
type View struct {
	State State
	Draft domain.Draft

	EndDate    string
	EndTime    string
	NextNumber string

	Clients  []models.Client
	Services []models.Service
	Client   *models.Client

	AvailableDates  schedule.Dates
	AvailableTimes  schedule.Times
	UnavailableDays []string

	CalculationsToggle bool
	CalendarConnected  bool
	SyncToCalendar     bool

	Queries   map[Query]QueryStatus
	Errors    domain.FieldErrors
	SubmitErr error
}

type derived struct {
	EndDate         string
	EndTime         string
	AvailableDates  schedule.Dates
	AvailableTimes  schedule.Times
	UnavailableDays []string
}

func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	d := c.deriveLocked()

	v := View{
		State:           c.state,
		Draft:           c.draft,
		EndDate:         d.EndDate,
		EndTime:         d.EndTime,
		NextNumber:      c.nextNumber,
		Clients:         append([]models.Client(nil), c.clients...),
		Services:        append([]models.Service(nil), c.services...),
		AvailableDates:  d.AvailableDates,
		AvailableTimes:  d.AvailableTimes,
		UnavailableDays: d.UnavailableDays,
		SyncToCalendar:  c.syncToCalendar,
		Queries:         make(map[Query]QueryStatus, len(c.queries)),
		SubmitErr:       c.submitErr,
	}

	if client := c.clientLocked(c.draft.ClientID); client != nil {
		cp := *client
		v.Client = &cp
		v.CalculationsToggle = c.policyLocked().ToggleAllowed(domain.ClientType(client.Type))
	}
	v.CalendarConnected = c.gateLocked().Connected()

	for q, s := range c.queries {
		v.Queries[q] = s
	}
	if len(c.errors) > 0 {
		v.Errors = domain.FieldErrors{}
		for f, code := range c.errors {
			v.Errors[f] = code
		}
	}
	return v
}

// deriveLocked: fim do atendimento no fuso do negócio e disponibilidade
// (slots do backend menos eventos ocupados).
func (c *Controller) deriveLocked() derived {
	var out derived

	loc := c.locationLocked()

	if c.draft.ScheduledDate != "" && c.draft.ScheduledTime != "" {
		duration := c.draft.Duration
		if duration <= 0 {
			duration = domain.DefaultDurationHours
		}
		if w, err := domain.ComputeWindow(c.draft.ScheduledDate, c.draft.ScheduledTime, duration, loc); err == nil {
			out.EndDate = w.EndDate()
			out.EndTime = w.EndTime()
		}
	}

	busy := schedule.NewBusyEventIndex(c.events, c.gateLocked(), loc)
	st := c.queries[QuerySlots]
	filter := schedule.SlotFilter{
		Slots:   c.slots,
		Loading: st.Loading,
		Failed:  !st.Loading && !st.usable(),
		Busy:    busy,
	}

	out.AvailableDates = schedule.DatesOf(filter.AvailableDates())
	out.AvailableTimes = schedule.TimesOf(filter.AvailableTimesForDate(c.draft.ScheduledDate))
	out.UnavailableDays = busy.UnavailableDays().Sorted()
	return out
}
