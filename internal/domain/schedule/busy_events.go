package schedule

import (
	"bytes"
	"sort"
	"strings"
	"time"
)

const PrimaryCalendarID = "primary"

type CalendarEvent struct {
	ID         string `json:"id"`
	Summary    string `json:"summary"`
	Start      string `json:"start"`
	End        string `json:"end"`
	CalendarID string `json:"calendarId"`
	AllDay     bool   `json:"allDay,omitempty"`
}

// IsAllDay segue a convenção do Google: sem "T" em início e fim é dia inteiro.
func (e CalendarEvent) IsAllDay() bool {
	return e.AllDay || (!strings.Contains(e.Start, "T") && !strings.Contains(e.End, "T"))
}

// ===============================
// Flag de habilitação
// ===============================

// EnabledFlag aceita bool, "false" ou ausência.
// Somente false e "false" desligam; o valor zero é habilitado.
type EnabledFlag struct {
	Disabled bool
}

func (f EnabledFlag) Enabled() bool { return !f.Disabled }

func (f *EnabledFlag) UnmarshalJSON(data []byte) error {
	v := bytes.TrimSpace(data)
	f.Disabled = bytes.Equal(v, []byte("false")) || bytes.Equal(v, []byte(`"false"`))
	return nil
}

func (f EnabledFlag) MarshalJSON() ([]byte, error) {
	if f.Disabled {
		return []byte("false"), nil
	}
	return []byte("true"), nil
}

// CalendarGate decide se os eventos do calendário participam do filtro.
type CalendarGate struct {
	Status           string
	Enabled          EnabledFlag
	ActiveCalendarID string
}

func (g CalendarGate) Connected() bool { return g.Status == "connected" }

func (g CalendarGate) Active() bool { return g.Connected() && g.Enabled.Enabled() }

// ===============================
// Conjunto de dias
// ===============================

type DaySet map[string]struct{}

func (s DaySet) Has(date string) bool {
	_, ok := s[date]
	return ok
}

func (s DaySet) Sorted() []string {
	out := make([]string, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// ===============================
// Índice de eventos ocupados
// ===============================

type timedBusy struct {
	date     string
	startMin int
	endMin   int
}

// BusyEventIndex guarda dias bloqueados por eventos de dia inteiro e as
// janelas ocupadas por eventos com horário, já no fuso do negócio.
type BusyEventIndex struct {
	unavailable DaySet
	allDayStart DaySet
	timed       []timedBusy
}

// FilterByCalendar mantém todos os eventos quando o calendário ativo é
// vazio ou "primary".
func FilterByCalendar(events []CalendarEvent, activeCalendarID string) []CalendarEvent {
	if activeCalendarID == "" || activeCalendarID == PrimaryCalendarID {
		return events
	}
	out := make([]CalendarEvent, 0, len(events))
	for _, ev := range events {
		if ev.CalendarID == activeCalendarID {
			out = append(out, ev)
		}
	}
	return out
}

// NewBusyEventIndex devolve um índice vazio quando o calendário está
// desconectado, desabilitado ou sem eventos.
func NewBusyEventIndex(events []CalendarEvent, gate CalendarGate, loc *time.Location) *BusyEventIndex {
	idx := &BusyEventIndex{
		unavailable: DaySet{},
		allDayStart: DaySet{},
	}

	if !gate.Active() {
		return idx
	}

	filtered := FilterByCalendar(events, gate.ActiveCalendarID)
	if len(filtered) == 0 {
		return idx
	}

	if loc == nil {
		loc = time.UTC
	}

	for _, ev := range filtered {
		if ev.IsAllDay() {
			idx.addAllDay(ev, loc)
			continue
		}
		idx.addTimed(ev, loc)
	}

	return idx
}

func (idx *BusyEventIndex) addAllDay(ev CalendarEvent, loc *time.Location) {
	start, err := parseEventDate(ev.Start, loc)
	if err != nil {
		return
	}
	idx.allDayStart[start.Format(DateLayout)] = struct{}{}

	end, err := parseEventDate(ev.End, loc)
	if err != nil {
		return
	}

	// fim exclusivo
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		idx.unavailable[d.Format(DateLayout)] = struct{}{}
	}
}

func (idx *BusyEventIndex) addTimed(ev CalendarEvent, loc *time.Location) {
	start, err := parseEventInstant(ev.Start, loc)
	if err != nil {
		return
	}
	end, err := parseEventInstant(ev.End, loc)
	if err != nil {
		return
	}

	date := start.Format(DateLayout)
	endMin := end.Hour()*60 + end.Minute()
	if end.Format(DateLayout) > date {
		endMin = 24 * 60
	}

	idx.timed = append(idx.timed, timedBusy{
		date:     date,
		startMin: start.Hour()*60 + start.Minute(),
		endMin:   endMin,
	})
}

// UnavailableDays devolve uma cópia do conjunto de dias bloqueados.
func (idx *BusyEventIndex) UnavailableDays() DaySet {
	out := make(DaySet, len(idx.unavailable))
	for d := range idx.unavailable {
		out[d] = struct{}{}
	}
	return out
}

// IsSlotBusy: dia inteiro bloqueia todos os horários da data de início;
// eventos com horário bloqueiam [início, fim] inclusive nas duas pontas.
func (idx *BusyEventIndex) IsSlotBusy(date, clock string) bool {
	if idx == nil || date == "" {
		return false
	}

	if idx.allDayStart.Has(date) {
		return true
	}

	slot, ok := ParseClock(clock)
	if !ok {
		return false
	}

	for _, tb := range idx.timed {
		if tb.date == date && slot >= tb.startMin && slot <= tb.endMin {
			return true
		}
	}
	return false
}

// BuildUnavailableDays considera o calendário conectado e habilitado.
func BuildUnavailableDays(events []CalendarEvent, activeCalendarID string, loc *time.Location) DaySet {
	gate := CalendarGate{Status: "connected", ActiveCalendarID: activeCalendarID}
	return NewBusyEventIndex(events, gate, loc).UnavailableDays()
}

func IsSlotBusy(events []CalendarEvent, activeCalendarID, date, clock string, loc *time.Location) bool {
	gate := CalendarGate{Status: "connected", ActiveCalendarID: activeCalendarID}
	return NewBusyEventIndex(events, gate, loc).IsSlotBusy(date, clock)
}

// ===============================
// Parse de datas de eventos
// ===============================

func parseEventDate(v string, loc *time.Location) (time.Time, error) {
	if len(v) >= len(DateLayout) {
		v = v[:len(DateLayout)]
	}
	return time.ParseInLocation(DateLayout, v, loc)
}

func parseEventInstant(v string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return t, nil
		}
	}
	return parseEventDate(v, loc)
}
