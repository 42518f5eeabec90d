package schedule

import (
	"context"
	"time"
)

// EventQuery identifica a agenda de uma empresa e a janela consultada.
type EventQuery struct {
	CompanyID  string
	CalendarID string
	Token      []byte
	TimeMin    time.Time
	TimeMax    time.Time
}

// EventSource lista eventos de um calendário externo.
type EventSource interface {
	ListEvents(ctx context.Context, q EventQuery) ([]CalendarEvent, error)
}

// BusyIntervals converte eventos em intervalos ocupados para o gerador.
// Dia inteiro ocupa [início, fim) em dias; eventos com horário usam o
// instante real, sem proteção.
func BusyIntervals(events []CalendarEvent, gate CalendarGate, loc *time.Location) []Interval {
	if !gate.Active() {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}

	var out []Interval
	for _, ev := range FilterByCalendar(events, gate.ActiveCalendarID) {
		if ev.IsAllDay() {
			start, err := parseEventDate(ev.Start, loc)
			if err != nil {
				continue
			}
			end, err := parseEventDate(ev.End, loc)
			if err != nil || !end.After(start) {
				end = start.AddDate(0, 0, 1)
			}
			out = append(out, Interval{Start: start, End: end})
			continue
		}

		start, err := parseEventInstant(ev.Start, loc)
		if err != nil {
			continue
		}
		end, err := parseEventInstant(ev.End, loc)
		if err != nil || !end.After(start) {
			continue
		}
		out = append(out, Interval{Start: start, End: end})
	}
	return out
}
