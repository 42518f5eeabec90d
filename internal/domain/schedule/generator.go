package schedule

import "time"

// Interval é um período ocupado [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func (i Interval) Overlaps(start, end time.Time) bool {
	return start.Before(i.End) && end.After(i.Start)
}

// Pad expande o intervalo nas duas pontas (buffer + deslocamento).
func (i Interval) Pad(d time.Duration) Interval {
	return Interval{Start: i.Start.Add(-d), End: i.End.Add(d)}
}

// GeneratorInput parâmetros do gerador de horários livres do backend.
type GeneratorInput struct {
	Config          WorkingHoursConfig
	From            time.Time
	To              time.Time
	Location        *time.Location
	Now             time.Time
	DurationMinutes int
	LeadTimeMinutes int

	// Padding aplicado ao slot candidato (buffer + deslocamento).
	Padding time.Duration
	// Reserved são chamados existentes já com a proteção própria aplicada.
	Reserved []Interval
	// Busy são eventos ocupados do calendário, sem proteção.
	Busy []Interval
}

// GenerateSlots percorre os dias de From até To (inclusive) e devolve os
// inícios possíveis de 30 em 30 minutos que comportam a duração inteira.
func GenerateSlots(in GeneratorInput) []AvailableSlot {
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}

	duration := time.Duration(in.DurationMinutes) * time.Minute
	minStart := in.Now.Add(time.Duration(in.LeadTimeMinutes) * time.Minute)

	from := in.From.In(loc)
	to := in.To.In(loc)
	lastDay := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, loc)

	slots := []AvailableSlot{}

	for day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc); !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		ds := in.Config.ScheduleFor(day.Weekday())
		if !ds.Enabled {
			continue
		}

		for m := ds.StartMinutes; m+in.DurationMinutes <= ds.EndMinutes; m += SlotIntervalMinutes {
			start := time.Date(day.Year(), day.Month(), day.Day(), m/60, m%60, 0, 0, loc)
			if start.Before(minStart) {
				continue
			}

			end := start.Add(duration)
			if end.Format(DateLayout) != start.Format(DateLayout) {
				continue
			}

			if ds.OverlapsBreak(m, m+in.DurationMinutes) {
				continue
			}

			if conflicts(in.Reserved, Interval{Start: start, End: end}.Pad(in.Padding)) {
				continue
			}
			if conflicts(in.Busy, Interval{Start: start, End: end}) {
				continue
			}

			slots = append(slots, AvailableSlot{
				Date:     start.Format(DateLayout),
				Time:     start.Format(ClockLayout),
				Datetime: start.Format(time.RFC3339),
			})
		}
	}

	return slots
}

func conflicts(intervals []Interval, candidate Interval) bool {
	for _, iv := range intervals {
		if iv.Overlaps(candidate.Start, candidate.End) {
			return true
		}
	}
	return false
}
