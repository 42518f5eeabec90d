package ticket

import (
	"time"

	"github.com/BruksfildServices01/chamados-pro/internal/domain/schedule"
)

const DefaultDurationHours = 3

// ScheduleWindow é o início e fim do chamado no fuso do negócio.
type ScheduleWindow struct {
	Start time.Time
	End   time.Time
}

func (w ScheduleWindow) EndDate() string { return w.End.Format(schedule.DateLayout) }

func (w ScheduleWindow) EndTime() string { return w.End.Format(schedule.ClockLayout) }

// ScheduledFor no formato enviado à API: "YYYY-MM-DDTHH:MM:00".
func (w ScheduleWindow) ScheduledFor() string {
	return w.Start.Format("2006-01-02T15:04") + ":00"
}

// ComputeWindow soma a duração em horas ao início, com virada de mês/ano.
func ComputeWindow(date, clock string, durationHours int, loc *time.Location) (ScheduleWindow, error) {
	if loc == nil {
		loc = time.UTC
	}

	start, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, loc)
	if err != nil {
		return ScheduleWindow{}, err
	}

	return ScheduleWindow{
		Start: start,
		End:   start.Add(time.Duration(durationHours) * time.Hour),
	}, nil
}

// ParseScheduledFor aceita "YYYY-MM-DDTHH:MM[:SS]" sem fuso (interpretado em loc)
// ou RFC3339 completo.
func ParseScheduledFor(v string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.In(loc), nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", v, loc); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04", v, loc)
}
