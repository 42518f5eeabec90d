package schedule

import "sort"

// AvailableSlot vem do backend e é a fonte da verdade dos horários livres.
type AvailableSlot struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Datetime string `json:"datetime"`
}

// SlotFilter cruza os slots do backend com os eventos ocupados.
// Loading indica que a consulta de slots ainda não terminou; Failed, que
// ela falhou ou ficou desatualizada. Nos dois casos nada é filtrado.
type SlotFilter struct {
	Slots   []AvailableSlot
	Loading bool
	Failed  bool
	Busy    *BusyEventIndex
}

func (f SlotFilter) unknown() bool {
	return f.Loading || f.Failed
}

// AvailableDates: known=false significa "não filtrar o calendário".
// Isso acontece sem resposta válida e quando o backend não devolveu slots.
func (f SlotFilter) AvailableDates() (DaySet, bool) {
	if f.unknown() || len(f.Slots) == 0 {
		return nil, false
	}

	var unavailable DaySet
	if f.Busy != nil {
		unavailable = f.Busy.unavailable
	}

	dates := DaySet{}
	for _, s := range f.Slots {
		if unavailable.Has(s.Date) {
			continue
		}
		dates[s.Date] = struct{}{}
	}
	return dates, true
}

// AvailableTimesForDate devolve known=false sem data ou sem resposta válida.
// Com known=true o slice nunca é nil: vazio significa "sem horários".
func (f SlotFilter) AvailableTimesForDate(date string) ([]string, bool) {
	if date == "" || f.unknown() {
		return nil, false
	}

	times := []string{}
	seen := map[string]bool{}
	for _, s := range f.Slots {
		if s.Date != date || seen[s.Time] {
			continue
		}
		seen[s.Time] = true
		if f.Busy.IsSlotBusy(date, s.Time) {
			continue
		}
		times = append(times, s.Time)
	}

	sort.Strings(times)
	return times, true
}

// ===============================
// Availability (três estados)
// ===============================

type AvailabilityState int

const (
	AvailabilityUnknown AvailabilityState = iota
	AvailabilityNone
	AvailabilitySome
)

func (s AvailabilityState) String() string {
	switch s {
	case AvailabilityNone:
		return "none"
	case AvailabilitySome:
		return "some"
	default:
		return "unknown"
	}
}

// Times preserva a distinção entre "não sei", "nenhum" e "estes".
type Times struct {
	State  AvailabilityState
	Values []string
}

func TimesOf(values []string, known bool) Times {
	switch {
	case !known:
		return Times{State: AvailabilityUnknown}
	case len(values) == 0:
		return Times{State: AvailabilityNone, Values: []string{}}
	default:
		return Times{State: AvailabilitySome, Values: values}
	}
}

func (t Times) Contains(clock string) bool {
	for _, v := range t.Values {
		if v == clock {
			return true
		}
	}
	return false
}

type Dates struct {
	State  AvailabilityState
	Values DaySet
}

func DatesOf(values DaySet, known bool) Dates {
	switch {
	case !known:
		return Dates{State: AvailabilityUnknown}
	case len(values) == 0:
		return Dates{State: AvailabilityNone, Values: DaySet{}}
	default:
		return Dates{State: AvailabilitySome, Values: values}
	}
}

// Allows: com estado desconhecido qualquer data é permitida.
func (d Dates) Allows(date string) bool {
	if d.State == AvailabilityUnknown {
		return true
	}
	return d.Values.Has(date)
}
