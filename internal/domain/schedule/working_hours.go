package schedule

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ===============================
// Constantes de expediente
// ===============================

const SlotIntervalMinutes = 30

const (
	defaultDayStartMinutes   = 8 * 60
	defaultDayEndMinutes     = 18 * 60
	defaultBreakStartMinutes = 12 * 60
	defaultBreakEndMinutes   = 13 * 60
)

// DefaultWorkingDays segunda a sábado (0 = domingo).
var DefaultWorkingDays = []int{1, 2, 3, 4, 5, 6}

// ===============================
// Tipos
// ===============================

type DayRule struct {
	Enabled      bool   `json:"enabled"`
	Start        string `json:"start"`
	End          string `json:"end"`
	BreakEnabled bool   `json:"breakEnabled"`
	BreakStart   string `json:"breakStart"`
	BreakEnd     string `json:"breakEnd"`
}

// WorkingHoursConfig sempre normalizado: sete dias, chave = weekday.
type WorkingHoursConfig struct {
	Days map[int]DayRule `json:"days"`
}

// DaySchedule é a forma em minutos usada pelos geradores de slots.
type DaySchedule struct {
	Enabled           bool
	StartMinutes      int
	EndMinutes        int
	HasBreak          bool
	BreakStartMinutes int
	BreakEndMinutes   int
}

// ===============================
// Helpers de relógio
// ===============================

// ParseClock converte "HH:MM" em minutos do dia.
func ParseClock(v string) (int, bool) {
	h, m, ok := strings.Cut(strings.TrimSpace(v), ":")
	if !ok || len(h) < 1 || len(h) > 2 || len(m) != 2 {
		return 0, false
	}

	hours, err := strconv.Atoi(h)
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}

	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, false
	}
	return hours*60 + minutes, true
}

func FormatClock(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	if minutes > 23*60+59 {
		minutes = 23*60 + 59
	}
	return pad2(minutes/60) + ":" + pad2(minutes%60)
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func roundToSlot(minutes int) int {
	return (minutes / SlotIntervalMinutes) * SlotIntervalMinutes
}

func clockOr(v any, def int) int {
	s, ok := v.(string)
	if !ok {
		return roundToSlot(def)
	}
	if m, ok := ParseClock(s); ok {
		return roundToSlot(m)
	}
	return roundToSlot(def)
}

// ===============================
// Dias de trabalho (legado)
// ===============================

// ParseWorkingDays aceita array JSON, string JSON ou "1,2,3".
// Retorna nil quando não há informação utilizável.
func ParseWorkingDays(raw []byte) []int {
	var v any
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil || v == nil {
		return nil
	}

	switch t := v.(type) {
	case []any:
		return sanitizeDays(t)
	case string:
		var nested []any
		if err := json.Unmarshal([]byte(t), &nested); err == nil {
			return sanitizeDays(nested)
		}
		parts := strings.Split(t, ",")
		items := make([]any, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				items = append(items, p)
			}
		}
		return sanitizeDays(items)
	}

	return nil
}

func sanitizeDays(values []any) []int {
	out := []int{}
	for _, v := range values {
		var day float64
		switch t := v.(type) {
		case float64:
			day = t
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
			if err != nil {
				continue
			}
			day = f
		default:
			continue
		}
		if day != float64(int(day)) || day < 0 || day > 6 {
			continue
		}
		out = append(out, int(day))
	}
	return out
}

// ===============================
// Normalização
// ===============================

// NormalizeWorkingHours aceita o formato estruturado {days:{...}}, a lista
// legada de horários ["08:00", ...] ou nada, e devolve sempre sete dias válidos.
func NormalizeWorkingHours(hoursRaw, daysRaw []byte) WorkingHoursConfig {
	enabledDays := ParseWorkingDays(daysRaw)
	if len(enabledDays) == 0 {
		enabledDays = DefaultWorkingDays
	}
	enabled := make(map[int]bool, len(enabledDays))
	for _, d := range enabledDays {
		enabled[d] = true
	}

	parsed := decodeLoose(hoursRaw)
	days := make(map[int]DayRule, 7)

	if obj, ok := parsed.(map[string]any); ok {
		if rawDays, ok := obj["days"].(map[string]any); ok {
			for day := 0; day <= 6; day++ {
				rawDay, _ := rawDays[strconv.Itoa(day)].(map[string]any)
				days[day] = normalizeDay(rawDay, enabled[day])
			}
			return WorkingHoursConfig{Days: days}
		}
	}

	if list, ok := parsed.([]any); ok {
		start, end := legacyWindow(list)
		for day := 0; day <= 6; day++ {
			days[day] = normalizeDay(map[string]any{
				"enabled": enabled[day],
				"start":   FormatClock(start),
				"end":     FormatClock(end),
			}, enabled[day])
		}
		return WorkingHoursConfig{Days: days}
	}

	for day := 0; day <= 6; day++ {
		days[day] = normalizeDay(nil, enabled[day])
	}
	return WorkingHoursConfig{Days: days}
}

// decodeLoose tolera JSON duplamente serializado (string contendo JSON).
func decodeLoose(raw []byte) any {
	var v any
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil {
		return nil
	}
	if s, ok := v.(string); ok {
		var nested any
		if err := json.Unmarshal([]byte(s), &nested); err == nil {
			return nested
		}
	}
	return v
}

func legacyWindow(list []any) (int, int) {
	seen := map[int]bool{}
	var slots []int
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			continue
		}
		m, ok := ParseClock(s)
		if !ok {
			continue
		}
		m = roundToSlot(m)
		if !seen[m] {
			seen[m] = true
			slots = append(slots, m)
		}
	}

	if len(slots) == 0 {
		return defaultDayStartMinutes, defaultDayEndMinutes
	}

	sort.Ints(slots)
	end := slots[len(slots)-1] + SlotIntervalMinutes
	if limit := 24*60 - SlotIntervalMinutes; end > limit {
		end = limit
	}
	return slots[0], end
}

func normalizeDay(raw map[string]any, fallbackEnabled bool) DayRule {
	enabled := fallbackEnabled
	if v, ok := raw["enabled"].(bool); ok {
		enabled = v
	}

	start := clockOr(raw["start"], defaultDayStartMinutes)
	end := clockOr(raw["end"], defaultDayEndMinutes)
	if end <= start {
		start, end = defaultDayStartMinutes, defaultDayEndMinutes
	}

	breakEnabled, _ := raw["breakEnabled"].(bool)
	if !breakEnabled {
		return DayRule{
			Enabled:    enabled,
			Start:      FormatClock(start),
			End:        FormatClock(end),
			BreakStart: FormatClock(defaultBreakStartMinutes),
			BreakEnd:   FormatClock(defaultBreakEndMinutes),
		}
	}

	breakStart := clockOr(raw["breakStart"], defaultBreakStartMinutes)
	breakEnd := clockOr(raw["breakEnd"], defaultBreakEndMinutes)
	if breakStart < start {
		breakStart = start
	}
	if breakEnd > end {
		breakEnd = end
	}
	if breakEnd <= breakStart {
		breakEnabled = false
	}

	return DayRule{
		Enabled:      enabled,
		Start:        FormatClock(start),
		End:          FormatClock(end),
		BreakEnabled: breakEnabled,
		BreakStart:   FormatClock(breakStart),
		BreakEnd:     FormatClock(breakEnd),
	}
}

// ===============================
// Consulta
// ===============================

func (c WorkingHoursConfig) ScheduleFor(weekday time.Weekday) DaySchedule {
	rule, ok := c.Days[int(weekday)]
	if !ok {
		return DaySchedule{}
	}

	start, ok := ParseClock(rule.Start)
	if !ok {
		start = defaultDayStartMinutes
	}
	end, ok := ParseClock(rule.End)
	if !ok {
		end = defaultDayEndMinutes
	}

	ds := DaySchedule{
		Enabled:      rule.Enabled,
		StartMinutes: start,
		EndMinutes:   end,
	}

	if rule.BreakEnabled {
		bs, ok := ParseClock(rule.BreakStart)
		if !ok {
			bs = defaultBreakStartMinutes
		}
		be, ok := ParseClock(rule.BreakEnd)
		if !ok {
			be = defaultBreakEndMinutes
		}
		if bs < start {
			bs = start
		}
		if be > end {
			be = end
		}
		if be > bs {
			ds.HasBreak = true
			ds.BreakStartMinutes = bs
			ds.BreakEndMinutes = be
		}
	}

	return ds
}

// OverlapsBreak usa a mesma regra de almoço dos agendamentos:
// start < breakEnd && end > breakStart.
func (d DaySchedule) OverlapsBreak(startMinutes, endMinutes int) bool {
	return d.HasBreak &&
		startMinutes < d.BreakEndMinutes &&
		endMinutes > d.BreakStartMinutes
}

// SlotsFor gera os horários candidatos "HH:MM" do dia, de 30 em 30 minutos.
func (c WorkingHoursConfig) SlotsFor(date time.Time) []string {
	day := c.ScheduleFor(date.Weekday())
	if !day.Enabled {
		return []string{}
	}

	slots := []string{}
	for m := day.StartMinutes; m+SlotIntervalMinutes <= day.EndMinutes; m += SlotIntervalMinutes {
		if day.OverlapsBreak(m, m+SlotIntervalMinutes) {
			continue
		}
		slots = append(slots, FormatClock(m))
	}
	return slots
}

// SlotsForDate normaliza a configuração crua e gera os slots da data.
// A data deve estar no fuso do negócio.
func SlotsForDate(date time.Time, workingHoursRaw, workingDaysRaw []byte) []string {
	if date.IsZero() {
		return []string{}
	}
	return NormalizeWorkingHours(workingHoursRaw, workingDaysRaw).SlotsFor(date)
}

// ParseDate interpreta "YYYY-MM-DD" à meia-noite no fuso informado.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)
