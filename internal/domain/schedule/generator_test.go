package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.ParseInLocation("2006-01-02 15:04", s, brt)
	require.NoError(t, err)
	return v
}

func times(slots []AvailableSlot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Date+" "+s.Time)
	}
	return out
}

func baseInput(t *testing.T) GeneratorInput {
	raw := []byte(`{"days":{"1":{"enabled":true,"start":"08:00","end":"12:00"}}}`)
	return GeneratorInput{
		Config:          NormalizeWorkingHours(raw, []byte(`[1]`)),
		From:            at(t, "2024-01-01 00:00"),
		To:              at(t, "2024-01-01 00:00"),
		Location:        brt,
		Now:             at(t, "2023-12-31 10:00"),
		DurationMinutes: 120,
		LeadTimeMinutes: 30,
	}
}

func TestGenerateSlots_FitsWholeDuration(t *testing.T) {
	slots := GenerateSlots(baseInput(t))

	assert.Equal(t, []string{
		"2024-01-01 08:00",
		"2024-01-01 08:30",
		"2024-01-01 09:00",
		"2024-01-01 09:30",
		"2024-01-01 10:00",
	}, times(slots))
	assert.Equal(t, "2024-01-01T08:00:00-03:00", slots[0].Datetime)
}

func TestGenerateSlots_RespectsLeadTime(t *testing.T) {
	in := baseInput(t)
	in.Now = at(t, "2024-01-01 08:45")

	// mínimo 09:15
	assert.Equal(t, []string{"2024-01-01 09:30", "2024-01-01 10:00"}, times(GenerateSlots(in)))
}

func TestGenerateSlots_SkipsBreakOverlap(t *testing.T) {
	in := baseInput(t)
	in.Config = NormalizeWorkingHours([]byte(`{"days":{"1":{"enabled":true,"start":"08:00","end":"14:00",
		"breakEnabled":true,"breakStart":"10:00","breakEnd":"11:00"}}}`), nil)
	in.DurationMinutes = 60

	assert.Equal(t, []string{
		"2024-01-01 08:00",
		"2024-01-01 08:30",
		"2024-01-01 09:00",
		"2024-01-01 11:00",
		"2024-01-01 11:30",
		"2024-01-01 12:00",
		"2024-01-01 12:30",
		"2024-01-01 13:00",
	}, times(GenerateSlots(in)))
}

func TestGenerateSlots_ProtectedWindowsAroundTickets(t *testing.T) {
	in := baseInput(t)
	in.DurationMinutes = 60
	in.Padding = 45 * time.Minute
	in.Reserved = []Interval{
		Interval{Start: at(t, "2024-01-01 11:00"), End: at(t, "2024-01-01 12:00")}.Pad(45 * time.Minute),
	}

	// chamado protegido 10:15-12:45; slots protegidos ±45min
	assert.Equal(t, []string{"2024-01-01 08:00", "2024-01-01 08:30"}, times(GenerateSlots(in)))
}

func TestGenerateSlots_CalendarBusyHasNoPadding(t *testing.T) {
	in := baseInput(t)
	in.DurationMinutes = 60
	in.Busy = []Interval{{Start: at(t, "2024-01-01 09:00"), End: at(t, "2024-01-01 10:00")}}

	assert.Equal(t, []string{
		"2024-01-01 08:00",
		"2024-01-01 10:00",
		"2024-01-01 10:30",
		"2024-01-01 11:00",
	}, times(GenerateSlots(in)))
}

func TestGenerateSlots_DisabledDaysAndRange(t *testing.T) {
	in := baseInput(t)
	in.From = at(t, "2023-12-30 00:00")
	in.To = at(t, "2024-01-02 00:00")

	slots := GenerateSlots(in)
	require.NotEmpty(t, slots)
	for _, s := range slots {
		assert.Equal(t, "2024-01-01", s.Date)
	}
}
