package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var brt = time.FixedZone("BRT", -3*60*60)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s, brt)
	require.NoError(t, err)
	return d
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"08:00", 480, true},
		{"8:30", 510, true},
		{"23:59", 1439, true},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"1200", 0, false},
		{"", 0, false},
	}

	for _, tc := range cases {
		got, ok := ParseClock(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got, tc.in)
		}
	}
}

func TestSlotsForDate_DefaultsWithoutConfig(t *testing.T) {
	slots := SlotsForDate(day(t, "2024-01-01"), nil, nil) // segunda

	require.Len(t, slots, 20)
	assert.Equal(t, "08:00", slots[0])
	assert.Equal(t, "17:30", slots[len(slots)-1])
}

func TestSlotsForDate_DisabledWeekdayHasNoSlots(t *testing.T) {
	// domingo fora dos dias padrão
	assert.Empty(t, SlotsForDate(day(t, "2024-01-07"), nil, nil))

	raw := []byte(`{"days":{"1":{"enabled":false,"start":"08:00","end":"18:00"}}}`)
	assert.Empty(t, SlotsForDate(day(t, "2024-01-01"), raw, nil))
}

func TestSlotsForDate_SkipsBreak(t *testing.T) {
	raw := []byte(`{"days":{"1":{"enabled":true,"start":"08:00","end":"18:00",
		"breakEnabled":true,"breakStart":"12:00","breakEnd":"13:00"}}}`)

	slots := SlotsForDate(day(t, "2024-01-01"), raw, nil)

	require.Len(t, slots, 18)
	assert.Contains(t, slots, "11:30")
	assert.Contains(t, slots, "13:00")
	assert.NotContains(t, slots, "12:00")
	assert.NotContains(t, slots, "12:30")
}

func TestNormalizeWorkingHours_RepairsInvalidDays(t *testing.T) {
	raw := []byte(`{"days":{
		"1":{"enabled":true,"start":"18:00","end":"08:00"},
		"2":{"enabled":true,"start":"08:15","end":"17:45"},
		"3":{"enabled":true,"start":"08:00","end":"18:00","breakEnabled":true,"breakStart":"07:00","breakEnd":"09:00"},
		"4":{"enabled":true,"start":"08:00","end":"18:00","breakEnabled":true,"breakStart":"19:00","breakEnd":"20:00"}
	}}`)

	cfg := NormalizeWorkingHours(raw, nil)
	require.Len(t, cfg.Days, 7)

	assert.Equal(t, "08:00", cfg.Days[1].Start)
	assert.Equal(t, "18:00", cfg.Days[1].End)

	assert.Equal(t, "08:00", cfg.Days[2].Start)
	assert.Equal(t, "17:30", cfg.Days[2].End)

	assert.True(t, cfg.Days[3].BreakEnabled)
	assert.Equal(t, "08:00", cfg.Days[3].BreakStart)
	assert.Equal(t, "09:00", cfg.Days[3].BreakEnd)

	assert.False(t, cfg.Days[4].BreakEnabled)

	// dias ausentes herdam a lista de dias de trabalho padrão
	assert.False(t, cfg.Days[0].Enabled)
	assert.True(t, cfg.Days[5].Enabled)
}

func TestNormalizeWorkingHours_InvariantsHold(t *testing.T) {
	raw := []byte(`{"days":{"1":{"enabled":true,"start":"10:00","end":"10:00","breakEnabled":true,"breakStart":"09:00","breakEnd":"23:00"}}}`)

	cfg := NormalizeWorkingHours(raw, nil)
	for wd, rule := range cfg.Days {
		start, _ := ParseClock(rule.Start)
		end, _ := ParseClock(rule.End)
		assert.Less(t, start, end, "weekday %d", wd)

		if rule.BreakEnabled {
			bs, _ := ParseClock(rule.BreakStart)
			be, _ := ParseClock(rule.BreakEnd)
			assert.LessOrEqual(t, start, bs)
			assert.Less(t, bs, be)
			assert.LessOrEqual(t, be, end)
		}
	}
}

func TestNormalizeWorkingHours_LegacyList(t *testing.T) {
	raw := []byte(`["09:00","10:00","11:30","invalid"]`)

	slots := SlotsForDate(day(t, "2024-01-02"), raw, []byte(`"1,2"`))
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}, slots)

	// quarta não está em "1,2"
	assert.Empty(t, SlotsForDate(day(t, "2024-01-03"), raw, []byte(`"1,2"`)))
}

func TestNormalizeWorkingHours_DoubleEncodedJSON(t *testing.T) {
	raw := []byte(`"{\"days\":{\"1\":{\"enabled\":true,\"start\":\"09:00\",\"end\":\"10:00\"}}}"`)

	assert.Equal(t, []string{"09:00", "09:30"}, SlotsForDate(day(t, "2024-01-01"), raw, nil))
}

func TestParseWorkingDays(t *testing.T) {
	assert.Equal(t, []int{1, 3}, ParseWorkingDays([]byte(`[1,"3",9,2.5]`)))
	assert.Equal(t, []int{0, 6}, ParseWorkingDays([]byte(`"[0,6]"`)))
	assert.Equal(t, []int{2, 4}, ParseWorkingDays([]byte(`"2, 4"`)))
	assert.Nil(t, ParseWorkingDays(nil))
	assert.Nil(t, ParseWorkingDays([]byte(`null`)))

	// lista vazia cai nos dias padrão
	slots := SlotsForDate(day(t, "2024-01-06"), nil, []byte(`[]`)) // sábado
	assert.NotEmpty(t, slots)
}

func TestScheduleFor_OverlapsBreak(t *testing.T) {
	raw := []byte(`{"days":{"1":{"enabled":true,"start":"08:00","end":"18:00","breakEnabled":true,"breakStart":"12:00","breakEnd":"13:00"}}}`)
	ds := NormalizeWorkingHours(raw, nil).ScheduleFor(time.Monday)

	assert.True(t, ds.OverlapsBreak(11*60, 13*60))
	assert.True(t, ds.OverlapsBreak(12*60+30, 14*60))
	assert.False(t, ds.OverlapsBreak(11*60, 12*60))
	assert.False(t, ds.OverlapsBreak(13*60, 14*60))
}
