package calendar_test

import (
	"testing"
	"time"

	"github.com/rpggio/nutrilog/internal/domain/calendar"
	"github.com/stretchr/testify/assert"
)

func TestDayBounds(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	at := time.Date(2026, 3, 14, 22, 30, 0, 0, loc)

	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, loc), calendar.DayStart(at))
	assert.Equal(t, time.Date(2026, 3, 14, 23, 59, 59, int(time.Second-time.Nanosecond), loc), calendar.DayEnd(at))
}

func TestSameDay_UsesFirstLocation(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	local := time.Date(2026, 3, 15, 1, 0, 0, 0, loc)
	utc := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)

	assert.True(t, calendar.SameDay(local, utc))
	assert.False(t, calendar.SameDay(utc, local.AddDate(0, 0, 1)))
}

func TestLastDays(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	from, to := calendar.LastDays(now, 7)
	assert.Equal(t, "2026-03-08", calendar.DateKey(from))
	assert.Equal(t, "2026-03-14", calendar.DateKey(to))

	from, _ = calendar.LastDays(now, 0)
	assert.Equal(t, "2026-03-14", calendar.DateKey(from))
}
