package aggregate_test

import (
	"testing"
	"time"

	"github.com/rpggio/nutrilog/internal/aggregate"
	"github.com/rpggio/nutrilog/internal/domain/meal"
	"github.com/rpggio/nutrilog/internal/domain/nutrition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeSummary_EmptyRangeHasEveryDay(t *testing.T) {
	start := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	out := aggregate.RangeSummary(nil, start, start.AddDate(0, 0, 6), aggregate.Ascending)

	require.Len(t, out, 7)
	for i, d := range out {
		assert.Equal(t, start.AddDate(0, 0, i).Format(time.DateOnly), d.Date)
		assert.Zero(t, d.Calories)
	}
}

func TestRangeSummary_GroupsByLocalDate(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	start := time.Date(2026, 5, 4, 0, 0, 0, 0, loc)
	end := time.Date(2026, 5, 6, 23, 59, 0, 0, loc)

	points := []aggregate.Point{
		// 02:00 UTC on the 5th is still the 4th locally.
		{At: time.Date(2026, 5, 5, 2, 0, 0, 0, time.UTC), Calories: 400},
		{At: time.Date(2026, 5, 5, 12, 0, 0, 0, loc), Calories: 300},
		{At: time.Date(2026, 5, 5, 19, 0, 0, 0, loc), Calories: 200},
		{At: time.Date(2026, 5, 9, 12, 0, 0, 0, loc), Calories: 999},
	}
	out := aggregate.RangeSummary(points, start, end, aggregate.Ascending)

	assert.Equal(t, []aggregate.DayTotal{
		{Date: "2026-05-04", Calories: 400},
		{Date: "2026-05-05", Calories: 500},
		{Date: "2026-05-06", Calories: 0},
	}, out)
}

func TestRangeSummary_Descending(t *testing.T) {
	start := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	meals := []meal.Entry{
		{ID: "a", Record: nutrition.Record{Name: "A", Calories: 100}, LoggedAt: start.Add(3 * time.Hour)},
		{ID: "b", Record: nutrition.Record{Name: "B", Calories: 250}, LoggedAt: start.AddDate(0, 0, 2)},
	}
	out := aggregate.RangeSummary(aggregate.MealPoints(meals), start, start.AddDate(0, 0, 2), aggregate.Descending)

	require.Len(t, out, 3)
	assert.Equal(t, "2026-05-06", out[0].Date)
	assert.Equal(t, 250, out[0].Calories)
	assert.Equal(t, 100, out[2].Calories)
}

func TestRangeSummary_EndBeforeStart(t *testing.T) {
	start := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	out := aggregate.RangeSummary(nil, start, start.AddDate(0, 0, -1), aggregate.Ascending)
	assert.Empty(t, out)
}

func TestParseOrder(t *testing.T) {
	assert.Equal(t, aggregate.Descending, aggregate.ParseOrder("desc"))
	assert.Equal(t, aggregate.Ascending, aggregate.ParseOrder("asc"))
	assert.Equal(t, aggregate.Ascending, aggregate.ParseOrder(""))
}

func TestRangeSummary_HonorsTimeOfDayBounds(t *testing.T) {
	start := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)
	points := []aggregate.Point{
		{At: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC), Calories: 500},
		{At: time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC), Calories: 40},
		{At: time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC), Calories: 60},
		{At: time.Date(2026, 3, 3, 20, 0, 0, 0, time.UTC), Calories: 700},
	}
	out := aggregate.RangeSummary(points, start, end, aggregate.Ascending)

	assert.Equal(t, []aggregate.DayTotal{
		{Date: "2026-03-02", Calories: 40},
		{Date: "2026-03-03", Calories: 60},
	}, out)
}
