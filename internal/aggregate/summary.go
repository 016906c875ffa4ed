package aggregate

import (
	"time"

	"github.com/rpggio/nutrilog/internal/domain/calendar"
	"github.com/rpggio/nutrilog/internal/domain/meal"
	"github.com/rpggio/nutrilog/internal/domain/workout"
)

// Order is the direction of a range summary.
type Order int

const (
	Ascending Order = iota
	Descending
)

// ParseOrder maps "desc" to Descending and anything else to Ascending.
func ParseOrder(s string) Order {
	if s == "desc" {
		return Descending
	}
	return Ascending
}

// Point is a timestamped calorie amount.
type Point struct {
	At       time.Time
	Calories int
}

// DayTotal is one day of a range summary.
type DayTotal struct {
	Date     string `json:"date"`
	Calories int    `json:"calories"`
}

// RangeSummary sums calories per local calendar day for every day from
// start's date through end's date, inclusive. Days are taken in start's
// location. Only points within [start, end] are counted; empty days are 0.
func RangeSummary(points []Point, start, end time.Time, order Order) []DayTotal {
	loc := start.Location()
	first := calendar.DayStart(start)
	last := calendar.DayStart(end.In(loc))
	if last.Before(first) {
		return []DayTotal{}
	}

	sums := make(map[string]int)
	for _, p := range points {
		if p.At.Before(start) || p.At.After(end) {
			continue
		}
		sums[calendar.DateKey(p.At.In(loc))] += p.Calories
	}

	var out []DayTotal
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		key := calendar.DateKey(d)
		out = append(out, DayTotal{Date: key, Calories: sums[key]})
	}
	if order == Descending {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// MealPoints maps meals to their logged time and calories.
func MealPoints(entries []meal.Entry) []Point {
	out := make([]Point, 0, len(entries))
	for _, e := range entries {
		out = append(out, Point{At: e.LoggedAt, Calories: e.Calories})
	}
	return out
}

// WorkoutPoints maps workouts to their completion time and calories burned.
func WorkoutPoints(entries []workout.Entry) []Point {
	out := make([]Point, 0, len(entries))
	for _, e := range entries {
		out = append(out, Point{At: e.CompletedAt, Calories: e.CaloriesBurned})
	}
	return out
}
