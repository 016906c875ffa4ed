package workout

import (
	"strings"
	"time"

	"github.com/rpggio/nutrilog/internal/domain/nutrition"
)

// DefaultType is the workout type used when none is given.
const DefaultType = "other"

// Entry is a logged workout.
type Entry struct {
	ID              string    `json:"id,omitempty"`
	UserID          string    `json:"user_id,omitempty"`
	Name            string    `json:"name" validate:"required"`
	DurationMinutes int       `json:"duration" validate:"gt=0"`
	CaloriesBurned  int       `json:"calories_burned" validate:"gte=0"`
	WorkoutType     string    `json:"workout_type"`
	Notes           string    `json:"notes,omitempty"`
	CompletedAt     time.Time `json:"completed_at"`
}

// Input holds raw workout values. Nil numeric fields are absent.
type Input struct {
	Name            string
	DurationMinutes *int
	CaloriesBurned  *int
	WorkoutType     string
	Notes           string
	CompletedAt     time.Time
}

// NewEntry builds a validated Entry. Duration is required and positive;
// calories burned defaults to zero and may not be negative.
func NewEntry(in Input) (Entry, error) {
	if in.DurationMinutes == nil {
		return Entry{}, &nutrition.ValidationError{Field: "duration", Reason: "is required"}
	}
	e := Entry{
		Name:            strings.TrimSpace(in.Name),
		DurationMinutes: *in.DurationMinutes,
		WorkoutType:     NormalizeType(in.WorkoutType),
		Notes:           strings.TrimSpace(in.Notes),
		CompletedAt:     in.CompletedAt,
	}
	if in.CaloriesBurned != nil {
		e.CaloriesBurned = *in.CaloriesBurned
	}
	if e.Name == "" {
		return Entry{}, &nutrition.ValidationError{Field: "name", Reason: "is required"}
	}
	if err := nutrition.ValidateStruct(e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Patch carries the fields of a workout edit.
type Patch struct {
	Name            *string `json:"name,omitempty"`
	DurationMinutes *int    `json:"duration,omitempty"`
	CaloriesBurned  *int    `json:"calories_burned,omitempty"`
	WorkoutType     *string `json:"workout_type,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.DurationMinutes == nil && p.CaloriesBurned == nil &&
		p.WorkoutType == nil && p.Notes == nil
}

// Apply returns e with the patch merged in.
func (p Patch) Apply(e Entry) Entry {
	if p.Name != nil {
		e.Name = strings.TrimSpace(*p.Name)
	}
	if p.DurationMinutes != nil {
		e.DurationMinutes = *p.DurationMinutes
	}
	if p.CaloriesBurned != nil {
		e.CaloriesBurned = *p.CaloriesBurned
	}
	if p.WorkoutType != nil {
		e.WorkoutType = NormalizeType(*p.WorkoutType)
	}
	if p.Notes != nil {
		e.Notes = strings.TrimSpace(*p.Notes)
	}
	return e
}

// Validate checks the patched fields.
func (p Patch) Validate() error {
	if p.IsEmpty() {
		return ErrEmptyPatch
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return &nutrition.ValidationError{Field: "name", Reason: "is required"}
	}
	if p.DurationMinutes != nil && *p.DurationMinutes <= 0 {
		return &nutrition.ValidationError{Field: "duration", Reason: "must be greater than 0"}
	}
	if p.CaloriesBurned != nil && *p.CaloriesBurned < 0 {
		return &nutrition.ValidationError{Field: "calories_burned", Reason: "must be at least 0"}
	}
	return nil
}

// NormalizeType lower-cases a workout type and defaults it to "other".
func NormalizeType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if t == "" {
		return DefaultType
	}
	return t
}
