package meal

import (
	"strings"
	"time"

	"github.com/rpggio/nutrilog/internal/domain/nutrition"
)

// DefaultType is the meal type used when none is given.
const DefaultType = "other"

// Entry is a logged meal. ID is assigned by the store on create.
type Entry struct {
	ID     string `json:"id,omitempty"`
	UserID string `json:"user_id,omitempty"`
	nutrition.Record
	MealType string    `json:"meal_type"`
	LoggedAt time.Time `json:"logged_at"`
	ImageURL string    `json:"image_url,omitempty"`
}

// Patch carries the fields of an edit. Nil fields are left unchanged.
type Patch struct {
	Name     *string `json:"name,omitempty"`
	Calories *int    `json:"calories,omitempty"`
	Protein  *int    `json:"protein,omitempty"`
	Carbs    *int    `json:"carbs,omitempty"`
	Fats     *int    `json:"fats,omitempty"`
	MealType *string `json:"meal_type,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Calories == nil && p.Protein == nil &&
		p.Carbs == nil && p.Fats == nil && p.MealType == nil
}

// Apply returns e with the patch merged in.
func (p Patch) Apply(e Entry) Entry {
	if p.Name != nil {
		e.Name = strings.TrimSpace(*p.Name)
	}
	if p.Calories != nil {
		e.Calories = *p.Calories
	}
	if p.Protein != nil {
		e.Protein = *p.Protein
	}
	if p.Carbs != nil {
		e.Carbs = *p.Carbs
	}
	if p.Fats != nil {
		e.Fats = *p.Fats
	}
	if p.MealType != nil {
		e.MealType = NormalizeType(*p.MealType)
	}
	return e
}

// Validate applies the same rules an edited meal must satisfy as a new one.
func (p Patch) Validate() error {
	if p.IsEmpty() {
		return ErrEmptyPatch
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return &nutrition.ValidationError{Field: "name", Reason: "is required"}
	}
	if p.Calories != nil && *p.Calories <= 0 {
		return &nutrition.ValidationError{Field: "calories", Reason: "must be greater than 0"}
	}
	for _, f := range []struct {
		name string
		v    *int
	}{{"protein", p.Protein}, {"carbs", p.Carbs}, {"fats", p.Fats}} {
		if f.v != nil && *f.v < 0 {
			return &nutrition.ValidationError{Field: f.name, Reason: "must be at least 0"}
		}
	}
	return nil
}

// NormalizeType lower-cases a meal type and defaults it to "other".
func NormalizeType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if t == "" {
		return DefaultType
	}
	return t
}
