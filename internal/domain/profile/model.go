package profile

import (
	"strings"
	"time"

	"github.com/rpggio/nutrilog/internal/domain/nutrition"
)

// Calorie goal bounds and default.
const (
	DefaultCalorieGoal = 2000
	MinCalorieGoal     = 1000
	MaxCalorieGoal     = 5000
)

// Profile is a user's goal and body metrics.
type Profile struct {
	ID          string    `json:"id"`
	Email       string    `json:"email,omitempty"`
	Name        string    `json:"name,omitempty"`
	CalorieGoal int       `json:"calorie_goal" validate:"gte=1000,lte=5000"`
	WeightKg    *float64  `json:"weight,omitempty" validate:"omitempty,gte=20,lte=300"`
	HeightCm    *float64  `json:"height,omitempty" validate:"omitempty,gte=100,lte=250"`
	Age         *int      `json:"age,omitempty" validate:"omitempty,gte=10,lte=120"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Patch carries profile edits. Nil fields are left unchanged.
type Patch struct {
	Name        *string  `json:"name,omitempty"`
	CalorieGoal *int     `json:"calorie_goal,omitempty" validate:"omitempty,gte=1000,lte=5000"`
	WeightKg    *float64 `json:"weight,omitempty" validate:"omitempty,gte=20,lte=300"`
	HeightCm    *float64 `json:"height,omitempty" validate:"omitempty,gte=100,lte=250"`
	Age         *int     `json:"age,omitempty" validate:"omitempty,gte=10,lte=120"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.CalorieGoal == nil && p.WeightKg == nil && p.HeightCm == nil && p.Age == nil
}

// Validate checks patched values against profile bounds.
func (p Patch) Validate() error {
	if p.IsEmpty() {
		return ErrEmptyPatch
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return &nutrition.ValidationError{Field: "name", Reason: "is required"}
	}
	return nutrition.ValidateStruct(p)
}

// Apply returns pr with the patch merged in.
func (p Patch) Apply(pr Profile) Profile {
	if p.Name != nil {
		pr.Name = strings.TrimSpace(*p.Name)
	}
	if p.CalorieGoal != nil {
		pr.CalorieGoal = *p.CalorieGoal
	}
	if p.WeightKg != nil {
		pr.WeightKg = p.WeightKg
	}
	if p.HeightCm != nil {
		pr.HeightCm = p.HeightCm
	}
	if p.Age != nil {
		pr.Age = p.Age
	}
	return pr
}
