package nutrition

import "strings"

// Record is the calorie and macro shape shared by meals and food candidates.
type Record struct {
	Name       string   `json:"name" validate:"required"`
	Calories   int      `json:"calories" validate:"gte=0"`
	Protein    int      `json:"protein" validate:"gte=0"`
	Carbs      int      `json:"carbs" validate:"gte=0"`
	Fats       int      `json:"fats" validate:"gte=0"`
	Serving    string   `json:"serving,omitempty"`
	Confidence *float64 `json:"confidence,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// Input holds raw record values before normalization. Nil numeric fields are absent.
type Input struct {
	Name       string
	Calories   *int
	Protein    *int
	Carbs      *int
	Fats       *int
	Serving    string
	Confidence *float64
}

// NewRecord builds a Record from input, defaulting absent macros to zero.
// Calories must be present; every numeric field must be non-negative.
func NewRecord(in Input) (Record, error) {
	if in.Calories == nil {
		return Record{}, invalid("calories", "is required")
	}
	rec := Record{
		Name:       strings.TrimSpace(in.Name),
		Calories:   *in.Calories,
		Protein:    valueOrZero(in.Protein),
		Carbs:      valueOrZero(in.Carbs),
		Fats:       valueOrZero(in.Fats),
		Serving:    strings.TrimSpace(in.Serving),
		Confidence: in.Confidence,
	}
	if err := Validate(rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Loggable checks that a record can become a logged meal.
func Loggable(rec Record) error {
	if err := Validate(rec); err != nil {
		return err
	}
	if rec.Calories <= 0 {
		return invalid("calories", "must be greater than 0")
	}
	return nil
}

// Add returns the field-wise sum of two records' numeric values.
func (r Record) Add(other Record) Record {
	r.Calories += other.Calories
	r.Protein += other.Protein
	r.Carbs += other.Carbs
	r.Fats += other.Fats
	return r
}

func valueOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
