package nutrition

import (
	"math"
	"strconv"
	"strings"
)

// ParseInput converts form text fields into an Input. Blank macro fields are
// absent; blank calories stay absent so NewRecord reports them as required.
func ParseInput(name, calories, protein, carbs, fats string) (Input, error) {
	in := Input{Name: name}
	var err error
	if in.Calories, err = ParseAmount("calories", calories); err != nil {
		return Input{}, err
	}
	if in.Protein, err = ParseAmount("protein", protein); err != nil {
		return Input{}, err
	}
	if in.Carbs, err = ParseAmount("carbs", carbs); err != nil {
		return Input{}, err
	}
	if in.Fats, err = ParseAmount("fats", fats); err != nil {
		return Input{}, err
	}
	return in, nil
}

// ParseAmount parses a numeric text field, rounding fractions to the nearest
// integer. It returns nil for blank input.
func ParseAmount(field, raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, invalid(field, "must be a number")
	}
	v := int(math.Round(f))
	return &v, nil
}
