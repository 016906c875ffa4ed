package food

import (
	"strings"

	"github.com/rpggio/nutrilog/internal/domain/nutrition"
)

// ReferenceFood is one row of the bundled reference table, per 100g.
type ReferenceFood struct {
	Name     string
	Category string
	Calories int
	Protein  int
	Carbs    int
	Fats     int
}

// ReferenceTable is a read-only list of common foods searched in declared order.
type ReferenceTable struct {
	foods []ReferenceFood
}

// NewReferenceTable returns a table over foods.
func NewReferenceTable(foods []ReferenceFood) *ReferenceTable {
	return &ReferenceTable{foods: append([]ReferenceFood(nil), foods...)}
}

// DefaultReferenceTable returns the bundled common foods.
func DefaultReferenceTable() *ReferenceTable {
	return NewReferenceTable(commonFoods)
}

// Search returns every food whose name contains query, case-insensitively.
func (t *ReferenceTable) Search(query string) []Candidate {
	q := NormalizeKey(query)
	if q == "" {
		return nil
	}
	var out []Candidate
	for _, f := range t.foods {
		if strings.Contains(strings.ToLower(f.Name), q) {
			out = append(out, f.candidate())
		}
	}
	return out
}

// Lookup returns the first food matching query.
func (t *ReferenceTable) Lookup(query string) (Candidate, bool) {
	matches := t.Search(query)
	if len(matches) == 0 {
		return Candidate{}, false
	}
	return matches[0], true
}

// Foods returns a copy of the table's rows.
func (t *ReferenceTable) Foods() []ReferenceFood {
	return append([]ReferenceFood(nil), t.foods...)
}

// Len returns the number of foods in the table.
func (t *ReferenceTable) Len() int {
	return len(t.foods)
}

func (f ReferenceFood) candidate() Candidate {
	return Candidate{
		Record: nutrition.Record{
			Name:     f.Name,
			Calories: f.Calories,
			Protein:  f.Protein,
			Carbs:    f.Carbs,
			Fats:     f.Fats,
			Serving:  "100g",
		},
		Origin:   OriginLocal,
		Category: f.Category,
	}
}

// Values per 100g, rounded to whole grams and calories.
var commonFoods = []ReferenceFood{
	{"Chicken Breast", "protein", 165, 31, 0, 4},
	{"Salmon", "protein", 208, 20, 0, 13},
	{"Eggs", "protein", 155, 13, 1, 11},
	{"Beef", "protein", 250, 26, 0, 17},
	{"Tuna", "protein", 132, 28, 0, 1},
	{"Tofu", "protein", 76, 8, 2, 5},

	{"White Rice", "carbs", 130, 3, 28, 0},
	{"Brown Rice", "carbs", 111, 3, 23, 1},
	{"Pasta", "carbs", 131, 5, 25, 1},
	{"Bread", "carbs", 265, 9, 49, 3},
	{"Potato", "carbs", 77, 2, 17, 0},
	{"Sweet Potato", "carbs", 86, 2, 20, 0},
	{"Oats", "carbs", 389, 17, 66, 7},

	{"Broccoli", "vegetables", 34, 3, 7, 0},
	{"Spinach", "vegetables", 23, 3, 4, 0},
	{"Carrots", "vegetables", 41, 1, 10, 0},
	{"Tomato", "vegetables", 18, 1, 4, 0},
	{"Lettuce", "vegetables", 15, 1, 3, 0},
	{"Cucumber", "vegetables", 16, 1, 4, 0},

	{"Apple", "fruits", 52, 0, 14, 0},
	{"Banana", "fruits", 89, 1, 23, 0},
	{"Orange", "fruits", 47, 1, 12, 0},
	{"Strawberry", "fruits", 32, 1, 8, 0},
	{"Grapes", "fruits", 69, 1, 18, 0},
	{"Watermelon", "fruits", 30, 1, 8, 0},
	{"Mango", "fruits", 60, 1, 15, 0},

	{"Milk", "dairy", 42, 3, 5, 1},
	{"Cheese", "dairy", 402, 25, 1, 33},
	{"Yogurt", "dairy", 59, 10, 4, 0},
	{"Butter", "dairy", 717, 1, 0, 81},

	{"Pizza", "snacks", 266, 11, 33, 10},
	{"Burger", "snacks", 295, 17, 24, 14},
	{"French Fries", "snacks", 312, 3, 41, 15},
	{"Chocolate", "snacks", 546, 5, 61, 31},
	{"Ice Cream", "snacks", 207, 4, 24, 11},
	{"Cookies", "snacks", 502, 6, 64, 25},

	{"Almonds", "nuts", 579, 21, 22, 50},
	{"Peanuts", "nuts", 567, 26, 16, 49},
	{"Cashews", "nuts", 553, 18, 30, 44},
}
