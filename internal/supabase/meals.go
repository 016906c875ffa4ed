package supabase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rpggio/nutrilog/internal/domain/meal"
	"github.com/rpggio/nutrilog/internal/domain/nutrition"
	"github.com/rpggio/nutrilog/internal/repository"
)

const mealsPath = "/rest/v1/meals"

// MealRepository stores meals in the meals table.
type MealRepository struct {
	c *Client
}

// NewMealRepository creates a new MealRepository.
func NewMealRepository(c *Client) *MealRepository {
	return &MealRepository{c: c}
}

type mealRow struct {
	ID       flexID    `json:"id,omitempty"`
	UserID   string    `json:"user_id"`
	Name     string    `json:"name"`
	Calories amount    `json:"calories"`
	Protein  amount    `json:"protein"`
	Carbs    amount    `json:"carbs"`
	Fats     amount    `json:"fats"`
	MealType string    `json:"meal_type"`
	LoggedAt time.Time `json:"logged_at"`
	ImageURL *string   `json:"image_url"`
}

func (r mealRow) entry() meal.Entry {
	return meal.Entry{
		ID:     string(r.ID),
		UserID: r.UserID,
		Record: nutrition.Record{
			Name:     r.Name,
			Calories: r.Calories.int(),
			Protein:  r.Protein.int(),
			Carbs:    r.Carbs.int(),
			Fats:     r.Fats.int(),
		},
		MealType: r.MealType,
		LoggedAt: r.LoggedAt,
		ImageURL: deref(r.ImageURL),
	}
}

// Create inserts a meal and copies the stored id back onto entry.
func (m *MealRepository) Create(ctx context.Context, userID string, entry *meal.Entry) error {
	row := mealRow{
		UserID:   userID,
		Name:     entry.Name,
		Calories: amount(entry.Calories),
		Protein:  amount(entry.Protein),
		Carbs:    amount(entry.Carbs),
		Fats:     amount(entry.Fats),
		MealType: entry.MealType,
		LoggedAt: entry.LoggedAt.UTC(),
		ImageURL: optional(entry.ImageURL),
	}
	var out []mealRow
	err := m.c.do(ctx, request{
		method: http.MethodPost,
		path:   mealsPath,
		body:   row,
		prefer: "return=representation",
	}, &out)
	if err != nil {
		return fmt.Errorf("insert meal: %w", err)
	}
	if len(out) == 0 {
		return fmt.Errorf("insert meal: empty representation")
	}
	entry.ID = string(out[0].ID)
	entry.UserID = userID
	return nil
}

// Update patches a meal's fields and returns the stored row.
func (m *MealRepository) Update(ctx context.Context, userID, id string, patch meal.Patch) (*meal.Entry, error) {
	if patch.MealType != nil {
		t := meal.NormalizeType(*patch.MealType)
		patch.MealType = &t
	}
	if patch.Name != nil {
		n := strings.TrimSpace(*patch.Name)
		patch.Name = &n
	}
	var out []mealRow
	err := m.c.do(ctx, request{
		method: http.MethodPatch,
		path:   mealsPath,
		query:  idQuery(userID, id),
		body:   patch,
		prefer: "return=representation",
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("update meal: %w", err)
	}
	if len(out) == 0 {
		return nil, repository.ErrNotFound
	}
	e := out[0].entry()
	return &e, nil
}

// Delete removes a meal.
func (m *MealRepository) Delete(ctx context.Context, userID, id string) error {
	err := m.c.do(ctx, request{method: http.MethodDelete, path: mealsPath, query: idQuery(userID, id)}, nil)
	if err != nil {
		return fmt.Errorf("delete meal: %w", err)
	}
	return nil
}

// DeleteMany removes several meals in one request.
func (m *MealRepository) DeleteMany(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	q := idQuery(userID, "")
	q.Set("id", "in.("+strings.Join(ids, ",")+")")
	if err := m.c.do(ctx, request{method: http.MethodDelete, path: mealsPath, query: q}, nil); err != nil {
		return fmt.Errorf("delete meals: %w", err)
	}
	return nil
}

// List returns the user's meals in the requested window.
func (m *MealRepository) List(ctx context.Context, userID string, opts meal.ListOptions) ([]meal.Entry, error) {
	var rows []mealRow
	q := rangeQuery(userID, "logged_at", opts.From, opts.To, opts.Ascending, opts.Limit)
	if err := m.c.do(ctx, request{method: http.MethodGet, path: mealsPath, query: q}, &rows); err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	out := make([]meal.Entry, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.entry())
	}
	return out, nil
}
