package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rpggio/nutrilog/internal/domain/nutrition"
	"github.com/rpggio/nutrilog/internal/food"
	"github.com/rpggio/nutrilog/internal/repository"
)

// FoodCatalog stores custom foods and searches them with FTS5. It
// implements food.Database.
type FoodCatalog struct {
	db    *DB
	limit int
}

// NewFoodCatalog creates a new FoodCatalog returning at most limit matches
func NewFoodCatalog(db *DB, limit int) *FoodCatalog {
	if limit <= 0 {
		limit = 5
	}
	return &FoodCatalog{db: db, limit: limit}
}

// Save adds a food to the catalog
func (c *FoodCatalog) Save(ctx context.Context, f food.Candidate) error {
	if err := nutrition.Loggable(f.Record); err != nil {
		return err
	}
	query := `
		INSERT INTO foods (id, name, calories, protein, carbs, fats, serving, brand, category, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := c.db.ExecContext(ctx, query,
		uuid.NewString(),
		strings.TrimSpace(f.Name),
		f.Calories,
		f.Protein,
		f.Carbs,
		f.Fats,
		f.Serving,
		f.Brand,
		f.Category,
		millis(time.Now()),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("food %q: %w", f.Name, repository.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to save food: %w", err)
	}
	return nil
}

// Search performs a prefix full-text search over names, brands and categories
func (c *FoodCatalog) Search(ctx context.Context, query string) ([]food.Candidate, error) {
	match := matchExpression(query)
	if match == "" {
		return nil, nil
	}
	q := `
		SELECT f.name, f.calories, f.protein, f.carbs, f.fats, f.serving, f.brand, f.category
		FROM foods_fts
		JOIN foods f ON f.rowid = foods_fts.rowid
		WHERE foods_fts MATCH ?
		ORDER BY bm25(foods_fts)
		LIMIT ?
	`
	rows, err := c.db.QueryContext(ctx, q, match, c.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search foods: %w", err)
	}
	defer rows.Close()

	var results []food.Candidate
	for rows.Next() {
		cand := food.Candidate{Origin: food.OriginExternal}
		err := rows.Scan(
			&cand.Name,
			&cand.Calories,
			&cand.Protein,
			&cand.Carbs,
			&cand.Fats,
			&cand.Serving,
			&cand.Brand,
			&cand.Category,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan food: %w", err)
		}
		results = append(results, cand)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating food rows: %w", err)
	}
	return results, nil
}

// matchExpression quotes each word as an FTS5 prefix term so user input
// cannot inject query syntax.
func matchExpression(query string) string {
	fields := strings.Fields(query)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ReplaceAll(f, `"`, "")
		if f == "" {
			continue
		}
		terms = append(terms, `"`+f+`"*`)
	}
	return strings.Join(terms, " ")
}
