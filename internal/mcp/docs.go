package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/nutrilog/internal/food"
)

const serverInstructions = `nutrilog tracks meals, workouts and a daily calorie goal.

Core concepts:
- Meal: a named food with calories and protein/carbs/fats grams, tagged breakfast, lunch, dinner, snack or other.
- Workout: a named activity with duration in minutes and calories burned.
- Today: the running totals for the current local day. Net calories = consumed - burned.
- Goal: a daily calorie target between 1000 and 5000 (2000 by default).

Typical workflow:
1) Call today_summary with refresh=true at the start of a conversation.
2) To log food with known numbers use log_meal. When only a name is known,
   call resolve_food or search_food first, or log_food to do both at once.
   Results marked estimated are placeholders; confirm numbers with the user.
3) Photos: recognize_food returns food names without nutrition. Resolve each
   name before logging.
4) Corrections: update_meal / delete_meal with ids from today_summary.
5) Trends: weekly_summary and macro_breakdown.

Docs:
- nutrilog://docs/guide
- nutrilog://foods/reference
`

const guideDoc = `# nutrilog guide

## Food lookup order

resolve_food answers from, in order: a per-process cache, the bundled
reference table (values per 100g), the configured food database, and
finally a fixed estimate (150 kcal, 5g protein, 20g carbs, 5g fats per
serving) flagged estimated.

search_food merges reference matches first, then database results,
without duplicates by name.

## Validation

- Calories must be greater than 0 when logging; macros must be 0 or more.
- Text amounts are rounded to whole numbers.
- Workout duration must be greater than 0.
- update_meal rejects a patch with no fields.

## Errors

Tool errors are JSON objects with code, message, and sometimes field and
recovery_hint. MEAL_NOT_FOUND and WORKOUT_NOT_FOUND mean the id is stale:
refresh with today_summary.
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     func() string
}

func registerDocResources(server *sdkmcp.Server) {
	docs := []docResource{
		{
			URI:         "nutrilog://docs/guide",
			Name:        "guide",
			Title:       "nutrilog guide",
			Description: "Food lookup order, validation rules and error codes.",
			Content:     func() string { return guideDoc },
		},
		{
			URI:         "nutrilog://foods/reference",
			Name:        "reference_foods",
			Title:       "Reference foods",
			Description: "The bundled common-food table, per 100g.",
			Content:     func() string { return referenceTableMarkdown(food.DefaultReferenceTable()) },
		},
	}

	for _, doc := range docs {
		content := doc.Content()
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     content,
				}},
			}, nil
		})
	}
}

func referenceTableMarkdown(t *food.ReferenceTable) string {
	var b strings.Builder
	b.WriteString("| Food | Category | kcal | Protein | Carbs | Fats |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, f := range t.Foods() {
		fmt.Fprintf(&b, "| %s | %s | %d | %d | %d | %d |\n", f.Name, f.Category, f.Calories, f.Protein, f.Carbs, f.Fats)
	}
	return b.String()
}
