package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/nutrilog/internal/aggregate"
	"github.com/rpggio/nutrilog/internal/app"
	"github.com/rpggio/nutrilog/internal/auth"
	"github.com/rpggio/nutrilog/internal/domain/calendar"
	"github.com/rpggio/nutrilog/internal/domain/meal"
	"github.com/rpggio/nutrilog/internal/domain/nutrition"
	"github.com/rpggio/nutrilog/internal/domain/profile"
	"github.com/rpggio/nutrilog/internal/domain/workout"
	"github.com/rpggio/nutrilog/internal/food"
)

var errNoCatalog = errors.New("food catalog not configured")

type emptyInput struct{}

type mealInput struct {
	Name     string `json:"name" jsonschema:"Food or dish name"`
	Calories *int   `json:"calories,omitempty" jsonschema:"Total calories (kcal), greater than 0"`
	Protein  *int   `json:"protein,omitempty" jsonschema:"Protein grams"`
	Carbs    *int   `json:"carbs,omitempty" jsonschema:"Carbohydrate grams"`
	Fats     *int   `json:"fats,omitempty" jsonschema:"Fat grams"`
	Serving  string `json:"serving,omitempty" jsonschema:"Serving description such as 100g"`
	MealType string `json:"meal_type,omitempty" jsonschema:"breakfast, lunch, dinner, snack or other"`
	LoggedAt string `json:"logged_at,omitempty" jsonschema:"RFC 3339 time the meal was eaten; defaults to now"`
}

type logFoodInput struct {
	Food     string `json:"food" jsonschema:"Food name to look up and log"`
	MealType string `json:"meal_type,omitempty" jsonschema:"breakfast, lunch, dinner, snack or other"`
}

type updateMealInput struct {
	ID       string  `json:"id" jsonschema:"Meal id"`
	Name     *string `json:"name,omitempty"`
	Calories *int    `json:"calories,omitempty"`
	Protein  *int    `json:"protein,omitempty"`
	Carbs    *int    `json:"carbs,omitempty"`
	Fats     *int    `json:"fats,omitempty"`
	MealType *string `json:"meal_type,omitempty"`
}

type idInput struct {
	ID string `json:"id" jsonschema:"Record id"`
}

type todayInput struct {
	Refresh bool `json:"refresh,omitempty" jsonschema:"Reload today's records from storage before summarizing"`
}

type historyInput struct {
	Days int `json:"days,omitempty" jsonschema:"Number of days back including today; defaults to 7"`
}

type workoutInput struct {
	Name           string `json:"name" jsonschema:"Workout name"`
	Duration       *int   `json:"duration,omitempty" jsonschema:"Duration in minutes, greater than 0"`
	CaloriesBurned *int   `json:"calories_burned,omitempty" jsonschema:"Calories burned (kcal)"`
	WorkoutType    string `json:"workout_type,omitempty" jsonschema:"cardio, strength, flexibility, sports or other"`
	Notes          string `json:"notes,omitempty"`
	CompletedAt    string `json:"completed_at,omitempty" jsonschema:"RFC 3339 completion time; defaults to now"`
}

type updateWorkoutInput struct {
	ID             string  `json:"id" jsonschema:"Workout id"`
	Name           *string `json:"name,omitempty"`
	Duration       *int    `json:"duration,omitempty"`
	CaloriesBurned *int    `json:"calories_burned,omitempty"`
	WorkoutType    *string `json:"workout_type,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

type searchInput struct {
	Query string `json:"query" jsonschema:"Food name or partial name"`
}

type resolveInput struct {
	Name string `json:"name" jsonschema:"Food name"`
}

type recognizeInput struct {
	ImageBase64 string `json:"image_base64" jsonschema:"Base64-encoded JPEG or PNG photo"`
}

type saveFoodInput struct {
	Name     string `json:"name"`
	Calories *int   `json:"calories,omitempty"`
	Protein  *int   `json:"protein,omitempty"`
	Carbs    *int   `json:"carbs,omitempty"`
	Fats     *int   `json:"fats,omitempty"`
	Serving  string `json:"serving,omitempty"`
	Brand    string `json:"brand,omitempty"`
}

type weeklyInput struct {
	Days  int    `json:"days,omitempty" jsonschema:"Number of days; defaults to 7"`
	Order string `json:"order,omitempty" jsonschema:"asc (oldest first) or desc"`
}

type updateProfileInput struct {
	Name        *string  `json:"name,omitempty"`
	CalorieGoal *int     `json:"calorie_goal,omitempty" jsonschema:"Daily calorie goal, 1000 to 5000"`
	Weight      *float64 `json:"weight,omitempty" jsonschema:"Weight in kg"`
	Height      *float64 `json:"height,omitempty" jsonschema:"Height in cm"`
	Age         *int     `json:"age,omitempty"`
}

type recommendInput struct {
	Gender   string `json:"gender" jsonschema:"male or female"`
	Activity string `json:"activity,omitempty" jsonschema:"sedentary, light, moderate, active or very_active"`
}

type tools struct {
	svcs   *app.Services
	logger *slog.Logger
}

func registerTools(server *sdkmcp.Server, svcs *app.Services, logger *slog.Logger) {
	t := &tools{svcs: svcs, logger: logger}

	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "ping", Description: "Check that the server is reachable"}, t.ping)

	// Meals
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "log_meal", Description: "Log a meal with its calories and macros"}, t.logMeal)
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "log_food", Description: "Look up a food by name and log it as a meal"}, t.logFood)
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "update_meal", Description: "Edit fields of a logged meal"}, t.updateMeal)
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "delete_meal", Description: "Delete a logged meal"}, t.deleteMeal)
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "clear_meals", Description: "Delete every meal logged today"}, t.clearMeals)
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "meal_history", Description: "List meals over recent days"}, t.mealHistory)

	// Workouts
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "log_workout", Description: "Log a workout"}, t.logWorkout)
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "update_workout", Description: "Edit fields of a logged workout"}, t.updateWorkout)
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "delete_workout", Description: "Delete a logged workout"}, t.deleteWorkout)

	// Daily view and analytics
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "today_summary", Description: "Today's totals, net calories, records and goal progress"}, t.today)
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "weekly_summary", Description: "Consumed and burned calories per day"}, t.weekly)
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "macro_breakdown", Description: "Macro totals and calorie shares over recent days"}, t.macros)

	// Foods
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "search_food", Description: "Search the reference table and food database by name"}, t.searchFood)
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "resolve_food", Description: "Resolve a food name to a single nutrition estimate"}, t.resolveFood)
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "recognize_food", Description: "Identify foods in a photo"}, t.recognizeFood)
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "save_food", Description: "Add a custom food to the local catalog"}, t.saveFood)

	// Profile
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "get_profile", Description: "Get the user's profile and calorie goal"}, t.getProfile)
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "update_profile", Description: "Update calorie goal or body metrics"}, t.updateProfile)
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: "recommend_calories", Description: "Estimate daily calorie needs from body metrics"}, t.recommend)
}

func (t *tools) ping(context.Context, *sdkmcp.CallToolRequest, emptyInput) (*sdkmcp.CallToolResult, any, error) {
	return textResult("pong"), nil, nil
}

func (t *tools) logMeal(ctx context.Context, _ *sdkmcp.CallToolRequest, in mealInput) (*sdkmcp.CallToolResult, any, error) {
	loggedAt, err := parseTime("logged_at", in.LoggedAt)
	if err != nil {
		return t.fail("log_meal", err)
	}
	rec, err := nutrition.NewRecord(nutrition.Input{
		Name:     in.Name,
		Calories: in.Calories,
		Protein:  in.Protein,
		Carbs:    in.Carbs,
		Fats:     in.Fats,
		Serving:  in.Serving,
	})
	if err != nil {
		return t.fail("log_meal", err)
	}
	entry, err := t.svcs.Meals.Log(ctx, userID(ctx), meal.LogRequest{Record: rec, MealType: in.MealType, LoggedAt: loggedAt})
	if err != nil {
		return t.fail("log_meal", err)
	}
	return jsonResult(entry)
}

// logFood resolves a name and logs the result. Estimates are logged too and
// flagged in the response.
func (t *tools) logFood(ctx context.Context, _ *sdkmcp.CallToolRequest, in logFoodInput) (*sdkmcp.CallToolResult, any, error) {
	c, err := t.svcs.Foods.ResolveByName(ctx, in.Food)
	if err != nil {
		return t.fail("log_food", err)
	}
	entry, err := t.svcs.Meals.Log(ctx, userID(ctx), meal.LogRequest{Record: c.Record, MealType: in.MealType})
	if err != nil {
		return t.fail("log_food", err)
	}
	return jsonResult(map[string]any{
		"meal":      entry,
		"origin":    c.Origin,
		"estimated": c.Estimated,
	})
}

func (t *tools) updateMeal(ctx context.Context, _ *sdkmcp.CallToolRequest, in updateMealInput) (*sdkmcp.CallToolResult, any, error) {
	patch := meal.Patch{
		Name:     in.Name,
		Calories: in.Calories,
		Protein:  in.Protein,
		Carbs:    in.Carbs,
		Fats:     in.Fats,
		MealType: in.MealType,
	}
	entry, err := t.svcs.Meals.Update(ctx, userID(ctx), in.ID, patch)
	if err != nil {
		return t.fail("update_meal", err)
	}
	return jsonResult(entry)
}

func (t *tools) deleteMeal(ctx context.Context, _ *sdkmcp.CallToolRequest, in idInput) (*sdkmcp.CallToolResult, any, error) {
	if err := t.svcs.Meals.Delete(ctx, userID(ctx), in.ID); err != nil {
		return t.fail("delete_meal", err)
	}
	return jsonResult(map[string]any{"deleted": in.ID})
}

func (t *tools) clearMeals(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, any, error) {
	if err := t.svcs.Meals.ClearToday(ctx, userID(ctx)); err != nil {
		return t.fail("clear_meals", err)
	}
	return jsonResult(map[string]any{"cleared": true})
}

func (t *tools) mealHistory(ctx context.Context, _ *sdkmcp.CallToolRequest, in historyInput) (*sdkmcp.CallToolResult, any, error) {
	days := in.Days
	if days <= 0 {
		days = 7
	}
	from, to := calendar.LastDays(t.now(), days)
	entries, err := t.svcs.Meals.History(ctx, userID(ctx), from, to)
	if err != nil {
		return t.fail("meal_history", err)
	}
	if entries == nil {
		entries = []meal.Entry{}
	}
	return jsonResult(map[string]any{"meals": entries})
}

func (t *tools) logWorkout(ctx context.Context, _ *sdkmcp.CallToolRequest, in workoutInput) (*sdkmcp.CallToolResult, any, error) {
	completedAt, err := parseTime("completed_at", in.CompletedAt)
	if err != nil {
		return t.fail("log_workout", err)
	}
	entry, err := t.svcs.Workouts.Log(ctx, userID(ctx), workout.Input{
		Name:            in.Name,
		DurationMinutes: in.Duration,
		CaloriesBurned:  in.CaloriesBurned,
		WorkoutType:     in.WorkoutType,
		Notes:           in.Notes,
		CompletedAt:     completedAt,
	})
	if err != nil {
		return t.fail("log_workout", err)
	}
	return jsonResult(entry)
}

func (t *tools) updateWorkout(ctx context.Context, _ *sdkmcp.CallToolRequest, in updateWorkoutInput) (*sdkmcp.CallToolResult, any, error) {
	patch := workout.Patch{
		Name:            in.Name,
		DurationMinutes: in.Duration,
		CaloriesBurned:  in.CaloriesBurned,
		WorkoutType:     in.WorkoutType,
		Notes:           in.Notes,
	}
	entry, err := t.svcs.Workouts.Update(ctx, userID(ctx), in.ID, patch)
	if err != nil {
		return t.fail("update_workout", err)
	}
	return jsonResult(entry)
}

func (t *tools) deleteWorkout(ctx context.Context, _ *sdkmcp.CallToolRequest, in idInput) (*sdkmcp.CallToolResult, any, error) {
	if err := t.svcs.Workouts.Delete(ctx, userID(ctx), in.ID); err != nil {
		return t.fail("delete_workout", err)
	}
	return jsonResult(map[string]any{"deleted": in.ID})
}

func (t *tools) today(ctx context.Context, _ *sdkmcp.CallToolRequest, in todayInput) (*sdkmcp.CallToolResult, any, error) {
	load := t.svcs.Today
	if in.Refresh {
		load = t.svcs.LoadToday
	}
	today, err := load(ctx, userID(ctx))
	if err != nil {
		return t.fail("today_summary", err)
	}
	return jsonResult(today)
}

func (t *tools) weekly(ctx context.Context, _ *sdkmcp.CallToolRequest, in weeklyInput) (*sdkmcp.CallToolResult, any, error) {
	series, err := t.svcs.Analytics.Daily(ctx, userID(ctx), in.Days, aggregate.ParseOrder(in.Order))
	if err != nil {
		return t.fail("weekly_summary", err)
	}
	return jsonResult(series)
}

func (t *tools) macros(ctx context.Context, _ *sdkmcp.CallToolRequest, in historyInput) (*sdkmcp.CallToolResult, any, error) {
	m, err := t.svcs.Analytics.Macros(ctx, userID(ctx), in.Days)
	if err != nil {
		return t.fail("macro_breakdown", err)
	}
	return jsonResult(m)
}

func (t *tools) searchFood(ctx context.Context, _ *sdkmcp.CallToolRequest, in searchInput) (*sdkmcp.CallToolResult, any, error) {
	return jsonResult(map[string]any{"results": t.svcs.Foods.SearchByName(ctx, in.Query)})
}

func (t *tools) resolveFood(ctx context.Context, _ *sdkmcp.CallToolRequest, in resolveInput) (*sdkmcp.CallToolResult, any, error) {
	c, err := t.svcs.Foods.ResolveByName(ctx, in.Name)
	if err != nil {
		return t.fail("resolve_food", err)
	}
	return jsonResult(c)
}

func (t *tools) recognizeFood(ctx context.Context, _ *sdkmcp.CallToolRequest, in recognizeInput) (*sdkmcp.CallToolResult, any, error) {
	image, err := base64.StdEncoding.DecodeString(in.ImageBase64)
	if err != nil || len(image) == 0 {
		return t.fail("recognize_food", &nutrition.ValidationError{Field: "image_base64", Reason: "must be non-empty base64"})
	}
	candidates, err := t.svcs.Foods.RecognizeImage(ctx, image)
	if err != nil {
		return t.fail("recognize_food", err)
	}
	return jsonResult(map[string]any{"candidates": candidates})
}

func (t *tools) saveFood(ctx context.Context, _ *sdkmcp.CallToolRequest, in saveFoodInput) (*sdkmcp.CallToolResult, any, error) {
	if t.svcs.Catalog == nil {
		return t.fail("save_food", errNoCatalog)
	}
	rec, err := nutrition.NewRecord(nutrition.Input{
		Name:     in.Name,
		Calories: in.Calories,
		Protein:  in.Protein,
		Carbs:    in.Carbs,
		Fats:     in.Fats,
		Serving:  in.Serving,
	})
	if err != nil {
		return t.fail("save_food", err)
	}
	c := food.Candidate{Record: rec, Origin: food.OriginExternal, Brand: in.Brand}
	if err := t.svcs.Catalog.Save(ctx, c); err != nil {
		return t.fail("save_food", err)
	}
	return jsonResult(c)
}

func (t *tools) getProfile(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, any, error) {
	sess, _ := auth.FromContext(ctx)
	p, err := t.svcs.Profiles.Ensure(ctx, sess.UserID, sess.Email, "")
	if err != nil {
		return t.fail("get_profile", err)
	}
	return jsonResult(p)
}

func (t *tools) updateProfile(ctx context.Context, _ *sdkmcp.CallToolRequest, in updateProfileInput) (*sdkmcp.CallToolResult, any, error) {
	p, err := t.svcs.Profiles.Update(ctx, userID(ctx), profile.Patch{
		Name:        in.Name,
		CalorieGoal: in.CalorieGoal,
		WeightKg:    in.Weight,
		HeightCm:    in.Height,
		Age:         in.Age,
	})
	if err != nil {
		return t.fail("update_profile", err)
	}
	return jsonResult(p)
}

func (t *tools) recommend(ctx context.Context, _ *sdkmcp.CallToolRequest, in recommendInput) (*sdkmcp.CallToolResult, any, error) {
	gender := profile.Gender(in.Gender)
	if gender != profile.GenderMale && gender != profile.GenderFemale {
		return t.fail("recommend_calories", &nutrition.ValidationError{Field: "gender", Reason: "must be male or female"})
	}
	level := profile.ActivityLevel(in.Activity)
	if level == "" {
		level = profile.ActivityModerate
	}
	p, err := t.svcs.Profiles.Get(ctx, userID(ctx))
	if err != nil {
		return t.fail("recommend_calories", err)
	}
	kcal, err := profile.Recommended(*p, gender, level)
	if err != nil {
		return t.fail("recommend_calories", err)
	}
	return jsonResult(map[string]any{"recommended_calories": kcal, "gender": gender, "activity": level})
}

func (t *tools) now() time.Time {
	if t.svcs.Now != nil {
		return t.svcs.Now()
	}
	return time.Now()
}

// fail reports err as a tool error result rather than a protocol error.
func (t *tools) fail(tool string, err error) (*sdkmcp.CallToolResult, any, error) {
	apiErr := MapError(err)
	if apiErr.Code == "INTERNAL" {
		t.logger.Error("tool failed", "tool", tool, "error", err)
	}
	data, _ := json.Marshal(apiErr)
	return &sdkmcp.CallToolResult{
		IsError: true,
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil, nil
}

func jsonResult(v any) (*sdkmcp.CallToolResult, any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, nil, err
	}
	return textResult(string(data)), nil, nil
}

func textResult(text string) *sdkmcp.CallToolResult {
	return &sdkmcp.CallToolResult{Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: text}}}
}

func parseTime(field, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, &nutrition.ValidationError{Field: field, Reason: "must be an RFC 3339 time"}
	}
	return t, nil
}
