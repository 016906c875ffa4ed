package mcp

import (
	"context"
	"encoding/json"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/nutrilog/internal/aggregate"
	"github.com/rpggio/nutrilog/internal/app"
	"github.com/rpggio/nutrilog/internal/auth"
	"github.com/rpggio/nutrilog/internal/domain/analytics"
	"github.com/rpggio/nutrilog/internal/domain/meal"
	"github.com/rpggio/nutrilog/internal/domain/profile"
	"github.com/rpggio/nutrilog/internal/domain/workout"
	"github.com/rpggio/nutrilog/internal/food"
	"github.com/rpggio/nutrilog/internal/sqlite"
)

type stubRecognizer struct {
	tags []food.Tag
}

func (s stubRecognizer) Recognize(context.Context, []byte) ([]food.Tag, error) {
	return s.tags, nil
}

func newTestServices(t *testing.T) *app.Services {
	t.Helper()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { _ = db.Close() })

	book := aggregate.NewBook()
	meals := meal.NewService(sqlite.NewMealRepository(db), book, nil, nil)
	workouts := workout.NewService(sqlite.NewWorkoutRepository(db), book, nil)
	recognizer := stubRecognizer{tags: []food.Tag{{Name: "banana", Confidence: 88}}}
	return &app.Services{
		Meals:     meals,
		Workouts:  workouts,
		Profiles:  profile.NewService(sqlite.NewProfileRepository(db), nil),
		Analytics: analytics.NewService(sqlite.NewMealRepository(db), sqlite.NewWorkoutRepository(db), nil),
		Foods:     food.NewResolver(nil, nil, recognizer, nil, food.DefaultConfig(), nil),
		Book:      book,
	}
}

func connect(t *testing.T, cfg Config) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	server := NewServer(cfg)

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func callTool(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any) (*sdkmcp.CallToolResult, string) {
	t.Helper()
	result, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err, "tools/call %s", name)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	return result, text.Text
}

func stdioSession(t *testing.T) *sdkmcp.ClientSession {
	return connect(t, Config{
		Services:      newTestServices(t),
		Session:       auth.Session{UserID: "user1", Email: "a@b.c"},
		TransportMode: "stdio",
	})
}

func TestServerInfoAndTools(t *testing.T) {
	session := stdioSession(t)

	initResult := session.InitializeResult()
	require.NotNil(t, initResult)
	require.Equal(t, "nutrilog", initResult.ServerInfo.Name)
	require.Equal(t, Version, initResult.ServerInfo.Version)

	tools, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"ping", "log_meal", "today_summary", "search_food", "recognize_food", "weekly_summary", "update_profile"} {
		assert.True(t, names[want], "missing tool %s", want)
	}

	_, text := callTool(t, session, "ping", nil)
	assert.Equal(t, "pong", text)
}

func TestMealTools(t *testing.T) {
	session := stdioSession(t)

	result, text := callTool(t, session, "log_meal", map[string]any{
		"name": "Porridge", "calories": 320, "protein": 12, "meal_type": "breakfast",
	})
	require.False(t, result.IsError, text)
	var entry meal.Entry
	require.NoError(t, json.Unmarshal([]byte(text), &entry))
	require.NotEmpty(t, entry.ID)

	result, text = callTool(t, session, "log_food", map[string]any{"food": "apple", "meal_type": "snack"})
	require.False(t, result.IsError, text)

	_, text = callTool(t, session, "today_summary", nil)
	var today app.Today
	require.NoError(t, json.Unmarshal([]byte(text), &today))
	assert.Equal(t, 320+52, today.Totals.Calories)
	assert.Equal(t, 2, today.Totals.Meals)

	result, text = callTool(t, session, "update_meal", map[string]any{"id": entry.ID, "calories": 300})
	require.False(t, result.IsError, text)

	result, text = callTool(t, session, "delete_meal", map[string]any{"id": entry.ID})
	require.False(t, result.IsError, text)

	_, text = callTool(t, session, "today_summary", map[string]any{"refresh": true})
	require.NoError(t, json.Unmarshal([]byte(text), &today))
	assert.Equal(t, 52, today.Totals.Calories)

	result, _ = callTool(t, session, "clear_meals", nil)
	require.False(t, result.IsError)

	_, text = callTool(t, session, "meal_history", map[string]any{"days": 1})
	assert.JSONEq(t, `{"meals":[]}`, text)
}

func TestToolErrors(t *testing.T) {
	session := stdioSession(t)

	tests := []struct {
		name string
		tool string
		args map[string]any
		code string
	}{
		{"missing calories", "log_meal", map[string]any{"name": "Toast"}, "INVALID_INPUT"},
		{"unknown meal", "update_meal", map[string]any{"id": "nope", "calories": 10}, "MEAL_NOT_FOUND"},
		{"empty patch", "update_meal", map[string]any{"id": "nope"}, "INVALID_INPUT"},
		{"zero duration", "log_workout", map[string]any{"name": "Run", "duration": 0}, "INVALID_INPUT"},
		{"blank food", "resolve_food", map[string]any{"name": " "}, "INVALID_INPUT"},
		{"bad image", "recognize_food", map[string]any{"image_base64": "%%%"}, "INVALID_INPUT"},
		{"no catalog", "save_food", map[string]any{"name": "Pie", "calories": 300}, "NOT_CONFIGURED"},
		{"no profile", "recommend_calories", map[string]any{"gender": "male"}, "NOT_FOUND"},
		{"window too long", "weekly_summary", map[string]any{"days": 100000}, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, text := callTool(t, session, tt.tool, tt.args)
			require.True(t, result.IsError, text)
			var apiErr APIError
			require.NoError(t, json.Unmarshal([]byte(text), &apiErr))
			assert.Equal(t, tt.code, apiErr.Code)
		})
	}
}

func TestWorkoutAndProfileTools(t *testing.T) {
	session := stdioSession(t)

	result, text := callTool(t, session, "log_workout", map[string]any{
		"name": "Cycling", "duration": 45, "calories_burned": 400, "workout_type": "cardio",
	})
	require.False(t, result.IsError, text)
	var w workout.Entry
	require.NoError(t, json.Unmarshal([]byte(text), &w))

	result, text = callTool(t, session, "update_workout", map[string]any{"id": w.ID, "calories_burned": 420})
	require.False(t, result.IsError, text)

	_, text = callTool(t, session, "weekly_summary", map[string]any{"days": 3, "order": "desc"})
	var series analytics.Series
	require.NoError(t, json.Unmarshal([]byte(text), &series))
	require.Len(t, series.Days, 3)
	assert.Equal(t, 420, series.Days[0].Burned)

	result, text = callTool(t, session, "delete_workout", map[string]any{"id": w.ID})
	require.False(t, result.IsError, text)

	_, text = callTool(t, session, "get_profile", nil)
	var p profile.Profile
	require.NoError(t, json.Unmarshal([]byte(text), &p))
	assert.Equal(t, "user1", p.ID)
	assert.Equal(t, profile.DefaultCalorieGoal, p.CalorieGoal)

	result, text = callTool(t, session, "recommend_calories", map[string]any{"gender": "female"})
	require.True(t, result.IsError)
	assert.Contains(t, text, "MISSING_METRICS")

	result, text = callTool(t, session, "update_profile", map[string]any{"weight": 60.0, "height": 165.0, "age": 28})
	require.False(t, result.IsError, text)

	result, text = callTool(t, session, "recommend_calories", map[string]any{"gender": "female", "activity": "light"})
	require.False(t, result.IsError, text)
	assert.Contains(t, text, "recommended_calories")
}

func TestFoodTools(t *testing.T) {
	session := stdioSession(t)

	_, text := callTool(t, session, "search_food", map[string]any{"query": "rice"})
	var search struct {
		Results []food.Candidate `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &search))
	require.NotEmpty(t, search.Results)
	assert.Equal(t, food.OriginLocal, search.Results[0].Origin)

	result, text := callTool(t, session, "recognize_food", map[string]any{"image_base64": "aW1n"})
	require.False(t, result.IsError, text)
	assert.Contains(t, text, "Banana")
}

func TestResources(t *testing.T) {
	session := stdioSession(t)
	res, err := session.ReadResource(context.Background(), &sdkmcp.ReadResourceParams{URI: "nutrilog://foods/reference"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Contains(t, res.Contents[0].Text, "| Apple |")
}

type fixedParser struct{}

func (fixedParser) Parse(token string) (auth.Session, error) {
	if token != "good" {
		return auth.Session{}, auth.ErrInvalidToken
	}
	return auth.Session{UserID: "user1"}, nil
}

func TestHTTPModeRequiresToken(t *testing.T) {
	session := connect(t, Config{
		Services:      newTestServices(t),
		Tokens:        fixedParser{},
		TransportMode: "http",
	})

	// In-memory requests carry no headers.
	_, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: "ping"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unauthorized")
}

func TestMapError(t *testing.T) {
	assert.Nil(t, MapError(nil))
	assert.Equal(t, "INTERNAL", MapError(assert.AnError).Code)
	assert.Equal(t, "MEAL_NOT_FOUND", MapError(meal.ErrMealNotFound).Code)
	assert.Equal(t, "RECOGNITION_FAILED", MapError(food.ErrRecognitionFailed).Code)
	assert.Equal(t, "UNAUTHORIZED", MapError(auth.ErrNoSession).Code)
}
