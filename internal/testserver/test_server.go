// Package testserver runs the full HTTP stack over in-memory sqlite for
// functional tests.
package testserver

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/nutrilog/internal/aggregate"
	"github.com/rpggio/nutrilog/internal/app"
	"github.com/rpggio/nutrilog/internal/auth"
	"github.com/rpggio/nutrilog/internal/domain/analytics"
	"github.com/rpggio/nutrilog/internal/domain/meal"
	"github.com/rpggio/nutrilog/internal/domain/profile"
	"github.com/rpggio/nutrilog/internal/domain/workout"
	"github.com/rpggio/nutrilog/internal/food"
	"github.com/rpggio/nutrilog/internal/mcp"
	"github.com/rpggio/nutrilog/internal/sqlite"
	"github.com/rpggio/nutrilog/internal/transport"
)

const secret = "functional-test-secret"

type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Services *app.Services
}

// New starts a server whose bearer tokens are HS256 JWTs signed with a
// fixed test secret. recognizer may be nil.
func New(t *testing.T, recognizer food.Recognizer) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	book := aggregate.NewBook()
	meals := meal.NewService(sqlite.NewMealRepository(db), book, nil, nil)
	workouts := workout.NewService(sqlite.NewWorkoutRepository(db), book, nil)
	catalog := sqlite.NewFoodCatalog(db, 5)
	svcs := &app.Services{
		Meals:     meals,
		Workouts:  workouts,
		Profiles:  profile.NewService(sqlite.NewProfileRepository(db), nil),
		Analytics: analytics.NewService(sqlite.NewMealRepository(db), sqlite.NewWorkoutRepository(db), nil),
		Foods:     food.NewResolver(nil, catalog, recognizer, nil, food.DefaultConfig(), nil),
		Catalog:   catalog,
		Book:      book,
		Now:       time.Now,
	}

	verifier := auth.NewVerifier(secret)
	mcpServer := mcp.NewServer(mcp.Config{
		Services:      svcs,
		Tokens:        verifier,
		TransportMode: "http",
	})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: time.Minute},
	)

	server := httptest.NewServer(transport.NewServer(svcs, transport.AuthMiddleware(verifier), mcpHandler, nil))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return &TestServer{Server: server, DB: db, Services: svcs}
}

// Token mints a bearer token for userID valid for an hour.
func (ts *TestServer) Token(t *testing.T, userID, email string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}
