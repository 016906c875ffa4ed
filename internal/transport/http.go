package transport

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rpggio/nutrilog/internal/app"
)

// Server wires HTTP handlers to the application services.
type Server struct {
	svcs   *app.Services
	logger *slog.Logger
}

// NewServer creates an HTTP router. Everything except /health sits behind
// authMiddleware; mcpHandler, when non-nil, is mounted at /mcp.
func NewServer(svcs *app.Services, authMiddleware func(http.Handler) http.Handler, mcpHandler http.Handler, logger *slog.Logger) *chi.Mux {
	if logger == nil {
		logger = slog.Default()
	}
	srv := &Server{svcs: svcs, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", srv.handleHealth)

	r.Group(func(r chi.Router) {
		if authMiddleware != nil {
			r.Use(authMiddleware)
		}

		if mcpHandler != nil {
			r.Handle("/mcp", mcpHandler)
			r.Handle("/mcp/*", mcpHandler)
		}

		r.Route("/v1", func(r chi.Router) {
			r.Get("/today", srv.handleToday)

			r.Route("/meals", func(r chi.Router) {
				r.Post("/", srv.handleLogMeal)
				r.Get("/", srv.handleListMeals)
				r.Delete("/", srv.handleClearMeals)
				r.Patch("/{id}", srv.handleUpdateMeal)
				r.Delete("/{id}", srv.handleDeleteMeal)
			})

			r.Route("/workouts", func(r chi.Router) {
				r.Post("/", srv.handleLogWorkout)
				r.Get("/", srv.handleListWorkouts)
				r.Patch("/{id}", srv.handleUpdateWorkout)
				r.Delete("/{id}", srv.handleDeleteWorkout)
			})

			r.Route("/foods", func(r chi.Router) {
				r.Post("/", srv.handleSaveFood)
				r.Get("/search", srv.handleSearchFoods)
				r.Get("/resolve", srv.handleResolveFood)
				r.Post("/recognize", srv.handleRecognizeFood)
			})

			r.Get("/analytics/weekly", srv.handleWeekly)
			r.Get("/analytics/macros", srv.handleMacros)

			r.Get("/profile", srv.handleGetProfile)
			r.Patch("/profile", srv.handleUpdateProfile)
			r.Get("/profile/recommendation", srv.handleRecommendation)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// withUser resolves the signed-in user or answers 401.
func (s *Server) withUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	uid, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, ErrUnauthorized.Error())
	}
	return uid, ok
}

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.withUser(w, r)
	if !ok {
		return
	}
	load := s.svcs.LoadToday
	if cached, _ := strconv.ParseBool(r.URL.Query().Get("cached")); cached {
		load = s.svcs.Today
	}
	today, err := load(r.Context(), uid)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, today)
}
