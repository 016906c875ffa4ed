package transport

import (
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rpggio/nutrilog/internal/domain/meal"
	"github.com/rpggio/nutrilog/internal/domain/nutrition"
)

type logMealRequest struct {
	Name             string     `json:"name"`
	Calories         *int       `json:"calories"`
	Protein          *int       `json:"protein"`
	Carbs            *int       `json:"carbs"`
	Fats             *int       `json:"fats"`
	Serving          string     `json:"serving"`
	MealType         string     `json:"meal_type"`
	LoggedAt         *time.Time `json:"logged_at"`
	ImageURL         string     `json:"image_url"`
	PhotoBase64      string     `json:"photo_base64"`
	PhotoContentType string     `json:"photo_content_type"`
}

// parseLogMeal accepts JSON or a url-encoded form with text fields.
func parseLogMeal(r *http.Request) (meal.LogRequest, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			return meal.LogRequest{}, &nutrition.ValidationError{Reason: "invalid form body"}
		}
		in, err := nutrition.ParseInput(
			r.PostFormValue("name"),
			r.PostFormValue("calories"),
			r.PostFormValue("protein"),
			r.PostFormValue("carbs"),
			r.PostFormValue("fats"),
		)
		if err != nil {
			return meal.LogRequest{}, err
		}
		rec, err := nutrition.NewRecord(in)
		if err != nil {
			return meal.LogRequest{}, err
		}
		return meal.LogRequest{Record: rec, MealType: r.PostFormValue("meal_type")}, nil
	}

	var body logMealRequest
	if err := decodeJSON(r, &body); err != nil {
		return meal.LogRequest{}, err
	}
	rec, err := nutrition.NewRecord(nutrition.Input{
		Name:     body.Name,
		Calories: body.Calories,
		Protein:  body.Protein,
		Carbs:    body.Carbs,
		Fats:     body.Fats,
		Serving:  body.Serving,
	})
	if err != nil {
		return meal.LogRequest{}, err
	}
	req := meal.LogRequest{Record: rec, MealType: body.MealType, ImageURL: body.ImageURL}
	if body.LoggedAt != nil {
		req.LoggedAt = *body.LoggedAt
	}
	if body.PhotoBase64 != "" {
		data, err := base64.StdEncoding.DecodeString(body.PhotoBase64)
		if err != nil {
			return meal.LogRequest{}, &nutrition.ValidationError{Field: "photo_base64", Reason: "must be base64"}
		}
		req.Photo = &meal.Photo{Data: data, ContentType: body.PhotoContentType}
	}
	return req, nil
}

func (s *Server) handleLogMeal(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.withUser(w, r)
	if !ok {
		return
	}
	req, err := parseLogMeal(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	entry, err := s.svcs.Meals.Log(r.Context(), uid, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleListMeals(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.withUser(w, r)
	if !ok {
		return
	}
	from, to, err := parseRange(r, s.svcs.Now)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	entries, err := s.svcs.Meals.History(r.Context(), uid, from, to)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if entries == nil {
		entries = []meal.Entry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"meals": entries})
}

func (s *Server) handleUpdateMeal(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.withUser(w, r)
	if !ok {
		return
	}
	var patch meal.Patch
	if err := decodeJSON(r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	entry, err := s.svcs.Meals.Update(r.Context(), uid, chi.URLParam(r, "id"), patch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleDeleteMeal(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.withUser(w, r)
	if !ok {
		return
	}
	if err := s.svcs.Meals.Delete(r.Context(), uid, chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearMeals(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.withUser(w, r)
	if !ok {
		return
	}
	if err := s.svcs.Meals.ClearToday(r.Context(), uid); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
