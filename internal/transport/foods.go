package transport

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/rpggio/nutrilog/internal/domain/nutrition"
	"github.com/rpggio/nutrilog/internal/food"
)

var errNoCatalog = errors.New("food catalog not configured")

func (s *Server) handleSearchFoods(w http.ResponseWriter, r *http.Request) {
	results := s.svcs.Foods.SearchByName(r.Context(), r.URL.Query().Get("q"))
	if results == nil {
		results = []food.Candidate{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (s *Server) handleResolveFood(w http.ResponseWriter, r *http.Request) {
	c, err := s.svcs.Foods.ResolveByName(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type recognizeRequest struct {
	ImageBase64 string `json:"image_base64"`
}

// handleRecognizeFood takes raw image bytes, or JSON with image_base64.
func (s *Server) handleRecognizeFood(w http.ResponseWriter, r *http.Request) {
	var image []byte
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body recognizeRequest
		if err := decodeJSON(r, &body); err != nil {
			s.fail(w, r, err)
			return
		}
		data, err := base64.StdEncoding.DecodeString(body.ImageBase64)
		if err != nil {
			s.fail(w, r, &nutrition.ValidationError{Field: "image_base64", Reason: "must be base64"})
			return
		}
		image = data
	} else {
		data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			s.fail(w, r, err)
			return
		}
		image = data
	}
	if len(image) == 0 {
		s.fail(w, r, &nutrition.ValidationError{Field: "image", Reason: "is required"})
		return
	}

	candidates, err := s.svcs.Foods.RecognizeImage(r.Context(), image)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"candidates": candidates})
}

type saveFoodRequest struct {
	Name     string `json:"name"`
	Calories *int   `json:"calories"`
	Protein  *int   `json:"protein"`
	Carbs    *int   `json:"carbs"`
	Fats     *int   `json:"fats"`
	Serving  string `json:"serving"`
	Brand    string `json:"brand"`
	Category string `json:"category"`
}

func (s *Server) handleSaveFood(w http.ResponseWriter, r *http.Request) {
	if s.svcs.Catalog == nil {
		writeError(w, http.StatusNotImplemented, errNoCatalog.Error())
		return
	}
	var body saveFoodRequest
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
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
		s.fail(w, r, err)
		return
	}
	c := food.Candidate{Record: rec, Origin: food.OriginExternal, Brand: body.Brand, Category: body.Category}
	if err := s.svcs.Catalog.Save(r.Context(), c); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}
