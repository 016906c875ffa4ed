package transport

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rpggio/nutrilog/internal/aggregate"
	"github.com/rpggio/nutrilog/internal/auth"
	"github.com/rpggio/nutrilog/internal/domain/calendar"
	"github.com/rpggio/nutrilog/internal/domain/nutrition"
	"github.com/rpggio/nutrilog/internal/domain/profile"
)

func (s *Server) handleWeekly(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.withUser(w, r)
	if !ok {
		return
	}
	days, err := queryInt(r, "days")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	series, err := s.svcs.Analytics.Daily(r.Context(), uid, days, aggregate.ParseOrder(r.URL.Query().Get("order")))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) handleMacros(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.withUser(w, r)
	if !ok {
		return
	}
	days, err := queryInt(r, "days")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	m, err := s.svcs.Analytics.Macros(r.Context(), uid, days)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.withUser(w, r)
	if !ok {
		return
	}
	sess, _ := auth.FromContext(r.Context())
	p, err := s.svcs.Profiles.Ensure(r.Context(), uid, sess.Email, "")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.withUser(w, r)
	if !ok {
		return
	}
	var patch profile.Patch
	if err := decodeJSON(r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.svcs.Profiles.Update(r.Context(), uid, patch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleRecommendation(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.withUser(w, r)
	if !ok {
		return
	}
	p, err := s.svcs.Profiles.Get(r.Context(), uid)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	q := r.URL.Query()
	gender := profile.Gender(q.Get("gender"))
	if gender != profile.GenderMale && gender != profile.GenderFemale {
		s.fail(w, r, &nutrition.ValidationError{Field: "gender", Reason: "must be male or female"})
		return
	}
	level := profile.ActivityLevel(q.Get("activity"))
	if level == "" {
		level = profile.ActivityModerate
	}
	kcal, err := profile.Recommended(*p, gender, level)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"recommended_calories": kcal,
		"gender":               gender,
		"activity":             level,
	})
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, &nutrition.ValidationError{Field: key, Reason: "must be a non-negative integer"}
	}
	return n, nil
}

// parseRange reads from/to query dates (YYYY-MM-DD or RFC 3339). Date-only
// bounds cover whole local days; missing bounds default to the last week.
func parseRange(r *http.Request, now calendar.Clock) (time.Time, time.Time, error) {
	if now == nil {
		now = time.Now
	}
	from, to := calendar.LastDays(now(), 7)
	q := r.URL.Query()
	if raw := q.Get("from"); raw != "" {
		t, err := parseBound(raw, "from")
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = t
		if len(raw) == len(time.DateOnly) {
			from = calendar.DayStart(t)
		}
	}
	if raw := q.Get("to"); raw != "" {
		t, err := parseBound(raw, "to")
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = t
		if len(raw) == len(time.DateOnly) {
			to = calendar.DayEnd(t)
		}
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, &nutrition.ValidationError{Field: "to", Reason: "must not be before from"}
	}
	return from, to, nil
}

func parseBound(raw, field string) (time.Time, error) {
	if t, err := time.ParseInLocation(time.DateOnly, raw, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, &nutrition.ValidationError{Field: field, Reason: "must be a date (YYYY-MM-DD) or RFC 3339 time"}
}
