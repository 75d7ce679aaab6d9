package mockapi

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dotcommander/dreamboard/internal/clients/insights"
)

func (s *Server) listInsights(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.insufficientInsights {
		writeJSON(w, http.StatusUnprocessableEntity, envelope{
			Message: "At least seven days of activity are needed to generate insights",
		})
		return
	}

	q := r.URL.Query()
	cacheHit := s.insightsServed && q.Get("forceRefresh") != "true"
	s.insightsServed = true

	types := splitList(q.Get("types"))
	categories := splitList(q.Get("categories"))
	minConfidence, _ := strconv.ParseFloat(q.Get("minConfidence"), 64)
	maxResults, _ := strconv.Atoi(q.Get("maxResults"))

	out := []insights.Insight{}
	for _, in := range s.insights {
		switch {
		case in.Dismissed:
		case len(types) > 0 && !slices.Contains(types, in.Type):
		case len(categories) > 0 && !slices.Contains(categories, in.Category):
		case in.Confidence < minConfidence:
		default:
			out = append(out, in)
		}
	}
	if maxResults > 0 && len(out) > maxResults {
		out = out[:maxResults]
	}

	generated := s.now().UTC()
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: insights.Page{
		Insights: out,
		Metadata: insights.Metadata{
			CacheHit:       cacheHit,
			DataQuality:    insights.DataQuality{Score: 0.8},
			TotalGenerated: len(s.insights),
			GeneratedAt:    &generated,
		},
	}})
}

func (s *Server) findInsight(id string) int {
	return slices.IndexFunc(s.insights, func(in insights.Insight) bool { return in.ID == id })
}

func (s *Server) getInsight(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findInsight(chi.URLParam(r, "id"))
	if i < 0 {
		writeJSON(w, http.StatusNotFound, envelope{Message: "Insight not found"})
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: map[string]any{"insight": s.insights[i]}})
}

func (s *Server) patchInsight(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Dismissed *bool `json:"dismissed"`
	}
	if !decode(r, &req) {
		writeJSON(w, http.StatusBadRequest, envelope{Message: "Invalid request body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findInsight(chi.URLParam(r, "id"))
	if i < 0 {
		writeJSON(w, http.StatusNotFound, envelope{Message: "Insight not found"})
		return
	}
	if req.Dismissed != nil {
		s.insights[i].Dismissed = *req.Dismissed
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: map[string]any{"insight": s.insights[i]}})
}

func (s *Server) insightFeedback(w http.ResponseWriter, r *http.Request) {
	var fb insights.Feedback
	if !decode(r, &fb) {
		writeJSON(w, http.StatusBadRequest, envelope{Message: "Invalid request body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := chi.URLParam(r, "id")
	if s.findInsight(id) < 0 {
		writeJSON(w, http.StatusNotFound, envelope{Message: "Insight not found"})
		return
	}
	s.feedback[id] = append(s.feedback[id], fb)
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: map[string]any{}})
}

// Feedback returns the feedback recorded for an insight.
func (s *Server) Feedback(id string) []insights.Feedback {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.feedback[id])
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	return strings.Split(v, ",")
}
