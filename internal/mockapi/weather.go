package mockapi

import (
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dotcommander/dreamboard/internal/clients/weather"
)

// computeWeather derives a state from the dream's latest progress. ok is
// false when the dream has no history.
func (s *Server) computeWeather(dreamID string) (weather.State, bool) {
	tl := s.timeline(dreamID)
	if len(tl) == 0 {
		return weather.State{}, false
	}
	p := tl[0].Progress

	var condition, summary string
	switch {
	case p >= 0.75:
		condition, summary = "sunny", "Clear skies: you are close to the finish line."
	case p >= 0.5:
		condition, summary = "partly_cloudy", "Good momentum with a few clouds."
	case p >= 0.25:
		condition, summary = "cloudy", "Progress is slow but steady."
	default:
		condition, summary = "stormy", "This dream needs some attention."
	}

	var trend float64
	if len(tl) > 1 {
		trend = tl[0].Progress - tl[1].Progress
	}
	return weather.State{
		DreamID:     dreamID,
		Condition:   condition,
		Temperature: math.Round(p * 100),
		Summary:     summary,
		Factors: []weather.Factor{
			{Name: "progress", Impact: p},
			{Name: "trend", Impact: trend},
		},
		ComputedAt: s.now().UTC(),
	}, true
}

func (s *Server) getWeather(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dreamID := chi.URLParam(r, "dreamID")
	if st, ok := s.weather[dreamID]; ok {
		st.Cached = true
		writeJSON(w, http.StatusOK, st)
		return
	}
	s.serveComputedWeather(w, dreamID)
}

func (s *Server) refreshWeather(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serveComputedWeather(w, chi.URLParam(r, "dreamID"))
}

func (s *Server) serveComputedWeather(w http.ResponseWriter, dreamID string) {
	st, ok := s.computeWeather(dreamID)
	if !ok {
		writeJSON(w, http.StatusUnprocessableEntity, message("Not enough recent activity to compute dream weather"))
		return
	}
	s.weather[dreamID] = st
	s.weatherHistory[dreamID] = append([]weather.State{st}, s.weatherHistory[dreamID]...)
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) weatherHistoryPage(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.weatherHistory[chi.URLParam(r, "dreamID")]
	if entries == nil {
		entries = []weather.State{}
	}
	total := len(entries)
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n >= 0 && n < total {
		entries = entries[:n]
	}
	writeJSON(w, http.StatusOK, weather.HistoryPage{Entries: entries, Total: total})
}
