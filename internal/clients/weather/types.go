package weather

import "time"

// Factor is one input to the derived weather state.
type Factor struct {
	Name   string  `json:"name"`
	Impact float64 `json:"impact"`
}

// State is the server-derived "weather" of a dream: a summary of recent
// momentum expressed as a condition such as sunny or stormy.
type State struct {
	DreamID     string    `json:"dream_id"`
	Condition   string    `json:"condition"`
	Temperature float64   `json:"temperature"`
	Summary     string    `json:"summary"`
	Factors     []Factor  `json:"factors,omitempty"`
	Cached      bool      `json:"cached"`
	ComputedAt  time.Time `json:"computed_at"`
}

// HistoryPage lists past computations, newest first.
type HistoryPage struct {
	Entries []State `json:"weather_entries"`
	Total   int     `json:"total"`
}
