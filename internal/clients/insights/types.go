package insights

import "time"

// Insight is one generated observation about the user's activity.
type Insight struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Category    string    `json:"category"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Confidence  float64   `json:"confidence"`
	Actionable  bool      `json:"actionable"`
	ActionItems []string  `json:"action_items,omitempty"`
	Dismissed   bool      `json:"dismissed,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// DataQuality describes how much history the insights were generated from.
type DataQuality struct {
	Score  float64  `json:"score"`
	Issues []string `json:"issues,omitempty"`
}

// Metadata accompanies a list response. UI uses CacheHit and
// DataQuality.Score to decide whether to show a freshness indicator.
type Metadata struct {
	CacheHit       bool        `json:"cacheHit"`
	DataQuality    DataQuality `json:"dataQuality"`
	TotalGenerated int         `json:"totalGenerated"`
	GeneratedAt    *time.Time  `json:"generatedAt,omitempty"`
}

// Page is the data section of a list response.
type Page struct {
	Insights []Insight `json:"insights"`
	Metadata Metadata  `json:"metadata"`
}

// Options filter a list request. Zero values are not sent.
type Options struct {
	Types         []string
	Categories    []string
	TimeRange     string
	MinConfidence *float64
	MaxResults    *int
	// ForceRefresh asks the server to bypass its cache.
	ForceRefresh bool
}

// Feedback is the user's rating of an insight.
type Feedback struct {
	Helpful bool   `json:"helpful"`
	Comment string `json:"comment,omitempty"`
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

type single struct {
	Insight Insight `json:"insight"`
}
