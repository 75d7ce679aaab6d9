package progress

import "time"

// Entry is one recorded progress value for a dream, in [0, 1].
type Entry struct {
	ID         string    `json:"id"`
	DreamID    string    `json:"dream_id"`
	Progress   float64   `json:"progress"`
	Note       string    `json:"note,omitempty"`
	Source     string    `json:"source,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Page is a paginated timeline.
type Page struct {
	Entries []Entry `json:"progress_entries"`
	Total   int     `json:"total"`
}

// ListOptions narrow a timeline request. Zero values are not sent.
type ListOptions struct {
	Limit  *int
	Offset *int
	From   *time.Time
	To     *time.Time
}

// RecordRequest sets an absolute progress value.
type RecordRequest struct {
	DreamID  string  `json:"dream_id"`
	Progress float64 `json:"progress"`
	Note     string  `json:"note,omitempty"`
}

// AdjustRequest asks the server to apply a delta to the current value.
type AdjustRequest struct {
	DreamID    string  `json:"dream_id"`
	Adjustment float64 `json:"adjustment"`
	Reason     string  `json:"reason,omitempty"`
}

// AdjustResult is the server-computed outcome of an adjustment.
type AdjustResult struct {
	DreamID          string    `json:"dream_id"`
	PreviousProgress float64   `json:"previous_progress"`
	NewProgress      float64   `json:"new_progress"`
	AdjustedAt       time.Time `json:"adjusted_at"`
}
