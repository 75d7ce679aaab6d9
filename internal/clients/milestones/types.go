package milestones

import "time"

// Event is something that happened on the way to a milestone.
type Event struct {
	ID          string         `json:"id"`
	MilestoneID string         `json:"milestone_id"`
	Kind        string         `json:"kind"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	OccurredAt  time.Time      `json:"occurred_at"`
}

// EventSet is a lookup result in the form the server chose: a flat list for
// a single milestone, or a map keyed by milestone id for a batch. The two
// forms are not normalized into each other.
type EventSet struct {
	Batched     bool               `json:"batched"`
	Events      []Event            `json:"events,omitempty"`
	ByMilestone map[string][]Event `json:"by_milestone,omitempty"`
}

// NewEvent creates an event.
type NewEvent struct {
	MilestoneID string         `json:"milestone_id"`
	Kind        string         `json:"kind"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	OccurredAt  *time.Time     `json:"occurred_at,omitempty"`
}

// EventUpdate changes the non-nil fields of an event.
type EventUpdate struct {
	Kind        *string        `json:"kind,omitempty"`
	Title       *string        `json:"title,omitempty"`
	Description *string        `json:"description,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}
