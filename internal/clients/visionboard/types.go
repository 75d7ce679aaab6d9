package visionboard

import "time"

// Item is one card pinned to the vision board.
type Item struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Status      string    `json:"status"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ItemFilter narrows an item listing. Each tag is sent as its own parameter.
type ItemFilter struct {
	Tags   []string
	Status string
}

// HistoryEntry records a change to the board.
type HistoryEntry struct {
	ID     string    `json:"id"`
	ItemID string    `json:"item_id"`
	Action string    `json:"action"`
	Title  string    `json:"title,omitempty"`
	At     time.Time `json:"at"`
}

// HistoryPage is a paginated change log.
type HistoryPage struct {
	Entries []HistoryEntry `json:"history_entries"`
	Total   int            `json:"total"`
}

// Page selects a window of a paginated listing.
type Page struct {
	Limit  *int
	Offset *int
}

type NewItem struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Status      string   `json:"status,omitempty"`
}

// ItemUpdate changes the non-nil fields of an item.
type ItemUpdate struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Status      *string  `json:"status,omitempty"`
	Position    *int     `json:"position,omitempty"`
}
