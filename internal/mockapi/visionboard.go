package mockapi

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dotcommander/dreamboard/internal/clients/visionboard"
)

// listItems filters by status and by tag; an item matches when it carries
// any of the requested tags.
func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tags := q["tag"]
	status := q.Get("status")

	s.mu.Lock()
	defer s.mu.Unlock()

	out := []visionboard.Item{}
	for _, it := range s.items {
		if status != "" && it.Status != status {
			continue
		}
		if len(tags) > 0 && !slices.ContainsFunc(tags, func(t string) bool { return slices.Contains(it.Tags, t) }) {
			continue
		}
		out = append(out, it)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) visionHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := slices.Clone(s.history)
	slices.Reverse(entries)
	total := len(entries)
	writeJSON(w, http.StatusOK, visionboard.HistoryPage{
		Entries: paginate(entries, q.Get("limit"), q.Get("offset")),
		Total:   total,
	})
}

func (s *Server) logHistory(it visionboard.Item, action string) {
	s.history = append(s.history, visionboard.HistoryEntry{
		ID:     uuid.NewString(),
		ItemID: it.ID,
		Action: action,
		Title:  it.Title,
		At:     s.now().UTC(),
	})
}

func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	var req visionboard.NewItem
	if !decode(r, &req) || req.Title == "" {
		writeJSON(w, http.StatusBadRequest, message("title is required"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	it := visionboard.Item{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Tags:        req.Tags,
		Status:      req.Status,
		Position:    len(s.items),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if it.Status == "" {
		it.Status = "active"
	}
	s.items = append(s.items, it)
	s.logHistory(it, "created")
	writeJSON(w, http.StatusCreated, it)
}

func (s *Server) findItem(id string) int {
	return slices.IndexFunc(s.items, func(it visionboard.Item) bool { return it.ID == id })
}

func (s *Server) updateItem(w http.ResponseWriter, r *http.Request) {
	var upd visionboard.ItemUpdate
	if !decode(r, &upd) {
		writeJSON(w, http.StatusBadRequest, message("Invalid request body"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findItem(chi.URLParam(r, "id"))
	if i < 0 {
		writeJSON(w, http.StatusNotFound, message("Item not found"))
		return
	}
	it := &s.items[i]
	if upd.Title != nil {
		it.Title = *upd.Title
	}
	if upd.Description != nil {
		it.Description = *upd.Description
	}
	if upd.ImageURL != nil {
		it.ImageURL = *upd.ImageURL
	}
	if upd.Tags != nil {
		it.Tags = upd.Tags
	}
	if upd.Status != nil {
		it.Status = *upd.Status
	}
	if upd.Position != nil {
		it.Position = *upd.Position
	}
	it.UpdatedAt = s.now().UTC()
	s.logHistory(*it, "updated")
	writeJSON(w, http.StatusOK, *it)
}

func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findItem(chi.URLParam(r, "id"))
	if i < 0 {
		writeJSON(w, http.StatusNotFound, message("Item not found"))
		return
	}
	it := s.items[i]
	s.items = slices.Delete(s.items, i, i+1)
	s.logHistory(it, "deleted")
	w.WriteHeader(http.StatusNoContent)
}
