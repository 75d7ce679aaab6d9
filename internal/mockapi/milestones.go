package mockapi

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dotcommander/dreamboard/internal/clients/milestones"
)

func (s *Server) eventsFor(milestoneID string) []milestones.Event {
	out := []milestones.Event{}
	for _, e := range s.events {
		if e.MilestoneID == milestoneID {
			out = append(out, e)
		}
	}
	return out
}

// listEvents answers a single milestone_id with a list and milestone_ids
// with a map keyed by id.
func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	s.mu.Lock()
	defer s.mu.Unlock()

	if ids := splitList(q.Get("milestone_ids")); len(ids) > 0 {
		out := make(map[string][]milestones.Event, len(ids))
		for _, id := range ids {
			out[id] = s.eventsFor(id)
		}
		writeJSON(w, http.StatusOK, out)
		return
	}
	if id := q.Get("milestone_id"); id != "" {
		writeJSON(w, http.StatusOK, s.eventsFor(id))
		return
	}
	writeJSON(w, http.StatusBadRequest, message("milestone_id or milestone_ids is required"))
}

func (s *Server) createEvent(w http.ResponseWriter, r *http.Request) {
	var req milestones.NewEvent
	if !decode(r, &req) || req.MilestoneID == "" || req.Title == "" {
		writeJSON(w, http.StatusBadRequest, message("milestone_id and title are required"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ev := milestones.Event{
		ID:          uuid.NewString(),
		MilestoneID: req.MilestoneID,
		Kind:        req.Kind,
		Title:       req.Title,
		Description: req.Description,
		Metadata:    req.Metadata,
		OccurredAt:  s.now().UTC(),
	}
	if req.OccurredAt != nil {
		ev.OccurredAt = req.OccurredAt.UTC()
	}
	s.events = append(s.events, ev)
	writeJSON(w, http.StatusCreated, ev)
}

func (s *Server) findEvent(id string) int {
	return slices.IndexFunc(s.events, func(e milestones.Event) bool { return e.ID == id })
}

func (s *Server) updateEvent(w http.ResponseWriter, r *http.Request) {
	var upd milestones.EventUpdate
	if !decode(r, &upd) {
		writeJSON(w, http.StatusBadRequest, message("Invalid request body"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findEvent(chi.URLParam(r, "id"))
	if i < 0 {
		writeJSON(w, http.StatusNotFound, message("Event not found"))
		return
	}
	ev := &s.events[i]
	if upd.Kind != nil {
		ev.Kind = *upd.Kind
	}
	if upd.Title != nil {
		ev.Title = *upd.Title
	}
	if upd.Description != nil {
		ev.Description = *upd.Description
	}
	if upd.Metadata != nil {
		ev.Metadata = upd.Metadata
	}
	writeJSON(w, http.StatusOK, *ev)
}

func (s *Server) deleteEvent(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findEvent(chi.URLParam(r, "id"))
	if i < 0 {
		writeJSON(w, http.StatusNotFound, message("Event not found"))
		return
	}
	s.events = slices.Delete(s.events, i, i+1)
	w.WriteHeader(http.StatusNoContent)
}
