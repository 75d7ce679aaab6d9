package mockapi

import (
	"math"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dotcommander/dreamboard/internal/clients/progress"
)

// timeline returns a dream's entries newest first.
func (s *Server) timeline(dreamID string) []progress.Entry {
	var out []progress.Entry
	for _, e := range s.progress {
		if e.DreamID == dreamID {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, func(a, b progress.Entry) int {
		return b.RecordedAt.Compare(a.RecordedAt)
	})
	return out
}

func (s *Server) listProgress(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dreamID := q.Get("dream_id")
	if dreamID == "" {
		writeJSON(w, http.StatusBadRequest, message("dream_id is required"))
		return
	}
	from, errFrom := parseOptionalTime(q.Get("from"))
	to, errTo := parseOptionalTime(q.Get("to"))
	if errFrom != nil || errTo != nil {
		writeJSON(w, http.StatusBadRequest, message("from and to must be RFC 3339 timestamps"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := []progress.Entry{}
	for _, e := range s.timeline(dreamID) {
		if (!from.IsZero() && e.RecordedAt.Before(from)) || (!to.IsZero() && e.RecordedAt.After(to)) {
			continue
		}
		entries = append(entries, e)
	}
	total := len(entries)
	entries = paginate(entries, q.Get("limit"), q.Get("offset"))

	writeJSON(w, http.StatusOK, progress.Page{Entries: entries, Total: total})
}

func (s *Server) latestProgress(w http.ResponseWriter, r *http.Request) {
	dreamID := r.URL.Query().Get("dream_id")
	if dreamID == "" {
		writeJSON(w, http.StatusBadRequest, message("dream_id is required"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tl := s.timeline(dreamID)
	if len(tl) == 0 {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, tl[0])
}

func (s *Server) recordProgress(w http.ResponseWriter, r *http.Request) {
	var req progress.RecordRequest
	if !decode(r, &req) || req.DreamID == "" {
		writeJSON(w, http.StatusBadRequest, message("dream_id and progress are required"))
		return
	}
	if req.Progress < 0 || req.Progress > 1 {
		writeJSON(w, http.StatusUnprocessableEntity, message("progress must be between 0 and 1"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.appendProgress(req.DreamID, req.Progress, req.Note, "manual")
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) adjustProgress(w http.ResponseWriter, r *http.Request) {
	var req progress.AdjustRequest
	if !decode(r, &req) || req.DreamID == "" {
		writeJSON(w, http.StatusBadRequest, message("dream_id and adjustment are required"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var previous float64
	if tl := s.timeline(req.DreamID); len(tl) > 0 {
		previous = tl[0].Progress
	}
	next := math.Min(1, math.Max(0, previous+req.Adjustment))
	e := s.appendProgress(req.DreamID, next, req.Reason, "adjustment")

	writeJSON(w, http.StatusOK, progress.AdjustResult{
		DreamID:          req.DreamID,
		PreviousProgress: previous,
		NewProgress:      next,
		AdjustedAt:       e.RecordedAt,
	})
}

func (s *Server) appendProgress(dreamID string, value float64, note, source string) progress.Entry {
	at := s.now().UTC()
	if tl := s.timeline(dreamID); len(tl) > 0 && !at.After(tl[0].RecordedAt) {
		at = tl[0].RecordedAt.Add(time.Second)
	}
	e := progress.Entry{
		ID:         uuid.NewString(),
		DreamID:    dreamID,
		Progress:   value,
		Note:       note,
		Source:     source,
		RecordedAt: at,
	}
	s.progress = append(s.progress, e)
	return e
}

func (s *Server) deleteProgress(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := chi.URLParam(r, "id")
	i := slices.IndexFunc(s.progress, func(e progress.Entry) bool { return e.ID == id })
	if i < 0 {
		writeJSON(w, http.StatusNotFound, message("Progress entry not found"))
		return
	}
	s.progress = slices.Delete(s.progress, i, i+1)
	w.WriteHeader(http.StatusNoContent)
}

func parseOptionalTime(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, v)
}

// paginate applies limit/offset query values; invalid values are ignored.
func paginate[T any](items []T, limit, offset string) []T {
	off, _ := strconv.Atoi(offset)
	off = max(off, 0)
	if off >= len(items) {
		return []T{}
	}
	items = items[off:]
	if n, err := strconv.Atoi(limit); err == nil && n >= 0 && n < len(items) {
		items = items[:n]
	}
	return items
}
