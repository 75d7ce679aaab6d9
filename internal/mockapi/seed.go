package mockapi

import (
	"fmt"
	"time"

	"github.com/dotcommander/dreamboard/internal/clients/insights"
	"github.com/dotcommander/dreamboard/internal/clients/milestones"
	"github.com/dotcommander/dreamboard/internal/clients/progress"
	"github.com/dotcommander/dreamboard/internal/clients/visionboard"
)

// SeedTime anchors every seeded timestamp.
var SeedTime = time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)

// Seeded dream d1 has progress 0.2, 0.3 and 0.4 on consecutive days; dream
// d2 has no history.
func (s *Server) seed() {
	day := 24 * time.Hour

	s.insights = []insights.Insight{
		{ID: "ins-1", Type: "pattern", Category: "consistency", Title: "Mornings work best",
			Description: "Most progress is logged before noon.", Confidence: 0.82, Actionable: true,
			ActionItems: []string{"Block 30 minutes each morning"}, CreatedAt: SeedTime},
		{ID: "ins-2", Type: "trend", Category: "momentum", Title: "Steady climb",
			Description: "Progress on your top dream rose three days in a row.", Confidence: 0.67, CreatedAt: SeedTime},
		{ID: "ins-3", Type: "suggestion", Category: "balance", Title: "One dream is idle",
			Description: "A dream has had no updates for two weeks.", Confidence: 0.41, Actionable: true, CreatedAt: SeedTime},
	}

	for i, v := range []float64{0.2, 0.3, 0.4} {
		s.progress = append(s.progress, progress.Entry{
			ID:         fmt.Sprintf("p-%d", i+1),
			DreamID:    "d1",
			Progress:   v,
			Source:     "manual",
			RecordedAt: SeedTime.Add(time.Duration(i) * day),
		})
	}

	s.events = []milestones.Event{
		{ID: "ev-1", MilestoneID: "m1", Kind: "started", Title: "Kicked off", OccurredAt: SeedTime},
		{ID: "ev-2", MilestoneID: "m1", Kind: "checkpoint", Title: "Halfway there", OccurredAt: SeedTime.Add(3 * day)},
		{ID: "ev-3", MilestoneID: "m2", Kind: "started", Title: "First draft", OccurredAt: SeedTime.Add(day)},
	}

	s.items = []visionboard.Item{
		{ID: "vb-1", Title: "Run a marathon", Tags: []string{"health", "running"}, Status: "active",
			Position: 0, CreatedAt: SeedTime, UpdatedAt: SeedTime},
		{ID: "vb-2", Title: "Learn Portuguese", Tags: []string{"learning"}, Status: "active",
			Position: 1, CreatedAt: SeedTime, UpdatedAt: SeedTime},
		{ID: "vb-3", Title: "Visit Lisbon", Tags: []string{"travel", "learning"}, Status: "achieved",
			Position: 2, CreatedAt: SeedTime, UpdatedAt: SeedTime},
	}
	for _, it := range s.items {
		s.history = append(s.history, visionboard.HistoryEntry{
			ID: "h-" + it.ID, ItemID: it.ID, Action: "created", Title: it.Title, At: it.CreatedAt,
		})
	}
}
