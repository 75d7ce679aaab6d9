package insights

import "time"

// WelcomePage is served to users without enough history for real insights.
func WelcomePage() Page {
	now := time.Now().UTC()
	return Page{
		Insights: []Insight{
			{
				ID:          "welcome-1",
				Type:        "onboarding",
				Category:    "getting-started",
				Title:       "Welcome to your growth dashboard",
				Description: "Insights appear here once you have logged a few days of progress on your dreams.",
				Confidence:  1,
				Actionable:  true,
				ActionItems: []string{"Create your first dream", "Log today's progress"},
				CreatedAt:   now,
			},
			{
				ID:          "welcome-2",
				Type:        "onboarding",
				Category:    "getting-started",
				Title:       "Small steps add up",
				Description: "Checking in regularly gives us the patterns we need to tailor suggestions to you.",
				Confidence:  1,
				Actionable:  true,
				ActionItems: []string{"Set a daily reminder"},
				CreatedAt:   now,
			},
		},
		Metadata: Metadata{TotalGenerated: 0},
	}
}
