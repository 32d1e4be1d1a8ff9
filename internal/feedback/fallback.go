package feedback

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devfolio/portfolio-backend/internal/models"
)

// Data modes. Every listing and stats response names the mode it was
// served in so a degraded backend is never mistaken for live data.
const (
	ModeLive     = "live"
	ModeFallback = "fallback"
)

// fallbackComments is the sample payload served when the store is
// unreachable. The content is generic on purpose; it only keeps the
// public widgets from rendering empty.
func fallbackComments() []models.Comment {
	now := time.Now().UTC()
	return []models.Comment{
		{
			ID:        primitive.NewObjectID(),
			CreatedAt: now.Add(-48 * time.Hour),
			Author:    "Sample Visitor",
			Content:   "Great portfolio, the projects section is really well organized!",
			Rating:    5,
			Type:      "feedback",
			Likes:     4,
			Approved:  true,
		},
		{
			ID:          primitive.NewObjectID(),
			CreatedAt:   now.Add(-5 * 24 * time.Hour),
			Author:      models.AnonymousAuthor,
			IsAnonymous: true,
			Content:     "Clean design and loads fast. Would love a dark mode toggle.",
			Rating:      4,
			Type:        "general",
			Likes:       2,
			Approved:    true,
		},
	}
}

func fallbackSuggestions() []models.FeatureSuggestion {
	now := time.Now().UTC()
	return []models.FeatureSuggestion{
		{
			ID:          primitive.NewObjectID(),
			CreatedAt:   now.Add(-72 * time.Hour),
			Title:       "Add a blog section",
			Description: "Short write-ups about how the projects were built would be interesting.",
			Author:      "Sample Visitor",
			Votes:       7,
			Status:      models.StatusPending,
			Approved:    true,
		},
	}
}

func fallbackStats() models.FeedbackStats {
	return models.FeedbackStats{
		TotalComments:    2,
		TotalSuggestions: 1,
		TotalLikes:       6,
		RecentActivity:   1,
		AverageRating:    4.5,
	}
}
