package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Suggestion statuses. Only these four values are accepted by the
// admin status update.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusRejected   = "rejected"
)

// ValidStatus reports whether s is one of the enumerated statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

// FeatureSuggestion is a visitor-submitted feature request.
// Status, Priority, Tags and AdminNotes are mutable only by admins.
type FeatureSuggestion struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt       time.Time          `bson:"created_at" json:"timestamp"`
	Title           string             `bson:"title" json:"title"`
	Description     string             `bson:"description" json:"description"`
	Author          string             `bson:"author" json:"author"`
	Email           string             `bson:"email,omitempty" json:"email,omitempty"`
	IsAnonymous     bool               `bson:"is_anonymous" json:"isAnonymous"`
	UserFingerprint string             `bson:"user_fingerprint" json:"userFingerprint"`
	Votes           int64              `bson:"votes" json:"votes"`
	Status          string             `bson:"status" json:"status"`
	Approved        bool               `bson:"approved" json:"approved"`
	Priority        string             `bson:"priority,omitempty" json:"priority,omitempty"`
	Tags            []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	AdminNotes      string             `bson:"admin_notes,omitempty" json:"adminNotes,omitempty"`
	IdempotencyKey  string             `bson:"idempotency_key,omitempty" json:"-"`
}

// SuggestionVote records that one fingerprint voted for one suggestion.
type SuggestionVote struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SuggestionID    primitive.ObjectID `bson:"suggestion_id" json:"suggestionId"`
	UserFingerprint string             `bson:"user_fingerprint" json:"userFingerprint"`
	CreatedAt       time.Time          `bson:"created_at" json:"timestamp"`
}

// FeedbackStats is derived on request, never persisted.
type FeedbackStats struct {
	TotalComments    int64   `json:"totalComments"`
	TotalSuggestions int64   `json:"totalSuggestions"`
	TotalLikes       int64   `json:"totalLikes"`
	RecentActivity   int64   `json:"recentActivity"`
	AverageRating    float64 `json:"averageRating"`
}
