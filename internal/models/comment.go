package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AnonymousAuthor is the display name stored when a visitor posts anonymously.
const AnonymousAuthor = "Anonymous"

// Comment is a public feedback entry with a star rating.
// Likes is a denormalized count of the likes collection and is mutated
// only through the like toggle.
type Comment struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt       time.Time          `bson:"created_at" json:"timestamp"`
	Author          string             `bson:"author" json:"author"`
	Email           string             `bson:"email,omitempty" json:"email,omitempty"`
	Content         string             `bson:"content" json:"content"`
	Rating          int                `bson:"rating" json:"rating"`
	Type            string             `bson:"type" json:"type"` // feedback, suggestion, general
	UserFingerprint string             `bson:"user_fingerprint" json:"userFingerprint"`
	IsAnonymous     bool               `bson:"is_anonymous" json:"isAnonymous"`
	Likes           int64              `bson:"likes" json:"likes"`
	Approved        bool               `bson:"approved" json:"approved"`
	IdempotencyKey  string             `bson:"idempotency_key,omitempty" json:"-"`
}

// Like records that one fingerprint liked one comment.
// At most one per (comment_id, user_fingerprint) pair, enforced by a
// unique index.
type Like struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CommentID       primitive.ObjectID `bson:"comment_id" json:"commentId"`
	UserFingerprint string             `bson:"user_fingerprint" json:"userFingerprint"`
	CreatedAt       time.Time          `bson:"created_at" json:"timestamp"`
}
