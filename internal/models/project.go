package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project is an entry in the portfolio's Projects section, managed by
// the admin dashboard.
type Project struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Tech        []string           `bson:"tech,omitempty" json:"tech,omitempty"`
	RepoURL     string             `bson:"repo_url,omitempty" json:"repoUrl,omitempty"`
	LiveURL     string             `bson:"live_url,omitempty" json:"liveUrl,omitempty"`
	ImageURL    string             `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	Featured    bool               `bson:"featured" json:"featured"`
}
