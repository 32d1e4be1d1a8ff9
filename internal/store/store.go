// Package store wraps the document database behind a small contract so
// the feedback service can be wired to MongoDB in production and to an
// in-memory implementation in tests.
package store

import (
	"context"
	"errors"
)

// Collection names.
const (
	Comments        = "comments"
	Suggestions     = "suggestions"
	Likes           = "likes"
	SuggestionVotes = "suggestion_votes"
	Projects        = "projects"
)

var (
	// ErrNotFound is returned when no document matches.
	ErrNotFound = errors.New("store: document not found")
	// ErrDuplicate is returned by InsertUnique when a unique index rejects
	// the document.
	ErrDuplicate = errors.New("store: duplicate document")
)

// Filter matches documents by equality on bson field names. A Range
// value matches a half-open interval instead of equality.
type Filter map[string]interface{}

// Range is a half-open interval filter value: GTE <= field < LT.
// Either bound may be nil.
type Range struct {
	GTE interface{}
	LT  interface{}
}

// Sort orders results by one bson field.
type Sort struct {
	Field string
	Desc  bool
}

// Query bundles filter, ordering and an optional cap. Limit 0 means
// no cap ("all").
type Query struct {
	Filter Filter
	Sort   []Sort
	Limit  int64
}

// Store is the document-store contract: create/read/update/delete plus
// the two primitives the toggle and idempotency redesign rely on
// (unique insert and clamped counter increment).
type Store interface {
	// Insert stores doc and returns its id as a hex string.
	Insert(ctx context.Context, collection string, doc interface{}) (string, error)
	// InsertUnique behaves like Insert but surfaces ErrDuplicate when a
	// unique index on the collection rejects the document.
	InsertUnique(ctx context.Context, collection string, doc interface{}) (string, error)
	// Get decodes the document with the given id into out, or ErrNotFound.
	Get(ctx context.Context, collection, id string, out interface{}) error
	// FindOne decodes the first document matching filter into out.
	FindOne(ctx context.Context, collection string, filter Filter, out interface{}) error
	// Find decodes all matching documents into out, which must be a
	// pointer to a slice.
	Find(ctx context.Context, collection string, q Query, out interface{}) error
	// Count returns the number of matching documents.
	Count(ctx context.Context, collection string, filter Filter) (int64, error)
	// UpdateByID applies a field patch to one document, or ErrNotFound.
	UpdateByID(ctx context.Context, collection, id string, patch map[string]interface{}) error
	// IncrementByID atomically adds delta to a counter field and returns
	// the new value, floored at zero.
	IncrementByID(ctx context.Context, collection, id, field string, delta int64) (int64, error)
	// DeleteByID removes one document, or ErrNotFound.
	DeleteByID(ctx context.Context, collection, id string) error
	// DeleteOne removes the first document matching filter and reports
	// whether one existed.
	DeleteOne(ctx context.Context, collection string, filter Filter) (bool, error)
}
