package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type note struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
	Text      string             `bson:"text"`
	Score     int64              `bson:"score"`
	Approved  bool               `bson:"approved"`
}

type pair struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	CommentID       primitive.ObjectID `bson:"comment_id"`
	UserFingerprint string             `bson:"user_fingerprint"`
}

func TestMemoryInsertAndGet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	id, err := m.Insert(ctx, "notes", note{Text: "hello", CreatedAt: time.Now().UTC()})
	if err != nil {
		t.Fatal(err)
	}

	var got note
	if err := m.Get(ctx, "notes", id, &got); err != nil {
		t.Fatal(err)
	}
	if got.Text != "hello" {
		t.Errorf("Text = %q", got.Text)
	}
	if got.ID.Hex() != id {
		t.Errorf("ID = %s, want %s", got.ID.Hex(), id)
	}

	if err := m.Get(ctx, "notes", primitive.NewObjectID().Hex(), &got); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing id err = %v, want ErrNotFound", err)
	}
}

func TestMemoryUniqueIndex(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	commentID := primitive.NewObjectID()
	first := pair{CommentID: commentID, UserFingerprint: "fp-1"}

	if _, err := m.InsertUnique(ctx, Likes, first); err != nil {
		t.Fatal(err)
	}
	if _, err := m.InsertUnique(ctx, Likes, pair{CommentID: commentID, UserFingerprint: "fp-1"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate pair err = %v, want ErrDuplicate", err)
	}
	// Different fingerprint, same comment: allowed.
	if _, err := m.InsertUnique(ctx, Likes, pair{CommentID: commentID, UserFingerprint: "fp-2"}); err != nil {
		t.Fatalf("distinct pair rejected: %v", err)
	}
	// Same fingerprint, different comment: allowed.
	if _, err := m.InsertUnique(ctx, Likes, pair{CommentID: primitive.NewObjectID(), UserFingerprint: "fp-1"}); err != nil {
		t.Fatalf("distinct comment rejected: %v", err)
	}
}

func TestMemorySparseUniqueIndex(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	type doc struct {
		ID             primitive.ObjectID `bson:"_id,omitempty"`
		IdempotencyKey string             `bson:"idempotency_key,omitempty"`
	}

	// Documents without the key never collide.
	if _, err := m.InsertUnique(ctx, Comments, doc{}); err != nil {
		t.Fatal(err)
	}
	if _, err := m.InsertUnique(ctx, Comments, doc{}); err != nil {
		t.Fatalf("second keyless doc rejected: %v", err)
	}

	if _, err := m.InsertUnique(ctx, Comments, doc{IdempotencyKey: "k1"}); err != nil {
		t.Fatal(err)
	}
	if _, err := m.InsertUnique(ctx, Comments, doc{IdempotencyKey: "k1"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate key err = %v, want ErrDuplicate", err)
	}
}

func TestMemoryIncrementClampsAtZero(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	id, err := m.Insert(ctx, "notes", note{Text: "counter test"})
	if err != nil {
		t.Fatal(err)
	}

	n, err := m.IncrementByID(ctx, "notes", id, "score", 2)
	if err != nil || n != 2 {
		t.Fatalf("increment = (%d, %v), want (2, nil)", n, err)
	}
	n, err = m.IncrementByID(ctx, "notes", id, "score", -5)
	if err != nil || n != 0 {
		t.Fatalf("underflow = (%d, %v), want clamp to 0", n, err)
	}

	if _, err := m.IncrementByID(ctx, "notes", primitive.NewObjectID().Hex(), "score", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing id err = %v, want ErrNotFound", err)
	}
}

func TestMemoryFindSortLimitAndRange(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	for i, text := range []string{"oldest", "middle", "newest"} {
		_, err := m.Insert(ctx, "notes", note{
			Text:      text,
			CreatedAt: base.Add(time.Duration(i) * 24 * time.Hour),
			Score:     int64(i),
			Approved:  i != 1,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	var got []note
	q := Query{
		Filter: Filter{"approved": true},
		Sort:   []Sort{{Field: "created_at", Desc: true}},
	}
	if err := m.Find(ctx, "notes", q, &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("matched %d, want 2", len(got))
	}
	if got[0].Text != "newest" || got[1].Text != "oldest" {
		t.Errorf("order = [%s %s]", got[0].Text, got[1].Text)
	}

	// Limit caps the result set after sorting.
	q.Limit = 1
	if err := m.Find(ctx, "notes", q, &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Text != "newest" {
		t.Errorf("limited result = %+v", got)
	}

	// Range filters on the half-open interval.
	n, err := m.Count(ctx, "notes", Filter{"created_at": Range{GTE: base.Add(12 * time.Hour)}})
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("range count = %d, want 2", n)
	}
}

func TestMemoryUpdateAndDelete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	id, err := m.Insert(ctx, "notes", note{Text: "original"})
	if err != nil {
		t.Fatal(err)
	}

	if err := m.UpdateByID(ctx, "notes", id, map[string]interface{}{"text": "patched", "approved": true}); err != nil {
		t.Fatal(err)
	}
	var got note
	if err := m.Get(ctx, "notes", id, &got); err != nil {
		t.Fatal(err)
	}
	if got.Text != "patched" || !got.Approved {
		t.Errorf("after patch: %+v", got)
	}

	deleted, err := m.DeleteOne(ctx, "notes", Filter{"text": "patched"})
	if err != nil || !deleted {
		t.Fatalf("DeleteOne = (%v, %v)", deleted, err)
	}
	deleted, err = m.DeleteOne(ctx, "notes", Filter{"text": "patched"})
	if err != nil || deleted {
		t.Fatalf("second DeleteOne = (%v, %v), want (false, nil)", deleted, err)
	}

	if err := m.DeleteByID(ctx, "notes", id); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteByID after delete err = %v, want ErrNotFound", err)
	}
}
