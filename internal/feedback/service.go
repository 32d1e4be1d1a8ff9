// Package feedback implements the feedback hub: comment and suggestion
// submission, moderation, like/vote toggles and stats. One parameterized
// core serves both collections so validation and moderation policy
// cannot drift between them.
package feedback

import (
	"context"
	"errors"
	"log"
	"math"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devfolio/portfolio-backend/internal/models"
	"github.com/devfolio/portfolio-backend/internal/store"
)

// Submission kinds, also used as quota buckets.
const (
	KindComment    = "comments"
	KindSuggestion = "suggestions"
)

// opTimeout bounds every store round-trip. The previous per-handler
// values ranged from 1s to 3s; this is the single replacement.
const opTimeout = 3 * time.Second

// recentWindow is the stats "recent activity" lookback.
const recentWindow = 7 * 24 * time.Hour

// Event describes a new submission, for email notification and the
// admin live feed.
type Event struct {
	Kind      string    `json:"kind"` // "comment" or "suggestion"
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	Author    string    `json:"author"`
	Rating    int       `json:"rating,omitempty"`
	Excerpt   string    `json:"excerpt,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notifier delivers a submission notification (e.g. email). It must not
// block the caller; failures are its own to log.
type Notifier interface {
	SubmissionCreated(evt Event)
}

// Publisher pushes a submission event to the admin live feed.
type Publisher interface {
	PublishSubmission(ctx context.Context, evt Event) error
}

// Service is the feedback hub's data access layer. It is constructed
// once at startup and injected into the handlers; there is no package
// state.
type Service struct {
	store     store.Store
	quota     Quota
	notifier  Notifier
	publisher Publisher
}

// New builds a Service. quota, notifier and publisher may be nil; a nil
// quota never limits and nil sinks are skipped.
func New(st store.Store, quota Quota, notifier Notifier, publisher Publisher) *Service {
	if quota == nil {
		quota = unlimitedQuota{}
	}
	return &Service{store: st, quota: quota, notifier: notifier, publisher: publisher}
}

// CommentInput is a public comment submission payload.
type CommentInput struct {
	Author          string
	Email           string
	Content         string
	Rating          int
	Type            string
	IsAnonymous     bool
	UserFingerprint string
	IdempotencyKey  string
}

// SubmitComment validates, rate-limits and stores a comment. The
// returned bool is false when an idempotency key matched a previous
// submission and that record was returned instead.
func (s *Service) SubmitComment(ctx context.Context, in CommentInput) (*models.Comment, bool, error) {
	if err := in.validate(); err != nil {
		return nil, false, err
	}
	if err := s.allow(ctx, KindComment, in.UserFingerprint); err != nil {
		return nil, false, err
	}

	comment := models.Comment{
		ID:              primitive.NewObjectID(),
		CreatedAt:       time.Now().UTC(),
		Author:          in.Author,
		Email:           in.Email,
		Content:         in.Content,
		Rating:          in.Rating,
		Type:            normalizeType(in.Type),
		UserFingerprint: in.UserFingerprint,
		IsAnonymous:     in.IsAnonymous,
		Approved:        false, // needs admin review before it lists publicly
		IdempotencyKey:  in.IdempotencyKey,
	}
	if in.IsAnonymous {
		comment.Author = models.AnonymousAuthor
		comment.Email = ""
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if in.IdempotencyKey != "" {
		if _, err := s.store.InsertUnique(ctx, store.Comments, comment); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				// A retry of a submission whose first attempt timed out
				// client-side but landed anyway.
				var existing models.Comment
				if err := s.store.FindOne(ctx, store.Comments, store.Filter{"idempotency_key": in.IdempotencyKey}, &existing); err != nil {
					return nil, false, err
				}
				return &existing, false, nil
			}
			return nil, false, err
		}
	} else if _, err := s.store.Insert(ctx, store.Comments, comment); err != nil {
		return nil, false, err
	}

	s.dispatch(Event{
		Kind:      "comment",
		ID:        comment.ID.Hex(),
		Author:    comment.Author,
		Rating:    comment.Rating,
		Excerpt:   excerpt(comment.Content),
		CreatedAt: comment.CreatedAt,
	})
	return &comment, true, nil
}

// SuggestionInput is a public feature suggestion payload.
type SuggestionInput struct {
	Title           string
	Description     string
	Author          string
	Email           string
	IsAnonymous     bool
	UserFingerprint string
	IdempotencyKey  string
}

// SubmitSuggestion validates, rate-limits and stores a suggestion.
func (s *Service) SubmitSuggestion(ctx context.Context, in SuggestionInput) (*models.FeatureSuggestion, bool, error) {
	if err := in.validate(); err != nil {
		return nil, false, err
	}
	if err := s.allow(ctx, KindSuggestion, in.UserFingerprint); err != nil {
		return nil, false, err
	}

	suggestion := models.FeatureSuggestion{
		ID:              primitive.NewObjectID(),
		CreatedAt:       time.Now().UTC(),
		Title:           in.Title,
		Description:     in.Description,
		Author:          in.Author,
		Email:           in.Email,
		IsAnonymous:     in.IsAnonymous,
		UserFingerprint: in.UserFingerprint,
		Status:          models.StatusPending,
		Approved:        false,
		IdempotencyKey:  in.IdempotencyKey,
	}
	if in.IsAnonymous {
		suggestion.Author = models.AnonymousAuthor
		suggestion.Email = ""
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if in.IdempotencyKey != "" {
		if _, err := s.store.InsertUnique(ctx, store.Suggestions, suggestion); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				var existing models.FeatureSuggestion
				if err := s.store.FindOne(ctx, store.Suggestions, store.Filter{"idempotency_key": in.IdempotencyKey}, &existing); err != nil {
					return nil, false, err
				}
				return &existing, false, nil
			}
			return nil, false, err
		}
	} else if _, err := s.store.Insert(ctx, store.Suggestions, suggestion); err != nil {
		return nil, false, err
	}

	s.dispatch(Event{
		Kind:      "suggestion",
		ID:        suggestion.ID.Hex(),
		Title:     suggestion.Title,
		Author:    suggestion.Author,
		Excerpt:   excerpt(suggestion.Description),
		CreatedAt: suggestion.CreatedAt,
	})
	return &suggestion, true, nil
}

// allow consumes a quota slot. Quota backend failures are logged and
// the submission is allowed through (fail open, like the IP limiter).
func (s *Service) allow(ctx context.Context, kind, fingerprint string) error {
	ok, err := s.quota.Allow(ctx, kind, fingerprint)
	if err != nil {
		log.Printf("quota check failed for %s (%s): %v", kind, fingerprint, err)
		return nil
	}
	if !ok {
		return ErrRateLimited
	}
	return nil
}

func (s *Service) dispatch(evt Event) {
	if s.notifier != nil {
		s.notifier.SubmissionCreated(evt)
	}
	if s.publisher != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
			defer cancel()
			if err := s.publisher.PublishSubmission(ctx, evt); err != nil {
				log.Printf("failed to publish %s event: %v", evt.Kind, err)
			}
		}()
	}
}

// ListOptions control public listings. Limit 0 means "all".
type ListOptions struct {
	Limit   int64
	OrderBy string
}

// ListComments returns approved comments plus the data mode. A store
// failure degrades to the fallback payload instead of an error; the
// mode tells the caller which one it got.
func (s *Service) ListComments(ctx context.Context, opts ListOptions) ([]models.Comment, string) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var comments []models.Comment
	q := store.Query{
		Filter: store.Filter{"approved": true},
		Sort:   commentSort(opts.OrderBy),
		Limit:  opts.Limit,
	}
	if err := s.store.Find(ctx, store.Comments, q, &comments); err != nil {
		log.Printf("comment listing degraded to fallback: %v", err)
		return fallbackComments(), ModeFallback
	}
	return comments, ModeLive
}

// ListSuggestions returns approved suggestions plus the data mode.
func (s *Service) ListSuggestions(ctx context.Context, opts ListOptions) ([]models.FeatureSuggestion, string) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var suggestions []models.FeatureSuggestion
	q := store.Query{
		Filter: store.Filter{"approved": true},
		Sort:   suggestionSort(opts.OrderBy),
		Limit:  opts.Limit,
	}
	if err := s.store.Find(ctx, store.Suggestions, q, &suggestions); err != nil {
		log.Printf("suggestion listing degraded to fallback: %v", err)
		return fallbackSuggestions(), ModeFallback
	}
	return suggestions, ModeLive
}

func commentSort(orderBy string) []store.Sort {
	switch strings.ToLower(strings.TrimSpace(orderBy)) {
	case "likes":
		return []store.Sort{{Field: "likes", Desc: true}, {Field: "created_at", Desc: true}}
	case "rating":
		return []store.Sort{{Field: "rating", Desc: true}, {Field: "created_at", Desc: true}}
	default:
		return []store.Sort{{Field: "created_at", Desc: true}}
	}
}

func suggestionSort(orderBy string) []store.Sort {
	switch strings.ToLower(strings.TrimSpace(orderBy)) {
	case "timestamp":
		return []store.Sort{{Field: "created_at", Desc: true}}
	default:
		// votes descending, newest first among ties
		return []store.Sort{{Field: "votes", Desc: true}, {Field: "created_at", Desc: true}}
	}
}

// AdminListComments lists by moderation status: "pending", "approved"
// or "all". No fallback: the dashboard needs the truth or the error.
func (s *Service) AdminListComments(ctx context.Context, status string, limit int64) ([]models.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var comments []models.Comment
	q := store.Query{
		Filter: moderationFilter(status),
		Sort:   []store.Sort{{Field: "created_at", Desc: true}},
		Limit:  limit,
	}
	if err := s.store.Find(ctx, store.Comments, q, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// AdminListSuggestions mirrors AdminListComments.
func (s *Service) AdminListSuggestions(ctx context.Context, status string, limit int64) ([]models.FeatureSuggestion, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var suggestions []models.FeatureSuggestion
	q := store.Query{
		Filter: moderationFilter(status),
		Sort:   []store.Sort{{Field: "created_at", Desc: true}},
		Limit:  limit,
	}
	if err := s.store.Find(ctx, store.Suggestions, q, &suggestions); err != nil {
		return nil, err
	}
	return suggestions, nil
}

func moderationFilter(status string) store.Filter {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "pending":
		return store.Filter{"approved": false}
	case "approved":
		return store.Filter{"approved": true}
	default:
		return store.Filter{}
	}
}

// ToggleLike flips the (comment, fingerprint) like relationship and
// returns the new state with the updated counter. The unique index on
// the pair makes the flip race-safe; the counter is denormalized and
// adjusted only after the child write succeeds.
func (s *Service) ToggleLike(ctx context.Context, commentID, fingerprint string) (bool, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	parentOID, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return false, 0, store.ErrNotFound
	}
	var comment models.Comment
	if err := s.store.Get(ctx, store.Comments, commentID, &comment); err != nil {
		return false, 0, err
	}

	like := models.Like{
		ID:              primitive.NewObjectID(),
		CommentID:       parentOID,
		UserFingerprint: fingerprint,
		CreatedAt:       time.Now().UTC(),
	}
	_, err = s.store.InsertUnique(ctx, store.Likes, like)
	if err == nil {
		count, err := s.store.IncrementByID(ctx, store.Comments, commentID, "likes", 1)
		return true, count, err
	}
	if !errors.Is(err, store.ErrDuplicate) {
		return false, 0, err
	}

	// Already liked: toggle off.
	pair := store.Filter{"comment_id": parentOID, "user_fingerprint": fingerprint}
	deleted, err := s.store.DeleteOne(ctx, store.Likes, pair)
	if err != nil {
		return false, 0, err
	}
	if !deleted {
		// Lost a race with another toggle-off; report current state.
		count, err := s.store.IncrementByID(ctx, store.Comments, commentID, "likes", 0)
		return false, count, err
	}
	count, err := s.store.IncrementByID(ctx, store.Comments, commentID, "likes", -1)
	return false, count, err
}

// ToggleVote mirrors ToggleLike for suggestions.
func (s *Service) ToggleVote(ctx context.Context, suggestionID, fingerprint string) (bool, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	parentOID, err := primitive.ObjectIDFromHex(suggestionID)
	if err != nil {
		return false, 0, store.ErrNotFound
	}
	var suggestion models.FeatureSuggestion
	if err := s.store.Get(ctx, store.Suggestions, suggestionID, &suggestion); err != nil {
		return false, 0, err
	}

	vote := models.SuggestionVote{
		ID:              primitive.NewObjectID(),
		SuggestionID:    parentOID,
		UserFingerprint: fingerprint,
		CreatedAt:       time.Now().UTC(),
	}
	_, err = s.store.InsertUnique(ctx, store.SuggestionVotes, vote)
	if err == nil {
		count, err := s.store.IncrementByID(ctx, store.Suggestions, suggestionID, "votes", 1)
		return true, count, err
	}
	if !errors.Is(err, store.ErrDuplicate) {
		return false, 0, err
	}

	pair := store.Filter{"suggestion_id": parentOID, "user_fingerprint": fingerprint}
	deleted, err := s.store.DeleteOne(ctx, store.SuggestionVotes, pair)
	if err != nil {
		return false, 0, err
	}
	if !deleted {
		count, err := s.store.IncrementByID(ctx, store.Suggestions, suggestionID, "votes", 0)
		return false, count, err
	}
	count, err := s.store.IncrementByID(ctx, store.Suggestions, suggestionID, "votes", -1)
	return false, count, err
}

// ApproveComment flips the moderation gate.
func (s *Service) ApproveComment(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return s.store.UpdateByID(ctx, store.Comments, id, map[string]interface{}{"approved": true})
}

// DeleteComment removes the comment. Its likes are left orphaned; no
// cascading delete (the stats likes count scans the likes collection,
// so orphans are visible there until cleaned up).
func (s *Service) DeleteComment(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return s.store.DeleteByID(ctx, store.Comments, id)
}

// ApproveSuggestion flips the moderation gate.
func (s *Service) ApproveSuggestion(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return s.store.UpdateByID(ctx, store.Suggestions, id, map[string]interface{}{"approved": true})
}

// DeleteSuggestion removes the suggestion, orphaning its votes.
func (s *Service) DeleteSuggestion(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return s.store.DeleteByID(ctx, store.Suggestions, id)
}

// StatusUpdate is an admin mutation of the suggestion workflow fields.
type StatusUpdate struct {
	Status     string
	AdminNotes string
	Priority   string
}

// UpdateSuggestionStatus validates the status against the enumerated
// set and applies the patch.
func (s *Service) UpdateSuggestionStatus(ctx context.Context, id string, update StatusUpdate) error {
	if !models.ValidStatus(update.Status) {
		return invalid("Invalid status")
	}

	patch := map[string]interface{}{"status": update.Status}
	if update.AdminNotes != "" {
		patch["admin_notes"] = update.AdminNotes
	}
	if update.Priority != "" {
		patch["priority"] = update.Priority
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return s.store.UpdateByID(ctx, store.Suggestions, id, patch)
}

// Stats recomputes the aggregate counters with parallel scans, no
// caching. Cost grows with stored volume, which is fine at
// personal-site traffic.
func (s *Service) Stats(ctx context.Context) (models.FeedbackStats, string) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
		stats    models.FeedbackStats
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}
	since := time.Now().UTC().Add(-recentWindow)

	wg.Add(4)
	go func() {
		defer wg.Done()
		var comments []models.Comment
		q := store.Query{Filter: store.Filter{"approved": true}}
		if err := s.store.Find(ctx, store.Comments, q, &comments); err != nil {
			fail(err)
			return
		}
		var sum int
		for _, c := range comments {
			sum += c.Rating
		}
		mu.Lock()
		stats.TotalComments = int64(len(comments))
		if len(comments) > 0 {
			stats.AverageRating = math.Round(float64(sum)/float64(len(comments))*10) / 10
		}
		mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		n, err := s.store.Count(ctx, store.Suggestions, store.Filter{"approved": true})
		if err != nil {
			fail(err)
			return
		}
		mu.Lock()
		stats.TotalSuggestions = n
		mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		n, err := s.store.Count(ctx, store.Likes, store.Filter{})
		if err != nil {
			fail(err)
			return
		}
		mu.Lock()
		stats.TotalLikes = n
		mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		recent := store.Filter{"approved": true, "created_at": store.Range{GTE: since}}
		comments, err := s.store.Count(ctx, store.Comments, recent)
		if err != nil {
			fail(err)
			return
		}
		suggestions, err := s.store.Count(ctx, store.Suggestions, recent)
		if err != nil {
			fail(err)
			return
		}
		mu.Lock()
		stats.RecentActivity = comments + suggestions
		mu.Unlock()
	}()
	wg.Wait()

	if firstErr != nil {
		log.Printf("stats degraded to fallback: %v", firstErr)
		return fallbackStats(), ModeFallback
	}
	return stats, ModeLive
}

func excerpt(text string) string {
	const max = 120
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return string(runes[:max]) + "…"
}
