package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/devfolio/portfolio-backend/internal/feedback"
	"github.com/devfolio/portfolio-backend/internal/models"
	"github.com/devfolio/portfolio-backend/internal/store"
	"github.com/devfolio/portfolio-backend/pkg/fingerprint"
)

// CreateCommentRequest represents a public comment submission
type CreateCommentRequest struct {
	Author          string `json:"author"`
	Email           string `json:"email"`
	Content         string `json:"content"`
	Rating          int    `json:"rating"`
	Type            string `json:"type"`
	IsAnonymous     bool   `json:"isAnonymous"`
	UserFingerprint string `json:"userFingerprint"`
	IdempotencyKey  string `json:"idempotencyKey"`
}

// CreateCommentResponse represents the response after submitting a comment
type CreateCommentResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Comment *models.Comment `json:"comment,omitempty"`
}

// GetCommentsResponse represents the public comment listing
type GetCommentsResponse struct {
	Success  bool             `json:"success"`
	Comments []models.Comment `json:"comments"`
	Total    int              `json:"total"`
	Mode     string           `json:"mode"`
}

// ToggleLikeRequest carries the visitor fingerprint for a like toggle
type ToggleLikeRequest struct {
	UserFingerprint string `json:"userFingerprint"`
}

// ToggleLikeResponse reports the new like state
type ToggleLikeResponse struct {
	Success bool  `json:"success"`
	Liked   bool  `json:"liked"`
	Likes   int64 `json:"likes"`
}

// CreateComment handles submitting a comment with a star rating
func (a *API) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	comment, created, err := a.Feedback.SubmitComment(r.Context(), feedback.CommentInput{
		Author:          req.Author,
		Email:           req.Email,
		Content:         req.Content,
		Rating:          req.Rating,
		Type:            req.Type,
		IsAnonymous:     req.IsAnonymous,
		UserFingerprint: fingerprint.Derive(r, req.UserFingerprint),
		IdempotencyKey:  req.IdempotencyKey,
	})
	if err != nil {
		var verr *feedback.ValidationError
		switch {
		case errors.As(err, &verr):
			writeError(w, http.StatusBadRequest, verr.Reason)
		case errors.Is(err, feedback.ErrRateLimited):
			writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Try again tomorrow.")
		default:
			writeError(w, http.StatusInternalServerError, "Failed to submit comment")
		}
		return
	}

	status := http.StatusCreated
	message := "Comment submitted successfully. It will appear after review."
	if !created {
		// Idempotent replay of an earlier submission.
		status = http.StatusOK
		message = "Comment already submitted"
	}
	writeJSON(w, status, CreateCommentResponse{
		Success: true,
		Message: message,
		Comment: comment,
	})
}

// GetComments handles the public approved-comment listing
func (a *API) GetComments(w http.ResponseWriter, r *http.Request) {
	comments, mode := a.Feedback.ListComments(r.Context(), feedback.ListOptions{
		Limit:   parseLimit(r.URL.Query().Get("limit")),
		OrderBy: r.URL.Query().Get("orderBy"),
	})
	if comments == nil {
		comments = []models.Comment{}
	}
	writeJSON(w, http.StatusOK, GetCommentsResponse{
		Success:  true,
		Comments: comments,
		Total:    len(comments),
		Mode:     mode,
	})
}

// ToggleCommentLike handles liking or unliking a comment
func (a *API) ToggleCommentLike(w http.ResponseWriter, r *http.Request) {
	commentID := chi.URLParam(r, "id")

	var req ToggleLikeRequest
	// Body is optional; an empty fingerprint falls back to the derived one.
	_ = json.NewDecoder(r.Body).Decode(&req)

	liked, likes, err := a.Feedback.ToggleLike(r.Context(), commentID, fingerprint.Derive(r, req.UserFingerprint))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Comment not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update like")
		return
	}
	writeJSON(w, http.StatusOK, ToggleLikeResponse{
		Success: true,
		Liked:   liked,
		Likes:   likes,
	})
}

// parseLimit maps the limit query parameter to a listing cap.
// Default 50, "all" or 0 means no cap.
func parseLimit(raw string) int64 {
	if raw == "" {
		return 50
	}
	if raw == "all" {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 50
	}
	return n
}
