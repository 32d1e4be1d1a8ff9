package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/devfolio/portfolio-backend/internal/models"
	"github.com/devfolio/portfolio-backend/internal/store"
)

// AdminCommentsResponse represents the moderation comment listing
type AdminCommentsResponse struct {
	Success  bool             `json:"success"`
	Comments []models.Comment `json:"comments"`
	Total    int              `json:"total"`
}

// AdminSuggestionsResponse represents the moderation suggestion listing
type AdminSuggestionsResponse struct {
	Success     bool                       `json:"success"`
	Suggestions []models.FeatureSuggestion `json:"suggestions"`
	Total       int                        `json:"total"`
}

// AdminGetComments lists comments by moderation status
// (?status=pending|approved|all, default all). No fallback data here;
// the dashboard needs real errors.
func (a *API) AdminGetComments(w http.ResponseWriter, r *http.Request) {
	comments, err := a.Feedback.AdminListComments(r.Context(), r.URL.Query().Get("status"), parseLimit(r.URL.Query().Get("limit")))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch comments")
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	writeJSON(w, http.StatusOK, AdminCommentsResponse{
		Success:  true,
		Comments: comments,
		Total:    len(comments),
	})
}

// AdminApproveComment makes a comment publicly visible
func (a *API) AdminApproveComment(w http.ResponseWriter, r *http.Request) {
	if err := a.Feedback.ApproveComment(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Comment not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to approve comment")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Comment approved successfully"})
}

// AdminDeleteComment removes a comment
func (a *API) AdminDeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := a.Feedback.DeleteComment(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Comment not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete comment")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Comment deleted successfully"})
}

// AdminGetSuggestions lists suggestions by moderation status
func (a *API) AdminGetSuggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := a.Feedback.AdminListSuggestions(r.Context(), r.URL.Query().Get("status"), parseLimit(r.URL.Query().Get("limit")))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch suggestions")
		return
	}
	if suggestions == nil {
		suggestions = []models.FeatureSuggestion{}
	}
	writeJSON(w, http.StatusOK, AdminSuggestionsResponse{
		Success:     true,
		Suggestions: suggestions,
		Total:       len(suggestions),
	})
}

// AdminApproveSuggestion makes a suggestion publicly visible
func (a *API) AdminApproveSuggestion(w http.ResponseWriter, r *http.Request) {
	if err := a.Feedback.ApproveSuggestion(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Suggestion not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to approve suggestion")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Suggestion approved successfully"})
}

// AdminDeleteSuggestion removes a suggestion
func (a *API) AdminDeleteSuggestion(w http.ResponseWriter, r *http.Request) {
	if err := a.Feedback.DeleteSuggestion(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Suggestion not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete suggestion")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Suggestion deleted successfully"})
}
