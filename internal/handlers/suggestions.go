package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/devfolio/portfolio-backend/internal/feedback"
	"github.com/devfolio/portfolio-backend/internal/models"
	"github.com/devfolio/portfolio-backend/internal/store"
	"github.com/devfolio/portfolio-backend/pkg/fingerprint"
)

// CreateSuggestionRequest represents a public feature suggestion submission
type CreateSuggestionRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Author          string `json:"author"`
	Email           string `json:"email"`
	IsAnonymous     bool   `json:"isAnonymous"`
	UserFingerprint string `json:"userFingerprint"`
	IdempotencyKey  string `json:"idempotencyKey"`
}

// CreateSuggestionResponse represents the response after submitting a suggestion
type CreateSuggestionResponse struct {
	Success    bool                      `json:"success"`
	Message    string                    `json:"message"`
	Suggestion *models.FeatureSuggestion `json:"suggestion,omitempty"`
}

// GetSuggestionsResponse represents the public suggestion listing
type GetSuggestionsResponse struct {
	Success     bool                       `json:"success"`
	Suggestions []models.FeatureSuggestion `json:"suggestions"`
	Total       int                        `json:"total"`
	Mode        string                     `json:"mode"`
}

// ToggleVoteRequest carries the visitor fingerprint for a vote toggle
type ToggleVoteRequest struct {
	UserFingerprint string `json:"userFingerprint"`
}

// ToggleVoteResponse reports the new vote state
type ToggleVoteResponse struct {
	Success bool  `json:"success"`
	Voted   bool  `json:"voted"`
	Votes   int64 `json:"votes"`
}

// UpdateStatusRequest is the admin mutation of a suggestion's workflow state
type UpdateStatusRequest struct {
	Status     string `json:"status"`
	AdminNotes string `json:"adminNotes"`
	Priority   string `json:"priority"`
}

// CreateSuggestion handles submitting a feature suggestion
func (a *API) CreateSuggestion(w http.ResponseWriter, r *http.Request) {
	var req CreateSuggestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	suggestion, created, err := a.Feedback.SubmitSuggestion(r.Context(), feedback.SuggestionInput{
		Title:           req.Title,
		Description:     req.Description,
		Author:          req.Author,
		Email:           req.Email,
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
			writeError(w, http.StatusInternalServerError, "Failed to submit suggestion")
		}
		return
	}

	status := http.StatusCreated
	message := "Suggestion submitted successfully. It will appear after review."
	if !created {
		status = http.StatusOK
		message = "Suggestion already submitted"
	}
	writeJSON(w, status, CreateSuggestionResponse{
		Success:    true,
		Message:    message,
		Suggestion: suggestion,
	})
}

// GetSuggestions handles the public approved-suggestion listing
func (a *API) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, mode := a.Feedback.ListSuggestions(r.Context(), feedback.ListOptions{
		Limit:   parseLimit(r.URL.Query().Get("limit")),
		OrderBy: r.URL.Query().Get("orderBy"),
	})
	if suggestions == nil {
		suggestions = []models.FeatureSuggestion{}
	}
	writeJSON(w, http.StatusOK, GetSuggestionsResponse{
		Success:     true,
		Suggestions: suggestions,
		Total:       len(suggestions),
		Mode:        mode,
	})
}

// ToggleSuggestionVote handles voting or unvoting a suggestion
func (a *API) ToggleSuggestionVote(w http.ResponseWriter, r *http.Request) {
	suggestionID := chi.URLParam(r, "id")

	var req ToggleVoteRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	voted, votes, err := a.Feedback.ToggleVote(r.Context(), suggestionID, fingerprint.Derive(r, req.UserFingerprint))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Suggestion not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update vote")
		return
	}
	writeJSON(w, http.StatusOK, ToggleVoteResponse{
		Success: true,
		Voted:   voted,
		Votes:   votes,
	})
}

// UpdateSuggestionStatus handles the admin workflow-state mutation
func (a *API) UpdateSuggestionStatus(w http.ResponseWriter, r *http.Request) {
	suggestionID := chi.URLParam(r, "id")

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := a.Feedback.UpdateSuggestionStatus(r.Context(), suggestionID, feedback.StatusUpdate{
		Status:     req.Status,
		AdminNotes: req.AdminNotes,
		Priority:   req.Priority,
	})
	if err != nil {
		var verr *feedback.ValidationError
		switch {
		case errors.As(err, &verr):
			writeError(w, http.StatusBadRequest, verr.Reason)
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "Suggestion not found")
		default:
			writeError(w, http.StatusInternalServerError, "Failed to update status")
		}
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Status updated successfully"})
}
