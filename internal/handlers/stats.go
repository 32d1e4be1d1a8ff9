package handlers

import (
	"net/http"

	"github.com/devfolio/portfolio-backend/internal/models"
)

// GetStatsResponse represents the aggregate feedback counters
type GetStatsResponse struct {
	Success bool                 `json:"success"`
	Stats   models.FeedbackStats `json:"stats"`
	Mode    string               `json:"mode"`
}

// GetStats handles the public stats endpoint
func (a *API) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, mode := a.Feedback.Stats(r.Context())
	writeJSON(w, http.StatusOK, GetStatsResponse{
		Success: true,
		Stats:   stats,
		Mode:    mode,
	})
}
