// Package handlers contains the HTTP surface. Every handler hangs off
// the API struct so all backends are injected at startup; there is no
// package-level state.
package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/devfolio/portfolio-backend/internal/feedback"
	"github.com/devfolio/portfolio-backend/internal/services"
	"github.com/devfolio/portfolio-backend/internal/store"
)

// API bundles the dependencies the handlers need.
type API struct {
	Feedback *feedback.Service
	Store    store.Store
	Tokens   *services.TokenService
	Postgres *sql.DB
	Uploads  *services.CloudinaryService // nil when Cloudinary is not configured
	Feed     *services.EventBridge
}

func New(
	fb *feedback.Service,
	st store.Store,
	tokens *services.TokenService,
	postgres *sql.DB,
	uploads *services.CloudinaryService,
	feed *services.EventBridge,
) *API {
	return &API{
		Feedback: fb,
		Store:    st,
		Tokens:   tokens,
		Postgres: postgres,
		Uploads:  uploads,
		Feed:     feed,
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// messageResponse is the generic status envelope.
type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Success: false, Message: message})
}

func extractBearerToken(header string) string {
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

// RequireAdmin guards the dashboard routes. 401 without a valid token.
func (a *API) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Missing authorization token")
			return
		}
		if _, err := a.Tokens.VerifyAdminToken(token); err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		next.ServeHTTP(w, r)
	})
}
