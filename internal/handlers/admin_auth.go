package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/devfolio/portfolio-backend/pkg/utils"
)

// AdminSigninRequest represents the request to sign in as admin
type AdminSigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminSigninResponse represents the response after admin signin
type AdminSigninResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Admin   map[string]interface{} `json:"admin,omitempty"`
	Token   string                 `json:"token,omitempty"`
}

// AdminSignin handles admin login. Accounts are provisioned directly in
// Postgres; there is no signup route.
func (a *API) AdminSignin(w http.ResponseWriter, r *http.Request) {
	var req AdminSigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	var adminID uuid.UUID
	var email, passwordHash string
	var isActive bool
	var createdAt time.Time

	err := a.Postgres.QueryRow(`
		SELECT id, created_at, email, password_hash, is_active
		FROM admins
		WHERE email = $1
	`, req.Email).Scan(&adminID, &createdAt, &email, &passwordHash, &isActive)
	if err != nil {
		if err == sql.ErrNoRows {
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	if !isActive {
		writeError(w, http.StatusForbidden, "Admin account is inactive")
		return
	}

	valid, err := utils.VerifyPassword(req.Password, passwordHash)
	if err != nil || !valid {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := a.Tokens.IssueAdminToken(adminID.String(), email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, AdminSigninResponse{
		Success: true,
		Message: "Admin signed in successfully",
		Admin: map[string]interface{}{
			"id":         adminID.String(),
			"email":      email,
			"created_at": createdAt,
		},
		Token: token,
	})
}
