package handlers_test

import (
	"net/http"
	"testing"

	"github.com/devfolio/portfolio-backend/internal/handlers"
	"github.com/devfolio/portfolio-backend/internal/models"
)

func suggestionPayload() map[string]interface{} {
	return map[string]interface{}{
		"title":           "Add a dark mode",
		"description":     "A dark theme would make late-night reading much easier.",
		"author":          "Ada",
		"email":           "ada@example.com",
		"userFingerprint": "fp-1",
	}
}

func TestCreateSuggestion(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, "POST", "/api/suggestions", suggestionPayload(), "")
	wantStatus(t, rec, http.StatusCreated)

	var resp handlers.CreateSuggestionResponse
	decodeBody(t, rec, &resp)
	if !resp.Success || resp.Suggestion == nil {
		t.Fatalf("response = %+v", resp)
	}
	if resp.Suggestion.Status != models.StatusPending {
		t.Errorf("Status = %q, want %q", resp.Suggestion.Status, models.StatusPending)
	}
	if resp.Suggestion.Approved {
		t.Error("new suggestion must not be approved")
	}
}

func TestCreateSuggestionValidationMessages(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		name    string
		mutate  func(map[string]interface{})
		message string
	}{
		{
			name:    "short title",
			mutate:  func(p map[string]interface{}) { p["title"] = "Hey" },
			message: "Title must be at least 5 characters long",
		},
		{
			name:    "short description",
			mutate:  func(p map[string]interface{}) { p["description"] = "too short" },
			message: "Description must be at least 20 characters long",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := suggestionPayload()
			tt.mutate(payload)
			rec := env.do(t, "POST", "/api/suggestions", payload, "")
			wantStatus(t, rec, http.StatusBadRequest)

			var resp handlers.CreateSuggestionResponse
			decodeBody(t, rec, &resp)
			if resp.Message != tt.message {
				t.Errorf("message = %q, want %q", resp.Message, tt.message)
			}
		})
	}
}

func TestToggleSuggestionVote(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, "POST", "/api/suggestions", suggestionPayload(), "")
	var created handlers.CreateSuggestionResponse
	decodeBody(t, rec, &created)
	path := "/api/suggestions/" + created.Suggestion.ID.Hex() + "/vote"
	body := map[string]interface{}{"userFingerprint": "visitor-a"}

	rec = env.do(t, "POST", path, body, "")
	wantStatus(t, rec, http.StatusOK)
	var toggle handlers.ToggleVoteResponse
	decodeBody(t, rec, &toggle)
	if !toggle.Voted || toggle.Votes != 1 {
		t.Fatalf("first toggle = %+v", toggle)
	}

	rec = env.do(t, "POST", path, body, "")
	decodeBody(t, rec, &toggle)
	if toggle.Voted || toggle.Votes != 0 {
		t.Fatalf("second toggle = %+v", toggle)
	}
}

func TestUpdateSuggestionStatus(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.adminToken(t)

	rec := env.do(t, "POST", "/api/suggestions", suggestionPayload(), "")
	var created handlers.CreateSuggestionResponse
	decodeBody(t, rec, &created)
	path := "/api/admin/suggestions/" + created.Suggestion.ID.Hex() + "/status"

	// No token: rejected.
	rec = env.do(t, "PUT", path, map[string]interface{}{"status": "completed"}, "")
	wantStatus(t, rec, http.StatusUnauthorized)

	// Invalid status: rejected with the exact message.
	rec = env.do(t, "PUT", path, map[string]interface{}{"status": "shipped"}, token)
	wantStatus(t, rec, http.StatusBadRequest)
	var resp handlers.CreateSuggestionResponse
	decodeBody(t, rec, &resp)
	if resp.Message != "Invalid status" {
		t.Errorf("message = %q, want %q", resp.Message, "Invalid status")
	}

	rec = env.do(t, "PUT", path, map[string]interface{}{
		"status":     "in-progress",
		"adminNotes": "started over the weekend",
		"priority":   "high",
	}, token)
	wantStatus(t, rec, http.StatusOK)

	rec = env.do(t, "GET", "/api/admin/suggestions?status=all", nil, token)
	var listing handlers.AdminSuggestionsResponse
	decodeBody(t, rec, &listing)
	if listing.Total != 1 {
		t.Fatalf("admin listing has %d suggestions", listing.Total)
	}
	got := listing.Suggestions[0]
	if got.Status != models.StatusInProgress || got.Priority != "high" {
		t.Errorf("suggestion after update = %+v", got)
	}
}

func TestAdminProjectCRUD(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.adminToken(t)

	payload := map[string]interface{}{
		"title":       "Feedback hub",
		"description": "The backend serving this very feedback widget.",
		"tech":        []string{"Go", "MongoDB"},
		"featured":    true,
	}

	rec := env.do(t, "POST", "/api/admin/projects", payload, "")
	wantStatus(t, rec, http.StatusUnauthorized)

	rec = env.do(t, "POST", "/api/admin/projects", payload, token)
	wantStatus(t, rec, http.StatusCreated)
	var created handlers.ProjectResponse
	decodeBody(t, rec, &created)
	if created.Project == nil || created.Project.Title != "Feedback hub" {
		t.Fatalf("created = %+v", created)
	}
	id := created.Project.ID.Hex()

	// Public listing sees it without auth.
	rec = env.do(t, "GET", "/api/projects", nil, "")
	wantStatus(t, rec, http.StatusOK)
	var listing handlers.GetProjectsResponse
	decodeBody(t, rec, &listing)
	if listing.Total != 1 {
		t.Fatalf("public listing has %d projects", listing.Total)
	}

	payload["description"] = "Updated description for the feedback backend."
	rec = env.do(t, "PUT", "/api/admin/projects/"+id, payload, token)
	wantStatus(t, rec, http.StatusOK)

	rec = env.do(t, "DELETE", "/api/admin/projects/"+id, nil, token)
	wantStatus(t, rec, http.StatusOK)

	rec = env.do(t, "GET", "/api/projects", nil, "")
	decodeBody(t, rec, &listing)
	if listing.Total != 0 {
		t.Fatal("deleted project still listed")
	}
}
