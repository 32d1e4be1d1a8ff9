package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/devfolio/portfolio-backend/internal/handlers"
)

// Setup binds the API surface. Admin routes sit behind the bearer-token
// middleware; the websocket feed authenticates inside the handler
// because browser clients pass the token as a query parameter.
func Setup(r *chi.Mux, api *handlers.API) {
	// Public feedback routes
	r.Post("/api/comments", api.CreateComment)
	r.Get("/api/comments", api.GetComments)
	r.Post("/api/comments/{id}/like", api.ToggleCommentLike)

	r.Post("/api/suggestions", api.CreateSuggestion)
	r.Get("/api/suggestions", api.GetSuggestions)
	r.Post("/api/suggestions/{id}/vote", api.ToggleSuggestionVote)

	r.Get("/api/stats", api.GetStats)

	// Public portfolio routes
	r.Get("/api/projects", api.GetProjects)

	// Admin auth (accounts are provisioned directly in the database)
	r.Post("/api/admin/signin", api.AdminSignin)

	// Admin dashboard routes
	r.Group(func(r chi.Router) {
		r.Use(api.RequireAdmin)

		r.Get("/api/admin/comments", api.AdminGetComments)
		r.Put("/api/admin/comments/{id}/approve", api.AdminApproveComment)
		r.Delete("/api/admin/comments/{id}", api.AdminDeleteComment)

		r.Get("/api/admin/suggestions", api.AdminGetSuggestions)
		r.Put("/api/admin/suggestions/{id}/approve", api.AdminApproveSuggestion)
		r.Put("/api/admin/suggestions/{id}/status", api.UpdateSuggestionStatus)
		r.Delete("/api/admin/suggestions/{id}", api.AdminDeleteSuggestion)

		r.Post("/api/admin/projects", api.AdminCreateProject)
		r.Put("/api/admin/projects/{id}", api.AdminUpdateProject)
		r.Delete("/api/admin/projects/{id}", api.AdminDeleteProject)

		r.Post("/api/admin/upload", api.AdminUploadImage)
	})

	// WebSocket endpoint for the admin live feed
	r.Get("/ws/admin/feed", api.AdminFeed)
}
