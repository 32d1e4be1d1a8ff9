package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devfolio/portfolio-backend/internal/models"
	"github.com/devfolio/portfolio-backend/internal/store"
)

// ProjectRequest represents an admin project create or update
type ProjectRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tech        []string `json:"tech"`
	RepoURL     string   `json:"repoUrl"`
	LiveURL     string   `json:"liveUrl"`
	ImageURL    string   `json:"imageUrl"`
	Featured    bool     `json:"featured"`
}

// ProjectResponse represents the response after a project mutation
type ProjectResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Project *models.Project `json:"project,omitempty"`
}

// GetProjectsResponse represents the public project listing
type GetProjectsResponse struct {
	Success  bool             `json:"success"`
	Projects []models.Project `json:"projects"`
	Total    int              `json:"total"`
}

// GetProjects handles the public project listing, featured first
func (a *API) GetProjects(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var projects []models.Project
	q := store.Query{
		Sort: []store.Sort{{Field: "featured", Desc: true}, {Field: "created_at", Desc: true}},
	}
	if err := a.Store.Find(ctx, store.Projects, q, &projects); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch projects")
		return
	}
	if projects == nil {
		projects = []models.Project{}
	}
	writeJSON(w, http.StatusOK, GetProjectsResponse{
		Success:  true,
		Projects: projects,
		Total:    len(projects),
	})
}

// AdminCreateProject adds a project to the portfolio
func (a *API) AdminCreateProject(w http.ResponseWriter, r *http.Request) {
	var req ProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if req.Title == "" || req.Description == "" {
		writeError(w, http.StatusBadRequest, "Title and description are required")
		return
	}

	now := time.Now().UTC()
	project := models.Project{
		ID:          primitive.NewObjectID(),
		CreatedAt:   now,
		UpdatedAt:   now,
		Title:       req.Title,
		Description: req.Description,
		Tech:        req.Tech,
		RepoURL:     req.RepoURL,
		LiveURL:     req.LiveURL,
		ImageURL:    req.ImageURL,
		Featured:    req.Featured,
	}
	if _, err := a.Store.Insert(r.Context(), store.Projects, project); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create project")
		return
	}
	writeJSON(w, http.StatusCreated, ProjectResponse{
		Success: true,
		Message: "Project created successfully",
		Project: &project,
	})
}

// AdminUpdateProject patches a project's fields
func (a *API) AdminUpdateProject(w http.ResponseWriter, r *http.Request) {
	var req ProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if req.Title == "" || req.Description == "" {
		writeError(w, http.StatusBadRequest, "Title and description are required")
		return
	}

	patch := map[string]interface{}{
		"title":       req.Title,
		"description": req.Description,
		"tech":        req.Tech,
		"repo_url":    req.RepoURL,
		"live_url":    req.LiveURL,
		"image_url":   req.ImageURL,
		"featured":    req.Featured,
		"updated_at":  time.Now().UTC(),
	}
	if err := a.Store.UpdateByID(r.Context(), store.Projects, chi.URLParam(r, "id"), patch); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Project not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update project")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Project updated successfully"})
}

// AdminDeleteProject removes a project
func (a *API) AdminDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := a.Store.DeleteByID(r.Context(), store.Projects, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Project not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete project")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Project deleted successfully"})
}
