package handlers

import (
	"net/http"
)

// UploadResponse represents the response after an image upload
type UploadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	URL     string `json:"url,omitempty"`
}

// AdminUploadImage handles project screenshot uploads to Cloudinary
func (a *API) AdminUploadImage(w http.ResponseWriter, r *http.Request) {
	if a.Uploads == nil {
		writeError(w, http.StatusServiceUnavailable, "Image uploads are not configured")
		return
	}

	// Max 10MB
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse form")
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	url, err := a.Uploads.UploadProjectImage(r.Context(), fileHeader)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to upload file")
		return
	}

	writeJSON(w, http.StatusOK, UploadResponse{
		Success: true,
		Message: "File uploaded successfully",
		URL:     url,
	})
}
