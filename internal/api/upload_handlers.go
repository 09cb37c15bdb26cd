package api

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/daydeskapp/daydesk-server/internal/http/response"
)

func (s *Server) handleUploadProfilePicture(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	// Cap the whole request before parsing so an oversized upload
	// fails early instead of buffering to disk.
	r.Body = http.MaxBytesReader(w, r.Body, s.uploadMaxBytes)
	if err := r.ParseMultipartForm(s.uploadMaxBytes); err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			response.BadRequest(w, "Image must be smaller than 5MB", s.logger)
			return
		}
		response.BadRequest(w, "Invalid multipart form", s.logger)
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		response.BadRequest(w, "No image file provided", s.logger)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(w, "Failed to read image", s.logger)
		return
	}

	result, err := s.uploadService.SetProfilePicture(r.Context(), identity.UserID, data)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "Profile picture uploaded successfully", result, s.logger)
}

func (s *Server) handleGetProfilePicture(w http.ResponseWriter, r *http.Request) {
	data, err := s.uploadService.GetProfilePicture(chi.URLParam(r, "userID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
