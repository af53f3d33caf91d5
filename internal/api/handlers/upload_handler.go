package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/Vaishnavigophane/NestAway-backend/internal/uploads"
)

// UploadHandler serves stored listing images.
type UploadHandler struct {
	store *uploads.Store
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(store *uploads.Store) *UploadHandler {
	return &UploadHandler{store: store}
}

// Serve handles GET /static/uploads/{filename}. Filenames that could
// escape the upload directory are rejected.
func (h *UploadHandler) Serve(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	path, err := h.store.Resolve(filename)
	if err != nil {
		log.Warn().Str("filename", filename).Msg("Rejected upload filename")
		writeMessage(w, http.StatusBadRequest, "Invalid filename")
		return
	}

	http.ServeFile(w, r, path)
}
