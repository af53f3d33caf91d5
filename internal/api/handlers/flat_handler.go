package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/Vaishnavigophane/NestAway-backend/internal/auth"
	"github.com/Vaishnavigophane/NestAway-backend/internal/models"
	"github.com/Vaishnavigophane/NestAway-backend/internal/services"
)

const maxUploadSize = 32 << 20 // 32 MiB multipart memory limit

// FlatHandler handles listing management and discovery.
type FlatHandler struct {
	flats services.FlatServiceProvider
}

// NewFlatHandler creates a new FlatHandler.
func NewFlatHandler(flats services.FlatServiceProvider) *FlatHandler {
	return &FlatHandler{flats: flats}
}

// Create handles POST /landlord: a multipart form with the listing fields
// and an image file. Landlords only.
func (h *FlatHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if user.Role != models.RoleLandlord {
		writeMessage(w, http.StatusForbidden, "Access denied: Only landlords can post flats")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid form data", err)
		return
	}

	image, header, err := r.FormFile("image")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Image file is required")
		return
	}
	defer image.Close()

	rent, err := strconv.ParseFloat(r.FormValue("rent"), 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid rent value")
		return
	}

	input := services.FlatInput{
		Name:         r.FormValue("name"),
		Phone:        r.FormValue("phone"),
		Address:      r.FormValue("address"),
		LocationLink: r.FormValue("location_link"),
		Rent:         rent,
		Facilities:   r.FormValue("facilities"),
	}

	flat, err := h.flats.Create(r.Context(), user.ID, input, image, header.Filename)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPhone) {
			writeMessage(w, http.StatusBadRequest, "Invalid mobile number. Must be exactly 10 digits.")
			return
		}
		log.Error().Err(err).Int64("landlord_id", user.ID).Msg("Failed to create listing")
		writeError(w, http.StatusInternalServerError, "Something went wrong", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Flat listed successfully!",
		"id":      flat.ID,
	})
}

// Search handles GET/POST /tenant: all unrented flats, optionally filtered
// by address substring and maximum rent. No authentication required.
func (h *FlatHandler) Search(w http.ResponseWriter, r *http.Request) {
	var filter services.SearchFilter

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid form data", err)
			return
		}
		filter.Location = r.FormValue("location")
		if maxRentStr := r.FormValue("max_rent"); maxRentStr != "" {
			maxRent, err := strconv.ParseFloat(maxRentStr, 64)
			if err != nil {
				writeMessage(w, http.StatusBadRequest, "Invalid max_rent value")
				return
			}
			filter.MaxRent = &maxRent
		}
	}

	flats, err := h.flats.Search(r.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch flats")
		writeError(w, http.StatusInternalServerError, "Error fetching flats", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"flats": flats})
}

// Mine handles GET /myflats: every flat owned by the session user.
func (h *FlatHandler) Mine(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	flats, err := h.flats.ListByLandlord(r.Context(), user.ID)
	if err != nil {
		log.Error().Err(err).Int64("landlord_id", user.ID).Msg("Failed to fetch landlord flats")
		writeError(w, http.StatusInternalServerError, "Error fetching flats", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"flats": flats})
}

// Update handles PUT /myflats/{id}: a full-field overwrite of a flat the
// session user owns.
func (h *FlatHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	flatID, err := flatIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid flat id")
		return
	}

	var input services.FlatInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.flats.Update(r.Context(), user.ID, flatID, input); err != nil {
		if errors.Is(err, services.ErrFlatNotFound) {
			writeMessage(w, http.StatusNotFound, "Flat not found or not owned")
			return
		}
		log.Error().Err(err).Int64("flat_id", flatID).Msg("Failed to update flat")
		writeError(w, http.StatusInternalServerError, "Failed to update flat", err)
		return
	}

	writeMessage(w, http.StatusOK, "Flat updated successfully")
}

// Delete handles DELETE /myflats/{id}: removes the flat and its image.
func (h *FlatHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	flatID, err := flatIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid flat id")
		return
	}

	if err := h.flats.Delete(r.Context(), user.ID, flatID); err != nil {
		if errors.Is(err, services.ErrFlatNotFound) {
			writeMessage(w, http.StatusNotFound, "Flat not found")
			return
		}
		log.Error().Err(err).Int64("flat_id", flatID).Msg("Failed to delete flat")
		writeError(w, http.StatusInternalServerError, "Failed to delete flat", err)
		return
	}

	writeMessage(w, http.StatusOK, "Flat deleted successfully")
}

func flatIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid flat id: %w", err)
	}
	return id, nil
}
