package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/domain/entities"
)

// AvailabilityService defines the interface for availability queries
type AvailabilityService interface {
	GetAvailability(ctx context.Context, practitionerID string, at time.Time) ([]entities.DayBucket, error)
}

// AvailabilityHandler handles availability requests
type AvailabilityHandler struct {
	service AvailabilityService
}

// NewAvailabilityHandler creates a new availability handler
func NewAvailabilityHandler(service AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
	}
}

// GetAvailability handles GET /api/practitioners/{id}/availability
// The optional "at" query parameter pins the reference instant (RFC3339);
// it defaults to the current time.
func (h *AvailabilityHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	practitionerID := r.PathValue("id")
	if practitionerID == "" {
		respondWithError(w, http.StatusBadRequest, "practitioner ID is required")
		return
	}

	var at time.Time
	if atStr := r.URL.Query().Get("at"); atStr != "" {
		parsed, err := time.Parse(time.RFC3339, atStr)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid at date format (use RFC3339)")
			return
		}
		at = parsed
	}

	buckets, err := h.service.GetAvailability(r.Context(), practitionerID, at)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"practitioner_id": practitionerID,
		"days":            buckets,
	})
}
