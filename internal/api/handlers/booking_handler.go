package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/application/services"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/domain/entities"
)

// BookingService defines the interface for booking operations
type BookingService interface {
	Book(ctx context.Context, req services.BookingRequest) (*entities.Reservation, error)
	Cancel(ctx context.Context, patientID string, slot entities.SlotID) error
	ListPatientReservations(ctx context.Context, patientID string, limit int) ([]*entities.Reservation, error)
}

// BookingHandler handles booking requests
type BookingHandler struct {
	service BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(service BookingService) *BookingHandler {
	return &BookingHandler{
		service: service,
	}
}

// bookingPayload is the booking request body. The slot travels as its wire
// key so the caller never has to understand its structure.
type bookingPayload struct {
	PatientID    string `json:"patient_id"`
	SlotKey      string `json:"slot_key"`
	PatientName  string `json:"patient_name,omitempty"`
	PatientEmail string `json:"patient_email,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// Book handles POST /api/bookings
func (h *BookingHandler) Book(w http.ResponseWriter, r *http.Request) {
	var payload bookingPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	slot, err := entities.ParseSlotKey(payload.SlotKey)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	reservation, err := h.service.Book(r.Context(), services.BookingRequest{
		PatientID:    payload.PatientID,
		Slot:         slot,
		PatientName:  payload.PatientName,
		PatientEmail: payload.PatientEmail,
		Notes:        payload.Notes,
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"reservation": reservation,
		"slot_key":    reservation.Slot.Key(),
	})
}

// Cancel handles DELETE /api/bookings/{key}
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	slot, err := entities.ParseSlotKey(r.PathValue("key"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	patientID := r.URL.Query().Get("patient_id")
	if patientID == "" {
		respondWithError(w, http.StatusBadRequest, "patient_id is required")
		return
	}

	if err := h.service.Cancel(r.Context(), patientID, slot); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListPatientBookings handles GET /api/patients/{id}/bookings
func (h *BookingHandler) ListPatientBookings(w http.ResponseWriter, r *http.Request) {
	patientID := r.PathValue("id")
	if patientID == "" {
		respondWithError(w, http.StatusBadRequest, "patient ID is required")
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 0 {
			respondWithError(w, http.StatusBadRequest, "invalid limit parameter")
			return
		}
		limit = parsed
	}

	reservations, err := h.service.ListPatientReservations(r.Context(), patientID, limit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"reservations": reservations,
	})
}
