package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/api/handlers"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/domain/entities"
	apperrors "github.com/zatekoja/Practitionerbookingdesign/backend/pkg/errors"
)

// MockAvailabilityService defines the mock service
type MockAvailabilityService struct {
	mock.Mock
}

func (m *MockAvailabilityService) GetAvailability(ctx context.Context, practitionerID string, at time.Time) ([]entities.DayBucket, error) {
	args := m.Called(ctx, practitionerID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.DayBucket), args.Error(1)
}

func TestAvailabilityHandler_GetAvailability(t *testing.T) {
	t.Run("returns the availability window", func(t *testing.T) {
		mockService := new(MockAvailabilityService)
		handler := handlers.NewAvailabilityHandler(mockService)

		req := httptest.NewRequest("GET", "/api/practitioners/prac-1/availability", nil)
		req.SetPathValue("id", "prac-1")
		w := httptest.NewRecorder()

		buckets := []entities.DayBucket{
			{Date: entities.Date{Year: 2026, Month: time.September, Day: 3}},
		}
		mockService.On("GetAvailability", mock.Anything, "prac-1", mock.Anything).Return(buckets, nil)

		handler.GetAvailability(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "prac-1", response["practitioner_id"])
		assert.Contains(t, response, "days")
		mockService.AssertExpectations(t)
	})

	t.Run("passes the at parameter through", func(t *testing.T) {
		mockService := new(MockAvailabilityService)
		handler := handlers.NewAvailabilityHandler(mockService)

		at := time.Date(2026, time.September, 3, 10, 5, 0, 0, time.UTC)
		req := httptest.NewRequest("GET", "/api/practitioners/prac-1/availability?at="+at.Format(time.RFC3339), nil)
		req.SetPathValue("id", "prac-1")
		w := httptest.NewRecorder()

		mockService.On("GetAvailability", mock.Anything, "prac-1", at).Return([]entities.DayBucket{}, nil)

		handler.GetAvailability(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("rejects a malformed at parameter", func(t *testing.T) {
		mockService := new(MockAvailabilityService)
		handler := handlers.NewAvailabilityHandler(mockService)

		req := httptest.NewRequest("GET", "/api/practitioners/prac-1/availability?at=yesterday", nil)
		req.SetPathValue("id", "prac-1")
		w := httptest.NewRecorder()

		handler.GetAvailability(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "GetAvailability")
	})

	t.Run("maps an unknown practitioner to not found", func(t *testing.T) {
		mockService := new(MockAvailabilityService)
		handler := handlers.NewAvailabilityHandler(mockService)

		req := httptest.NewRequest("GET", "/api/practitioners/prac-x/availability", nil)
		req.SetPathValue("id", "prac-x")
		w := httptest.NewRecorder()

		mockService.On("GetAvailability", mock.Anything, "prac-x", mock.Anything).
			Return(nil, apperrors.NewNotFoundError("practitioner prac-x not found"))

		handler.GetAvailability(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("maps a store failure to internal error", func(t *testing.T) {
		mockService := new(MockAvailabilityService)
		handler := handlers.NewAvailabilityHandler(mockService)

		req := httptest.NewRequest("GET", "/api/practitioners/prac-1/availability", nil)
		req.SetPathValue("id", "prac-1")
		w := httptest.NewRecorder()

		mockService.On("GetAvailability", mock.Anything, "prac-1", mock.Anything).
			Return(nil, apperrors.NewInternalError("store unavailable", nil))

		handler.GetAvailability(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
