package routes

import (
	"net/http"

	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/api/handlers"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/api/middleware"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/infrastructure/observability"
)

// Router holds all route handlers

type Router struct {
	mux *http.ServeMux

	availabilityHandler *handlers.AvailabilityHandler

	bookingHandler *handlers.BookingHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router

func NewRouter(

	availabilityHandler *handlers.AvailabilityHandler,

	bookingHandler *handlers.BookingHandler,

	cacheMiddleware *middleware.CacheMiddleware,

	metrics *observability.Metrics,

) *Router {

	return &Router{

		mux: http.NewServeMux(),

		availabilityHandler: availabilityHandler,

		bookingHandler: bookingHandler,

		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
	}

}

// SetupRoutes configures all application routes

func (r *Router) SetupRoutes() http.Handler {

	// Health check endpoint

	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {

		w.WriteHeader(http.StatusOK)

		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}

	})

	// Availability endpoints

	r.mux.HandleFunc("GET /api/practitioners/{id}/availability", r.availabilityHandler.GetAvailability)

	// Booking endpoints

	r.mux.HandleFunc("POST /api/bookings", r.bookingHandler.Book)

	r.mux.HandleFunc("DELETE /api/bookings/{key}", r.bookingHandler.Cancel)

	r.mux.HandleFunc("GET /api/patients/{id}/bookings", r.bookingHandler.ListPatientBookings)

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so cached responses also get CORS headers.

	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	// Apply cache middleware if available
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// Apply HTTP performance optimizations (compression, ETag, cache headers)
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(handler)

	return handler
}
