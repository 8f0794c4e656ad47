package routes

import (
	"net/http"

	"github.com/JamesKof/ghana-health-connect-sub000/internal/api/handlers"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/api/middleware"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	facilityHandler *handlers.FacilityHandler
	reviewHandler   *handlers.ReviewHandler
	mapsHandler     *handlers.MapsHandler

	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	facilityHandler *handlers.FacilityHandler,
	reviewHandler *handlers.ReviewHandler,
	mapsHandler *handlers.MapsHandler,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		facilityHandler: facilityHandler,
		reviewHandler:   reviewHandler,
		mapsHandler:     mapsHandler,
		allowedOrigins:  allowedOrigins,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Facility endpoints
	r.mux.HandleFunc("GET /api/facilities", r.facilityHandler.ListFacilities)
	r.mux.HandleFunc("GET /api/facilities/{id}", r.facilityHandler.GetFacility)
	r.mux.HandleFunc("GET /api/regions", r.facilityHandler.ListRegions)

	// Review endpoints
	r.mux.HandleFunc("GET /api/facilities/{id}/reviews", r.reviewHandler.ListReviews)
	r.mux.HandleFunc("POST /api/facilities/{id}/reviews", r.reviewHandler.SubmitReview)

	// Maps endpoints
	r.mux.HandleFunc("GET /api/maps/token", r.mapsHandler.GetToken)
	r.mux.HandleFunc("POST /api/maps/directions", r.mapsHandler.GetDirections)

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS is outermost so preflights never reach the handlers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.Compression(handler)
	handler = middleware.CORS(r.allowedOrigins)(handler)

	return handler
}
