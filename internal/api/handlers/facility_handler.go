package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/entities"
)

// FacilityService defines the facility operations used by the handler.
type FacilityService interface {
	List(ctx context.Context, includeRatings bool) ([]entities.Facility, error)
	GetByID(ctx context.Context, id string) (*entities.Facility, error)
}

// FacilityHandler handles facility-related HTTP requests
type FacilityHandler struct {
	service FacilityService
}

// NewFacilityHandler creates a new facility handler
func NewFacilityHandler(service FacilityService) *FacilityHandler {
	return &FacilityHandler{
		service: service,
	}
}

// ListFacilities handles GET /api/facilities
func (h *FacilityHandler) ListFacilities(w http.ResponseWriter, r *http.Request) {
	includeRatings := false
	for _, inc := range strings.Split(r.URL.Query().Get("include"), ",") {
		if strings.TrimSpace(inc) == "ratings" {
			includeRatings = true
		}
	}

	facilities, err := h.service.List(r.Context(), includeRatings)
	if err != nil {
		respondWithAppError(w, r, err, "failed to list facilities")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"facilities": facilities,
		"count":      len(facilities),
	})
}

// GetFacility handles GET /api/facilities/{id}
func (h *FacilityHandler) GetFacility(w http.ResponseWriter, r *http.Request) {
	facilityID := r.PathValue("id")
	if facilityID == "" {
		respondWithError(w, http.StatusBadRequest, "facility ID is required")
		return
	}

	facility, err := h.service.GetByID(r.Context(), facilityID)
	if err != nil {
		respondWithAppError(w, r, err, "internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, facility)
}

// ListRegions handles GET /api/regions
func (h *FacilityHandler) ListRegions(w http.ResponseWriter, r *http.Request) {
	regions := append([]entities.Region{entities.AllRegions}, entities.Regions()...)
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"regions": regions,
	})
}
