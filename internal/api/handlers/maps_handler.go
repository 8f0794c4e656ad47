package handlers

import (
	"net/http"

	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/entities"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/providers"
)

// MapsHandler exposes map tokens and directions to clients.
type MapsHandler struct {
	tokens     providers.MapTokenProvider
	directions providers.DirectionsProvider
}

// NewMapsHandler creates a new maps handler.
func NewMapsHandler(tokens providers.MapTokenProvider, directions providers.DirectionsProvider) *MapsHandler {
	return &MapsHandler{
		tokens:     tokens,
		directions: directions,
	}
}

type tokenResponse struct {
	Token string `json:"token"`
}

// GetToken handles GET /api/maps/token
func (h *MapsHandler) GetToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.tokens.Token(r.Context())
	if err != nil {
		respondWithAppError(w, r, err, "map token unavailable")
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	respondWithJSON(w, http.StatusOK, tokenResponse{Token: token.Token})
}

// GetDirections handles POST /api/maps/directions
func (h *MapsHandler) GetDirections(w http.ResponseWriter, r *http.Request) {
	var req entities.DirectionsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if !req.Origin.Valid() || !req.Destination.Valid() {
		respondWithError(w, http.StatusBadRequest, "origin and destination must be valid coordinates")
		return
	}

	routes, err := h.directions.Directions(r.Context(), req.Origin, req.Destination)
	if err != nil {
		respondWithAppError(w, r, err, "directions unavailable")
		return
	}
	if routes == nil {
		routes = []entities.Route{}
	}

	respondWithJSON(w, http.StatusOK, entities.DirectionsResponse{Routes: routes})
}
