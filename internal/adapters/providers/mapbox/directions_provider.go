package mapbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/entities"
	"github.com/JamesKof/ghana-health-connect-sub000/pkg/config"
	apperrors "github.com/JamesKof/ghana-health-connect-sub000/pkg/errors"
)

// Response codes meaning "no route between these points".
var noRouteCodes = map[string]bool{
	"NoRoute":   true,
	"NoSegment": true,
}

// DirectionsProvider computes routes with the Directions API.
type DirectionsProvider struct {
	*client
	accessToken string
	profile     string
}

// NewDirectionsProvider creates a directions provider. The secret token is
// preferred over the public one when both are configured.
func NewDirectionsProvider(cfg *config.MapboxConfig, opts Options) *DirectionsProvider {
	token := cfg.SecretToken
	if token == "" {
		token = cfg.PublicToken
	}
	profile := strings.Trim(cfg.Profile, "/")
	if profile == "" {
		profile = defaultProfile
	}
	return &DirectionsProvider{
		client:      newClient("mapbox-directions", cfg, opts),
		accessToken: token,
		profile:     profile,
	}
}

type directionsResponse struct {
	Code    string           `json:"code"`
	Message string           `json:"message"`
	Routes  []entities.Route `json:"routes"`
}

// Directions implements providers.DirectionsProvider
func (p *DirectionsProvider) Directions(ctx context.Context, origin, destination entities.Coordinates) ([]entities.Route, error) {
	if !origin.Valid() || !destination.Valid() {
		return nil, apperrors.NewValidationError("origin and destination must be valid coordinates")
	}
	if p.accessToken == "" {
		return nil, apperrors.NewExternalError("directions provider is not configured", nil)
	}

	query := url.Values{}
	query.Set("geometries", "geojson")
	query.Set("overview", "full")
	query.Set("access_token", p.accessToken)
	endpoint := fmt.Sprintf("%s/directions/v5/%s/%f,%f;%f,%f?%s",
		p.baseURL,
		p.profile,
		origin.Lng, origin.Lat,
		destination.Lng, destination.Lat,
		query.Encode(),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to create request", err)
	}

	body, err := p.do(ctx, "directions", req)
	if err != nil {
		// Mapbox reports unroutable input as 4xx with a code in the body.
		var statusErr *statusError
		if errors.As(err, &statusErr) && statusErr.Code < 500 {
			var resp directionsResponse
			if json.Unmarshal(body, &resp) == nil && noRouteCodes[resp.Code] {
				return []entities.Route{}, nil
			}
		}
		return nil, apperrors.NewExternalError("directions provider unavailable", err)
	}

	var resp directionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperrors.NewExternalError("failed to decode directions response", err)
	}

	switch {
	case noRouteCodes[resp.Code]:
		return []entities.Route{}, nil
	case resp.Code != "Ok":
		return nil, apperrors.NewExternalError(fmt.Sprintf("directions provider returned %s", resp.Code), errors.New(resp.Message))
	}

	if resp.Routes == nil {
		resp.Routes = []entities.Route{}
	}
	p.logger.Debug().Int("routes", len(resp.Routes)).Msg("Directions call successful")
	return resp.Routes, nil
}
