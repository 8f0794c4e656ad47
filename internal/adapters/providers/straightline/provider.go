// Package straightline offers a directions provider that needs no external
// service. It is used when no map provider is configured, e.g. in development.
package straightline

import (
	"context"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/entities"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/providers"
	apperrors "github.com/JamesKof/ghana-health-connect-sub000/pkg/errors"
)

// DefaultSpeed is the assumed average road speed in meters per second (40 km/h).
const DefaultSpeed = 40.0 * 1000 / 3600

// Provider returns a single two-point route along the great circle.
type Provider struct {
	speed float64
}

// NewProvider creates a straight-line provider. A non-positive speed uses DefaultSpeed.
func NewProvider(speed float64) providers.DirectionsProvider {
	if speed <= 0 {
		speed = DefaultSpeed
	}
	return &Provider{speed: speed}
}

// Directions implements providers.DirectionsProvider
func (p *Provider) Directions(ctx context.Context, origin, destination entities.Coordinates) ([]entities.Route, error) {
	if !origin.Valid() || !destination.Valid() {
		return nil, apperrors.NewValidationError("origin and destination must be valid coordinates")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	line := orb.LineString{origin.Point(), destination.Point()}
	distance := geo.DistanceHaversine(origin.Point(), destination.Point())

	return []entities.Route{{
		Distance: distance,
		Duration: distance / p.speed,
		Geometry: line,
	}}, nil
}
