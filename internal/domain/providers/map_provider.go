package providers

import (
	"context"
	"time"

	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/entities"
)

// MapToken is an access token for the map provider's client SDK.
type MapToken struct {
	Token     string
	ExpiresAt time.Time // zero for non-expiring tokens
}

// MapTokenProvider issues access tokens for rendering maps in clients.
type MapTokenProvider interface {
	Token(ctx context.Context) (*MapToken, error)
}

// DirectionsProvider computes routes between two points. An empty route list
// means no route exists and is not an error.
type DirectionsProvider interface {
	Directions(ctx context.Context, origin, destination entities.Coordinates) ([]entities.Route, error)
}
