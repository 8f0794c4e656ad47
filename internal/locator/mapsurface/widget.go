// Package mapsurface owns the map widget used by the facility locator: its
// lifecycle, facility markers, the route layer and the camera.
package mapsurface

import (
	"context"
	"time"

	"github.com/paulmach/orb"

	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/entities"
)

// Control is a standard widget control.
type Control string

const (
	ControlNavigation Control = "navigation"
	ControlFullscreen Control = "fullscreen"
	ControlGeolocate  Control = "geolocate"
)

// Viewport is a camera position.
type Viewport struct {
	Center entities.Coordinates
	Zoom   float64
}

// DefaultViewport shows the whole of Ghana.
var DefaultViewport = Viewport{
	Center: entities.Coordinates{Lat: 7.9465, Lng: -1.0232},
	Zoom:   6,
}

// Marker is a clickable point on the map.
type Marker struct {
	ID       string
	Position entities.Coordinates
	Icon     string
	Popup    string
	OnClick  func()
}

// Widget is a live map rendered by a front-end. Implementations need not be
// safe for concurrent use; the Controller serializes every call.
type Widget interface {
	AddControl(control Control) error
	// WaitLoaded blocks until the widget reports it has finished loading.
	WaitLoaded(ctx context.Context) error

	PlaceMarker(marker Marker) error
	RemoveMarker(id string)

	AddRouteLayer(id string, line orb.LineString) error
	RemoveLayer(id string)
	RemoveSource(id string)

	FlyTo(center entities.Coordinates, zoom float64, duration time.Duration)
	FitBounds(bound orb.Bound, padding int)

	// Remove releases the widget and everything attached to it.
	Remove()
}

// WidgetFactory constructs a widget authorized by token and centered on viewport.
type WidgetFactory func(ctx context.Context, token string, viewport Viewport) (Widget, error)

// TokenSource provides map access tokens.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}
