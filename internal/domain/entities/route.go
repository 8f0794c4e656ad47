package entities

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Coordinates is a point in the lat/lng order used on the wire.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Point converts to orb's lng/lat point.
func (c Coordinates) Point() orb.Point {
	return orb.Point{c.Lng, c.Lat}
}

// Valid reports whether the coordinates are within WGS84 bounds.
func (c Coordinates) Valid() bool {
	return Location{Latitude: c.Lat, Longitude: c.Lng}.Valid()
}

// Coordinates returns the facility position in wire order.
func (l Location) Coordinates() Coordinates {
	return Coordinates{Lat: l.Latitude, Lng: l.Longitude}
}

// Route is a single proposed path between two points. Distance is in meters
// and Duration in seconds. Geometry travels as a GeoJSON LineString.
type Route struct {
	Distance float64
	Duration float64
	Geometry orb.LineString
}

type routeJSON struct {
	Distance float64           `json:"distance"`
	Duration float64           `json:"duration"`
	Geometry *geojson.Geometry `json:"geometry"`
}

// MarshalJSON implements json.Marshaler.
func (r Route) MarshalJSON() ([]byte, error) {
	line := r.Geometry
	if line == nil {
		line = orb.LineString{}
	}
	return json.Marshal(routeJSON{
		Distance: r.Distance,
		Duration: r.Duration,
		Geometry: geojson.NewGeometry(line),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Route) UnmarshalJSON(data []byte) error {
	var raw routeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Distance = raw.Distance
	r.Duration = raw.Duration
	r.Geometry = nil
	if raw.Geometry == nil {
		return nil
	}
	line, ok := raw.Geometry.Geometry().(orb.LineString)
	if !ok {
		return fmt.Errorf("route geometry must be a LineString, got %s", raw.Geometry.Type)
	}
	r.Geometry = line
	return nil
}

// DirectionsRequest asks for routes between two points.
type DirectionsRequest struct {
	Origin      Coordinates `json:"origin"`
	Destination Coordinates `json:"destination"`
}

// DirectionsResponse carries zero or more routes; zero means no route found.
type DirectionsResponse struct {
	Routes []Route `json:"routes"`
}
