package mapsurface

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/paulmach/orb"

	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/entities"
)

// Headless is an in-memory Widget. It renders nothing and records every
// call so terminal front-ends and tests can inspect the map state.
type Headless struct {
	mu       sync.Mutex
	token    string
	controls []Control
	markers  map[string]Marker
	layers   map[string]orb.LineString
	sources  map[string]struct{}
	camera   Viewport
	bound    orb.Bound
	removed  bool
}

// NewHeadlessFactory returns a WidgetFactory producing Headless widgets. The
// most recently created widget is stored in *last when last is non-nil.
func NewHeadlessFactory(last **Headless) WidgetFactory {
	return func(ctx context.Context, token string, viewport Viewport) (Widget, error) {
		if token == "" {
			return nil, fmt.Errorf("map access token is empty")
		}
		h := &Headless{
			token:   token,
			markers: make(map[string]Marker),
			layers:  make(map[string]orb.LineString),
			sources: make(map[string]struct{}),
			camera:  viewport,
		}
		if last != nil {
			*last = h
		}
		return h, nil
	}
}

func (h *Headless) AddControl(control Control) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.controls = append(h.controls, control)
	return nil
}

func (h *Headless) WaitLoaded(ctx context.Context) error {
	return ctx.Err()
}

func (h *Headless) PlaceMarker(marker Marker) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.removed {
		return fmt.Errorf("widget removed")
	}
	h.markers[marker.ID] = marker
	return nil
}

func (h *Headless) RemoveMarker(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.markers, id)
}

func (h *Headless) AddRouteLayer(id string, line orb.LineString) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.layers[id]; exists {
		return fmt.Errorf("layer %s already exists", id)
	}
	h.layers[id] = line
	h.sources[id] = struct{}{}
	return nil
}

func (h *Headless) RemoveLayer(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.layers, id)
}

func (h *Headless) RemoveSource(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sources, id)
}

func (h *Headless) FlyTo(center entities.Coordinates, zoom float64, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.camera = Viewport{Center: center, Zoom: zoom}
}

func (h *Headless) FitBounds(bound orb.Bound, _ int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.bound = bound
	h.camera.Center = entities.Coordinates{Lat: bound.Center().Lat(), Lng: bound.Center().Lon()}
}

func (h *Headless) Remove() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removed = true
	h.markers = make(map[string]Marker)
	h.layers = make(map[string]orb.LineString)
	h.sources = make(map[string]struct{})
}

// Click invokes the click handler of a marker.
func (h *Headless) Click(markerID string) bool {
	h.mu.Lock()
	m, ok := h.markers[markerID]
	h.mu.Unlock()
	if !ok || m.OnClick == nil {
		return false
	}
	m.OnClick()
	return true
}

// Markers returns the placed markers ordered by id.
func (h *Headless) Markers() []Marker {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Marker, 0, len(h.markers))
	for _, m := range h.markers {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Layers returns the ids of the route layers present.
func (h *Headless) Layers() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.layers))
	for id := range h.layers {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Sources returns the ids of the route sources present.
func (h *Headless) Sources() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.sources))
	for id := range h.sources {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Camera returns the current camera position.
func (h *Headless) Camera() Viewport {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.camera
}

// Controls returns the attached controls in order.
func (h *Headless) Controls() []Control {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Control(nil), h.controls...)
}

// Removed reports whether Remove was called.
func (h *Headless) Removed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.removed
}
