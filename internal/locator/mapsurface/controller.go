package mapsurface

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/entities"
)

// Camera constants.
const (
	FlyToZoom     = 14
	FlyToDuration = 2 * time.Second
	FitPadding    = 50
)

// UserMarkerID identifies the user-location marker.
const UserMarkerID = "user-location"

// ErrNotReady is returned by operations that need a loaded widget.
var ErrNotReady = errors.New("map is not ready")

// State is the controller lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateError
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Controller owns exactly one widget. It is safe for concurrent use.
type Controller struct {
	tokens  TokenSource
	factory WidgetFactory
	logger  zerolog.Logger
	policy  *bluemonday.Policy
	now     func() time.Time

	mu       sync.Mutex
	state    State
	err      error
	widget   Widget
	markers  map[string]struct{}
	userMark bool
	routeID  string
	onSelect func(facilityID string)
}

// NewController creates a controller. logger may be nil.
func NewController(tokens TokenSource, factory WidgetFactory, logger *zerolog.Logger) *Controller {
	l := log.Logger
	if logger != nil {
		l = *logger
	}
	return &Controller{
		tokens:  tokens,
		factory: factory,
		logger:  l.With().Str("component", "mapsurface").Logger(),
		policy:  bluemonday.StrictPolicy(),
		now:     time.Now,
		markers: make(map[string]struct{}),
	}
}

// OnSelect sets the callback invoked when a facility marker is clicked.
func (c *Controller) OnSelect(fn func(facilityID string)) {
	c.mu.Lock()
	c.onSelect = fn
	c.mu.Unlock()
}

// State returns the lifecycle state and, in StateError, the failure.
func (c *Controller) State() (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.err
}

// Init fetches a token, constructs the widget at the default viewport,
// attaches the standard controls and waits for the widget to load. A token
// or construction failure is terminal; later calls return the same error.
func (c *Controller) Init(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case StateReady:
		c.mu.Unlock()
		return nil
	case StateError:
		err := c.err
		c.mu.Unlock()
		return err
	case StateInitializing:
		c.mu.Unlock()
		return fmt.Errorf("map initialization already in progress")
	case StateClosed:
		c.mu.Unlock()
		return fmt.Errorf("map is closed")
	}
	c.state = StateInitializing
	c.mu.Unlock()

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return c.fail(fmt.Errorf("map unavailable: could not obtain a map access token: %w", err))
	}

	widget, err := c.factory(ctx, token, DefaultViewport)
	if err != nil {
		return c.fail(fmt.Errorf("map unavailable: could not create the map: %w", err))
	}

	for _, control := range []Control{ControlNavigation, ControlFullscreen, ControlGeolocate} {
		if err := widget.AddControl(control); err != nil {
			c.logger.Warn().Err(err).Str("control", string(control)).Msg("Failed to add map control")
		}
	}

	if err := widget.WaitLoaded(ctx); err != nil {
		widget.Remove()
		return c.fail(fmt.Errorf("map unavailable: the map did not finish loading: %w", err))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateClosed {
		widget.Remove()
		return fmt.Errorf("map is closed")
	}
	c.widget = widget
	c.state = StateReady
	c.logger.Debug().Msg("Map ready")
	return nil
}

func (c *Controller) fail(err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateClosed {
		c.state = StateError
		c.err = err
	}
	c.logger.Error().Err(err).Msg("Map initialization failed")
	return err
}

// SyncMarkers replaces every facility marker with one per given facility.
// It is a no-op until the controller is ready.
func (c *Controller) SyncMarkers(facilities []entities.Facility) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateReady {
		return
	}

	for id := range c.markers {
		c.widget.RemoveMarker(id)
	}
	c.markers = make(map[string]struct{}, len(facilities))

	for _, f := range facilities {
		if _, dup := c.markers[f.ID]; dup {
			continue
		}
		id := f.ID
		err := c.widget.PlaceMarker(Marker{
			ID:       id,
			Position: f.Location.Coordinates(),
			Icon:     IconFor(f.Category),
			Popup:    c.popup(f),
			OnClick:  func() { c.markerClicked(id) },
		})
		if err != nil {
			c.logger.Warn().Err(err).Str("facility_id", id).Msg("Failed to place marker")
			continue
		}
		c.markers[id] = struct{}{}
	}
}

func (c *Controller) markerClicked(facilityID string) {
	c.mu.Lock()
	fn := c.onSelect
	c.mu.Unlock()
	if fn != nil {
		fn(facilityID)
	}
}

// MarkerCount returns the number of facility markers currently placed.
func (c *Controller) MarkerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.markers)
}

func (c *Controller) popup(f entities.Facility) string {
	name := c.policy.Sanitize(f.Name)
	details := make([]string, 0, 2)
	for _, s := range []string{f.Category, string(f.Region)} {
		if s = strings.TrimSpace(c.policy.Sanitize(s)); s != "" {
			details = append(details, s)
		}
	}
	return fmt.Sprintf("<strong>%s</strong><br/>%s", name, strings.Join(details, " &middot; "))
}

// IconFor picks a marker icon from a facility category.
func IconFor(category string) string {
	c := strings.ToLower(category)
	switch {
	case strings.Contains(c, "hospital"):
		return "hospital"
	case strings.Contains(c, "pharmac"), strings.Contains(c, "chemical"):
		return "pharmacy"
	case strings.Contains(c, "clinic"), strings.Contains(c, "health cent"), strings.Contains(c, "chps"):
		return "clinic"
	case strings.Contains(c, "lab"), strings.Contains(c, "diagnostic"):
		return "laboratory"
	case strings.Contains(c, "maternity"):
		return "maternity"
	default:
		return "marker"
	}
}

// DrawRoute replaces the route layer with route, under a fresh layer id.
func (c *Controller) DrawRoute(route entities.Route) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateReady {
		return ErrNotReady
	}

	c.clearRouteLocked()
	id := "route-" + strconv.FormatInt(c.now().UnixNano(), 10)
	if err := c.widget.AddRouteLayer(id, route.Geometry); err != nil {
		return fmt.Errorf("failed to draw route: %w", err)
	}
	c.routeID = id
	return nil
}

// ClearRoute removes the route layer and its source. It is a no-op when no
// route is drawn.
func (c *Controller) ClearRoute() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearRouteLocked()
}

func (c *Controller) clearRouteLocked() {
	if c.routeID == "" || c.widget == nil {
		return
	}
	c.widget.RemoveLayer(c.routeID)
	c.widget.RemoveSource(c.routeID)
	c.routeID = ""
}

// RouteID returns the id of the drawn route layer, or "".
func (c *Controller) RouteID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.routeID
}

// FlyTo animates the camera to a facility.
func (c *Controller) FlyTo(f entities.Facility) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateReady {
		return
	}
	c.widget.FlyTo(f.Location.Coordinates(), FlyToZoom, FlyToDuration)
}

// FitToRoute frames the whole route.
func (c *Controller) FitToRoute(route entities.Route) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateReady || len(route.Geometry) == 0 {
		return
	}
	c.widget.FitBounds(route.Geometry.Bound(), FitPadding)
}

// SetUserLocation places or moves the user-location marker.
func (c *Controller) SetUserLocation(position entities.Coordinates) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateReady {
		return
	}
	if c.userMark {
		c.widget.RemoveMarker(UserMarkerID)
	}
	err := c.widget.PlaceMarker(Marker{ID: UserMarkerID, Position: position, Icon: "user"})
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to place user location marker")
		c.userMark = false
		return
	}
	c.userMark = true
}

// Close releases every marker, the user marker and the widget. It is safe
// to call more than once.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateClosed {
		return
	}
	if c.widget != nil {
		c.clearRouteLocked()
		for id := range c.markers {
			c.widget.RemoveMarker(id)
		}
		if c.userMark {
			c.widget.RemoveMarker(UserMarkerID)
		}
		c.widget.Remove()
	}
	c.markers = make(map[string]struct{})
	c.userMark = false
	c.widget = nil
	c.state = StateClosed
}
