package locator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/entities"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/locator/mapsurface"
	apperrors "github.com/JamesKof/ghana-health-connect-sub000/pkg/errors"
	"github.com/JamesKof/ghana-health-connect-sub000/pkg/validator"
)

// Phase is the selection and directions state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSelected
	PhaseFetchingDirections
	PhaseDirectionsReady
	PhaseDirectionsFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSelected:
		return "selected"
	case PhaseFetchingDirections:
		return "fetching_directions"
	case PhaseDirectionsReady:
		return "directions_ready"
	case PhaseDirectionsFailed:
		return "directions_failed"
	default:
		return "unknown"
	}
}

// Directions button labels.
const (
	LabelEnableLocation = "enable location for directions"
	LabelFetching       = "fetching directions..."
	LabelGetDirections  = "get directions"
)

var (
	ErrNoSelection           = errors.New("no facility selected")
	ErrDirectionsUnavailable = errors.New("directions need a selected facility and your location")
	ErrDirectionsInFlight    = errors.New("directions request already in progress")
	ErrNoRoute               = errors.New("no route found")
	ErrClosed                = errors.New("session closed")
)

// Options wires a Session to its collaborators. Store, Directions and Map
// are required.
type Options struct {
	Store      Store
	Directions DirectionsSource
	Geolocator Geolocator
	Notifier   Notifier
	Map        *mapsurface.Controller
	Logger     *zerolog.Logger
}

// Session is the locator state of one user. It is safe for concurrent use;
// network calls are made without holding the state lock.
type Session struct {
	store      Store
	directions DirectionsSource
	geo        Geolocator
	notifier   Notifier
	mapc       *mapsurface.Controller
	logger     zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu                sync.Mutex
	idle              *sync.Cond
	running           int
	closed            bool
	loaded            bool
	facilities        []entities.Facility
	filter            Filter
	generation        uint64
	selected          *entities.Facility
	phase             Phase
	userLocation      *entities.Coordinates
	route             *entities.Route
	directionsLoading bool
	reviews           []entities.Review
	summary           entities.ReviewSummary
	reviewsLoading    bool
}

// NewSession creates a session. Call Mount to load data and Close to release it.
func NewSession(opts Options) (*Session, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("locator: store is required")
	}
	if opts.Directions == nil {
		return nil, fmt.Errorf("locator: directions source is required")
	}
	if opts.Map == nil {
		return nil, fmt.Errorf("locator: map controller is required")
	}

	logger := log.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	logger = logger.With().Str("component", "locator").Logger()

	notifier := opts.Notifier
	if notifier == nil {
		notifier = logNotifier{logger: logger}
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		store:      opts.Store,
		directions: opts.Directions,
		geo:        opts.Geolocator,
		notifier:   notifier,
		mapc:       opts.Map,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
		filter:     Filter{Region: entities.AllRegions},
	}
	s.idle = sync.NewCond(&s.mu)

	s.mapc.OnSelect(func(facilityID string) {
		s.goTracked(func(ctx context.Context) {
			if err := s.Select(ctx, facilityID); err != nil {
				s.logger.Debug().Err(err).Str("facility_id", facilityID).Msg("Marker selection failed")
			}
		})
	})
	return s, nil
}

// goTracked runs fn on the session context unless the session is closed.
func (s *Session) goTracked(fn func(ctx context.Context)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.running++
	go func() {
		defer s.untrack()
		fn(s.ctx)
	}()
	return true
}

func (s *Session) untrack() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running--
	if s.running == 0 {
		s.idle.Broadcast()
	}
}

// waitIdleLocked blocks until no tracked goroutine is running. s.mu must be held.
func (s *Session) waitIdleLocked() {
	for s.running > 0 {
		s.idle.Wait()
	}
}

func (s *Session) notify(level NoticeLevel, msg string) {
	s.notifier.Notify(Notice{Level: level, Message: msg})
}

// Mount loads facilities and starts the map in the background. The list is
// usable as soon as the store answers; markers are placed once the map is
// ready. A geolocation fix is requested in the background. Failures are
// reported through notices and View; Mount only fails once closed.
func (s *Session) Mount(ctx context.Context) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrClosed
	}

	if s.geo != nil {
		s.goTracked(s.locate)
	}
	s.goTracked(s.initMap)

	facilities, err := s.store.ListFacilities(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to load facilities")
		facilities = []entities.Facility{}
	}

	s.mu.Lock()
	s.facilities = facilities
	s.loaded = true
	s.mapc.SyncMarkers(s.filter.Apply(s.facilities))
	s.mu.Unlock()

	if err != nil {
		s.notify(NoticeWarning, "Could not load facilities. Please try again later.")
	}
	return nil
}

func (s *Session) initMap(ctx context.Context) {
	if err := s.mapc.Init(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Map surface unavailable")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mapc.SyncMarkers(s.filter.Apply(s.facilities))
	if s.userLocation != nil {
		s.mapc.SetUserLocation(*s.userLocation)
	}
}

func (s *Session) locate(ctx context.Context) {
	position, err := s.geo.CurrentPosition(ctx)
	if err != nil {
		if errors.Is(err, ErrPermissionDenied) {
			s.logger.Debug().Msg("Geolocation permission denied")
		} else {
			s.logger.Debug().Err(err).Msg("Geolocation unavailable")
		}
		return
	}
	s.SetUserLocation(position)
}

// SetQuery changes the search text and rebuilds the markers.
func (s *Session) SetQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter.Query = query
	s.mapc.SyncMarkers(s.filter.Apply(s.facilities))
}

// SetRegion changes the region selector and rebuilds the markers.
func (s *Session) SetRegion(region entities.Region) error {
	if region != entities.AllRegions && !region.Valid() {
		return apperrors.NewValidationError(fmt.Sprintf("unknown region %q", region))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter.Region = region
	s.mapc.SyncMarkers(s.filter.Apply(s.facilities))
	return nil
}

// SetUserLocation records the user's position and shows it on the map.
func (s *Session) SetUserLocation(position entities.Coordinates) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userLocation = &position
	s.mapc.SetUserLocation(position)
}

// Select focuses a facility: the camera flies to it, any route is cleared
// and its reviews are loaded. A review response that arrives after another
// selection is discarded.
func (s *Session) Select(ctx context.Context, facilityID string) error {
	s.mu.Lock()
	var found *entities.Facility
	for i := range s.facilities {
		if s.facilities[i].ID == facilityID {
			f := s.facilities[i]
			found = &f
			break
		}
	}
	if found == nil {
		s.mu.Unlock()
		return apperrors.NewNotFoundError(fmt.Sprintf("facility %s not found", facilityID))
	}

	s.generation++
	gen := s.generation
	s.selected = found
	s.phase = PhaseSelected
	s.route = nil
	s.directionsLoading = false
	s.reviews = nil
	s.summary = entities.ReviewSummary{}
	s.reviewsLoading = true
	s.mapc.FlyTo(*found)
	s.mapc.ClearRoute()
	s.mu.Unlock()

	return s.loadReviews(ctx, gen, facilityID)
}

// RefreshReviews reloads the reviews of the selected facility.
func (s *Session) RefreshReviews(ctx context.Context) error {
	s.mu.Lock()
	if s.selected == nil {
		s.mu.Unlock()
		return ErrNoSelection
	}
	gen, id := s.generation, s.selected.ID
	s.reviewsLoading = true
	s.mu.Unlock()

	return s.loadReviews(ctx, gen, id)
}

func (s *Session) loadReviews(ctx context.Context, gen uint64, facilityID string) error {
	reviews, err := s.store.ListReviews(ctx, facilityID)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		s.logger.Debug().Str("facility_id", facilityID).Msg("Discarding reviews for superseded selection")
		return nil
	}
	s.reviewsLoading = false
	if err != nil {
		s.reviews = []entities.Review{}
		s.summary = entities.ReviewSummary{FacilityID: facilityID}
		s.mu.Unlock()
		s.logger.Warn().Err(err).Str("facility_id", facilityID).Msg("Failed to load reviews")
		s.notify(NoticeWarning, "Could not load reviews.")
		return err
	}
	if reviews == nil {
		reviews = []entities.Review{}
	}
	s.reviews = reviews
	s.summary = entities.SummarizeReviews(reviews)
	s.summary.FacilityID = facilityID
	s.mu.Unlock()
	return nil
}

// SubmitReview validates and submits a review for the selected facility,
// then reloads its reviews. Invalid input never reaches the store.
func (s *Session) SubmitReview(ctx context.Context, userName string, rating int, comment string) error {
	s.mu.Lock()
	selected := s.selected
	s.mu.Unlock()
	if selected == nil {
		return ErrNoSelection
	}

	draft := entities.ReviewDraft{
		FacilityID: selected.ID,
		UserName:   userName,
		Rating:     rating,
		Comment:    comment,
	}
	draft.Normalize()
	if err := validator.Validate(&draft); err != nil {
		s.notify(NoticeWarning, apperrors.MessageOf(err, "Invalid review"))
		return err
	}

	if err := s.store.SubmitReview(ctx, draft); err != nil {
		s.logger.Error().Err(err).Str("facility_id", draft.FacilityID).Msg("Failed to submit review")
		s.notify(NoticeError, "Could not submit your review. Please try again.")
		return err
	}
	s.notify(NoticeInfo, "Thank you for your review.")

	s.mu.Lock()
	if s.selected == nil || s.selected.ID != draft.FacilityID {
		s.mu.Unlock()
		return nil
	}
	gen := s.generation
	s.reviewsLoading = true
	s.mu.Unlock()

	return s.loadReviews(ctx, gen, draft.FacilityID)
}

// RequestDirections fetches a route from the user's position to the selected
// facility, draws it and frames it. Failure or an empty answer returns the
// session to PhaseSelected.
func (s *Session) RequestDirections(ctx context.Context) error {
	s.mu.Lock()
	if s.selected == nil || s.userLocation == nil {
		s.mu.Unlock()
		return ErrDirectionsUnavailable
	}
	if s.directionsLoading {
		s.mu.Unlock()
		return ErrDirectionsInFlight
	}
	gen := s.generation
	origin := *s.userLocation
	destination := s.selected.Location.Coordinates()
	s.phase = PhaseFetchingDirections
	s.directionsLoading = true
	s.route = nil
	s.mapc.ClearRoute()
	s.mu.Unlock()

	routes, err := s.directions.Directions(ctx, origin, destination)
	if err == nil && len(routes) == 0 {
		err = ErrNoRoute
	}

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		s.logger.Debug().Msg("Discarding directions for superseded selection")
		return nil
	}
	s.directionsLoading = false

	if err != nil {
		s.phase = PhaseDirectionsFailed
		s.mu.Unlock()

		s.logger.Warn().Err(err).Msg("Directions request failed")
		if errors.Is(err, ErrNoRoute) {
			s.notify(NoticeError, "No route found to this facility.")
		} else {
			s.notify(NoticeError, "Could not get directions. Please try again.")
		}

		s.mu.Lock()
		if gen == s.generation && s.phase == PhaseDirectionsFailed {
			s.phase = PhaseSelected
		}
		s.mu.Unlock()
		return err
	}

	route := routes[0]
	s.route = &route
	s.phase = PhaseDirectionsReady
	if drawErr := s.mapc.DrawRoute(route); drawErr != nil {
		s.logger.Warn().Err(drawErr).Msg("Route not drawn")
	} else {
		s.mapc.FitToRoute(route)
	}
	s.mu.Unlock()
	return nil
}

// CloseDetail clears the selection and its route together.
func (s *Session) CloseDetail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.selected = nil
	s.route = nil
	s.phase = PhaseIdle
	s.directionsLoading = false
	s.reviews = nil
	s.summary = entities.ReviewSummary{}
	s.reviewsLoading = false
	s.mapc.ClearRoute()
}

// Close cancels background work, waits for it and releases the map.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.cancel()
	s.waitIdleLocked()
	s.mu.Unlock()

	s.mapc.Close()
}

// Wait blocks until background work started so far has finished.
func (s *Session) Wait() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waitIdleLocked()
}
