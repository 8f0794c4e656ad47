package locator_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/entities"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/locator"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/locator/mapsurface"
	apperrors "github.com/JamesKof/ghana-health-connect-sub000/pkg/errors"
)

type fakeStore struct {
	mu         sync.Mutex
	facilities []entities.Facility
	listErr    error
	reviews    map[string][]entities.Review
	gates      map[string]chan struct{}
	calls      chan string
	submitted  []entities.ReviewDraft
	submitErr  error
}

func newFakeStore(facilities ...entities.Facility) *fakeStore {
	return &fakeStore{
		facilities: facilities,
		reviews:    make(map[string][]entities.Review),
		gates:      make(map[string]chan struct{}),
		calls:      make(chan string, 16),
	}
}

func (f *fakeStore) ListFacilities(ctx context.Context) ([]entities.Facility, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]entities.Facility(nil), f.facilities...), nil
}

func (f *fakeStore) ListReviews(ctx context.Context, facilityID string) ([]entities.Review, error) {
	f.mu.Lock()
	gate := f.gates[facilityID]
	f.mu.Unlock()

	f.calls <- facilityID
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entities.Review{}, f.reviews[facilityID]...), nil
}

func (f *fakeStore) SubmitReview(ctx context.Context, draft entities.ReviewDraft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return f.submitErr
	}
	f.submitted = append(f.submitted, draft)
	review := entities.Review{
		ID:         fmt.Sprintf("r%d", len(f.submitted)),
		FacilityID: draft.FacilityID,
		UserName:   draft.UserName,
		Rating:     draft.Rating,
		Comment:    draft.Comment,
		CreatedAt:  time.Now(),
	}
	f.reviews[draft.FacilityID] = append([]entities.Review{review}, f.reviews[draft.FacilityID]...)
	return nil
}

func (f *fakeStore) block(facilityID string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	gate := make(chan struct{})
	f.gates[facilityID] = gate
	return gate
}

type fakeDirections struct {
	routes  []entities.Route
	err     error
	gate    chan struct{}
	started chan struct{}
}

func (d *fakeDirections) Directions(ctx context.Context, origin, destination entities.Coordinates) ([]entities.Route, error) {
	if d.started != nil {
		d.started <- struct{}{}
	}
	if d.gate != nil {
		<-d.gate
	}
	return d.routes, d.err
}

type tokenFunc func(ctx context.Context) (string, error)

func (f tokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

type noticeRecorder struct {
	mu      sync.Mutex
	notices []locator.Notice
}

func (r *noticeRecorder) Notify(n locator.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *noticeRecorder) all() []locator.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]locator.Notice(nil), r.notices...)
}

func (r *noticeRecorder) levels() []locator.NoticeLevel {
	var out []locator.NoticeLevel
	for _, n := range r.all() {
		out = append(out, n.Level)
	}
	return out
}

type harness struct {
	session    *locator.Session
	store      *fakeStore
	directions *fakeDirections
	notices    *noticeRecorder
	widget     *mapsurface.Headless
}

type harnessOption func(*harnessConfig)

type harnessConfig struct {
	token     string
	tokenGate chan struct{}
	geo       locator.Geolocator
}

func withToken(token string) harnessOption {
	return func(c *harnessConfig) { c.token = token }
}

func withTokenGate(gate chan struct{}) harnessOption {
	return func(c *harnessConfig) { c.tokenGate = gate }
}

func withGeolocator(g locator.Geolocator) harnessOption {
	return func(c *harnessConfig) { c.geo = g }
}

var (
	korleBu = entities.Facility{ID: "a", Name: "Korle Bu Teaching Hospital", Category: "Teaching Hospital", Region: entities.RegionGreaterAccra, Location: entities.Location{Latitude: 5.5365, Longitude: -0.2273}}
	ridge   = entities.Facility{ID: "b", Name: "Ridge Hospital", Category: "Regional Hospital", Region: entities.RegionGreaterAccra, Location: entities.Location{Latitude: 5.5631, Longitude: -0.1990}}
	komfo   = entities.Facility{ID: "c", Name: "Komfo Anokye", Category: "Teaching Hospital", Region: entities.RegionAshanti, Location: entities.Location{Latitude: 6.6976, Longitude: -1.6286}}
)

func newHarness(t *testing.T, store *fakeStore, opts ...harnessOption) *harness {
	t.Helper()
	cfg := harnessConfig{token: "pk.test"}
	for _, opt := range opts {
		opt(&cfg)
	}

	h := &harness{store: store, directions: &fakeDirections{}, notices: &noticeRecorder{}}
	logger := zerolog.Nop()
	tokens := tokenFunc(func(ctx context.Context) (string, error) {
		if cfg.tokenGate != nil {
			select {
			case <-cfg.tokenGate:
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
		if cfg.token == "" {
			return "", errors.New("map token is not configured")
		}
		return cfg.token, nil
	})
	ctrl := mapsurface.NewController(tokens, mapsurface.NewHeadlessFactory(&h.widget), &logger)

	session, err := locator.NewSession(locator.Options{
		Store:      store,
		Directions: h.directions,
		Geolocator: cfg.geo,
		Notifier:   h.notices,
		Map:        ctrl,
		Logger:     &logger,
	})
	require.NoError(t, err)
	h.session = session
	t.Cleanup(session.Close)
	return h
}

func (h *harness) mount(t *testing.T) {
	t.Helper()
	require.NoError(t, h.session.Mount(context.Background()))
	h.session.Wait()
}

func TestNewSession_RequiresCollaborators(t *testing.T) {
	_, err := locator.NewSession(locator.Options{})
	assert.Error(t, err)
}

func TestMount_LoadsFacilitiesAndPlacesMarkers(t *testing.T) {
	h := newHarness(t, newFakeStore(korleBu, ridge, komfo))
	h.mount(t)

	view := h.session.View()
	assert.True(t, view.Loaded)
	assert.Len(t, view.Facilities, 3)
	assert.Equal(t, mapsurface.StateReady, view.MapState)
	assert.Empty(t, view.MapError)
	assert.Len(t, h.widget.Markers(), 3)
	assert.Equal(t, locator.PhaseIdle, view.Phase)
	assert.Equal(t, locator.LabelEnableLocation, view.DirectionsLabel)
	assert.False(t, view.CanGetDirections)
	assert.Empty(t, h.notices.all())
}

func TestMount_StoreFailureContinuesWithEmptyList(t *testing.T) {
	store := newFakeStore()
	store.listErr = errors.New("connection refused")
	h := newHarness(t, store)
	h.mount(t)

	view := h.session.View()
	assert.True(t, view.Loaded)
	assert.NotNil(t, view.Facilities)
	assert.Empty(t, view.Facilities)
	assert.Equal(t, mapsurface.StateReady, view.MapState)
	assert.Equal(t, []locator.NoticeLevel{locator.NoticeWarning}, h.notices.levels())
}

func TestMount_MapFailureIsTerminalButListStillWorks(t *testing.T) {
	h := newHarness(t, newFakeStore(korleBu, ridge), withToken(""))
	h.mount(t)

	view := h.session.View()
	assert.Equal(t, mapsurface.StateError, view.MapState)
	assert.Contains(t, view.MapError, "map unavailable")
	assert.Len(t, view.Facilities, 2)
	assert.Nil(t, h.widget)

	h.session.SetQuery("ridge")
	assert.Len(t, h.session.View().Facilities, 1)
}

func TestMount_ListIsUsableWhileMapLoads(t *testing.T) {
	gate := make(chan struct{})
	h := newHarness(t, newFakeStore(korleBu, ridge), withTokenGate(gate))

	require.NoError(t, h.session.Mount(context.Background()))

	view := h.session.View()
	assert.True(t, view.Loaded)
	assert.Len(t, view.Facilities, 2)
	assert.NotEqual(t, mapsurface.StateReady, view.MapState)

	require.NoError(t, h.session.Select(context.Background(), "b"))
	require.NotNil(t, h.session.View().Selected)

	close(gate)
	h.session.Wait()

	assert.Equal(t, mapsurface.StateReady, h.session.View().MapState)
	require.NotNil(t, h.widget)
	assert.Len(t, h.widget.Markers(), 2)
}

func TestMount_GeolocationFixEnablesDirections(t *testing.T) {
	accra := entities.Coordinates{Lat: 5.6037, Lng: -0.1870}
	geo := locator.GeolocatorFunc(func(context.Context) (entities.Coordinates, error) { return accra, nil })
	h := newHarness(t, newFakeStore(korleBu), withGeolocator(geo))
	h.mount(t)
	require.NoError(t, h.session.Select(context.Background(), "a"))

	view := h.session.View()
	require.NotNil(t, view.UserLocation)
	assert.Equal(t, accra, *view.UserLocation)
	assert.Equal(t, locator.LabelGetDirections, view.DirectionsLabel)
	assert.True(t, view.CanGetDirections)

	markers := h.widget.Markers()
	require.Len(t, markers, 2)
	assert.Equal(t, mapsurface.UserMarkerID, markers[1].ID)
}

func TestMount_GeolocationDeniedIsSilent(t *testing.T) {
	geo := locator.GeolocatorFunc(func(context.Context) (entities.Coordinates, error) {
		return entities.Coordinates{}, locator.ErrPermissionDenied
	})
	h := newHarness(t, newFakeStore(korleBu), withGeolocator(geo))
	h.mount(t)

	view := h.session.View()
	assert.Nil(t, view.UserLocation)
	assert.Equal(t, locator.LabelEnableLocation, view.DirectionsLabel)
	assert.Empty(t, h.notices.all())
}

func TestFilterChangesRebuildMarkers(t *testing.T) {
	h := newHarness(t, newFakeStore(korleBu, ridge, komfo))
	h.mount(t)

	h.session.SetQuery("teaching")
	assert.Len(t, h.widget.Markers(), 2)

	require.NoError(t, h.session.SetRegion(entities.RegionAshanti))
	markers := h.widget.Markers()
	require.Len(t, markers, 1)
	assert.Equal(t, "c", markers[0].ID)

	require.NoError(t, h.session.SetRegion(entities.AllRegions))
	h.session.SetQuery("")
	assert.Len(t, h.widget.Markers(), 3)

	err := h.session.SetRegion("Atlantis")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestSelect_LoadsReviewsAndSummary(t *testing.T) {
	store := newFakeStore(korleBu, ridge)
	store.reviews["a"] = []entities.Review{
		{ID: "r3", FacilityID: "a", UserName: "Kofi", Rating: 3},
		{ID: "r2", FacilityID: "a", UserName: "Esi", Rating: 5},
		{ID: "r1", FacilityID: "a", UserName: "Yaw", Rating: 4},
	}
	h := newHarness(t, store)
	h.mount(t)

	require.NoError(t, h.session.Select(context.Background(), "a"))

	view := h.session.View()
	require.NotNil(t, view.Selected)
	assert.Equal(t, "a", view.Selected.ID)
	assert.Equal(t, locator.PhaseSelected, view.Phase)
	assert.Len(t, view.Reviews, 3)
	assert.Equal(t, 4.0, view.Summary.Average)
	assert.Equal(t, 3, view.Summary.Count)
	assert.Equal(t, "★★★★☆", view.SummaryStars)
	assert.False(t, view.ReviewsLoading)
	assert.Equal(t, float64(mapsurface.FlyToZoom), h.widget.Camera().Zoom)
}

func TestSelect_NoReviewsRendersZeroStars(t *testing.T) {
	h := newHarness(t, newFakeStore(ridge))
	h.mount(t)

	require.NoError(t, h.session.Select(context.Background(), "b"))

	view := h.session.View()
	assert.NotNil(t, view.Reviews)
	assert.Zero(t, view.Summary.Average)
	assert.Zero(t, view.Summary.Count)
	assert.Equal(t, "☆☆☆☆☆", view.SummaryStars)
}

func TestSelect_UnknownFacility(t *testing.T) {
	h := newHarness(t, newFakeStore(ridge))
	h.mount(t)

	err := h.session.Select(context.Background(), "missing")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	assert.Nil(t, h.session.View().Selected)
}

func TestSelect_StaleReviewsAreDiscarded(t *testing.T) {
	store := newFakeStore(korleBu, ridge)
	store.reviews["a"] = []entities.Review{{ID: "ra", FacilityID: "a", UserName: "Ama", Rating: 1}}
	store.reviews["b"] = []entities.Review{{ID: "rb", FacilityID: "b", UserName: "Kwame", Rating: 5}}
	h := newHarness(t, store)
	h.mount(t)
	gateA := store.block("a")

	done := make(chan error, 1)
	go func() { done <- h.session.Select(context.Background(), "a") }()
	require.Equal(t, "a", <-store.calls)

	require.NoError(t, h.session.Select(context.Background(), "b"))
	require.Equal(t, "b", <-store.calls)

	close(gateA)
	require.NoError(t, <-done)

	view := h.session.View()
	require.NotNil(t, view.Selected)
	assert.Equal(t, "b", view.Selected.ID)
	require.Len(t, view.Reviews, 1)
	assert.Equal(t, "rb", view.Reviews[0].ID)
	assert.Equal(t, 5.0, view.Summary.Average)
}

func TestMarkerClickSelectsFacility(t *testing.T) {
	h := newHarness(t, newFakeStore(korleBu, ridge))
	h.mount(t)

	require.True(t, h.widget.Click("b"))
	assert.Equal(t, "b", <-h.store.calls)
	h.session.Wait()

	view := h.session.View()
	require.NotNil(t, view.Selected)
	assert.Equal(t, "b", view.Selected.ID)
}

func TestWait_ConcurrentWithNewBackgroundWork(t *testing.T) {
	h := newHarness(t, newFakeStore(korleBu, ridge))
	h.mount(t)
	go func() {
		for range h.store.calls {
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				h.widget.Click("a")
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				h.session.Wait()
			}
		}()
	}
	wg.Wait()
	h.session.Wait()

	view := h.session.View()
	require.NotNil(t, view.Selected)
	assert.Equal(t, "a", view.Selected.ID)
	assert.False(t, view.ReviewsLoading)
}

func TestSubmitReview_RoundTrip(t *testing.T) {
	store := newFakeStore(korleBu)
	store.reviews["a"] = []entities.Review{{ID: "old", FacilityID: "a", UserName: "Yaw", Rating: 3}}
	h := newHarness(t, store)
	h.mount(t)
	require.NoError(t, h.session.Select(context.Background(), "a"))

	require.NoError(t, h.session.SubmitReview(context.Background(), "  Ama ", 5, "Great care"))

	view := h.session.View()
	require.Len(t, view.Reviews, 2)
	assert.Equal(t, 5, view.Reviews[0].Rating)
	assert.Equal(t, "Ama", view.Reviews[0].UserName)
	assert.Equal(t, "Great care", view.Reviews[0].Comment)
	assert.Equal(t, 4.0, view.Summary.Average)
	assert.Equal(t, 2, view.Summary.Count)
	assert.Equal(t, []locator.NoticeLevel{locator.NoticeInfo}, h.notices.levels())
}

func TestSubmitReview_ValidationHappensBeforeStore(t *testing.T) {
	store := newFakeStore(korleBu)
	h := newHarness(t, store)
	h.mount(t)
	require.NoError(t, h.session.Select(context.Background(), "a"))

	err := h.session.SubmitReview(context.Background(), "   ", 4, "")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	assert.Equal(t, "user_name is required", apperrors.MessageOf(err, ""))

	err = h.session.SubmitReview(context.Background(), "Ama", 0, "")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	assert.Equal(t, "rating is required", apperrors.MessageOf(err, ""))

	err = h.session.SubmitReview(context.Background(), "Ama", 6, "")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	assert.Empty(t, store.submitted)
	assert.Equal(t, []locator.NoticeLevel{locator.NoticeWarning, locator.NoticeWarning, locator.NoticeWarning}, h.notices.levels())
}

func TestSubmitReview_RequiresSelection(t *testing.T) {
	h := newHarness(t, newFakeStore(korleBu))
	h.mount(t)

	assert.ErrorIs(t, h.session.SubmitReview(context.Background(), "Ama", 5, ""), locator.ErrNoSelection)
}

func TestSubmitReview_StoreFailure(t *testing.T) {
	store := newFakeStore(korleBu)
	store.submitErr = apperrors.NewInternalError("insert failed", errors.New("boom"))
	h := newHarness(t, store)
	h.mount(t)
	require.NoError(t, h.session.Select(context.Background(), "a"))

	err := h.session.SubmitReview(context.Background(), "Ama", 5, "")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
	assert.Equal(t, []locator.NoticeLevel{locator.NoticeError}, h.notices.levels())
}

func selectedWithLocation(t *testing.T, h *harness) {
	t.Helper()
	h.mount(t)
	h.session.SetUserLocation(entities.Coordinates{Lat: 5.6037, Lng: -0.1870})
	require.NoError(t, h.session.Select(context.Background(), "a"))
	<-h.store.calls
}

func TestRequestDirections_RequiresLocationAndSelection(t *testing.T) {
	h := newHarness(t, newFakeStore(korleBu))
	h.mount(t)

	assert.ErrorIs(t, h.session.RequestDirections(context.Background()), locator.ErrDirectionsUnavailable)

	require.NoError(t, h.session.Select(context.Background(), "a"))
	assert.ErrorIs(t, h.session.RequestDirections(context.Background()), locator.ErrDirectionsUnavailable)
	assert.Equal(t, locator.PhaseSelected, h.session.View().Phase)
}

func TestRequestDirections_DrawsAndFramesFirstRoute(t *testing.T) {
	h := newHarness(t, newFakeStore(korleBu))
	h.directions.routes = []entities.Route{
		{Distance: 1500, Duration: 1800, Geometry: orb.LineString{{-0.1870, 5.6037}, {-0.2273, 5.5365}}},
		{Distance: 9000, Duration: 5400, Geometry: orb.LineString{{-0.1870, 5.6037}, {-0.3, 5.5}, {-0.2273, 5.5365}}},
	}
	selectedWithLocation(t, h)

	require.NoError(t, h.session.RequestDirections(context.Background()))

	view := h.session.View()
	assert.Equal(t, locator.PhaseDirectionsReady, view.Phase)
	require.NotNil(t, view.Route)
	assert.Equal(t, "1.5 km", view.Distance)
	assert.Equal(t, "30 min", view.Duration)
	assert.False(t, view.DirectionsLoading)
	assert.Len(t, h.widget.Layers(), 1)
	assert.InDelta(t, (5.6037+5.5365)/2, h.widget.Camera().Center.Lat, 1e-9)
}

func TestRequestDirections_EmptyRoutesReturnToSelected(t *testing.T) {
	h := newHarness(t, newFakeStore(korleBu))
	h.directions.routes = []entities.Route{}
	selectedWithLocation(t, h)

	err := h.session.RequestDirections(context.Background())
	assert.ErrorIs(t, err, locator.ErrNoRoute)

	view := h.session.View()
	assert.Equal(t, locator.PhaseSelected, view.Phase)
	assert.False(t, view.DirectionsLoading)
	assert.Nil(t, view.Route)
	assert.Empty(t, view.Distance)
	assert.Empty(t, h.widget.Layers())
	assert.Equal(t, []locator.NoticeLevel{locator.NoticeError}, h.notices.levels())
}

func TestRequestDirections_FailureIsRecoverable(t *testing.T) {
	h := newHarness(t, newFakeStore(korleBu))
	h.directions.err = apperrors.NewExternalError("directions provider unavailable", errors.New("503"))
	selectedWithLocation(t, h)

	assert.Error(t, h.session.RequestDirections(context.Background()))
	assert.Equal(t, locator.PhaseSelected, h.session.View().Phase)

	h.directions.err = nil
	h.directions.routes = []entities.Route{{Distance: 850, Duration: 45, Geometry: orb.LineString{{-0.18, 5.60}, {-0.22, 5.53}}}}
	require.NoError(t, h.session.RequestDirections(context.Background()))

	view := h.session.View()
	assert.Equal(t, locator.PhaseDirectionsReady, view.Phase)
	assert.Equal(t, "850 m", view.Distance)
	assert.Equal(t, "0 min", view.Duration)
}

func TestRequestDirections_StaleResultIsDiscarded(t *testing.T) {
	h := newHarness(t, newFakeStore(korleBu, ridge))
	h.directions.routes = []entities.Route{{Distance: 1500, Duration: 1800, Geometry: orb.LineString{{-0.18, 5.60}, {-0.22, 5.53}}}}
	h.directions.gate = make(chan struct{})
	h.directions.started = make(chan struct{}, 1)
	selectedWithLocation(t, h)

	done := make(chan error, 1)
	go func() { done <- h.session.RequestDirections(context.Background()) }()
	<-h.directions.started
	assert.True(t, h.session.View().DirectionsLoading)
	assert.ErrorIs(t, h.session.RequestDirections(context.Background()), locator.ErrDirectionsInFlight)

	require.NoError(t, h.session.Select(context.Background(), "b"))
	close(h.directions.gate)
	require.NoError(t, <-done)

	view := h.session.View()
	assert.Equal(t, "b", view.Selected.ID)
	assert.Equal(t, locator.PhaseSelected, view.Phase)
	assert.Nil(t, view.Route)
	assert.Empty(t, h.widget.Layers())
}

func TestSelectAndCloseDetailClearRoute(t *testing.T) {
	h := newHarness(t, newFakeStore(korleBu, ridge))
	h.directions.routes = []entities.Route{{Distance: 1500, Duration: 1800, Geometry: orb.LineString{{-0.18, 5.60}, {-0.22, 5.53}}}}
	selectedWithLocation(t, h)
	require.NoError(t, h.session.RequestDirections(context.Background()))
	require.Len(t, h.widget.Layers(), 1)

	require.NoError(t, h.session.Select(context.Background(), "b"))
	assert.Empty(t, h.widget.Layers())
	assert.Empty(t, h.widget.Sources())
	assert.Nil(t, h.session.View().Route)

	h.session.CloseDetail()
	h.session.CloseDetail()

	view := h.session.View()
	assert.Equal(t, locator.PhaseIdle, view.Phase)
	assert.Nil(t, view.Selected)
	assert.Nil(t, view.Route)
	assert.Empty(t, view.Distance)
	assert.Empty(t, view.Duration)
}

func TestClose_ReleasesMap(t *testing.T) {
	h := newHarness(t, newFakeStore(korleBu))
	h.mount(t)

	h.session.Close()
	h.session.Close()

	assert.True(t, h.widget.Removed())
	assert.ErrorIs(t, h.session.Mount(context.Background()), locator.ErrClosed)
	assert.Equal(t, mapsurface.StateClosed, h.session.View().MapState)
}
