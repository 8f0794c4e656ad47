package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/paulmach/orb"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/JamesKof/ghana-health-connect-sub000/internal/adapters/cache"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/api/handlers"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/application/services"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/entities"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/providers"
	redisclient "github.com/JamesKof/ghana-health-connect-sub000/internal/infrastructure/clients/redis"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/mocks"
	apperrors "github.com/JamesKof/ghana-health-connect-sub000/pkg/errors"
)

type stubFacilityService struct {
	facilities     []entities.Facility
	err            error
	includeRatings bool
}

func (s *stubFacilityService) List(ctx context.Context, includeRatings bool) ([]entities.Facility, error) {
	s.includeRatings = includeRatings
	return s.facilities, s.err
}

func (s *stubFacilityService) GetByID(ctx context.Context, id string) (*entities.Facility, error) {
	for i := range s.facilities {
		if s.facilities[i].ID == id {
			return &s.facilities[i], nil
		}
	}
	return nil, apperrors.NewNotFoundError("facility with id " + id + " not found")
}

type stubReviewService struct {
	reviews   map[string][]entities.Review
	submitted []entities.ReviewDraft
	submitErr error
}

func (s *stubReviewService) ListForFacility(ctx context.Context, facilityID string) (*services.FacilityReviews, error) {
	reviews, ok := s.reviews[facilityID]
	if !ok {
		return nil, apperrors.NewNotFoundError("facility not found")
	}
	summary := entities.SummarizeReviews(reviews)
	return &services.FacilityReviews{Reviews: reviews, Summary: summary}, nil
}

func (s *stubReviewService) Submit(ctx context.Context, draft entities.ReviewDraft) (*entities.Review, error) {
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	s.submitted = append(s.submitted, draft)
	return &entities.Review{ID: "rev-1", FacilityID: draft.FacilityID}, nil
}

func TestFacilityHandler_ListFacilities(t *testing.T) {
	rating, count := 4.5, 2
	service := &stubFacilityService{facilities: []entities.Facility{
		{ID: "f-1", Name: "Ridge Hospital", Region: entities.RegionGreaterAccra, Rating: &rating, ReviewCount: &count},
	}}
	handler := handlers.NewFacilityHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/api/facilities?include=ratings", nil)
	w := httptest.NewRecorder()
	handler.ListFacilities(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, service.includeRatings)

	var response struct {
		Facilities []map[string]interface{} `json:"facilities"`
		Count      int                      `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, 1, response.Count)
	assert.Equal(t, "Greater Accra", response.Facilities[0]["region"])
	assert.Equal(t, 4.5, response.Facilities[0]["rating"])
}

func TestFacilityHandler_ListFacilities_StoreError(t *testing.T) {
	handler := handlers.NewFacilityHandler(&stubFacilityService{err: apperrors.NewInternalError("failed to list facilities", errors.New("connection refused"))})

	w := httptest.NewRecorder()
	handler.ListFacilities(w, httptest.NewRequest(http.MethodGet, "/api/facilities", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestFacilityHandler_ListRegions(t *testing.T) {
	handler := handlers.NewFacilityHandler(&stubFacilityService{})

	w := httptest.NewRecorder()
	handler.ListRegions(w, httptest.NewRequest(http.MethodGet, "/api/regions", nil))

	var response struct {
		Regions []string `json:"regions"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Len(t, response.Regions, 17)
	assert.Equal(t, "All Regions", response.Regions[0])
	assert.Contains(t, response.Regions, "Western North")
}

func TestReviewHandler_ListReviews(t *testing.T) {
	service := &stubReviewService{reviews: map[string][]entities.Review{
		"f-1": {{ID: "r-1", FacilityID: "f-1", UserName: "Ama", Rating: 5}, {ID: "r-2", FacilityID: "f-1", UserName: "Kofi", Rating: 5}},
	}}
	handler := handlers.NewReviewHandler(service, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/facilities/f-1/reviews", nil)
	req.SetPathValue("id", "f-1")
	w := httptest.NewRecorder()
	handler.ListReviews(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response struct {
		Reviews []entities.Review      `json:"reviews"`
		Summary entities.ReviewSummary `json:"summary"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Len(t, response.Reviews, 2)
	assert.Equal(t, 5.0, response.Summary.Average)
	assert.Equal(t, 2, response.Summary.Count)
}

func TestReviewHandler_ListReviews_UnknownFacility(t *testing.T) {
	handler := handlers.NewReviewHandler(&stubReviewService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/facilities/nope/reviews", nil)
	req.SetPathValue("id", "nope")
	w := httptest.NewRecorder()
	handler.ListReviews(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReviewHandler_SubmitReview(t *testing.T) {
	service := &stubReviewService{}
	handler := handlers.NewReviewHandler(service, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/facilities/f-1/reviews",
		strings.NewReader(`{"user_name":"Ama","rating":4,"comment":"Short queue"}`))
	req.SetPathValue("id", "f-1")
	w := httptest.NewRecorder()
	handler.SubmitReview(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, service.submitted, 1)
	assert.Equal(t, entities.ReviewDraft{FacilityID: "f-1", UserName: "Ama", Rating: 4, Comment: "Short queue"}, service.submitted[0])

	var response map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "rev-1", response["id"])
}

func TestReviewHandler_SubmitReview_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		submitErr  error
		wantStatus int
		wantError  string
	}{
		{"malformed body", `{"rating":`, nil, http.StatusBadRequest, "invalid request payload"},
		{"validation", `{"user_name":"","rating":4}`, nil, http.StatusBadRequest, "user_name is required"},
		{"rating out of range", `{"user_name":"Ama","rating":6}`, nil, http.StatusBadRequest, "rating must be at most 5"},
		{"unknown facility", `{"user_name":"Ama","rating":4}`, apperrors.NewNotFoundError("facility not found"), http.StatusNotFound, "facility not found"},
		{"store failure", `{"user_name":"Ama","rating":4}`, apperrors.NewInternalError("failed to create review", errors.New("disk full")), http.StatusInternalServerError, "failed to submit review"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := handlers.NewReviewHandler(&stubReviewService{submitErr: tt.submitErr}, nil)

			req := httptest.NewRequest(http.MethodPost, "/api/facilities/f-1/reviews", strings.NewReader(tt.body))
			req.SetPathValue("id", "f-1")
			w := httptest.NewRecorder()
			handler.SubmitReview(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			var response map[string]string
			require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
			assert.Equal(t, tt.wantError, response["error"])
		})
	}
}

func TestReviewHandler_SubmitReview_RateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redisclient.NewClientFromOptions(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	service := &stubReviewService{}
	limiter := handlers.NewRateLimiter(cache.NewRedisAdapter(client), 2, time.Hour)
	handler := handlers.NewReviewHandler(service, limiter)

	submit := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/facilities/f-1/reviews", strings.NewReader(`{"user_name":"Ama","rating":4}`))
		req.SetPathValue("id", "f-1")
		req.RemoteAddr = "10.0.0.2:1234"
		w := httptest.NewRecorder()
		handler.SubmitReview(w, req)
		return w
	}

	assert.Equal(t, http.StatusCreated, submit().Code)
	assert.Equal(t, http.StatusCreated, submit().Code)

	w := submit()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "3600", w.Header().Get("Retry-After"))
	assert.Len(t, service.submitted, 2)

	mr.FastForward(time.Hour + time.Second)
	assert.Equal(t, http.StatusCreated, submit().Code)
}

func TestReviewHandler_SubmitReview_RejectedDraftsDoNotSpendQuota(t *testing.T) {
	service := &stubReviewService{}
	handler := handlers.NewReviewHandler(service, handlers.NewRateLimiter(nil, 1, time.Hour))

	submit := func(body string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/facilities/f-1/reviews", strings.NewReader(body))
		req.SetPathValue("id", "f-1")
		req.RemoteAddr = "10.0.0.3:1234"
		w := httptest.NewRecorder()
		handler.SubmitReview(w, req)
		return w.Code
	}

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusBadRequest, submit(`{"user_name":"Ama"}`))
	}
	assert.Equal(t, http.StatusCreated, submit(`{"user_name":"Ama","rating":4}`))
	assert.Equal(t, http.StatusTooManyRequests, submit(`{"user_name":"Ama","rating":4}`))
	assert.Len(t, service.submitted, 1)
}

func TestRateLimiter_LocalFallback(t *testing.T) {
	limiter := handlers.NewRateLimiter(nil, 1, time.Minute)

	allowed, _ := limiter.Allow(context.Background(), "k")
	assert.True(t, allowed)
	allowed, retryAfter := limiter.Allow(context.Background(), "k")
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))
	allowed, _ = limiter.Allow(context.Background(), "other")
	assert.True(t, allowed)
}

func TestMapsHandler_GetToken(t *testing.T) {
	tokens := mocks.NewMockMapTokenProvider(t)
	handler := handlers.NewMapsHandler(tokens, nil)

	tokens.EXPECT().Token(mock.Anything).Return(&providers.MapToken{Token: "pk.abc"}, nil)

	w := httptest.NewRecorder()
	handler.GetToken(w, httptest.NewRequest(http.MethodGet, "/api/maps/token", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"token":"pk.abc"}`, w.Body.String())
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestMapsHandler_GetToken_ProviderFailure(t *testing.T) {
	tokens := mocks.NewMockMapTokenProvider(t)
	handler := handlers.NewMapsHandler(tokens, nil)

	tokens.EXPECT().Token(mock.Anything).Return(nil, apperrors.NewExternalError("map token is not configured", nil))

	w := httptest.NewRecorder()
	handler.GetToken(w, httptest.NewRequest(http.MethodGet, "/api/maps/token", nil))

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestMapsHandler_GetDirections(t *testing.T) {
	directions := mocks.NewMockDirectionsProvider(t)
	handler := handlers.NewMapsHandler(nil, directions)

	origin := entities.Coordinates{Lat: 5.6037, Lng: -0.187}
	destination := entities.Coordinates{Lat: 5.5364, Lng: -0.2275}
	directions.EXPECT().Directions(mock.Anything, origin, destination).Return([]entities.Route{{
		Distance: 8500,
		Duration: 1260,
		Geometry: orb.LineString{{-0.187, 5.6037}, {-0.2275, 5.5364}},
	}}, nil)

	body := `{"origin":{"lat":5.6037,"lng":-0.187},"destination":{"lat":5.5364,"lng":-0.2275}}`
	w := httptest.NewRecorder()
	handler.GetDirections(w, httptest.NewRequest(http.MethodPost, "/api/maps/directions", strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"routes":[{"distance":8500,"duration":1260,"geometry":{"type":"LineString","coordinates":[[-0.187,5.6037],[-0.2275,5.5364]]}}]}`, w.Body.String())
}

func TestMapsHandler_GetDirections_NoRoute(t *testing.T) {
	directions := mocks.NewMockDirectionsProvider(t)
	handler := handlers.NewMapsHandler(nil, directions)

	directions.EXPECT().Directions(mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

	body := `{"origin":{"lat":5.6,"lng":-0.18},"destination":{"lat":9.4,"lng":-0.84}}`
	w := httptest.NewRecorder()
	handler.GetDirections(w, httptest.NewRequest(http.MethodPost, "/api/maps/directions", strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"routes":[]}`, w.Body.String())
}

func TestMapsHandler_GetDirections_InvalidCoordinates(t *testing.T) {
	handler := handlers.NewMapsHandler(nil, mocks.NewMockDirectionsProvider(t))

	body := `{"origin":{"lat":95,"lng":-0.18},"destination":{"lat":9.4,"lng":-0.84}}`
	w := httptest.NewRecorder()
	handler.GetDirections(w, httptest.NewRequest(http.MethodPost, "/api/maps/directions", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
