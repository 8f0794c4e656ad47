package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/JamesKof/ghana-health-connect-sub000/internal/adapters/cache"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/application/services"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/entities"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/providers"
	redisclient "github.com/JamesKof/ghana-health-connect-sub000/internal/infrastructure/clients/redis"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/mocks"
	apperrors "github.com/JamesKof/ghana-health-connect-sub000/pkg/errors"
)

var korleBu = &entities.Facility{
	ID:       "fac-1",
	Name:     "Korle Bu Teaching Hospital",
	Category: "Hospital",
	Region:   entities.RegionGreaterAccra,
	Location: entities.Location{Latitude: 5.5364, Longitude: -0.2275},
}

func newCache(t *testing.T) (providers.CacheProvider, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redisclient.NewClientFromOptions(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return cache.NewRedisAdapter(client), mr
}

func TestReviewService_ListForFacility_RecomputesSummary(t *testing.T) {
	ctx := context.Background()
	reviewRepo := mocks.NewMockReviewRepository(t)
	facilityRepo := mocks.NewMockFacilityRepository(t)
	service := services.NewReviewService(reviewRepo, facilityRepo, nil)

	facilityRepo.EXPECT().GetByID(mock.Anything, "fac-1").Return(korleBu, nil)
	reviewRepo.EXPECT().ListByFacility(mock.Anything, "fac-1").Return([]entities.Review{
		{ID: "r-3", FacilityID: "fac-1", Rating: 4},
		{ID: "r-2", FacilityID: "fac-1", Rating: 5},
		{ID: "r-1", FacilityID: "fac-1", Rating: 3},
	}, nil)

	result, err := service.ListForFacility(ctx, "fac-1")

	require.NoError(t, err)
	assert.Len(t, result.Reviews, 3)
	assert.Equal(t, "r-3", result.Reviews[0].ID)
	assert.Equal(t, entities.ReviewSummary{FacilityID: "fac-1", Average: 4.0, Count: 3}, result.Summary)
}

func TestReviewService_ListForFacility_NoReviews(t *testing.T) {
	reviewRepo := mocks.NewMockReviewRepository(t)
	facilityRepo := mocks.NewMockFacilityRepository(t)
	service := services.NewReviewService(reviewRepo, facilityRepo, nil)

	facilityRepo.EXPECT().GetByID(mock.Anything, "fac-1").Return(korleBu, nil)
	reviewRepo.EXPECT().ListByFacility(mock.Anything, "fac-1").Return(nil, nil)

	result, err := service.ListForFacility(context.Background(), "fac-1")

	require.NoError(t, err)
	assert.NotNil(t, result.Reviews)
	assert.Empty(t, result.Reviews)
	assert.Zero(t, result.Summary.Average)
	assert.Zero(t, result.Summary.Count)
}

func TestReviewService_ListForFacility_UnknownFacility(t *testing.T) {
	reviewRepo := mocks.NewMockReviewRepository(t)
	facilityRepo := mocks.NewMockFacilityRepository(t)
	service := services.NewReviewService(reviewRepo, facilityRepo, nil)

	facilityRepo.EXPECT().GetByID(mock.Anything, "nope").Return(nil, apperrors.NewNotFoundError("facility with id nope not found"))

	_, err := service.ListForFacility(context.Background(), "nope")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestReviewService_Submit(t *testing.T) {
	ctx := context.Background()
	reviewRepo := mocks.NewMockReviewRepository(t)
	facilityRepo := mocks.NewMockFacilityRepository(t)
	store, mr := newCache(t)
	service := services.NewReviewService(reviewRepo, facilityRepo, store)

	require.NoError(t, mr.Set("reviews:summary:fac-1", `{"average":3,"count":1}`))
	created := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	facilityRepo.EXPECT().GetByID(mock.Anything, "fac-1").Return(korleBu, nil)
	reviewRepo.EXPECT().
		Create(mock.Anything, mock.MatchedBy(func(r *entities.Review) bool {
			return r.FacilityID == "fac-1" && r.UserName == "Ama Mensah" && r.Rating == 5 && r.Comment == "Clean wards"
		})).
		Run(func(ctx context.Context, review *entities.Review) { review.CreatedAt = created }).
		Return(nil)

	review, err := service.Submit(ctx, entities.ReviewDraft{
		FacilityID: "fac-1",
		UserName:   "  Ama Mensah ",
		Rating:     5,
		Comment:    " Clean wards ",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, review.ID)
	assert.Equal(t, created, review.CreatedAt)
	assert.False(t, mr.Exists("reviews:summary:fac-1"))
}

func TestReviewService_Submit_ValidationBeforeStore(t *testing.T) {
	tests := []struct {
		name  string
		draft entities.ReviewDraft
	}{
		{"blank name", entities.ReviewDraft{FacilityID: "fac-1", UserName: "   ", Rating: 4}},
		{"unselected rating", entities.ReviewDraft{FacilityID: "fac-1", UserName: "Kofi"}},
		{"rating out of range", entities.ReviewDraft{FacilityID: "fac-1", UserName: "Kofi", Rating: 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reviewRepo := mocks.NewMockReviewRepository(t)
			facilityRepo := mocks.NewMockFacilityRepository(t)
			service := services.NewReviewService(reviewRepo, facilityRepo, nil)

			_, err := service.Submit(context.Background(), tt.draft)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
		})
	}
}

func TestFacilityService_ListWithRatings_BatchesSummaries(t *testing.T) {
	ctx := context.Background()
	reviewRepo := mocks.NewMockReviewRepository(t)
	facilityRepo := mocks.NewMockFacilityRepository(t)
	store, mr := newCache(t)
	reviews := services.NewReviewService(reviewRepo, facilityRepo, store)
	service := services.NewFacilityService(facilityRepo, reviews)

	require.NoError(t, mr.Set("reviews:summary:fac-3", `{"average":2.5,"count":2}`))

	facilityRepo.EXPECT().List(mock.Anything).Return([]entities.Facility{
		{ID: "fac-1", Name: "Achimota Hospital"},
		{ID: "fac-2", Name: "Ridge Hospital"},
		{ID: "fac-3", Name: "Tema General Hospital"},
	}, nil)
	reviewRepo.EXPECT().
		SummariesByFacilities(mock.Anything, mock.MatchedBy(func(ids []string) bool {
			return assert.ElementsMatch(t, []string{"fac-1", "fac-2"}, ids)
		})).
		Return(map[string]entities.ReviewSummary{"fac-1": {FacilityID: "fac-1", Average: 4.3, Count: 3}}, nil).
		Once()

	facilities, err := service.List(ctx, true)

	require.NoError(t, err)
	require.Len(t, facilities, 3)
	assert.Equal(t, 4.3, *facilities[0].Rating)
	assert.Equal(t, 3, *facilities[0].ReviewCount)
	assert.Equal(t, 0.0, *facilities[1].Rating)
	assert.Equal(t, 0, *facilities[1].ReviewCount)
	assert.Equal(t, 2.5, *facilities[2].Rating)
	assert.True(t, mr.Exists("reviews:summary:fac-2"))
}

func TestFacilityService_ListWithoutRatings(t *testing.T) {
	facilityRepo := mocks.NewMockFacilityRepository(t)
	service := services.NewFacilityService(facilityRepo, nil)

	facilityRepo.EXPECT().List(mock.Anything).Return(nil, nil)

	facilities, err := service.List(context.Background(), true)
	require.NoError(t, err)
	assert.NotNil(t, facilities)
	assert.Empty(t, facilities)
}

type stubWarmer struct {
	calls int
	err   error
}

func (w *stubWarmer) Warm(ctx context.Context) (int, error) {
	w.calls++
	return 12, w.err
}

func TestCacheWarmingService_StartWarmsImmediately(t *testing.T) {
	warmer := &stubWarmer{}
	service := services.NewCacheWarmingService(warmer)

	require.NoError(t, service.Start(context.Background(), "@every 1h"))
	service.Stop()

	assert.Equal(t, 1, warmer.calls)
}

func TestCacheWarmingService_RejectsBadSchedule(t *testing.T) {
	service := services.NewCacheWarmingService(&stubWarmer{})

	err := service.Start(context.Background(), "not a schedule")
	assert.Error(t, err)
}
