package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"
	"github.com/rs/zerolog/log"

	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/entities"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/providers"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/repositories"
	"github.com/JamesKof/ghana-health-connect-sub000/pkg/validator"
)

const (
	defaultSummaryTTL = 10 * time.Minute
	summaryBatchWait  = 2 * time.Millisecond
)

func reviewSummaryCacheKey(facilityID string) string {
	return fmt.Sprintf("reviews:summary:%s", facilityID)
}

// FacilityReviews is a facility's review list together with its summary.
type FacilityReviews struct {
	Reviews []entities.Review      `json:"reviews"`
	Summary entities.ReviewSummary `json:"summary"`
}

// ReviewService handles review listing, submission and aggregation
type ReviewService struct {
	reviewRepo   repositories.ReviewRepository
	facilityRepo repositories.FacilityRepository
	cache        providers.CacheProvider
	summaryTTL   time.Duration
}

// NewReviewService creates a new review service. cache may be nil.
func NewReviewService(reviewRepo repositories.ReviewRepository, facilityRepo repositories.FacilityRepository, cache providers.CacheProvider) *ReviewService {
	return &ReviewService{
		reviewRepo:   reviewRepo,
		facilityRepo: facilityRepo,
		cache:        cache,
		summaryTTL:   defaultSummaryTTL,
	}
}

// ListForFacility returns a facility's reviews, newest first, with the
// summary recomputed from the full set.
func (s *ReviewService) ListForFacility(ctx context.Context, facilityID string) (*FacilityReviews, error) {
	if _, err := s.facilityRepo.GetByID(ctx, facilityID); err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.ListByFacility(ctx, facilityID)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []entities.Review{}
	}

	summary := entities.SummarizeReviews(reviews)
	summary.FacilityID = facilityID
	return &FacilityReviews{Reviews: reviews, Summary: summary}, nil
}

// Submit validates and stores a review. The facility's cached summary is
// dropped so the next listing reflects the new rating.
func (s *ReviewService) Submit(ctx context.Context, draft entities.ReviewDraft) (*entities.Review, error) {
	draft.Normalize()
	if err := validator.Validate(&draft); err != nil {
		return nil, err
	}

	if _, err := s.facilityRepo.GetByID(ctx, draft.FacilityID); err != nil {
		return nil, err
	}

	review := &entities.Review{
		ID:         uuid.New().String(),
		FacilityID: draft.FacilityID,
		UserName:   draft.UserName,
		Rating:     draft.Rating,
		Comment:    draft.Comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, reviewSummaryCacheKey(review.FacilityID)); err != nil {
			log.Warn().Err(err).Str("facility_id", review.FacilityID).Msg("Failed to invalidate review summary cache")
		}
	}

	log.Info().
		Str("facility_id", review.FacilityID).
		Str("review_id", review.ID).
		Int("rating", review.Rating).
		Msg("Review submitted")
	return review, nil
}

// NewSummaryLoader returns a request-scoped loader that batches summary
// lookups into one cache pass and at most one grouped query.
func (s *ReviewService) NewSummaryLoader() *dataloader.Loader[string, entities.ReviewSummary] {
	return dataloader.NewBatchedLoader(s.loadSummaries,
		dataloader.WithWait[string, entities.ReviewSummary](summaryBatchWait))
}

func (s *ReviewService) loadSummaries(ctx context.Context, keys []string) []*dataloader.Result[entities.ReviewSummary] {
	results := make([]*dataloader.Result[entities.ReviewSummary], len(keys))
	found := make(map[string]entities.ReviewSummary, len(keys))
	missing := make([]string, 0, len(keys))

	for _, key := range keys {
		if summary, ok := s.cachedSummary(ctx, key); ok {
			found[key] = summary
			continue
		}
		missing = append(missing, key)
	}

	if len(missing) > 0 {
		summaries, err := s.reviewRepo.SummariesByFacilities(ctx, missing)
		if err != nil {
			for i := range keys {
				results[i] = &dataloader.Result[entities.ReviewSummary]{Error: err}
			}
			return results
		}
		for _, key := range missing {
			summary, ok := summaries[key]
			if !ok {
				summary = entities.ReviewSummary{FacilityID: key}
			}
			found[key] = summary
			s.storeSummary(ctx, summary)
		}
	}

	for i, key := range keys {
		results[i] = &dataloader.Result[entities.ReviewSummary]{Data: found[key]}
	}
	return results
}

func (s *ReviewService) cachedSummary(ctx context.Context, facilityID string) (entities.ReviewSummary, bool) {
	if s.cache == nil {
		return entities.ReviewSummary{}, false
	}
	data, err := s.cache.Get(ctx, reviewSummaryCacheKey(facilityID))
	if err != nil {
		if !errors.Is(err, providers.ErrCacheMiss) {
			log.Warn().Err(err).Str("facility_id", facilityID).Msg("Review summary cache read failed")
		}
		return entities.ReviewSummary{}, false
	}
	var summary entities.ReviewSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return entities.ReviewSummary{}, false
	}
	summary.FacilityID = facilityID
	return summary, true
}

func (s *ReviewService) storeSummary(ctx context.Context, summary entities.ReviewSummary) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, reviewSummaryCacheKey(summary.FacilityID), data, s.summaryTTL); err != nil {
		log.Warn().Err(err).Str("facility_id", summary.FacilityID).Msg("Failed to cache review summary")
	}
}
