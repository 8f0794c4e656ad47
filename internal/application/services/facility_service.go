package services

import (
	"context"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/entities"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/repositories"
)

// FacilityService handles business logic for facilities
type FacilityService struct {
	repo    repositories.FacilityRepository
	reviews *ReviewService
}

// NewFacilityService creates a new facility service
func NewFacilityService(repo repositories.FacilityRepository, reviews *ReviewService) *FacilityService {
	return &FacilityService{
		repo:    repo,
		reviews: reviews,
	}
}

// List returns every facility ordered by name. With includeRatings each
// facility carries its review average and count.
func (s *FacilityService) List(ctx context.Context, includeRatings bool) ([]entities.Facility, error) {
	facilities, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if facilities == nil {
		facilities = []entities.Facility{}
	}
	if !includeRatings || s.reviews == nil || len(facilities) == 0 {
		return facilities, nil
	}

	loader := s.reviews.NewSummaryLoader()
	thunks := make([]dataloader.Thunk[entities.ReviewSummary], len(facilities))
	for i := range facilities {
		thunks[i] = loader.Load(ctx, facilities[i].ID)
	}

	for i, thunk := range thunks {
		summary, err := thunk()
		if err != nil {
			return nil, err
		}
		rating, count := summary.Average, summary.Count
		facilities[i].Rating = &rating
		facilities[i].ReviewCount = &count
	}
	return facilities, nil
}

// GetByID retrieves a facility by ID
func (s *FacilityService) GetByID(ctx context.Context, id string) (*entities.Facility, error) {
	return s.repo.GetByID(ctx, id)
}
