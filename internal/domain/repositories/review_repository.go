package repositories

import (
	"context"

	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/entities"
)

// ReviewRepository defines review persistence.
type ReviewRepository interface {
	// ListByFacility returns a facility's reviews, newest first. No reviews is not an error.
	ListByFacility(ctx context.Context, facilityID string) ([]entities.Review, error)

	// Create inserts a review; the store assigns created_at.
	Create(ctx context.Context, review *entities.Review) error

	// SummariesByFacilities aggregates ratings for many facilities in one query.
	// Facilities without reviews are absent from the result.
	SummariesByFacilities(ctx context.Context, facilityIDs []string) (map[string]entities.ReviewSummary, error)
}
