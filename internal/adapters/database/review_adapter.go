package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"

	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/entities"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/repositories"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/infrastructure/clients/postgres"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/infrastructure/observability"
	apperrors "github.com/JamesKof/ghana-health-connect-sub000/pkg/errors"
)

// ReviewAdapter implements the ReviewRepository interface
type ReviewAdapter struct {
	client  *postgres.Client
	metrics *observability.Metrics
}

// NewReviewAdapter creates a new review adapter. metrics may be nil.
func NewReviewAdapter(client *postgres.Client, metrics *observability.Metrics) repositories.ReviewRepository {
	return &ReviewAdapter{
		client:  client,
		metrics: metrics,
	}
}

// ListByFacility returns a facility's reviews, newest first
func (a *ReviewAdapter) ListByFacility(ctx context.Context, facilityID string) ([]entities.Review, error) {
	defer timed(ctx, a.metrics, "reviews.list")()

	query, args, err := dialect.From(reviewsTable).
		Prepared(true).
		Select("id", "facility_id", "user_name", "rating", "comment", "created_at").
		Where(goqu.C("facility_id").Eq(facilityID)).
		Order(goqu.C("created_at").Desc(), goqu.C("id").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build review query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list reviews", err)
	}
	defer rows.Close()

	reviews := []entities.Review{}
	for rows.Next() {
		var (
			r       entities.Review
			comment sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.FacilityID, &r.UserName, &r.Rating, &comment, &r.CreatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan review", err)
		}
		r.Comment = comment.String
		reviews = append(reviews, r)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating reviews", err)
	}

	return reviews, nil
}

// Create inserts a review and fills in the stored creation time
func (a *ReviewAdapter) Create(ctx context.Context, review *entities.Review) error {
	defer timed(ctx, a.metrics, "reviews.create")()

	query, args, err := dialect.Insert(reviewsTable).
		Prepared(true).
		Rows(goqu.Record{
			"id":          review.ID,
			"facility_id": review.FacilityID,
			"user_name":   review.UserName,
			"rating":      review.Rating,
			"comment":     nullString(review.Comment),
		}).
		Returning("created_at").
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build review insert", err)
	}

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&review.CreatedAt)
	switch pqCode(err) {
	case "":
	case pqForeignKeyViolation:
		return apperrors.NewNotFoundError("facility not found")
	case pqCheckViolation:
		return apperrors.NewValidationError("rating must be between 1 and 5")
	}
	if err != nil {
		return apperrors.NewInternalError("failed to create review", err)
	}
	return nil
}

// SummariesByFacilities aggregates review ratings per facility
func (a *ReviewAdapter) SummariesByFacilities(ctx context.Context, facilityIDs []string) (map[string]entities.ReviewSummary, error) {
	summaries := make(map[string]entities.ReviewSummary, len(facilityIDs))
	if len(facilityIDs) == 0 {
		return summaries, nil
	}
	defer timed(ctx, a.metrics, "reviews.summaries")()

	query, args, err := dialect.From(reviewsTable).
		Prepared(true).
		Select(
			goqu.C("facility_id"),
			goqu.AVG("rating").As("average"),
			goqu.COUNT(goqu.Star()).As("review_count"),
		).
		Where(goqu.C("facility_id").In(facilityIDs)).
		GroupBy("facility_id").
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build review summary query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to summarize reviews", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s entities.ReviewSummary
		if err := rows.Scan(&s.FacilityID, &s.Average, &s.Count); err != nil {
			return nil, apperrors.NewInternalError("failed to scan review summary", err)
		}
		s.Average = entities.RoundRating(s.Average)
		summaries[s.FacilityID] = s
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating review summaries", err)
	}

	return summaries, nil
}
