package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/JamesKof/ghana-health-connect-sub000/internal/application/services"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/entities"
	"github.com/JamesKof/ghana-health-connect-sub000/pkg/validator"
)

// ReviewService defines the review operations used by the handler.
type ReviewService interface {
	ListForFacility(ctx context.Context, facilityID string) (*services.FacilityReviews, error)
	Submit(ctx context.Context, draft entities.ReviewDraft) (*entities.Review, error)
}

// ReviewHandler handles facility review requests
type ReviewHandler struct {
	service ReviewService
	limiter *RateLimiter
}

// NewReviewHandler creates a new review handler. limiter may be nil.
func NewReviewHandler(service ReviewService, limiter *RateLimiter) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		limiter: limiter,
	}
}

type reviewRequest struct {
	UserName string `json:"user_name"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

// ListReviews handles GET /api/facilities/{id}/reviews
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	facilityID := r.PathValue("id")
	if facilityID == "" {
		respondWithError(w, http.StatusBadRequest, "facility ID is required")
		return
	}

	result, err := h.service.ListForFacility(r.Context(), facilityID)
	if err != nil {
		respondWithAppError(w, r, err, "failed to load reviews")
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// SubmitReview handles POST /api/facilities/{id}/reviews
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	facilityID := r.PathValue("id")
	if facilityID == "" {
		respondWithError(w, http.StatusBadRequest, "facility ID is required")
		return
	}

	var payload reviewRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	draft := entities.ReviewDraft{
		FacilityID: facilityID,
		UserName:   payload.UserName,
		Rating:     payload.Rating,
		Comment:    payload.Comment,
	}
	draft.Normalize()
	// Rejected drafts do not count against the submitter's quota.
	if err := validator.Validate(&draft); err != nil {
		respondWithAppError(w, r, err, "invalid review")
		return
	}

	allowed, retryAfter := h.limiter.Allow(r.Context(), "reviews:rate:"+clientIP(r))
	if !allowed {
		w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
		respondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	review, err := h.service.Submit(r.Context(), draft)
	if err != nil {
		respondWithAppError(w, r, err, "failed to submit review")
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{
		"id": review.ID,
	})
}
