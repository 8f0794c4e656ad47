package entities

import (
	"math"
	"strings"
	"time"
)

// MinRating and MaxRating bound a review's star rating.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a user-submitted rating attached to one facility.
type Review struct {
	ID         string    `json:"id" db:"id"`
	FacilityID string    `json:"facility_id" db:"facility_id"`
	UserName   string    `json:"user_name" db:"user_name"`
	Rating     int       `json:"rating" db:"rating"`
	Comment    string    `json:"comment,omitempty" db:"comment"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// ReviewDraft is a review as entered by a user, before it is stored.
type ReviewDraft struct {
	FacilityID string `json:"-" validate:"required"`
	UserName   string `json:"user_name" validate:"required,max=100"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Comment    string `json:"comment" validate:"max=1000"`
}

// Normalize trims free-text fields in place.
func (d *ReviewDraft) Normalize() {
	d.FacilityID = strings.TrimSpace(d.FacilityID)
	d.UserName = strings.TrimSpace(d.UserName)
	d.Comment = strings.TrimSpace(d.Comment)
}

// ReviewSummary is the derived rating of a facility.
type ReviewSummary struct {
	FacilityID string  `json:"facility_id,omitempty"`
	Average    float64 `json:"average"`
	Count      int     `json:"count"`
}

// SummarizeReviews recomputes the average (one decimal) and count from the
// full review set. An empty set yields 0 and 0.
func SummarizeReviews(reviews []Review) ReviewSummary {
	if len(reviews) == 0 {
		return ReviewSummary{}
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return ReviewSummary{
		FacilityID: reviews[0].FacilityID,
		Average:    RoundRating(float64(sum) / float64(len(reviews))),
		Count:      len(reviews),
	}
}

// RoundRating rounds a mean rating to one decimal place.
func RoundRating(mean float64) float64 {
	return math.Round(mean*10) / 10
}

const (
	starFilled = "★"
	starEmpty  = "☆"
)

// Stars renders exactly five symbols, the first rating of them filled.
func Stars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > MaxRating {
		rating = MaxRating
	}
	return strings.Repeat(starFilled, rating) + strings.Repeat(starEmpty, MaxRating-rating)
}

// StarsForAverage renders the rounded average.
func StarsForAverage(average float64) string {
	return Stars(int(math.Round(average)))
}
