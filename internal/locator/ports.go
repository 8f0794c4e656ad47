package locator

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/entities"
)

// Store is the facility and review backend.
type Store interface {
	// ListFacilities returns every facility ordered by name.
	ListFacilities(ctx context.Context) ([]entities.Facility, error)
	// ListReviews returns a facility's reviews, newest first.
	ListReviews(ctx context.Context, facilityID string) ([]entities.Review, error)
	SubmitReview(ctx context.Context, draft entities.ReviewDraft) error
}

// DirectionsSource computes routes. No routes is a valid answer.
type DirectionsSource interface {
	Directions(ctx context.Context, origin, destination entities.Coordinates) ([]entities.Route, error)
}

// ErrPermissionDenied is returned by a Geolocator when the user refused
// access to their position.
var ErrPermissionDenied = errors.New("geolocation permission denied")

// Geolocator provides a single best-effort position fix.
type Geolocator interface {
	CurrentPosition(ctx context.Context) (entities.Coordinates, error)
}

// GeolocatorFunc adapts a function to Geolocator.
type GeolocatorFunc func(ctx context.Context) (entities.Coordinates, error)

func (f GeolocatorFunc) CurrentPosition(ctx context.Context) (entities.Coordinates, error) {
	return f(ctx)
}

// NoticeLevel is the severity of a user-facing notice.
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeWarning
	NoticeError
)

func (l NoticeLevel) String() string {
	switch l {
	case NoticeWarning:
		return "warning"
	case NoticeError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a short transient message for the user.
type Notice struct {
	Level   NoticeLevel
	Message string
}

// Notifier shows notices. It is never called with session state locked, so
// implementations may call back into the session.
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

type logNotifier struct {
	logger zerolog.Logger
}

func (l logNotifier) Notify(n Notice) {
	event := l.logger.Info()
	switch n.Level {
	case NoticeWarning:
		event = l.logger.Warn()
	case NoticeError:
		event = l.logger.Error()
	}
	event.Msg(n.Message)
}
