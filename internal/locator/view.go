package locator

import (
	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/entities"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/locator/mapsurface"
)

// View is a point-in-time snapshot of everything a front-end renders.
type View struct {
	Loaded     bool
	Facilities []entities.Facility
	Total      int
	Query      string
	Region     entities.Region

	Phase    Phase
	Selected *entities.Facility

	Reviews        []entities.Review
	Summary        entities.ReviewSummary
	SummaryStars   string
	ReviewsLoading bool

	UserLocation      *entities.Coordinates
	Route             *entities.Route
	Distance          string
	Duration          string
	DirectionsLoading bool
	CanGetDirections  bool
	DirectionsLabel   string

	MapState mapsurface.State
	MapError string
}

// View returns the current state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		Loaded:            s.loaded,
		Facilities:        s.filter.Apply(s.facilities),
		Total:             len(s.facilities),
		Query:             s.filter.Query,
		Region:            s.filter.Region,
		Phase:             s.phase,
		Summary:           s.summary,
		SummaryStars:      entities.StarsForAverage(s.summary.Average),
		ReviewsLoading:    s.reviewsLoading,
		DirectionsLoading: s.directionsLoading,
	}
	if s.reviews != nil {
		v.Reviews = make([]entities.Review, len(s.reviews))
		copy(v.Reviews, s.reviews)
	}
	if s.selected != nil {
		f := *s.selected
		v.Selected = &f
	}
	if s.userLocation != nil {
		p := *s.userLocation
		v.UserLocation = &p
	}
	if s.route != nil {
		r := *s.route
		v.Route = &r
		v.Distance = FormatDistance(r.Distance)
		v.Duration = FormatDuration(r.Duration)
	}

	switch {
	case s.userLocation == nil:
		v.DirectionsLabel = LabelEnableLocation
	case s.directionsLoading:
		v.DirectionsLabel = LabelFetching
	default:
		v.DirectionsLabel = LabelGetDirections
	}
	v.CanGetDirections = s.userLocation != nil && s.selected != nil && !s.directionsLoading

	state, err := s.mapc.State()
	v.MapState = state
	if err != nil {
		v.MapError = err.Error()
	}
	return v
}
