package repositories

import (
	"context"

	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/entities"
)

// FacilityRepository defines read access to the facility store.
// Facilities are maintained by an administrative process; Upsert exists for seeding only.
type FacilityRepository interface {
	// List returns every facility ordered by name ascending
	List(ctx context.Context) ([]entities.Facility, error)

	// GetByID retrieves a facility by ID
	GetByID(ctx context.Context, id string) (*entities.Facility, error)

	// Upsert inserts or replaces a facility
	Upsert(ctx context.Context, facility *entities.Facility) error
}
