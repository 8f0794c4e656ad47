package entities

import (
	"fmt"
	"strings"
)

// Facility represents a healthcare facility accredited under the scheme
type Facility struct {
	ID          string   `json:"id" db:"id"`
	Name        string   `json:"name" db:"name"`
	Category    string   `json:"category" db:"category"`
	Region      Region   `json:"region" db:"region"`
	Location    Location `json:"location" db:"-"`
	Services    []string `json:"services" db:"-"`
	PhoneNumber string   `json:"phone_number,omitempty" db:"phone_number"`
	Address     string   `json:"address,omitempty" db:"address"`

	// Populated only by listing endpoints that include ratings.
	Rating      *float64 `json:"rating,omitempty" db:"-"`
	ReviewCount *int     `json:"review_count,omitempty" db:"-"`
}

// Location represents geographical coordinates
type Location struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// Valid reports whether the coordinates are within WGS84 bounds.
func (l Location) Valid() bool {
	return l.Latitude >= -90 && l.Latitude <= 90 && l.Longitude >= -180 && l.Longitude <= 180
}

// Validate checks the invariants enforced where facilities are written.
func (f *Facility) Validate() error {
	if strings.TrimSpace(f.ID) == "" {
		return fmt.Errorf("facility id is required")
	}
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("facility %s: name is required", f.ID)
	}
	if !f.Region.Valid() {
		return fmt.Errorf("facility %s: unknown region %q", f.ID, f.Region)
	}
	if !f.Location.Valid() {
		return fmt.Errorf("facility %s: coordinates out of range (%f, %f)", f.ID, f.Location.Latitude, f.Location.Longitude)
	}
	return nil
}
