// Package locator is the headless facility locator: filtering, selection,
// directions and review state for one user session, driving a map surface.
package locator

import (
	"strings"

	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/entities"
)

// Filter narrows the facility list by free text and region.
type Filter struct {
	Query  string
	Region entities.Region
}

// Matches reports whether f passes both the text and the region criteria.
// The query is matched case-insensitively against name and category. An
// empty region or AllRegions matches every facility.
func (flt Filter) Matches(f entities.Facility) bool {
	if flt.Region != "" && flt.Region != entities.AllRegions && f.Region != flt.Region {
		return false
	}
	q := strings.ToLower(flt.Query)
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(f.Name), q) ||
		strings.Contains(strings.ToLower(f.Category), q)
}

// Apply returns the matching facilities in their original order.
func (flt Filter) Apply(facilities []entities.Facility) []entities.Facility {
	out := make([]entities.Facility, 0, len(facilities))
	for _, f := range facilities {
		if flt.Matches(f) {
			out = append(out, f)
		}
	}
	return out
}
