package entities

import "strings"

// Region is one of Ghana's administrative regions.
type Region string

// AllRegions is the wildcard selector value; it is never stored on a facility.
const AllRegions Region = "All Regions"

const (
	RegionAhafo        Region = "Ahafo"
	RegionAshanti      Region = "Ashanti"
	RegionBono         Region = "Bono"
	RegionBonoEast     Region = "Bono East"
	RegionCentral      Region = "Central"
	RegionEastern      Region = "Eastern"
	RegionGreaterAccra Region = "Greater Accra"
	RegionNorthEast    Region = "North East"
	RegionNorthern     Region = "Northern"
	RegionOti          Region = "Oti"
	RegionSavannah     Region = "Savannah"
	RegionUpperEast    Region = "Upper East"
	RegionUpperWest    Region = "Upper West"
	RegionVolta        Region = "Volta"
	RegionWestern      Region = "Western"
	RegionWesternNorth Region = "Western North"
)

var regions = []Region{
	RegionAhafo,
	RegionAshanti,
	RegionBono,
	RegionBonoEast,
	RegionCentral,
	RegionEastern,
	RegionGreaterAccra,
	RegionNorthEast,
	RegionNorthern,
	RegionOti,
	RegionSavannah,
	RegionUpperEast,
	RegionUpperWest,
	RegionVolta,
	RegionWestern,
	RegionWesternNorth,
}

// Regions returns the fixed region list in display order.
func Regions() []Region {
	out := make([]Region, len(regions))
	copy(out, regions)
	return out
}

// Valid reports whether r is a known region. AllRegions is not a region.
func (r Region) Valid() bool {
	for _, known := range regions {
		if r == known {
			return true
		}
	}
	return false
}

// ParseRegion resolves user input case-insensitively. Empty input and the
// wildcard both map to AllRegions.
func ParseRegion(s string) (Region, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, string(AllRegions)) {
		return AllRegions, true
	}
	for _, known := range regions {
		if strings.EqualFold(s, string(known)) {
			return known, true
		}
	}
	return "", false
}
