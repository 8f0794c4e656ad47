package locator

import (
	"fmt"
	"math"
)

// FormatDistance renders meters as "850 m" below one kilometer and as
// "1.5 km" from there on.
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%d m", int(math.Round(meters)))
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}

// FormatDuration renders seconds as whole minutes, switching to hours and
// minutes at one hour. Partial minutes are dropped.
func FormatDuration(seconds float64) string {
	minutes := int(math.Floor(seconds / 60))
	if minutes < 0 {
		minutes = 0
	}
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
