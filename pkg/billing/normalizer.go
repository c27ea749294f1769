package billing

import "math"

// NormalizeHours converts reported hours into whole billing hours. Partial
// hours are truncated, never rounded, so billing can only err in the client's
// favor. Negative and NaN input collapses to 0.
func NormalizeHours(rawHours float64) float64 {
	if math.IsNaN(rawHours) || rawHours <= 0 {
		return 0
	}
	return math.Floor(rawHours)
}
