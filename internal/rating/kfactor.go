package rating

import "math"

// SeasonK returns the K-factor of season: the largest season field size in
// fieldSizes divided by this season's size, clamped to [KMin, KMax].
// Seasons missing from fieldSizes get KFallback. The maximum is taken over
// every season in fieldSizes, later ones included, so an early season's K
// already reflects the deepest field in the ground-truth table.
func (c Config) SeasonK(fieldSizes map[int]int, season int) float64 {
	size := fieldSizes[season]
	if size < 1 {
		return c.KFallback
	}
	maxSize := 0
	for _, n := range fieldSizes {
		if n > maxSize {
			maxSize = n
		}
	}
	k := float64(maxSize) / float64(size)
	return math.Min(c.KMax, math.Max(c.KMin, k))
}
