package clustering

import (
	"math"
	"sort"
)

// OriginalZoomLevel is served from the unclustered graph.
const OriginalZoomLevel = 0.1

var DefaultZoomLevels = []float64{0.3, 0.5, 1.0}

// ParamsForZoom picks eps and min samples for a zoom level. larger graphs get a larger eps and a stricter
// density requirement, larger zoom values (further away) get a larger eps.
func ParamsForZoom(zoom float64, nodeCount int) Params {
	var minSamples int
	var sizeFactor float64
	switch {
	case nodeCount < 100:
		minSamples, sizeFactor = 3, 0.01
	case nodeCount < 500:
		minSamples, sizeFactor = 4, 0.1
	case nodeCount < 1000:
		minSamples, sizeFactor = 5, 0.5
	case nodeCount < 5000:
		minSamples, sizeFactor = 6, 2
	default:
		minSamples, sizeFactor = 8, 2.5
	}

	var base float64
	switch {
	case zoom <= 0.2:
		base = 10
	case zoom <= 0.3:
		base = 15
	case zoom <= 0.5:
		base = 20
	case zoom <= 1.0:
		base = 50
	default:
		base = 100
	}

	return Params{Eps: base * sizeFactor, MinSamples: minSamples}
}

// ResolveZoomLevel maps a requested zoom to a precomputed level. original is true for OriginalZoomLevel,
// which is never clustered. ok is false when levels is empty.
func ResolveZoomLevel(zoom float64, levels []float64) (level float64, original bool, ok bool) {
	if zoom == OriginalZoomLevel {
		return OriginalZoomLevel, true, true
	}
	if len(levels) == 0 {
		return 0, false, false
	}

	sorted := make([]float64, len(levels))
	copy(sorted, levels)
	sort.Float64s(sorted)

	for _, l := range sorted {
		if l == zoom {
			return l, false, true
		}
	}
	if zoom <= 0.2 {
		for _, l := range sorted {
			if l == 0.3 {
				return l, false, true
			}
		}
	}

	best := sorted[0]
	for _, l := range sorted[1:] {
		if math.Abs(l-zoom) < math.Abs(best-zoom) {
			best = l
		}
	}
	return best, false, true
}
