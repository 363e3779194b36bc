// Package regrid implements the spatial regridding engine: bilinear and
// inverse-distance interpolation between rectilinear grids, curvilinear
// grids and scattered points, nearest-cell binning of (x, y, value)
// triples, and the block dispatcher that applies the 2D kernels across
// arbitrarily many leading batch dimensions.
//
// All kernels consume plain coordinate and value slices, never metadata,
// and share one missing-value contract: a cell with zero contributing
// valid samples is exactly the missing sentinel, and missing inputs never
// enter a weighted sum or a distance competition. No kernel extrapolates
// beyond the envelope of the available source coordinates.
package regrid

import (
	"math"

	"go.ngs.io/regrid-api/internal/domain"
)

// earthRadiusKm is the mean Earth radius used by the great-circle metric.
const earthRadiusKm = 6371.0

// planarDist returns the Euclidean distance between two points in
// coordinate units.
func planarDist(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// greatCircleKm returns the haversine distance in kilometers between two
// longitude/latitude pairs given in degrees.
func greatCircleKm(lon1, lat1, lon2, lat2 float64) float64 {
	la1 := lat1 * math.Pi / 180
	la2 := lat2 * math.Pi / 180
	dla := la2 - la1
	dlo := (lon2 - lon1) * math.Pi / 180

	s1 := math.Sin(dla / 2)
	s2 := math.Sin(dlo / 2)
	h := s1*s1 + math.Cos(la1)*math.Cos(la2)*s2*s2
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// distance dispatches on the configured metric. x is longitude and y is
// latitude when the metric is great-circle.
func distance(method int, x1, y1, x2, y2 float64) float64 {
	if method == domain.MethodGreatCircle {
		return greatCircleKm(x1, y1, x2, y2)
	}
	return planarDist(x1, y1, x2, y2)
}
