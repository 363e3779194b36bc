// Package domain holds the spatial representations moved between by the
// regridding engine: rectilinear grids, curvilinear grids, scattered point
// sets and (x, y, value) triples, plus the multi-dimensional fields defined
// on them.
package domain

// Rectilinear is a grid whose coordinates are two independent strictly
// monotonic 1D axes. X is the rightmost (longitude) axis, Y the second
// rightmost (latitude) axis.
type Rectilinear struct {
	X []float64
	Y []float64
}

// Nx returns the number of points along the X axis.
func (g Rectilinear) Nx() int { return len(g.X) }

// Ny returns the number of points along the Y axis.
func (g Rectilinear) Ny() int { return len(g.Y) }

// Validate checks the rectilinear grid invariants: at least two points per
// axis and strict monotonicity (ascending or descending) in both directions.
func (g Rectilinear) Validate() error {
	if len(g.X) < 2 || len(g.Y) < 2 {
		return shapeErrorf("rectilinear grid must have at least 2 points per axis, got %dx%d",
			len(g.Y), len(g.X))
	}
	if !strictlyMonotonic(g.X) {
		return &MonotonicityError{Axis: "x"}
	}
	if !strictlyMonotonic(g.Y) {
		return &MonotonicityError{Axis: "y"}
	}
	return nil
}

// Curvilinear is a logically rectangular grid whose coordinates are full 2D
// arrays, possibly non-monotonic along either logical axis. Lat2D and Lon2D
// are stored row-major with shape Ny x Nx. Latitudes must be oriented
// south-to-north along the first logical axis for the curvilinear kernels.
type Curvilinear struct {
	Lat2D []float64
	Lon2D []float64
	Ny    int
	Nx    int
}

// Lat returns the latitude at logical position (j, i).
func (g Curvilinear) Lat(j, i int) float64 { return g.Lat2D[j*g.Nx+i] }

// Lon returns the longitude at logical position (j, i).
func (g Curvilinear) Lon(j, i int) float64 { return g.Lon2D[j*g.Nx+i] }

// Validate checks that both coordinate arrays agree with the declared shape
// and that the grid has at least two points along each logical axis.
func (g Curvilinear) Validate() error {
	if g.Ny < 2 || g.Nx < 2 {
		return shapeErrorf("curvilinear grid must have at least 2 points per axis, got %dx%d",
			g.Ny, g.Nx)
	}
	if len(g.Lat2D) != g.Ny*g.Nx {
		return shapeErrorf("lat2d has %d elements, expected %d", len(g.Lat2D), g.Ny*g.Nx)
	}
	if len(g.Lon2D) != g.Ny*g.Nx {
		return shapeErrorf("lon2d has %d elements, expected %d", len(g.Lon2D), g.Ny*g.Nx)
	}
	return nil
}

// PointSet is an unstructured set of output locations. The coordinate
// vectors are paired: (X[k], Y[k]) is one location. Neither vector needs to
// be monotonic.
type PointSet struct {
	X []float64
	Y []float64
}

// Len returns the number of points.
func (p PointSet) Len() int { return len(p.X) }

// Validate checks that the coordinate vectors have equal, nonzero length.
func (p PointSet) Validate() error {
	if len(p.X) == 0 {
		return shapeErrorf("point set is empty")
	}
	if len(p.X) != len(p.Y) {
		return shapeErrorf("point set x and y must be the same length, got %d and %d",
			len(p.X), len(p.Y))
	}
	return nil
}

// TripleSet is an unordered sparse sample of a field: paired coordinate
// vectors plus aligned values.
type TripleSet struct {
	X      []float64
	Y      []float64
	Values []float64
}

// Len returns the number of samples.
func (t TripleSet) Len() int { return len(t.X) }

// Validate checks that coordinates and values are aligned.
func (t TripleSet) Validate() error {
	if len(t.X) != len(t.Y) {
		return shapeErrorf("triple set x and y must be the same length, got %d and %d",
			len(t.X), len(t.Y))
	}
	if len(t.Values) != len(t.X) {
		return shapeErrorf("triple set has %d values for %d coordinates",
			len(t.Values), len(t.X))
	}
	return nil
}

// strictlyMonotonic reports whether xs is strictly ascending or strictly
// descending. Mixed direction and repeated values both fail.
func strictlyMonotonic(xs []float64) bool {
	if len(xs) < 2 {
		return false
	}
	ascending := xs[1] > xs[0]
	for i := 1; i < len(xs); i++ {
		if ascending && xs[i] <= xs[i-1] {
			return false
		}
		if !ascending && xs[i] >= xs[i-1] {
			return false
		}
	}
	return true
}
