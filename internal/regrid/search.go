package regrid

import (
	"math"

	"go.ngs.io/regrid-api/internal/domain"
)

// axis performs bracket lookups over one strictly monotonic coordinate
// vector. Descending axes are handled by mirroring the index space so the
// binary search always runs over ascending values.
type axis struct {
	xs        []float64
	ascending bool
}

func newAxis(xs []float64) axis {
	return axis{xs: xs, ascending: xs[len(xs)-1] > xs[0]}
}

func (a axis) n() int { return len(a.xs) }

// at returns the coordinate at index i in storage order.
func (a axis) at(i int) float64 { return a.xs[i] }

// min and max bound the coordinate envelope.
func (a axis) min() float64 {
	if a.ascending {
		return a.xs[0]
	}
	return a.xs[len(a.xs)-1]
}

func (a axis) max() float64 {
	if a.ascending {
		return a.xs[len(a.xs)-1]
	}
	return a.xs[0]
}

// bracket locates the cell [i, i+1] containing x and the fractional
// position t of x within it. ok is false when x lies outside the axis
// envelope; no extrapolation is attempted.
func (a axis) bracket(x float64) (i int, t float64, ok bool) {
	if x < a.min() || x > a.max() {
		return 0, 0, false
	}
	lo, hi := 0, len(a.xs)-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if a.ascending == (x >= a.xs[mid]) {
			lo = mid
		} else {
			hi = mid
		}
	}
	t = (x - a.xs[lo]) / (a.xs[hi] - a.xs[lo])
	return lo, t, true
}

// cyclicBracket behaves like bracket but wraps the axis by one period: a
// target beyond the last coordinate is bracketed between the last and the
// first coordinate plus one period. The period is inferred as the axis
// span plus one mean cell width (span/(n-1)), matching longitude axes
// like 0.5..359.5. The wrap cell is therefore assumed to be one mean cell
// wide; on a non-uniformly spaced cyclic axis the fractional position
// inside the wrap cell is approximate.
func (a axis) cyclicBracket(x float64) (i int, t float64, ok bool) {
	if i, t, ok = a.bracket(x); ok {
		return i, t, true
	}
	n := len(a.xs)
	span := a.max() - a.min()
	period := span * float64(n) / float64(n-1)

	// Shift x into [min, min+period), then test the wrap cell.
	xw := math.Mod(x-a.min(), period)
	if xw < 0 {
		xw += period
	}
	xw += a.min()
	if i, t, ok = a.bracket(xw); ok {
		return i, t, true
	}
	if xw > a.max() {
		t = (xw - a.max()) / (period - span)
		if a.ascending {
			return n - 1, t, true // pair (n-1, 0)
		}
		// Descending: the minimum sits at index n-1, so the wrap cell runs
		// from there up to the maximum at index 0, with t measured from the
		// minimum plus one period.
		return n - 1, 1 - t, true
	}
	return 0, 0, false
}

// wrapIndex resolves the upper index of a cyclic cell pair.
func (a axis) wrapIndex(i int) int {
	if i == len(a.xs)-1 {
		return 0
	}
	return i + 1
}

// cellIndex identifies one curvilinear mesh cell by its lower-left logical
// corner.
type cellIndex struct {
	j, i int
}

// meshSearcher locates the mesh cell whose quadrilateral bounds a target
// coordinate. The mesh is scanned directly rather than indexed: meshes are
// small relative to the number of targets and their coordinates are not
// monotonic, so a global index structure buys little. Row bounding boxes
// are precomputed to skip rows cheaply.
type meshSearcher struct {
	grid   domain.Curvilinear
	rowMin []float64 // min latitude over rows j and j+1
	rowMax []float64
}

func newMeshSearcher(grid domain.Curvilinear) *meshSearcher {
	ms := &meshSearcher{
		grid:   grid,
		rowMin: make([]float64, grid.Ny-1),
		rowMax: make([]float64, grid.Ny-1),
	}
	for j := 0; j < grid.Ny-1; j++ {
		lo, hi := math.Inf(1), math.Inf(-1)
		for i := 0; i < grid.Nx; i++ {
			for _, v := range [2]float64{grid.Lat(j, i), grid.Lat(j+1, i)} {
				lo = math.Min(lo, v)
				hi = math.Max(hi, v)
			}
		}
		ms.rowMin[j] = lo
		ms.rowMax[j] = hi
	}
	return ms
}

// find returns the cell whose corner bounding box contains (lat, lon).
// ok is false when no cell brackets the target; on warped meshes this can
// happen for interior targets as well as exterior ones, which is why the
// grid-target kernels run a gap-fill pass afterwards.
func (ms *meshSearcher) find(lat, lon float64) (cellIndex, bool) {
	g := ms.grid
	for j := 0; j < g.Ny-1; j++ {
		if lat < ms.rowMin[j] || lat > ms.rowMax[j] {
			continue
		}
		for i := 0; i < g.Nx-1; i++ {
			latLo := math.Min(math.Min(g.Lat(j, i), g.Lat(j, i+1)),
				math.Min(g.Lat(j+1, i), g.Lat(j+1, i+1)))
			latHi := math.Max(math.Max(g.Lat(j, i), g.Lat(j, i+1)),
				math.Max(g.Lat(j+1, i), g.Lat(j+1, i+1)))
			if lat < latLo || lat > latHi {
				continue
			}
			lonLo := math.Min(math.Min(g.Lon(j, i), g.Lon(j, i+1)),
				math.Min(g.Lon(j+1, i), g.Lon(j+1, i+1)))
			lonHi := math.Max(math.Max(g.Lon(j, i), g.Lon(j, i+1)),
				math.Max(g.Lon(j+1, i), g.Lon(j+1, i+1)))
			if lon < lonLo || lon > lonHi {
				continue
			}
			return cellIndex{j: j, i: i}, true
		}
	}
	return cellIndex{}, false
}

// corners lists the four corner offsets of a mesh cell into the flat
// row-major value slice.
func (ms *meshSearcher) corners(c cellIndex) [4]int {
	nx := ms.grid.Nx
	base := c.j*nx + c.i
	return [4]int{base, base + 1, base + nx, base + nx + 1}
}
