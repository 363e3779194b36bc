package regrid

import (
	"math"

	"go.ngs.io/regrid-api/internal/domain"
)

// binTarget is one precomputed sample assignment: the flat grid cell the
// sample is nearest to and its distance. cell is -1 for samples excluded
// by the domain or search-radius options.
type binTarget struct {
	cell int
	dist float64
}

// nearestIndex returns the index of the axis value closest to x. The axis
// is strictly monotonic so the bracket neighbors are the only candidates.
func nearestIndex(ax axis, x float64) int {
	if ax.ascending {
		if x <= ax.xs[0] {
			return 0
		}
		if x >= ax.xs[ax.n()-1] {
			return ax.n() - 1
		}
	} else {
		if x >= ax.xs[0] {
			return 0
		}
		if x <= ax.xs[ax.n()-1] {
			return ax.n() - 1
		}
	}
	i, t, _ := ax.bracket(x)
	if t > 0.5 {
		return i + 1
	}
	return i
}

// edgeWidths returns the cell widths adjacent to the coordinate minimum
// and maximum of a strictly monotonic axis.
func edgeWidths(xs []float64) (lo, hi float64) {
	first := math.Abs(xs[1] - xs[0])
	last := math.Abs(xs[len(xs)-1] - xs[len(xs)-2])
	if xs[len(xs)-1] > xs[0] {
		return first, last
	}
	return last, first
}

// binTargets assigns every sample coordinate to its nearest grid cell,
// applying the domain widening at the grid boundary and the distmx search
// radius. The assignment depends only on coordinates, so it is shared by
// every batch slice.
func binTargets(x, y []float64, grid domain.Rectilinear, opt domain.Options) []binTarget {
	xAx, yAx := newAxis(grid.X), newAxis(grid.Y)
	nx := grid.Nx()

	// Boundary cells may catch samples up to domain cell-widths outside
	// the grid, each side scaled by its own edge cell so non-uniform axes
	// widen correctly; domain <= 0 restricts binning to in-domain samples.
	xLo, xHi := xAx.min(), xAx.max()
	yLo, yHi := yAx.min(), yAx.max()
	if opt.Domain > 0 {
		dxLo, dxHi := edgeWidths(grid.X)
		dyLo, dyHi := edgeWidths(grid.Y)
		xLo -= opt.Domain * dxLo
		xHi += opt.Domain * dxHi
		yLo -= opt.Domain * dyLo
		yHi += opt.Domain * dyHi
	}

	out := make([]binTarget, len(x))
	for k := range x {
		out[k].cell = -1
		if x[k] < xLo || x[k] > xHi || y[k] < yLo || y[k] > yHi {
			continue
		}
		i := nearestIndex(xAx, x[k])
		j := nearestIndex(yAx, y[k])
		d := distance(opt.Method, x[k], y[k], grid.X[i], grid.Y[j])
		if opt.Method == domain.MethodGreatCircle && d > opt.Distmx {
			continue
		}
		out[k] = binTarget{cell: j*nx + i, dist: d}
	}
	return out
}

// TripleToGrid places unstructured (x, y, value) samples onto the nearest
// cells of a rectilinear grid. This is nearest-cell assignment, not
// interpolation: when several samples bin to one cell the closest wins,
// and a cell with no qualifying sample stays missing. The rightmost axis
// of data (sample count) is replaced by the grid's two axes.
func TripleToGrid(x, y []float64, data *domain.Field, grid domain.Rectilinear,
	opt domain.Options, chunks Chunking, workers int) (*domain.Field, error) {

	if err := opt.Validate(); err != nil {
		return nil, err
	}
	if len(x) != len(y) {
		return nil, &domain.ShapeError{Msg: "triple x and y must be the same length"}
	}
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	if err := data.ValidateSpatial(len(x)); err != nil {
		return nil, err
	}

	targets := binTargets(x, y, grid, opt)
	ny, nx := grid.Ny(), grid.Nx()

	kernel := func(in, out []float64) {
		for c := range out {
			out[c] = opt.Missing
		}
		best := make([]float64, len(out))
		for k, tg := range targets {
			if tg.cell < 0 {
				continue
			}
			v := in[k]
			if domain.IsMissing(v, opt.Missing) {
				continue
			}
			if !domain.IsMissing(out[tg.cell], opt.Missing) && tg.dist >= best[tg.cell] {
				continue
			}
			out[tg.cell] = v
			best[tg.cell] = tg.dist
		}
	}

	return Dispatch(data, 1, []int{ny, nx}, data.DType, chunks, workers, kernel)
}

// GridToTriple flattens a 2D field into (x, y, value) triples, dropping
// entries equal to the missing sentinel. The result holds at most ny*nx
// samples, shrinking by exactly the number of missing cells.
func GridToTriple(x, y []float64, z *domain.Field, opt domain.Options) (domain.TripleSet, error) {
	if err := opt.Validate(); err != nil {
		return domain.TripleSet{}, err
	}
	if z.NDim() != 2 {
		return domain.TripleSet{}, &domain.ShapeError{Msg: "grid2triple input must be two-dimensional"}
	}
	if err := z.ValidateSpatial(len(y), len(x)); err != nil {
		return domain.TripleSet{}, err
	}

	t := domain.TripleSet{
		X:      make([]float64, 0, z.Size()),
		Y:      make([]float64, 0, z.Size()),
		Values: make([]float64, 0, z.Size()),
	}
	for j := range y {
		for i := range x {
			v := z.Values[j*len(x)+i]
			if domain.IsMissing(v, opt.Missing) {
				continue
			}
			t.X = append(t.X, x[i])
			t.Y = append(t.Y, y[j])
			t.Values = append(t.Values, v)
		}
	}
	return t, nil
}
