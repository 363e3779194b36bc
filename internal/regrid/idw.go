package regrid

import (
	"math"

	"go.ngs.io/regrid-api/internal/domain"
)

// neighbors is one precomputed target lookup: up to four source offsets
// into the flat value slice and their distances to the target. found is
// false when the search could not bracket the target.
type neighbors struct {
	idx   [4]int
	dist  [4]float64
	found bool
}

// idwValue combines the neighbor values by inverse-distance weighting.
// A zero-distance neighbor returns its exact source value. Missing
// neighbors are excluded from both the weighted sum and the denominator;
// only when no usable neighbor remains is the result missing.
func idwValue(in []float64, nb neighbors, power int, missing float64) float64 {
	if !nb.found {
		return missing
	}
	var sum, wsum float64
	any := false
	for k := 0; k < 4; k++ {
		v := in[nb.idx[k]]
		if domain.IsMissing(v, missing) {
			continue
		}
		d := nb.dist[k]
		if d == 0 {
			return v
		}
		w := 1 / math.Pow(d, float64(power))
		sum += w * v
		wsum += w
		any = true
	}
	if !any {
		return missing
	}
	return sum / wsum
}

// gapFill re-estimates grid cells left missing by the primary search pass
// using 1D linear interpolation from their immediate resolved neighbors:
// first along rows, then along columns for cells a row pass could not
// reach. xs and ys supply the coordinate spacing; nil means uniform
// (index-space) spacing. Edge cells with no resolved neighbor on both
// sides stay missing, which is accepted output.
func gapFill(out []float64, ny, nx int, xs, ys []float64, missing float64) {
	snap := make([]float64, len(out))

	frac := func(coords []float64, k int) float64 {
		if coords == nil {
			return 0.5
		}
		return (coords[k] - coords[k-1]) / (coords[k+1] - coords[k-1])
	}

	copy(snap, out)
	for j := 0; j < ny; j++ {
		row := snap[j*nx : (j+1)*nx]
		for i := 1; i < nx-1; i++ {
			if !domain.IsMissing(row[i], missing) {
				continue
			}
			l, r := row[i-1], row[i+1]
			if domain.IsMissing(l, missing) || domain.IsMissing(r, missing) {
				continue
			}
			t := frac(xs, i)
			out[j*nx+i] = (1-t)*l + t*r
		}
	}

	copy(snap, out)
	for i := 0; i < nx; i++ {
		for j := 1; j < ny-1; j++ {
			if !domain.IsMissing(snap[j*nx+i], missing) {
				continue
			}
			d, u := snap[(j-1)*nx+i], snap[(j+1)*nx+i]
			if domain.IsMissing(d, missing) || domain.IsMissing(u, missing) {
				continue
			}
			t := frac(ys, j)
			out[j*nx+i] = (1-t)*d + t*u
		}
	}
}

// curvNeighbors resolves each (lat, lon) target against a curvilinear
// mesh: the bracketing cell's four corners with their distances.
func curvNeighbors(grid domain.Curvilinear, lats, lons []float64, method int) []neighbors {
	ms := newMeshSearcher(grid)
	out := make([]neighbors, len(lats))
	for k := range lats {
		cell, ok := ms.find(lats[k], lons[k])
		if !ok {
			continue
		}
		nb := neighbors{idx: ms.corners(cell), found: true}
		for c, off := range nb.idx {
			nb.dist[c] = distance(method, lons[k], lats[k], grid.Lon2D[off], grid.Lat2D[off])
		}
		out[k] = nb
	}
	return out
}

// rectNeighbors resolves each (lat, lon) target against a rectilinear
// source grid: the bracketing cell's four corners with their distances.
func rectNeighbors(src domain.Rectilinear, lats, lons []float64, method int) []neighbors {
	xAx, yAx := newAxis(src.X), newAxis(src.Y)
	nx := src.Nx()
	out := make([]neighbors, len(lats))
	for k := range lats {
		i, _, okX := xAx.bracket(lons[k])
		j, _, okY := yAx.bracket(lats[k])
		if !okX || !okY {
			continue
		}
		nb := neighbors{
			idx:   [4]int{j*nx + i, j*nx + i + 1, (j+1)*nx + i, (j+1)*nx + i + 1},
			found: true,
		}
		corners := [4][2]float64{
			{src.X[i], src.Y[j]}, {src.X[i+1], src.Y[j]},
			{src.X[i], src.Y[j+1]}, {src.X[i+1], src.Y[j+1]},
		}
		for c := range corners {
			nb.dist[c] = distance(method, lons[k], lats[k], corners[c][0], corners[c][1])
		}
		out[k] = nb
	}
	return out
}

// CurvToRect interpolates fi from a curvilinear grid to a rectilinear one
// by inverse-distance weighting over the four bracketing mesh corners,
// followed by a linear gap-fill pass over interior cells the mesh search
// could not resolve. No extrapolation; latitudes of the mesh must run
// south-to-north along the first logical axis.
func CurvToRect(src domain.Curvilinear, fi *domain.Field, target domain.Rectilinear,
	opt domain.Options, chunks Chunking, workers int) (*domain.Field, error) {

	if err := opt.Validate(); err != nil {
		return nil, err
	}
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if err := fi.ValidateSpatial(src.Ny, src.Nx); err != nil {
		return nil, err
	}

	ny, nx := target.Ny(), target.Nx()
	lats := make([]float64, 0, ny*nx)
	lons := make([]float64, 0, ny*nx)
	for _, y := range target.Y {
		for _, x := range target.X {
			lats = append(lats, y)
			lons = append(lons, x)
		}
	}
	nbs := curvNeighbors(src, lats, lons, opt.Method)

	kernel := func(in, out []float64) {
		for k := range out {
			out[k] = idwValue(in, nbs[k], opt.WeightingPower, opt.Missing)
		}
		gapFill(out, ny, nx, target.X, target.Y, opt.Missing)
	}

	return Dispatch(fi, 2, []int{ny, nx}, fi.DType, chunks, workers, kernel)
}

// RectToCurv interpolates fi from a rectilinear grid to a curvilinear one
// by inverse-distance weighting over the four bracketing cell corners,
// followed by a gap-fill pass along the output's logical axes. The logical
// axes of a curvilinear target carry no coordinate spacing, so the fill
// interpolates in index space.
func RectToCurv(src domain.Rectilinear, fi *domain.Field, target domain.Curvilinear,
	opt domain.Options, chunks Chunking, workers int) (*domain.Field, error) {

	if err := opt.Validate(); err != nil {
		return nil, err
	}
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if err := fi.ValidateSpatial(src.Ny(), src.Nx()); err != nil {
		return nil, err
	}

	nbs := rectNeighbors(src, target.Lat2D, target.Lon2D, opt.Method)

	kernel := func(in, out []float64) {
		for k := range out {
			out[k] = idwValue(in, nbs[k], opt.WeightingPower, opt.Missing)
		}
		gapFill(out, target.Ny, target.Nx, nil, nil, opt.Missing)
	}

	return Dispatch(fi, 2, []int{target.Ny, target.Nx}, fi.DType, chunks, workers, kernel)
}

// CurvToPoints interpolates fi from a curvilinear grid to an unstructured
// set of coordinate pairs. Points the mesh search cannot bracket come back
// missing; there is no gap-fill pass because scattered targets have no
// regular axes to fill along.
func CurvToPoints(src domain.Curvilinear, fi *domain.Field, points domain.PointSet,
	opt domain.Options, chunks Chunking, workers int) (*domain.Field, error) {

	if err := opt.Validate(); err != nil {
		return nil, err
	}
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if err := points.Validate(); err != nil {
		return nil, err
	}
	if err := fi.ValidateSpatial(src.Ny, src.Nx); err != nil {
		return nil, err
	}

	nbs := curvNeighbors(src, points.Y, points.X, opt.Method)

	kernel := func(in, out []float64) {
		for k := range out {
			out[k] = idwValue(in, nbs[k], opt.WeightingPower, opt.Missing)
		}
	}

	return Dispatch(fi, 2, []int{points.Len()}, fi.DType, chunks, workers, kernel)
}
