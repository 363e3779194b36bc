package regrid

import (
	"go.ngs.io/regrid-api/internal/domain"
)

// bracket is one precomputed axis lookup: the bracketing index pair and
// the fractional position of the target between them. ok is false for
// targets outside the source envelope.
type bracket struct {
	i0, i1 int
	t      float64
	ok     bool
}

// bracketAll resolves every target coordinate against one source axis.
// When cyclic is set the rightmost coordinate wraps by one period.
func bracketAll(src axis, targets []float64, cyclic bool) []bracket {
	out := make([]bracket, len(targets))
	for k, x := range targets {
		var i int
		var t float64
		var ok bool
		if cyclic {
			i, t, ok = src.cyclicBracket(x)
		} else {
			i, t, ok = src.bracket(x)
		}
		i1 := i + 1
		if cyclic && ok {
			i1 = src.wrapIndex(i)
		}
		out[k] = bracket{i0: i, i1: i1, t: t, ok: ok}
	}
	return out
}

// bilinearCell evaluates the bilinear weight formula for one bracketing
// cell. The policy is strict: if any of the four corner values is missing
// the result is missing. Partial interpolation from fewer corners is what
// the inverse-distance kernel is for.
func bilinearCell(in []float64, nx int, bx, by bracket, missing float64) float64 {
	v00 := in[by.i0*nx+bx.i0]
	v10 := in[by.i0*nx+bx.i1]
	v01 := in[by.i1*nx+bx.i0]
	v11 := in[by.i1*nx+bx.i1]
	if domain.IsMissing(v00, missing) || domain.IsMissing(v10, missing) ||
		domain.IsMissing(v01, missing) || domain.IsMissing(v11, missing) {
		return missing
	}
	t, u := bx.t, by.t
	return (1-t)*(1-u)*v00 + t*(1-u)*v10 + (1-t)*u*v01 + t*u*v11
}

// BilinearGrid interpolates fi from one rectilinear grid to another using
// bilinear interpolation. Targets outside the source envelope come back as
// opt.Missing; opt.Cyclic wraps the source X axis by one period. The
// rightmost two axes of fi are replaced by target's shape.
func BilinearGrid(src domain.Rectilinear, fi *domain.Field, target domain.Rectilinear,
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

	xBr := bracketAll(newAxis(src.X), target.X, opt.Cyclic)
	yBr := bracketAll(newAxis(src.Y), target.Y, false)
	nxIn := src.Nx()

	kernel := func(in, out []float64) {
		for jy, by := range yBr {
			row := out[jy*len(xBr) : (jy+1)*len(xBr)]
			if !by.ok {
				for jx := range row {
					row[jx] = opt.Missing
				}
				continue
			}
			for jx, bx := range xBr {
				if !bx.ok {
					row[jx] = opt.Missing
					continue
				}
				row[jx] = bilinearCell(in, nxIn, bx, by, opt.Missing)
			}
		}
	}

	return Dispatch(fi, 2, []int{target.Ny(), target.Nx()}, fi.DType, chunks, workers, kernel)
}

// BilinearPoints interpolates fi from a rectilinear grid to an
// unstructured set of coordinate pairs. The rightmost two axes of fi
// collapse into one axis of length points.Len(). Same policies as
// BilinearGrid.
func BilinearPoints(src domain.Rectilinear, fi *domain.Field, points domain.PointSet,
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
	if err := fi.ValidateSpatial(src.Ny(), src.Nx()); err != nil {
		return nil, err
	}

	xBr := bracketAll(newAxis(src.X), points.X, opt.Cyclic)
	yBr := bracketAll(newAxis(src.Y), points.Y, false)
	nxIn := src.Nx()

	kernel := func(in, out []float64) {
		for k := range out {
			bx, by := xBr[k], yBr[k]
			if !bx.ok || !by.ok {
				out[k] = opt.Missing
				continue
			}
			out[k] = bilinearCell(in, nxIn, bx, by, opt.Missing)
		}
	}

	return Dispatch(fi, 2, []int{points.Len()}, fi.DType, chunks, workers, kernel)
}
