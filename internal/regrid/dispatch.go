package regrid

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"go.ngs.io/regrid-api/internal/domain"
)

// Kernel2D resamples one spatial slice. in holds the source slice in
// row-major order, out the pre-sized target slice. Kernels must be pure:
// they read only in and shared immutable coordinate data and write only
// out, so the dispatcher may run them concurrently.
type Kernel2D func(in, out []float64)

// Chunking describes a caller-supplied partition of a field's dimensions,
// one chunk size per dimension. A zero entry leaves that dimension
// unpartitioned. The spatial (rightmost) dimensions must never be split:
// each kernel invocation needs its full 2D slice.
type Chunking []int

// validate rejects partitions that split any of the nSpatial rightmost
// dimensions of shape.
func (c Chunking) validate(shape []int, nSpatial int) error {
	if c == nil {
		return nil
	}
	if len(c) != len(shape) {
		return &domain.ShapeError{Msg: "chunking must list one size per dimension"}
	}
	for k := len(shape) - nSpatial; k < len(shape); k++ {
		if c[k] != 0 && c[k] != shape[k] {
			return &domain.ChunkLayoutError{Dim: k}
		}
	}
	return nil
}

// units returns the number of work units the batch slices are grouped
// into, derived from the chunking of the leading dimensions.
func (c Chunking) units(shape []int, nSpatial int) int {
	if c == nil {
		return 0
	}
	n := 1
	for k := 0; k < len(shape)-nSpatial; k++ {
		if c[k] <= 0 || c[k] >= shape[k] {
			continue
		}
		n *= (shape[k] + c[k] - 1) / c[k]
	}
	return n
}

// Dispatch applies kernel independently to every combination of leading
// batch indices of fi, producing a field whose batch shape matches fi and
// whose rightmost axes are outSpatial. nSpatialIn is the number of
// rightmost input axes consumed by the kernel (2 for grid sources, 1 for
// triples). workers <= 1 runs sequentially; otherwise batch units are
// fanned out over that many goroutines. Ordering between units is
// irrelevant: each unit writes only its own output slice.
func Dispatch(fi *domain.Field, nSpatialIn int, outSpatial []int, outDType domain.DType,
	chunks Chunking, workers int, kernel Kernel2D) (*domain.Field, error) {

	if len(fi.Shape) < nSpatialIn {
		return nil, &domain.ShapeError{Msg: "field has fewer dimensions than the kernel consumes"}
	}
	if err := chunks.validate(fi.Shape, nSpatialIn); err != nil {
		return nil, err
	}

	batch := fi.BatchSize(nSpatialIn)
	inSize := fi.SpatialSize(nSpatialIn)
	outSize := 1
	for _, s := range outSpatial {
		outSize *= s
	}
	outShape := append(append([]int(nil), fi.BatchShape(nSpatialIn)...), outSpatial...)
	fo := domain.NewField(outShape, outDType)

	run := func(b int) {
		in := fi.Values[b*inSize : (b+1)*inSize]
		out := fo.Values[b*outSize : (b+1)*outSize]
		kernel(in, out)
	}

	if workers <= 1 || batch == 1 {
		for b := 0; b < batch; b++ {
			run(b)
		}
		return fo, nil
	}

	// Group consecutive batch slices into units sized by the chunking so
	// a coarse partition maps to coarse scheduling.
	units := chunks.units(fi.Shape, nSpatialIn)
	if units <= 0 || units > batch {
		units = batch
	}
	per := (batch + units - 1) / units

	var g errgroup.Group
	if workers > runtime.NumCPU() {
		workers = runtime.NumCPU()
	}
	g.SetLimit(workers)
	for lo := 0; lo < batch; lo += per {
		lo, hi := lo, lo+per
		if hi > batch {
			hi = batch
		}
		g.Go(func() error {
			for b := lo; b < hi; b++ {
				run(b)
			}
			return nil
		})
	}
	// Kernels cannot fail; Wait only joins the workers.
	_ = g.Wait()
	return fo, nil
}
