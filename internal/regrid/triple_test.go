package regrid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.ngs.io/regrid-api/internal/domain"
)

func TestTripleToGridCornerAssignment(t *testing.T) {
	x := []float64{0.1, 0.9}
	y := []float64{0.1, 0.9}
	data := &domain.Field{Values: []float64{10, 20}, Shape: []int{2}, DType: domain.Float64}
	grid := domain.Rectilinear{X: []float64{0, 1}, Y: []float64{0, 1}}

	fo, err := TripleToGrid(x, y, data, grid, domain.DefaultOptions(), nil, 1)
	require.NoError(t, err)
	require.Equal(t, []int{2, 2}, fo.Shape)
	assert.Equal(t, 10.0, fo.Values[0], "cell nearest (0,0)")
	assert.True(t, math.IsNaN(fo.Values[1]), "no qualifying sample")
	assert.True(t, math.IsNaN(fo.Values[2]), "no qualifying sample")
	assert.Equal(t, 20.0, fo.Values[3], "cell nearest (1,1)")
}

func TestTripleToGridClosestSampleWins(t *testing.T) {
	// Both samples bin to cell (0,0); the closer one must win regardless
	// of input order.
	grid := domain.Rectilinear{X: []float64{0, 10}, Y: []float64{0, 10}}
	data := &domain.Field{Values: []float64{1, 2}, Shape: []int{2}, DType: domain.Float64}

	fo, err := TripleToGrid([]float64{2, 1}, []float64{0, 0}, data, grid,
		domain.DefaultOptions(), nil, 1)
	require.NoError(t, err)
	assert.Equal(t, 2.0, fo.Values[0])

	data2 := &domain.Field{Values: []float64{2, 1}, Shape: []int{2}, DType: domain.Float64}
	fo2, err := TripleToGrid([]float64{1, 2}, []float64{0, 0}, data2, grid,
		domain.DefaultOptions(), nil, 1)
	require.NoError(t, err)
	assert.Equal(t, 2.0, fo2.Values[0])
}

func TestTripleToGridDomainExcludesOutside(t *testing.T) {
	grid := domain.Rectilinear{X: []float64{0, 1}, Y: []float64{0, 1}}
	data := &domain.Field{Values: []float64{7}, Shape: []int{1}, DType: domain.Float64}

	opt := domain.DefaultOptions()
	opt.Domain = 0
	fo, err := TripleToGrid([]float64{1.5}, []float64{1.0}, data, grid, opt, nil, 1)
	require.NoError(t, err)
	for _, v := range fo.Values {
		assert.True(t, math.IsNaN(v), "out-of-domain sample must not bin anywhere")
	}

	opt.Domain = 1.0
	fo, err = TripleToGrid([]float64{1.5}, []float64{1.0}, data, grid, opt, nil, 1)
	require.NoError(t, err)
	assert.Equal(t, 7.0, fo.Values[3], "widened boundary catchment admits the sample")
}

func TestTripleToGridDomainScalesPerEdge(t *testing.T) {
	// Non-uniform axis: the left edge cell is 1 wide, the right edge cell
	// 9 wide, so the catchment outside each boundary differs.
	grid := domain.Rectilinear{X: []float64{0, 1, 10}, Y: []float64{0, 1}}
	data := &domain.Field{Values: []float64{7, 8}, Shape: []int{2}, DType: domain.Float64}

	fo, err := TripleToGrid([]float64{15, -2}, []float64{1, 0}, data, grid,
		domain.DefaultOptions(), nil, 1)
	require.NoError(t, err)
	assert.Equal(t, 7.0, fo.Values[5], "sample within one right-edge cell width bins")
	assert.True(t, math.IsNaN(fo.Values[0]), "sample beyond one left-edge cell width does not")
	assert.True(t, math.IsNaN(fo.Values[3]))
}

func TestTripleToGridDistmx(t *testing.T) {
	grid := domain.Rectilinear{X: []float64{0, 1}, Y: []float64{0, 1}}
	data := &domain.Field{Values: []float64{7}, Shape: []int{1}, DType: domain.Float64}

	opt := domain.DefaultOptions()
	opt.Method = domain.MethodGreatCircle
	opt.Distmx = 1.0 // km; ~0.4 degrees is far beyond this
	fo, err := TripleToGrid([]float64{0.4}, []float64{0.4}, data, grid, opt, nil, 1)
	require.NoError(t, err)
	for _, v := range fo.Values {
		assert.True(t, math.IsNaN(v))
	}
}

func TestTripleToGridMissingSamplesIgnored(t *testing.T) {
	grid := domain.Rectilinear{X: []float64{0, 1}, Y: []float64{0, 1}}
	// The nearer sample is missing, so the farther valid one wins the cell.
	data := &domain.Field{Values: []float64{math.NaN(), 5}, Shape: []int{2}, DType: domain.Float64}
	fo, err := TripleToGrid([]float64{0.1, 0.3}, []float64{0, 0}, data, grid,
		domain.DefaultOptions(), nil, 1)
	require.NoError(t, err)
	assert.Equal(t, 5.0, fo.Values[0])
}

func TestTripleToGridBatched(t *testing.T) {
	grid := domain.Rectilinear{X: []float64{0, 1}, Y: []float64{0, 1}}
	data := &domain.Field{
		Values: []float64{10, 20, 30, 40},
		Shape:  []int{2, 2},
		DType:  domain.Float64,
	}
	fo, err := TripleToGrid([]float64{0.1, 0.9}, []float64{0.1, 0.9}, data, grid,
		domain.DefaultOptions(), nil, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 2}, fo.Shape)
	assert.Equal(t, 10.0, fo.Values[0])
	assert.Equal(t, 20.0, fo.Values[3])
	assert.Equal(t, 30.0, fo.Values[4])
	assert.Equal(t, 40.0, fo.Values[7])
}

func TestGridToTripleDropsMissing(t *testing.T) {
	x := []float64{0, 1, 2}
	y := []float64{0, 1}
	z := &domain.Field{
		Values: []float64{1, math.NaN(), 3, 4, 5, math.NaN()},
		Shape:  []int{2, 3},
		DType:  domain.Float64,
	}
	tr, err := GridToTriple(x, y, z, domain.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 4, tr.Len(), "output shrinks by exactly the missing count")
	assert.Equal(t, []float64{1, 3, 4, 5}, tr.Values)
	assert.Equal(t, []float64{0, 2, 0, 1}, tr.X)
	assert.Equal(t, []float64{0, 0, 1, 1}, tr.Y)
}

func TestGridToTripleRejectsNon2D(t *testing.T) {
	z := domain.NewField([]int{2, 2, 2}, domain.Float64)
	_, err := GridToTriple([]float64{0, 1}, []float64{0, 1}, z, domain.DefaultOptions())
	var shapeErr *domain.ShapeError
	require.ErrorAs(t, err, &shapeErr)
}

func TestTripleRoundTrip(t *testing.T) {
	x := []float64{0, 1, 2}
	y := []float64{0, 1, 2}
	z := &domain.Field{
		Values: []float64{1, 2, 3, math.NaN(), 5, 6, 7, 8, math.NaN()},
		Shape:  []int{3, 3},
		DType:  domain.Float64,
	}
	grid := domain.Rectilinear{X: x, Y: y}

	tr, err := GridToTriple(x, y, z, domain.DefaultOptions())
	require.NoError(t, err)

	data := &domain.Field{Values: tr.Values, Shape: []int{tr.Len()}, DType: domain.Float64}
	back, err := TripleToGrid(tr.X, tr.Y, data, grid, domain.DefaultOptions(), nil, 1)
	require.NoError(t, err)

	for k, want := range z.Values {
		if math.IsNaN(want) {
			assert.True(t, math.IsNaN(back.Values[k]), "missing cell %d stays missing", k)
			continue
		}
		assert.Equal(t, want, back.Values[k], "cell %d reconstructs exactly", k)
	}
}
