package regrid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.ngs.io/regrid-api/internal/domain"
)

func grid3x3() (domain.Rectilinear, *domain.Field) {
	g := domain.Rectilinear{X: []float64{0, 1, 2}, Y: []float64{0, 1, 2}}
	f := &domain.Field{
		Values: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9},
		Shape:  []int{3, 3},
		DType:  domain.Float64,
	}
	return g, f
}

func TestBilinearGridIdentity(t *testing.T) {
	src, fi := grid3x3()
	fo, err := BilinearGrid(src, fi, src, domain.DefaultOptions(), nil, 1)
	require.NoError(t, err)
	assert.Equal(t, fi.Values, fo.Values, "matching grids must return data unchanged")
	assert.Equal(t, []int{3, 3}, fo.Shape)
}

func TestBilinearPointsCenter(t *testing.T) {
	src, fi := grid3x3()
	pts := domain.PointSet{X: []float64{0.5}, Y: []float64{0.5}}
	fo, err := BilinearPoints(src, fi, pts, domain.DefaultOptions(), nil, 1)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, fo.Values[0], 1e-12, "equal-weight average of 1,2,4,5")
}

func TestBilinearPointsOutsideEnvelope(t *testing.T) {
	src, fi := grid3x3()
	pts := domain.PointSet{X: []float64{-1, 0.5, 3}, Y: []float64{0, 0.5, 1}}
	fo, err := BilinearPoints(src, fi, pts, domain.DefaultOptions(), nil, 1)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(fo.Values[0]), "no extrapolation left of envelope")
	assert.InDelta(t, 3.0, fo.Values[1], 1e-12)
	assert.True(t, math.IsNaN(fo.Values[2]), "no extrapolation right of envelope")
}

func TestBilinearCornerExactness(t *testing.T) {
	src, fi := grid3x3()
	pts := domain.PointSet{
		X: []float64{0, 2, 1},
		Y: []float64{0, 2, 1},
	}
	fo, err := BilinearPoints(src, fi, pts, domain.DefaultOptions(), nil, 1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, fo.Values[0])
	assert.Equal(t, 9.0, fo.Values[1])
	assert.Equal(t, 5.0, fo.Values[2])
}

func TestBilinearStrictMissingPolicy(t *testing.T) {
	src, fi := grid3x3()
	fi.Values[0] = math.NaN() // corner (0,0)
	pts := domain.PointSet{X: []float64{0.5, 1.5}, Y: []float64{0.5, 1.5}}
	fo, err := BilinearPoints(src, fi, pts, domain.DefaultOptions(), nil, 1)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(fo.Values[0]), "one missing corner poisons the cell")
	assert.InDelta(t, 7.0, fo.Values[1], 1e-12, "cells away from the hole are unaffected")
}

func TestBilinearExplicitSentinel(t *testing.T) {
	src, fi := grid3x3()
	opt := domain.DefaultOptions()
	opt.Missing = -999
	fi.Values[4] = -999 // center
	pts := domain.PointSet{X: []float64{0.5, -5}, Y: []float64{0.5, 0.5}}
	fo, err := BilinearPoints(src, fi, pts, opt, nil, 1)
	require.NoError(t, err)
	assert.Equal(t, -999.0, fo.Values[0])
	assert.Equal(t, -999.0, fo.Values[1], "out-of-range targets carry the configured sentinel")
}

func TestBilinearCyclicWrap(t *testing.T) {
	src := domain.Rectilinear{X: []float64{0, 90, 180, 270}, Y: []float64{0, 1}}
	fi := &domain.Field{
		Values: []float64{10, 20, 30, 40, 10, 20, 30, 40},
		Shape:  []int{2, 4},
		DType:  domain.Float64,
	}
	opt := domain.DefaultOptions()
	opt.Cyclic = true
	pts := domain.PointSet{X: []float64{315}, Y: []float64{0.5}}
	fo, err := BilinearPoints(src, fi, pts, opt, nil, 1)
	require.NoError(t, err)
	// Halfway between the 270 column (40) and the wrapped 0 column (10).
	assert.InDelta(t, 25.0, fo.Values[0], 1e-12)
}

func TestBilinearCyclicWrapDescendingAxis(t *testing.T) {
	src := domain.Rectilinear{X: []float64{270, 180, 90, 0}, Y: []float64{0, 1}}
	fi := &domain.Field{
		Values: []float64{40, 30, 20, 10, 40, 30, 20, 10},
		Shape:  []int{2, 4},
		DType:  domain.Float64,
	}
	opt := domain.DefaultOptions()
	opt.Cyclic = true
	pts := domain.PointSet{X: []float64{315, 292.5}, Y: []float64{0.5, 0.5}}
	fo, err := BilinearPoints(src, fi, pts, opt, nil, 1)
	require.NoError(t, err)
	// The wrap cell runs from the 270 column (40) to the 0 column (10)
	// shifted by one period, same as on an ascending axis.
	assert.InDelta(t, 25.0, fo.Values[0], 1e-12)
	assert.InDelta(t, 32.5, fo.Values[1], 1e-12, "a quarter of the way into the wrap cell")
}

func TestBilinearGridToCoarserGrid(t *testing.T) {
	src, fi := grid3x3()
	target := domain.Rectilinear{X: []float64{0.5, 1.5}, Y: []float64{0.5, 1.5}}
	fo, err := BilinearGrid(src, fi, target, domain.DefaultOptions(), nil, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, fo.Shape)
	assert.InDelta(t, 3.0, fo.Values[0], 1e-12)
	assert.InDelta(t, 4.0, fo.Values[1], 1e-12)
	assert.InDelta(t, 6.0, fo.Values[2], 1e-12)
	assert.InDelta(t, 7.0, fo.Values[3], 1e-12)
}

func TestBilinearBatchDimsCarried(t *testing.T) {
	src := domain.Rectilinear{X: []float64{0, 1, 2}, Y: []float64{0, 1, 2}}
	base := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}
	fi := domain.NewField([]int{2, 2, 3, 3}, domain.Float32)
	for b := 0; b < 4; b++ {
		for k, v := range base {
			fi.Values[b*9+k] = v * float64(b+1)
		}
	}
	pts := domain.PointSet{X: []float64{0.5, 1}, Y: []float64{0.5, 1}}
	fo, err := BilinearPoints(src, fi, pts, domain.DefaultOptions(), nil, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 2}, fo.Shape)
	for b := 0; b < 4; b++ {
		assert.InDelta(t, 3.0*float64(b+1), fo.Values[b*2], 1e-9, "batch %d", b)
		assert.InDelta(t, 5.0*float64(b+1), fo.Values[b*2+1], 1e-9, "batch %d", b)
	}
	assert.Equal(t, domain.Float32, fo.DType)
}

func TestBilinearDescendingAxis(t *testing.T) {
	src := domain.Rectilinear{X: []float64{0, 1, 2}, Y: []float64{2, 1, 0}}
	fi := &domain.Field{
		Values: []float64{7, 8, 9, 4, 5, 6, 1, 2, 3},
		Shape:  []int{3, 3},
		DType:  domain.Float64,
	}
	pts := domain.PointSet{X: []float64{0.5}, Y: []float64{0.5}}
	fo, err := BilinearPoints(src, fi, pts, domain.DefaultOptions(), nil, 1)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, fo.Values[0], 1e-12)
}

func TestBilinearRejectsShapeMismatch(t *testing.T) {
	src, _ := grid3x3()
	fi := domain.NewField([]int{2, 3}, domain.Float64)
	_, err := BilinearGrid(src, fi, src, domain.DefaultOptions(), nil, 1)
	var shapeErr *domain.ShapeError
	require.ErrorAs(t, err, &shapeErr)
}

func TestBilinearRejectsNonMonotonicAxis(t *testing.T) {
	src := domain.Rectilinear{X: []float64{0, 2, 1}, Y: []float64{0, 1, 2}}
	fi := domain.NewField([]int{3, 3}, domain.Float64)
	_, err := BilinearGrid(src, fi, domain.Rectilinear{X: []float64{0, 1}, Y: []float64{0, 1}},
		domain.DefaultOptions(), nil, 1)
	var monoErr *domain.MonotonicityError
	require.ErrorAs(t, err, &monoErr)
	assert.Equal(t, "x", monoErr.Axis)
}
