package domain

import (
	"errors"
	"math"
	"testing"
)

func TestRectilinearValidate(t *testing.T) {
	tests := []struct {
		name    string
		grid    Rectilinear
		wantErr bool
	}{
		{
			name: "ascending axes",
			grid: Rectilinear{X: []float64{0, 1, 2}, Y: []float64{0, 1}},
		},
		{
			name: "descending axes",
			grid: Rectilinear{X: []float64{2, 1, 0}, Y: []float64{5, 3, 1}},
		},
		{
			name:    "single point axis",
			grid:    Rectilinear{X: []float64{0}, Y: []float64{0, 1}},
			wantErr: true,
		},
		{
			name:    "repeated value",
			grid:    Rectilinear{X: []float64{0, 1, 1}, Y: []float64{0, 1}},
			wantErr: true,
		},
		{
			name:    "mixed direction",
			grid:    Rectilinear{X: []float64{0, 2, 1}, Y: []float64{0, 1}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.grid.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRectilinearValidateErrorTypes(t *testing.T) {
	var monoErr *MonotonicityError
	err := Rectilinear{X: []float64{0, 2, 1}, Y: []float64{0, 1}}.Validate()
	if !errors.As(err, &monoErr) {
		t.Fatalf("expected MonotonicityError, got %v", err)
	}
	if monoErr.Axis != "x" {
		t.Errorf("expected axis x, got %s", monoErr.Axis)
	}

	var shapeErr *ShapeError
	err = Rectilinear{X: []float64{0}, Y: []float64{0, 1}}.Validate()
	if !errors.As(err, &shapeErr) {
		t.Fatalf("expected ShapeError, got %v", err)
	}
}

func TestCurvilinearValidate(t *testing.T) {
	valid := Curvilinear{
		Lat2D: []float64{0, 0, 1, 1},
		Lon2D: []float64{0, 1, 0, 1},
		Ny:    2, Nx: 2,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid grid rejected: %v", err)
	}

	short := Curvilinear{
		Lat2D: []float64{0, 0, 1},
		Lon2D: []float64{0, 1, 0, 1},
		Ny:    2, Nx: 2,
	}
	if err := short.Validate(); err == nil {
		t.Error("expected error for lat2d/shape mismatch")
	}

	tiny := Curvilinear{Lat2D: []float64{0}, Lon2D: []float64{0}, Ny: 1, Nx: 1}
	if err := tiny.Validate(); err == nil {
		t.Error("expected error for fewer than 2 points per axis")
	}
}

func TestPointSetValidate(t *testing.T) {
	if err := (PointSet{X: []float64{1, 2}, Y: []float64{3, 4}}).Validate(); err != nil {
		t.Errorf("valid point set rejected: %v", err)
	}
	if err := (PointSet{X: []float64{1, 2}, Y: []float64{3}}).Validate(); err == nil {
		t.Error("expected error for length mismatch")
	}
	if err := (PointSet{}).Validate(); err == nil {
		t.Error("expected error for empty point set")
	}
}

func TestTripleSetValidate(t *testing.T) {
	ok := TripleSet{X: []float64{1}, Y: []float64{2}, Values: []float64{3}}
	if err := ok.Validate(); err != nil {
		t.Errorf("valid triple set rejected: %v", err)
	}
	bad := TripleSet{X: []float64{1}, Y: []float64{2}, Values: []float64{3, 4}}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for misaligned values")
	}
}

func TestFieldValidateSpatial(t *testing.T) {
	f := NewField([]int{4, 3, 2}, Float64)
	if err := f.ValidateSpatial(3, 2); err != nil {
		t.Errorf("matching spatial shape rejected: %v", err)
	}
	if err := f.ValidateSpatial(2, 3); err == nil {
		t.Error("expected error for transposed spatial shape")
	}
	if err := f.ValidateSpatial(4, 3, 2, 1); err == nil {
		t.Error("expected error for too few dimensions")
	}
	if f.BatchSize(2) != 4 {
		t.Errorf("BatchSize(2) = %d, want 4", f.BatchSize(2))
	}
	if f.SpatialSize(2) != 6 {
		t.Errorf("SpatialSize(2) = %d, want 6", f.SpatialSize(2))
	}
}

func TestPromoteDType(t *testing.T) {
	if PromoteDType(Float32, Float32) != Float32 {
		t.Error("float32 pair must stay float32")
	}
	if PromoteDType(Float32, Float64) != Float64 {
		t.Error("any float64 input must promote")
	}
	if PromoteDType(Float64, Float32) != Float64 {
		t.Error("any float64 input must promote")
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
		option string
	}{
		{"bad method", func(o *Options) { o.Method = 2 }, "method"},
		{"negative distmx", func(o *Options) { o.Distmx = -1 }, "distmx"},
		{"zero weighting power", func(o *Options) { o.WeightingPower = 0 }, "weighting_power"},
		{"nan domain", func(o *Options) { o.Domain = math.NaN() }, "domain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt := DefaultOptions()
			tt.mutate(&opt)
			err := opt.Validate()
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if cfgErr.Option != tt.option {
				t.Errorf("expected option %s, got %s", tt.option, cfgErr.Option)
			}
		})
	}
	if err := DefaultOptions().Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestIsMissing(t *testing.T) {
	if !IsMissing(math.NaN(), math.NaN()) {
		t.Error("NaN sentinel must match NaN values")
	}
	if IsMissing(1.0, math.NaN()) {
		t.Error("finite value must not match NaN sentinel")
	}
	if !IsMissing(-999, -999) {
		t.Error("explicit sentinel must match by value")
	}
	if IsMissing(math.NaN(), -999) {
		t.Error("NaN must not match an explicit sentinel")
	}
}
