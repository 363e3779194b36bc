// Package netcdf loads gridded variables and their coordinate arrays from
// NetCDF files and writes regridded fields back out.
package netcdf

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/fhs/go-netcdf/netcdf"

	"go.ngs.io/regrid-api/internal/adapter/store"
	"go.ngs.io/regrid-api/internal/domain"
)

// Candidate coordinate variable names, tried in order.
var (
	latNames   = []string{"lat", "latitude", "y"}
	lonNames   = []string{"lon", "longitude", "x"}
	lat2DNames = []string{"lat2d", "latitude", "gridlat", "XLAT", "nav_lat"}
	lon2DNames = []string{"lon2d", "longitude", "gridlon", "XLONG", "nav_lon"}
)

// Dataset provides access to one NetCDF file. Loaded variables are cached;
// the cache is safe for concurrent readers.
type Dataset struct {
	path  string
	cache map[string]*store.FieldVariable
	mu    sync.RWMutex
}

// NewDataset creates a dataset backed by the NetCDF file at path.
func NewDataset(path string) *Dataset {
	return &Dataset{
		path:  path,
		cache: make(map[string]*store.FieldVariable),
	}
}

// Path returns the backing file path.
func (d *Dataset) Path() string { return d.path }

// ListVariables names the variables with at least two dimensions, which
// are the candidates for regridding. Coordinate variables are excluded.
func (d *Dataset) ListVariables() ([]string, error) {
	nc, err := netcdf.OpenFile(d.path, netcdf.NOWRITE)
	if err != nil {
		return nil, fmt.Errorf("failed to open NetCDF file: %w", err)
	}
	defer func() { _ = nc.Close() }()

	nvars, err := nc.NVars()
	if err != nil {
		return nil, fmt.Errorf("failed to count variables: %w", err)
	}

	coordNames := make(map[string]bool)
	for _, names := range [][]string{latNames, lonNames, lat2DNames, lon2DNames} {
		for _, n := range names {
			coordNames[strings.ToLower(n)] = true
		}
	}

	var out []string
	for i := 0; i < nvars; i++ {
		v := nc.VarN(i)
		name, err := v.Name()
		if err != nil {
			continue
		}
		if coordNames[strings.ToLower(name)] {
			continue
		}
		dims, err := v.Dims()
		if err != nil || len(dims) < 2 {
			continue
		}
		out = append(out, name)
	}
	return out, nil
}

// LoadField reads a gridded variable and resolves the coordinate arrays of
// its two rightmost axes: 1D coordinate variables give a rectilinear grid,
// matching 2D latitude/longitude variables a curvilinear one. File fill
// values are normalized to NaN so the engine sees one missing convention.
func (d *Dataset) LoadField(varName string) (*store.FieldVariable, error) {
	d.mu.RLock()
	if fv, ok := d.cache[varName]; ok {
		d.mu.RUnlock()
		return fv, nil
	}
	d.mu.RUnlock()

	nc, err := netcdf.OpenFile(d.path, netcdf.NOWRITE)
	if err != nil {
		return nil, fmt.Errorf("failed to open NetCDF file: %w", err)
	}
	defer func() { _ = nc.Close() }()

	v, err := nc.Var(varName)
	if err != nil {
		return nil, fmt.Errorf("variable %s not found: %w", varName, err)
	}

	field, err := readField(v)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", varName, err)
	}
	if field.NDim() < 2 {
		return nil, fmt.Errorf("variable %s must have at least two dimensions", varName)
	}

	fv := &store.FieldVariable{Name: varName, Field: field}

	ny := field.Shape[field.NDim()-2]
	nx := field.Shape[field.NDim()-1]

	if rect, ok, err := readRectAxes(nc, v, ny, nx); err != nil {
		return nil, err
	} else if ok {
		fv.Kind = store.KindRectilinear
		fv.Rect = rect
	} else if curv, ok, err := readCurvAxes(nc, ny, nx); err != nil {
		return nil, err
	} else if ok {
		fv.Kind = store.KindCurvilinear
		fv.Curv = curv
	} else {
		return nil, fmt.Errorf("no coordinate variables found for %s (tried 1D %v/%v and 2D %v/%v)",
			varName, latNames, lonNames, lat2DNames, lon2DNames)
	}

	d.mu.Lock()
	d.cache[varName] = fv
	d.mu.Unlock()
	return fv, nil
}

// readRectAxes resolves 1D coordinate variables for the two rightmost
// dimensions, preferring variables named after the dimensions themselves.
func readRectAxes(nc netcdf.Dataset, v netcdf.Var, ny, nx int) (domain.Rectilinear, bool, error) {
	dims, err := v.Dims()
	if err != nil {
		return domain.Rectilinear{}, false, fmt.Errorf("failed to get dimensions: %w", err)
	}

	dimName := func(d netcdf.Dim) string {
		name, err := d.Name()
		if err != nil {
			return ""
		}
		return name
	}

	yCandidates := append([]string{dimName(dims[len(dims)-2])}, latNames...)
	xCandidates := append([]string{dimName(dims[len(dims)-1])}, lonNames...)

	ys, okY := read1DAny(nc, yCandidates, ny)
	xs, okX := read1DAny(nc, xCandidates, nx)
	if !okY || !okX {
		return domain.Rectilinear{}, false, nil
	}
	return domain.Rectilinear{X: xs, Y: ys}, true, nil
}

// readCurvAxes resolves matching 2D latitude/longitude variables.
func readCurvAxes(nc netcdf.Dataset, ny, nx int) (domain.Curvilinear, bool, error) {
	lat, okLat := read2DAny(nc, lat2DNames, ny, nx)
	lon, okLon := read2DAny(nc, lon2DNames, ny, nx)
	if !okLat || !okLon {
		return domain.Curvilinear{}, false, nil
	}
	return domain.Curvilinear{Lat2D: lat, Lon2D: lon, Ny: ny, Nx: nx}, true, nil
}

func read1DAny(nc netcdf.Dataset, names []string, n int) ([]float64, bool) {
	for _, name := range names {
		if name == "" {
			continue
		}
		v, err := nc.Var(name)
		if err != nil {
			continue
		}
		dims, err := v.Dims()
		if err != nil || len(dims) != 1 {
			continue
		}
		length, err := dims[0].Len()
		if err != nil || length != uint64(n) {
			continue
		}
		vals, _, err := readFloat64s(v, n)
		if err != nil {
			continue
		}
		return vals, true
	}
	return nil, false
}

func read2DAny(nc netcdf.Dataset, names []string, ny, nx int) ([]float64, bool) {
	for _, name := range names {
		v, err := nc.Var(name)
		if err != nil {
			continue
		}
		dims, err := v.Dims()
		if err != nil || len(dims) != 2 {
			continue
		}
		d0, err0 := dims[0].Len()
		d1, err1 := dims[1].Len()
		if err0 != nil || err1 != nil || d0 != uint64(ny) || d1 != uint64(nx) {
			continue
		}
		vals, _, err := readFloat64s(v, ny*nx)
		if err != nil {
			continue
		}
		return vals, true
	}
	return nil, false
}

// readField reads a variable of any rank into a flat float64 field,
// recording whether the stored precision was single or double and mapping
// the file's fill value to NaN.
func readField(v netcdf.Var) (*domain.Field, error) {
	dims, err := v.Dims()
	if err != nil {
		return nil, fmt.Errorf("failed to get dimensions: %w", err)
	}
	shape := make([]int, len(dims))
	total := 1
	for i, d := range dims {
		length, err := d.Len()
		if err != nil {
			return nil, fmt.Errorf("failed to get dimension length: %w", err)
		}
		shape[i] = int(length)
		total *= int(length)
	}

	values, dtype, err := readFloat64s(v, total)
	if err != nil {
		return nil, err
	}

	if fv, ok := getFillValue(v); ok {
		for i, val := range values {
			if val == fv {
				values[i] = math.NaN()
			}
		}
	}

	return &domain.Field{Values: values, Shape: shape, DType: dtype}, nil
}

// readFloat64s reads n values from a variable of any supported numeric
// type, promoting to float64.
func readFloat64s(v netcdf.Var, n int) ([]float64, domain.DType, error) {
	t, err := v.Type()
	if err != nil {
		return nil, domain.Float32, fmt.Errorf("failed to get var type: %w", err)
	}
	switch t {
	case netcdf.DOUBLE:
		data := make([]float64, n)
		if err := v.ReadFloat64s(data); err != nil {
			return nil, domain.Float64, err
		}
		return data, domain.Float64, nil
	case netcdf.FLOAT:
		tmp := make([]float32, n)
		if err := v.ReadFloat32s(tmp); err != nil {
			return nil, domain.Float32, err
		}
		out := make([]float64, n)
		for i, val := range tmp {
			out[i] = float64(val)
		}
		return out, domain.Float32, nil
	case netcdf.INT:
		tmp := make([]int32, n)
		if err := v.ReadInt32s(tmp); err != nil {
			return nil, domain.Float32, err
		}
		out := make([]float64, n)
		for i, val := range tmp {
			out[i] = float64(val)
		}
		return out, domain.Float32, nil
	case netcdf.SHORT:
		tmp := make([]int16, n)
		if err := v.ReadInt16s(tmp); err != nil {
			return nil, domain.Float32, err
		}
		out := make([]float64, n)
		for i, val := range tmp {
			out[i] = float64(val)
		}
		return out, domain.Float32, nil
	default:
		return nil, domain.Float32, fmt.Errorf("unsupported var type: %v", t)
	}
}

// getFillValue returns the _FillValue or missing_value attribute if
// present as a float64.
func getFillValue(v netcdf.Var) (float64, bool) {
	for _, name := range []string{"_FillValue", "missing_value"} {
		a := v.Attr(name)
		if a == (netcdf.Attr{}) {
			continue
		}
		if n, err := a.Len(); err == nil && n > 0 {
			buf64 := make([]float64, 1)
			if err := a.ReadFloat64s(buf64); err == nil {
				return buf64[0], true
			}
			buf32 := make([]float32, 1)
			if err := a.ReadFloat32s(buf32); err == nil {
				return float64(buf32[0]), true
			}
		}
	}
	return 0, false
}
