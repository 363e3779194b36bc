package netcdf

import (
	"fmt"
	"math"

	"github.com/fhs/go-netcdf/netcdf"

	"go.ngs.io/regrid-api/internal/domain"
)

// defaultFill values written as _FillValue attributes, matching the NetCDF
// library conventions for each precision.
const (
	fillFloat  = float32(9.9692099683868690e+36)
	fillDouble = 9.9692099683868690e+36
)

// WriteRect writes a field defined on a rectilinear grid to a new NetCDF
// file. The two rightmost field axes become the y and x dimensions with
// 1D coordinate variables; leading batch axes are written as anonymous
// dimensions. NaN values are replaced by the declared _FillValue, and the
// variable is stored in the field's precision.
func WriteRect(path, varName string, field *domain.Field, grid domain.Rectilinear) error {
	if err := field.ValidateSpatial(grid.Ny(), grid.Nx()); err != nil {
		return err
	}

	nc, err := netcdf.CreateFile(path, netcdf.CLOBBER)
	if err != nil {
		return fmt.Errorf("failed to create NetCDF file: %w", err)
	}
	defer func() { _ = nc.Close() }()

	dims := make([]netcdf.Dim, field.NDim())
	for i, size := range field.BatchShape(2) {
		dims[i], err = nc.AddDim(fmt.Sprintf("dim%d", i), uint64(size))
		if err != nil {
			return fmt.Errorf("failed to add batch dimension: %w", err)
		}
	}
	yDim, err := nc.AddDim("y", uint64(grid.Ny()))
	if err != nil {
		return fmt.Errorf("failed to add y dimension: %w", err)
	}
	xDim, err := nc.AddDim("x", uint64(grid.Nx()))
	if err != nil {
		return fmt.Errorf("failed to add x dimension: %w", err)
	}
	dims[field.NDim()-2] = yDim
	dims[field.NDim()-1] = xDim

	yVar, err := nc.AddVar("y", netcdf.DOUBLE, []netcdf.Dim{yDim})
	if err != nil {
		return fmt.Errorf("failed to add y variable: %w", err)
	}
	xVar, err := nc.AddVar("x", netcdf.DOUBLE, []netcdf.Dim{xDim})
	if err != nil {
		return fmt.Errorf("failed to add x variable: %w", err)
	}

	ncType := netcdf.FLOAT
	if field.DType == domain.Float64 {
		ncType = netcdf.DOUBLE
	}
	dataVar, err := nc.AddVar(varName, ncType, dims)
	if err != nil {
		return fmt.Errorf("failed to add variable %s: %w", varName, err)
	}
	if err := writeFillAttr(dataVar, field.DType); err != nil {
		return err
	}

	if err := nc.EndDef(); err != nil {
		return fmt.Errorf("failed to end define mode: %w", err)
	}

	if err := yVar.WriteFloat64s(grid.Y); err != nil {
		return fmt.Errorf("failed to write y coordinates: %w", err)
	}
	if err := xVar.WriteFloat64s(grid.X); err != nil {
		return fmt.Errorf("failed to write x coordinates: %w", err)
	}
	return writeValues(dataVar, field)
}

func writeFillAttr(v netcdf.Var, dtype domain.DType) error {
	if dtype == domain.Float64 {
		if err := v.Attr("_FillValue").WriteFloat64s([]float64{fillDouble}); err != nil {
			return fmt.Errorf("failed to write _FillValue: %w", err)
		}
		return nil
	}
	if err := v.Attr("_FillValue").WriteFloat32s([]float32{fillFloat}); err != nil {
		return fmt.Errorf("failed to write _FillValue: %w", err)
	}
	return nil
}

func writeValues(v netcdf.Var, field *domain.Field) error {
	if field.DType == domain.Float64 {
		out := make([]float64, len(field.Values))
		for i, val := range field.Values {
			if math.IsNaN(val) {
				out[i] = fillDouble
				continue
			}
			out[i] = val
		}
		if err := v.WriteFloat64s(out); err != nil {
			return fmt.Errorf("failed to write values: %w", err)
		}
		return nil
	}
	out := make([]float32, len(field.Values))
	for i, val := range field.Values {
		if math.IsNaN(val) {
			out[i] = fillFloat
			continue
		}
		out[i] = float32(val)
	}
	if err := v.WriteFloat32s(out); err != nil {
		return fmt.Errorf("failed to write values: %w", err)
	}
	return nil
}
