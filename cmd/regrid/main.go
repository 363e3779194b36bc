// Package main provides the regrid batch tool: it reads a gridded variable
// from a NetCDF file, resamples it onto a target rectilinear grid, and
// writes the result to a new NetCDF file. Jobs are described by a gcfg
// config file.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"gopkg.in/gcfg.v1"

	"go.ngs.io/regrid-api/internal/adapter/store"
	ncstore "go.ngs.io/regrid-api/internal/adapter/store/netcdf"
	"go.ngs.io/regrid-api/internal/domain"
	"go.ngs.io/regrid-api/internal/regrid"
)

const exampleConfig = `[Job]

#######################
# Required Parameters #
#######################

# NetCDF file containing the variable to regrid.
Input = path/to/input.nc
# Name of the variable to regrid.
Variable = t2m
# NetCDF file the regridded variable is written to.
Output = path/to/output.nc

# Target rectilinear grid.
XMin = -180
XMax = 180
NX = 360
YMin = -90
YMax = 90
NY = 180

#######################
# Optional Parameters #
#######################

# Distance method: 0 = planar, 1 = great circle (degrees lon/lat).
# Method = 0

# Treat the rightmost (longitude) axis of a rectilinear source as cyclic.
# Cyclic = false

# Inverse-distance weighting power for curvilinear sources.
# WeightingPower = 2

# Number of parallel workers over leading dimensions.
# Workers = 1`

type jobConfig struct {
	Job struct {
		Input    string
		Variable string
		Output   string

		XMin float64
		XMax float64
		NX   int
		YMin float64
		YMax float64
		NY   int

		Method         int
		Cyclic         bool
		WeightingPower int
		Workers        int
	}
}

func main() {
	configPath := flag.String("config", "", "Path to the job config file")
	exampleFlag := flag.Bool("example-config", false, "Print an example config file and exit")
	flag.Parse()

	if *exampleFlag {
		fmt.Println(exampleConfig)
		return
	}
	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "usage: regrid -config job.cfg")
		fmt.Fprintln(os.Stderr, "       regrid -example-config")
		os.Exit(1)
	}

	cfg := &jobConfig{}
	cfg.Job.WeightingPower = 2
	cfg.Job.Workers = 1
	if err := gcfg.ReadFileInto(cfg, *configPath); err != nil {
		log.Fatalf("Failed to read config %s: %v", *configPath, err)
	}
	if err := validate(cfg); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("Regrid failed: %v", err)
	}
}

func validate(cfg *jobConfig) error {
	j := &cfg.Job
	if j.Input == "" || j.Variable == "" || j.Output == "" {
		return fmt.Errorf("Input, Variable and Output are required")
	}
	if j.NX < 2 || j.NY < 2 {
		return fmt.Errorf("NX and NY must be at least 2")
	}
	if j.XMax <= j.XMin || j.YMax <= j.YMin {
		return fmt.Errorf("axis ranges must be increasing")
	}
	return nil
}

func run(cfg *jobConfig) error {
	j := &cfg.Job

	ds := ncstore.NewDataset(j.Input)
	fv, err := ds.LoadField(j.Variable)
	if err != nil {
		return err
	}

	target := domain.Rectilinear{
		X: linspace(j.XMin, j.XMax, j.NX),
		Y: linspace(j.YMin, j.YMax, j.NY),
	}

	opt := domain.DefaultOptions()
	opt.Method = j.Method
	opt.Cyclic = j.Cyclic
	opt.WeightingPower = j.WeightingPower

	log.Printf("Regridding %s from %s onto %dx%d grid", j.Variable, j.Input, j.NY, j.NX)

	var fo *domain.Field
	switch fv.Kind {
	case store.KindRectilinear:
		fo, err = regrid.BilinearGrid(fv.Rect, fv.Field, target, opt, nil, j.Workers)
	case store.KindCurvilinear:
		fo, err = regrid.CurvToRect(fv.Curv, fv.Field, target, opt, nil, j.Workers)
	default:
		return fmt.Errorf("unsupported source grid kind")
	}
	if err != nil {
		return err
	}

	if err := ncstore.WriteRect(j.Output, j.Variable, fo, target); err != nil {
		return err
	}
	log.Printf("Wrote %s", j.Output)
	return nil
}

func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}
