// Package usecase validates regrid requests and orchestrates the stores
// and the interpolation engine.
package usecase

import (
	"fmt"
	"math"
	"sort"

	"go.ngs.io/regrid-api/internal/adapter/store"
	"go.ngs.io/regrid-api/internal/domain"
	"go.ngs.io/regrid-api/internal/regrid"
)

// TargetSpec describes the output representation of a regrid request.
// Either explicit coordinate slices are given, or a rectilinear target is
// generated from min/max/count per axis.
type TargetSpec struct {
	// Kind is "grid" (rectilinear output) or "points" (unstructured
	// output locations).
	Kind string `json:"kind"`

	// Explicit coordinates. For "grid" these are the two axes; for
	// "points" they are paired coordinates of equal length.
	X []float64 `json:"x,omitempty"`
	Y []float64 `json:"y,omitempty"`

	// Generated rectilinear axes, used when X/Y are absent.
	XMin *float64 `json:"x_min,omitempty"`
	XMax *float64 `json:"x_max,omitempty"`
	NX   int      `json:"nx,omitempty"`
	YMin *float64 `json:"y_min,omitempty"`
	YMax *float64 `json:"y_max,omitempty"`
	NY   int      `json:"ny,omitempty"`
}

// RegridRequest encapsulates one regrid operation on a loaded dataset.
type RegridRequest struct {
	Dataset  string     `json:"dataset"`
	Variable string     `json:"variable"`
	Target   TargetSpec `json:"target"`

	// Engine options; absent fields keep their documented defaults.
	Method         *int     `json:"method,omitempty"`
	Domain         *float64 `json:"domain,omitempty"`
	Distmx         *float64 `json:"distmx,omitempty"`
	Cyclic         bool     `json:"cyclic,omitempty"`
	WeightingPower *int     `json:"weighting_power,omitempty"`
	Workers        int      `json:"workers,omitempty"`
}

// TripleRequest bins a named scattered sample set onto a rectilinear grid.
type TripleRequest struct {
	Name   string     `json:"name"`
	Target TargetSpec `json:"target"`

	Method *int     `json:"method,omitempty"`
	Domain *float64 `json:"domain,omitempty"`
	Distmx *float64 `json:"distmx,omitempty"`
}

// RegridResponse carries the resampled field. Missing cells are encoded
// as nulls so the payload stays valid JSON regardless of the sentinel.
type RegridResponse struct {
	Dataset  string     `json:"dataset,omitempty"`
	Variable string     `json:"variable,omitempty"`
	Shape    []int      `json:"shape"`
	Values   []*float64 `json:"values"`
	DType    string     `json:"dtype"`
	NMissing int        `json:"n_missing"`
}

// RegridUseCase orchestrates regridding over registered datasets.
type RegridUseCase struct {
	fields  map[string]store.FieldLoader
	triples store.TripleLoader
}

// NewRegridUseCase creates a use case over named field loaders and an
// optional triple loader.
func NewRegridUseCase(fields map[string]store.FieldLoader, triples store.TripleLoader) *RegridUseCase {
	return &RegridUseCase{
		fields:  fields,
		triples: triples,
	}
}

// ListDatasets returns the registered dataset names, sorted.
func (uc *RegridUseCase) ListDatasets() []string {
	names := make([]string, 0, len(uc.fields))
	for name := range uc.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListVariables returns the regriddable variables of one dataset.
func (uc *RegridUseCase) ListVariables(dataset string) ([]string, error) {
	loader, ok := uc.fields[dataset]
	if !ok {
		return nil, fmt.Errorf("unknown dataset %q", dataset)
	}
	return loader.ListVariables()
}

// Validate checks the request before any data is loaded.
func (r *RegridRequest) Validate() error {
	if r.Dataset == "" {
		return fmt.Errorf("dataset must be provided")
	}
	if r.Variable == "" {
		return fmt.Errorf("variable must be provided")
	}
	return r.Target.validate()
}

func (t *TargetSpec) validate() error {
	switch t.Kind {
	case "grid":
		hasExplicit := len(t.X) > 0 || len(t.Y) > 0
		hasGenerated := t.NX > 0 || t.NY > 0
		if hasExplicit && hasGenerated {
			return fmt.Errorf("target axes and generated axis ranges are mutually exclusive")
		}
		if hasExplicit {
			if len(t.X) < 2 || len(t.Y) < 2 {
				return fmt.Errorf("target grid axes must have at least 2 points")
			}
			return nil
		}
		if t.XMin == nil || t.XMax == nil || t.YMin == nil || t.YMax == nil {
			return fmt.Errorf("generated target grid requires x_min/x_max/y_min/y_max")
		}
		if t.NX < 2 || t.NY < 2 {
			return fmt.Errorf("generated target grid requires nx >= 2 and ny >= 2")
		}
		if *t.XMax <= *t.XMin || *t.YMax <= *t.YMin {
			return fmt.Errorf("target axis ranges must be increasing")
		}
	case "points":
		if len(t.X) == 0 || len(t.X) != len(t.Y) {
			return fmt.Errorf("target points require x and y of equal, nonzero length")
		}
	default:
		return fmt.Errorf("target kind must be \"grid\" or \"points\", got %q", t.Kind)
	}
	return nil
}

// grid materializes the target rectilinear grid.
func (t *TargetSpec) grid() domain.Rectilinear {
	if len(t.X) > 0 {
		return domain.Rectilinear{X: t.X, Y: t.Y}
	}
	return domain.Rectilinear{
		X: linspace(*t.XMin, *t.XMax, t.NX),
		Y: linspace(*t.YMin, *t.YMax, t.NY),
	}
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

// options assembles engine options from the optional request fields.
func (r *RegridRequest) options() domain.Options {
	opt := domain.DefaultOptions()
	if r.Method != nil {
		opt.Method = *r.Method
	}
	if r.Domain != nil {
		opt.Domain = *r.Domain
	}
	if r.Distmx != nil {
		opt.Distmx = *r.Distmx
	}
	if r.WeightingPower != nil {
		opt.WeightingPower = *r.WeightingPower
	}
	opt.Cyclic = r.Cyclic
	return opt
}

// Execute runs one regrid operation. Rectilinear sources use bilinear
// interpolation; curvilinear sources use inverse-distance weighting with
// gap fill, per the source/target pair.
func (uc *RegridUseCase) Execute(req RegridRequest) (*RegridResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	loader, ok := uc.fields[req.Dataset]
	if !ok {
		return nil, fmt.Errorf("unknown dataset %q", req.Dataset)
	}
	fv, err := loader.LoadField(req.Variable)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s/%s: %w", req.Dataset, req.Variable, err)
	}

	opt := req.options()
	if err := opt.Validate(); err != nil {
		return nil, err
	}

	var fo *domain.Field
	switch {
	case fv.Kind == store.KindRectilinear && req.Target.Kind == "grid":
		fo, err = regrid.BilinearGrid(fv.Rect, fv.Field, req.Target.grid(), opt, nil, req.Workers)
	case fv.Kind == store.KindRectilinear && req.Target.Kind == "points":
		pts := domain.PointSet{X: req.Target.X, Y: req.Target.Y}
		fo, err = regrid.BilinearPoints(fv.Rect, fv.Field, pts, opt, nil, req.Workers)
	case fv.Kind == store.KindCurvilinear && req.Target.Kind == "grid":
		fo, err = regrid.CurvToRect(fv.Curv, fv.Field, req.Target.grid(), opt, nil, req.Workers)
	case fv.Kind == store.KindCurvilinear && req.Target.Kind == "points":
		pts := domain.PointSet{X: req.Target.X, Y: req.Target.Y}
		fo, err = regrid.CurvToPoints(fv.Curv, fv.Field, pts, opt, nil, req.Workers)
	default:
		return nil, fmt.Errorf("unsupported source/target pair")
	}
	if err != nil {
		return nil, err
	}

	resp := buildResponse(fo, opt.Missing)
	resp.Dataset = req.Dataset
	resp.Variable = req.Variable
	return resp, nil
}

// ExecuteTriples bins a scattered sample set onto a rectilinear grid.
func (uc *RegridUseCase) ExecuteTriples(req TripleRequest) (*RegridResponse, error) {
	if uc.triples == nil {
		return nil, fmt.Errorf("no triple store configured")
	}
	if req.Name == "" {
		return nil, fmt.Errorf("name must be provided")
	}
	if req.Target.Kind != "grid" {
		return nil, fmt.Errorf("triple binning requires a grid target")
	}
	if err := req.Target.validate(); err != nil {
		return nil, err
	}

	triples, err := uc.triples.LoadTriples(req.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load triples %q: %w", req.Name, err)
	}

	opt := domain.DefaultOptions()
	if req.Method != nil {
		opt.Method = *req.Method
	}
	if req.Domain != nil {
		opt.Domain = *req.Domain
	}
	if req.Distmx != nil {
		opt.Distmx = *req.Distmx
	}
	if err := opt.Validate(); err != nil {
		return nil, err
	}

	data := &domain.Field{
		Values: triples.Values,
		Shape:  []int{triples.Len()},
		DType:  domain.Float64,
	}
	fo, err := regrid.TripleToGrid(triples.X, triples.Y, data, req.Target.grid(), opt, nil, 1)
	if err != nil {
		return nil, err
	}

	resp := buildResponse(fo, opt.Missing)
	resp.Variable = req.Name
	return resp, nil
}

func buildResponse(fo *domain.Field, missing float64) *RegridResponse {
	values := make([]*float64, len(fo.Values))
	nMissing := 0
	for i := range fo.Values {
		if domain.IsMissing(fo.Values[i], missing) || math.IsNaN(fo.Values[i]) {
			nMissing++
			continue
		}
		values[i] = &fo.Values[i]
	}
	return &RegridResponse{
		Shape:    fo.Shape,
		Values:   values,
		DType:    fo.DType.String(),
		NMissing: nMissing,
	}
}
