// Package store defines the data-loading interfaces the regrid use case
// depends on, keeping the NetCDF and CSV adapters swappable.
package store

import "go.ngs.io/regrid-api/internal/domain"

// GridKind tags the spatial representation a loaded variable carries.
type GridKind int

const (
	KindRectilinear GridKind = iota
	KindCurvilinear
)

// FieldVariable is one loaded variable: its values plus the coordinate
// arrays describing its two rightmost axes. File fill values are already
// normalized to NaN in Field.Values.
type FieldVariable struct {
	Name  string
	Field *domain.Field
	Kind  GridKind
	Rect  domain.Rectilinear // valid when Kind == KindRectilinear
	Curv  domain.Curvilinear // valid when Kind == KindCurvilinear
}

// FieldLoader loads gridded variables by name.
type FieldLoader interface {
	LoadField(varName string) (*FieldVariable, error)

	// ListVariables names the gridded variables available for loading.
	ListVariables() ([]string, error)
}

// TripleLoader loads scattered (x, y, value) samples.
type TripleLoader interface {
	LoadTriples(name string) (domain.TripleSet, error)
}
