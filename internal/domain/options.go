package domain

import "math"

// Distance methods accepted by Options.Method.
const (
	MethodPlanar      = 0 // planar Euclidean distance
	MethodGreatCircle = 1 // great-circle distance, coordinates in degrees
)

// Options carries the per-call configuration shared by the regridding
// kernels. Unset numeric fields are filled in by DefaultOptions; callers
// building Options by hand should start from DefaultOptions.
type Options struct {
	// Method selects the distance metric: MethodPlanar or MethodGreatCircle.
	Method int

	// Domain widens the catchment radius for cells at the grid boundary
	// during triple-to-grid binning. Domain <= 0 excludes samples falling
	// outside the grid entirely. Default 1.0.
	Domain float64

	// Distmx is the maximum search radius in kilometers for binning.
	// Only meaningful with MethodGreatCircle. Default 1e20.
	Distmx float64

	// Cyclic marks the rightmost (longitude) axis of a rectilinear source
	// as wrapping around one period.
	Cyclic bool

	// WeightingPower is the exponent p in the inverse-distance weight
	// 1/d^p. Default 2.
	WeightingPower int

	// Missing marks absent samples. Default NaN. Every kernel treats an
	// input equal to Missing as a hole and writes Missing to any output
	// cell with zero usable neighbors.
	Missing float64
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Method:         MethodPlanar,
		Domain:         1.0,
		Distmx:         1e20,
		Cyclic:         false,
		WeightingPower: 2,
		Missing:        math.NaN(),
	}
}

// Validate checks each option against its declared domain. It is applied
// once at the boundary; the kernels assume validated options.
func (o Options) Validate() error {
	if o.Method != MethodPlanar && o.Method != MethodGreatCircle {
		return &ConfigError{Option: "method", Msg: "must be 0 (planar) or 1 (great circle)"}
	}
	if o.Distmx <= 0 {
		return &ConfigError{Option: "distmx", Msg: "must be positive"}
	}
	if o.WeightingPower < 1 {
		return &ConfigError{Option: "weighting_power", Msg: "must be a positive integer"}
	}
	if math.IsInf(o.Domain, 0) || math.IsNaN(o.Domain) {
		return &ConfigError{Option: "domain", Msg: "must be finite"}
	}
	return nil
}

// IsMissing reports whether v equals the missing sentinel. A NaN sentinel
// matches any NaN value, so fields using the default sentinel behave the
// same as fields using an explicit one.
func IsMissing(v, missing float64) bool {
	if math.IsNaN(missing) {
		return math.IsNaN(v)
	}
	return v == missing
}
