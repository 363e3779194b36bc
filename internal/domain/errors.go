package domain

import "fmt"

// ShapeError reports disagreeing spatial shapes or an axis with fewer
// than two points. It is fatal: no output is produced.
type ShapeError struct {
	Msg string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("shape error: %s", e.Msg)
}

// MonotonicityError reports a rectilinear axis that is not strictly
// monotonic.
type MonotonicityError struct {
	Axis string
}

func (e *MonotonicityError) Error() string {
	return fmt.Sprintf("axis %s is not strictly monotonic", e.Axis)
}

// ChunkLayoutError reports a chunk partition that splits a spatial axis.
// The interpolation kernels require each 2D slice as a contiguous unit,
// so this is a configuration error rather than a degradation.
type ChunkLayoutError struct {
	Dim int
}

func (e *ChunkLayoutError) Error() string {
	return fmt.Sprintf("spatial dimension %d must not be chunked", e.Dim)
}

// ConfigError reports an option value outside its declared domain.
type ConfigError struct {
	Option string
	Msg    string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid option %s: %s", e.Option, e.Msg)
}

func shapeErrorf(format string, args ...interface{}) error {
	return &ShapeError{Msg: fmt.Sprintf(format, args...)}
}
