package domain

// DType records the storage precision of a field. The engine computes in
// float64 regardless; DType controls the precision written back out and
// follows the promotion rule: double if any input is double, else float.
type DType int

const (
	Float32 DType = iota
	Float64
)

func (d DType) String() string {
	if d == Float64 {
		return "float64"
	}
	return "float32"
}

// PromoteDType combines the precision of two inputs.
func PromoteDType(a, b DType) DType {
	if a == Float64 || b == Float64 {
		return Float64
	}
	return Float32
}

// Field is a multi-dimensional numeric array stored row-major. The
// rightmost axes are the spatial axes matching one of the grid types; all
// axes to the left are independent batch axes carried through unchanged.
type Field struct {
	Values []float64
	Shape  []int
	DType  DType
}

// NewField allocates a zeroed field with the given shape.
func NewField(shape []int, dtype DType) *Field {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return &Field{
		Values: make([]float64, n),
		Shape:  append([]int(nil), shape...),
		DType:  dtype,
	}
}

// NDim returns the number of dimensions.
func (f *Field) NDim() int { return len(f.Shape) }

// Size returns the total number of elements.
func (f *Field) Size() int {
	n := 1
	for _, s := range f.Shape {
		n *= s
	}
	return n
}

// BatchShape returns the leading dimensions, excluding the rightmost
// nSpatial axes.
func (f *Field) BatchShape(nSpatial int) []int {
	return f.Shape[:len(f.Shape)-nSpatial]
}

// BatchSize returns the product of the leading dimensions, excluding the
// rightmost nSpatial axes. An empty batch has size 1.
func (f *Field) BatchSize(nSpatial int) int {
	n := 1
	for _, s := range f.BatchShape(nSpatial) {
		n *= s
	}
	return n
}

// SpatialSize returns the product of the rightmost nSpatial axes.
func (f *Field) SpatialSize(nSpatial int) int {
	n := 1
	for _, s := range f.Shape[len(f.Shape)-nSpatial:] {
		n *= s
	}
	return n
}

// ValidateSpatial checks that the field has at least nSpatial dimensions
// and that its rightmost axes match the declared spatial shape.
func (f *Field) ValidateSpatial(spatial ...int) error {
	if len(f.Shape) < len(spatial) {
		return shapeErrorf("field must have at least %d dimensions, got %d",
			len(spatial), len(f.Shape))
	}
	if f.Size() != len(f.Values) {
		return shapeErrorf("field has %d values for shape %v", len(f.Values), f.Shape)
	}
	off := len(f.Shape) - len(spatial)
	for k, want := range spatial {
		if got := f.Shape[off+k]; got != want {
			return shapeErrorf("field spatial dimension %d is %d, expected %d",
				off+k, got, want)
		}
	}
	return nil
}
