package tensor

import "fmt"

// Raw is the low-level tensor representation: a flat float32 buffer with
// row-major layout. Ferrite's refinement pipeline is float32 end to end,
// so Raw carries no runtime dtype tag.
type Raw struct {
	data   []float32
	shape  Shape
	stride []int
}

// NewRaw creates a new Raw tensor with the given shape.
// Memory is allocated and zero-initialized.
func NewRaw(shape Shape) (*Raw, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	return &Raw{
		data:   make([]float32, shape.NumElements()),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
	}, nil
}

// Shape returns the tensor's shape.
func (r *Raw) Shape() Shape {
	return r.shape
}

// Strides returns the tensor's memory strides.
func (r *Raw) Strides() []int {
	return r.stride
}

// NumElements returns the total number of elements.
func (r *Raw) NumElements() int {
	return r.shape.NumElements()
}

// Data returns the flat float32 buffer.
//
// WARNING: Modifications to the returned slice modify the tensor.
func (r *Raw) Data() []float32 {
	return r.data
}

// Clone creates a deep copy of the Raw tensor.
func (r *Raw) Clone() *Raw {
	data := make([]float32, len(r.data))
	copy(data, r.data)
	return &Raw{
		data:   data,
		shape:  r.shape.Clone(),
		stride: append([]int(nil), r.stride...),
	}
}
