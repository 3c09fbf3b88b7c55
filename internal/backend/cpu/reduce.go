package cpu

import (
	"fmt"
	"math"

	"github.com/ferrite-ml/ferrite/internal/tensor"
)

// SumDim sums tensor elements along the specified dimension.
//
// Parameters:
//   - dim: dimension to reduce (supports negative indexing: -1 = last dim)
//   - keepDim: if true, keep the reduced dimension with size 1; if false, remove it
func (cpu *CPUBackend) SumDim(x *tensor.Raw, dim int, keepDim bool) *tensor.Raw {
	shape := x.Shape()
	ndim := len(shape)

	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("sumdim: dimension %d out of range for %dD tensor", dim, ndim))
	}

	var outShape tensor.Shape
	if keepDim {
		outShape = shape.Clone()
		outShape[dim] = 1
	} else {
		outShape = make(tensor.Shape, 0, ndim-1)
		for i := 0; i < ndim; i++ {
			if i != dim {
				outShape = append(outShape, shape[i])
			}
		}
	}

	result, err := tensor.NewRaw(outShape)
	if err != nil {
		panic(fmt.Sprintf("sumdim: %v", err))
	}

	src := x.Data()
	dst := result.Data()
	strides := shape.ComputeStrides()

	// Strides of the reduced shape (size 1 along dim), used to find the
	// output slot for each input element.
	reducedShape := shape.Clone()
	reducedShape[dim] = 1
	outStrides := reducedShape.ComputeStrides()

	for i := range src {
		outIdx := 0
		rem := i
		for d := 0; d < ndim; d++ {
			coord := rem / strides[d]
			rem %= strides[d]
			if d != dim {
				outIdx += coord * outStrides[d]
			}
		}
		dst[outIdx] += src[i]
	}

	return result
}

// MeanDim computes the mean of tensor elements along the specified dimension.
//
// Parameters:
//   - dim: dimension to reduce (supports negative indexing: -1 = last dim)
//   - keepDim: if true, keep the reduced dimension with size 1; if false, remove it
func (cpu *CPUBackend) MeanDim(x *tensor.Raw, dim int, keepDim bool) *tensor.Raw {
	result := cpu.SumDim(x, dim, keepDim)

	shape := x.Shape()
	if dim < 0 {
		dim = len(shape) + dim
	}
	divisor := float32(shape[dim])

	data := result.Data()
	for i := range data {
		data[i] /= divisor
	}

	return result
}

// Softmax computes softmax along the specified dimension:
// Softmax(x_i) = exp(x_i) / sum(exp(x_j)) for all j in the dimension.
// Uses the max-subtraction trick for numerical stability.
func (cpu *CPUBackend) Softmax(x *tensor.Raw, dim int) *tensor.Raw {
	shape := x.Shape()
	ndim := len(shape)

	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("softmax: dimension %d out of range for tensor of rank %d", dim, ndim))
	}

	result, err := tensor.NewRaw(shape)
	if err != nil {
		panic(fmt.Sprintf("softmax: %v", err))
	}

	src := x.Data()
	dst := result.Data()
	strides := shape.ComputeStrides()

	dimSize := shape[dim]
	dimStride := strides[dim]

	// Number of "rows" (groups of elements that share one softmax).
	numRows := 1
	for i := range shape {
		if i != dim {
			numRows *= shape[i]
		}
	}

	for row := 0; row < numRows; row++ {
		// Base flat index for this row.
		baseIdx := 0
		remaining := row
		for i := 0; i < ndim; i++ {
			if i == dim {
				continue
			}
			coord := remaining % shape[i]
			remaining /= shape[i]
			baseIdx += coord * strides[i]
		}

		// Find max for numerical stability.
		maxVal := float32(math.Inf(-1))
		for i := 0; i < dimSize; i++ {
			if v := src[baseIdx+i*dimStride]; v > maxVal {
				maxVal = v
			}
		}

		// Compute exp(x - max) and sum.
		var sum float32
		for i := 0; i < dimSize; i++ {
			idx := baseIdx + i*dimStride
			expVal := float32(math.Exp(float64(src[idx] - maxVal)))
			dst[idx] = expVal
			sum += expVal
		}

		// Normalize.
		for i := 0; i < dimSize; i++ {
			dst[baseIdx+i*dimStride] /= sum
		}
	}

	return result
}
