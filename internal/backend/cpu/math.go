package cpu

import (
	"fmt"
	"math"

	"github.com/ferrite-ml/ferrite/internal/tensor"
)

// MulScalar multiplies each element of the tensor by a scalar value.
func (cpu *CPUBackend) MulScalar(x *tensor.Raw, scalar float32) *tensor.Raw {
	result, err := tensor.NewRaw(x.Shape())
	if err != nil {
		panic(fmt.Sprintf("mulscalar: failed to create result tensor: %v", err))
	}

	src := x.Data()
	dst := result.Data()
	for i, v := range src {
		dst[i] = v * scalar
	}
	return result
}

// Rsqrt computes element-wise reciprocal square root: 1/sqrt(x).
// This is the inner step of LayerNorm; inputs must be strictly positive
// (the normalization epsilon guarantees that for variance terms).
func (cpu *CPUBackend) Rsqrt(x *tensor.Raw) *tensor.Raw {
	result, err := tensor.NewRaw(x.Shape())
	if err != nil {
		panic(fmt.Sprintf("rsqrt: %v", err))
	}

	src := x.Data()
	dst := result.Data()
	for i, v := range src {
		if v <= 0 {
			panic(fmt.Sprintf("rsqrt: non-positive value at index %d: %f", i, v))
		}
		dst[i] = 1.0 / float32(math.Sqrt(float64(v)))
	}
	return result
}

// ReLU applies the rectified linear unit element-wise: max(0, x).
func (cpu *CPUBackend) ReLU(x *tensor.Raw) *tensor.Raw {
	result, err := tensor.NewRaw(x.Shape())
	if err != nil {
		panic(fmt.Sprintf("relu: %v", err))
	}

	src := x.Data()
	dst := result.Data()
	for i, v := range src {
		if v > 0 {
			dst[i] = v
		}
	}
	return result
}
