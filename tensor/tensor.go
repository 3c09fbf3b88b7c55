// Copyright 2026 Ferrite. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for tensor operations in Ferrite.
//
// The package defines the core types for float32 tensor computation:
//   - Tensor[B]: shape-checked tensor bound to a compute backend
//   - Raw: flat float32 storage with shape and strides
//   - Backend: interface for device-specific compute implementations
//   - Shape: dimension sizes
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros(tensor.Shape{2, 3}, backend)
//	y := tensor.Ones(tensor.Shape{2, 3}, backend)
//	z := x.Add(y)
package tensor

import (
	"github.com/ferrite-ml/ferrite/internal/tensor"
)

// Shape represents the dimensions of a tensor.
type Shape = tensor.Shape

// Raw is the flat float32 storage underlying a Tensor.
type Raw = tensor.Raw

// Backend is the interface compute backends implement.
type Backend = tensor.Backend

// Tensor is a shape-checked tensor bound to a compute backend.
type Tensor[B Backend] = tensor.Tensor[B]

// New wraps raw storage in a Tensor bound to a backend.
func New[B Backend](raw *Raw, backend B) *Tensor[B] {
	return tensor.New(raw, backend)
}

// FromSlice creates a tensor from a flat data slice and a shape.
func FromSlice[B Backend](data []float32, shape Shape, backend B) (*Tensor[B], error) {
	return tensor.FromSlice(data, shape, backend)
}

// Zeros creates a tensor filled with zeros.
func Zeros[B Backend](shape Shape, backend B) *Tensor[B] {
	return tensor.Zeros(shape, backend)
}

// Ones creates a tensor filled with ones.
func Ones[B Backend](shape Shape, backend B) *Tensor[B] {
	return tensor.Ones(shape, backend)
}

// Full creates a tensor filled with a constant value.
func Full[B Backend](shape Shape, value float32, backend B) *Tensor[B] {
	return tensor.Full(shape, value, backend)
}

// Randn creates a tensor with standard normal random values.
func Randn[B Backend](shape Shape, backend B) *Tensor[B] {
	return tensor.Randn(shape, backend)
}

// Rand creates a tensor with uniform random values in [0, 1).
func Rand[B Backend](shape Shape, backend B) *Tensor[B] {
	return tensor.Rand(shape, backend)
}

// BroadcastShapes computes the NumPy-style broadcast shape of a and b.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}
