// Copyright 2026 Ferrite. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network layers and attention blocks.
//
// # Overview
//
// This package contains:
//   - Layers: Linear, Conv2D, MaxPool2D, LayerNorm
//   - Activations: ReLU
//   - Attention: MultiHeadAttention, PositionwiseFeedForward,
//     ScaledDotProductAttention
//   - Utilities: Module interface, Parameter
//   - Initialization: Xavier
//
// # Basic Usage
//
//	import (
//	    "github.com/ferrite-ml/ferrite/nn"
//	    "github.com/ferrite-ml/ferrite/backend/cpu"
//	    "github.com/ferrite-ml/ferrite/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    // One self-attention block over a token sequence
//	    mha := nn.NewMultiHeadAttention(512, 64, 64, 8, backend)
//
//	    input := tensor.Randn(tensor.Shape{2, 49, 512}, backend)
//	    output := mha.Forward(input) // same shape as input
//	}
//
// # Design
//
// Modules hold their parameters and delegate numeric work to the
// tensor backend. Forward passes are deterministic: the attention
// blocks carry no dropout and no randomness beyond weight
// initialization. Structural misuse (wrong rank, mismatched widths)
// panics; recoverable conditions return errors.
package nn
