// Copyright 2026 Ferrite. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/ferrite-ml/ferrite/internal/nn"
	"github.com/ferrite-ml/ferrite/internal/tensor"
)

// Module is the common interface for all neural network modules.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter represents a trainable parameter in a neural network.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// Layers

// Linear represents a fully connected (dense) layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a new linear layer with Xavier initialization.
//
// Example:
//
//	backend := cpu.New()
//	proj := nn.NewLinear(512, 512, false, backend)
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, useBias bool, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, useBias, backend)
}

// LayerNorm applies layer normalization over the last dimension.
type LayerNorm[B tensor.Backend] = nn.LayerNorm[B]

// NewLayerNorm creates a new LayerNorm layer.
func NewLayerNorm[B tensor.Backend](normalizedShape int, epsilon float32, backend B) *LayerNorm[B] {
	return nn.NewLayerNorm(normalizedShape, epsilon, backend)
}

// Conv2D represents a 2D convolutional layer with a square kernel.
type Conv2D[B tensor.Backend] = nn.Conv2D[B]

// NewConv2D creates a new 2D convolutional layer.
func NewConv2D[B tensor.Backend](inChannels, outChannels, kernelSize, stride, padding int, useBias bool, backend B) *Conv2D[B] {
	return nn.NewConv2D(inChannels, outChannels, kernelSize, stride, padding, useBias, backend)
}

// MaxPool2D represents a 2D max pooling layer.
type MaxPool2D[B tensor.Backend] = nn.MaxPool2D[B]

// NewMaxPool2D creates a new 2D max pooling layer.
func NewMaxPool2D[B tensor.Backend](kernelSize, stride int) *MaxPool2D[B] {
	return nn.NewMaxPool2D[B](kernelSize, stride)
}

// ReLU is a rectified linear unit activation module.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a new ReLU activation module.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// Attention

// MultiHeadAttention is a multi-head self-attention block with
// residual connection and layer normalization.
type MultiHeadAttention[B tensor.Backend] = nn.MultiHeadAttention[B]

// NewMultiHeadAttention creates a multi-head attention block.
//
// Example:
//
//	backend := cpu.New()
//	mha := nn.NewMultiHeadAttention(512, 64, 64, 8, backend)
func NewMultiHeadAttention[B tensor.Backend](dModel, dKey, dValue, numHeads int, backend B) *MultiHeadAttention[B] {
	return nn.NewMultiHeadAttention(dModel, dKey, dValue, numHeads, backend)
}

// PositionwiseFeedForward is a position-wise feed-forward block with
// residual connection and layer normalization.
type PositionwiseFeedForward[B tensor.Backend] = nn.PositionwiseFeedForward[B]

// NewPositionwiseFeedForward creates a position-wise feed-forward block.
func NewPositionwiseFeedForward[B tensor.Backend](dModel, dHidden int, backend B) *PositionwiseFeedForward[B] {
	return nn.NewPositionwiseFeedForward(dModel, dHidden, backend)
}

// ScaledDotProductAttention computes softmax(QK^T / sqrt(d_k)) * V,
// returning the attended values and the attention weights.
func ScaledDotProductAttention[B tensor.Backend](query, key, value *tensor.Tensor[B], dK int) (*tensor.Tensor[B], *tensor.Tensor[B]) {
	return nn.ScaledDotProductAttention(query, key, value, dK)
}

// Initialization

// Xavier creates a tensor with Xavier/Glorot uniform initialization.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[B] {
	return nn.Xavier(fanIn, fanOut, shape, backend)
}
