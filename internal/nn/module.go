// Package nn implements the neural network layers used by the Ferrite
// feature-refinement pipeline: linear projections, layer normalization,
// scaled dot-product and multi-head attention, a position-wise
// feed-forward block, and the convolutional layers of the upstream
// feature extractor.
//
// Design inspired by PyTorch's nn.Module but adapted for Go generics.
package nn

import (
	"github.com/ferrite-ml/ferrite/internal/tensor"
)

// Module is the base interface for neural network components.
//
// Every module must implement:
//   - Forward: compute output from input
//   - Parameters: return all trainable parameters
//
// Type parameter B must satisfy the tensor.Backend interface.
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	//
	// The input tensor must have the appropriate shape for this module;
	// for example, Linear expects [batch_size, in_features].
	Forward(input *tensor.Tensor[B]) *tensor.Tensor[B]

	// Parameters returns all trainable parameters of this module.
	//
	// Returns an empty slice for modules without trainable parameters
	// (e.g. activation functions).
	Parameters() []*Parameter[B]
}
