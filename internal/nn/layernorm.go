package nn

import (
	"github.com/ferrite-ml/ferrite/internal/tensor"
)

// LayerNorm applies layer normalization over the last dimension.
//
// Formula: Y = gamma * (X - mean(X)) / sqrt(var(X) + eps) + beta
//
// Mean and variance are computed per token across the embedding axis,
// which stabilizes the residual stream between attention blocks.
//
// Example:
//
//	norm := nn.NewLayerNorm(512, 1e-5, backend)
//	output := norm.Forward(hidden) // [..., 512] -> [..., 512]
type LayerNorm[B tensor.Backend] struct {
	Gamma   *Parameter[B] // learnable scale [d_model]
	Beta    *Parameter[B] // learnable shift [d_model]
	Epsilon float32       // numerical stability constant
	backend B
}

// NewLayerNorm creates a new LayerNorm layer.
//
// Parameters:
//   - normalizedShape: size of the last dimension (embedding width)
//   - epsilon: small constant for numerical stability (typically 1e-5)
//   - backend: computation backend
//
// Gamma is initialized to ones, beta to zeros.
func NewLayerNorm[B tensor.Backend](normalizedShape int, epsilon float32, backend B) *LayerNorm[B] {
	return &LayerNorm[B]{
		Gamma:   NewParameter("gamma", Ones(tensor.Shape{normalizedShape}, backend)),
		Beta:    NewParameter("beta", Zeros(tensor.Shape{normalizedShape}, backend)),
		Epsilon: epsilon,
		backend: backend,
	}
}

// Forward applies LayerNorm to the input tensor.
// Output shape equals input shape.
func (l *LayerNorm[B]) Forward(x *tensor.Tensor[B]) *tensor.Tensor[B] {
	// Per-token statistics along the embedding axis.
	mean := x.MeanDim(-1, true)
	xCentered := x.Sub(mean)
	variance := xCentered.Mul(xCentered).MeanDim(-1, true)

	// 1 / sqrt(variance + eps)
	eps := tensor.Full(variance.Shape(), l.Epsilon, l.backend)
	rsqrt := tensor.New(l.backend.Rsqrt(variance.Add(eps).Raw()), l.backend)

	xNorm := xCentered.Mul(rsqrt)

	// Unsqueeze gamma/beta so broadcasting lines them up with the last axis.
	gamma := l.Gamma.Tensor()
	beta := l.Beta.Tensor()
	for i := 0; i < len(x.Shape())-1; i++ {
		gamma = gamma.Unsqueeze(0)
		beta = beta.Unsqueeze(0)
	}

	return xNorm.Mul(gamma).Add(beta)
}

// Parameters returns the learnable parameters (gamma and beta).
func (l *LayerNorm[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{l.Gamma, l.Beta}
}
