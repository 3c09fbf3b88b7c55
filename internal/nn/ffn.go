package nn

import (
	"fmt"

	"github.com/ferrite-ml/ferrite/internal/tensor"
)

// PositionwiseFeedForward applies the same two-layer MLP to every token
// position independently, with a residual connection and layer
// normalization:
//
//	out = LayerNorm(x + W2(ReLU(W1(x))))
//
// Both linear maps are bias-free. W1 expands DModel to DHidden and W2
// contracts back to DModel.
type PositionwiseFeedForward[B tensor.Backend] struct {
	W1   *Linear[B]
	W2   *Linear[B]
	Norm *LayerNorm[B]

	DModel  int
	DHidden int

	backend B
}

// NewPositionwiseFeedForward creates a position-wise feed-forward block
// expanding dModel to dHidden and back.
func NewPositionwiseFeedForward[B tensor.Backend](dModel, dHidden int, backend B) *PositionwiseFeedForward[B] {
	if dModel <= 0 || dHidden <= 0 {
		panic(fmt.Sprintf("positionwise feed-forward: dimensions must be positive, got dModel=%d dHidden=%d", dModel, dHidden))
	}

	return &PositionwiseFeedForward[B]{
		W1:      NewLinear(dModel, dHidden, false, backend),
		W2:      NewLinear(dHidden, dModel, false, backend),
		Norm:    NewLayerNorm(dModel, 1e-6, backend),
		DModel:  dModel,
		DHidden: dHidden,
		backend: backend,
	}
}

// Forward applies the block to x, which must be [batch, tokens, DModel].
func (f *PositionwiseFeedForward[B]) Forward(x *tensor.Tensor[B]) *tensor.Tensor[B] {
	if len(x.Shape()) != 3 {
		panic(fmt.Sprintf("positionwise feed-forward: input must be 3D [batch, tokens, d_model], got %v", x.Shape()))
	}
	if x.Shape()[2] != f.DModel {
		panic(fmt.Sprintf("positionwise feed-forward: input width %d does not match d_model %d", x.Shape()[2], f.DModel))
	}

	batch := x.Shape()[0]
	tokens := x.Shape()[1]

	flat := x.Reshape(batch*tokens, f.DModel)
	hidden := f.W1.Forward(flat)
	hidden = tensor.New(f.backend.ReLU(hidden.Raw()), f.backend)
	out := f.W2.Forward(hidden).Reshape(batch, tokens, f.DModel)

	return f.Norm.Forward(x.Add(out))
}

// Parameters returns all learnable parameters of the block.
func (f *PositionwiseFeedForward[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	params = append(params, f.W1.Parameters()...)
	params = append(params, f.W2.Parameters()...)
	params = append(params, f.Norm.Parameters()...)
	return params
}
