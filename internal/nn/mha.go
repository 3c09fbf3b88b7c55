package nn

import (
	"fmt"

	"github.com/ferrite-ml/ferrite/internal/tensor"
)

// MultiHeadAttention implements multi-head self-attention with a
// residual connection and layer normalization applied inside the block:
//
//	out = LayerNorm(x + FC(MultiHead(Q, K, V)))
//
// Q, K, V are produced by bias-free linear projections of the inputs,
// split into NumHeads heads of width DKey (DValue for V), attended
// independently via ScaledDotProductAttention, recombined, and mapped
// back to DModel by a bias-free output projection.
type MultiHeadAttention[B tensor.Backend] struct {
	// WQ, WK, WV project the model width into the concatenated
	// per-head widths. None of them carries a bias.
	WQ *Linear[B]
	WK *Linear[B]
	WV *Linear[B]

	// FC maps the concatenated head outputs back to DModel, bias-free.
	FC *Linear[B]

	// Norm is applied after the residual addition.
	Norm *LayerNorm[B]

	DModel   int
	DKey     int
	DValue   int
	NumHeads int

	backend B
}

// NewMultiHeadAttention creates a multi-head attention block.
//
// dModel is the embedding width of the inputs, dKey and dValue the
// per-head widths of the key/query and value projections, and numHeads
// the number of attention heads.
func NewMultiHeadAttention[B tensor.Backend](dModel, dKey, dValue, numHeads int, backend B) *MultiHeadAttention[B] {
	if dModel <= 0 || dKey <= 0 || dValue <= 0 || numHeads <= 0 {
		panic(fmt.Sprintf("multi-head attention: dimensions must be positive, got dModel=%d dKey=%d dValue=%d numHeads=%d",
			dModel, dKey, dValue, numHeads))
	}

	return &MultiHeadAttention[B]{
		WQ:       NewLinear(dModel, numHeads*dKey, false, backend),
		WK:       NewLinear(dModel, numHeads*dKey, false, backend),
		WV:       NewLinear(dModel, numHeads*dValue, false, backend),
		FC:       NewLinear(numHeads*dValue, dModel, false, backend),
		Norm:     NewLayerNorm(dModel, 1e-6, backend),
		DModel:   dModel,
		DKey:     dKey,
		DValue:   dValue,
		NumHeads: numHeads,
		backend:  backend,
	}
}

// Forward runs the block in self-attention form, using x as query, key
// and value. x must be [batch, tokens, DModel].
func (m *MultiHeadAttention[B]) Forward(x *tensor.Tensor[B]) *tensor.Tensor[B] {
	return m.ForwardQKV(x, x, x)
}

// ForwardQKV runs the block with separate query, key and value inputs.
// All inputs must be 3D [batch, tokens, DModel] with matching batch
// sizes; key and value must have the same token count.
func (m *MultiHeadAttention[B]) ForwardQKV(inputQ, inputK, inputV *tensor.Tensor[B]) *tensor.Tensor[B] {
	m.validateInputs(inputQ, inputK, inputV)

	batch := inputQ.Shape()[0]
	seqQ := inputQ.Shape()[1]

	// Project and split into heads: [batch, heads, tokens, width].
	q := m.projectAndSplit(m.WQ, inputQ, m.DKey)
	k := m.projectAndSplit(m.WK, inputK, m.DKey)
	v := m.projectAndSplit(m.WV, inputV, m.DValue)

	attended, _ := ScaledDotProductAttention(q, k, v, m.DKey)

	// Recombine heads: [batch, heads, seq_q, d_v] -> [batch, seq_q, heads*d_v].
	combined := attended.
		Transpose(0, 2, 1, 3).
		Reshape(batch, seqQ, m.NumHeads*m.DValue)

	projected := m.project(m.FC, combined)

	// Residual connection around the whole sublayer, then normalize.
	return m.Norm.Forward(inputQ.Add(projected))
}

// Parameters returns all learnable parameters of the block.
func (m *MultiHeadAttention[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	params = append(params, m.WQ.Parameters()...)
	params = append(params, m.WK.Parameters()...)
	params = append(params, m.WV.Parameters()...)
	params = append(params, m.FC.Parameters()...)
	params = append(params, m.Norm.Parameters()...)
	return params
}

// project applies a linear layer to a 3D [batch, tokens, features]
// tensor by flattening the leading dims around the 2D matmul.
func (m *MultiHeadAttention[B]) project(layer *Linear[B], x *tensor.Tensor[B]) *tensor.Tensor[B] {
	batch := x.Shape()[0]
	tokens := x.Shape()[1]

	flat := x.Reshape(batch*tokens, x.Shape()[2])
	out := layer.Forward(flat)
	return out.Reshape(batch, tokens, layer.OutFeatures())
}

// projectAndSplit projects x and splits the result into heads:
// [batch, tokens, DModel] -> [batch, NumHeads, tokens, width].
func (m *MultiHeadAttention[B]) projectAndSplit(layer *Linear[B], x *tensor.Tensor[B], width int) *tensor.Tensor[B] {
	batch := x.Shape()[0]
	tokens := x.Shape()[1]

	projected := m.project(layer, x)
	return projected.
		Reshape(batch, tokens, m.NumHeads, width).
		Transpose(0, 2, 1, 3)
}

func (m *MultiHeadAttention[B]) validateInputs(inputQ, inputK, inputV *tensor.Tensor[B]) {
	for name, t := range map[string]*tensor.Tensor[B]{"query": inputQ, "key": inputK, "value": inputV} {
		if len(t.Shape()) != 3 {
			panic(fmt.Sprintf("multi-head attention: %s input must be 3D [batch, tokens, d_model], got %v", name, t.Shape()))
		}
		if t.Shape()[2] != m.DModel {
			panic(fmt.Sprintf("multi-head attention: %s embedding width %d does not match d_model %d", name, t.Shape()[2], m.DModel))
		}
	}
	if inputQ.Shape()[0] != inputK.Shape()[0] || inputK.Shape()[0] != inputV.Shape()[0] {
		panic(fmt.Sprintf("multi-head attention: batch sizes differ: q=%d k=%d v=%d",
			inputQ.Shape()[0], inputK.Shape()[0], inputV.Shape()[0]))
	}
	if inputK.Shape()[1] != inputV.Shape()[1] {
		panic(fmt.Sprintf("multi-head attention: key and value token counts differ: %d vs %d",
			inputK.Shape()[1], inputV.Shape()[1]))
	}
}
