package nn

import (
	"testing"

	"github.com/ferrite-ml/ferrite/internal/backend/cpu"
	"github.com/ferrite-ml/ferrite/internal/tensor"
)

// TestMultiHeadAttention_SelfAttention verifies self-attention output
// shape matches the input shape.
func TestMultiHeadAttention_SelfAttention(t *testing.T) {
	backend := cpu.New()

	mha := NewMultiHeadAttention(32, 8, 8, 4, backend)

	input := tensor.Randn(tensor.Shape{2, 9, 32}, backend)
	output := mha.Forward(input)

	if !output.Shape().Equal(input.Shape()) {
		t.Errorf("Expected output shape %v, got %v", input.Shape(), output.Shape())
	}
}

// TestMultiHeadAttention_CrossAttention verifies cross-attention with
// a longer key/value sequence keeps the query sequence length.
func TestMultiHeadAttention_CrossAttention(t *testing.T) {
	backend := cpu.New()

	mha := NewMultiHeadAttention(16, 4, 4, 2, backend)

	query := tensor.Randn(tensor.Shape{2, 5, 16}, backend)
	key := tensor.Randn(tensor.Shape{2, 12, 16}, backend)
	value := tensor.Randn(tensor.Shape{2, 12, 16}, backend)

	output := mha.ForwardQKV(query, key, value)

	if !output.Shape().Equal(tensor.Shape{2, 5, 16}) {
		t.Errorf("Expected output shape [2 5 16], got %v", output.Shape())
	}
}

// TestMultiHeadAttention_SeparateValueWidth verifies d_v may differ
// from d_k while the output stays at d_model.
func TestMultiHeadAttention_SeparateValueWidth(t *testing.T) {
	backend := cpu.New()

	mha := NewMultiHeadAttention(24, 4, 10, 3, backend)

	input := tensor.Randn(tensor.Shape{1, 6, 24}, backend)
	output := mha.Forward(input)

	if !output.Shape().Equal(input.Shape()) {
		t.Errorf("Expected output shape %v, got %v", input.Shape(), output.Shape())
	}
}

// TestMultiHeadAttention_Deterministic verifies repeated forward passes
// on the same input agree exactly (no dropout, no randomness).
func TestMultiHeadAttention_Deterministic(t *testing.T) {
	backend := cpu.New()

	mha := NewMultiHeadAttention(16, 4, 4, 4, backend)
	input := tensor.Randn(tensor.Shape{2, 7, 16}, backend)

	out1 := mha.Forward(input)
	out2 := mha.Forward(input)

	d1, d2 := out1.Data(), out2.Data()
	for i := range d1 {
		if d1[i] != d2[i] {
			t.Fatalf("Outputs differ at %d: %f vs %f", i, d1[i], d2[i])
		}
	}
}

// TestMultiHeadAttention_ZeroWeightsResidual verifies that with all
// projection weights zeroed the block reduces to LayerNorm(input):
// the residual path alone carries the signal.
func TestMultiHeadAttention_ZeroWeightsResidual(t *testing.T) {
	backend := cpu.New()

	dModel := 8
	mha := NewMultiHeadAttention(dModel, 2, 2, 2, backend)
	for _, p := range mha.Parameters() {
		if p.Name() == "weight" {
			data := p.Tensor().Data()
			for i := range data {
				data[i] = 0
			}
		}
	}

	input := tensor.Zeros(tensor.Shape{1, 3, dModel}, backend)
	output := mha.Forward(input)

	// Zero input through zero projections stays zero; LayerNorm of a
	// zero vector is beta, which initializes to zero.
	for i, v := range output.Data() {
		if v != 0 {
			t.Errorf("Expected zero output at %d, got %f", i, v)
		}
	}
}

// TestMultiHeadAttention_InvalidInputs verifies dimension misuse panics.
func TestMultiHeadAttention_InvalidInputs(t *testing.T) {
	backend := cpu.New()

	mha := NewMultiHeadAttention(16, 4, 4, 4, backend)

	tests := []struct {
		name string
		fn   func()
	}{
		{"wrong embedding width", func() {
			mha.Forward(tensor.Randn(tensor.Shape{1, 5, 32}, backend))
		}},
		{"4D input", func() {
			mha.Forward(tensor.Randn(tensor.Shape{1, 5, 4, 4}, backend))
		}},
		{"batch mismatch", func() {
			q := tensor.Randn(tensor.Shape{1, 5, 16}, backend)
			kv := tensor.Randn(tensor.Shape{2, 5, 16}, backend)
			mha.ForwardQKV(q, kv, kv)
		}},
		{"key/value length mismatch", func() {
			q := tensor.Randn(tensor.Shape{1, 5, 16}, backend)
			k := tensor.Randn(tensor.Shape{1, 6, 16}, backend)
			v := tensor.Randn(tensor.Shape{1, 7, 16}, backend)
			mha.ForwardQKV(q, k, v)
		}},
		{"non-positive dimension", func() {
			NewMultiHeadAttention(0, 4, 4, 4, backend)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("Expected panic")
				}
			}()
			tt.fn()
		})
	}
}

// TestMultiHeadAttention_Parameters verifies the block exposes the
// projection, output and norm parameters.
func TestMultiHeadAttention_Parameters(t *testing.T) {
	backend := cpu.New()

	mha := NewMultiHeadAttention(16, 4, 4, 4, backend)

	// Four bias-free linears plus gamma and beta.
	params := mha.Parameters()
	if len(params) != 6 {
		t.Errorf("Expected 6 parameters, got %d", len(params))
	}
}
