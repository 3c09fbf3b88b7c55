package nn

import (
	"testing"

	"github.com/ferrite-ml/ferrite/internal/backend/cpu"
	"github.com/ferrite-ml/ferrite/internal/tensor"
)

// TestPositionwiseFeedForward_Shape verifies the block preserves shape.
func TestPositionwiseFeedForward_Shape(t *testing.T) {
	backend := cpu.New()

	ffn := NewPositionwiseFeedForward(16, 64, backend)
	input := tensor.Randn(tensor.Shape{2, 9, 16}, backend)

	output := ffn.Forward(input)

	if !output.Shape().Equal(input.Shape()) {
		t.Errorf("Expected output shape %v, got %v", input.Shape(), output.Shape())
	}
}

// TestPositionwiseFeedForward_PositionIndependent verifies the same
// token vector produces the same output at every position.
func TestPositionwiseFeedForward_PositionIndependent(t *testing.T) {
	backend := cpu.New()

	ffn := NewPositionwiseFeedForward(8, 16, backend)

	// Three positions carrying the identical embedding.
	row := []float32{1, -2, 3, 0.5, -0.25, 2, -1, 4}
	data := make([]float32, 0, 3*8)
	for i := 0; i < 3; i++ {
		data = append(data, row...)
	}
	input, err := tensor.FromSlice(data, tensor.Shape{1, 3, 8}, backend)
	if err != nil {
		t.Fatal(err)
	}

	output := ffn.Forward(input)

	out := output.Data()
	for pos := 1; pos < 3; pos++ {
		for i := 0; i < 8; i++ {
			if out[pos*8+i] != out[i] {
				t.Errorf("Position %d differs from position 0 at feature %d: %f vs %f",
					pos, i, out[pos*8+i], out[i])
			}
		}
	}
}

// TestPositionwiseFeedForward_Parameters verifies two bias-free linears
// plus the norm affine pair.
func TestPositionwiseFeedForward_Parameters(t *testing.T) {
	backend := cpu.New()

	ffn := NewPositionwiseFeedForward(8, 16, backend)

	if len(ffn.Parameters()) != 4 {
		t.Errorf("Expected 4 parameters, got %d", len(ffn.Parameters()))
	}
	if ffn.W1.Bias() != nil || ffn.W2.Bias() != nil {
		t.Error("Expected bias-free linears")
	}
}

// TestPositionwiseFeedForward_InvalidInputs verifies shape misuse panics.
func TestPositionwiseFeedForward_InvalidInputs(t *testing.T) {
	backend := cpu.New()
	ffn := NewPositionwiseFeedForward(8, 16, backend)

	tests := []struct {
		name string
		fn   func()
	}{
		{"2D input", func() { ffn.Forward(tensor.Randn(tensor.Shape{3, 8}, backend)) }},
		{"width mismatch", func() { ffn.Forward(tensor.Randn(tensor.Shape{1, 3, 16}, backend)) }},
		{"zero hidden", func() { NewPositionwiseFeedForward(8, 0, backend) }},
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
