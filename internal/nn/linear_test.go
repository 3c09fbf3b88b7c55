package nn

import (
	"testing"

	"github.com/ferrite-ml/ferrite/internal/backend/cpu"
	"github.com/ferrite-ml/ferrite/internal/tensor"
)

// TestLinear_Forward verifies output shape and a hand-set computation.
func TestLinear_Forward(t *testing.T) {
	backend := cpu.New()

	layer := NewLinear(3, 2, true, backend)

	// W = [[1, 0, 0], [0, 1, 0]], b = [10, 20]
	copy(layer.Weight().Tensor().Data(), []float32{1, 0, 0, 0, 1, 0})
	copy(layer.Bias().Tensor().Data(), []float32{10, 20})

	input, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	if err != nil {
		t.Fatal(err)
	}

	output := layer.Forward(input)

	if !output.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("Expected output shape [2 2], got %v", output.Shape())
	}
	want := []float32{11, 22, 14, 25}
	for i, expected := range want {
		if output.Data()[i] != expected {
			t.Errorf("Output[%d] = %f, expected %f", i, output.Data()[i], expected)
		}
	}
}

// TestLinear_BiasFree verifies bias-free layers have no bias parameter
// and map zero to zero.
func TestLinear_BiasFree(t *testing.T) {
	backend := cpu.New()

	layer := NewLinear(4, 3, false, backend)

	if layer.Bias() != nil {
		t.Error("Expected nil bias for bias-free layer")
	}
	if len(layer.Parameters()) != 1 {
		t.Errorf("Expected 1 parameter, got %d", len(layer.Parameters()))
	}

	input := tensor.Zeros(tensor.Shape{2, 4}, backend)
	output := layer.Forward(input)
	for i, v := range output.Data() {
		if v != 0 {
			t.Errorf("Expected zero output at %d, got %f", i, v)
		}
	}
}

// TestLinear_InvalidInputs verifies shape misuse panics.
func TestLinear_InvalidInputs(t *testing.T) {
	backend := cpu.New()
	layer := NewLinear(4, 3, false, backend)

	tests := []struct {
		name string
		fn   func()
	}{
		{"3D input", func() { layer.Forward(tensor.Randn(tensor.Shape{2, 3, 4}, backend)) }},
		{"feature mismatch", func() { layer.Forward(tensor.Randn(tensor.Shape{2, 5}, backend)) }},
		{"zero features", func() { NewLinear(0, 3, false, backend) }},
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
