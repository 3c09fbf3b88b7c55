package nn

import (
	"testing"

	"github.com/ferrite-ml/ferrite/internal/backend/cpu"
	"github.com/ferrite-ml/ferrite/internal/tensor"
)

// TestConv2D_OutputShape verifies the stride/padding output geometry.
func TestConv2D_OutputShape(t *testing.T) {
	backend := cpu.New()

	conv := NewConv2D(3, 8, 3, 2, 1, true, backend)
	input := tensor.Randn(tensor.Shape{2, 3, 16, 16}, backend)

	output := conv.Forward(input)

	if !output.Shape().Equal(tensor.Shape{2, 8, 8, 8}) {
		t.Errorf("Expected output shape [2 8 8 8], got %v", output.Shape())
	}
}

// TestConv2D_BiasBroadcast verifies the bias is added per output map.
func TestConv2D_BiasBroadcast(t *testing.T) {
	backend := cpu.New()

	conv := NewConv2D(1, 2, 1, 1, 0, true, backend)
	// Zero kernels: the output is the bias alone.
	for i := range conv.Weight().Tensor().Data() {
		conv.Weight().Tensor().Data()[i] = 0
	}
	copy(conv.Parameters()[1].Tensor().Data(), []float32{1, 2})

	input := tensor.Randn(tensor.Shape{1, 1, 3, 3}, backend)
	output := conv.Forward(input)

	for i, v := range output.Data()[:9] {
		if v != 1 {
			t.Errorf("Channel 0 position %d = %f, expected 1", i, v)
		}
	}
	for i, v := range output.Data()[9:] {
		if v != 2 {
			t.Errorf("Channel 1 position %d = %f, expected 2", i, v)
		}
	}
}

// TestConv2D_ChannelMismatchPanics verifies misuse panics.
func TestConv2D_ChannelMismatchPanics(t *testing.T) {
	backend := cpu.New()
	conv := NewConv2D(3, 8, 3, 1, 1, false, backend)

	defer func() {
		if recover() == nil {
			t.Error("Expected panic")
		}
	}()
	conv.Forward(tensor.Randn(tensor.Shape{1, 4, 8, 8}, backend))
}

// TestMaxPool2D_Forward verifies pooling geometry and defaults.
func TestMaxPool2D_Forward(t *testing.T) {
	backend := cpu.New()

	// Stride 0 defaults to the kernel size.
	pool := NewMaxPool2D[*cpu.CPUBackend](2, 0)
	input := tensor.Randn(tensor.Shape{2, 3, 8, 8}, backend)

	output := pool.Forward(input)

	if !output.Shape().Equal(tensor.Shape{2, 3, 4, 4}) {
		t.Errorf("Expected output shape [2 3 4 4], got %v", output.Shape())
	}
	if pool.Parameters() != nil {
		t.Error("Expected no parameters")
	}
}
