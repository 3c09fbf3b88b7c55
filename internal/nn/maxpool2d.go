package nn

import (
	"fmt"

	"github.com/ferrite-ml/ferrite/internal/tensor"
)

// MaxPool2D implements 2D max pooling with a square window.
//
// Input shape: [batch, channels, height, width]
// Output shape: [batch, channels, out_h, out_w]
// where out_h = (height - kernel_size)/stride + 1.
type MaxPool2D[B tensor.Backend] struct {
	kernelSize int
	stride     int
}

// NewMaxPool2D creates a new MaxPool2D layer. If stride is 0 it
// defaults to kernelSize (non-overlapping windows).
func NewMaxPool2D[B tensor.Backend](kernelSize, stride int) *MaxPool2D[B] {
	if kernelSize <= 0 {
		panic(fmt.Sprintf("maxpool2d: kernel size must be positive, got %d", kernelSize))
	}
	if stride < 0 {
		panic(fmt.Sprintf("maxpool2d: stride must be non-negative, got %d", stride))
	}
	if stride == 0 {
		stride = kernelSize
	}

	return &MaxPool2D[B]{kernelSize: kernelSize, stride: stride}
}

// Forward applies max pooling to a [batch, channels, h, w] input.
func (p *MaxPool2D[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	if len(input.Shape()) != 4 {
		panic(fmt.Sprintf("maxpool2d: expected 4D input [batch, channels, h, w], got shape %v", input.Shape()))
	}

	backend := input.Backend()
	return tensor.New(backend.MaxPool2D(input.Raw(), p.kernelSize, p.stride), backend)
}

// Parameters returns an empty slice (pooling has no trainable parameters).
func (p *MaxPool2D[B]) Parameters() []*Parameter[B] {
	return nil
}
