package nn

import (
	"fmt"

	"github.com/ferrite-ml/ferrite/internal/tensor"
)

// Conv2D implements a 2D convolution layer.
//
// Input shape: [batch, in_channels, height, width]
// Kernel shape: [out_channels, in_channels, kernel_h, kernel_w]
// Output shape: [batch, out_channels, out_h, out_w]
// where out_h = (height + 2*padding - kernel_h)/stride + 1.
type Conv2D[B tensor.Backend] struct {
	inChannels  int
	outChannels int
	kernelSize  int
	stride      int
	padding     int
	weight      *Parameter[B]
	bias        *Parameter[B] // [out_channels] or nil
	backend     B
}

// NewConv2D creates a new Conv2D layer with a square kernel.
// Weights use Xavier initialization with fan counts scaled by the
// kernel area; biases start at zero.
func NewConv2D[B tensor.Backend](inChannels, outChannels, kernelSize, stride, padding int, useBias bool, backend B) *Conv2D[B] {
	if inChannels <= 0 || outChannels <= 0 || kernelSize <= 0 {
		panic(fmt.Sprintf("conv2d: invalid dimensions in=%d, out=%d, kernel=%d", inChannels, outChannels, kernelSize))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("conv2d: stride must be positive, got %d", stride))
	}
	if padding < 0 {
		panic(fmt.Sprintf("conv2d: padding must be non-negative, got %d", padding))
	}

	weightShape := tensor.Shape{outChannels, inChannels, kernelSize, kernelSize}
	fanIn := inChannels * kernelSize * kernelSize
	fanOut := outChannels * kernelSize * kernelSize
	weight := NewParameter("weight", Xavier(fanIn, fanOut, weightShape, backend))

	var bias *Parameter[B]
	if useBias {
		bias = NewParameter("bias", Zeros(tensor.Shape{outChannels}, backend))
	}

	return &Conv2D[B]{
		inChannels:  inChannels,
		outChannels: outChannels,
		kernelSize:  kernelSize,
		stride:      stride,
		padding:     padding,
		weight:      weight,
		bias:        bias,
		backend:     backend,
	}
}

// Forward applies the convolution to a [batch, in_channels, h, w] input.
func (c *Conv2D[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	shape := input.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("conv2d: expected 4D input [batch, channels, h, w], got shape %v", shape))
	}
	if shape[1] != c.inChannels {
		panic(fmt.Sprintf("conv2d: expected %d input channels, got %d", c.inChannels, shape[1]))
	}

	raw := c.backend.Conv2D(input.Raw(), c.weight.Tensor().Raw(), c.stride, c.padding)
	output := tensor.New(raw, c.backend)

	if c.bias != nil {
		// [out_channels] -> [1, out_channels, 1, 1] so it broadcasts per map.
		b := c.bias.Tensor().Reshape(1, c.outChannels, 1, 1)
		output = output.Add(b)
	}

	return output
}

// Parameters returns the trainable parameters of this layer.
func (c *Conv2D[B]) Parameters() []*Parameter[B] {
	if c.bias != nil {
		return []*Parameter[B]{c.weight, c.bias}
	}
	return []*Parameter[B]{c.weight}
}

// Weight returns the kernel parameter.
func (c *Conv2D[B]) Weight() *Parameter[B] {
	return c.weight
}

// OutChannels returns the number of output channels.
func (c *Conv2D[B]) OutChannels() int {
	return c.outChannels
}

// Stride returns the spatial stride.
func (c *Conv2D[B]) Stride() int {
	return c.stride
}
