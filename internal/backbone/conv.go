package backbone

import (
	"fmt"

	"github.com/ferrite-ml/ferrite/internal/config"
	"github.com/ferrite-ml/ferrite/internal/nn"
	"github.com/ferrite-ml/ferrite/internal/tensor"
)

// convBackboneStride is the total downsampling factor of the two
// stride-2 stages.
const convBackboneStride = 4

// ConvBackbone is a small convolutional trunk: two stride-2 3x3
// convolution + ReLU stages mapping (B, inChannels, H, W) to
// (B, outChannels, H/4, W/4). It publishes a single named feature map
// and serves as the default upstream for the refinement stage.
type ConvBackbone[B tensor.Backend] struct {
	conv1       *nn.Conv2D[B]
	conv2       *nn.Conv2D[B]
	relu        *nn.ReLU[B]
	featureName string
	outChannels int
}

// NewConvBackbone creates a trunk reading cfg.Backbone.InChannels
// channels and producing cfg.Attention.DModel channels under the
// cfg.Backbone.InFeature name, sized for the refinement stage to
// consume directly.
func NewConvBackbone[B tensor.Backend](cfg *config.Config, backend B) *ConvBackbone[B] {
	inChannels := cfg.Backbone.InChannels
	outChannels := cfg.Attention.DModel
	mid := outChannels / 2
	if mid < 1 {
		mid = 1
	}

	return &ConvBackbone[B]{
		conv1:       nn.NewConv2D(inChannels, mid, 3, 2, 1, true, backend),
		conv2:       nn.NewConv2D(mid, outChannels, 3, 2, 1, true, backend),
		relu:        nn.NewReLU[B](),
		featureName: cfg.Backbone.InFeature,
		outChannels: outChannels,
	}
}

// Forward maps an image batch to the trunk's single feature map.
func (c *ConvBackbone[B]) Forward(x *tensor.Tensor[B]) (map[string]*tensor.Tensor[B], error) {
	shape := x.Shape()
	if len(shape) != 4 {
		return nil, fmt.Errorf("conv backbone: expected 4D input [batch, channels, h, w], got shape %v", shape)
	}
	if shape[2] < convBackboneStride || shape[3] < convBackboneStride {
		return nil, fmt.Errorf("conv backbone: input %dx%d is smaller than the total stride %d",
			shape[2], shape[3], convBackboneStride)
	}

	h := c.relu.Forward(c.conv1.Forward(x))
	h = c.relu.Forward(c.conv2.Forward(h))

	return map[string]*tensor.Tensor[B]{c.featureName: h}, nil
}

// OutputShape reports the trunk's single feature entry.
func (c *ConvBackbone[B]) OutputShape() map[string]ShapeSpec {
	return map[string]ShapeSpec{
		c.featureName: {Channels: c.outChannels, Stride: convBackboneStride},
	}
}

// Parameters returns the trainable parameters of both stages.
func (c *ConvBackbone[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	params = append(params, c.conv1.Parameters()...)
	params = append(params, c.conv2.Parameters()...)
	return params
}
