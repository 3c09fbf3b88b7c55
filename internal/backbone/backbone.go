// Package backbone provides feature-extraction backbones and the
// attention-based refinement stage that post-processes their output.
//
// A Backbone maps an input image batch to a collection of named 2D
// feature maps and publishes static shape metadata for each of them.
// RefinementBackbone wraps any Backbone and refines one designated
// feature map through a stack of self-attention blocks, preserving its
// shape and metadata.
package backbone

import (
	"github.com/ferrite-ml/ferrite/internal/tensor"
)

// ShapeSpec describes the static shape metadata of one output feature
// map: its channel count and the total downsampling stride relative to
// the input image. It is computed once at construction time.
type ShapeSpec struct {
	Channels int
	Stride   int
}

// Backbone is a feature extractor producing named feature maps.
type Backbone[B tensor.Backend] interface {
	// Forward maps a [batch, channels, height, width] image batch to
	// named feature maps.
	Forward(x *tensor.Tensor[B]) (map[string]*tensor.Tensor[B], error)

	// OutputShape reports the static metadata of each produced
	// feature map, keyed by the same names Forward uses.
	OutputShape() map[string]ShapeSpec
}
