package backbone

import (
	"fmt"

	"github.com/ferrite-ml/ferrite/internal/config"
	"github.com/ferrite-ml/ferrite/internal/nn"
	"github.com/ferrite-ml/ferrite/internal/tensor"
)

// RefinementBackbone wraps an upstream backbone and refines one of its
// feature maps through a FeatureAttentionStack. The refined map is
// published under a new name with the upstream's shape metadata
// forwarded unchanged: refinement alters feature content, never
// geometry.
type RefinementBackbone[B tensor.Backend] struct {
	bottomUp   Backbone[B]
	stack      *FeatureAttentionStack[B]
	inFeature  string
	outFeature string
	spec       ShapeSpec
}

// NewRefinementBackbone wraps bottomUp, refining the feature map named
// by cfg.Backbone.InFeature and republishing it as
// cfg.Backbone.OutFeature.
//
// Construction fails if the upstream does not publish the designated
// feature, or if its channel count does not match the configured
// embedding width.
func NewRefinementBackbone[B tensor.Backend](bottomUp Backbone[B], cfg *config.Config, backend B) (*RefinementBackbone[B], error) {
	spec, ok := bottomUp.OutputShape()[cfg.Backbone.InFeature]
	if !ok {
		return nil, fmt.Errorf("refinement backbone: upstream does not produce feature %q", cfg.Backbone.InFeature)
	}
	if spec.Channels != cfg.Attention.DModel {
		return nil, fmt.Errorf("refinement backbone: feature %q has %d channels, embedding width is %d",
			cfg.Backbone.InFeature, spec.Channels, cfg.Attention.DModel)
	}

	return &RefinementBackbone[B]{
		bottomUp:   bottomUp,
		stack:      NewFeatureAttentionStack(cfg.Attention, backend),
		inFeature:  cfg.Backbone.InFeature,
		outFeature: cfg.Backbone.OutFeature,
		spec:       spec,
	}, nil
}

// Forward runs the upstream backbone, refines the designated feature
// map, and returns it as the sole entry of the output collection.
func (r *RefinementBackbone[B]) Forward(x *tensor.Tensor[B]) (map[string]*tensor.Tensor[B], error) {
	features, err := r.bottomUp.Forward(x)
	if err != nil {
		return nil, fmt.Errorf("refinement backbone: upstream: %w", err)
	}

	feature, ok := features[r.inFeature]
	if !ok {
		return nil, fmt.Errorf("refinement backbone: upstream output is missing feature %q", r.inFeature)
	}

	refined := r.stack.Forward(feature)
	return map[string]*tensor.Tensor[B]{r.outFeature: refined}, nil
}

// OutputShape reports the refined feature's metadata, forwarded from
// the upstream entry it was built from.
func (r *RefinementBackbone[B]) OutputShape() map[string]ShapeSpec {
	return map[string]ShapeSpec{r.outFeature: r.spec}
}

// Parameters returns the learnable parameters of the refinement stack.
// The upstream backbone owns its own parameters.
func (r *RefinementBackbone[B]) Parameters() []*nn.Parameter[B] {
	return r.stack.Parameters()
}
