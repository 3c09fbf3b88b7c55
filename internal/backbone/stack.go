package backbone

import (
	"fmt"

	"github.com/ferrite-ml/ferrite/internal/config"
	"github.com/ferrite-ml/ferrite/internal/nn"
	"github.com/ferrite-ml/ferrite/internal/tensor"
)

// FeatureAttentionStack refines a 2D feature map through a sequence of
// multi-head self-attention blocks.
//
// The [batch, channels, height, width] input is flattened into a token
// sequence [batch, height*width, channels] where each spatial position
// becomes one token and the channel vector its embedding. The blocks
// run in order, each one self-attending over all positions, and the
// result is folded back to the original layout. Output shape always
// equals input shape.
//
// No positional encoding is added, so the stack is equivariant under
// permutations of the spatial positions.
type FeatureAttentionStack[B tensor.Backend] struct {
	blocks []*nn.MultiHeadAttention[B]
	// ffn is present only when the feed-forward stage is enabled.
	ffn    *nn.PositionwiseFeedForward[B]
	dModel int
}

// NewFeatureAttentionStack creates a refinement stack from the
// attention configuration. cfg.Depth blocks are created; the optional
// position-wise feed-forward stage runs after them when
// cfg.EnableFeedForward is set.
func NewFeatureAttentionStack[B tensor.Backend](cfg config.Attention, backend B) *FeatureAttentionStack[B] {
	if cfg.Depth < 1 {
		panic(fmt.Sprintf("feature attention stack: depth must be at least 1, got %d", cfg.Depth))
	}

	blocks := make([]*nn.MultiHeadAttention[B], cfg.Depth)
	for i := range blocks {
		blocks[i] = nn.NewMultiHeadAttention(cfg.DModel, cfg.DKey, cfg.DValue, cfg.NumHeads, backend)
	}

	var ffn *nn.PositionwiseFeedForward[B]
	if cfg.EnableFeedForward {
		ffn = nn.NewPositionwiseFeedForward(cfg.DModel, cfg.DHidden, backend)
	}

	return &FeatureAttentionStack[B]{
		blocks: blocks,
		ffn:    ffn,
		dModel: cfg.DModel,
	}
}

// Forward refines a [batch, channels, height, width] feature map. The
// channel count must equal the configured embedding width.
func (s *FeatureAttentionStack[B]) Forward(x *tensor.Tensor[B]) *tensor.Tensor[B] {
	shape := x.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("feature attention stack: expected 4D input [batch, channels, h, w], got shape %v", shape))
	}
	if shape[1] != s.dModel {
		panic(fmt.Sprintf("feature attention stack: input has %d channels, embedding width is %d", shape[1], s.dModel))
	}

	batch, channels, height, width := shape[0], shape[1], shape[2], shape[3]

	// (B, C, H, W) -> (B, H*W, C): spatial positions become tokens.
	tokens := x.
		Reshape(batch, channels, height*width).
		Transpose(0, 2, 1)

	for _, block := range s.blocks {
		tokens = block.Forward(tokens)
	}
	if s.ffn != nil {
		tokens = s.ffn.Forward(tokens)
	}

	// Fold back to the original layout.
	return tokens.
		Transpose(0, 2, 1).
		Reshape(batch, channels, height, width)
}

// Depth returns the number of attention blocks.
func (s *FeatureAttentionStack[B]) Depth() int {
	return len(s.blocks)
}

// Parameters returns all learnable parameters of the stack.
func (s *FeatureAttentionStack[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	for _, block := range s.blocks {
		params = append(params, block.Parameters()...)
	}
	if s.ffn != nil {
		params = append(params, s.ffn.Parameters()...)
	}
	return params
}
