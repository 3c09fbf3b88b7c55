package backbone

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrite-ml/ferrite/internal/backend/cpu"
	"github.com/ferrite-ml/ferrite/internal/config"
	"github.com/ferrite-ml/ferrite/internal/tensor"
)

// stubBackbone publishes fixed feature maps for testing the wrapper.
type stubBackbone struct {
	features map[string]*tensor.Tensor[*cpu.CPUBackend]
	shapes   map[string]ShapeSpec
	err      error
}

func (s *stubBackbone) Forward(x *tensor.Tensor[*cpu.CPUBackend]) (map[string]*tensor.Tensor[*cpu.CPUBackend], error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.features, nil
}

func (s *stubBackbone) OutputShape() map[string]ShapeSpec {
	return s.shapes
}

func testConfig(dModel int) *config.Config {
	cfg := config.Default()
	cfg.Attention = config.Attention{
		DModel:   dModel,
		DKey:     4,
		DValue:   4,
		NumHeads: 2,
		DHidden:  32,
		Depth:    2,
	}
	return cfg
}

func TestRefinementBackbone_ForwardsMetadata(t *testing.T) {
	backend := cpu.New()
	cfg := testConfig(8)

	upstream := &stubBackbone{
		shapes: map[string]ShapeSpec{"trunk": {Channels: 8, Stride: 4}},
	}

	refined, err := NewRefinementBackbone[*cpu.CPUBackend](upstream, cfg, backend)
	require.NoError(t, err)

	shapes := refined.OutputShape()
	require.Len(t, shapes, 1)
	spec, ok := shapes["trunk_refined"]
	require.True(t, ok, "refined feature must appear under the configured output name")
	assert.Equal(t, ShapeSpec{Channels: 8, Stride: 4}, spec,
		"metadata must be forwarded unchanged")
}

func TestRefinementBackbone_RefinesAndRenames(t *testing.T) {
	backend := cpu.New()
	cfg := testConfig(8)

	feature := tensor.Randn(tensor.Shape{2, 8, 3, 3}, backend)
	upstream := &stubBackbone{
		features: map[string]*tensor.Tensor[*cpu.CPUBackend]{"trunk": feature},
		shapes:   map[string]ShapeSpec{"trunk": {Channels: 8, Stride: 4}},
	}

	refined, err := NewRefinementBackbone[*cpu.CPUBackend](upstream, cfg, backend)
	require.NoError(t, err)

	input := tensor.Randn(tensor.Shape{2, 3, 12, 12}, backend)
	out, err := refined.Forward(input)
	require.NoError(t, err)

	require.Len(t, out, 1)
	result, ok := out["trunk_refined"]
	require.True(t, ok)
	assert.True(t, result.Shape().Equal(feature.Shape()),
		"refinement must preserve the feature map shape")
}

func TestRefinementBackbone_MissingFeatureAtConstruction(t *testing.T) {
	backend := cpu.New()
	cfg := testConfig(8)

	upstream := &stubBackbone{
		shapes: map[string]ShapeSpec{"other": {Channels: 8, Stride: 4}},
	}

	_, err := NewRefinementBackbone[*cpu.CPUBackend](upstream, cfg, backend)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trunk")
}

func TestRefinementBackbone_ChannelMismatchAtConstruction(t *testing.T) {
	backend := cpu.New()
	cfg := testConfig(8)

	upstream := &stubBackbone{
		shapes: map[string]ShapeSpec{"trunk": {Channels: 16, Stride: 4}},
	}

	_, err := NewRefinementBackbone[*cpu.CPUBackend](upstream, cfg, backend)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channels")
}

func TestRefinementBackbone_MissingFeatureAtForward(t *testing.T) {
	backend := cpu.New()
	cfg := testConfig(8)

	// Metadata promises the feature, the forward pass omits it.
	upstream := &stubBackbone{
		features: map[string]*tensor.Tensor[*cpu.CPUBackend]{},
		shapes:   map[string]ShapeSpec{"trunk": {Channels: 8, Stride: 4}},
	}

	refined, err := NewRefinementBackbone[*cpu.CPUBackend](upstream, cfg, backend)
	require.NoError(t, err)

	_, err = refined.Forward(tensor.Randn(tensor.Shape{1, 3, 8, 8}, backend))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing feature")
}

func TestRefinementBackbone_UpstreamErrorPropagates(t *testing.T) {
	backend := cpu.New()
	cfg := testConfig(8)

	upstreamErr := errors.New("decode failed")
	upstream := &stubBackbone{
		err:    upstreamErr,
		shapes: map[string]ShapeSpec{"trunk": {Channels: 8, Stride: 4}},
	}

	refined, err := NewRefinementBackbone[*cpu.CPUBackend](upstream, cfg, backend)
	require.NoError(t, err)

	_, err = refined.Forward(tensor.Randn(tensor.Shape{1, 3, 8, 8}, backend))
	require.Error(t, err)
	assert.ErrorIs(t, err, upstreamErr)
}

func TestRefinementBackbone_EndToEndWithConvTrunk(t *testing.T) {
	backend := cpu.New()
	cfg := testConfig(8)

	trunk := NewConvBackbone(cfg, backend)
	refined, err := NewRefinementBackbone[*cpu.CPUBackend](trunk, cfg, backend)
	require.NoError(t, err)

	input := tensor.Randn(tensor.Shape{1, 3, 16, 16}, backend)
	out, err := refined.Forward(input)
	require.NoError(t, err)

	result := out["trunk_refined"]
	require.NotNil(t, result)
	assert.True(t, result.Shape().Equal(tensor.Shape{1, 8, 4, 4}),
		"expected the trunk's stride-4 geometry, got %v", result.Shape())
}

func TestConvBackbone_OutputShape(t *testing.T) {
	backend := cpu.New()
	cfg := testConfig(8)

	trunk := NewConvBackbone(cfg, backend)

	shapes := trunk.OutputShape()
	require.Len(t, shapes, 1)
	assert.Equal(t, ShapeSpec{Channels: 8, Stride: 4}, shapes["trunk"])

	input := tensor.Randn(tensor.Shape{2, 3, 32, 32}, backend)
	features, err := trunk.Forward(input)
	require.NoError(t, err)
	assert.True(t, features["trunk"].Shape().Equal(tensor.Shape{2, 8, 8, 8}))
}

func TestConvBackbone_RejectsBadInput(t *testing.T) {
	backend := cpu.New()
	cfg := testConfig(8)

	trunk := NewConvBackbone(cfg, backend)

	_, err := trunk.Forward(tensor.Randn(tensor.Shape{3, 8, 8}, backend))
	require.Error(t, err)

	_, err = trunk.Forward(tensor.Randn(tensor.Shape{1, 3, 2, 2}, backend))
	require.Error(t, err)
}
