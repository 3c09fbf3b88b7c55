// Copyright 2026 Ferrite. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package backbone provides the public API for feature-extraction
// backbones and the attention-based refinement stage.
//
// Example:
//
//	backend := cpu.New()
//	cfg := config.Default()
//	trunk := backbone.NewConvBackbone(cfg, backend)
//	refined, err := backbone.NewRefinementBackbone(trunk, cfg, backend)
package backbone

import (
	"github.com/ferrite-ml/ferrite/internal/backbone"
	"github.com/ferrite-ml/ferrite/internal/config"
	"github.com/ferrite-ml/ferrite/internal/tensor"
)

// ShapeSpec describes the static shape metadata of one feature map.
type ShapeSpec = backbone.ShapeSpec

// Backbone is a feature extractor producing named feature maps.
type Backbone[B tensor.Backend] = backbone.Backbone[B]

// FeatureAttentionStack refines a feature map through stacked
// self-attention blocks.
type FeatureAttentionStack[B tensor.Backend] = backbone.FeatureAttentionStack[B]

// NewFeatureAttentionStack creates a refinement stack from the
// attention configuration.
func NewFeatureAttentionStack[B tensor.Backend](cfg config.Attention, backend B) *FeatureAttentionStack[B] {
	return backbone.NewFeatureAttentionStack(cfg, backend)
}

// RefinementBackbone wraps an upstream backbone and refines one of its
// feature maps.
type RefinementBackbone[B tensor.Backend] = backbone.RefinementBackbone[B]

// NewRefinementBackbone wraps bottomUp with an attention refinement
// stage over its configured feature map.
func NewRefinementBackbone[B tensor.Backend](bottomUp Backbone[B], cfg *config.Config, backend B) (*RefinementBackbone[B], error) {
	return backbone.NewRefinementBackbone(bottomUp, cfg, backend)
}

// ConvBackbone is a small convolutional trunk producing one named
// feature map.
type ConvBackbone[B tensor.Backend] = backbone.ConvBackbone[B]

// NewConvBackbone creates the default convolutional trunk.
func NewConvBackbone[B tensor.Backend](cfg *config.Config, backend B) *ConvBackbone[B] {
	return backbone.NewConvBackbone(cfg, backend)
}

// Registry maps backbone names to factories.
type Registry[B tensor.Backend] = backbone.Registry[B]

// Factory constructs a backbone from configuration.
type Factory[B tensor.Backend] = backbone.Factory[B]

// NewRegistry creates an empty registry.
func NewRegistry[B tensor.Backend]() *Registry[B] {
	return backbone.NewRegistry[B]()
}
