// Package config defines the configuration for the feature refinement
// pipeline and its upstream convolutional trunk. Values load from YAML
// files and fall back to documented defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Attention configures the self-attention refinement stage.
type Attention struct {
	// DModel is the embedding width, which must equal the channel
	// count of the refined feature map.
	DModel int `yaml:"d_model"`
	// DKey and DValue are the per-head widths of the key/query and
	// value projections.
	DKey   int `yaml:"d_key"`
	DValue int `yaml:"d_value"`
	// NumHeads is the number of attention heads.
	NumHeads int `yaml:"num_heads"`
	// DHidden is the inner width of the position-wise feed-forward
	// stage, used only when EnableFeedForward is set.
	DHidden int `yaml:"d_hidden"`
	// Depth is the number of stacked self-attention blocks.
	Depth int `yaml:"depth"`
	// EnableFeedForward inserts a position-wise feed-forward stage
	// after the attention blocks. Off by default.
	EnableFeedForward bool `yaml:"enable_feed_forward"`
}

// Backbone configures the upstream convolutional trunk and the feature
// names the refinement stage consumes and produces.
type Backbone struct {
	// InChannels is the channel count of input images.
	InChannels int `yaml:"in_channels"`
	// InFeature names the upstream feature map to refine.
	InFeature string `yaml:"in_feature"`
	// OutFeature names the refined feature map in the output.
	OutFeature string `yaml:"out_feature"`
}

// Config is the root configuration.
type Config struct {
	Attention Attention `yaml:"attention"`
	Backbone  Backbone  `yaml:"backbone"`
}

// Default returns the configuration matching the reference
// hyperparameters: 512-wide embeddings, 8 heads of width 64, two
// attention blocks, feed-forward disabled.
func Default() *Config {
	return &Config{
		Attention: Attention{
			DModel:            512,
			DKey:              64,
			DValue:            64,
			NumHeads:          8,
			DHidden:           2048,
			Depth:             2,
			EnableFeedForward: false,
		},
		Backbone: Backbone{
			InChannels: 3,
			InFeature:  "trunk",
			OutFeature: "trunk_refined",
		},
	}
}

// Load reads a YAML configuration file, applying it on top of the
// defaults, and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the pipeline cannot
// operate with.
func (c *Config) Validate() error {
	a := c.Attention
	if a.DModel <= 0 {
		return fmt.Errorf("d_model must be positive, got %d", a.DModel)
	}
	if a.DKey <= 0 || a.DValue <= 0 {
		return fmt.Errorf("d_key and d_value must be positive, got %d and %d", a.DKey, a.DValue)
	}
	if a.NumHeads <= 0 {
		return fmt.Errorf("num_heads must be positive, got %d", a.NumHeads)
	}
	if a.Depth < 1 {
		return fmt.Errorf("depth must be at least 1, got %d", a.Depth)
	}
	if a.EnableFeedForward && a.DHidden <= 0 {
		return fmt.Errorf("d_hidden must be positive when feed-forward is enabled, got %d", a.DHidden)
	}

	b := c.Backbone
	if b.InChannels <= 0 {
		return fmt.Errorf("in_channels must be positive, got %d", b.InChannels)
	}
	if b.InFeature == "" {
		return fmt.Errorf("in_feature must not be empty")
	}
	if b.OutFeature == "" {
		return fmt.Errorf("out_feature must not be empty")
	}
	return nil
}
