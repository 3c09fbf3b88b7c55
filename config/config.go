// Copyright 2026 Ferrite. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package config provides the public API for pipeline configuration.
package config

import (
	"github.com/ferrite-ml/ferrite/internal/config"
)

// Config is the root configuration.
type Config = config.Config

// Attention configures the self-attention refinement stage.
type Attention = config.Attention

// Backbone configures the upstream trunk and feature names.
type Backbone = config.Backbone

// Default returns the configuration with the reference hyperparameters.
func Default() *Config {
	return config.Default()
}

// Load reads a YAML configuration file on top of the defaults.
func Load(path string) (*Config, error) {
	return config.Load(path)
}
