// Package main provides the Ferrite CLI: it runs an image through the
// convolutional trunk and the attention refinement stage, and can
// render the refined feature map as a heatmap.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ferrite-ml/ferrite/internal/backbone"
	"github.com/ferrite-ml/ferrite/internal/backend/cpu"
	"github.com/ferrite-ml/ferrite/internal/config"
	"github.com/ferrite-ml/ferrite/internal/vision"
)

const version = "v0.1.0-dev"

// defaultImageSize keeps the token count small enough for a CPU run.
const defaultImageSize = 64

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("Ferrite %s\n", version)
		return
	}

	var (
		configPath   = flag.String("config", "", "path to a YAML config file (defaults apply when empty)")
		imagePath    = flag.String("image", "", "image to run through the pipeline")
		heatmapPath  = flag.String("heatmap", "", "write the refined feature map as a heatmap to this path")
		backboneName = flag.String("backbone", "conv_refined", "registered backbone to build")
		imageSize    = flag.Int("size", defaultImageSize, "side length images are resized to")
	)
	flag.Parse()

	if err := run(*configPath, *imagePath, *heatmapPath, *backboneName, *imageSize); err != nil {
		fmt.Fprintf(os.Stderr, "ferrite: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, imagePath, heatmapPath, backboneName string, imageSize int) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	backend := cpu.New()
	registry := newRegistry()

	if imagePath == "" {
		fmt.Printf("Ferrite %s\n\n", version)
		fmt.Println("Registered backbones:")
		for _, name := range registry.Names() {
			fmt.Printf("  %s\n", name)
		}
		fmt.Println("\nRun with -image <path> to refine a feature map.")
		return nil
	}

	model, err := registry.Build(backboneName, cfg, backend)
	if err != nil {
		return err
	}

	input, err := vision.LoadImage(imagePath, imageSize, backend)
	if err != nil {
		return err
	}

	features, err := model.Forward(input)
	if err != nil {
		return err
	}

	for name, spec := range model.OutputShape() {
		feature, ok := features[name]
		if !ok {
			continue
		}
		fmt.Printf("%s: shape %v, channels %d, stride %d\n",
			name, feature.Shape(), spec.Channels, spec.Stride)

		if heatmapPath != "" {
			if err := vision.SaveHeatmap(feature, heatmapPath, 8); err != nil {
				return err
			}
			fmt.Printf("heatmap written to %s\n", heatmapPath)
		}
	}
	return nil
}

// newRegistry assembles the backbone registry: the bare convolutional
// trunk and the refined composition of trunk plus attention stack.
func newRegistry() *backbone.Registry[*cpu.CPUBackend] {
	registry := backbone.NewRegistry[*cpu.CPUBackend]()

	must(registry.Register("conv", func(cfg *config.Config, backend *cpu.CPUBackend) (backbone.Backbone[*cpu.CPUBackend], error) {
		return backbone.NewConvBackbone(cfg, backend), nil
	}))

	must(registry.Register("conv_refined", func(cfg *config.Config, backend *cpu.CPUBackend) (backbone.Backbone[*cpu.CPUBackend], error) {
		trunk := backbone.NewConvBackbone(cfg, backend)
		return backbone.NewRefinementBackbone(trunk, cfg, backend)
	}))

	return registry
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
