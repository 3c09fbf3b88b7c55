package vision

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ferrite-ml/ferrite/internal/tensor"
)

// heatmap gradient endpoints, cold to hot.
var (
	heatmapCold = colorful.Color{R: 0.10, G: 0.15, B: 0.45}
	heatmapHot  = colorful.Color{R: 0.95, G: 0.85, B: 0.10}
)

// SaveHeatmap renders the channel-mean of a feature map as a color
// heatmap and writes it to path. The map is the first batch entry of a
// (batch, channels, height, width) tensor; activations are min-max
// normalized, mapped through a perceptual cold-to-hot gradient, and
// upscaled by the given integer factor before saving. The output
// format follows the file extension.
func SaveHeatmap[B tensor.Backend](featureMap *tensor.Tensor[B], path string, scale int) error {
	shape := featureMap.Shape()
	if len(shape) != 4 {
		return fmt.Errorf("vision: heatmap expects a 4D feature map, got shape %v", shape)
	}
	if scale < 1 {
		return fmt.Errorf("vision: heatmap scale must be at least 1, got %d", scale)
	}

	channels, height, width := shape[1], shape[2], shape[3]
	plane := height * width
	data := featureMap.Data()

	// Channel-mean activation of the first batch entry.
	activation := make([]float64, plane)
	for c := 0; c < channels; c++ {
		base := c * plane
		for i := 0; i < plane; i++ {
			activation[i] += float64(data[base+i])
		}
	}

	lo, hi := activation[0], activation[0]
	for _, v := range activation {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			t := (activation[y*width+x] - lo) / span
			c := heatmapCold.BlendLuv(heatmapHot, t).Clamped()
			img.Set(x, y, c)
		}
	}

	out := image.Image(img)
	if scale > 1 {
		out = transform.Resize(img, width*scale, height*scale, transform.NearestNeighbor)
	}

	if err := imaging.Save(out, path); err != nil {
		return fmt.Errorf("vision: save heatmap %s: %w", path, err)
	}
	return nil
}
