// Package vision converts images to input tensors and renders feature
// maps for inspection.
package vision

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ferrite-ml/ferrite/internal/tensor"
)

// LoadImage decodes an image file, resizes it to size x size, and
// returns it as a (1, 3, size, size) tensor with channel values
// normalized to [0, 1]. PNG, JPEG, GIF, TIFF and BMP are supported.
func LoadImage[B tensor.Backend](path string, size int, backend B) (*tensor.Tensor[B], error) {
	if size <= 0 {
		return nil, fmt.Errorf("vision: size must be positive, got %d", size)
	}

	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vision: open %s: %w", path, err)
	}

	resized := imaging.Resize(img, size, size, imaging.Lanczos)
	return ToTensor(resized, backend)
}

// ToTensor converts an image to a (1, 3, height, width) tensor in CHW
// layout with values in [0, 1].
func ToTensor[B tensor.Backend](img image.Image, backend B) (*tensor.Tensor[B], error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("vision: image has empty bounds %v", bounds)
	}

	data := make([]float32, 3*height*width)
	plane := height * width

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			idx := y*width + x
			// RGBA returns 16-bit channels.
			data[idx] = float32(r) / 65535.0
			data[plane+idx] = float32(g) / 65535.0
			data[2*plane+idx] = float32(b) / 65535.0
		}
	}

	return tensor.FromSlice(data, tensor.Shape{1, 3, height, width}, backend)
}
