package cpu

import (
	"fmt"
	"math"

	"github.com/ferrite-ml/ferrite/internal/tensor"
)

// Conv2D performs 2D convolution.
//
// Input shape: [batch, in_channels, height, width]
// Kernel shape: [out_channels, in_channels, kernel_h, kernel_w]
// Output shape: [batch, out_channels, out_h, out_w]
//
// Where:
//
//	out_h = (height + 2*padding - kernel_h) / stride + 1
//	out_w = (width + 2*padding - kernel_w) / stride + 1
//
// Direct sliding-window implementation. Out-of-bounds positions
// introduced by padding contribute zero.
func (cpu *CPUBackend) Conv2D(input, kernel *tensor.Raw, stride, padding int) *tensor.Raw {
	inputShape := input.Shape()
	kernelShape := kernel.Shape()

	if len(inputShape) != 4 {
		panic(fmt.Sprintf("conv2d: input must be 4D [N,C,H,W], got %dD", len(inputShape)))
	}
	if len(kernelShape) != 4 {
		panic(fmt.Sprintf("conv2d: kernel must be 4D [C_out,C_in,K_h,K_w], got %dD", len(kernelShape)))
	}

	n := inputShape[0]
	cIn := inputShape[1]
	h := inputShape[2]
	w := inputShape[3]
	cOut := kernelShape[0]
	kh := kernelShape[2]
	kw := kernelShape[3]

	if cIn != kernelShape[1] {
		panic(fmt.Sprintf("conv2d: input channels %d != kernel channels %d", cIn, kernelShape[1]))
	}

	hOut := (h+2*padding-kh)/stride + 1
	wOut := (w+2*padding-kw)/stride + 1
	if hOut <= 0 || wOut <= 0 {
		panic(fmt.Sprintf("conv2d: invalid output dimensions: out_h=%d, out_w=%d (check stride/padding)", hOut, wOut))
	}

	output, err := tensor.NewRaw(tensor.Shape{n, cOut, hOut, wOut})
	if err != nil {
		panic(fmt.Sprintf("conv2d: failed to create output tensor: %v", err))
	}

	src := input.Data()
	ker := kernel.Data()
	dst := output.Data()

	for b := 0; b < n; b++ {
		for oc := 0; oc < cOut; oc++ {
			for oy := 0; oy < hOut; oy++ {
				for ox := 0; ox < wOut; ox++ {
					sum := float32(0)
					for ic := 0; ic < cIn; ic++ {
						for ky := 0; ky < kh; ky++ {
							iy := oy*stride - padding + ky
							if iy < 0 || iy >= h {
								continue
							}
							for kx := 0; kx < kw; kx++ {
								ix := ox*stride - padding + kx
								if ix < 0 || ix >= w {
									continue
								}
								sum += src[((b*cIn+ic)*h+iy)*w+ix] * ker[((oc*cIn+ic)*kh+ky)*kw+kx]
							}
						}
					}
					dst[((b*cOut+oc)*hOut+oy)*wOut+ox] = sum
				}
			}
		}
	}

	return output
}

// MaxPool2D performs 2D max pooling with a square window.
//
// Input shape: [batch, channels, height, width]
// Output shape: [batch, channels, out_h, out_w]
//
// Where:
//
//	out_h = (height - kernelSize) / stride + 1
//	out_w = (width - kernelSize) / stride + 1
func (cpu *CPUBackend) MaxPool2D(input *tensor.Raw, kernelSize, stride int) *tensor.Raw {
	inputShape := input.Shape()
	if len(inputShape) != 4 {
		panic(fmt.Sprintf("maxpool2d: input must be 4D [N,C,H,W], got %dD", len(inputShape)))
	}

	n := inputShape[0]
	c := inputShape[1]
	h := inputShape[2]
	w := inputShape[3]

	hOut := (h-kernelSize)/stride + 1
	wOut := (w-kernelSize)/stride + 1
	if hOut <= 0 || wOut <= 0 {
		panic(fmt.Sprintf("maxpool2d: invalid output dimensions: out_h=%d, out_w=%d (check kernel/stride)", hOut, wOut))
	}

	output, err := tensor.NewRaw(tensor.Shape{n, c, hOut, wOut})
	if err != nil {
		panic(fmt.Sprintf("maxpool2d: failed to create output tensor: %v", err))
	}

	src := input.Data()
	dst := output.Data()

	for b := 0; b < n; b++ {
		for ch := 0; ch < c; ch++ {
			for oy := 0; oy < hOut; oy++ {
				for ox := 0; ox < wOut; ox++ {
					maxVal := float32(math.Inf(-1))
					for ky := 0; ky < kernelSize; ky++ {
						for kx := 0; kx < kernelSize; kx++ {
							v := src[((b*c+ch)*h+oy*stride+ky)*w+ox*stride+kx]
							if v > maxVal {
								maxVal = v
							}
						}
					}
					dst[((b*c+ch)*hOut+oy)*wOut+ox] = maxVal
				}
			}
		}
	}

	return output
}
