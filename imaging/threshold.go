package imaging

import (
	"image"
	"math"
)

// AdaptiveThreshold binarizes src against a local mean. A pixel becomes
// white (255) when it is brighter than the mean of its blockSize x blockSize
// neighbourhood minus c, and black (0) otherwise. blockSize must be odd.
// Borders replicate the edge pixel.
func AdaptiveThreshold(src *image.Gray, method AdaptiveMethod, blockSize int, c float64) *image.Gray {
	src = origin(src)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return dst
	}

	var kernel []float64
	switch method {
	case AdaptiveMean:
		kernel = boxKernel(blockSize)
	default:
		kernel = gaussianKernel(blockSize, 0)
	}
	mean := convolveSeparable(src, kernel)

	delta := int(math.Ceil(c))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := int(src.Pix[y*src.Stride+x])
			m := int(mean.Pix[y*mean.Stride+x])
			if v-m > -delta {
				dst.Pix[y*dst.Stride+x] = 255
			}
		}
	}
	return dst
}

// gaussianKernel returns a normalized 1-D Gaussian of the given odd size.
// A non-positive sigma is derived from the size.
func gaussianKernel(size int, sigma float64) []float64 {
	if sigma <= 0 {
		sigma = 0.3*(float64(size-1)*0.5-1) + 0.8
	}
	kernel := make([]float64, size)
	mid := float64(size-1) / 2
	coeff := -0.5 / (sigma * sigma)
	sum := 0.0
	for i := range kernel {
		d := float64(i) - mid
		kernel[i] = math.Exp(d * d * coeff)
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

func boxKernel(size int) []float64 {
	kernel := make([]float64, size)
	for i := range kernel {
		kernel[i] = 1 / float64(size)
	}
	return kernel
}

// convolveSeparable applies kernel horizontally then vertically with a
// replicated border, keeping full precision between the passes.
func convolveSeparable(src *image.Gray, kernel []float64) *image.Gray {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	r := len(kernel) / 2

	tmp := make([]float64, w*h)
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w]
		for x := 0; x < w; x++ {
			acc := 0.0
			for k, kv := range kernel {
				acc += kv * float64(row[clampIndex(x+k-r, w)])
			}
			tmp[y*w+x] = acc
		}
	}

	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			acc := 0.0
			for k, kv := range kernel {
				acc += kv * tmp[clampIndex(y+k-r, h)*w+x]
			}
			dst.Pix[y*dst.Stride+x] = clampUint8(acc)
		}
	}
	return dst
}
