package imaging

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Grayscale converts img to an 8-bit luma image whose bounds start at (0, 0)
func Grayscale(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}

// Resize resamples src by factor using Catmull-Rom interpolation
func Resize(src *image.Gray, factor float64) *image.Gray {
	b := src.Bounds()
	w := max(1, int(math.Round(float64(b.Dx())*factor)))
	h := max(1, int(math.Round(float64(b.Dy())*factor)))

	dst := image.NewGray(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// origin returns src itself when its bounds start at (0, 0), otherwise a
// copy that does. The filters index Pix directly and rely on this.
func origin(src *image.Gray) *image.Gray {
	if src.Bounds().Min == (image.Point{}) {
		return src
	}
	return Grayscale(src)
}

func clone(src *image.Gray) *image.Gray {
	dst := image.NewGray(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

func clampUint8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(math.Round(v))
	}
}

// clampIndex replicates the edge pixel for out-of-range coordinates
func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// reflect101 mirrors out-of-range coordinates without repeating the edge
// pixel: -1 maps to 1, n maps to n-2.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*(n-1) - i
		}
	}
	return i
}
