package imaging

import (
	"image"
	"math"
)

type spatialTap struct {
	dx, dy int
	weight float64
}

// Bilateral smooths src while preserving edges. Each output pixel is a
// weighted mean over a circular neighbourhood of the given diameter, where
// the weight falls off with both spatial distance (sigmaSpace) and
// intensity difference (sigmaColor). Borders are mirrored without
// repeating the edge pixel.
func Bilateral(src *image.Gray, diameter int, sigmaColor, sigmaSpace float64) *image.Gray {
	src = origin(src)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	if w == 0 || h == 0 {
		return clone(src)
	}
	if sigmaColor <= 0 {
		sigmaColor = 1
	}
	if sigmaSpace <= 0 {
		sigmaSpace = 1
	}
	radius := diameter / 2
	if diameter <= 0 {
		radius = int(math.Round(sigmaSpace * 1.5))
	}
	radius = max(radius, 1)

	var colorWeight [histSize]float64
	colorCoeff := -0.5 / (sigmaColor * sigmaColor)
	for i := range colorWeight {
		colorWeight[i] = math.Exp(float64(i*i) * colorCoeff)
	}

	spaceCoeff := -0.5 / (sigmaSpace * sigmaSpace)
	taps := make([]spatialTap, 0, (2*radius+1)*(2*radius+1))
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			d2 := dx*dx + dy*dy
			if d2 > radius*radius {
				continue
			}
			taps = append(taps, spatialTap{dx: dx, dy: dy, weight: math.Exp(float64(d2) * spaceCoeff)})
		}
	}

	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			center := int(src.Pix[y*src.Stride+x])
			var sum, norm float64
			for _, tap := range taps {
				nx := reflect101(x+tap.dx, w)
				ny := reflect101(y+tap.dy, h)
				v := int(src.Pix[ny*src.Stride+nx])
				diff := v - center
				if diff < 0 {
					diff = -diff
				}
				wt := tap.weight * colorWeight[diff]
				sum += wt * float64(v)
				norm += wt
			}
			dst.Pix[y*dst.Stride+x] = clampUint8(sum / norm)
		}
	}
	return dst
}
