package imaging

import (
	"image"
	"math"
)

const histSize = 256

// CLAHE applies contrast limited adaptive histogram equalization.
//
// The image is split into gridX x gridY tiles. Each tile gets its own
// equalization lookup table built from a histogram whose bins are capped at
// clipLimit times the average bin height; the clipped excess is spread
// evenly over all bins. Output pixels are bilinearly interpolated between
// the lookup tables of the four nearest tile centers. A clipLimit of 0
// disables clipping.
func CLAHE(src *image.Gray, clipLimit float64, gridX, gridY int) *image.Gray {
	src = origin(src)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	if w == 0 || h == 0 {
		return clone(src)
	}
	gridX = max(1, min(gridX, w))
	gridY = max(1, min(gridY, h))

	xs := tileEdges(w, gridX)
	ys := tileEdges(h, gridY)

	luts := make([][histSize]uint8, gridX*gridY)
	for ty := 0; ty < gridY; ty++ {
		for tx := 0; tx < gridX; tx++ {
			luts[ty*gridX+tx] = tileLUT(src, xs[tx], xs[tx+1], ys[ty], ys[ty+1], clipLimit)
		}
	}

	// Interpolation weights only depend on the column, so compute them once
	type axis struct {
		lo, hi int
		frac   float64
	}
	weights := func(n, grid int) []axis {
		size := float64(n) / float64(grid)
		out := make([]axis, n)
		for i := range out {
			f := (float64(i)+0.5)/size - 0.5
			lo := int(math.Floor(f))
			a := axis{lo: lo, hi: lo + 1, frac: f - float64(lo)}
			if a.lo < 0 {
				a.lo = 0
			}
			if a.hi >= grid {
				a.hi = grid - 1
			}
			out[i] = a
		}
		return out
	}
	colW := weights(w, gridX)
	rowW := weights(h, gridY)

	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		ry := rowW[y]
		top := luts[ry.lo*gridX : ry.lo*gridX+gridX]
		bottom := luts[ry.hi*gridX : ry.hi*gridX+gridX]
		for x := 0; x < w; x++ {
			cx := colW[x]
			v := src.Pix[y*src.Stride+x]

			upper := float64(top[cx.lo][v])*(1-cx.frac) + float64(top[cx.hi][v])*cx.frac
			lower := float64(bottom[cx.lo][v])*(1-cx.frac) + float64(bottom[cx.hi][v])*cx.frac
			dst.Pix[y*dst.Stride+x] = clampUint8(upper*(1-ry.frac) + lower*ry.frac)
		}
	}
	return dst
}

// tileEdges splits n pixels into grid nearly equal tiles
func tileEdges(n, grid int) []int {
	edges := make([]int, grid+1)
	for i := range edges {
		edges[i] = i * n / grid
	}
	return edges
}

// tileLUT builds the clipped equalization table of one tile
func tileLUT(src *image.Gray, x0, x1, y0, y1 int, clipLimit float64) [histSize]uint8 {
	var hist [histSize]int
	for y := y0; y < y1; y++ {
		row := src.Pix[y*src.Stride+x0 : y*src.Stride+x1]
		for _, v := range row {
			hist[v]++
		}
	}

	area := (x1 - x0) * (y1 - y0)
	if clipLimit > 0 {
		limit := max(1, int(clipLimit*float64(area)/histSize))

		clipped := 0
		for i := range hist {
			if hist[i] > limit {
				clipped += hist[i] - limit
				hist[i] = limit
			}
		}

		batch := clipped / histSize
		residual := clipped - batch*histSize
		for i := range hist {
			hist[i] += batch
		}
		if residual > 0 {
			step := max(histSize/residual, 1)
			for i := 0; i < histSize && residual > 0; i += step {
				hist[i]++
				residual--
			}
		}
	}

	var lut [histSize]uint8
	scale := 255.0 / float64(area)
	sum := 0
	for i := range hist {
		sum += hist[i]
		lut[i] = clampUint8(float64(sum) * scale)
	}
	return lut
}
