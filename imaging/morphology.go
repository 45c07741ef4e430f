package imaging

import "image"

// Dilate replaces each pixel with the maximum over a size x size square
// anchored at its center (for even sizes the anchor sits right/below of
// the geometric middle). Pixels outside the image are ignored.
func Dilate(src *image.Gray, size int) *image.Gray {
	lo, hi := elementSpan(size)
	return rankFilter(origin(src), -lo, hi, func(a, b uint8) bool { return a > b })
}

// Erode replaces each pixel with the minimum over the same anchored square
// as [Dilate]. Pixels outside the image are ignored.
func Erode(src *image.Gray, size int) *image.Gray {
	lo, hi := elementSpan(size)
	return rankFilter(origin(src), -lo, hi, func(a, b uint8) bool { return a < b })
}

// Close performs a morphological closing: dilation followed by erosion,
// both over the same anchored element as OpenCV's MORPH_CLOSE. On
// black-text-on-white images this removes isolated dark specks smaller
// than the element. With an even size the anchor is off-center, so larger
// strokes survive shifted by one pixel right and down.
func Close(src *image.Gray, size int) *image.Gray {
	if size <= 1 {
		return clone(origin(src))
	}
	return Erode(Dilate(src, size), size)
}

// elementSpan returns how far the element reaches before (lo) and after
// (hi) its anchor.
func elementSpan(size int) (lo, hi int) {
	size = max(size, 1)
	anchor := size / 2
	return anchor, size - 1 - anchor
}

// rankFilter picks the preferred value over offsets [from, to] on both axes
func rankFilter(src *image.Gray, from, to int, better func(a, b uint8) bool) *image.Gray {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			best := src.Pix[y*src.Stride+x]
			for dy := from; dy <= to; dy++ {
				ny := y + dy
				if ny < 0 || ny >= h {
					continue
				}
				for dx := from; dx <= to; dx++ {
					nx := x + dx
					if nx < 0 || nx >= w {
						continue
					}
					if v := src.Pix[ny*src.Stride+nx]; better(v, best) {
						best = v
					}
				}
			}
			dst.Pix[y*dst.Stride+x] = best
		}
	}
	return dst
}
