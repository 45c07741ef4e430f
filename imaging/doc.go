// Package imaging prepares rasterized pages for OCR.
//
// The [Enhancer] runs a fixed sequence of pixel transformations tuned for
// scanned financial statements:
//
//  1. [Grayscale] conversion (and optional resampling with [Resize])
//  2. [CLAHE] contrast normalization on an 8x8 tile grid, clip limit 2.0
//  3. [Bilateral] smoothing, diameter 9, both sigmas 75
//  4. [AdaptiveThreshold], Gaussian window 11, constant 2
//  5. [Close], a morphological closing with a 2x2 element
//
// The result is a binary image with black text on a white background.
//
// Each step is also exported so it can be used on its own:
//
//	gray := imaging.Grayscale(page)
//	eq := imaging.CLAHE(gray, 2.0, 8, 8)
//
// All functions return new images; inputs are never modified.
package imaging
