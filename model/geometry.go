package model

// BBox is an axis-aligned rectangle in image pixel coordinates.
// Left/Top is the upper-left corner; Y grows downwards.
type BBox struct {
	Left   int
	Top    int
	Width  int
	Height int
}

// NewBBox creates a bounding box from its upper-left corner and size
func NewBBox(left, top, width, height int) BBox {
	return BBox{Left: left, Top: top, Width: width, Height: height}
}

// Right returns the X coordinate one past the right edge
func (b BBox) Right() int {
	return b.Left + b.Width
}

// Bottom returns the Y coordinate one past the bottom edge
func (b BBox) Bottom() int {
	return b.Top + b.Height
}

// CenterX returns the horizontal center
func (b BBox) CenterX() int {
	return b.Left + b.Width/2
}

// CenterY returns the vertical center
func (b BBox) CenterY() int {
	return b.Top + b.Height/2
}

// IsEmpty returns true if the bounding box has zero area
func (b BBox) IsEmpty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Union returns the smallest box containing both boxes. An empty box is
// treated as the identity element.
func (b BBox) Union(other BBox) BBox {
	if b.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return b
	}

	left := min(b.Left, other.Left)
	top := min(b.Top, other.Top)
	right := max(b.Right(), other.Right())
	bottom := max(b.Bottom(), other.Bottom())

	return BBox{
		Left:   left,
		Top:    top,
		Width:  right - left,
		Height: bottom - top,
	}
}

// Intersects checks if two bounding boxes overlap
func (b BBox) Intersects(other BBox) bool {
	return b.Left < other.Right() && other.Left < b.Right() &&
		b.Top < other.Bottom() && other.Top < b.Bottom()
}
