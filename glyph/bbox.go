package glyph

import "math"

// BoundingBox is an axis-aligned rectangle in layout units, y pointing down.
type BoundingBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Move translates b in place.
func (b *BoundingBox) Move(dx, dy float64) *BoundingBox {
	b.X += dx
	b.Y += dy
	return b
}

// Contains reports whether o lies entirely inside b.
func (b BoundingBox) Contains(o BoundingBox) bool {
	return o.X >= b.X && o.Y >= b.Y && o.X+o.W <= b.X+b.W && o.Y+o.H <= b.Y+b.H
}

// MergeWith grows b to the union of b and o. Merging a contained box leaves
// b bit-for-bit unchanged.
func (b *BoundingBox) MergeWith(o BoundingBox) *BoundingBox {
	if b.Contains(o) {
		return b
	}
	if o.Contains(*b) {
		*b = o
		return b
	}
	x := math.Min(b.X, o.X)
	y := math.Min(b.Y, o.Y)
	w := math.Max(b.X+b.W, o.X+o.W) - x
	h := math.Max(b.Y+b.H, o.Y+o.H) - y
	b.X, b.Y, b.W, b.H = x, y, w, h
	return b
}

// Clone returns a copy of b.
func (b BoundingBox) Clone() *BoundingBox {
	c := b
	return &c
}
