// Package glyph parses glyph outlines, measures them and draws them onto a
// renderer.Context. Fonts are looked up through an ordered Stack.
package glyph

import (
	"github.com/ByLCY/stave/renderer"
)

// Glyph is a font glyph resolved at a point size. Metrics and bounding box
// are computed once at construction.
type Glyph struct {
	code      string
	pointSize float64
	scale     float64
	metrics   *Metrics
	bbox      BoundingBox
}

// New resolves code in stack at pointSize.
func New(stack Stack, code string, pointSize float64) (*Glyph, error) {
	m, err := LoadMetrics(stack, code)
	if err != nil {
		return nil, err
	}
	scale := pointSize / m.UnitsPerEm
	return &Glyph{
		code:      code,
		pointSize: pointSize,
		scale:     scale,
		metrics:   m,
		bbox:      m.Outline.BoundingBox(scale, m.ShiftX*scale, -m.ShiftY*scale),
	}, nil
}

func (g *Glyph) Code() string       { return g.code }
func (g *Glyph) PointSize() float64 { return g.pointSize }
func (g *Glyph) Scale() float64     { return g.scale }
func (g *Glyph) Metrics() *Metrics  { return g.metrics }

// Width is the scaled advance width.
func (g *Glyph) Width() float64 {
	return g.metrics.Advance * g.scale
}

// BoundingBox returns the glyph box relative to its drawing origin.
func (g *Glyph) BoundingBox() BoundingBox {
	return g.bbox
}

// Render draws the glyph with its origin at (x, y).
func (g *Glyph) Render(ctx renderer.Context, x, y float64) {
	g.metrics.Outline.Render(ctx, g.scale, x+g.metrics.ShiftX*g.scale, y-g.metrics.ShiftY*g.scale)
}
