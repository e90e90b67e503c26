// Package renderer defines the vector drawing surface notation elements draw
// themselves onto. Backends live in sub-packages (svg, canvas).
package renderer

import "errors"

// ErrUnbalancedGroup is returned when CloseGroup has no matching OpenGroup,
// or when a document is requested while groups are still open.
var ErrUnbalancedGroup = errors.New("renderer: unbalanced group")

// Context receives path, style and grouping operations in drawing order.
//
// A Context is not safe for concurrent use; give every rendering task its own.
type Context interface {
	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadraticCurveTo(cpx, cpy, x, y float64)
	BezierCurveTo(cp1x, cp1y, cp2x, cp2y, x, y float64)
	ClosePath()

	SetFillStyle(color string)
	SetStrokeStyle(color string)
	SetLineWidth(width float64)

	// Fill and Stroke commit the current path with the style in effect now.
	Fill()
	Stroke()

	OpenGroup(class, id string)
	CloseGroup() error
}

// Document is a Context that serializes everything drawn into it.
type Document interface {
	Context
	Document() ([]byte, error)
}

// FillRect draws a filled axis-aligned rectangle as a closed path.
func FillRect(ctx Context, x, y, w, h float64) {
	ctx.BeginPath()
	ctx.MoveTo(x, y)
	ctx.LineTo(x+w, y)
	ctx.LineTo(x+w, y+h)
	ctx.LineTo(x, y+h)
	ctx.ClosePath()
	ctx.Fill()
}

// StrokeLine draws a single stroked segment.
func StrokeLine(ctx Context, x1, y1, x2, y2 float64) {
	ctx.BeginPath()
	ctx.MoveTo(x1, y1)
	ctx.LineTo(x2, y2)
	ctx.Stroke()
}
