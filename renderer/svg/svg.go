// Package svg serializes render context operations into an SVG document.
package svg

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"math"

	"github.com/tdewolff/minify/v2"
	minsvg "github.com/tdewolff/minify/v2/svg"
	"github.com/tdewolff/parse/v2/strconv"

	"github.com/ByLCY/stave/renderer"
)

const (
	namespace = "http://www.w3.org/2000/svg"
	mediaType = "image/svg+xml"

	// MaxPrecision keeps v*10^precision inside int64 for page sized values.
	MaxPrecision = 8
)

// ErrNonFinite is returned by Document when a NaN or infinite number was drawn.
var ErrNonFinite = errors.New("svg: non-finite number")

// Options controls number formatting and output size.
type Options struct {
	// Precision is the maximum number of decimals written for coordinates,
	// clamped to [0, MaxPrecision]. Trailing zeros are dropped.
	Precision int
	// Minify runs the finished document through an SVG minifier.
	Minify bool
}

func DefaultOptions() Options {
	return Options{Precision: 3}
}

// Context accumulates drawing operations as SVG elements. It is not safe for
// concurrent use.
type Context struct {
	width, height float64
	opts          Options

	body      bytes.Buffer
	path      []byte
	fill      string
	stroke    string
	lineWidth float64
	depth     int
	err       error
}

var _ renderer.Document = (*Context)(nil)

// New returns an empty document of the given size.
func New(width, height float64, opts Options) *Context {
	opts.Precision = min(max(opts.Precision, 0), MaxPrecision)
	return &Context{
		width:     width,
		height:    height,
		opts:      opts,
		fill:      "black",
		stroke:    "black",
		lineWidth: 1,
	}
}

func (c *Context) num(b []byte, v float64) []byte {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		if c.err == nil {
			c.err = fmt.Errorf("%w: %v", ErrNonFinite, v)
		}
		return append(b, '0')
	}
	return strconv.AppendDecimal(b, v, c.opts.Precision)
}

func (c *Context) command(op byte, coords ...float64) {
	if len(c.path) > 0 {
		c.path = append(c.path, ' ')
	}
	c.path = append(c.path, op)
	for _, v := range coords {
		c.path = append(c.path, ' ')
		c.path = c.num(c.path, v)
	}
}

func (c *Context) BeginPath()          { c.path = c.path[:0] }
func (c *Context) MoveTo(x, y float64) { c.command('M', x, y) }
func (c *Context) LineTo(x, y float64) { c.command('L', x, y) }
func (c *Context) ClosePath()          { c.command('Z') }

func (c *Context) QuadraticCurveTo(cpx, cpy, x, y float64) {
	c.command('Q', cpx, cpy, x, y)
}

func (c *Context) BezierCurveTo(cp1x, cp1y, cp2x, cp2y, x, y float64) {
	c.command('C', cp1x, cp1y, cp2x, cp2y, x, y)
}

func (c *Context) SetFillStyle(color string)   { c.fill = color }
func (c *Context) SetStrokeStyle(color string) { c.stroke = color }
func (c *Context) SetLineWidth(width float64)  { c.lineWidth = width }

func (c *Context) indent() {
	for range c.depth + 1 {
		c.body.WriteString("  ")
	}
}

func (c *Context) attr(name, value string) {
	c.body.WriteByte(' ')
	c.body.WriteString(name)
	c.body.WriteString(`="`)
	_ = xml.EscapeText(&c.body, []byte(value))
	c.body.WriteByte('"')
}

func (c *Context) writePath(fill, stroke string, width bool) {
	if len(c.path) == 0 {
		return
	}
	c.indent()
	c.body.WriteString("<path")
	c.attr("d", string(c.path))
	c.attr("fill", fill)
	c.attr("stroke", stroke)
	if width {
		c.attr("stroke-width", string(c.num(nil, c.lineWidth)))
	}
	c.body.WriteString("/>\n")
}

// Fill writes the current path filled with the current fill style.
func (c *Context) Fill() { c.writePath(c.fill, "none", false) }

// Stroke writes the current path outlined with the current stroke style.
func (c *Context) Stroke() { c.writePath("none", c.stroke, true) }

// OpenGroup starts a <g> element. Empty class or id attributes are omitted.
func (c *Context) OpenGroup(class, id string) {
	c.indent()
	c.body.WriteString("<g")
	if class != "" {
		c.attr("class", class)
	}
	if id != "" {
		c.attr("id", id)
	}
	c.body.WriteString(">\n")
	c.depth++
}

func (c *Context) CloseGroup() error {
	if c.depth == 0 {
		return renderer.ErrUnbalancedGroup
	}
	c.depth--
	c.indent()
	c.body.WriteString("</g>\n")
	return nil
}

// Document returns the complete SVG document.
func (c *Context) Document() ([]byte, error) {
	if c.depth != 0 {
		return nil, fmt.Errorf("%w: %d group(s) still open", renderer.ErrUnbalancedGroup, c.depth)
	}
	var out bytes.Buffer
	out.Grow(c.body.Len() + 128)
	w := string(c.num(nil, c.width))
	h := string(c.num(nil, c.height))
	if c.err != nil {
		return nil, c.err
	}
	fmt.Fprintf(&out, `<svg xmlns="%s" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n", namespace, w, h, w, h)
	out.Write(c.body.Bytes())
	out.WriteString("</svg>\n")
	if !c.opts.Minify {
		return out.Bytes(), nil
	}
	m := minify.New()
	m.AddFunc(mediaType, minsvg.Minify)
	small, err := m.Bytes(mediaType, out.Bytes())
	if err != nil {
		return nil, fmt.Errorf("minify svg: %w", err)
	}
	return small, nil
}
