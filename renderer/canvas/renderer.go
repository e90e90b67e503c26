package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	canvassvg "github.com/tdewolff/canvas/renderers/svg"
	"golang.org/x/image/colornames"

	"github.com/ByLCY/stave/renderer"
)

// PtToMm converts layout points to canvas millimetres.
const PtToMm = 0.352777

// Format selects the output written by Document.
type Format string

const (
	FormatPDF Format = "pdf"
	FormatSVG Format = "svg"
)

// Options configures the canvas backend.
type Options struct {
	Format Format
	// Title and Author are written to the PDF info dictionary.
	Title  string
	Author string
}

// Context draws onto a tdewolff/canvas page. Coordinates arrive in points with
// the origin at the top left.
type Context struct {
	opts          Options
	width, height float64

	c    *canvas.Canvas
	ctx  *canvas.Context
	path *canvas.Path

	fill      color.Color
	stroke    color.Color
	lineWidth float64
	depth     int
}

var _ renderer.Document = (*Context)(nil)

// New returns a page of width x height points.
func New(width, height float64, opts Options) *Context {
	if opts.Format == "" {
		opts.Format = FormatPDF
	}
	// 画布单位为 mm；CartesianIV 让原点位于左上角、y 轴向下，与排版坐标一致。
	c := canvas.New(toMm(width), toMm(height))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)
	return &Context{
		opts:      opts,
		width:     width,
		height:    height,
		c:         c,
		ctx:       ctx,
		path:      &canvas.Path{},
		fill:      canvas.Black,
		stroke:    canvas.Black,
		lineWidth: 1,
	}
}

func (r *Context) BeginPath()          { r.path = &canvas.Path{} }
func (r *Context) MoveTo(x, y float64) { r.path.MoveTo(toMm(x), toMm(y)) }
func (r *Context) LineTo(x, y float64) { r.path.LineTo(toMm(x), toMm(y)) }
func (r *Context) ClosePath()          { r.path.Close() }

func (r *Context) QuadraticCurveTo(cpx, cpy, x, y float64) {
	r.path.QuadTo(toMm(cpx), toMm(cpy), toMm(x), toMm(y))
}

func (r *Context) BezierCurveTo(cp1x, cp1y, cp2x, cp2y, x, y float64) {
	r.path.CubeTo(toMm(cp1x), toMm(cp1y), toMm(cp2x), toMm(cp2y), toMm(x), toMm(y))
}

func (r *Context) SetFillStyle(style string)   { r.fill = parseColor(style) }
func (r *Context) SetStrokeStyle(style string) { r.stroke = parseColor(style) }
func (r *Context) SetLineWidth(width float64)  { r.lineWidth = width }

func (r *Context) Fill() {
	if r.path.Empty() {
		return
	}
	r.ctx.SetFillColor(r.fill)
	r.ctx.SetStrokeColor(canvas.Transparent)
	r.ctx.DrawPath(0, 0, r.path)
}

func (r *Context) Stroke() {
	if r.path.Empty() {
		return
	}
	r.ctx.SetFillColor(canvas.Transparent)
	r.ctx.SetStrokeColor(r.stroke)
	// 线宽以 pt 给出，这里做一次 pt→mm。
	r.ctx.SetStrokeWidth(toMm(r.lineWidth))
	r.ctx.DrawPath(0, 0, r.path)
}

// OpenGroup saves the drawing state. Canvas has no notion of named groups, so
// class and id are dropped.
func (r *Context) OpenGroup(class, id string) {
	r.ctx.Push()
	r.depth++
}

func (r *Context) CloseGroup() error {
	if r.depth == 0 {
		return renderer.ErrUnbalancedGroup
	}
	r.ctx.Pop()
	r.depth--
	return nil
}

// Document renders the page in the configured format.
func (r *Context) Document() ([]byte, error) {
	if r.depth != 0 {
		return nil, fmt.Errorf("%w: 仍有 %d 个分组未关闭", renderer.ErrUnbalancedGroup, r.depth)
	}
	var buf bytes.Buffer
	w, h := toMm(r.width), toMm(r.height)
	switch r.opts.Format {
	case FormatPDF:
		writer := pdf.New(&buf, w, h, nil)
		writer.SetInfo(r.opts.Title, "", "", r.opts.Author, "stave")
		r.c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 PDF 失败: %w", err)
		}
	case FormatSVG:
		writer := canvassvg.New(&buf, w, h, nil)
		r.c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 SVG 失败: %w", err)
		}
	default:
		return nil, fmt.Errorf("canvas: 未知的输出格式 %q", r.opts.Format)
	}
	return buf.Bytes(), nil
}

// parseColor accepts "none", #rgb / #rrggbb and SVG color keywords. Anything
// else falls back to black.
func parseColor(s string) color.Color {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "none" || s == "transparent":
		return canvas.Transparent
	case strings.HasPrefix(s, "#"):
		return canvas.Hex(s)
	}
	if c, ok := colornames.Map[s]; ok {
		return c
	}
	return canvas.Black
}

func toMm(pt float64) float64 { return pt * PtToMm }
