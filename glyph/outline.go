package glyph

import (
	"errors"
	"fmt"
	"iter"
	"math"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ByLCY/stave/renderer"
)

// ErrMalformedOutline is returned when an outline command string cannot be parsed.
var ErrMalformedOutline = errors.New("glyph: malformed outline command")

// Op is an outline instruction opcode. It is stored as a float64 in an Outline.
type Op int

const (
	OpMove  Op = 0
	OpLine  Op = 1
	OpQuad  Op = 2
	OpCubic Op = 3
)

// number of coordinates following each opcode
var opArgs = [...]int{OpMove: 2, OpLine: 2, OpQuad: 4, OpCubic: 6}

var opLetters = map[string]Op{
	"m": OpMove,
	"l": OpLine,
	"q": OpQuad,
	"b": OpCubic,
}

// Outline is a flat instruction stream: each opcode is followed by its
// coordinates. Coordinates are font units with y pointing up. Curve
// commands store the end point first, then the control points.
type Outline []float64

var (
	outlineLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Number", Pattern: `[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`},
		{Name: "Command", Pattern: `[A-Za-z]`},
		{Name: "Whitespace", Pattern: `[\s,]+`},
	})

	outlineParser = participle.MustBuild[outlineSource](
		participle.Lexer(outlineLexer),
		participle.Elide("Whitespace"),
	)
)

type outlineSource struct {
	Commands []*outlineCommand `parser:"@@*"`
}

type outlineCommand struct {
	Pos  lexer.Position `parser:""`
	Name string         `parser:"@Command"`
	Args []float64      `parser:"@Number*"`
}

// ParseOutline parses a command string such as "m 0 0 l 100 200".
func ParseOutline(src string) (Outline, error) {
	ast, err := outlineParser.ParseString("", src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutline, err)
	}
	n := 0
	for _, cmd := range ast.Commands {
		n += 1 + len(cmd.Args)
	}
	out := make(Outline, 0, n)
	for _, cmd := range ast.Commands {
		op, ok := opLetters[cmd.Name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown command %q at %s", ErrMalformedOutline, cmd.Name, cmd.Pos)
		}
		if len(cmd.Args) != opArgs[op] {
			return nil, fmt.Errorf("%w: %q takes %d numbers, got %d at %s", ErrMalformedOutline, cmd.Name, opArgs[op], len(cmd.Args), cmd.Pos)
		}
		out = append(out, float64(op))
		out = append(out, cmd.Args...)
	}
	return out, nil
}

// MustParseOutline is like ParseOutline but panics on error.
func MustParseOutline(src string) Outline {
	o, err := ParseOutline(src)
	if err != nil {
		panic(err)
	}
	return o
}

// Commands iterates over the instructions of o. Iteration stops at the
// first invalid opcode or truncated instruction.
func (o Outline) Commands() iter.Seq2[Op, []float64] {
	return func(yield func(Op, []float64) bool) {
		for i := 0; i < len(o); {
			op := Op(o[i])
			if op < OpMove || op > OpCubic || float64(op) != o[i] {
				return
			}
			end := i + 1 + opArgs[op]
			if end > len(o) {
				return
			}
			if !yield(op, o[i+1:end]) {
				return
			}
			i = end
		}
	}
}

// BoundingBox returns the box covering every coordinate pair of o, control
// points included, after scaling by scale and placing the origin at (x, y).
// The y axis is flipped so the result is in layout coordinates.
func (o Outline) BoundingBox(scale, x, y float64) BoundingBox {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	seen := false
	for _, coords := range o.Commands() {
		for j := 0; j+1 < len(coords); j += 2 {
			px := x + coords[j]*scale
			py := y - coords[j+1]*scale
			minX, maxX = math.Min(minX, px), math.Max(maxX, px)
			minY, maxY = math.Min(minY, py), math.Max(maxY, py)
			seen = true
		}
	}
	if !seen {
		return BoundingBox{X: x, Y: y}
	}
	return BoundingBox{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Render draws o as one filled path with its origin at (x, y).
func (o Outline) Render(ctx renderer.Context, scale, x, y float64) {
	ctx.BeginPath()
	for op, c := range o.Commands() {
		switch op {
		case OpMove:
			ctx.MoveTo(x+c[0]*scale, y-c[1]*scale)
		case OpLine:
			ctx.LineTo(x+c[0]*scale, y-c[1]*scale)
		case OpQuad:
			ctx.QuadraticCurveTo(x+c[2]*scale, y-c[3]*scale, x+c[0]*scale, y-c[1]*scale)
		case OpCubic:
			ctx.BezierCurveTo(
				x+c[2]*scale, y-c[3]*scale,
				x+c[4]*scale, y-c[5]*scale,
				x+c[0]*scale, y-c[1]*scale,
			)
		}
	}
	ctx.Fill()
}
