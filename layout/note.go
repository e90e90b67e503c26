package layout

import (
	"fmt"
	"math"
	"slices"

	"github.com/ByLCY/stave/glyph"
	"github.com/ByLCY/stave/renderer"
	"github.com/ByLCY/stave/ticks"
)

// StemDirection selects which way a note's stem points.
type StemDirection int

const (
	StemAuto StemDirection = 0
	StemUp   StemDirection = 1
	StemDown StemDirection = -1
)

const (
	stemWidth       = 1.5
	stemHeight      = 35
	ledgerExtension = 3
)

var noteheadCodes = map[string]string{
	"1/2": "noteheadDoubleWhole",
	"1":   "noteheadWhole",
	"2":   "noteheadHalf",
}

var flagCodes = map[string]string{
	"8":   "flag8th",
	"16":  "flag16th",
	"32":  "flag32nd",
	"64":  "flag32nd",
	"128": "flag32nd",
	"256": "flag32nd",
}

type notehead struct {
	line      float64
	glyph     *glyph.Glyph
	displaced bool
	left      []Modifier
	right     []Modifier
}

// Note is a single note or a chord: one or more heads sharing a stem.
// Lines use stave note lines: 1 is the bottom line, 5 the top line and
// half steps are spaces.
type Note struct {
	tickable
	style    *Style
	duration ticks.Duration
	heads    []*notehead
	stem     StemDirection
	flag     *glyph.Glyph

	// Color overrides the fill and stroke style when set.
	Color string

	leftWidth float64
	headWidth float64
	formatted bool
}

// NewNote builds a note of duration d with a head on each line. Dotted
// durations get a dot on every head.
func NewNote(style *Style, d ticks.Duration, lines ...float64) (*Note, error) {
	if len(lines) == 0 {
		return nil, ErrNoHeads
	}
	code, ok := noteheadCodes[d.Value]
	if !ok {
		code = "noteheadBlack"
	}
	n := &Note{tickable: newTickable(d.Ticks()), style: style, duration: d}
	sorted := slices.Clone(lines)
	slices.Sort(sorted)
	for _, line := range sorted {
		g, err := style.glyph(code)
		if err != nil {
			return nil, fmt.Errorf("note %s: %w", d, err)
		}
		h := &notehead{line: line, glyph: g}
		for range d.Dots {
			dot, err := NewDot(style)
			if err != nil {
				return nil, fmt.Errorf("note %s: %w", d, err)
			}
			h.right = append(h.right, dot)
		}
		n.heads = append(n.heads, h)
	}
	if err := n.SetStemDirection(StemAuto); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Note) Kind() Kind { return KindNote }

func (n *Note) Capabilities() Capability {
	c := CapTicks | CapVisible | CapModifiers
	if n.HasStem() {
		c |= CapStem
	}
	return c
}

func (n *Note) Duration() ticks.Duration { return n.duration }

// HasStem reports whether the duration is drawn with a stem.
func (n *Note) HasStem() bool {
	return n.duration.Value != "1" && n.duration.Value != "1/2"
}

// Lines returns the head lines in ascending order.
func (n *Note) Lines() []float64 {
	out := make([]float64, len(n.heads))
	for i, h := range n.heads {
		out[i] = h.line
	}
	return out
}

func (n *Note) StemDirection() StemDirection { return n.stem }

// SetStemDirection fixes the stem direction. StemAuto points the stem up
// when the outer heads average below the middle line.
func (n *Note) SetStemDirection(dir StemDirection) error {
	if dir == StemAuto {
		lo, hi := n.heads[0].line, n.heads[len(n.heads)-1].line
		dir = StemDown
		if (lo+hi)/2 < 3 {
			dir = StemUp
		}
	}
	n.stem = dir
	n.flag = nil
	if code, ok := flagCodes[n.duration.Value]; ok {
		suffix := "Down"
		if dir == StemUp {
			suffix = "Up"
		}
		g, err := n.style.glyph(code + suffix)
		if err != nil {
			return fmt.Errorf("note %s: %w", n.duration, err)
		}
		n.flag = g
	}
	n.displaceSeconds()
	n.formatted = false
	return nil
}

// displaceSeconds moves one head of each second interval to the other side
// of the stem.
func (n *Note) displaceSeconds() {
	for _, h := range n.heads {
		h.displaced = false
	}
	if n.stem == StemUp {
		for i := 1; i < len(n.heads); i++ {
			if n.heads[i].line-n.heads[i-1].line <= 0.5 && !n.heads[i-1].displaced {
				n.heads[i].displaced = true
			}
		}
		return
	}
	for i := len(n.heads) - 2; i >= 0; i-- {
		if n.heads[i+1].line-n.heads[i].line <= 0.5 && !n.heads[i+1].displaced {
			n.heads[i].displaced = true
		}
	}
}

func (n *Note) displaced() bool {
	for _, h := range n.heads {
		if h.displaced {
			return true
		}
	}
	return false
}

// AddModifier attaches m to the head at index (heads are ordered bottom to top).
func (n *Note) AddModifier(index int, m Modifier) error {
	if index < 0 || index >= len(n.heads) {
		return fmt.Errorf("layout: head index %d out of range [0,%d)", index, len(n.heads))
	}
	h := n.heads[index]
	if m.Position() == PositionLeft {
		h.left = append(h.left, m)
	} else {
		h.right = append(h.right, m)
	}
	n.formatted = false
	return nil
}

// Modifiers returns the modifiers of the head at index.
func (n *Note) Modifiers(index int) []Modifier {
	if index < 0 || index >= len(n.heads) {
		return nil
	}
	h := n.heads[index]
	return append(slices.Clone(h.left), h.right...)
}

func (n *Note) PreFormat() (float64, error) {
	head := 0.0
	left, right := 0.0, 0.0
	for _, h := range n.heads {
		head = math.Max(head, h.glyph.Width())
		left = math.Max(left, modifierWidth(h.left))
		right = math.Max(right, modifierWidth(h.right))
	}
	n.headWidth = head
	if n.displaced() {
		head *= 2
	}
	if n.flag != nil && n.stem == StemUp {
		right = math.Max(right, n.flag.Width()-stemWidth/2)
	}
	n.leftWidth = left
	n.formatted = true
	return left + head + right, nil
}

// column returns the x of the non-displaced heads and the stem centre.
func (n *Note) column(x float64) (base, stemX float64) {
	base = x + n.leftWidth
	if n.stem == StemDown && n.displaced() {
		base += n.headWidth
	}
	if n.stem == StemUp {
		return base, base + n.headWidth - stemWidth/2
	}
	return base, base + stemWidth/2
}

func (n *Note) Draw(ctx renderer.Context) error {
	st, err := n.requireStave()
	if err != nil {
		return err
	}
	if !n.formatted {
		if _, err := n.PreFormat(); err != nil {
			return err
		}
	}
	ctx.OpenGroup("stavenote", n.id)
	defer useColor(ctx, n.Color)()
	start := n.AbsoluteX() + n.leftWidth
	base, stemX := n.column(n.AbsoluteX())

	n.drawLedgerLines(ctx, st, base)

	right := base + n.headWidth
	if n.displaced() {
		right += n.headWidth
	}
	for _, h := range n.heads {
		hx := base
		if h.displaced {
			if n.stem == StemUp {
				hx += n.headWidth
			} else {
				hx -= n.headWidth
			}
		}
		y := st.YForNote(h.line)
		h.glyph.Render(ctx, hx, y)
		at := Anchor{Y: y, Line: h.line, Space: st.Options.LineSpacing}
		at.X = start
		if err := drawLeft(ctx, h.left, at); err != nil {
			return err
		}
		at.X = right
		if err := drawRight(ctx, h.right, at); err != nil {
			return err
		}
	}

	if n.HasStem() {
		top := st.YForNote(n.heads[len(n.heads)-1].line)
		bottom := st.YForNote(n.heads[0].line)
		var tip float64
		if n.stem == StemUp {
			top -= stemHeight
			tip = top
		} else {
			bottom += stemHeight
			tip = bottom
		}
		renderer.FillRect(ctx, stemX-stemWidth/2, top, stemWidth, bottom-top)
		if n.flag != nil {
			n.flag.Render(ctx, stemX-stemWidth/2, tip)
		}
	}
	return ctx.CloseGroup()
}

func (n *Note) drawLedgerLines(ctx renderer.Context, st *Stave, base float64) {
	lo, hi := n.heads[0].line, n.heads[len(n.heads)-1].line
	width := n.headWidth
	if n.displaced() {
		width *= 2
	}
	x0 := base - ledgerExtension
	if n.stem == StemDown && n.displaced() {
		x0 -= n.headWidth
	}
	x1 := x0 + width + 2*ledgerExtension
	ctx.SetLineWidth(st.Options.LineWidth)
	for l := 0.0; l >= lo; l-- {
		y := st.YForNote(l)
		renderer.StrokeLine(ctx, x0, y, x1, y)
	}
	for l := 6.0; l <= hi; l++ {
		y := st.YForNote(l)
		renderer.StrokeLine(ctx, x0, y, x1, y)
	}
}
