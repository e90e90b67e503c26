package layout

import (
	"fmt"

	"github.com/ByLCY/stave/glyph"
	"github.com/ByLCY/stave/renderer"
	"github.com/ByLCY/stave/ticks"
)

var restCodes = map[string]string{
	"1/2": "restDoubleWhole",
	"1":   "restWhole",
	"2":   "restHalf",
	"4":   "restQuarter",
	"8":   "rest8th",
	"16":  "rest16th",
}

// Rest is a silence of a given duration.
type Rest struct {
	tickable
	duration ticks.Duration
	glyph    *glyph.Glyph
	line     float64
	dots     []Modifier

	Color string
}

// NewRest builds a rest centred on the middle line. Whole rests hang from
// the fourth line.
func NewRest(style *Style, d ticks.Duration) (*Rest, error) {
	code, ok := restCodes[d.Value]
	if !ok {
		code = "rest32nd"
	}
	g, err := style.glyph(code)
	if err != nil {
		return nil, fmt.Errorf("rest %s: %w", d, err)
	}
	r := &Rest{tickable: newTickable(d.Ticks()), duration: d, glyph: g, line: 3}
	if d.Value == "1" {
		r.line = 4
	}
	for range d.Dots {
		dot, err := NewDot(style)
		if err != nil {
			return nil, fmt.Errorf("rest %s: %w", d, err)
		}
		r.dots = append(r.dots, dot)
	}
	return r, nil
}

func (r *Rest) Kind() Kind               { return KindRest }
func (r *Rest) Capabilities() Capability { return CapTicks | CapVisible | CapModifiers }
func (r *Rest) Duration() ticks.Duration { return r.duration }
func (r *Rest) Line() float64            { return r.line }
func (r *Rest) SetLine(line float64)     { r.line = line }

func (r *Rest) PreFormat() (float64, error) {
	return r.glyph.Width() + modifierWidth(r.dots), nil
}

func (r *Rest) Draw(ctx renderer.Context) error {
	st, err := r.requireStave()
	if err != nil {
		return err
	}
	ctx.OpenGroup("rest", r.id)
	defer useColor(ctx, r.Color)()
	x := r.AbsoluteX()
	y := st.YForNote(r.line)
	r.glyph.Render(ctx, x, y)
	// dots sit in a space, never on a line
	at := Anchor{X: x + r.glyph.Width(), Y: y, Line: r.line + 0.5, Space: st.Options.LineSpacing}
	if err := drawRight(ctx, r.dots, at); err != nil {
		return err
	}
	return ctx.CloseGroup()
}

// GhostNote occupies time in a voice without drawing anything.
type GhostNote struct {
	tickable
}

func NewGhostNote(d ticks.Duration) *GhostNote {
	return &GhostNote{tickable: newTickable(d.Ticks())}
}

func (g *GhostNote) Kind() Kind                      { return KindGhost }
func (g *GhostNote) Capabilities() Capability        { return CapTicks }
func (g *GhostNote) PreFormat() (float64, error)     { return 0, nil }
func (g *GhostNote) Draw(ctx renderer.Context) error { return nil }
