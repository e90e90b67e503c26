package layout

import (
	"fmt"

	"github.com/ByLCY/stave/glyph"
	"github.com/ByLCY/stave/renderer"
	"github.com/ByLCY/stave/ticks"
)

// TextNote is a text annotation drawn with outline glyphs. A zero-tick text
// note marks a position without taking time.
type TextNote struct {
	tickable
	text   string
	glyphs []*glyph.Glyph
	width  float64
	line   float64

	Color string
}

// NewTextNote builds a text note lasting d.
func NewTextNote(style *Style, text string, d ticks.Duration) (*TextNote, error) {
	return newTextNote(style, text, d.Ticks())
}

// NewTextAnnotation builds a text note that takes no time.
func NewTextAnnotation(style *Style, text string) (*TextNote, error) {
	return newTextNote(style, text, 0)
}

func newTextNote(style *Style, text string, n int) (*TextNote, error) {
	t := &TextNote{tickable: newTickable(n), text: text, line: 7}
	for _, r := range text {
		g, err := style.text(string(r))
		if err != nil {
			return nil, fmt.Errorf("text %q: %w", text, err)
		}
		t.glyphs = append(t.glyphs, g)
		t.width += g.Width()
	}
	return t, nil
}

func (t *TextNote) Kind() Kind { return KindText }

func (t *TextNote) Capabilities() Capability {
	if t.ticks.IsZero() {
		return CapVisible
	}
	return CapTicks | CapVisible
}

func (t *TextNote) Text() string { return t.text }

// Line is the stave note line the text baseline sits on.
func (t *TextNote) Line() float64        { return t.line }
func (t *TextNote) SetLine(line float64) { t.line = line }

func (t *TextNote) PreFormat() (float64, error) { return t.width, nil }

func (t *TextNote) Draw(ctx renderer.Context) error {
	st, err := t.requireStave()
	if err != nil {
		return err
	}
	ctx.OpenGroup("textnote", t.id)
	defer useColor(ctx, t.Color)()
	x := t.AbsoluteX()
	y := st.YForNote(t.line)
	for _, g := range t.glyphs {
		g.Render(ctx, x, y)
		x += g.Width()
	}
	return ctx.CloseGroup()
}
