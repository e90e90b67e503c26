package layout

import (
	"fmt"

	"github.com/ByLCY/stave/glyph"
	"github.com/ByLCY/stave/renderer"
)

// ModifierPosition is the side of the note head a modifier sits on.
type ModifierPosition int

const (
	PositionLeft ModifierPosition = iota
	PositionRight
)

// gap between a head and its modifiers, and between adjacent modifiers
const modifierSpacing = 2

// Anchor locates a modifier: X is its left edge, Y the centre of the head
// it belongs to.
type Anchor struct {
	X, Y  float64
	Line  float64
	Space float64
}

// Modifier is an ornament attached to one head of a note or rest.
type Modifier interface {
	Position() ModifierPosition
	Width() float64
	Draw(ctx renderer.Context, at Anchor) error
}

var accidentalCodes = map[string]string{
	"#": "accidentalSharp",
	"b": "accidentalFlat",
	"n": "accidentalNatural",
}

// Accidental is a sharp, flat or natural sign left of a head.
type Accidental struct {
	kind  string
	glyph *glyph.Glyph
}

// NewAccidental resolves kind ("#", "b" or "n") in the style's stack.
func NewAccidental(style *Style, kind string) (*Accidental, error) {
	code, ok := accidentalCodes[kind]
	if !ok {
		return nil, fmt.Errorf("%w: accidental %q", ErrUnknownModifier, kind)
	}
	g, err := style.glyph(code)
	if err != nil {
		return nil, err
	}
	return &Accidental{kind: kind, glyph: g}, nil
}

func (a *Accidental) Kind() string               { return a.kind }
func (a *Accidental) Position() ModifierPosition { return PositionLeft }
func (a *Accidental) Width() float64             { return a.glyph.Width() }

func (a *Accidental) Draw(ctx renderer.Context, at Anchor) error {
	a.glyph.Render(ctx, at.X, at.Y)
	return nil
}

// Dot is an augmentation dot right of a head.
type Dot struct {
	glyph *glyph.Glyph
}

func NewDot(style *Style) (*Dot, error) {
	g, err := style.glyph("augmentationDot")
	if err != nil {
		return nil, err
	}
	return &Dot{glyph: g}, nil
}

func (d *Dot) Position() ModifierPosition { return PositionRight }
func (d *Dot) Width() float64             { return d.glyph.Width() }

// Draw places the dot in the space above the head when the head sits on a line.
func (d *Dot) Draw(ctx renderer.Context, at Anchor) error {
	y := at.Y
	if at.Line == float64(int(at.Line)) {
		y -= at.Space / 2
	}
	d.glyph.Render(ctx, at.X, y)
	return nil
}

// Fingering is a short text label beside a head.
type Fingering struct {
	text     string
	position ModifierPosition
	glyphs   []*glyph.Glyph
	width    float64
	size     float64
}

func NewFingering(style *Style, text string, pos ModifierPosition) (*Fingering, error) {
	f := &Fingering{text: text, position: pos, size: style.TextSize}
	for _, r := range text {
		g, err := style.text(string(r))
		if err != nil {
			return nil, fmt.Errorf("fingering %q: %w", text, err)
		}
		f.glyphs = append(f.glyphs, g)
		f.width += g.Width()
	}
	return f, nil
}

func (f *Fingering) Text() string               { return f.text }
func (f *Fingering) Position() ModifierPosition { return f.position }
func (f *Fingering) Width() float64             { return f.width }

func (f *Fingering) Draw(ctx renderer.Context, at Anchor) error {
	// centre digits vertically on the head
	y := at.Y + f.size*0.35
	x := at.X
	for _, g := range f.glyphs {
		g.Render(ctx, x, y)
		x += g.Width()
	}
	return nil
}

// modifierWidth is the room a run of modifiers takes on one side of a head.
func modifierWidth(mods []Modifier) float64 {
	w := 0.0
	for _, m := range mods {
		w += m.Width() + modifierSpacing
	}
	return w
}

func drawLeft(ctx renderer.Context, mods []Modifier, at Anchor) error {
	x := at.X
	for _, m := range mods {
		x -= modifierSpacing + m.Width()
		a := at
		a.X = x
		if err := m.Draw(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func drawRight(ctx renderer.Context, mods []Modifier, at Anchor) error {
	x := at.X
	for _, m := range mods {
		x += modifierSpacing
		a := at
		a.X = x
		if err := m.Draw(ctx, a); err != nil {
			return err
		}
		x += m.Width()
	}
	return nil
}
