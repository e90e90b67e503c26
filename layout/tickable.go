// Package layout holds the musical objects that occupy time on a stave and
// the formatter that aligns and justifies them horizontally.
package layout

import (
	"fmt"

	"github.com/ByLCY/stave/fraction"
	"github.com/ByLCY/stave/glyph"
	"github.com/ByLCY/stave/renderer"
)

// Kind identifies a tickable variant.
type Kind int

const (
	KindNote Kind = iota
	KindRest
	KindGhost
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindNote:
		return "note"
	case KindRest:
		return "rest"
	case KindGhost:
		return "ghost"
	case KindText:
		return "text"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Capability is a bit set describing what a tickable can do.
type Capability uint8

const (
	CapTicks     Capability = 1 << iota // occupies musical time
	CapVisible                          // draws something
	CapStem                             // has a stem
	CapModifiers                        // accepts accidentals, dots, fingerings
)

// Has reports whether every bit of o is set in c.
func (c Capability) Has(o Capability) bool { return c&o == o }

// Tickable is anything that occupies a span of ticks in a voice and needs
// horizontal room on a stave.
//
// The formatter calls Ticks, PreFormat and SetXPosition; Draw is called by
// the owner once formatting succeeded.
type Tickable interface {
	Kind() Kind
	Capabilities() Capability
	Ticks() fraction.Fraction
	// PreFormat returns the minimum width the tickable needs. It is
	// recomputed on every formatting pass.
	PreFormat() (float64, error)
	SetXPosition(x float64)
	XPosition() float64
	// AbsoluteX is the x position offset by the stave's note start.
	AbsoluteX() float64
	SetStave(s *Stave)
	Stave() *Stave
	Draw(ctx renderer.Context) error
}

// Style carries the fonts and sizes tickables resolve glyphs with.
// It is passed explicitly to constructors.
type Style struct {
	Stack        glyph.Stack
	NotationSize float64
	TextSize     float64
}

// NewStyle returns a style with the default point sizes.
func NewStyle(stack glyph.Stack) *Style {
	return &Style{Stack: stack, NotationSize: 38, TextSize: 12}
}

func (s *Style) glyph(code string) (*glyph.Glyph, error) {
	return glyph.New(s.Stack, code, s.NotationSize)
}

func (s *Style) text(code string) (*glyph.Glyph, error) {
	return glyph.New(s.Stack, code, s.TextSize)
}

// tickable holds the state shared by every variant.
type tickable struct {
	intrinsic  fraction.Fraction
	multiplier fraction.Fraction
	ticks      fraction.Fraction
	x          float64
	stave      *Stave
	id         string
}

func newTickable(ticks int) tickable {
	t := tickable{
		intrinsic:  fraction.FromInt(int64(ticks)),
		multiplier: fraction.FromInt(1),
	}
	t.ticks = t.intrinsic
	return t
}

func (t *tickable) Ticks() fraction.Fraction { return t.ticks }

// ApplyTickMultiplier scales the duration by num/den, as tuplets do.
// Multipliers accumulate. Both terms must be positive.
func (t *tickable) ApplyTickMultiplier(num, den int64) error {
	if num <= 0 || den <= 0 {
		return fmt.Errorf("%w: %d/%d", ErrInvalidTickMultiplier, num, den)
	}
	m, err := fraction.New(num, den)
	if err != nil {
		return err
	}
	t.multiplier.Multiply(m).Simplify()
	t.ticks = t.intrinsic.Times(t.multiplier).Simplified()
	return nil
}

// TickMultiplier returns the accumulated tuplet multiplier.
func (t *tickable) TickMultiplier() fraction.Fraction { return t.multiplier }

func (t *tickable) SetXPosition(x float64) { t.x = x }
func (t *tickable) XPosition() float64     { return t.x }

func (t *tickable) AbsoluteX() float64 {
	if t.stave == nil {
		return t.x
	}
	return t.stave.NoteStartX() + t.x
}

func (t *tickable) SetStave(s *Stave) { t.stave = s }
func (t *tickable) Stave() *Stave     { return t.stave }

// SetID sets the id written on the tickable's render group.
func (t *tickable) SetID(id string) { t.id = id }
func (t *tickable) ID() string      { return t.id }

// DefaultColor is the fill and stroke style restored after a coloured
// tickable is drawn.
const DefaultColor = "black"

func useColor(ctx renderer.Context, color string) (restore func()) {
	if color == "" {
		return func() {}
	}
	ctx.SetFillStyle(color)
	ctx.SetStrokeStyle(color)
	return func() {
		ctx.SetFillStyle(DefaultColor)
		ctx.SetStrokeStyle(DefaultColor)
	}
}

func (t *tickable) requireStave() (*Stave, error) {
	if t.stave == nil {
		return nil, ErrNoStave
	}
	return t.stave, nil
}
