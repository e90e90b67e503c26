package layout

import (
	"fmt"
	"strconv"

	"github.com/ByLCY/stave/glyph"
	"github.com/ByLCY/stave/renderer"
	"github.com/ByLCY/stave/ticks"
)

// time signature digits are drawn this many line spacings tall (in points)
const timeSigScale = 2.6

type timeSigGlyphs struct {
	ts     ticks.TimeSignature
	top    []*glyph.Glyph
	bottom []*glyph.Glyph
	width  float64
}

// Stave is a set of horizontal lines that notes are positioned against.
type Stave struct {
	X, Y, Width float64
	Options     StaveOptions

	noteStartX *float64
	timeSig    *timeSigGlyphs
}

func NewStave(x, y, width float64) *Stave {
	return &Stave{X: x, Y: y, Width: width, Options: DefaultStaveOptions()}
}

func (s *Stave) space() float64 { return s.Options.LineSpacing }

// YForLine returns the y of stave line i, counting from 0 at the top line.
func (s *Stave) YForLine(i float64) float64 {
	return s.Y + (s.Options.Headroom+i)*s.space()
}

// YForNote returns the y of a note line: 1 is the bottom line and
// NumLines the top line.
func (s *Stave) YForNote(line float64) float64 {
	return s.Y + (s.Options.Headroom+float64(s.Options.NumLines)-line)*s.space()
}

func (s *Stave) TopLineY() float64    { return s.YForLine(0) }
func (s *Stave) BottomLineY() float64 { return s.YForLine(float64(s.Options.NumLines - 1)) }

// Height includes head and foot room.
func (s *Stave) Height() float64 {
	return (s.Options.Headroom + float64(s.Options.NumLines-1) + s.Options.Footroom) * s.space()
}

// SetTimeSignature resolves the digits of ts in the style's stack.
func (s *Stave) SetTimeSignature(style *Style, ts ticks.TimeSignature) error {
	size := timeSigScale * s.space()
	digits := func(n int) ([]*glyph.Glyph, float64, error) {
		var out []*glyph.Glyph
		w := 0.0
		for _, r := range strconv.Itoa(n) {
			g, err := glyph.New(style.Stack, string(r), size)
			if err != nil {
				return nil, 0, fmt.Errorf("time signature %s: %w", ts, err)
			}
			out = append(out, g)
			w += g.Width()
		}
		return out, w, nil
	}
	top, wt, err := digits(ts.Beats)
	if err != nil {
		return err
	}
	bottom, wb, err := digits(ts.BeatValue)
	if err != nil {
		return err
	}
	s.timeSig = &timeSigGlyphs{ts: ts, top: top, bottom: bottom, width: max(wt, wb)}
	return nil
}

// TimeSignature returns the time signature drawn at the start of the stave.
func (s *Stave) TimeSignature() (ticks.TimeSignature, bool) {
	if s.timeSig == nil {
		return ticks.TimeSignature{}, false
	}
	return s.timeSig.ts, true
}

// ModifierWidth is the room taken at the start of the stave before notes.
func (s *Stave) ModifierWidth() float64 {
	if s.timeSig == nil {
		return 0
	}
	return s.timeSig.width + s.Options.Padding
}

// NoteStartX is where the first tick context is placed.
func (s *Stave) NoteStartX() float64 {
	if s.noteStartX != nil {
		return *s.noteStartX
	}
	return s.X + s.Options.Padding + s.ModifierWidth()
}

// SetNoteStartX overrides the note start, used to line up staves of a system.
func (s *Stave) SetNoteStartX(x float64) {
	s.noteStartX = &x
}

func (s *Stave) NoteEndX() float64 {
	return s.X + s.Width - s.Options.Padding
}

// NoteWidth is the width available to the formatter.
func (s *Stave) NoteWidth() float64 {
	return s.NoteEndX() - s.NoteStartX()
}

func (s *Stave) Draw(ctx renderer.Context) error {
	ctx.OpenGroup("stave", "")
	ctx.SetLineWidth(s.Options.LineWidth)
	for i := range s.Options.NumLines {
		y := s.YForLine(float64(i))
		renderer.StrokeLine(ctx, s.X, y, s.X+s.Width, y)
	}
	top, bottom := s.TopLineY(), s.BottomLineY()
	renderer.StrokeLine(ctx, s.X, top, s.X, bottom)
	renderer.StrokeLine(ctx, s.X+s.Width, top, s.X+s.Width, bottom)

	if ts := s.timeSig; ts != nil {
		x0 := s.X + s.Options.Padding
		drawRow := func(gs []*glyph.Glyph, baseline float64) {
			w := 0.0
			for _, g := range gs {
				w += g.Width()
			}
			x := x0 + (ts.width-w)/2
			for _, g := range gs {
				g.Render(ctx, x, baseline)
				x += g.Width()
			}
		}
		mid := float64(s.Options.NumLines-1) / 2
		drawRow(ts.top, s.YForLine(mid))
		drawRow(ts.bottom, bottom)
	}
	return ctx.CloseGroup()
}
