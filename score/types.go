package score

import (
	"fmt"

	"github.com/ByLCY/stave/glyph"
	"github.com/ByLCY/stave/layout"
	"github.com/ByLCY/stave/renderer"
)

// Score is a laid out piece ready to be drawn.
type Score struct {
	Name     string
	Title    string
	Composer string
	Systems  []*System

	width, height float64
	header        []*textLine
}

func (s *Score) Width() float64  { return s.width }
func (s *Score) Height() float64 { return s.height }

// Draw 依次绘制标题与各个 system。
func (s *Score) Draw(ctx renderer.Context) error {
	ctx.OpenGroup("score", s.Name)
	for _, l := range s.header {
		l.draw(ctx)
	}
	for i, sys := range s.Systems {
		if err := sys.draw(ctx); err != nil {
			return fmt.Errorf("system %d: %w", i+1, err)
		}
	}
	return ctx.CloseGroup()
}

// System is a group of staves formatted together.
type System struct {
	Staves []*Stave
	Result *layout.Result
}

func (s *System) bottom() float64 {
	last := s.Staves[len(s.Staves)-1].Stave
	return last.Y + last.Height()
}

// Voices returns the voices of every stave in order.
func (s *System) Voices() []*layout.Voice {
	var out []*layout.Voice
	for _, st := range s.Staves {
		out = append(out, st.Voices...)
	}
	return out
}

func (s *System) draw(ctx renderer.Context) error {
	ctx.OpenGroup("system", "")
	if len(s.Staves) > 1 {
		first, last := s.Staves[0].Stave, s.Staves[len(s.Staves)-1].Stave
		ctx.SetLineWidth(first.Options.LineWidth)
		renderer.StrokeLine(ctx, first.X, first.TopLineY(), first.X, last.BottomLineY())
	}
	for _, st := range s.Staves {
		if err := st.Stave.Draw(ctx); err != nil {
			return err
		}
		for _, v := range st.Voices {
			if err := v.Draw(ctx); err != nil {
				return err
			}
		}
	}
	return ctx.CloseGroup()
}

// Stave pairs a layout stave with its clef and voices.
type Stave struct {
	Clef   Clef
	Stave  *layout.Stave
	Voices []*layout.Voice
}

// textLine 是同一基线上的一串轮廓字形。
type textLine struct {
	text   string
	glyphs []*glyph.Glyph
	width  float64
	size   float64
	x, y   float64
}

func newTextLine(stack glyph.Stack, text string, size float64) (*textLine, error) {
	l := &textLine{text: text, size: size}
	for _, r := range text {
		g, err := glyph.New(stack, string(r), size)
		if err != nil {
			return nil, fmt.Errorf("text %q: %w", text, err)
		}
		l.glyphs = append(l.glyphs, g)
		l.width += g.Width()
	}
	return l, nil
}

func (l *textLine) draw(ctx renderer.Context) {
	x := l.x
	for _, g := range l.glyphs {
		g.Render(ctx, x, l.y)
		x += g.Width()
	}
}
