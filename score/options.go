package score

import (
	"github.com/ByLCY/stave/fonts"
	"github.com/ByLCY/stave/glyph"
	"github.com/ByLCY/stave/layout"
)

// BuildOptions 配置乐谱排版所需的字体与参数，零值字段使用默认值。
type BuildOptions struct {
	// Fonts defaults to the embedded notation and text fonts.
	Fonts glyph.Stack
	// Format configures the formatter of every system. Nil uses
	// layout.DefaultOptions; a non-nil value is used as given, zeros included.
	Format *layout.Options
	Stave  layout.StaveOptions

	PointSize     float64 // notation glyphs
	TextPointSize float64 // text notes, fingerings and headings

	// Width 覆盖 meta 中的宽度，单位为 pt。
	Width  float64
	Margin float64
}

const (
	defaultWidth  = 595 // A4, in points
	defaultMargin = 24
)

func (o BuildOptions) withDefaults() (BuildOptions, error) {
	if len(o.Fonts) == 0 {
		stack, err := fonts.Default()
		if err != nil {
			return o, err
		}
		o.Fonts = stack
	}
	if o.Format == nil {
		d := layout.DefaultOptions()
		o.Format = &d
	}
	if o.Stave == (layout.StaveOptions{}) {
		o.Stave = layout.DefaultStaveOptions()
	}
	defaults := layout.NewStyle(o.Fonts)
	if o.PointSize <= 0 {
		o.PointSize = defaults.NotationSize
	}
	if o.TextPointSize <= 0 {
		o.TextPointSize = defaults.TextSize
	}
	if o.Margin <= 0 {
		o.Margin = defaultMargin
	}
	return o, nil
}
