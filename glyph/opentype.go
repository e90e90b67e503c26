package glyph

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// NewOpenTypeFont converts the glyphs of chars in a TrueType/OpenType font
// into outline metrics. Characters missing from the font are skipped.
func NewOpenTypeFont(name string, data []byte, chars string) (*Font, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", name, err)
	}
	upem := int(f.UnitsPerEm())
	// one 26.6 unit per 1/64 font unit
	ppem := fixed.I(upem)

	out := NewFont(name, float64(upem))
	var buf sfnt.Buffer
	for _, r := range chars {
		idx, err := f.GlyphIndex(&buf, r)
		if err != nil {
			return nil, fmt.Errorf("font %s: glyph index %q: %w", name, r, err)
		}
		if idx == 0 {
			continue
		}
		segs, err := f.LoadGlyph(&buf, idx, ppem, nil)
		if err != nil {
			return nil, fmt.Errorf("font %s: load glyph %q: %w", name, r, err)
		}
		outline := segmentsToOutline(segs)
		adv, err := f.GlyphAdvance(&buf, idx, ppem, font.HintingNone)
		if err != nil {
			return nil, fmt.Errorf("font %s: advance %q: %w", name, r, err)
		}
		out.Add(Metrics{Code: string(r), Outline: outline, Advance: fromFixed(adv)})
	}
	return out, nil
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// sfnt segments are y-down; outlines are y-up.
func segmentsToOutline(segs sfnt.Segments) Outline {
	o := make(Outline, 0, len(segs)*5)
	pt := func(p fixed.Point26_6) (float64, float64) {
		return fromFixed(p.X), -fromFixed(p.Y)
	}
	for _, s := range segs {
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			x, y := pt(s.Args[0])
			o = append(o, float64(OpMove), x, y)
		case sfnt.SegmentOpLineTo:
			x, y := pt(s.Args[0])
			o = append(o, float64(OpLine), x, y)
		case sfnt.SegmentOpQuadTo:
			cx, cy := pt(s.Args[0])
			x, y := pt(s.Args[1])
			o = append(o, float64(OpQuad), x, y, cx, cy)
		case sfnt.SegmentOpCubeTo:
			c1x, c1y := pt(s.Args[0])
			c2x, c2y := pt(s.Args[1])
			x, y := pt(s.Args[2])
			o = append(o, float64(OpCubic), x, y, c1x, c1y, c2x, c2y)
		}
	}
	return o
}
