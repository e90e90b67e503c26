package glyph

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

// ErrGlyphNotFound is returned when no font in a stack defines a code.
var ErrGlyphNotFound = errors.New("glyph: glyph not found")

// Metrics describes one glyph in font units.
type Metrics struct {
	Code       string
	Outline    Outline
	Advance    float64
	XMin, XMax float64
	YMin, YMax float64
	// ShiftX and ShiftY offset the drawing origin, in font units.
	ShiftX, ShiftY float64
	UnitsPerEm     float64
}

// Font is a named set of glyph metrics sharing one units-per-em resolution.
type Font struct {
	Name       string
	UnitsPerEm float64

	glyphs map[string]*Metrics
}

// NewFont creates an empty font.
func NewFont(name string, unitsPerEm float64) *Font {
	return &Font{Name: name, UnitsPerEm: unitsPerEm, glyphs: make(map[string]*Metrics)}
}

// Add stores a copy of m under m.Code, deriving its extents from the outline.
func (f *Font) Add(m Metrics) *Metrics {
	m.UnitsPerEm = f.UnitsPerEm
	if len(m.Outline) > 0 {
		bb := m.Outline.BoundingBox(1, 0, 0)
		m.XMin, m.XMax = bb.X, bb.X+bb.W
		m.YMax, m.YMin = -bb.Y, -(bb.Y + bb.H)
	}
	stored := &m
	f.glyphs[m.Code] = stored
	return stored
}

// AddOutline parses src and adds the resulting glyph.
func (f *Font) AddOutline(code, src string, advance float64) (*Metrics, error) {
	o, err := ParseOutline(src)
	if err != nil {
		return nil, fmt.Errorf("font %s glyph %s: %w", f.Name, code, err)
	}
	return f.Add(Metrics{Code: code, Outline: o, Advance: advance}), nil
}

// Lookup returns the glyph registered under code.
func (f *Font) Lookup(code string) (*Metrics, bool) {
	m, ok := f.glyphs[code]
	return m, ok
}

// Codes lists the glyph codes of f in sorted order.
func (f *Font) Codes() []string {
	codes := make([]string, 0, len(f.glyphs))
	for c := range f.glyphs {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

func (f *Font) Len() int { return len(f.glyphs) }

// Stack is an ordered font fallback list. Earlier fonts take priority.
type Stack []*Font

// LoadMetrics returns the metrics of code from the first font in stack that
// defines it.
func LoadMetrics(stack Stack, code string) (*Metrics, error) {
	for _, f := range stack {
		if f == nil {
			continue
		}
		if m, ok := f.Lookup(code); ok {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrGlyphNotFound, code)
}

// Lookup is LoadMetrics on s.
func (s Stack) Lookup(code string) (*Metrics, error) {
	return LoadMetrics(s, code)
}

// Width returns the advance width of code rendered at pointSize.
func (s Stack) Width(code string, pointSize float64) (float64, error) {
	m, err := LoadMetrics(s, code)
	if err != nil {
		return 0, err
	}
	return m.Advance * pointSize / m.UnitsPerEm, nil
}

// With returns a new stack with fonts placed ahead of s.
func (s Stack) With(fonts ...*Font) Stack {
	return append(slices.Clone(fonts), s...)
}
