// Package score turns a parsed score document into formatted staves and
// voices.
package score

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/ByLCY/stave/binding"
	"github.com/ByLCY/stave/dsl"
	"github.com/ByLCY/stave/fraction"
	"github.com/ByLCY/stave/layout"
	"github.com/ByLCY/stave/ticks"
)

const (
	systemGap  = 16
	titleScale = 2
)

var (
	ErrNoSystems        = errors.New("score: document has no system")
	ErrUnknownClef      = errors.New("score: unknown clef")
	ErrInvalidPitch     = errors.New("score: invalid pitch")
	ErrUnknownAttribute = errors.New("score: unknown attribute")
)

// Clef 负责把音高映射到谱线。
type Clef struct {
	Name string
	// bottom 为最下方谱线的自然音序号（octave*7 + step）
	bottom int
}

var clefs = map[string]int{
	"treble": 4*7 + 2, // E4
	"bass":   2*7 + 4, // G2
	"alto":   3*7 + 3, // F3
	"tenor":  3*7 + 1, // D3
}

func ParseClef(name string) (Clef, error) {
	name = strings.ToLower(name)
	bottom, ok := clefs[name]
	if !ok {
		return Clef{}, fmt.Errorf("%w: %q", ErrUnknownClef, name)
	}
	return Clef{Name: name, bottom: bottom}, nil
}

// Pitch is a parsed pitch name such as c#4 or bb3.
type Pitch struct {
	Step       int // 0 = c .. 6 = b
	Octave     int
	Accidental string // "", "#", "##", "b", "bb" or "n"
}

var steps = map[byte]int{'c': 0, 'd': 1, 'e': 2, 'f': 3, 'g': 4, 'a': 5, 'b': 6}

// ParsePitch parses a letter, an optional accidental and an octave.
func ParsePitch(s string) (Pitch, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return Pitch{}, fmt.Errorf("%w: empty", ErrInvalidPitch)
	}
	step, ok := steps[v[0]]
	if !ok {
		return Pitch{}, fmt.Errorf("%w: %q", ErrInvalidPitch, s)
	}
	rest := v[1:]
	acc := ""
	for _, a := range []string{"##", "#", "bb", "b", "n"} {
		if strings.HasPrefix(rest, a) {
			acc, rest = a, rest[len(a):]
			break
		}
	}
	octave, err := strconv.Atoi(rest)
	if err != nil || octave < 0 || octave > 9 {
		return Pitch{}, fmt.Errorf("%w: %q", ErrInvalidPitch, s)
	}
	return Pitch{Step: step, Octave: octave, Accidental: acc}, nil
}

// Line returns the stave note line of p under clef c.
func (c Clef) Line(p Pitch) float64 {
	return float64(p.Octave*7+p.Step-c.bottom)/2 + 1
}

type builder struct {
	opts  BuildOptions
	style *layout.Style
	data  any
}

// Build 对 doc 进行排版。文本会使用 data 做插值，data 可以为 nil。
func Build(doc *dsl.Document, data any, opts BuildOptions) (*Score, error) {
	if doc == nil {
		return nil, errors.New("score: 文档为空")
	}
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	b := &builder{
		opts: opts,
		style: &layout.Style{
			Stack:        opts.Fonts,
			NotationSize: opts.PointSize,
			TextSize:     opts.TextPointSize,
		},
		data: data,
	}

	s := &Score{Name: doc.Name, width: defaultWidth}
	for _, a := range doc.Meta() {
		value := binding.Interpolate(a.Value.Text(), data)
		switch strings.ToLower(a.Key) {
		case "title":
			s.Title = value
		case "composer":
			s.Composer = value
		case "width":
			l, err := ParseLength(value)
			if err != nil {
				return nil, fmt.Errorf("%s: meta width 无效: %w", a.Pos, err)
			}
			s.width = l.Points()
		}
	}
	if opts.Width > 0 {
		s.width = opts.Width
	}

	y := opts.Margin
	if y, err = b.header(s, y); err != nil {
		return nil, err
	}

	sections := doc.Systems()
	if len(sections) == 0 {
		return nil, ErrNoSystems
	}
	for i, sec := range sections {
		sys, err := b.system(sec, s.width, y)
		if err != nil {
			return nil, fmt.Errorf("system %d: %w", i+1, err)
		}
		s.Systems = append(s.Systems, sys)
		y = sys.bottom() + systemGap
	}
	s.height = y - systemGap + opts.Margin
	return s, nil
}

// header 居中放置标题，作曲者右对齐放在其下方。
func (b *builder) header(s *Score, y float64) (float64, error) {
	if s.Title != "" {
		size := b.opts.TextPointSize * titleScale
		l, err := newTextLine(b.opts.Fonts, s.Title, size)
		if err != nil {
			return 0, err
		}
		y += size
		l.x, l.y = (s.width-l.width)/2, y
		s.header = append(s.header, l)
	}
	if s.Composer != "" {
		size := b.opts.TextPointSize
		l, err := newTextLine(b.opts.Fonts, s.Composer, size)
		if err != nil {
			return 0, err
		}
		y += size * 1.5
		l.x, l.y = s.width-b.opts.Margin-l.width, y
		s.header = append(s.header, l)
	}
	return y, nil
}

func (b *builder) system(sec *dsl.SystemSection, pageWidth, y float64) (*System, error) {
	if len(sec.Staves) == 0 {
		return nil, fmt.Errorf("%s: system 中缺少 stave", sec.Pos)
	}
	width := pageWidth - 2*b.opts.Margin
	fo := *b.opts.Format
	for _, p := range sec.Params {
		l, err := ParseLength(p.Value.Text())
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", sec.Pos, p.Name, err)
		}
		switch p.Name {
		case "width":
			width = l.Points()
		case "spacing":
			fo.Spacing = l.Points()
		case "padding":
			fo.Padding = l.Points()
		default:
			return nil, fmt.Errorf("%s: %w %q", sec.Pos, ErrUnknownAttribute, p.Name)
		}
	}

	sys := &System{}
	for _, sb := range sec.Staves {
		st, err := b.stave(sb, width, y)
		if err != nil {
			return nil, err
		}
		sys.Staves = append(sys.Staves, st)
		y += st.Stave.Height()
	}

	start := 0.0
	for _, st := range sys.Staves {
		start = max(start, st.Stave.NoteStartX())
	}
	for _, st := range sys.Staves {
		st.Stave.SetNoteStartX(start)
	}

	voices := sys.Voices()
	res, err := layout.NewFormatter(fo).Format(voices, sys.Staves[0].Stave.NoteWidth())
	if err != nil {
		return nil, err
	}
	sys.Result = res
	layout.Logger().Debug("built system",
		"staves", len(sys.Staves),
		"voices", len(voices),
		"noteStartX", start,
		"width", res.Width,
	)
	return sys, nil
}

func (b *builder) stave(sb *dsl.StaveBlock, width, y float64) (*Stave, error) {
	clef, err := ParseClef(sb.Clef)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sb.Pos, err)
	}
	st := layout.NewStave(b.opts.Margin, y, width)
	st.Options = b.opts.Stave

	ts := ticks.CommonTime
	if sb.Time != "" {
		if ts, err = ticks.ParseTimeSignature(sb.Time); err != nil {
			return nil, fmt.Errorf("%s: %w", sb.Pos, err)
		}
		if err := st.SetTimeSignature(b.style, ts); err != nil {
			return nil, fmt.Errorf("%s: %w", sb.Pos, err)
		}
	}

	out := &Stave{Clef: clef, Stave: st}
	for _, vb := range sb.Voices {
		mode, err := layout.ParseMode(vb.Mode)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", vb.Pos, err)
		}
		tickables, err := b.events(vb.Events, clef)
		if err != nil {
			return nil, err
		}
		v := layout.NewVoice(ts).SetMode(mode)
		if err := v.AddTickables(tickables...); err != nil {
			return nil, fmt.Errorf("%s: %w", vb.Pos, err)
		}
		out.Voices = append(out.Voices, v.SetStave(st))
	}
	return out, nil
}

type multiplied interface {
	ApplyTickMultiplier(num, den int64) error
	TickMultiplier() fraction.Fraction
}

func (b *builder) events(events []*dsl.Event, clef Clef) ([]layout.Tickable, error) {
	var out []layout.Tickable
	for _, e := range events {
		if e.Tuplet != nil {
			ts, err := b.tuplet(e.Tuplet, clef)
			if err != nil {
				return nil, fmt.Errorf("%s: tuplet: %w", e.Pos, err)
			}
			out = append(out, ts...)
			continue
		}
		t, err := b.event(e, clef)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", e.Pos, e.Kind(), err)
		}
		out = append(out, t)
	}
	return out, nil
}

// tuplet 把 Notes 个事件压缩到 Beats 个事件的时值内。
func (b *builder) tuplet(tp *dsl.TupletEvent, clef Clef) ([]layout.Tickable, error) {
	if tp.Notes <= 0 || tp.Beats <= 0 {
		return nil, fmt.Errorf("连音比例无效 %d:%d", tp.Notes, tp.Beats)
	}
	ts, err := b.events(tp.Events, clef)
	if err != nil {
		return nil, err
	}
	for _, t := range ts {
		m, ok := t.(multiplied)
		if !ok {
			continue
		}
		if err := m.ApplyTickMultiplier(int64(tp.Beats), int64(tp.Notes)); err != nil {
			return nil, err
		}
	}
	return ts, nil
}

func (b *builder) event(e *dsl.Event, clef Clef) (layout.Tickable, error) {
	switch {
	case e.Note != nil:
		return b.note([]string{e.Note.Pitch}, e.Note.Duration, e.Note.Attrs, clef)
	case e.Chord != nil:
		return b.note(e.Chord.Pitches, e.Chord.Duration, e.Chord.Attrs, clef)
	case e.Rest != nil:
		d, err := ticks.ParseDuration(e.Rest.Duration)
		if err != nil {
			return nil, err
		}
		return b.rest(d, e.Rest.Attrs)
	case e.Ghost != nil:
		d, err := ticks.ParseDuration(e.Ghost.Duration)
		if err != nil {
			return nil, err
		}
		return layout.NewGhostNote(d), nil
	case e.Text != nil:
		return b.text(e.Text)
	default:
		return nil, fmt.Errorf("不支持的事件")
	}
}

func (b *builder) note(names []string, code string, attrs []*dsl.Attribute, clef Clef) (layout.Tickable, error) {
	d, err := ticks.ParseDuration(code)
	if err != nil {
		return nil, err
	}
	pitches := make([]Pitch, 0, len(names))
	for _, name := range names {
		p, err := ParsePitch(name)
		if err != nil {
			return nil, err
		}
		pitches = append(pitches, p)
	}
	// 符头按从低到高排列，lines 需与之一一对应
	slices.SortStableFunc(pitches, func(p, q Pitch) int {
		return (p.Octave*7 + p.Step) - (q.Octave*7 + q.Step)
	})
	lines := make([]float64, len(pitches))
	for i, p := range pitches {
		lines[i] = clef.Line(p)
	}

	switch d.Type {
	case ticks.TypeRest:
		r, err := b.rest(d, attrs)
		if err != nil {
			return nil, err
		}
		r.SetLine(lines[0])
		return r, nil
	case ticks.TypeGhost:
		return layout.NewGhostNote(d), nil
	}

	n, err := layout.NewNote(b.style, d, lines...)
	if err != nil {
		return nil, err
	}
	for i, p := range pitches {
		if p.Accidental == "" {
			continue
		}
		acc, err := layout.NewAccidental(b.style, p.Accidental)
		if err != nil {
			return nil, err
		}
		if err := n.AddModifier(i, acc); err != nil {
			return nil, err
		}
	}
	for _, a := range attrs {
		if err := b.noteAttr(n, a); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (b *builder) noteAttr(n *layout.Note, a *dsl.Attribute) error {
	value := a.Value.Text()
	switch a.Name {
	case "finger":
		// 每个符头一个数字，从低到高
		fingers := strings.FieldsFunc(value, func(r rune) bool { return r == ' ' || r == ',' })
		if len(fingers) > len(n.Lines()) {
			return fmt.Errorf("%s: 指法数量 %d 与符头数量 %d 不一致", a.Pos, len(fingers), len(n.Lines()))
		}
		for i, f := range fingers {
			fg, err := layout.NewFingering(b.style, f, layout.PositionLeft)
			if err != nil {
				return err
			}
			if err := n.AddModifier(i, fg); err != nil {
				return err
			}
		}
	case "stem":
		dir := layout.StemAuto
		switch value {
		case "up":
			dir = layout.StemUp
		case "down":
			dir = layout.StemDown
		case "auto":
		default:
			return fmt.Errorf("%s: 符干方向无效 %q", a.Pos, value)
		}
		return n.SetStemDirection(dir)
	case "color":
		n.Color = value
	case "id":
		n.SetID(value)
	default:
		return fmt.Errorf("%s: %w %q", a.Pos, ErrUnknownAttribute, a.Name)
	}
	return nil
}

func (b *builder) rest(d ticks.Duration, attrs []*dsl.Attribute) (*layout.Rest, error) {
	r, err := layout.NewRest(b.style, d)
	if err != nil {
		return nil, err
	}
	for _, a := range attrs {
		value := a.Value.Text()
		switch a.Name {
		case "line":
			line, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: 谱线位置无效 %q", a.Pos, value)
			}
			r.SetLine(line)
		case "color":
			r.Color = value
		case "id":
			r.SetID(value)
		default:
			return nil, fmt.Errorf("%s: %w %q", a.Pos, ErrUnknownAttribute, a.Name)
		}
	}
	return r, nil
}

func (b *builder) text(te *dsl.TextEvent) (*layout.TextNote, error) {
	content := binding.Interpolate(string(te.Content), b.data)
	var (
		t   *layout.TextNote
		err error
	)
	if te.Duration == "" {
		t, err = layout.NewTextAnnotation(b.style, content)
	} else {
		var d ticks.Duration
		if d, err = ticks.ParseDuration(te.Duration); err != nil {
			return nil, err
		}
		t, err = layout.NewTextNote(b.style, content, d)
	}
	if err != nil {
		return nil, err
	}
	for _, a := range te.Attrs {
		value := a.Value.Text()
		switch a.Name {
		case "line":
			line, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: 谱线位置无效 %q", a.Pos, value)
			}
			t.SetLine(line)
		case "color":
			t.Color = value
		case "id":
			t.SetID(value)
		default:
			return nil, fmt.Errorf("%s: %w %q", a.Pos, ErrUnknownAttribute, a.Name)
		}
	}
	return t, nil
}
