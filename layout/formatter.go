package layout

import (
	"fmt"

	"github.com/ByLCY/stave/fraction"
	"github.com/ByLCY/stave/renderer"
)

// targets this close to the minimum count as exact
const widthEpsilon = 1e-9

// Formatter aligns the tickables of one or more voices by start tick and
// justifies them to a target width.
//
// Every pass starts again from the tickables' pre-format widths, so a
// formatter can be run repeatedly over the same voices.
type Formatter struct {
	opts     Options
	contexts []*TickContext
}

func NewFormatter(opts Options) *Formatter {
	return &Formatter{opts: opts}
}

func (f *Formatter) Options() Options { return f.opts }

// Contexts returns the tick contexts of the last successful pass.
func (f *Formatter) Contexts() []*TickContext { return f.contexts }

// Result summarises a formatting pass.
type Result struct {
	Target   float64       `json:"target"`
	Width    float64       `json:"width"`
	MinWidth float64       `json:"minWidth"`
	Surplus  float64       `json:"surplus"`
	Overflow bool          `json:"overflow,omitempty"`
	Contexts []ContextInfo `json:"contexts"`
}

// ContextInfo describes one tick context after justification.
type ContextInfo struct {
	Tick     fraction.Fraction `json:"tick"`
	Duration fraction.Fraction `json:"duration"`
	X        float64           `json:"x"`
	Width    float64           `json:"width"`
	Extra    float64           `json:"extra"`
	Members  int               `json:"members"`
}

// plan validates the voices, pre-formats every tickable and returns the
// sorted contexts with their durations and the minimum total width.
// It does not touch tickable positions.
func (f *Formatter) plan(voices []*Voice) ([]*TickContext, float64, error) {
	var entries []entry
	end := fraction.FromInt(0)
	for i, v := range voices {
		if v == nil {
			continue
		}
		if err := v.Validate(); err != nil {
			return nil, 0, fmt.Errorf("voice %d: %w", i, err)
		}
		pos := fraction.FromInt(0)
		for j, t := range v.tickables {
			w, err := t.PreFormat()
			if err != nil {
				return nil, 0, fmt.Errorf("voice %d %s %d: preformat: %w", i, t.Kind(), j, err)
			}
			entries = append(entries, entry{tickable: t, tick: pos, width: w + f.opts.Padding})
			pos.Add(t.Ticks())
		}
		if e := v.End(); e.GreaterThan(end) {
			end = e
		}
		if pos.GreaterThan(end) {
			end = pos
		}
	}

	contexts := bucket(entries)
	zero := fraction.FromInt(0)
	minWidth := 0.0
	for i, tc := range contexts {
		next := end
		if i+1 < len(contexts) {
			next = contexts[i+1].tick
		}
		d := next.Minus(tc.tick).Simplified()
		if d.LessThan(zero) {
			d = zero
		}
		tc.duration = d
		minWidth += tc.width
		if i > 0 {
			minWidth += f.opts.Spacing
		}
	}
	return contexts, minWidth, nil
}

// MinimumWidth returns the narrowest width voices can be formatted to.
func (f *Formatter) MinimumWidth(voices []*Voice) (float64, error) {
	_, w, err := f.plan(voices)
	return w, err
}

// Format lays voices out across width and writes the x position of every
// tickable. On error no position is changed.
func (f *Formatter) Format(voices []*Voice, width float64) (*Result, error) {
	contexts, minWidth, err := f.plan(voices)
	if err != nil {
		return nil, err
	}
	if len(contexts) == 0 {
		f.contexts = nil
		return &Result{Target: width, Contexts: []ContextInfo{}}, nil
	}

	surplus := width - minWidth
	overflow := false
	if surplus < -widthEpsilon {
		if !f.opts.AllowOverflow {
			return nil, &WidthError{Target: width, Minimum: minWidth}
		}
		overflow = true
	}
	if surplus < widthEpsilon {
		surplus = 0
	}
	laidOut := f.justify(contexts, surplus)

	for _, tc := range contexts {
		for _, t := range tc.members {
			t.SetXPosition(tc.x)
		}
	}
	f.contexts = contexts

	res := &Result{
		Target:   width,
		Width:    laidOut,
		MinWidth: minWidth,
		Surplus:  surplus,
		Overflow: overflow,
		Contexts: make([]ContextInfo, len(contexts)),
	}
	for i, tc := range contexts {
		res.Contexts[i] = ContextInfo{
			Tick:     tc.tick,
			Duration: tc.duration,
			X:        tc.x,
			Width:    tc.width,
			Extra:    tc.extra,
			Members:  len(tc.members),
		}
	}
	Logger().Debug("formatted voices",
		"voices", len(voices),
		"contexts", len(contexts),
		"minWidth", minWidth,
		"target", width,
		"overflow", overflow,
	)
	return res, nil
}

// justify spreads surplus over contexts in proportion to their durations
// and assigns x offsets. It returns the total laid out width.
func (f *Formatter) justify(contexts []*TickContext, surplus float64) float64 {
	total := fraction.FromInt(0)
	for _, tc := range contexts {
		total.Add(tc.duration)
	}
	x := 0.0
	for i, tc := range contexts {
		switch {
		case surplus == 0:
			tc.extra = 0
		case total.IsZero():
			tc.extra = surplus / float64(len(contexts))
		default:
			share, _ := tc.duration.Over(total)
			tc.extra = surplus * share.Value()
		}
		if i > 0 {
			x += f.opts.Spacing
		}
		tc.x = x
		x += tc.width + tc.extra
	}
	return x
}

// FormatToStave formats voices across the note area of st.
func (f *Formatter) FormatToStave(voices []*Voice, st *Stave) (*Result, error) {
	return f.Format(voices, st.NoteWidth())
}

// FormatAndDraw attaches voices to st, formats them with the default
// options and draws the stave and voices.
func FormatAndDraw(ctx renderer.Context, st *Stave, voices ...*Voice) (*Result, error) {
	for _, v := range voices {
		v.SetStave(st)
	}
	res, err := NewFormatter(DefaultOptions()).FormatToStave(voices, st)
	if err != nil {
		return nil, err
	}
	if err := st.Draw(ctx); err != nil {
		return nil, err
	}
	for _, v := range voices {
		if err := v.Draw(ctx); err != nil {
			return nil, err
		}
	}
	return res, nil
}
