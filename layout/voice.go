package layout

import (
	"fmt"
	"slices"

	"github.com/ByLCY/stave/fraction"
	"github.com/ByLCY/stave/renderer"
	"github.com/ByLCY/stave/ticks"
)

// Mode controls how a voice's tick total must relate to its time signature.
type Mode int

const (
	// ModeStrict requires the total to equal the measure exactly.
	ModeStrict Mode = iota
	// ModeFull forbids overflow but allows an incomplete measure.
	ModeFull
	// ModeSoft skips tick accounting.
	ModeSoft
)

func (m Mode) String() string {
	switch m {
	case ModeStrict:
		return "strict"
	case ModeFull:
		return "full"
	case ModeSoft:
		return "soft"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps "strict", "full" and "soft" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "strict", "":
		return ModeStrict, nil
	case "full":
		return ModeFull, nil
	case "soft":
		return ModeSoft, nil
	}
	return 0, fmt.Errorf("layout: unknown voice mode %q", s)
}

// Voice is an ordered, time-accounted sequence of tickables.
type Voice struct {
	ts        ticks.TimeSignature
	expected  fraction.Fraction
	total     fraction.Fraction
	mode      Mode
	tickables []Tickable
	stave     *Stave
}

// NewVoice returns an empty strict voice for one measure of ts.
func NewVoice(ts ticks.TimeSignature) *Voice {
	return &Voice{
		ts:       ts,
		expected: fraction.FromInt(int64(ts.TotalTicks())),
		total:    fraction.FromInt(0),
	}
}

func (v *Voice) SetMode(m Mode) *Voice {
	v.mode = m
	return v
}

func (v *Voice) Mode() Mode                         { return v.mode }
func (v *Voice) TimeSignature() ticks.TimeSignature { return v.ts }
func (v *Voice) ExpectedTicks() fraction.Fraction   { return v.expected }
func (v *Voice) TotalTicks() fraction.Fraction      { return v.total }
func (v *Voice) Tickables() []Tickable              { return slices.Clone(v.tickables) }
func (v *Voice) Len() int                           { return len(v.tickables) }

func (v *Voice) AddTickable(t Tickable) error {
	return v.AddTickables(t)
}

// AddTickables appends ts in order. In strict and full mode a sequence that
// would overflow the measure is rejected as a whole.
func (v *Voice) AddTickables(ts ...Tickable) error {
	total := v.total
	for _, t := range ts {
		total.Add(t.Ticks())
	}
	total.Simplify()
	if v.mode != ModeSoft && total.GreaterThan(v.expected) {
		return &TicksError{Mode: v.mode, Expected: v.expected, Actual: total}
	}
	for _, t := range ts {
		if v.stave != nil {
			t.SetStave(v.stave)
		}
	}
	v.tickables = append(v.tickables, ts...)
	v.total = total
	return nil
}

// sum recounts the ticks; tuplet multipliers may change after adding.
func (v *Voice) sum() fraction.Fraction {
	total := fraction.FromInt(0)
	for _, t := range v.tickables {
		total.Add(t.Ticks())
	}
	return total.Simplified()
}

// IsComplete reports whether the voice fills its measure.
func (v *Voice) IsComplete() bool {
	if v.mode == ModeSoft {
		return true
	}
	return v.sum().Equals(v.expected)
}

// Validate checks the tick total against the mode. The formatter calls it
// before laying out a voice.
func (v *Voice) Validate() error {
	v.total = v.sum()
	switch v.mode {
	case ModeStrict:
		if !v.total.Equals(v.expected) {
			return &TicksError{Mode: v.mode, Expected: v.expected, Actual: v.total}
		}
	case ModeFull:
		if v.total.GreaterThan(v.expected) {
			return &TicksError{Mode: v.mode, Expected: v.expected, Actual: v.total}
		}
	}
	return nil
}

// End is the tick at which the voice finishes: the measure length unless
// the voice is soft.
func (v *Voice) End() fraction.Fraction {
	if v.mode == ModeSoft {
		return v.sum()
	}
	return v.expected
}

// TickPositions returns the start tick of each tickable.
func (v *Voice) TickPositions() []fraction.Fraction {
	out := make([]fraction.Fraction, len(v.tickables))
	pos := fraction.FromInt(0)
	for i, t := range v.tickables {
		out[i] = pos.Simplified()
		pos.Add(t.Ticks())
	}
	return out
}

// SetStave attaches the voice and every tickable in it to s.
func (v *Voice) SetStave(s *Stave) *Voice {
	v.stave = s
	for _, t := range v.tickables {
		t.SetStave(s)
	}
	return v
}

func (v *Voice) Stave() *Stave { return v.stave }

// Draw draws every tickable in order.
func (v *Voice) Draw(ctx renderer.Context) error {
	for i, t := range v.tickables {
		if err := t.Draw(ctx); err != nil {
			return fmt.Errorf("draw %s %d: %w", t.Kind(), i, err)
		}
	}
	return nil
}
