package layout

import (
	"errors"
	"fmt"

	"github.com/ByLCY/stave/fraction"
)

var (
	// ErrVoiceTicksMismatch is returned when a voice's tick total does not
	// fit its time signature under the voice's mode.
	ErrVoiceTicksMismatch = errors.New("layout: voice ticks mismatch")

	// ErrUnableToFormat is returned when the target width is below the
	// minimum the formatted contexts require.
	ErrUnableToFormat = errors.New("layout: unable to format")

	// ErrNoStave is returned when drawing a tickable that has no stave.
	ErrNoStave = errors.New("layout: no stave attached")

	// ErrNoHeads is returned when a note is built without note heads.
	ErrNoHeads = errors.New("layout: note needs at least one head")

	// ErrUnknownModifier is returned for unsupported modifier kinds.
	ErrUnknownModifier = errors.New("layout: unknown modifier")

	// ErrInvalidTickMultiplier is returned for a tuplet ratio that is not
	// positive.
	ErrInvalidTickMultiplier = errors.New("layout: tick multiplier must be positive")
)

// TicksError reports a voice whose ticks do not fit its time signature.
type TicksError struct {
	Mode     Mode
	Expected fraction.Fraction
	Actual   fraction.Fraction
}

func (e *TicksError) Error() string {
	return fmt.Sprintf("layout: voice ticks mismatch (%s mode): have %s, expected %s",
		e.Mode, e.Actual.Simplified(), e.Expected.Simplified())
}

func (e *TicksError) Unwrap() error { return ErrVoiceTicksMismatch }

// WidthError reports a target width below the formatter's minimum.
type WidthError struct {
	Target  float64
	Minimum float64
}

func (e *WidthError) Error() string {
	return fmt.Sprintf("layout: unable to format: width %.3f is below the minimum %.3f", e.Target, e.Minimum)
}

func (e *WidthError) Unwrap() error { return ErrUnableToFormat }
