// Package ticks converts symbolic duration codes and time signatures into
// integer tick counts at a fixed resolution.
package ticks

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Resolution is the number of ticks in a whole note.
const Resolution = 16384

var (
	// ErrInvalidDuration is returned for unrecognized or unrepresentable duration codes.
	ErrInvalidDuration = errors.New("ticks: invalid duration")

	// ErrInvalidTimeSignature is returned for malformed time signatures.
	ErrInvalidTimeSignature = errors.New("ticks: invalid time signature")
)

// NoteType is the optional suffix of a duration code.
type NoteType byte

const (
	TypeNote     NoteType = 'n'
	TypeRest     NoteType = 'r'
	TypeGhost    NoteType = 'g'
	TypeHarmonic NoteType = 'h'
	TypeMuted    NoteType = 'm'
	TypeSlash    NoteType = 's'
)

// base tick counts per canonical duration value
var durationTicks = map[string]int{
	"1/2": Resolution * 2,
	"1":   Resolution,
	"2":   Resolution / 2,
	"4":   Resolution / 4,
	"8":   Resolution / 8,
	"16":  Resolution / 16,
	"32":  Resolution / 32,
	"64":  Resolution / 64,
	"128": Resolution / 128,
	"256": Resolution / 256,
}

var durationAliases = map[string]string{
	"w": "1",
	"h": "2",
	"q": "4",
	"b": "256",
}

var durationPattern = regexp.MustCompile(`^(\d*/?\d+|[a-z])(d*)([nrghms]?)$`)

// Duration is a parsed duration code.
type Duration struct {
	Value string // canonical value, e.g. "4" or "1/2"
	Dots  int
	Type  NoteType
}

// ParseDuration parses codes like "4", "8d", "qr" or "16dd".
func ParseDuration(code string) (Duration, error) {
	m := durationPattern.FindStringSubmatch(strings.TrimSpace(code))
	if m == nil {
		return Duration{}, fmt.Errorf("%w: %q", ErrInvalidDuration, code)
	}
	value := m[1]
	if alias, ok := durationAliases[value]; ok {
		value = alias
	}
	if _, ok := durationTicks[value]; !ok {
		return Duration{}, fmt.Errorf("%w: %q", ErrInvalidDuration, code)
	}
	d := Duration{Value: value, Dots: len(m[2]), Type: TypeNote}
	if m[3] != "" {
		d.Type = NoteType(m[3][0])
	}
	if _, err := d.ticks(); err != nil {
		return Duration{}, fmt.Errorf("%w: %q", err, code)
	}
	return d, nil
}

func (d Duration) ticks() (int, error) {
	base, ok := durationTicks[d.Value]
	if !ok {
		return 0, ErrInvalidDuration
	}
	total := base
	for k := 1; k <= d.Dots; k++ {
		if base%(1<<k) != 0 {
			return 0, fmt.Errorf("%w: too many dots", ErrInvalidDuration)
		}
		total += base >> k
	}
	return total, nil
}

// Ticks returns the tick count of d, including dots. Invalid durations yield 0.
func (d Duration) Ticks() int {
	n, _ := d.ticks()
	return n
}

// Divisor returns the note value denominator as a float (0.5 for a breve).
func (d Duration) Divisor() float64 {
	return float64(Resolution) / float64(durationTicks[d.Value])
}

func (d Duration) String() string {
	s := d.Value + strings.Repeat("d", d.Dots)
	if d.Type != TypeNote && d.Type != 0 {
		s += string(d.Type)
	}
	return s
}

// DurationToTicks returns the number of ticks for a duration code.
func DurationToTicks(code string) (int, error) {
	d, err := ParseDuration(code)
	if err != nil {
		return 0, err
	}
	return d.Ticks(), nil
}

// TryDurationToTicks is DurationToTicks for callers probing validity.
func TryDurationToTicks(code string) (int, bool) {
	n, err := DurationToTicks(code)
	return n, err == nil
}

// TimeSignature is a meter such as 4/4.
type TimeSignature struct {
	Beats     int
	BeatValue int
}

// CommonTime is 4/4.
var CommonTime = TimeSignature{Beats: 4, BeatValue: 4}

// ParseTimeSignature accepts "n/d", "C" (4/4) and "C|" (2/2).
func ParseTimeSignature(s string) (TimeSignature, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "C":
		return CommonTime, nil
	case "C|":
		return TimeSignature{Beats: 2, BeatValue: 2}, nil
	}
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		return TimeSignature{}, fmt.Errorf("%w: %q", ErrInvalidTimeSignature, s)
	}
	beats, err := strconv.Atoi(num)
	if err != nil || beats <= 0 {
		return TimeSignature{}, fmt.Errorf("%w: %q", ErrInvalidTimeSignature, s)
	}
	value, err := strconv.Atoi(den)
	if err != nil || value <= 0 || Resolution%value != 0 {
		return TimeSignature{}, fmt.Errorf("%w: %q", ErrInvalidTimeSignature, s)
	}
	return TimeSignature{Beats: beats, BeatValue: value}, nil
}

// TotalTicks is the expected tick count of one measure.
func (ts TimeSignature) TotalTicks() int {
	if ts.BeatValue == 0 {
		return 0
	}
	return ts.Beats * (Resolution / ts.BeatValue)
}

func (ts TimeSignature) String() string {
	return fmt.Sprintf("%d/%d", ts.Beats, ts.BeatValue)
}
