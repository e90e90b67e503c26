// Package fraction implements exact rational arithmetic for musical durations.
//
// Mutating methods (Add, Subtract, Multiply, Divide and their *Int forms)
// change the receiver and return it so calls can be chained. Plus, Minus,
// Times and Over leave the receiver untouched and return a new value.
package fraction

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrZeroDenominator is returned when a fraction is constructed with a zero denominator.
	ErrZeroDenominator = errors.New("fraction: zero denominator")

	// ErrDivideByZero is returned when dividing by a zero-valued fraction.
	ErrDivideByZero = errors.New("fraction: division by zero")
)

// Fraction is an exact rational number. The denominator is always positive.
// The zero value is not a valid Fraction; use New or FromInt.
type Fraction struct {
	num int64
	den int64
}

// New returns n/d with the sign carried by the numerator.
func New(n, d int64) (Fraction, error) {
	if d == 0 {
		return Fraction{}, fmt.Errorf("%w: %d/0", ErrZeroDenominator, n)
	}
	f := Fraction{num: n, den: d}
	f.normalizeSign()
	return f, nil
}

// FromInt returns n/1.
func FromInt(n int64) Fraction {
	return Fraction{num: n, den: 1}
}

// Parse reads "n/d" or a plain integer.
func Parse(s string) (Fraction, error) {
	s = strings.TrimSpace(s)
	numStr, denStr, ok := strings.Cut(s, "/")
	if !ok {
		denStr = "1"
	}
	n, err := strconv.ParseInt(strings.TrimSpace(numStr), 10, 64)
	if err != nil {
		return Fraction{}, fmt.Errorf("fraction: parse %q: %w", s, err)
	}
	d, err := strconv.ParseInt(strings.TrimSpace(denStr), 10, 64)
	if err != nil {
		return Fraction{}, fmt.Errorf("fraction: parse %q: %w", s, err)
	}
	return New(n, d)
}

// Numerator returns the numerator.
func (f Fraction) Numerator() int64 { return f.num }

// Denominator returns the (positive) denominator.
func (f Fraction) Denominator() int64 { return f.den }

func (f *Fraction) normalizeSign() {
	if f.den < 0 {
		f.num = -f.num
		f.den = -f.den
	}
}

func (f *Fraction) set(n, d int64) *Fraction {
	f.num, f.den = n, d
	f.normalizeSign()
	return f
}

// Add adds o to f in place.
func (f *Fraction) Add(o Fraction) *Fraction {
	l := LCM(f.den, o.den)
	return f.set(f.num*(l/f.den)+o.num*(l/o.den), l)
}

// AddInt adds the integer n to f in place.
func (f *Fraction) AddInt(n int64) *Fraction {
	return f.Add(FromInt(n))
}

// Subtract subtracts o from f in place.
func (f *Fraction) Subtract(o Fraction) *Fraction {
	l := LCM(f.den, o.den)
	return f.set(f.num*(l/f.den)-o.num*(l/o.den), l)
}

// SubtractInt subtracts the integer n from f in place.
func (f *Fraction) SubtractInt(n int64) *Fraction {
	return f.Subtract(FromInt(n))
}

// Multiply multiplies f by o in place.
func (f *Fraction) Multiply(o Fraction) *Fraction {
	return f.set(f.num*o.num, f.den*o.den)
}

// MultiplyInt multiplies f by the integer n in place.
func (f *Fraction) MultiplyInt(n int64) *Fraction {
	return f.Multiply(FromInt(n))
}

// Divide divides f by o in place. f is left unchanged when o is zero.
func (f *Fraction) Divide(o Fraction) (*Fraction, error) {
	if o.num == 0 {
		return f, ErrDivideByZero
	}
	return f.set(f.num*o.den, f.den*o.num), nil
}

// DivideInt divides f by the integer n in place.
func (f *Fraction) DivideInt(n int64) (*Fraction, error) {
	return f.Divide(FromInt(n))
}

// Plus returns f+o.
func (f Fraction) Plus(o Fraction) Fraction { return *f.Clone().Add(o) }

// Minus returns f-o.
func (f Fraction) Minus(o Fraction) Fraction { return *f.Clone().Subtract(o) }

// Times returns f*o.
func (f Fraction) Times(o Fraction) Fraction { return *f.Clone().Multiply(o) }

// Over returns f/o.
func (f Fraction) Over(o Fraction) (Fraction, error) {
	c := f.Clone()
	if _, err := c.Divide(o); err != nil {
		return Fraction{}, err
	}
	return *c, nil
}

// Simplify reduces f to lowest terms in place.
func (f *Fraction) Simplify() *Fraction {
	g := GCD(f.num, f.den)
	if g < 0 {
		g = -g
	}
	if g > 1 {
		f.num /= g
		f.den /= g
	}
	return f
}

// Simplified returns f in lowest terms.
func (f Fraction) Simplified() Fraction { return *f.Clone().Simplify() }

// Clone returns an independent copy of f.
func (f Fraction) Clone() *Fraction {
	c := f
	return &c
}

// Copy overwrites the parts of f with those of o.
func (f *Fraction) Copy(o Fraction) *Fraction {
	f.num, f.den = o.num, o.den
	return f
}

// Value approximates f as a float64. Not for comparisons.
func (f Fraction) Value() float64 {
	return float64(f.num) / float64(f.den)
}

// Quotient returns the integer part of f, truncated toward zero.
func (f Fraction) Quotient() int64 { return f.num / f.den }

// Remainder returns the numerator of the fractional part over the same denominator.
func (f Fraction) Remainder() int64 { return f.num % f.den }

// IsZero reports whether f equals zero.
func (f Fraction) IsZero() bool { return f.num == 0 }

// Compare returns -1, 0 or +1 ordering f relative to o.
func (f Fraction) Compare(o Fraction) int {
	l, r := f.num*o.den, o.num*f.den
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	default:
		return 0
	}
}

// Equals reports whether f == o.
func (f Fraction) Equals(o Fraction) bool { return f.Compare(o) == 0 }

// LessThan reports whether f < o.
func (f Fraction) LessThan(o Fraction) bool { return f.Compare(o) < 0 }

// LessThanEquals reports whether f <= o.
func (f Fraction) LessThanEquals(o Fraction) bool { return f.Compare(o) <= 0 }

// GreaterThan reports whether f > o.
func (f Fraction) GreaterThan(o Fraction) bool { return f.Compare(o) > 0 }

// GreaterThanEquals reports whether f >= o.
func (f Fraction) GreaterThanEquals(o Fraction) bool { return f.Compare(o) >= 0 }

func (f Fraction) String() string {
	return strconv.FormatInt(f.num, 10) + "/" + strconv.FormatInt(f.den, 10)
}

// MarshalText encodes f as "n/d".
func (f Fraction) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// GCD returns the greatest common divisor of a and b.
// GCD(a, 0) == a, GCD(0, b) == b and GCD(0, 0) == 0.
func GCD(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// LCM returns the least common multiple of a and b, or 0 if either is 0.
func LCM(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	return a * b / GCD(a, b)
}

// LCMM folds LCM over xs. An empty sequence yields 0.
func LCMM(xs ...int64) int64 {
	switch len(xs) {
	case 0:
		return 0
	case 1:
		return xs[0]
	}
	l := xs[0]
	for _, x := range xs[1:] {
		l = LCM(l, x)
	}
	return l
}
