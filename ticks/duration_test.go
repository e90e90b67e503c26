package ticks

import (
	"errors"
	"testing"
)

func TestDurationToTicks(t *testing.T) {
	cases := []struct {
		code string
		want int
	}{
		{"1/2", Resolution * 2},
		{"1", Resolution},
		{"w", Resolution},
		{"h", Resolution / 2},
		{"4", Resolution / 4},
		{"q", Resolution / 4},
		{"8", Resolution / 8},
		{"8d", Resolution/8 + Resolution/16},
		{"4dd", Resolution/4 + Resolution/8 + Resolution/16},
		{"2dr", Resolution/2 + Resolution/4},
		{"256", Resolution / 256},
		{"b", Resolution / 256},
	}
	for _, c := range cases {
		got, err := DurationToTicks(c.code)
		if err != nil {
			t.Fatalf("DurationToTicks(%q): %v", c.code, err)
		}
		if got != c.want {
			t.Fatalf("DurationToTicks(%q) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestDurationToTicksInvalid(t *testing.T) {
	for _, code := range []string{"", "3", "x", "4x", "8/3", "d", "256ddddddd"} {
		if _, err := DurationToTicks(code); !errors.Is(err, ErrInvalidDuration) {
			t.Fatalf("DurationToTicks(%q): expected ErrInvalidDuration, got %v", code, err)
		}
		if _, ok := TryDurationToTicks(code); ok {
			t.Fatalf("TryDurationToTicks(%q) should report false", code)
		}
	}
}

func TestParseDurationType(t *testing.T) {
	d, err := ParseDuration("qdr")
	if err != nil {
		t.Fatalf("ParseDuration: %v", err)
	}
	if d.Value != "4" || d.Dots != 1 || d.Type != TypeRest {
		t.Fatalf("unexpected duration %+v", d)
	}
	if d.String() != "4dr" {
		t.Fatalf("String() = %q", d.String())
	}
	if got := d.Divisor(); got != 4 {
		t.Fatalf("Divisor() = %g", got)
	}
}

func TestParseTimeSignature(t *testing.T) {
	cases := map[string]int{
		"4/4": Resolution,
		"3/4": 3 * Resolution / 4,
		"6/8": 6 * Resolution / 8,
		"C":   Resolution,
		"C|":  Resolution,
	}
	for in, want := range cases {
		ts, err := ParseTimeSignature(in)
		if err != nil {
			t.Fatalf("ParseTimeSignature(%q): %v", in, err)
		}
		if got := ts.TotalTicks(); got != want {
			t.Fatalf("%q total ticks = %d, want %d", in, got, want)
		}
	}
	for _, bad := range []string{"", "4", "0/4", "4/0", "4/3", "a/b"} {
		if _, err := ParseTimeSignature(bad); !errors.Is(err, ErrInvalidTimeSignature) {
			t.Fatalf("ParseTimeSignature(%q): expected ErrInvalidTimeSignature, got %v", bad, err)
		}
	}
}
