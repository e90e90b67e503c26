package binding

import (
	"strings"
	"testing"
)

const sample = `{
  "composer": "J. S. Bach",
  "opus": 114,
  "tempo": 92.5,
  "parts": [{"name": "Piano"}, {"name": "Flute"}],
  "empty": null
}`

func loadSample(t *testing.T) any {
	t.Helper()
	data, err := Load(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return data
}

func TestInterpolate(t *testing.T) {
	data := loadSample(t)
	cases := []struct {
		in, want string
	}{
		{"by ${composer}", "by J. S. Bach"},
		{"BWV ${ opus }", "BWV 114"},
		{"q = ${tempo}", "q = 92.5"},
		{"${parts[1].name}", "Flute"},
		{"${parts[5].name}", "${parts[5].name}"},
		{"${missing}", "${missing}"},
		{"${missing|Anonymous}", "Anonymous"},
		{"${composer|Anonymous}", "J. S. Bach"},
		{"${empty|n/a}", "n/a"},
		{"${|x}", "x"},
		{"no placeholders", "no placeholders"},
	}
	for _, c := range cases {
		if got := Interpolate(c.in, data); got != c.want {
			t.Fatalf("Interpolate(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestInterpolateWithoutData(t *testing.T) {
	if got := Interpolate("${a}", nil); got != "${a}" {
		t.Fatalf("got %q", got)
	}
	if got := Interpolate("${a|b}", nil); got != "b" {
		t.Fatalf("fallback should apply without data, got %q", got)
	}
}

func TestLoadYAML(t *testing.T) {
	data, err := Load(strings.NewReader("title: Prelude\nkey:\n  tonic: C\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if v, ok := Lookup(data, "key.tonic"); !ok || v != "C" {
		t.Fatalf("Lookup = %v, %v", v, ok)
	}
	if data, err := Load(strings.NewReader("")); err != nil || data != nil {
		t.Fatalf("empty input: %v, %v", data, err)
	}
}
