package layout

import (
	"errors"
	"testing"

	"github.com/ByLCY/stave/fraction"
	"github.com/ByLCY/stave/ticks"
)

func TestVoiceOverflowIsAtomic(t *testing.T) {
	v := NewVoice(ticks.TimeSignature{Beats: 3, BeatValue: 4})
	if err := v.AddTickables(stub(half, 1)); err != nil {
		t.Fatalf("AddTickables: %v", err)
	}
	err := v.AddTickables(stub(quarter, 1), stub(quarter, 1))
	if !errors.Is(err, ErrVoiceTicksMismatch) {
		t.Fatalf("expected ErrVoiceTicksMismatch, got %v", err)
	}
	var te *TicksError
	if !errors.As(err, &te) || te.Mode != ModeStrict {
		t.Fatalf("expected TicksError, got %v", err)
	}
	if v.Len() != 1 || !v.TotalTicks().Equals(fraction.FromInt(half)) {
		t.Fatalf("rejected tickables were appended: len %d total %s", v.Len(), v.TotalTicks())
	}
}

func TestVoiceModes(t *testing.T) {
	strict := NewVoice(ticks.CommonTime)
	if err := strict.AddTickables(stub(half, 1)); err != nil {
		t.Fatal(err)
	}
	if err := strict.Validate(); !errors.Is(err, ErrVoiceTicksMismatch) {
		t.Fatalf("under-filled strict voice should fail validation, got %v", err)
	}
	if strict.IsComplete() {
		t.Fatalf("under-filled strict voice reported complete")
	}

	full := NewVoice(ticks.CommonTime).SetMode(ModeFull)
	if err := full.AddTickables(stub(half, 1)); err != nil {
		t.Fatal(err)
	}
	if err := full.Validate(); err != nil {
		t.Fatalf("under-filled full voice should validate: %v", err)
	}
	if err := full.AddTickables(stub(whole, 1)); !errors.Is(err, ErrVoiceTicksMismatch) {
		t.Fatalf("full voice must reject overflow, got %v", err)
	}

	soft := NewVoice(ticks.CommonTime).SetMode(ModeSoft)
	if err := soft.AddTickables(stub(whole, 1), stub(whole, 1)); err != nil {
		t.Fatalf("soft voice rejected overflow: %v", err)
	}
	if err := soft.Validate(); err != nil {
		t.Fatalf("soft voice should always validate: %v", err)
	}
	if !soft.End().Equals(fraction.FromInt(2 * whole)) {
		t.Fatalf("soft voice end = %s", soft.End())
	}
}

func TestVoiceTickPositions(t *testing.T) {
	a, b, c := stub(quarter, 1), stub(quarter, 1), stub(half, 1)
	if err := a.ApplyTickMultiplier(2, 3); err != nil {
		t.Fatal(err)
	}
	v := NewVoice(ticks.CommonTime).SetMode(ModeSoft)
	if err := v.AddTickables(a, b, c); err != nil {
		t.Fatal(err)
	}
	got := v.TickPositions()
	want := []string{"0/1", "8192/3", "20480/3"}
	for i := range want {
		if got[i].String() != want[i] {
			t.Fatalf("position %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestVoiceValidateSeesLateMultipliers(t *testing.T) {
	notes := []*stubTickable{stub(quarter, 1), stub(quarter, 1), stub(quarter, 1), stub(quarter, 1)}
	v := NewVoice(ticks.CommonTime)
	if err := v.AddTickables(notes[0], notes[1], notes[2], notes[3]); err != nil {
		t.Fatal(err)
	}
	if err := notes[0].ApplyTickMultiplier(1, 2); err != nil {
		t.Fatal(err)
	}
	if err := v.Validate(); !errors.Is(err, ErrVoiceTicksMismatch) {
		t.Fatalf("expected mismatch after shrinking a tickable, got %v", err)
	}
}

func TestTickMultiplierMustBePositive(t *testing.T) {
	n := stub(quarter, 1)
	for _, m := range [][2]int64{{0, 3}, {-2, 3}, {2, 0}, {2, -3}} {
		if err := n.ApplyTickMultiplier(m[0], m[1]); !errors.Is(err, ErrInvalidTickMultiplier) {
			t.Fatalf("ApplyTickMultiplier(%d, %d): expected ErrInvalidTickMultiplier, got %v", m[0], m[1], err)
		}
	}
	if !n.Ticks().Equals(fraction.FromInt(quarter)) {
		t.Fatalf("rejected multipliers changed ticks to %s", n.Ticks())
	}
	if err := n.ApplyTickMultiplier(2, 3); err != nil {
		t.Fatal(err)
	}
	if err := n.ApplyTickMultiplier(3, 4); err != nil {
		t.Fatal(err)
	}
	if got := n.TickMultiplier().String(); got != "1/2" {
		t.Fatalf("accumulated multiplier = %s, want 1/2", got)
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"strict": ModeStrict, "full": ModeFull, "soft": ModeSoft, "": ModeStrict} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseMode("loose"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
