package layout

import (
	"slices"

	"github.com/ByLCY/stave/fraction"
)

// TickContext groups the tickables of every voice that start at the same
// tick. It lives for one formatting pass.
type TickContext struct {
	tick     fraction.Fraction
	duration fraction.Fraction
	members  []Tickable
	width    float64
	extra    float64
	x        float64
}

func newTickContext(tick fraction.Fraction) *TickContext {
	return &TickContext{tick: tick, duration: fraction.FromInt(0)}
}

func (tc *TickContext) add(t Tickable, width float64) {
	tc.members = append(tc.members, t)
	tc.width = max(tc.width, width)
}

// Tick is the start tick shared by the members.
func (tc *TickContext) Tick() fraction.Fraction { return tc.tick }

// Duration is the number of ticks until the next context.
func (tc *TickContext) Duration() fraction.Fraction { return tc.duration }

func (tc *TickContext) Members() []Tickable { return slices.Clone(tc.members) }

// Width is the widest member's pre-format width, padding included.
func (tc *TickContext) Width() float64 { return tc.width }

// Extra is the justification space given to the context.
func (tc *TickContext) Extra() float64 { return tc.extra }

func (tc *TickContext) X() float64 { return tc.x }

// bucket groups tickables by exact start tick and returns the contexts in
// ascending tick order.
func bucket(entries []entry) []*TickContext {
	byTick := make(map[fraction.Fraction]*TickContext)
	var out []*TickContext
	for _, e := range entries {
		key := e.tick.Simplified()
		tc, ok := byTick[key]
		if !ok {
			tc = newTickContext(key)
			byTick[key] = tc
			out = append(out, tc)
		}
		tc.add(e.tickable, e.width)
	}
	slices.SortStableFunc(out, func(a, b *TickContext) int {
		return a.tick.Compare(b.tick)
	})
	return out
}

type entry struct {
	tickable Tickable
	tick     fraction.Fraction
	width    float64
}
