package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/stave/dsl"
)

const sampleDSL = `
score Minuet {
  meta {
    title: "Minuet in G"
    composer: "${composer|Anonymous}"
    width: 180mm
  }

  // right hand and left hand share one system
  system width 500pt spacing 12 {
    stave treble 3/4 {
      voice {
        note d5 4 finger 5
        note g4 8; note a4 8
        chord (b4 d5 g5) 4 stem down
      }
    }
    stave bass 3/4 {
      voice soft {
        /* the bass rests first */
        rest 4
        tuplet 3 2 { note g3 8; note a3 8; note b3 8 }
        text "rit." 4 color #c00
        ghost q
        text "p"
      }
    }
  }
}
`

func TestParseScore(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Name != "Minuet" {
		t.Fatalf("expected score name Minuet, got %s", doc.Name)
	}
	if len(doc.Sections) != 2 || doc.Sections[0].Kind() != "meta" || doc.Sections[1].Kind() != "system" {
		t.Fatalf("unexpected sections: %+v", doc.Sections)
	}

	meta := doc.Meta()
	if len(meta) != 3 {
		t.Fatalf("expected 3 meta entries, got %d", len(meta))
	}
	if meta[0].Key != "title" || meta[0].Value.Text() != "Minuet in G" {
		t.Fatalf("unexpected title entry: %+v", meta[0])
	}
	if got := meta[1].Value.Text(); !strings.Contains(got, "${composer|Anonymous}") {
		t.Fatalf("interpolation placeholder should survive parsing, got %s", got)
	}
	if meta[2].Value.Number == nil || *meta[2].Value.Number != "180mm" {
		t.Fatalf("expected width 180mm, got %+v", meta[2].Value)
	}

	systems := doc.Systems()
	if len(systems) != 1 {
		t.Fatalf("expected 1 system, got %d", len(systems))
	}
	sys := systems[0]
	if w, ok := sys.Param("width"); !ok || w.Text() != "500pt" {
		t.Fatalf("system width missing: %+v", sys.Params)
	}
	if s, ok := sys.Param("spacing"); !ok || s.Text() != "12" {
		t.Fatalf("system spacing missing: %+v", sys.Params)
	}
	if len(sys.Staves) != 2 {
		t.Fatalf("expected 2 staves, got %d", len(sys.Staves))
	}

	treble := sys.Staves[0]
	if treble.Clef != "treble" || treble.Time != "3/4" {
		t.Fatalf("unexpected stave header: %s %s", treble.Clef, treble.Time)
	}
	events := treble.Voices[0].Events
	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d", len(events))
	}
	first := events[0].Note
	if first == nil || first.Pitch != "d5" || first.Duration != "4" {
		t.Fatalf("unexpected first note: %+v", events[0])
	}
	if v, ok := dsl.Attr(first.Attrs, "finger"); !ok || v.Text() != "5" {
		t.Fatalf("fingering not captured: %+v", first.Attrs)
	}
	chord := events[3].Chord
	if chord == nil || len(chord.Pitches) != 3 || chord.Pitches[2] != "g5" {
		t.Fatalf("unexpected chord: %+v", events[3])
	}
	if v, ok := dsl.Attr(chord.Attrs, "stem"); !ok || v.Text() != "down" {
		t.Fatalf("stem attribute missing: %+v", chord.Attrs)
	}

	bass := sys.Staves[1].Voices[0]
	if bass.Mode != "soft" {
		t.Fatalf("expected soft voice, got %q", bass.Mode)
	}
	kinds := make([]string, 0, len(bass.Events))
	for _, e := range bass.Events {
		kinds = append(kinds, e.Kind())
	}
	if got := strings.Join(kinds, " "); got != "rest tuplet text ghost text" {
		t.Fatalf("unexpected event kinds: %s", got)
	}
	tup := bass.Events[1].Tuplet
	if tup.Notes != 3 || tup.Beats != 2 || len(tup.Events) != 3 {
		t.Fatalf("unexpected tuplet: %+v", tup)
	}
	rit := bass.Events[2].Text
	if string(rit.Content) != "rit." || rit.Duration != "4" {
		t.Fatalf("unexpected text event: %+v", rit)
	}
	if v, ok := dsl.Attr(rit.Attrs, "color"); !ok || v.Color == nil || *v.Color != "#c00" {
		t.Fatalf("color attribute missing: %+v", rit.Attrs)
	}
	if bass.Events[3].Ghost.Duration != "q" {
		t.Fatalf("ghost duration = %q", bass.Events[3].Ghost.Duration)
	}
	if d := bass.Events[4].Text.Duration; d != "" {
		t.Fatalf("annotation should have no duration, got %q", d)
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"missing duration": "score S { system { stave treble { voice { note c4 } } } }",
		"unknown event":    "score S { system { stave treble { voice { slur c4 4 } } } }",
		"unterminated":     "score S { system {",
		"wrong root":       "doc S v1 { }",
	}
	for name, src := range cases {
		if _, err := dsl.ParseString(src); err == nil {
			t.Fatalf("%s: expected parse error", name)
		}
	}
}

func TestParseReader(t *testing.T) {
	doc, err := dsl.Parse(strings.NewReader("score Empty {\n}\n"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Name != "Empty" || len(doc.Sections) != 0 {
		t.Fatalf("unexpected document: %+v", doc)
	}
}
