package score

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ByLCY/stave/dsl"
	"github.com/ByLCY/stave/layout"
	"github.com/ByLCY/stave/renderer/svg"
)

const minuet = `
score Minuet {
  meta {
    title: "Minuet in G"
    composer: "${composer|Anonymous}"
  }
  system {
    stave treble 3/4 {
      voice {
        note d5 4 finger 5
        note g4 8; note a4 8
        chord (g5 b4 d5) 4 stem down
      }
    }
    stave bass {
      voice full {
        rest 4
        tuplet 3 2 { note g3 8; note a3 8; note b3 8 }
        note c3 4
      }
    }
  }
}
`

func build(t *testing.T, src string, data any, opts BuildOptions) (*Score, error) {
	t.Helper()
	doc, err := dsl.ParseString(src)
	if err != nil {
		t.Fatalf("解析 DSL 失败: %v", err)
	}
	return Build(doc, data, opts)
}

func mustBuild(t *testing.T, src string, data any) *Score {
	t.Helper()
	s, err := build(t, src, data, BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return s
}

func TestParsePitch(t *testing.T) {
	treble, _ := ParseClef("treble")
	bass, _ := ParseClef("bass")
	alto, _ := ParseClef("alto")
	tenor, _ := ParseClef("Tenor")
	cases := []struct {
		pitch string
		clef  Clef
		line  float64
		acc   string
	}{
		{"e4", treble, 1, ""},
		{"f4", treble, 1.5, ""},
		{"b4", treble, 3, ""},
		{"F5", treble, 5, ""},
		{"c#4", treble, 0, "#"},
		{"g2", bass, 1, ""},
		{"bb3", bass, 5.5, "b"},
		{"c4", alto, 3, ""},
		{"d3", tenor, 1, ""},
		{"bn2", bass, 2, "n"},
	}
	for _, c := range cases {
		p, err := ParsePitch(c.pitch)
		if err != nil {
			t.Fatalf("ParsePitch(%q): %v", c.pitch, err)
		}
		if got := c.clef.Line(p); got != c.line || p.Accidental != c.acc {
			t.Fatalf("%s in %s: line %g acc %q, want %g %q", c.pitch, c.clef.Name, got, p.Accidental, c.line, c.acc)
		}
	}
	for _, bad := range []string{"", "h4", "c", "c#", "c10", "x#4"} {
		if _, err := ParsePitch(bad); !errors.Is(err, ErrInvalidPitch) {
			t.Fatalf("ParsePitch(%q) = %v, want ErrInvalidPitch", bad, err)
		}
	}
	if _, err := ParseClef("percussion"); !errors.Is(err, ErrUnknownClef) {
		t.Fatalf("expected ErrUnknownClef, got %v", err)
	}
}

func TestBuildAlignsStavesOfASystem(t *testing.T) {
	s := mustBuild(t, minuet, map[string]any{"composer": "C. Petzold"})
	if s.Title != "Minuet in G" || s.Composer != "C. Petzold" {
		t.Fatalf("meta 未生效: %q %q", s.Title, s.Composer)
	}
	if len(s.Systems) != 1 || len(s.Systems[0].Staves) != 2 {
		t.Fatalf("结构不符合预期: %+v", s.Systems)
	}
	treble, bass := s.Systems[0].Staves[0], s.Systems[0].Staves[1]
	if treble.Stave.NoteStartX() != bass.Stave.NoteStartX() {
		t.Fatalf("各谱表音符起点不一致: %g 与 %g", treble.Stave.NoteStartX(), bass.Stave.NoteStartX())
	}
	if bass.Stave.Y <= treble.Stave.Y {
		t.Fatalf("低音谱表应位于高音谱表下方")
	}

	top := treble.Voices[0].Tickables()
	bottom := bass.Voices[0].Tickables()
	if top[0].AbsoluteX() != bottom[0].AbsoluteX() {
		t.Fatalf("强拍未对齐: %g vs %g", top[0].AbsoluteX(), bottom[0].AbsoluteX())
	}
	// the chord on beat 3 lines up with the last bass note
	if top[3].AbsoluteX() != bottom[4].AbsoluteX() {
		t.Fatalf("第 3 拍未对齐: %g vs %g", top[3].AbsoluteX(), bottom[4].AbsoluteX())
	}
	if got := bottom[1].Ticks().String(); got != "4096/3" {
		t.Fatalf("tuplet eighth ticks = %s", got)
	}
	if bottom[0].Kind() != layout.KindRest {
		t.Fatalf("低音声部第一个事件应为休止符，实际为 %s", bottom[0].Kind())
	}
	if n := len(s.Systems[0].Result.Contexts); n != 6 {
		t.Fatalf("expected 6 tick contexts, got %d", n)
	}

	chord, ok := top[3].(*layout.Note)
	if !ok || chord.StemDirection() != layout.StemDown {
		t.Fatalf("和弦符干应强制向下")
	}
	if got := chord.Lines(); got[0] != 3 || got[2] != 5.5 {
		t.Fatalf("和弦符头应从低到高排列，实际为 %v", got)
	}
	first := top[0].(*layout.Note)
	if len(first.Modifiers(0)) != 1 {
		t.Fatalf("指法未挂载")
	}
}

func TestBuildDraw(t *testing.T) {
	s := mustBuild(t, minuet, nil)
	if s.Composer != "Anonymous" {
		t.Fatalf("fallback composer = %q", s.Composer)
	}
	if s.Width() != defaultWidth || s.Height() <= 0 {
		t.Fatalf("size %gx%g", s.Width(), s.Height())
	}
	ctx := svg.New(s.Width(), s.Height(), svg.DefaultOptions())
	if err := s.Draw(ctx); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	doc, err := ctx.Document()
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	out := string(doc)
	for class, want := range map[string]int{"score": 1, "system": 1, "stave": 2, "stavenote": 8, "rest": 1} {
		if n := strings.Count(out, `class="`+class+`"`); n != want {
			t.Fatalf("%d %q groups, want %d", n, class, want)
		}
	}
	if !strings.Contains(out, `id="Minuet"`) {
		t.Fatalf("score 分组应携带乐谱名称")
	}
}

func TestBuildOptionsAndParams(t *testing.T) {
	src := `score S {
  meta { width: 300pt }
  system width 200pt spacing 4 {
    stave treble C { voice soft { note d5 4r; ghost 4; text "p"; note a4 2 color #c00 id last } }
  }
}`
	s, err := build(t, src, nil, BuildOptions{Width: 400})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if s.Width() != 400 {
		t.Fatalf("选项宽度应覆盖 meta，实际为 %g", s.Width())
	}
	st := s.Systems[0].Staves[0].Stave
	if st.Width != 200 {
		t.Fatalf("system width 参数未生效: %g", st.Width)
	}
	ts := s.Systems[0].Staves[0].Voices[0].Tickables()
	kinds := []layout.Kind{layout.KindRest, layout.KindGhost, layout.KindText, layout.KindNote}
	for i, k := range kinds {
		if ts[i].Kind() != k {
			t.Fatalf("tickable %d is %s, want %s", i, ts[i].Kind(), k)
		}
	}
	if r := ts[0].(*layout.Rest); r.Line() != 4 {
		t.Fatalf("rest written as d5 should sit on line 4, got %g", r.Line())
	}
	if n := ts[3].(*layout.Note); n.Color != "#c00" || n.ID() != "last" {
		t.Fatalf("音符属性未生效: %q %q", n.Color, n.ID())
	}
}

func TestBuildFormatOptions(t *testing.T) {
	o, err := BuildOptions{}.withDefaults()
	if err != nil {
		t.Fatal(err)
	}
	if *o.Format != layout.DefaultOptions() {
		t.Fatalf("nil Format should take defaults, got %+v", *o.Format)
	}
	zero := &layout.Options{}
	if o, _ = (BuildOptions{Format: zero}).withDefaults(); o.Format != zero {
		t.Fatalf("显式的零值 Format 被替换为 %+v", *o.Format)
	}

	loose := mustBuild(t, minuet, nil)
	tight, err := build(t, minuet, nil, BuildOptions{Format: zero})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if tight.Systems[0].Result.MinWidth >= loose.Systems[0].Result.MinWidth {
		t.Fatalf("padding 与 spacing 为零时最小宽度应更小: %g vs %g",
			tight.Systems[0].Result.MinWidth, loose.Systems[0].Result.MinWidth)
	}
}

func TestBuildErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want error
	}{
		{"no systems", `score S { meta { title: "x" } }`, ErrNoSystems},
		{"clef", `score S { system { stave soprano { voice { note c4 1 } } } }`, ErrUnknownClef},
		{"pitch", `score S { system { stave treble { voice { note h4 1 } } } }`, ErrInvalidPitch},
		{"attribute", `score S { system { stave treble { voice { note c4 1 slur 2 } } } }`, ErrUnknownAttribute},
		{"incomplete", `score S { system { stave treble { voice { note c4 2 } } } }`, layout.ErrVoiceTicksMismatch},
		{"narrow", `score S { system width 40pt { stave treble 4/4 { voice { note c4 4; note d4 4; note e4 4; note f4 4 } } } }`, layout.ErrUnableToFormat},
	}
	for _, c := range cases {
		_, err := build(t, c.src, nil, BuildOptions{})
		if !errors.Is(err, c.want) {
			t.Fatalf("%s: expected %v, got %v", c.name, c.want, err)
		}
	}
	if _, err := Build(nil, nil, BuildOptions{}); err == nil {
		t.Fatalf("nil 文档应当报错")
	}
}

func TestWriteDebugJSON(t *testing.T) {
	s := mustBuild(t, minuet, nil)
	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteDebugJSON(s, path); err != nil {
		t.Fatalf("WriteDebugJSON: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var d Debug
	if err := json.Unmarshal(data, &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(d.Systems) != 1 || len(d.Systems[0].Staves) != 2 {
		t.Fatalf("调试输出不符合预期: %s", data)
	}
	treble := d.Systems[0].Staves[0]
	if treble.Clef != "treble" || treble.Time != "3/4" || treble.Voices[0].Ticks != "12288/1" {
		t.Fatalf("unexpected stave debug: %+v", treble)
	}
	bass := d.Systems[0].Staves[1].Voices[0]
	if bass.Mode != "full" {
		t.Fatalf("bass voice mode = %q", bass.Mode)
	}
	if bass.Tickables[0].Tuplet != "" || bass.Tickables[1].Tuplet != "2/3" {
		t.Fatalf("连音倍率不符合预期: %+v", bass.Tickables[:2])
	}
}
