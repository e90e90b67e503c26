package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{8})\b`},
		// durations (8d, 1/2), time signatures (3/4) and lengths (180mm)
		{Name: "Number", Pattern: `\d+(?:\.\d+)?(?:/\d+)?[A-Za-z%]*`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		// pitches carry accidentals: c#4, bb3
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_#-]*`},
		{Name: "Symbol", Pattern: `[][(),.=+\-*/%<>!?;:]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	documentParser = participle.MustBuild[Document](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment"),
	)
)

// Document is the root AST node for a score file.
type Document struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     string         `parser:"Newline* 'score' @Ident"`
	Sections []*Section     `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Meta returns the assignments of every meta section, later ones last.
func (d *Document) Meta() []*Assignment {
	var out []*Assignment
	for _, s := range d.Sections {
		if s.Meta != nil {
			out = append(out, s.Meta.Entries...)
		}
	}
	return out
}

// Systems returns the system sections in source order.
func (d *Document) Systems() []*SystemSection {
	var out []*SystemSection
	for _, s := range d.Sections {
		if s.System != nil {
			out = append(out, s.System)
		}
	}
	return out
}

// Section is a top-level meta or system block.
type Section struct {
	Meta   *MetaSection   `parser:"  @@"`
	System *SystemSection `parser:"| @@"`
}

// Kind returns the human-readable section type.
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Meta != nil:
		return "meta"
	case s.System != nil:
		return "system"
	default:
		return "unknown"
	}
}

// MetaSection captures metadata assignments.
type MetaSection struct {
	Entries []*Assignment `parser:"'meta' '{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Assignment uses colon syntax (key: value).
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident"`
	Value *Value         `parser:"':' @@"`
}

// SystemSection is a group of staves sharing one horizontal layout.
type SystemSection struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Params []*Param       `parser:"'system' @@*"`
	Staves []*StaveBlock  `parser:"'{' Newline* ( @@ Newline* )* '}'"`
}

// Param looks up a header parameter by name.
func (s *SystemSection) Param(name string) (*Value, bool) {
	for _, p := range s.Params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// Param is a `name value` pair in a block header (eg: width 180mm).
type Param struct {
	Name  string `parser:"@Ident"`
	Value *Value `parser:"@@"`
}

// StaveBlock declares one stave with its clef, optional time signature and voices.
type StaveBlock struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Clef   string         `parser:"'stave' @Ident"`
	Time   string         `parser:"@(Number | Ident)?"`
	Voices []*VoiceBlock  `parser:"'{' Newline* ( @@ Newline* )* '}'"`
}

// VoiceBlock is a sequence of events with an optional tick-checking mode.
type VoiceBlock struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Mode   string         `parser:"'voice' @Ident?"`
	Events []*Event       `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Event is a single statement inside a voice or tuplet.
type Event struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Note   *NoteEvent     `parser:"  @@"`
	Chord  *ChordEvent    `parser:"| @@"`
	Rest   *RestEvent     `parser:"| @@"`
	Ghost  *GhostEvent    `parser:"| @@"`
	Text   *TextEvent     `parser:"| @@"`
	Tuplet *TupletEvent   `parser:"| @@"`
}

// Kind returns the human-readable event type.
func (e *Event) Kind() string {
	switch {
	case e == nil:
		return "unknown"
	case e.Note != nil:
		return "note"
	case e.Chord != nil:
		return "chord"
	case e.Rest != nil:
		return "rest"
	case e.Ghost != nil:
		return "ghost"
	case e.Text != nil:
		return "text"
	case e.Tuplet != nil:
		return "tuplet"
	default:
		return "unknown"
	}
}

// NoteEvent is `note <pitch> <duration> [attributes]`.
type NoteEvent struct {
	Pitch    string       `parser:"'note' @Ident"`
	Duration string       `parser:"@(Number | Ident)"`
	Attrs    []*Attribute `parser:"@@*"`
}

// ChordEvent is `chord (<pitch>...) <duration> [attributes]`.
type ChordEvent struct {
	Pitches  []string     `parser:"'chord' '(' @Ident+ ')'"`
	Duration string       `parser:"@(Number | Ident)"`
	Attrs    []*Attribute `parser:"@@*"`
}

// RestEvent is `rest <duration> [attributes]`.
type RestEvent struct {
	Duration string       `parser:"'rest' @(Number | Ident)"`
	Attrs    []*Attribute `parser:"@@*"`
}

// GhostEvent is `ghost <duration>`, an invisible placeholder that takes time.
type GhostEvent struct {
	Duration string `parser:"'ghost' @(Number | Ident)"`
}

// TextEvent is `text "<content>" [duration] [attributes]`. Without a duration
// the text takes no time.
type TextEvent struct {
	Content  StringLiteral `parser:"'text' @String"`
	Duration string        `parser:"@Number?"`
	Attrs    []*Attribute  `parser:"@@*"`
}

// TupletEvent is `tuplet <notes> <in-space-of> { events }`.
type TupletEvent struct {
	Notes  int      `parser:"'tuplet' @Number"`
	Beats  int      `parser:"@Number"`
	Events []*Event `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Attribute is an inline `name value` after an event (eg: finger 3, stem up).
type Attribute struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"@Ident"`
	Value *Value         `parser:"@@"`
}

// Attr returns the first attribute with the given name.
func Attr(attrs []*Attribute, name string) (*Value, bool) {
	for _, a := range attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return nil, false
}

// Value represents a scalar property value.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Color  *string        `parser:"| @Color"`
	Ident  *string        `parser:"| @Ident"`
}

// Text returns the value as written, with strings unquoted.
func (v *Value) Text() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Color != nil:
		return *v.Color
	case v.Ident != nil:
		return *v.Ident
	default:
		return ""
	}
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses DSL content from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString parses DSL content from a string.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}
