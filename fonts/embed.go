// Package fonts bundles the notation and text fonts used by default.
package fonts

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/image/font/gofont/goregular"
	"gopkg.in/yaml.v3"

	"github.com/ByLCY/stave/glyph"
)

const (
	// NotationFile is the embedded notation font.
	NotationFile = "stave-notation.yaml"
	// TextName names the text font built from Go Regular.
	TextName = "goregular"
)

// TextChars is the character set converted from the text font.
const TextChars = " !\"#$%&'()*+,-./0123456789:;<=>?@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_`abcdefghijklmnopqrstuvwxyz{|}~"

//go:embed *.yaml
var fontFS embed.FS

// Load 返回内置字体的字节数据，name 可写为 "embed:stave-notation.yaml" 或直接 "stave-notation.yaml"。
func Load(name string) ([]byte, error) {
	name = strings.TrimPrefix(name, "embed:")
	data, err := fontFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("读取内置字体 %s 失败: %w", name, err)
	}
	return data, nil
}

type fontSource struct {
	Name       string                 `yaml:"name"`
	UnitsPerEm float64                `yaml:"units_per_em"`
	Glyphs     map[string]glyphSource `yaml:"glyphs"`
}

type glyphSource struct {
	Advance float64 `yaml:"advance"`
	Outline string  `yaml:"outline"`
	ShiftX  float64 `yaml:"shift_x"`
	ShiftY  float64 `yaml:"shift_y"`
}

// Parse decodes a YAML outline font.
func Parse(data []byte) (*glyph.Font, error) {
	var src fontSource
	if err := yaml.Unmarshal(data, &src); err != nil {
		return nil, fmt.Errorf("decode font: %w", err)
	}
	if src.UnitsPerEm <= 0 {
		return nil, fmt.Errorf("font %s: units_per_em must be positive", src.Name)
	}
	f := glyph.NewFont(src.Name, src.UnitsPerEm)
	for code, g := range src.Glyphs {
		o, err := glyph.ParseOutline(g.Outline)
		if err != nil {
			return nil, fmt.Errorf("font %s glyph %s: %w", src.Name, code, err)
		}
		f.Add(glyph.Metrics{
			Code:    code,
			Outline: o,
			Advance: g.Advance,
			ShiftX:  g.ShiftX,
			ShiftY:  g.ShiftY,
		})
	}
	return f, nil
}

var (
	notation = sync.OnceValues(func() (*glyph.Font, error) {
		data, err := Load(NotationFile)
		if err != nil {
			return nil, err
		}
		return Parse(data)
	})
	text = sync.OnceValues(func() (*glyph.Font, error) {
		return glyph.NewOpenTypeFont(TextName, goregular.TTF, TextChars)
	})
)

// Notation returns the shared embedded notation font.
func Notation() (*glyph.Font, error) { return notation() }

// Text returns the shared text font.
func Text() (*glyph.Font, error) { return text() }

// Default returns the notation font followed by the text font. The fonts are
// built once and shared; they must not be modified.
func Default() (glyph.Stack, error) {
	n, err := Notation()
	if err != nil {
		return nil, err
	}
	t, err := Text()
	if err != nil {
		return nil, err
	}
	return glyph.Stack{t}.With(n), nil
}
