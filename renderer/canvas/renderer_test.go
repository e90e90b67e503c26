package canvasrenderer

import (
	"bytes"
	"errors"
	"image/color"
	"testing"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/stave/renderer"
)

func drawSample(c *Context) {
	c.OpenGroup("stave", "")
	c.SetLineWidth(1)
	renderer.StrokeLine(c, 10, 20, 190, 20)
	c.OpenGroup("stavenote", "n1")
	c.BeginPath()
	c.MoveTo(30, 25)
	c.QuadraticCurveTo(35, 15, 40, 25)
	c.BezierCurveTo(38, 30, 32, 30, 30, 25)
	c.ClosePath()
	c.Fill()
	_ = c.CloseGroup()
	_ = c.CloseGroup()
}

func TestDocumentPDF(t *testing.T) {
	c := New(200, 60, Options{Title: "test"})
	drawSample(c)
	doc, err := c.Document()
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if !bytes.HasPrefix(doc, []byte("%PDF")) {
		t.Fatalf("缺少 PDF 文件头，实际为 %q", doc[:min(len(doc), 16)])
	}
}

func TestDocumentSVG(t *testing.T) {
	c := New(200, 60, Options{Format: FormatSVG})
	drawSample(c)
	doc, err := c.Document()
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if !bytes.Contains(doc, []byte("<svg")) || !bytes.Contains(doc, []byte("<path")) {
		t.Fatalf("svg 输出不符合预期:\n%s", doc)
	}
}

func TestUnknownFormat(t *testing.T) {
	if _, err := New(10, 10, Options{Format: "png"}).Document(); err == nil {
		t.Fatalf("未知格式应当报错")
	}
}

func TestGroupBalance(t *testing.T) {
	c := New(10, 10, Options{})
	if err := c.CloseGroup(); !errors.Is(err, renderer.ErrUnbalancedGroup) {
		t.Fatalf("expected ErrUnbalancedGroup, got %v", err)
	}
	c.OpenGroup("a", "")
	if _, err := c.Document(); !errors.Is(err, renderer.ErrUnbalancedGroup) {
		t.Fatalf("expected ErrUnbalancedGroup for open group, got %v", err)
	}
}

func TestParseColor(t *testing.T) {
	cases := map[string]color.Color{
		"none":    canvas.Transparent,
		"#ff0000": canvas.Hex("#ff0000"),
		"Red":     color.RGBA{0xff, 0, 0, 0xff},
		"black":   color.RGBA{0, 0, 0, 0xff},
		"???":     canvas.Black,
	}
	for in, want := range cases {
		r1, g1, b1, a1 := parseColor(in).RGBA()
		r2, g2, b2, a2 := want.RGBA()
		if r1 != r2 || g1 != g2 || b1 != b2 || a1 != a2 {
			t.Fatalf("parseColor(%q) = %v, want %v", in, parseColor(in), want)
		}
	}
}

func TestPointsToMillimetres(t *testing.T) {
	if got := toMm(72); got < 25.39 || got > 25.41 {
		t.Fatalf("72pt = %gmm，应约为 25.4", got)
	}
}
