package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunWritesSVG(t *testing.T) {
	dir := t.TempDir()
	cfg := config{
		input:     "examples/minuet.stave",
		output:    filepath.Join(dir, "out", "minuet.svg"),
		backend:   "svg",
		precision: 2,
		debug:     filepath.Join(dir, "debug", "layout.json"),
		data:      `{"composer": "Anon."}`,
	}
	if err := run(cfg); err != nil {
		t.Fatalf("run 失败: %v", err)
	}
	out, err := os.ReadFile(cfg.output)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(out, []byte("<svg")) || strings.Count(string(out), `class="system"`) != 2 {
		t.Fatalf("svg 输出不符合预期:\n%s", out)
	}
	if _, err := os.Stat(cfg.debug); err != nil {
		t.Fatalf("缺少调试 JSON: %v", err)
	}
}

func TestRunWritesPDF(t *testing.T) {
	cfg := config{
		input:   "examples/minuet.stave",
		output:  filepath.Join(t.TempDir(), "minuet.pdf"),
		backend: "canvas",
		width:   "210mm",
	}
	if err := run(cfg); err != nil {
		t.Fatalf("run 失败: %v", err)
	}
	out, err := os.ReadFile(cfg.output)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("输出不是 PDF")
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	cases := []config{
		{input: "examples/minuet.stave", output: filepath.Join(dir, "a.pdf"), backend: "svg"},
		{input: "examples/minuet.stave", output: filepath.Join(dir, "a.svg"), backend: "png"},
		{input: "examples/minuet.stave", output: filepath.Join(dir, "a.svg"), backend: "svg", width: "wide"},
		{input: filepath.Join(dir, "missing.stave"), output: filepath.Join(dir, "a.svg"), backend: "svg"},
		{input: "examples/minuet.stave", output: filepath.Join(dir, "a.svg"), backend: "svg", data: "@" + filepath.Join(dir, "none.json")},
	}
	for i, cfg := range cases {
		if err := run(cfg); err == nil {
			t.Fatalf("用例 %d 应当返回错误", i)
		}
	}
}
