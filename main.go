package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/stave/binding"
	"github.com/ByLCY/stave/dsl"
	"github.com/ByLCY/stave/layout"
	"github.com/ByLCY/stave/renderer"
	canvasrenderer "github.com/ByLCY/stave/renderer/canvas"
	"github.com/ByLCY/stave/renderer/svg"
	"github.com/ByLCY/stave/score"
)

// config 汇总命令行参数。
type config struct {
	input     string
	output    string
	backend   string
	width     string
	precision int
	minify    bool
	debug     string
	data      string
}

func main() {
	var cfg config
	flag.StringVar(&cfg.input, "in", "examples/minuet.stave", "乐谱 DSL 文件路径")
	flag.StringVar(&cfg.output, "out", "output/minuet.svg", "输出路径（.svg 或 .pdf）")
	flag.StringVar(&cfg.backend, "backend", "svg", "渲染后端：svg 或 canvas")
	flag.StringVar(&cfg.width, "width", "", "乐谱宽度，如 180mm（覆盖 meta 中的 width）")
	flag.IntVar(&cfg.precision, "precision", svg.DefaultOptions().Precision, "svg 后端输出的小数位数（最多 8 位）")
	flag.BoolVar(&cfg.minify, "minify", false, "压缩 svg 输出")
	flag.StringVar(&cfg.debug, "debug", "", "排版调试 JSON 输出路径")
	flag.StringVar(&cfg.data, "data", "", "绑定到文本的 JSON 或 YAML 数据；@文件 表示从文件读取")
	verbose := flag.Bool("v", false, "输出调试日志")
	flag.Parse()

	if *verbose {
		layout.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if err := run(cfg); err != nil {
		log.Fatalf("生成乐谱 %s 失败: %v", cfg.input, err)
	}
	fmt.Printf("已生成：%s\n", cfg.output)
}

// run 串联解析、排版与渲染。
func run(cfg config) error {
	data, err := loadData(cfg.data)
	if err != nil {
		return err
	}

	file, err := os.Open(cfg.input)
	if err != nil {
		return fmt.Errorf("无法打开乐谱文件 %s: %w", cfg.input, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return fmt.Errorf("解析 DSL 失败: %w", err)
	}

	opts := score.BuildOptions{}
	if cfg.width != "" {
		l, err := score.ParseLength(cfg.width)
		if err != nil {
			return fmt.Errorf("-width 参数无效: %w", err)
		}
		opts.Width = l.Points()
	}
	s, err := score.Build(doc, data, opts)
	if err != nil {
		return fmt.Errorf("排版失败: %w", err)
	}

	if cfg.debug != "" {
		if err := writeDebug(s, cfg.debug); err != nil {
			return err
		}
	}

	ctx, err := newDocument(cfg, s)
	if err != nil {
		return err
	}
	if err := s.Draw(ctx); err != nil {
		return fmt.Errorf("绘制失败: %w", err)
	}
	out, err := ctx.Document()
	if err != nil {
		return fmt.Errorf("序列化文档失败: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.output), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(cfg.output, out, 0o644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	return nil
}

// newDocument 按后端与输出扩展名创建渲染上下文。
func newDocument(cfg config, s *score.Score) (renderer.Document, error) {
	ext := strings.ToLower(filepath.Ext(cfg.output))
	switch cfg.backend {
	case "svg":
		if ext == ".pdf" {
			return nil, fmt.Errorf("svg 后端无法输出 %s，请使用 -backend canvas", cfg.output)
		}
		return svg.New(s.Width(), s.Height(), svg.Options{Precision: cfg.precision, Minify: cfg.minify}), nil
	case "canvas":
		format := canvasrenderer.FormatPDF
		if ext == ".svg" {
			format = canvasrenderer.FormatSVG
		}
		return canvasrenderer.New(s.Width(), s.Height(), canvasrenderer.Options{
			Format: format,
			Title:  s.Title,
			Author: s.Composer,
		}), nil
	default:
		return nil, fmt.Errorf("未知的渲染后端 %q", cfg.backend)
	}
}

// loadData 解析 -data：为空时返回 nil。
func loadData(arg string) (any, error) {
	if arg == "" {
		return nil, nil
	}
	var src string
	if path, ok := strings.CutPrefix(arg, "@"); ok {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取 data 文件失败: %w", err)
		}
		src = string(b)
	} else {
		src = arg
	}
	return binding.Load(strings.NewReader(src))
}

func writeDebug(s *score.Score, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := score.WriteDebugJSON(s, path); err != nil {
		return fmt.Errorf("写入调试 JSON 失败: %w", err)
	}
	return nil
}
