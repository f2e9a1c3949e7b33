package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/richtext/images"
	"github.com/ByLCY/richtext/layout"
	"github.com/ByLCY/richtext/layout/layouttest"
	canvasrenderer "github.com/ByLCY/richtext/renderer/canvas"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("写入 %s 失败: %v", name, err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "opts.toml", `
width = 100
height = 50
align = "justify"
valign = "middle"
line_spacing = "multiple"
line_spacing_value = 1.5
tabs = [10, 20]
paginate = true
title = "demo"

[data]
name = "world"

[[fonts]]
family = "Serif"
style = "bold"
path = "fonts/serif-bold.ttf"
`)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("读取选项失败: %v", err)
	}
	if cfg.Width != 100 || cfg.Height != 50 || !cfg.Paginate {
		t.Fatalf("尺寸或分页未读取: %+v", cfg)
	}
	if cfg.FontSize != 10 || cfg.Margin != canvasrenderer.DefaultMargin {
		t.Fatalf("未指定的字段应保留默认值: %+v", cfg)
	}
	if cfg.Data["name"] != "world" {
		t.Fatalf("data 未读取: %v", cfg.Data)
	}
	want := []fontConfig{{Family: "Serif", Style: "bold", Path: "fonts/serif-bold.ttf"}}
	if diff := cmp.Diff(want, cfg.Fonts); diff != "" {
		t.Fatalf("fonts 不一致 (-want +got):\n%s", diff)
	}

	opts, err := cfg.layoutOptions(layouttest.Monospace{}, nil)
	if err != nil {
		t.Fatalf("转换选项失败: %v", err)
	}
	if opts.HorzAlign != layout.AlignJustify || opts.VertAlign != layout.AlignMiddle {
		t.Fatalf("对齐方式错误: %v %v", opts.HorzAlign, opts.VertAlign)
	}
	if opts.Paragraph.LineSpacingType != layout.SpacingMultiple || opts.Paragraph.LineSpacingMultiple != 1.5 {
		t.Fatalf("行距错误: %+v", opts.Paragraph)
	}
	if diff := cmp.Diff([]float64{10, 20}, opts.Tabs.Sizes); diff != "" {
		t.Fatalf("tabs 不一致 (-want +got):\n%s", diff)
	}
	if !opts.WordWrap {
		t.Fatalf("未指定 word_wrap 时应默认换行")
	}

	ropts := cfg.rendererOptions("base")
	if ropts.Meta.Title != "demo" || len(ropts.Fonts) != 1 || ropts.Fonts[0].Path != "fonts/serif-bold.ttf" {
		t.Fatalf("渲染选项错误: %+v", ropts)
	}
}

func TestLoadConfigRejectsUnknownField(t *testing.T) {
	path := writeFile(t, t.TempDir(), "opts.toml", "colour = \"red\"\n")
	if _, err := loadConfig(path); err == nil {
		t.Fatalf("未知字段应报错")
	}
}

func TestLayoutOptionsRejectsBadValues(t *testing.T) {
	bad := []config{
		{Align: "middle"},
		{VAlign: "left"},
		{LineSpacing: "double"},
		{Color: "not-a-colour"},
	}
	for _, cfg := range bad {
		if _, err := cfg.layoutOptions(layouttest.Monospace{}, nil); err == nil {
			t.Fatalf("期望 %+v 报错", cfg)
		}
	}
}

func TestPaginate(t *testing.T) {
	opts := layouttest.Options(5)
	opts.Height = 2.5

	pages, err := paginate("aaaa bbbb cccc dddd", opts, true)
	if err != nil {
		t.Fatalf("分页失败: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("期望 2 页，实际 %d", len(pages))
	}
	var got []string
	for _, l := range pages[1].Lines() {
		got = append(got, l.Text())
	}
	if diff := cmp.Diff([]string{"cccc ", "dddd"}, got); diff != "" {
		t.Fatalf("第二页内容不一致 (-want +got):\n%s", diff)
	}

	single, err := paginate("aaaa bbbb cccc dddd", opts, false)
	if err != nil || len(single) != 1 {
		t.Fatalf("关闭分页时应只有一页: %d %v", len(single), err)
	}
}

func TestPaginateStopsWhenNothingFits(t *testing.T) {
	opts := layouttest.Options(5)
	opts.Height = 1

	pages, err := paginate("aaaa bbbb", opts, true)
	if err != nil {
		t.Fatalf("分页失败: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("一行都放不下时应停止分页，实际 %d 页", len(pages))
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "demo.txt", "Hello <b>${name}</b>&amp;<i>friends</i>")
	out := filepath.Join(dir, "out", "demo.pdf")
	debug := filepath.Join(dir, "out", "debug.json")

	cfg := defaultConfig()
	r := canvasrenderer.NewRenderer(dir)
	pages, err := run(input, out, debug, cfg, map[string]any{"name": "world"}, r, images.NewCache(), nil)
	if err != nil {
		t.Fatalf("run 失败: %v", err)
	}
	if pages != 1 {
		t.Fatalf("期望 1 页，实际 %d", pages)
	}
	pdf, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("读取 PDF 失败: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("输出不是 PDF")
	}
	dbg, err := os.ReadFile(debug)
	if err != nil {
		t.Fatalf("读取调试 JSON 失败: %v", err)
	}
	if !bytes.Contains(dbg, []byte("world")) {
		t.Fatalf("调试 JSON 应包含绑定后的文本")
	}
}

func TestRunMissingInput(t *testing.T) {
	dir := t.TempDir()
	r := canvasrenderer.NewRenderer(dir)
	if _, err := run(filepath.Join(dir, "missing.txt"), filepath.Join(dir, "o.pdf"), "", defaultConfig(), nil, r, images.NewCache(), nil); err == nil {
		t.Fatalf("缺少输入文件时应报错")
	}
}
