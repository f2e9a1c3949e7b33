package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/ByLCY/richtext/css"
	"github.com/ByLCY/richtext/layout"
	canvasrenderer "github.com/ByLCY/richtext/renderer/canvas"
)

// config 是 TOML 选项文件的结构，长度单位为 mm，字号为 pt。
type config struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`

	FontFamily string  `toml:"font_family"`
	FontSize   float64 `toml:"font_size"`
	FontScale  float64 `toml:"font_scale"`
	Color      string  `toml:"color"`

	Align           string `toml:"align"`
	VAlign          string `toml:"valign"`
	RightToLeft     bool   `toml:"rtl"`
	WordWrap        *bool  `toml:"word_wrap"`
	ForceJustify    bool   `toml:"force_justify"`
	AlwaysUnderline bool   `toml:"underline"`

	Tabs        []float64 `toml:"tabs"`
	TabOffset   float64   `toml:"tab_offset"`
	TabPerIndex bool      `toml:"tab_per_index"`

	FirstLineIndent        float64 `toml:"first_line_indent"`
	LineSpacing            string  `toml:"line_spacing"`
	LineSpacingValue       float64 `toml:"line_spacing_value"`
	ParagraphSpacing       float64 `toml:"paragraph_spacing"`
	IncludeLastLineSpacing bool    `toml:"include_last_line_spacing"`

	// Paginate 在高度受限时用 BreakHTML 把剩余文本排到后续页面。
	Paginate bool    `toml:"paginate"`
	Margin   float64 `toml:"margin"`

	Title  string         `toml:"title"`
	Author string         `toml:"author"`
	Fonts  []fontConfig   `toml:"fonts"`
	Data   map[string]any `toml:"data"`
}

type fontConfig struct {
	Family string `toml:"family"`
	Style  string `toml:"style"`
	Path   string `toml:"path"`
}

func defaultConfig() config {
	return config{Width: 180, FontSize: 10, FontScale: 1, Margin: canvasrenderer.DefaultMargin}
}

// loadConfig 读取 TOML 选项文件；path 为空时返回默认值。未知字段视为错误。
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("读取选项文件 %s 失败: %w", path, err)
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("解析选项文件 %s 失败: %w", path, err)
	}
	return cfg, nil
}

// layoutOptions 把配置转换为排版选项。
func (c config) layoutOptions(glyphs layout.GlyphProvider, images layout.ImageSource) (layout.Options, error) {
	opts := layout.DefaultOptions()
	opts.Width, opts.Height = c.Width, c.Height
	opts.Glyphs, opts.Images = glyphs, images
	opts.PixelScale = layout.PxToMm
	opts.Tabs = layout.TabStops{Offset: c.TabOffset, Sizes: c.Tabs, PerIndex: c.TabPerIndex}
	opts.Style.Family = c.FontFamily
	if c.FontSize > 0 {
		opts.Style.Size = c.FontSize
	}
	if c.FontScale > 0 {
		opts.FontScale = c.FontScale
	}
	if c.Color != "" {
		col, err := css.ParseColor(c.Color)
		if err != nil {
			return opts, fmt.Errorf("color: %w", err)
		}
		opts.Style.Color = col
	}

	var err error
	if opts.HorzAlign, err = parseHorzAlign(c.Align); err != nil {
		return opts, err
	}
	if opts.VertAlign, err = parseVertAlign(c.VAlign); err != nil {
		return opts, err
	}
	if opts.Paragraph.LineSpacingType, err = parseLineSpacing(c.LineSpacing); err != nil {
		return opts, err
	}
	if opts.Paragraph.LineSpacingType == layout.SpacingMultiple {
		opts.Paragraph.LineSpacingMultiple = c.LineSpacingValue
	} else {
		opts.Paragraph.LineSpacing = c.LineSpacingValue
	}
	opts.Paragraph.FirstLineIndent = c.FirstLineIndent
	opts.Paragraph.ParagraphSpacing = c.ParagraphSpacing
	opts.IncludeLastLineSpacing = c.IncludeLastLineSpacing
	opts.RightToLeft = c.RightToLeft
	opts.ForceJustify = c.ForceJustify
	opts.AlwaysUnderline = c.AlwaysUnderline
	if c.WordWrap != nil {
		opts.WordWrap = *c.WordWrap
	}
	return opts, nil
}

func (c config) rendererOptions(baseDir string) canvasrenderer.Options {
	opts := canvasrenderer.Options{
		BaseDir: baseDir,
		Margin:  c.Margin,
		Meta:    canvasrenderer.Meta{Title: c.Title, Author: c.Author, Creator: "richtext"},
	}
	for _, f := range c.Fonts {
		opts.Fonts = append(opts.Fonts, canvasrenderer.Font{
			Family:   f.Family,
			Style:    f.Style,
			Resource: canvasrenderer.Resource{Path: f.Path},
		})
	}
	return opts
}

func parseHorzAlign(s string) (layout.HorzAlign, error) {
	switch strings.ToLower(s) {
	case "", "left":
		return layout.AlignLeft, nil
	case "right":
		return layout.AlignRight, nil
	case "center":
		return layout.AlignCenter, nil
	case "justify":
		return layout.AlignJustify, nil
	}
	return layout.AlignLeft, fmt.Errorf("未知的水平对齐方式 %q", s)
}

func parseVertAlign(s string) (layout.VertAlign, error) {
	switch strings.ToLower(s) {
	case "", "top":
		return layout.AlignTop, nil
	case "middle", "center":
		return layout.AlignMiddle, nil
	case "bottom":
		return layout.AlignBottom, nil
	}
	return layout.AlignTop, fmt.Errorf("未知的垂直对齐方式 %q", s)
}

func parseLineSpacing(s string) (layout.LineSpacingType, error) {
	switch strings.ToLower(strings.ReplaceAll(s, "-", "_")) {
	case "", "single":
		return layout.SpacingSingle, nil
	case "at_least":
		return layout.SpacingAtLeast, nil
	case "exactly":
		return layout.SpacingExactly, nil
	case "multiple":
		return layout.SpacingMultiple, nil
	}
	return layout.SpacingSingle, fmt.Errorf("未知的行距方式 %q", s)
}
