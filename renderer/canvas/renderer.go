package canvasrenderer

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/richtext/fonts"
	"github.com/ByLCY/richtext/layout"
	"github.com/ByLCY/richtext/renderer"
)

// Renderer measures and draws rich text via github.com/tdewolff/canvas.
// 所有长度均为毫米（mm），字号为 pt。可并发使用。
type Renderer struct {
	baseDir       string
	defaultFamily string
	margin        float64
	meta          Meta
	log           *slog.Logger

	// 用户注册的字体：族名（小写）→ 样式 → 资源
	fontRes map[string]map[canvas.FontStyle]Resource

	fontMu   sync.Mutex
	families map[string]*canvas.FontFamily
	faces    map[faceKey]*canvas.FontFace
}

var (
	_ renderer.Backend     = (*Renderer)(nil)
	_ layout.GlyphProvider = (*Renderer)(nil)
)

type faceKey struct {
	font  layout.FontKey
	color color.NRGBA
}

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	// Fonts 注册额外字体；同一族可分别提供不同样式。
	Fonts []Font
	// DefaultFamily 用于未指定或无法解析的字体族，默认 fonts.Sans。
	DefaultFamily string
	// Margin 是 Render 输出的页边距（mm），默认 10。
	Margin float64
	Meta   Meta
	Logger *slog.Logger
}

// Font 是一个字体文件及其所属的字体族与样式（"regular"、"bold"、"italic"、"bold italic"）。
type Font struct {
	Family string
	Style  string
	Resource
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// Meta 是写入 PDF 的文档信息。
type Meta struct {
	Title    string
	Subject  string
	Keywords []string
	Author   string
	Creator  string
}

// DefaultMargin 是 Render 的默认页边距（mm）。
const DefaultMargin = 10.0

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving font paths.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected fonts.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:       opts.BaseDir,
		defaultFamily: opts.DefaultFamily,
		margin:        opts.Margin,
		meta:          opts.Meta,
		log:           opts.Logger,
		fontRes:       map[string]map[canvas.FontStyle]Resource{},
		families:      map[string]*canvas.FontFamily{},
		faces:         map[faceKey]*canvas.FontFace{},
	}
	if r.defaultFamily == "" {
		r.defaultFamily = fonts.Sans
	}
	if r.margin <= 0 {
		r.margin = DefaultMargin
	}
	if r.log == nil {
		r.log = slog.Default()
	}
	for _, f := range opts.Fonts {
		if f.Family == "" {
			continue
		}
		key := strings.ToLower(f.Family)
		if r.fontRes[key] == nil {
			r.fontRes[key] = map[canvas.FontStyle]Resource{}
		}
		r.fontRes[key][parseFontStyle(f.Style)] = f.Resource
	}
	return r
}

// MeasureText 实现 layout.GlyphProvider，返回文本宽度（mm）。
func (r *Renderer) MeasureText(text string, style layout.StyleDescriptor) float64 {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	return r.faceLocked(style, color.NRGBA{A: 0xff}).TextWidth(text)
}

// FontMetrics 实现 layout.GlyphProvider，返回字体纵向度量（mm）。
func (r *Renderer) FontMetrics(style layout.StyleDescriptor) layout.FontMetrics {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	m := r.faceLocked(style, color.NRGBA{A: 0xff}).Metrics()
	return layout.FontMetrics{LineHeight: m.LineHeight, Ascent: m.Ascent, Descent: m.Descent}
}

func (r *Renderer) face(style layout.StyleDescriptor, col color.NRGBA) *canvas.FontFace {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	return r.faceLocked(style, col)
}

// faceLocked 按样式与颜色返回缓存的字体面；调用方需持有 fontMu。
func (r *Renderer) faceLocked(style layout.StyleDescriptor, col color.NRGBA) *canvas.FontFace {
	key := faceKey{font: style.FontKey(), color: col}
	if f, ok := r.faces[key]; ok {
		return f
	}
	family := r.familyLocked(style.Family)
	f := family.Face(style.EffectiveSize(), col, fontStyle(style.Flags), canvas.FontNormal)
	r.faces[key] = f
	return f
}

// monoAliases 映射到内置等宽字体族。
var monoAliases = map[string]bool{
	"monospace":   true,
	"mono":        true,
	"courier":     true,
	"courier new": true,
	"consolas":    true,
}

func (r *Renderer) familyLocked(name string) *canvas.FontFamily {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = strings.ToLower(r.defaultFamily)
	}
	if monoAliases[key] {
		if _, ok := r.fontRes[key]; !ok {
			key = strings.ToLower(fonts.Mono)
		}
	}
	if family, ok := r.families[key]; ok {
		return family
	}

	family, err := r.loadFamily(key)
	if err != nil {
		r.log.Debug("canvas: 字体族不可用，使用默认字体", "family", name, "err", err)
		family = r.fallbackLocked()
	}
	r.families[key] = family
	return family
}

// loadFamily 先查用户注册的字体，再查内置字体。
func (r *Renderer) loadFamily(key string) (*canvas.FontFamily, error) {
	if styles, ok := r.fontRes[key]; ok {
		family := canvas.NewFontFamily(key)
		for style, res := range styles {
			data, err := r.loadFontBytes(res)
			if err != nil {
				return nil, err
			}
			if err := family.LoadFont(data, 0, style); err != nil {
				return nil, fmt.Errorf("加载字体 %s 失败: %w", key, err)
			}
		}
		return family, nil
	}
	builtin, ok := fonts.Lookup(key)
	if !ok {
		return nil, fmt.Errorf("未知字体族 %q", key)
	}
	return loadBuiltin(builtin)
}

func loadBuiltin(f fonts.Family) (*canvas.FontFamily, error) {
	family := canvas.NewFontFamily(f.Name)
	for _, item := range []struct {
		file  string
		style canvas.FontStyle
	}{
		{f.Regular, canvas.FontRegular},
		{f.Bold, canvas.FontBold},
		{f.Italic, canvas.FontRegular | canvas.FontItalic},
		{f.BoldItalic, canvas.FontBold | canvas.FontItalic},
	} {
		data, err := fonts.Load(item.file)
		if err != nil {
			return nil, err
		}
		if err := family.LoadFont(data, 0, item.style); err != nil {
			return nil, fmt.Errorf("加载内置字体 %s 失败: %w", item.file, err)
		}
	}
	return family, nil
}

func (r *Renderer) fallbackLocked() *canvas.FontFamily {
	key := strings.ToLower(fonts.Sans)
	if family, ok := r.families[key]; ok {
		return family
	}
	sans, _ := fonts.Lookup(fonts.Sans)
	family, err := loadBuiltin(sans)
	if err != nil {
		// 内置字体随二进制分发，无法加载说明构建已损坏
		panic(err)
	}
	r.families[key] = family
	return family
}

func (r *Renderer) loadFontBytes(res Resource) ([]byte, error) {
	if len(res.Bytes) > 0 {
		return res.Bytes, nil
	}
	if res.Path == "" {
		return nil, fmt.Errorf("字体资源缺少数据")
	}
	if strings.HasPrefix(res.Path, "embed:") {
		return fonts.Load(res.Path)
	}
	path := res.Path
	if r.baseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 embed: 或 Bytes）", res.Path)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", res.Path, err)
	}
	return data, nil
}

func fontStyle(flags layout.FontFlags) canvas.FontStyle {
	style := canvas.FontRegular
	if flags.Has(layout.Bold) {
		style = canvas.FontBold
	}
	if flags.Has(layout.Italic) {
		style |= canvas.FontItalic
	}
	return style
}

// parseFontStyle 把 "bold italic" 之类的描述转换为 canvas.FontStyle。
func parseFontStyle(style string) canvas.FontStyle {
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}
