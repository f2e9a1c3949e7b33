package layout

import (
	"image"
	"image/color"
	"log/slog"
)

// HorzAlign 是水平对齐方式。
type HorzAlign int

const (
	AlignLeft HorzAlign = iota
	AlignRight
	AlignCenter
	AlignJustify
)

func (a HorzAlign) String() string {
	switch a {
	case AlignRight:
		return "right"
	case AlignCenter:
		return "center"
	case AlignJustify:
		return "justify"
	default:
		return "left"
	}
}

// VertAlign 是垂直对齐方式。
type VertAlign int

const (
	AlignTop VertAlign = iota
	AlignMiddle
	AlignBottom
)

// LineSpacingType 选择行距的计算方式。
type LineSpacingType int

const (
	SpacingSingle LineSpacingType = iota
	SpacingAtLeast
	SpacingExactly
	SpacingMultiple
)

// ParagraphFormat 控制段落级格式。长度均为显示单位。
type ParagraphFormat struct {
	// FirstLineIndent 为正时首行缩进；为负时为悬挂缩进，首行从 0 开始，其余行从 -FirstLineIndent 开始。
	FirstLineIndent float64
	// SkipFirstLineIndent 使整段文本的第一个段落不缩进（用于分页后的续排部分）。
	SkipFirstLineIndent bool
	LineSpacingType     LineSpacingType
	// LineSpacing 是 AtLeast / Exactly 模式下的目标行高。
	LineSpacing float64
	// LineSpacingMultiple 是 Multiple 模式下的倍数。
	LineSpacingMultiple float64
	// ParagraphSpacing 加在除最后一段外每段最后一行的行距上。
	ParagraphSpacing float64
}

// FontMetrics are the vertical metrics of a face, in display units.
type FontMetrics struct {
	LineHeight float64
	Ascent     float64
	Descent    float64
}

// GlyphProvider 负责测量文本。实现应对同一输入返回确定的结果。
type GlyphProvider interface {
	MeasureText(text string, style StyleDescriptor) float64
	FontMetrics(style StyleDescriptor) FontMetrics
}

// ImageSource 按 src 返回图片；失败时应返回占位图而不是 nil。
type ImageSource interface {
	Image(src string) image.Image
}

// Options 配置一次排版。
type Options struct {
	// Width/Height 是目标矩形尺寸（显示单位）。Height <= 0 表示不限高度。
	Width  float64
	Height float64
	// Style 是层叠的起点。
	Style StyleDescriptor

	HorzAlign    HorzAlign
	VertAlign    VertAlign
	RightToLeft  bool
	WordWrap     bool
	ForceJustify bool
	// AlwaysUnderline 让每一行整体带下划线。
	AlwaysUnderline bool
	// FontScale 作用于 px / pt 字号。
	FontScale float64
	// PixelScale 是每 px 对应的显示单位，用于图片尺寸与悬挂缩进阈值。
	PixelScale float64

	Tabs                   TabStops
	Paragraph              ParagraphFormat
	IncludeLastLineSpacing bool

	Glyphs GlyphProvider
	Images ImageSource
	Logger *slog.Logger
}

// DefaultTabSize 是默认制表位间距（px）。
const DefaultTabSize = 58.0

// DefaultOptions returns options with word wrap on, a 10pt black base style and
// 58px tab stops at PixelScale 1.
func DefaultOptions() Options {
	return Options{
		Style:      StyleDescriptor{Size: 10, Color: color.NRGBA{A: 0xff}},
		WordWrap:   true,
		FontScale:  1,
		PixelScale: 1,
		Tabs:       TabStops{Sizes: []float64{DefaultTabSize}},
		Paragraph:  ParagraphFormat{LineSpacingMultiple: 1},
	}
}

func (o Options) withDefaults() Options {
	if o.FontScale <= 0 {
		o.FontScale = 1
	}
	if o.PixelScale <= 0 {
		o.PixelScale = 1
	}
	if o.Style.Size <= 0 {
		o.Style.Size = 10
	}
	if len(o.Tabs.Sizes) == 0 {
		o.Tabs.Sizes = []float64{DefaultTabSize * o.PixelScale}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
