package layout

import (
	"image"
	"image/color"
	"strings"
)

// 该文件定义排版树（Paragraph → Line → Word → Run）与样式描述，供排版、绘制与调试 JSON 共用。

// FontFlags 是字体样式位。
type FontFlags uint8

const (
	Bold FontFlags = 1 << iota
	Italic
	Underline
	Strikeout
)

// Has reports whether all bits of f are set.
func (s FontFlags) Has(f FontFlags) bool { return s&f == f }

// Baseline 描述上下标。
type Baseline int

const (
	BaselineNormal Baseline = iota
	BaselineSubscript
	BaselineSuperscript
)

// scriptScale 是上下标相对正文的字号比例。
const scriptScale = 0.6

// StyleDescriptor 是文本某一位置上层叠后的格式。字号单位为 pt。
type StyleDescriptor struct {
	Family     string      `json:"family"`
	Size       float64     `json:"size"`
	Flags      FontFlags   `json:"flags"`
	Baseline   Baseline    `json:"baseline"`
	Color      color.NRGBA `json:"color"`
	Background color.NRGBA `json:"background"`
}

// EffectiveSize 返回实际用于度量的字号（上下标缩小为 0.6 倍）。
func (s StyleDescriptor) EffectiveSize() float64 {
	if s.Baseline != BaselineNormal {
		return s.Size * scriptScale
	}
	return s.Size
}

// FontKey identifies the glyph-relevant part of a style; colours are ignored.
type FontKey struct {
	Family   string
	Size     float64
	Flags    FontFlags
	Baseline Baseline
}

// FontKey returns the cache key of s.
func (s StyleDescriptor) FontKey() FontKey {
	return FontKey{Family: s.Family, Size: s.Size, Flags: s.Flags, Baseline: s.Baseline}
}

// WordType 是单词的字符类别。
type WordType int

const (
	WordNormal WordType = iota
	WordWhiteSpace
	WordTab
)

func (t WordType) String() string {
	switch t {
	case WordWhiteSpace:
		return "space"
	case WordTab:
		return "tab"
	default:
		return "normal"
	}
}

// RunKind distinguishes text runs from inline images.
type RunKind int

const (
	RunText RunKind = iota
	RunImage
)

// Run 是单词内同一样式的最大片段。
// Left 为行内横坐标；RTL 时为右侧锚点（run 向左延伸）。
// Baseline 为行基线以上的高度，Descent 为基线以下的高度，Shift 为字形基线相对行基线的下移量（上标为负）。
type Run struct {
	Kind      RunKind         `json:"kind"`
	Text      string          `json:"text,omitempty"`
	Style     StyleDescriptor `json:"style"`
	Left      float64         `json:"left"`
	Width     float64         `json:"width"`
	Height    float64         `json:"height"`
	Baseline  float64         `json:"baseline"`
	Descent   float64         `json:"descent"`
	Shift     float64         `json:"shift,omitempty"`
	CharIndex int             `json:"charIndex"`
	Source    string          `json:"src,omitempty"`
	Image     image.Image     `json:"-"`
}

// Word 是同一类别字符的最大片段。Tab 单词恰好有一个 Run。
type Word struct {
	Type WordType `json:"type"`
	Runs []Run    `json:"runs"`
	Left float64  `json:"left"`
}

// Width returns the sum of run widths.
func (w *Word) Width() float64 {
	total := 0.0
	for i := range w.Runs {
		total += w.Runs[i].Width
	}
	return total
}

// Chars returns the number of characters in the word's text runs.
func (w *Word) Chars() int {
	n := 0
	for i := range w.Runs {
		n += len([]rune(w.Runs[i].Text))
	}
	return n
}

// DecorationKind 是装饰线类别。
type DecorationKind int

const (
	DecorationUnderline DecorationKind = iota
	DecorationStrikeout
)

// Decoration 是一条下划线或删除线，坐标为显示区域坐标。
type Decoration struct {
	Kind      DecorationKind `json:"kind"`
	X         float64        `json:"x"`
	Y         float64        `json:"y"`
	Width     float64        `json:"width"`
	Thickness float64        `json:"thickness"`
	Color     color.NRGBA    `json:"color"`
}

// Background 是一个 run 的背景矩形，坐标为显示区域坐标。
type Background struct {
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Color  color.NRGBA `json:"color"`
}

// Line 表示折行后的一行。
type Line struct {
	Words       []Word       `json:"words"`
	Left        float64      `json:"left"`
	Top         float64      `json:"top"`
	Width       float64      `json:"width"`
	Height      float64      `json:"height"`
	Baseline    float64      `json:"baseline"`
	LineSpacing float64      `json:"lineSpacing"`
	CharIndex   int          `json:"charIndex"`
	Align       HorzAlign    `json:"align"`
	Last        bool         `json:"last,omitempty"`
	Decorations []Decoration `json:"decorations,omitempty"`
	Backgrounds []Background `json:"backgrounds,omitempty"`

	// style 是行创建时的样式，空行用它确定行高。
	style StyleDescriptor
}

// Text returns the line's text; tabs are kept and images become U+FFFC.
func (l *Line) Text() string {
	var b strings.Builder
	for wi := range l.Words {
		for _, r := range l.Words[wi].Runs {
			if r.Kind == RunImage {
				b.WriteRune('\ufffc')
				continue
			}
			b.WriteString(r.Text)
		}
	}
	return b.String()
}

// trailingSpace reports whether the last word is a whitespace word.
func (l *Line) trailingSpace() bool {
	return len(l.Words) > 0 && l.Words[len(l.Words)-1].Type == WordWhiteSpace
}

// right returns the right edge of the last run (pre-alignment coordinates).
func (l *Line) right() float64 {
	x := l.Left
	for wi := len(l.Words) - 1; wi >= 0; wi-- {
		w := &l.Words[wi]
		if n := len(w.Runs); n > 0 {
			return w.Runs[n-1].Left + w.Runs[n-1].Width
		}
	}
	return x
}

// contentRight 与 right 相同，但不计行尾空白单词。
func (l *Line) contentRight() float64 {
	n := len(l.Words)
	if l.trailingSpace() {
		n--
	}
	for wi := n - 1; wi >= 0; wi-- {
		w := &l.Words[wi]
		if k := len(w.Runs); k > 0 {
			return w.Runs[k-1].Left + w.Runs[k-1].Width
		}
	}
	return l.Left
}

// Paragraph 是两个硬换行之间的文本，至少包含一行。
type Paragraph struct {
	Lines []Line `json:"lines"`
}

// Result 是一次排版的完整结果。
type Result struct {
	Paragraphs []Paragraph `json:"paragraphs"`
	// Width/Height 是目标矩形尺寸。
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	// ContentWidth/ContentHeight 由 CalcWidth/CalcHeight 得出。
	ContentWidth  float64 `json:"contentWidth"`
	ContentHeight float64 `json:"contentHeight"`
	CharsFit      int     `json:"charsFit"`
	CharCount     int     `json:"charCount"`
	RightToLeft   bool    `json:"rightToLeft,omitempty"`

	includeLastSpacing bool
}

// Lines returns pointers to every line in document order.
func (r *Result) Lines() []*Line {
	var out []*Line
	for pi := range r.Paragraphs {
		for li := range r.Paragraphs[pi].Lines {
			out = append(out, &r.Paragraphs[pi].Lines[li])
		}
	}
	return out
}

// Text returns the laid-out text with one line per row.
func (r *Result) Text() string {
	lines := r.Lines()
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = l.Text()
	}
	return strings.Join(parts, "\n")
}
