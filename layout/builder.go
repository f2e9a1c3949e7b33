package layout

import (
	"fmt"
	"image"
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"github.com/ByLCY/richtext/images"
	"github.com/ByLCY/richtext/markup"
)

// SoftBreak 是段内换行符：开始新的一行，但不开始新段落。
const SoftBreak = '\u2028'

// Build 排版带内联标记的文本，生成 Paragraph → Line → Word → Run 树并完成对齐与装饰。
// 标记错误不会导致失败；只有缺少 GlyphProvider 时返回错误。
func Build(text string, opts Options) (*Result, error) {
	if opts.Glyphs == nil {
		return nil, fmt.Errorf("layout: 缺少字形度量 GlyphProvider")
	}
	b := newBuilder(opts.withDefaults())
	b.read(text)
	return b.finish(), nil
}

type runMetrics struct {
	ascent  float64
	descent float64
	shift   float64
}

// builder 持有第一遍（折行）所需的全部状态。
type builder struct {
	opts    Options
	log     *slog.Logger
	cascade *Cascade
	paras   []Paragraph
	metrics map[FontKey]runMetrics

	// 待输出的同类字符
	buf      []rune
	bufType  WordType
	bufIndex int
	// wordOpen 表示当前行最后一个单词还能继续追加 run
	wordOpen bool
	// chars 是已读取的字符数
	chars int
}

func newBuilder(opts Options) *builder {
	b := &builder{
		opts:    opts,
		log:     opts.Logger,
		cascade: NewCascade(opts.Style, opts.FontScale),
		metrics: make(map[FontKey]runMetrics),
	}
	b.newParagraph(0)
	return b
}

func (b *builder) read(text string) {
	r := markup.NewReader(text)
	for !r.Done() {
		if !r.Read() {
			if el := r.Element(); el != nil {
				b.tag(el, r.Stack())
			}
			continue
		}
		b.chars = r.CharIndex() + 1
		b.char(r.Character(), r.CharIndex())
	}
	b.flush()
}

func (b *builder) tag(el *markup.Element, stack []*markup.Element) {
	b.flush()
	if el.Name == "img" {
		if !el.IsEnd {
			b.image(el)
		}
		return
	}
	before := b.cascade.Depth()
	b.cascade.Sync(stack)
	if el.IsEnd && b.cascade.Depth() >= before {
		b.log.Debug("layout: 忽略未匹配的结束标签", "tag", el.Name, "pos", el.Position)
	}
}

func (b *builder) char(c rune, index int) {
	switch c {
	case '\r':
		b.flush()
	case '\n', '\v':
		b.flush()
		b.newParagraph(index + 1)
	case SoftBreak:
		b.flush()
		b.newLine(index + 1)
	case '\t':
		b.flush()
		b.tab(index)
	default:
		t := WordNormal
		if isBreakingSpace(c) {
			t = WordWhiteSpace
		}
		if len(b.buf) > 0 && t != b.bufType {
			b.flush()
		}
		if len(b.buf) == 0 {
			b.bufType = t
			b.bufIndex = index
		}
		b.buf = append(b.buf, c)
	}
}

// isBreakingSpace 判断可折行的空白；不换行空格归入普通单词。
func isBreakingSpace(c rune) bool {
	switch c {
	case '\u00a0', '\u2007', '\u202f', '\ufeff':
		return false
	}
	return unicode.IsSpace(c)
}

// flush 把缓冲的字符物化为一个 run。
func (b *builder) flush() {
	if len(b.buf) == 0 {
		return
	}
	run := b.textRun(string(b.buf), b.cascade.Current(), b.bufIndex)
	t := b.bufType
	b.buf = b.buf[:0]
	b.appendRun(run, t, false)
}

func (b *builder) para() *Paragraph { return &b.paras[len(b.paras)-1] }

// appendRun 把 run 追加到当前行；standalone 的 run 独占一个单词。
func (b *builder) appendRun(run Run, t WordType, standalone bool) {
	p := b.para()
	line := &p.Lines[len(p.Lines)-1]
	if standalone || !b.wordOpen || len(line.Words) == 0 || line.Words[len(line.Words)-1].Type != t {
		line.Words = append(line.Words, Word{Type: t, Left: line.right()})
	}
	run.Left = line.right()
	w := &line.Words[len(line.Words)-1]
	w.Runs = append(w.Runs, run)
	b.wordOpen = !standalone
	if b.opts.WordWrap {
		b.wrapLine(p, len(p.Lines)-1)
	}
}

func (b *builder) newParagraph(charIndex int) {
	b.paras = append(b.paras, Paragraph{})
	b.pushLine(charIndex, true)
}

func (b *builder) newLine(charIndex int) {
	b.pushLine(charIndex, false)
}

func (b *builder) pushLine(charIndex int, first bool) {
	p := b.para()
	p.Lines = append(p.Lines, Line{
		Left:      b.lineStart(first),
		CharIndex: charIndex,
		style:     b.cascade.Current(),
	})
	b.wordOpen = false
}

// lineStart 返回行首位置：正缩进作用于首行，负缩进（悬挂）作用于其余行。
func (b *builder) lineStart(first bool) float64 {
	indent := b.opts.Paragraph.FirstLineIndent
	if first && b.opts.Paragraph.SkipFirstLineIndent && len(b.paras) == 1 {
		first = false
	}
	switch {
	case indent > 0 && first:
		return indent
	case indent < 0 && !first:
		return -indent
	}
	return 0
}

func (b *builder) tab(index int) {
	p := b.para()
	line := &p.Lines[len(p.Lines)-1]
	run := b.textRun("\t", b.cascade.Current(), index)
	x := line.right()
	run.Width = b.tabPosition(line, x, countTabs(line)) - x
	b.appendRun(run, WordTab, true)
}

func countTabs(line *Line) int {
	n := 0
	for i := range line.Words {
		if line.Words[i].Type == WordTab {
			n++
		}
	}
	return n
}

// hangingTabGapPx 是悬挂缩进首行制表符跳到悬挂位置所需的最小间隙（2pt，按屏幕 DPI 换算为 px）。
const hangingTabGapPx = 2 * ScreenDPI / 72

// tabPosition 计算 x 之后的制表位。悬挂缩进段落的首行中，制表符优先跳到悬挂位置，
// 除非间隙小于 hangingTabGapPx 或常规制表位更近。
func (b *builder) tabPosition(line *Line, x float64, index int) float64 {
	pos := b.opts.Tabs.Position(x, index)
	if hang := -b.opts.Paragraph.FirstLineIndent; hang > 0 && line.Left < hang && x < hang {
		if hang-x >= hangingTabGapPx*b.opts.PixelScale && pos > hang {
			pos = hang
		}
	}
	return pos
}

func (b *builder) textRun(text string, style StyleDescriptor, charIndex int) Run {
	m := b.runMetrics(style)
	return Run{
		Kind:      RunText,
		Text:      text,
		Style:     style,
		Width:     b.opts.Glyphs.MeasureText(text, style),
		Height:    m.ascent + m.descent,
		Baseline:  m.ascent,
		Descent:   m.descent,
		Shift:     m.shift,
		CharIndex: charIndex,
	}
}

// runMetrics 返回相对行基线的上下高度。上标抬高到与正文顶部对齐，下标降低到与正文底部对齐。
func (b *builder) runMetrics(style StyleDescriptor) runMetrics {
	key := style.FontKey()
	if m, ok := b.metrics[key]; ok {
		return m
	}
	fm := b.opts.Glyphs.FontMetrics(style)
	m := runMetrics{ascent: fm.Ascent, descent: max(fm.Descent, fm.LineHeight-fm.Ascent)}
	if style.Baseline != BaselineNormal {
		normal := style
		normal.Baseline = BaselineNormal
		nm := b.runMetrics(normal)
		switch style.Baseline {
		case BaselineSuperscript:
			raise := nm.ascent - m.ascent
			m.shift = -raise
			m.ascent += raise
			m.descent = max(0, m.descent-raise)
		case BaselineSubscript:
			lower := nm.descent - m.descent
			m.shift = lower
			m.descent += lower
			m.ascent = max(0, m.ascent-lower)
		}
	}
	b.metrics[key] = m
	return m
}

func (b *builder) image(el *markup.Element) {
	src, _ := el.Attr("src")
	img := b.loadImage(src)
	w, h := imageSize(img, el)
	scale := b.opts.PixelScale
	run := Run{
		Kind:      RunImage,
		Source:    src,
		Image:     img,
		Style:     b.cascade.Current(),
		Width:     w * scale,
		Height:    h * scale,
		Baseline:  h * scale,
		CharIndex: b.chars,
	}
	b.appendRun(run, WordNormal, true)
}

func (b *builder) loadImage(src string) image.Image {
	if b.opts.Images != nil {
		if img := b.opts.Images.Image(src); img != nil {
			return img
		}
	}
	b.log.Debug("layout: 图片不可用，使用占位图", "src", src)
	return images.Placeholder()
}

// imageSize 返回图片的 px 尺寸：两个属性都给出时直接使用，只给一个时按比例缩放。
func imageSize(img image.Image, el *markup.Element) (float64, float64) {
	bounds := img.Bounds()
	nw, nh := float64(bounds.Dx()), float64(bounds.Dy())
	w, wok := pixelAttr(el, "width")
	h, hok := pixelAttr(el, "height")
	switch {
	case wok && hok:
		return w, h
	case wok:
		if nw > 0 {
			return w, nh * w / nw
		}
		return w, nh
	case hok:
		if nh > 0 {
			return nw * h / nh, h
		}
		return nw, h
	}
	return nw, nh
}

func pixelAttr(el *markup.Element, name string) (float64, bool) {
	v, ok := el.Attr(name)
	if !ok {
		return 0, false
	}
	v = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(v)), "px")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return f, true
}
