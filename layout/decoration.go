package layout

import (
	"math"

	"github.com/ByLCY/richtext/css"
)

// 装饰线相对平均行高/下部高度的比例。
const (
	decorationThickness = 0.06
	underlineOffset     = 0.5
	strikeoutOffset     = 0.3
)

// decorate 生成下划线、删除线与背景矩形；坐标为显示区域坐标。
func (b *builder) decorate(line *Line) {
	end := len(line.Words)
	if line.trailingSpace() {
		end--
	}
	var runs []*Run
	for wi := 0; wi < end; wi++ {
		w := &line.Words[wi]
		for ri := range w.Runs {
			runs = append(runs, &w.Runs[ri])
		}
	}

	for _, kind := range []DecorationKind{DecorationUnderline, DecorationStrikeout} {
		flag := Underline
		if kind == DecorationStrikeout {
			flag = Strikeout
		}
		var seg []*Run
		for _, r := range runs {
			if r.Style.Flags.Has(flag) || (kind == DecorationUnderline && b.opts.AlwaysUnderline) {
				seg = append(seg, r)
				continue
			}
			b.addDecoration(line, kind, seg)
			seg = nil
		}
		b.addDecoration(line, kind, seg)
	}

	for wi := range line.Words {
		for _, r := range line.Words[wi].Runs {
			if css.IsTransparent(r.Style.Background) || r.Width <= 0 {
				continue
			}
			x0, _ := b.extent(&r)
			line.Backgrounds = append(line.Backgrounds, Background{
				X:      x0,
				Y:      line.Top + line.Baseline - r.Baseline,
				Width:  r.Width,
				Height: r.Height,
				Color:  r.Style.Background,
			})
		}
	}
}

// addDecoration 为一组连续的 run 生成一条线，粗细与位置取这组 run 的平均值。
func (b *builder) addDecoration(line *Line, kind DecorationKind, seg []*Run) {
	if len(seg) == 0 {
		return
	}
	x0, x1 := math.Inf(1), math.Inf(-1)
	height, descent := 0.0, 0.0
	for _, r := range seg {
		l, rr := b.extent(r)
		x0, x1 = min(x0, l), max(x1, rr)
		height += r.Height
		descent += r.Descent
	}
	if x1 <= x0 {
		return
	}
	n := float64(len(seg))
	height, descent = height/n, descent/n
	baseline := line.Top + line.Baseline
	y := baseline + descent*underlineOffset
	if kind == DecorationStrikeout {
		y = baseline - (height-descent)*strikeoutOffset
	}
	line.Decorations = append(line.Decorations, Decoration{
		Kind:      kind,
		X:         x0,
		Y:         y,
		Width:     x1 - x0,
		Thickness: height * decorationThickness,
		Color:     seg[0].Style.Color,
	})
}

// extent returns the horizontal span of r, honouring RTL anchors.
func (b *builder) extent(r *Run) (float64, float64) {
	if b.opts.RightToLeft {
		return r.Left - r.Width, r.Left
	}
	return r.Left, r.Left + r.Width
}
