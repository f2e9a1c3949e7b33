package layout

// finish 是第二遍：行高、行距、水平对齐、RTL 镜像、垂直定位与装饰线。
func (b *builder) finish() *Result {
	res := &Result{
		Paragraphs:         b.paras,
		Width:              b.opts.Width,
		Height:             b.opts.Height,
		CharCount:          b.chars,
		RightToLeft:        b.opts.RightToLeft,
		includeLastSpacing: b.opts.IncludeLastLineSpacing,
	}
	for pi := range res.Paragraphs {
		lines := res.Paragraphs[pi].Lines
		for li := range lines {
			line := &lines[li]
			line.Last = li == len(lines)-1
			b.measureLine(line)
			line.LineSpacing = b.lineSpacing(line.Height)
			if line.Last && pi < len(res.Paragraphs)-1 {
				line.LineSpacing += b.opts.Paragraph.ParagraphSpacing
			}
		}
	}

	lines := res.Lines()
	for _, line := range lines {
		b.alignLine(line)
	}
	res.ContentWidth = res.CalcWidth()
	res.ContentHeight, res.CharsFit = res.CalcHeight()
	b.placeVertically(lines, res.ContentHeight)
	for _, line := range lines {
		if b.opts.RightToLeft {
			mirrorLine(line, b.opts.Width)
		}
		b.decorate(line)
	}
	return res
}

// measureLine 由 run 的最大上/下高度得到行高；空行使用行创建时的样式。
func (b *builder) measureLine(line *Line) {
	ascent, descent := 0.0, 0.0
	empty := true
	for wi := range line.Words {
		for _, r := range line.Words[wi].Runs {
			ascent = max(ascent, r.Baseline)
			descent = max(descent, r.Descent)
			empty = false
		}
	}
	if empty {
		m := b.runMetrics(line.style)
		ascent, descent = m.ascent, m.descent
	}
	line.Baseline = ascent
	line.Height = ascent + descent
	line.Width = line.contentRight()
}

// lineSpacing 返回行高 h 之外追加的间距，不小于 0。
func (b *builder) lineSpacing(h float64) float64 {
	pf := b.opts.Paragraph
	switch pf.LineSpacingType {
	case SpacingAtLeast, SpacingExactly:
		return max(0, pf.LineSpacing-h)
	case SpacingMultiple:
		return max(0, h*(pf.LineSpacingMultiple-1))
	default:
		return 0
	}
}

func (b *builder) alignLine(line *Line) {
	align := b.opts.HorzAlign
	if align == AlignJustify && line.Last && !b.opts.ForceJustify {
		align = AlignLeft
	}
	line.Align = align
	free := b.opts.Width - line.contentRight()
	switch align {
	case AlignRight:
		if free > 0 {
			shiftLine(line, free)
		}
	case AlignCenter:
		if free > 0 {
			shiftLine(line, free/2)
		}
	case AlignJustify:
		justify(line, free)
	}
}

func shiftLine(line *Line, dx float64) {
	line.Left += dx
	for wi := range line.Words {
		w := &line.Words[wi]
		w.Left += dx
		for ri := range w.Runs {
			w.Runs[ri].Left += dx
		}
	}
}

// justify 把剩余宽度按字符数分配给最后一个制表符之后的空白单词；
// 行尾空白不参与分配，宽度置 0 并悬挂在右边缘。
func justify(line *Line, free float64) {
	end := len(line.Words)
	if line.trailingSpace() {
		end--
	}
	start := 0
	for wi := end - 1; wi >= 0; wi-- {
		if line.Words[wi].Type == WordTab {
			start = wi + 1
			break
		}
	}
	spaces := 0
	for wi := start; wi < end; wi++ {
		if line.Words[wi].Type == WordWhiteSpace {
			spaces += line.Words[wi].Chars()
		}
	}
	if spaces > 0 && free > 0 {
		extra := free / float64(spaces)
		for wi := start; wi < end; wi++ {
			w := &line.Words[wi]
			if w.Type != WordWhiteSpace {
				continue
			}
			for ri := range w.Runs {
				w.Runs[ri].Width += extra * float64(len([]rune(w.Runs[ri].Text)))
			}
		}
	}
	for wi := end; wi < len(line.Words); wi++ {
		for ri := range line.Words[wi].Runs {
			line.Words[wi].Runs[ri].Width = 0
		}
	}
	repack(line)
}

// repack 按现有宽度重新排列横坐标，不重算制表符。
func repack(line *Line) {
	x := line.Left
	for wi := range line.Words {
		w := &line.Words[wi]
		w.Left = x
		for ri := range w.Runs {
			w.Runs[ri].Left = x
			x += w.Runs[ri].Width
		}
	}
}

// mirrorLine 把横坐标换成距右边缘的镜像位置；run 从锚点向左延伸。
func mirrorLine(line *Line, width float64) {
	line.Left = width - line.Left
	for wi := range line.Words {
		w := &line.Words[wi]
		w.Left = width - w.Left
		for ri := range w.Runs {
			w.Runs[ri].Left = width - w.Runs[ri].Left
		}
	}
}

// placeVertically 设置每行的 Top。内容超出目标高度时从顶部开始。
func (b *builder) placeVertically(lines []*Line, contentHeight float64) {
	y := 0.0
	if h := b.opts.Height; h > 0 && contentHeight < h {
		switch b.opts.VertAlign {
		case AlignMiddle:
			y = (h - contentHeight) / 2
		case AlignBottom:
			y = h - contentHeight
		}
	}
	for _, line := range lines {
		line.Top = y
		y += line.Height + line.LineSpacing
	}
}
