package layout

import "slices"

// wrapLine 检查第 li 行是否超出可用宽度，必要时把末尾内容移到新行并对新行递归。
// 只会对段落的最后一行调用，因此新行总是追加在段尾。
func (b *builder) wrapLine(p *Paragraph, li int) {
	line := &p.Lines[li]
	n := len(line.Words)
	if n == 0 {
		return
	}
	if n == 1 {
		if line.Words[0].Type == WordNormal {
			b.splitWord(p, li)
		}
		return
	}
	if line.Words[n-1].Type == WordWhiteSpace || line.right() <= b.opts.Width {
		return
	}

	keep := n - 1
	// 制表符跟随其后的单词一起换行，但原行至少保留一个单词
	if keep > 1 && line.Words[keep-1].Type == WordTab {
		keep--
	}
	moved := slices.Clone(line.Words[keep:])
	line.Words = line.Words[:keep]
	b.breakLine(p, moved)
}

// splitWord 处理只有一个普通单词却放不下的行：按 run 逐个累加，
// 在第一个放不下的 run 内二分查找能放下的最多字符数。
func (b *builder) splitWord(p *Paragraph, li int) {
	line := &p.Lines[li]
	word := &line.Words[0]
	x := line.Left
	for ri := range word.Runs {
		run := word.Runs[ri]
		if x+run.Width <= b.opts.Width {
			x += run.Width
			continue
		}

		k := 0
		if run.Kind == RunText {
			k = b.fitChars(run, b.opts.Width-x)
		}
		var head, tail []Run
		switch {
		case k > 0:
			fit, rest := b.splitRun(run, k)
			tail = append([]Run{rest}, word.Runs[ri+1:]...)
			head = append(slices.Clone(word.Runs[:ri]), fit)
		case ri > 0:
			tail = slices.Clone(word.Runs[ri:])
			head = word.Runs[:ri]
		case run.Kind == RunText && len([]rune(run.Text)) > 1:
			// 第一个 run 连一个字符都放不下时强制保留一个字符
			fit, rest := b.splitRun(run, 1)
			tail = append([]Run{rest}, word.Runs[1:]...)
			head = []Run{fit}
		case len(word.Runs) > 1:
			tail = slices.Clone(word.Runs[1:])
			head = word.Runs[:1]
		default:
			b.log.Debug("layout: 无法继续拆分，允许超出行宽", "charIndex", run.CharIndex, "width", run.Width)
			return
		}
		word.Runs = head
		b.breakLine(p, []Word{{Type: WordNormal, Runs: tail}})
		return
	}
}

// breakLine 以 moved 为内容在段尾新建一行，重新计算横坐标后继续检查折行。
func (b *builder) breakLine(p *Paragraph, moved []Word) {
	prev := &p.Lines[len(p.Lines)-1]
	p.Lines = append(p.Lines, Line{
		Words:     moved,
		Left:      b.lineStart(false),
		CharIndex: firstCharIndex(moved, prev.CharIndex),
		style:     prev.style,
	})
	li := len(p.Lines) - 1
	b.relayout(&p.Lines[li])
	b.wrapLine(p, li)
}

func firstCharIndex(words []Word, fallback int) int {
	for i := range words {
		if len(words[i].Runs) > 0 {
			return words[i].Runs[0].CharIndex
		}
	}
	return fallback
}

// relayout 从行首重新排列单词与 run，并重新计算制表符宽度。
func (b *builder) relayout(line *Line) {
	x := line.Left
	tabs := 0
	for wi := range line.Words {
		w := &line.Words[wi]
		w.Left = x
		for ri := range w.Runs {
			r := &w.Runs[ri]
			if w.Type == WordTab {
				r.Width = b.tabPosition(line, x, tabs) - x
				tabs++
			}
			r.Left = x
			x += r.Width
		}
	}
}

// fitChars 返回 run 中能放进 space 的最多字符数（不含全部字符，因为整个 run 已知放不下）。
func (b *builder) fitChars(run Run, space float64) int {
	text := []rune(run.Text)
	lo, hi := 0, len(text)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if b.opts.Glyphs.MeasureText(string(text[:mid]), run.Style) <= space {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// splitRun 在第 k 个字符处把 run 拆成两个，并分别重新测量。
func (b *builder) splitRun(run Run, k int) (Run, Run) {
	text := []rune(run.Text)
	fit := b.textRun(string(text[:k]), run.Style, run.CharIndex)
	fit.Left = run.Left
	rest := b.textRun(string(text[k:]), run.Style, run.CharIndex+k)
	return fit, rest
}
