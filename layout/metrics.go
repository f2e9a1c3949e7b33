package layout

// heightEpsilon 吸收浮点累加误差。
const heightEpsilon = 1e-6

// CalcHeight 累加各行高度与行距，并返回第一个超出目标高度的行的字符序号。
// 所有行都放得下（或目标高度 <= 0）时 charsFit 为字符总数。
// 最后一行的行距仅在 IncludeLastLineSpacing 时计入。
func (r *Result) CalcHeight() (height float64, charsFit int) {
	lines := r.Lines()
	charsFit = -1
	for i, l := range lines {
		if charsFit < 0 && r.Height > 0 && height+l.Height > r.Height+heightEpsilon {
			charsFit = l.CharIndex
		}
		height += l.Height
		if i < len(lines)-1 || r.includeLastSpacing {
			height += l.LineSpacing
		}
	}
	if charsFit < 0 {
		charsFit = r.CharCount
	}
	return height, charsFit
}

// CalcWidth 返回最宽一行的宽度，不含行尾空白。
func (r *Result) CalcWidth() float64 {
	width := 0.0
	for _, l := range r.Lines() {
		width = max(width, l.Width)
	}
	return width
}
