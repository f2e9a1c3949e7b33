package layout

// TabStops 描述制表位。
// 普通模式下制表位位于 Offset + n*Sizes[0]；PerIndex 模式下第 k 个制表符使用
// Sizes[k]（超出时使用最后一个），其起点为 Offset 加上前 k 个间距之和。
type TabStops struct {
	Offset   float64   `json:"offset"`
	Sizes    []float64 `json:"sizes"`
	PerIndex bool      `json:"perIndex,omitempty"`
}

// Position 返回位于 pos 之后的第一个制表位；pos 在起点之前时返回起点。
// index 是该制表符在行内的序号，仅 PerIndex 模式使用。
func (t TabStops) Position(pos float64, index int) float64 {
	offset, step := t.Offset, 0.0
	if len(t.Sizes) > 0 {
		step = t.Sizes[0]
	}
	if t.PerIndex && len(t.Sizes) > 0 {
		k := min(max(index, 0), len(t.Sizes)-1)
		for _, s := range t.Sizes[:k] {
			offset += s
		}
		step = t.Sizes[k]
		// 超出列表的序号沿用最后一个间距
		if index > k {
			offset += step * float64(index-k)
		}
	}
	if pos < offset {
		return offset
	}
	if step <= 0 {
		return pos
	}
	n := int((pos-offset)/step) + 1
	return offset + float64(n)*step
}
