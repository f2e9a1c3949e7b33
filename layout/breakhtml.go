package layout

import (
	"strings"

	"github.com/ByLCY/richtext/markup"
)

// BreakHTML 在第 charsFitted 个字符处把带标记的文本一分为二，两部分都保持标签完整：
// 第一部分补上仍打开标签的结束标签，第二部分重新打开这些标签。
// 分割点落在最后一个放得下的字符及其后紧跟的结束标签之后；其后的开始标签与 <img>
// 属于第二部分，与排版时行首图片的字符序号一致。
// 紧邻分割点的换行符被丢弃；endsOnHardBreak 表示丢弃的是硬换行（\n、\v 或 <br>）。
// charsFitted 不小于字符总数时返回原文与空串。
func BreakHTML(text string, charsFitted int) (first, second string, endsOnHardBreak bool) {
	type span struct {
		from, to int
		hard     bool
		ok       bool
	}
	var prev, cr span

	// cut 是第二部分的起点，cutStack 是该处仍打开的标签；held 之后 cut 不再前移。
	var (
		cut      int
		cutStack []*markup.Element
		held     bool
	)
	r := markup.NewReader(text)
	mark := func() {
		cut = r.Offset()
		cutStack = append(cutStack[:0], r.Stack()...)
		held = false
	}
	for !r.Done() {
		if !r.Read() {
			if el := r.Element(); el != nil && !held {
				if el.IsEnd {
					mark()
				} else {
					held = true
				}
			}
			continue
		}
		c := r.Character()
		if r.CharIndex() < charsFitted || c == '\r' {
			mark()
			prev = span{}
			switch c {
			case '\r':
				cr = span{from: r.Position(), to: r.Offset(), ok: true}
				continue
			case '\n', '\v', SoftBreak:
				prev = span{from: r.Position(), to: r.Offset(), hard: c != SoftBreak, ok: true}
				if c == '\n' && cr.ok && cr.to == r.Position() {
					prev.from = cr.from
				}
			}
			cr = span{}
			continue
		}

		split := cut
		stack := cutStack
		var head string
		switch {
		case c == '\n' || c == '\v' || c == SoftBreak:
			from := r.Position()
			if c == '\n' && cr.ok && cr.to == from {
				from = cr.from
			}
			head = r.Source(0, from)
			endsOnHardBreak = c != SoftBreak
			split = r.Offset()
			stack = r.Stack()
		case prev.ok:
			head = r.Source(0, prev.from) + r.Source(prev.to, split)
			endsOnHardBreak = prev.hard
		default:
			head = r.Source(0, split)
		}

		var fb, sb strings.Builder
		fb.WriteString(head)
		for i := len(stack) - 1; i >= 0; i-- {
			fb.WriteString(stack[i].EndTag())
		}
		for _, el := range stack {
			sb.WriteString(el.Raw)
		}
		sb.WriteString(r.Source(split, r.Len()))
		return fb.String(), sb.String(), endsOnHardBreak
	}
	return text, "", false
}
