package layout

import (
	"strconv"
	"strings"

	"github.com/ByLCY/richtext/css"
	"github.com/ByLCY/richtext/markup"
)

// Apply 自底向上折叠标签栈，返回层叠后的样式。
func Apply(base StyleDescriptor, stack []*markup.Element, fontScale float64) StyleDescriptor {
	s := base
	for _, el := range stack {
		s = applyElement(s, el, fontScale)
	}
	return s
}

// applyElement 先应用标签本身的含义，再按固定顺序应用 style 属性。
func applyElement(s StyleDescriptor, el *markup.Element, fontScale float64) StyleDescriptor {
	switch el.Name {
	case "b":
		s.Flags |= Bold
	case "i":
		s.Flags |= Italic
	case "u":
		s.Flags |= Underline
	case "strike":
		s.Flags |= Strikeout
	case "sub":
		s.Baseline = BaselineSubscript
	case "sup":
		s.Baseline = BaselineSuperscript
	}

	props := el.Style()
	if len(props) == 0 {
		return s
	}
	if v, ok := props["font-style"]; ok {
		switch strings.ToLower(v) {
		case "italic", "oblique":
			s.Flags |= Italic
		case "normal":
			s.Flags &^= Italic
		}
	}
	if v, ok := props["font-weight"]; ok {
		if bold, ok := parseFontWeight(v); ok {
			if bold {
				s.Flags |= Bold
			} else {
				s.Flags &^= Bold
			}
		}
	}
	if v, ok := props["text-decoration"]; ok {
		s.Flags = applyTextDecoration(s.Flags, v)
	}
	if v, ok := props["font-size"]; ok {
		if l, err := css.ParseLength(v); err == nil && l.Value > 0 {
			s.Size = ResolveFontSize(l, s.Size, fontScale)
		}
	}
	if v, ok := props["font-family"]; ok {
		if family := css.ParseFontFamily(v); family != "" {
			s.Family = family
		}
	}
	if v, ok := props["color"]; ok {
		if c, err := css.ParseColor(v); err == nil {
			s.Color = c
		}
	}
	if v, ok := props["background-color"]; ok {
		if c, err := css.ParseColor(v); err == nil {
			s.Background = c
		}
	}
	return s
}

func parseFontWeight(v string) (bold, ok bool) {
	switch v = strings.ToLower(v); v {
	case "bold", "bolder":
		return true, true
	case "normal", "lighter":
		return false, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > 1000 {
		return false, false
	}
	return n >= 600, true
}

func applyTextDecoration(flags FontFlags, v string) FontFlags {
	v = strings.ToLower(v)
	if strings.TrimSpace(v) == "none" {
		return flags &^ (Underline | Strikeout)
	}
	underline := strings.Contains(v, "underline")
	strike := strings.Contains(v, "line-through")
	if !underline && !strike {
		return flags
	}
	flags &^= Underline | Strikeout
	if underline {
		flags |= Underline
	}
	if strike {
		flags |= Strikeout
	}
	return flags
}

// Cascade 维护与标签栈平行的样式快照。每个快照创建后不再修改。
type Cascade struct {
	base   StyleDescriptor
	scale  float64
	elems  []*markup.Element
	styles []StyleDescriptor
}

// NewCascade creates a cascade rooted at base.
func NewCascade(base StyleDescriptor, fontScale float64) *Cascade {
	if fontScale <= 0 {
		fontScale = 1
	}
	return &Cascade{base: base, scale: fontScale}
}

// Current returns the style at the top of the stack.
func (c *Cascade) Current() StyleDescriptor {
	if n := len(c.styles); n > 0 {
		return c.styles[n-1]
	}
	return c.base
}

// Push 在栈顶之上应用 el 并压入新快照。
func (c *Cascade) Push(el *markup.Element) {
	c.elems = append(c.elems, el)
	c.styles = append(c.styles, applyElement(c.Current(), el, c.scale))
}

// PopTo 弹出快照直到只剩 depth 层。
func (c *Cascade) PopTo(depth int) {
	if depth < 0 {
		depth = 0
	}
	if depth < len(c.styles) {
		c.styles = c.styles[:depth]
		c.elems = c.elems[:depth]
	}
}

// Depth returns the number of pushed snapshots.
func (c *Cascade) Depth() int { return len(c.styles) }

// Sync 让快照栈与阅读器的标签栈一致：保留相同前缀，弹出其余部分，再压入新元素。
func (c *Cascade) Sync(stack []*markup.Element) {
	n := 0
	for n < len(stack) && n < len(c.elems) && stack[n] == c.elems[n] {
		n++
	}
	c.PopTo(n)
	for _, el := range stack[n:] {
		c.Push(el)
	}
}
