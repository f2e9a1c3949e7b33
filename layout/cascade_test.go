package layout_test

import (
	"image/color"
	"testing"

	"github.com/ByLCY/richtext/layout"
	"github.com/ByLCY/richtext/markup"
)

// stackOf 读完 markup 并返回最终的打开标签栈。
func stackOf(t *testing.T, markupText string) []*markup.Element {
	t.Helper()
	r := markup.NewReader(markupText)
	for !r.Done() {
		r.Read()
	}
	return append([]*markup.Element(nil), r.Stack()...)
}

var base = layout.StyleDescriptor{Family: "Go", Size: 10, Color: color.NRGBA{A: 0xff}}

// TestApplyStyleProperties 覆盖 style 属性的各项解析。
func TestApplyStyleProperties(t *testing.T) {
	stack := stackOf(t, `<span style="font-weight:bold; font-style:italic; text-decoration:underline line-through; font-size:2em; font-family:'Courier New', mono; color:#00ff00; background-color:rgba(0,0,255,0.5)">`)
	got := layout.Apply(base, stack, 1)
	want := layout.StyleDescriptor{
		Family:     "Courier New",
		Size:       20,
		Flags:      layout.Bold | layout.Italic | layout.Underline | layout.Strikeout,
		Color:      color.NRGBA{G: 0xff, A: 0xff},
		Background: color.NRGBA{B: 0xff, A: 128},
	}
	if got != want {
		t.Fatalf("层叠结果不符:\n got=%+v\nwant=%+v", got, want)
	}
}

// TestApplyOverrides 断言内层 style 可以撤销外层标签的效果，且无效值被忽略。
func TestApplyOverrides(t *testing.T) {
	cases := []struct {
		markup string
		check  func(layout.StyleDescriptor) bool
	}{
		{`<b><span style="font-weight:normal">`, func(s layout.StyleDescriptor) bool { return !s.Flags.Has(layout.Bold) }},
		{`<span style="font-weight:700">`, func(s layout.StyleDescriptor) bool { return s.Flags.Has(layout.Bold) }},
		{`<b><span style="font-weight:400">`, func(s layout.StyleDescriptor) bool { return !s.Flags.Has(layout.Bold) }},
		{`<u><span style="text-decoration:none">`, func(s layout.StyleDescriptor) bool { return !s.Flags.Has(layout.Underline) }},
		{`<i><span style="font-style:normal">`, func(s layout.StyleDescriptor) bool { return !s.Flags.Has(layout.Italic) }},
		{`<sup><sub>`, func(s layout.StyleDescriptor) bool { return s.Baseline == layout.BaselineSubscript }},
		{`<strike>`, func(s layout.StyleDescriptor) bool { return s.Flags.Has(layout.Strikeout) }},
		{`<span style="color:nonsense; font-size:-3px; font-weight:heavy">`, func(s layout.StyleDescriptor) bool { return s == base }},
		{`<span style="font-size:12pt">`, func(s layout.StyleDescriptor) bool { return s.Size == 12 }},
	}
	for _, c := range cases {
		if got := layout.Apply(base, stackOf(t, c.markup), 1); !c.check(got) {
			t.Fatalf("%s 层叠结果不符: %+v", c.markup, got)
		}
	}
}

// TestEffectiveSizeAndFontKey 覆盖上下标字号与缓存键忽略颜色。
func TestEffectiveSizeAndFontKey(t *testing.T) {
	s := base
	s.Baseline = layout.BaselineSuperscript
	if got := s.EffectiveSize(); got != 6 {
		t.Fatalf("上标字号期望 6，实际 %g", got)
	}
	red := base
	red.Color = color.NRGBA{R: 0xff, A: 0xff}
	red.Background = color.NRGBA{R: 0xff, A: 0xff}
	if red.FontKey() != base.FontKey() {
		t.Fatalf("FontKey 不应包含颜色")
	}
}

// TestCascadeSnapshots 覆盖 Push / PopTo / Sync，且弹栈后恢复原样式。
func TestCascadeSnapshots(t *testing.T) {
	c := layout.NewCascade(base, 1)
	stack := stackOf(t, `<b><i>`)
	c.Sync(stack)
	if c.Depth() != 2 || !c.Current().Flags.Has(layout.Bold|layout.Italic) {
		t.Fatalf("Sync 后应为粗斜体，实际 %+v", c.Current())
	}
	c.Sync(stack[:1])
	if c.Depth() != 1 || c.Current().Flags.Has(layout.Italic) {
		t.Fatalf("弹出 i 后不应为斜体，实际 %+v", c.Current())
	}
	c.Push(stackOf(t, `<u>`)[0])
	c.PopTo(0)
	if c.Current() != base {
		t.Fatalf("弹空后应恢复基础样式，实际 %+v", c.Current())
	}
}
