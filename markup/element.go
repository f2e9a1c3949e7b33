package markup

import (
	"strings"

	"github.com/ByLCY/richtext/css"
)

// 允许的标签；其余标签名按普通文本处理。
var knownTags = map[string]bool{
	"b":      true,
	"i":      true,
	"u":      true,
	"sub":    true,
	"sup":    true,
	"strike": true,
	"img":    true,
	"span":   true,
	"br":     true,
}

// 无需闭合的标签。
var voidTags = map[string]bool{
	"img": true,
	"br":  true,
}

// Element is one tag token: a start tag, an end tag or a self-closed tag.
type Element struct {
	Name         string
	IsEnd        bool
	IsSelfClosed bool
	Attributes   map[string]string
	// Raw 是标签在原文中的完整文本，BreakHTML 用它重新打开标签。
	Raw string
	// Position 是 '<' 在原文中的 rune 偏移。
	Position int

	style       map[string]string
	styleParsed bool
}

// Attr returns the attribute value and whether it was present.
func (e *Element) Attr(name string) (string, bool) {
	if e == nil || e.Attributes == nil {
		return "", false
	}
	v, ok := e.Attributes[strings.ToLower(name)]
	return v, ok
}

// Style 在首次访问时解析 style 属性，返回扁平的属性表（键为小写）。
func (e *Element) Style() map[string]string {
	if e == nil {
		return nil
	}
	if !e.styleParsed {
		e.styleParsed = true
		if v, ok := e.Attributes["style"]; ok {
			e.style = css.ParseDeclarations(v)
		}
	}
	return e.style
}

// EndTag returns the closing markup for a start element.
func (e *Element) EndTag() string {
	return "</" + e.Name + ">"
}

// IsKnownTag reports whether name belongs to the supported inline tag set.
func IsKnownTag(name string) bool { return knownTags[strings.ToLower(name)] }
