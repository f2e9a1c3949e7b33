// Package markup tokenizes text with the inline tag subset used by rich text
// objects: b, i, u, sub, sup, strike, img, span and br, plus character references.
package markup

import (
	"strings"

	"github.com/ByLCY/richtext/entity"
)

// Reader 逐个产出字符或标签。Read 返回 true 表示字符，false 表示标签（或已到结尾）。
// Reader 同时维护当前打开的标签栈。
type Reader struct {
	text []rune
	pos  int

	tokenPos  int
	charCount int

	char      rune
	charIndex int
	elem      *Element

	stack []*Element
}

// NewReader creates a reader over text.
func NewReader(text string) *Reader {
	return &Reader{text: []rune(text), charIndex: -1}
}

// Done reports whether the whole input has been consumed.
func (r *Reader) Done() bool { return r.pos >= len(r.text) }

// Character returns the rune of the last character token.
func (r *Reader) Character() rune { return r.char }

// CharIndex 返回最近一个字符 token 的序号（标签不计数，实体与 <br> 各计一个字符）。
func (r *Reader) CharIndex() int { return r.charIndex }

// Element returns the last tag token, or nil after a character token.
func (r *Reader) Element() *Element { return r.elem }

// Position returns the rune offset where the last token started.
func (r *Reader) Position() int { return r.tokenPos }

// Offset returns the rune offset just past the last token.
func (r *Reader) Offset() int { return r.pos }

// Source returns the runes of the input between two offsets.
func (r *Reader) Source(from, to int) string {
	from = max(0, min(from, len(r.text)))
	to = max(from, min(to, len(r.text)))
	return string(r.text[from:to])
}

// Stack returns the currently open elements, outermost first.
// The slice must not be modified by the caller.
func (r *Reader) Stack() []*Element { return r.stack }

// Depth returns the number of open elements.
func (r *Reader) Depth() int { return len(r.stack) }

// Read 读取下一个 token。
func (r *Reader) Read() bool {
	r.elem = nil
	if r.Done() {
		return false
	}
	r.tokenPos = r.pos
	c := r.text[r.pos]
	switch c {
	case '<':
		if el, end, ok := r.parseTag(r.pos); ok {
			r.pos = end
			if el.Name == "br" {
				return r.emitChar('\n')
			}
			r.elem = el
			r.updateStack(el)
			return false
		}
	case '&':
		if ch, next, ok := entity.Decode(r.text, r.pos); ok {
			r.pos = next
			return r.emitChar(ch)
		}
	}
	r.pos++
	return r.emitChar(c)
}

func (r *Reader) emitChar(c rune) bool {
	r.char = c
	r.charIndex = r.charCount
	r.charCount++
	return true
}

func (r *Reader) updateStack(el *Element) {
	switch {
	case el.IsEnd:
		for i := len(r.stack) - 1; i >= 0; i-- {
			if r.stack[i].Name == el.Name {
				r.stack = r.stack[:i]
				return
			}
		}
	case !el.IsSelfClosed:
		r.stack = append(r.stack, el)
	}
}

// parseTag 尝试从 start（'<'）解析一个标签；格式错误时返回 ok=false，调用方把 '<' 当作普通字符。
func (r *Reader) parseTag(start int) (*Element, int, bool) {
	t := r.text
	i := start + 1
	el := &Element{Position: start}
	if i < len(t) && t[i] == '/' {
		el.IsEnd = true
		i++
	}
	nameStart := i
	for i < len(t) && isASCIILetter(t[i]) {
		i++
	}
	if i == nameStart || i >= len(t) {
		return nil, 0, false
	}
	if !isSpace(t[i]) && t[i] != '>' && t[i] != '/' {
		return nil, 0, false
	}
	el.Name = strings.ToLower(string(t[nameStart:i]))
	if !knownTags[el.Name] {
		return nil, 0, false
	}

	for {
		i = skipSpaces(t, i)
		if i >= len(t) {
			return nil, 0, false
		}
		switch {
		case t[i] == '>':
			i++
			if voidTags[el.Name] {
				el.IsSelfClosed = true
			}
			el.Raw = string(t[start:i])
			return el, i, true
		case t[i] == '/' && i+1 < len(t) && t[i+1] == '>':
			if el.IsEnd {
				return nil, 0, false
			}
			i += 2
			el.IsSelfClosed = true
			el.Raw = string(t[start:i])
			return el, i, true
		}
		if el.IsEnd {
			return nil, 0, false
		}
		name, value, next, ok := parseAttribute(t, i)
		if !ok {
			return nil, 0, false
		}
		if el.Attributes == nil {
			el.Attributes = map[string]string{}
		}
		el.Attributes[name] = value
		i = next
	}
}

func parseAttribute(t []rune, i int) (name, value string, next int, ok bool) {
	nameStart := i
	for i < len(t) && isAttrNameRune(t[i]) {
		i++
	}
	if i == nameStart {
		return "", "", 0, false
	}
	name = strings.ToLower(string(t[nameStart:i]))
	j := skipSpaces(t, i)
	if j >= len(t) || t[j] != '=' {
		// 布尔属性，例如 <img ismap>
		return name, "", i, true
	}
	j = skipSpaces(t, j+1)
	if j >= len(t) {
		return "", "", 0, false
	}
	if q := t[j]; q == '"' || q == '\'' {
		end := j + 1
		for end < len(t) && t[end] != q {
			end++
		}
		if end >= len(t) {
			return "", "", 0, false
		}
		return name, decodeEntities(t[j+1 : end]), end + 1, true
	}
	end := j
	for end < len(t) && !isSpace(t[end]) && t[end] != '>' && !(t[end] == '/' && end+1 < len(t) && t[end+1] == '>') {
		end++
	}
	if end == j {
		return "", "", 0, false
	}
	return name, decodeEntities(t[j:end]), end, true
}

func decodeEntities(v []rune) string {
	var b strings.Builder
	for i := 0; i < len(v); {
		if v[i] == '&' {
			if c, next, ok := entity.Decode(v, i); ok {
				b.WriteRune(c)
				i = next
				continue
			}
		}
		b.WriteRune(v[i])
		i++
	}
	return b.String()
}

func skipSpaces(t []rune, i int) int {
	for i < len(t) && isSpace(t[i]) {
		i++
	}
	return i
}

func isSpace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isASCIILetter(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAttrNameRune(c rune) bool {
	return isASCIILetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_' || c == ':'
}

// Len returns the length of the input in runes.
func (r *Reader) Len() int { return len(r.text) }
