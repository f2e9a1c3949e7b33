// Package entity decodes HTML character references (&amp;, &#169;, &#x1F600;)
// found while tokenizing inline markup.
package entity

import (
	"unicode/utf8"

	"golang.org/x/net/html"
)

// maxNameLen 是 HTML5 表中最长名称（CounterClockwiseContourIntegral）的长度。
const maxNameLen = 32

// Decode 从 text[pos] 处（必须是 '&'）解析一个字符引用。
// 成功时返回码点与 ';' 之后的位置；失败时 ok 为 false，pos 不前移。
func Decode(text []rune, pos int) (r rune, next int, ok bool) {
	if pos < 0 || pos >= len(text) || text[pos] != '&' {
		return 0, pos, false
	}
	i := pos + 1
	if i < len(text) && text[i] == '#' {
		return decodeNumeric(text, pos)
	}
	start := i
	for i < len(text) && i-start <= maxNameLen && isNameRune(text[i]) {
		i++
	}
	if i == start || i >= len(text) || text[i] != ';' {
		return 0, pos, false
	}
	r, ok = Lookup(string(text[start:i]))
	if !ok {
		return 0, pos, false
	}
	return r, i + 1, true
}

// DecodeString 是 Decode 的字符串版本，pos 与返回值均为字节偏移。
func DecodeString(s string, pos int) (r rune, next int, ok bool) {
	if pos < 0 || pos >= len(s) || s[pos] != '&' {
		return 0, pos, false
	}
	end := pos + 1
	for end < len(s) && end-pos <= maxNameLen+10 && s[end] != ';' {
		end++
	}
	if end >= len(s) {
		return 0, pos, false
	}
	runes := []rune(s[pos : end+1])
	r, n, ok := Decode(runes, 0)
	if !ok || n != len(runes) {
		return 0, pos, false
	}
	return r, end + 1, true
}

// Lookup 返回命名引用（不含 '&' 与 ';'）对应的码点。
// 展开为多个码点的名称（例如 NotEqualTilde）视为未知。
func Lookup(name string) (rune, bool) {
	if name == "" || len(name) > maxNameLen {
		return 0, false
	}
	for i := 0; i < len(name); i++ {
		if !isNameRune(rune(name[i])) {
			return 0, false
		}
	}
	ref := "&" + name + ";"
	out := html.UnescapeString(ref)
	if out == ref {
		return 0, false
	}
	r, size := utf8.DecodeRuneInString(out)
	if r == utf8.RuneError || size != len(out) {
		return 0, false
	}
	return r, true
}

func decodeNumeric(text []rune, pos int) (rune, int, bool) {
	i := pos + 2
	base := rune(10)
	if i < len(text) && (text[i] == 'x' || text[i] == 'X') {
		base = 16
		i++
	}
	start := i
	var v rune
	for i < len(text) {
		d, isDigit := digitValue(text[i], base)
		if !isDigit {
			break
		}
		v = v*base + d
		if v > utf8.MaxRune {
			return 0, pos, false
		}
		i++
	}
	if i == start || i >= len(text) || text[i] != ';' {
		return 0, pos, false
	}
	if v == 0 || (v >= 0xD800 && v <= 0xDFFF) {
		return 0, pos, false
	}
	return v, i + 1, true
}

func digitValue(r rune, base rune) (rune, bool) {
	switch {
	case r >= '0' && r <= '9':
		return r - '0', true
	case base == 16 && r >= 'a' && r <= 'f':
		return r - 'a' + 10, true
	case base == 16 && r >= 'A' && r <= 'F':
		return r - 'A' + 10, true
	}
	return 0, false
}

func isNameRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
