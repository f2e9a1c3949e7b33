package css

import (
	"fmt"
	"strings"

	"github.com/aymerick/douceur/parser"
	"github.com/gorilla/css/scanner"
)

// Unit 是 font-size 支持的单位。
type Unit int

const (
	UnitPx Unit = iota
	UnitPt
	UnitEm
)

func (u Unit) String() string {
	switch u {
	case UnitPx:
		return "px"
	case UnitPt:
		return "pt"
	case UnitEm:
		return "em"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64
	Unit  Unit
}

// ParseLength 解析 px / pt / em 长度；缺少单位或单位未知时返回 ErrInvalidValue。
func ParseLength(value string) (Length, error) {
	v, err := parseLengthValue(value)
	if err != nil {
		return Length{}, err
	}
	switch strings.ToLower(v.Unit) {
	case "px":
		return Length{Value: v.Value, Unit: UnitPx}, nil
	case "pt":
		return Length{Value: v.Value, Unit: UnitPt}, nil
	case "em":
		return Length{Value: v.Value, Unit: UnitEm}, nil
	}
	return Length{}, fmt.Errorf("%w: unit %q in %q", ErrInvalidValue, v.Unit, value)
}

// ParseDeclarations 将 `key: value; key2: value2` 解析为扁平的属性表。
// 声明逐条交给 douceur 解析，被拒绝的声明单独丢弃，不影响其余属性。
// 键统一小写；重复的键以后出现者为准。
func ParseDeclarations(style string) map[string]string {
	props := map[string]string{}
	for _, decl := range splitDeclarations(style) {
		// douceur 要求声明以分号结尾
		parsed, err := parser.ParseDeclarations(decl + ";")
		if err != nil {
			continue
		}
		for _, d := range parsed {
			key := strings.ToLower(strings.TrimSpace(d.Property))
			if key == "" || d.Value == "" {
				continue
			}
			props[key] = d.Value
		}
	}
	return props
}

// splitDeclarations 用 CSS 词法器按顶层分号切分；字符串与 url() 内的分号不是分隔符。
func splitDeclarations(style string) []string {
	var out []string
	var cur strings.Builder
	emit := func() {
		if strings.TrimSpace(cur.String()) != "" {
			out = append(out, cur.String())
		}
		cur.Reset()
	}
	s := scanner.New(style)
	for {
		tok := s.Next()
		switch {
		case tok.Type == scanner.TokenEOF || tok.Type == scanner.TokenError:
			emit()
			return out
		case tok.Type == scanner.TokenChar && tok.Value == ";":
			emit()
		default:
			cur.WriteString(tok.Value)
		}
	}
}

// ParseFontFamily 取逗号分隔列表中的第一个字体名并去掉包围的引号。
func ParseFontFamily(value string) string {
	first := value
	if i := strings.IndexByte(value, ','); i >= 0 && !strings.ContainsAny(value[:i], `"'`) {
		first = value[:i]
	} else if len(value) > 0 && (value[0] == '"' || value[0] == '\'') {
		if end := strings.IndexByte(value[1:], value[0]); end >= 0 {
			first = value[:end+2]
		}
	}
	first = strings.TrimSpace(first)
	if len(first) >= 2 && (first[0] == '"' || first[0] == '\'') && first[len(first)-1] == first[0] {
		first = first[1 : len(first)-1]
	}
	return strings.TrimSpace(first)
}
