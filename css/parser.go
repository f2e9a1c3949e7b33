// Package css parses the small subset of CSS-like declarations accepted in
// inline `style` attributes: colours, font sizes and font families.
package css

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// ErrInvalidValue 表示属性值无法解析；调用方应忽略该属性而不是整个声明块。
var ErrInvalidValue = errors.New("css: invalid value")

var (
	valueLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "Hex", Pattern: `#[0-9A-Fa-f]+`},
		{Name: "Number", Pattern: `[-+]?(?:\d+\.?\d*|\.\d+)`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Percent", Pattern: `%`},
		{Name: "Punct", Pattern: `[(),]`},
	})

	colorParser = participle.MustBuild[colorValue](
		participle.Lexer(valueLexer),
		participle.Elide("Whitespace"),
		participle.CaseInsensitive("Ident"),
		participle.UseLookahead(2),
	)

	lengthParser = participle.MustBuild[lengthValue](
		participle.Lexer(valueLexer),
		participle.Elide("Whitespace"),
		participle.CaseInsensitive("Ident"),
	)
)

// colorValue is one of `#hex`, `rgb(...)`, `rgba(...)` or a colour name.
type colorValue struct {
	Func *colorFunc `parser:"  @@"`
	Hex  *string    `parser:"| @Hex"`
	Name *string    `parser:"| @Ident"`
}

type colorFunc struct {
	Name string    `parser:"@('rgba' | 'rgb') '('"`
	Args []float64 `parser:"@Number ( ',' @Number )* ')'"`
}

// lengthValue is a number with an optional unit suffix (12px, 1.5em, 10pt).
type lengthValue struct {
	Value float64 `parser:"@Number"`
	Unit  string  `parser:"@(Ident | Percent)?"`
}

func parseColorValue(s string) (*colorValue, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty colour", ErrInvalidValue)
	}
	v, err := colorParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("%w: colour %q: %v", ErrInvalidValue, s, err)
	}
	return v, nil
}

func parseLengthValue(s string) (*lengthValue, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty length", ErrInvalidValue)
	}
	v, err := lengthParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("%w: length %q: %v", ErrInvalidValue, s, err)
	}
	return v, nil
}
