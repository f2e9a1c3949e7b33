package css

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Transparent 是完全透明的颜色，背景色为它时不绘制背景矩形。
var Transparent = color.NRGBA{}

// ParseColor 解析颜色值，支持：
//   - #RGB / #RRGGBB / #AARRGGBB
//   - rgb(r, g, b) 与 rgba(r, g, b, a)，a ∈ [0,1]
//   - CSS 颜色名（含 transparent）
func ParseColor(value string) (color.NRGBA, error) {
	v, err := parseColorValue(value)
	if err != nil {
		return color.NRGBA{}, err
	}
	switch {
	case v.Hex != nil:
		return parseHex(*v.Hex)
	case v.Func != nil:
		return v.Func.toColor()
	case v.Name != nil:
		name := strings.ToLower(*v.Name)
		if name == "transparent" {
			return Transparent, nil
		}
		c, ok := colornames.Map[name]
		if !ok {
			return color.NRGBA{}, fmt.Errorf("%w: unknown colour name %q", ErrInvalidValue, *v.Name)
		}
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	return color.NRGBA{}, fmt.Errorf("%w: colour %q", ErrInvalidValue, value)
}

func parseHex(value string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(value, "#")
	switch len(hex) {
	case 3:
		r, g, b := hexByte(hex[0:1]+hex[0:1]), hexByte(hex[1:2]+hex[1:2]), hexByte(hex[2:3]+hex[2:3])
		return color.NRGBA{R: r, G: g, B: b, A: 0xFF}, nil
	case 6:
		return color.NRGBA{R: hexByte(hex[0:2]), G: hexByte(hex[2:4]), B: hexByte(hex[4:6]), A: 0xFF}, nil
	case 8:
		// 与报表格式一致：alpha 在前（AARRGGBB）。
		return color.NRGBA{A: hexByte(hex[0:2]), R: hexByte(hex[2:4]), G: hexByte(hex[4:6]), B: hexByte(hex[6:8])}, nil
	default:
		return color.NRGBA{}, fmt.Errorf("%w: hex colour %q", ErrInvalidValue, value)
	}
}

func hexByte(s string) uint8 {
	v, _ := strconv.ParseUint(s, 16, 8)
	return uint8(v)
}

func (f *colorFunc) toColor() (color.NRGBA, error) {
	name := strings.ToLower(f.Name)
	switch {
	case name == "rgb" && len(f.Args) == 3:
		return color.NRGBA{R: channel(f.Args[0]), G: channel(f.Args[1]), B: channel(f.Args[2]), A: 0xFF}, nil
	case name == "rgba" && len(f.Args) == 4:
		a := math.Max(0, math.Min(1, f.Args[3]))
		return color.NRGBA{R: channel(f.Args[0]), G: channel(f.Args[1]), B: channel(f.Args[2]), A: uint8(math.Round(a * 255))}, nil
	}
	return color.NRGBA{}, fmt.Errorf("%w: %s() takes %d arguments", ErrInvalidValue, name, len(f.Args))
}

func channel(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}

// IsTransparent reports whether c has no visible alpha.
func IsTransparent(c color.NRGBA) bool { return c.A == 0 }
