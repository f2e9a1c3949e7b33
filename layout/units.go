package layout

import "github.com/ByLCY/richtext/css"

// This file defines unit conversions shared by the cascade, the builder and renderers.

// Conversion constants between pt, px and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
	PxToPt = 0.75
	PtToPx = 1.0 / PxToPt
	PxToMm = PxToPt * PtToMm
)

// ScreenDPI 是 px 换算所依据的屏幕分辨率。
const ScreenDPI = 96.0

// ResolveFontSize converts a CSS font-size to points.
// px and pt are multiplied by fontScale; em is relative to current.
func ResolveFontSize(l css.Length, current, fontScale float64) float64 {
	switch l.Unit {
	case css.UnitPx:
		return l.Value * PxToPt * fontScale
	case css.UnitPt:
		return l.Value * fontScale
	case css.UnitEm:
		return l.Value * current
	default:
		return current
	}
}
