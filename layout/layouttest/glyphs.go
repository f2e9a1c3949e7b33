// Package layouttest provides deterministic collaborators for layout tests.
package layouttest

import (
	"image"

	"github.com/ByLCY/richtext/layout"
)

// Monospace 是等宽字形度量：每个字符宽 EffectiveSize/10，
// 行高 1.2 倍、上部 0.9 倍、下部 0.3 倍（同样按 EffectiveSize/10）。
// 10pt 正文因此每字宽 1、行高 1.2。粗体不改变宽度。
type Monospace struct{}

var _ layout.GlyphProvider = Monospace{}

// MeasureText implements layout.GlyphProvider.
func (Monospace) MeasureText(text string, style layout.StyleDescriptor) float64 {
	return float64(len([]rune(text))) * unit(style)
}

// FontMetrics implements layout.GlyphProvider.
func (Monospace) FontMetrics(style layout.StyleDescriptor) layout.FontMetrics {
	u := unit(style)
	return layout.FontMetrics{LineHeight: 1.2 * u, Ascent: 0.9 * u, Descent: 0.3 * u}
}

func unit(style layout.StyleDescriptor) float64 { return style.EffectiveSize() / 10 }

// Images 按 src 返回固定尺寸的图片；未登记的 src 返回 nil，由排版使用占位图。
type Images map[string]image.Rectangle

// Image implements layout.ImageSource.
func (m Images) Image(src string) image.Image {
	r, ok := m[src]
	if !ok {
		return nil
	}
	return image.NewNRGBA(r)
}

// Options returns layout defaults wired to Monospace with the given width.
func Options(width float64) layout.Options {
	opts := layout.DefaultOptions()
	opts.Width = width
	opts.Glyphs = Monospace{}
	opts.Tabs = layout.TabStops{Sizes: []float64{4}}
	return opts
}
