package renderer

import "github.com/ByLCY/richtext/layout"

// Renderer 把排好的页面输出为最终文件（例如 PDF）。
// 每个 Result 占一页。
type Renderer interface {
	Render(pages ...*layout.Result) ([]byte, error)
}

// Backend 同时负责度量与输出：排版时提供字形度量，排版后绘制同一套字体。
// 度量与绘制使用同一后端，保证换行位置与最终输出一致。
type Backend interface {
	Renderer
	layout.GlyphProvider
}
