package canvasrenderer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/richtext/layout"
)

// Render 把每个排版结果绘制为 PDF 的一页，页面尺寸为目标矩形加上页边距。
func (r *Renderer) Render(pages ...*layout.Result) ([]byte, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	var buf bytes.Buffer
	var writer *pdf.PDF
	for i, res := range pages {
		if res == nil {
			return nil, fmt.Errorf("第 %d 页的排版结果为空", i+1)
		}
		width, height := r.pageSize(res)
		if i == 0 {
			writer = pdf.New(&buf, width, height, nil)
			r.applyMeta(writer)
		} else {
			writer.NewPage(width, height)
		}
		c := canvas.New(width, height)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与排版保持左上角为原点

		if err := r.Draw(ctx, res, DrawOptions{X: r.margin, Y: r.margin}); err != nil {
			return nil, err
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// pageSize 在目标矩形外加页边距；不限高度时按内容高度。
func (r *Renderer) pageSize(res *layout.Result) (float64, float64) {
	width := max(res.Width, res.ContentWidth)
	height := res.Height
	if height <= 0 {
		height = res.ContentHeight
	}
	return width + 2*r.margin, height + 2*r.margin
}

func (r *Renderer) applyMeta(writer *pdf.PDF) {
	if writer == nil {
		return
	}
	keywords := strings.Join(r.meta.Keywords, ", ")
	writer.SetInfo(r.meta.Title, r.meta.Subject, keywords, r.meta.Author, r.meta.Creator)
}
