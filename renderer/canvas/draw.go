package canvasrenderer

import (
	"fmt"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/richtext/layout"
)

// DrawOptions 指定排版结果在画布上的位置。坐标系为左上角原点（CartesianIV），单位 mm。
type DrawOptions struct {
	// X/Y 是目标矩形左上角。
	X, Y float64
	// Angle 是绕目标矩形中心的旋转角度（度）。
	Angle float64
	// Clip 为 true 时不绘制底部超出目标高度的行。
	Clip bool
}

const clipEpsilon = 1e-6

// Draw 依次绘制背景、文本与图片、装饰线。
func (r *Renderer) Draw(ctx *canvas.Context, res *layout.Result, opts DrawOptions) error {
	if res == nil {
		return fmt.Errorf("渲染结果为空")
	}
	if opts.Angle != 0 {
		ctx.Push()
		defer ctx.Pop()
		cx, cy := opts.X+res.Width/2, opts.Y+res.Height/2
		ctx.ComposeView(canvas.Identity.RotateAbout(opts.Angle, cx, cy))
	}

	for _, line := range res.Lines() {
		if opts.Clip && res.Height > 0 && line.Top+line.Height > res.Height+clipEpsilon {
			break
		}
		r.drawBackgrounds(ctx, line, opts)
		r.drawRuns(ctx, line, res.RightToLeft, opts)
		r.drawDecorations(ctx, line, opts)
	}
	return nil
}

func (r *Renderer) drawBackgrounds(ctx *canvas.Context, line *layout.Line, opts DrawOptions) {
	for _, bg := range line.Backgrounds {
		ctx.SetFillColor(bg.Color)
		ctx.SetStrokeColor(canvas.Transparent)
		ctx.DrawPath(opts.X+bg.X, opts.Y+bg.Y, canvas.Rectangle(bg.Width, bg.Height))
	}
}

func (r *Renderer) drawRuns(ctx *canvas.Context, line *layout.Line, rtl bool, opts DrawOptions) {
	baseline := opts.Y + line.Top + line.Baseline
	for _, w := range line.Words {
		if w.Type != layout.WordNormal {
			continue
		}
		for _, run := range w.Runs {
			x := run.Left
			if rtl {
				x -= run.Width
			}
			x += opts.X
			switch run.Kind {
			case layout.RunImage:
				if run.Image == nil || run.Width <= 0 {
					continue
				}
				dpmm := float64(run.Image.Bounds().Dx()) / run.Width
				if dpmm <= 0 {
					dpmm = 1
				}
				ctx.DrawImage(x, baseline-run.Baseline, run.Image, canvas.DPMM(dpmm))
			default:
				face := r.face(run.Style, run.Style.Color)
				ctx.DrawText(x, baseline+run.Shift, canvas.NewTextLine(face, run.Text, canvas.Left))
			}
		}
	}
}

func (r *Renderer) drawDecorations(ctx *canvas.Context, line *layout.Line, opts DrawOptions) {
	for _, d := range line.Decorations {
		ctx.SetFillColor(d.Color)
		ctx.SetStrokeColor(canvas.Transparent)
		ctx.DrawPath(opts.X+d.X, opts.Y+d.Y-d.Thickness/2, canvas.Rectangle(d.Width, d.Thickness))
	}
}
