package layout

import (
	"math"
	"testing"

	"github.com/ByLCY/richtext/css"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		mm := pt * PtToMm
		back := mm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt mm=%g back=%g diff=%g", pt, mm, back, diff)
		}
	}
	for _, px := range samples {
		back := px * PxToPt * PtToPx
		if diff := math.Abs(back - px); diff > 1e-9 {
			t.Fatalf("px→pt→px 往返误差过大: in=%gpx back=%g", px, back)
		}
	}
}

// TestResolveFontSize 覆盖 px / pt / em 三种单位以及缩放系数。
func TestResolveFontSize(t *testing.T) {
	cases := []struct {
		in      css.Length
		current float64
		scale   float64
		want    float64
	}{
		{css.Length{Value: 16, Unit: css.UnitPx}, 10, 1, 12},
		{css.Length{Value: 16, Unit: css.UnitPx}, 10, 2, 24},
		{css.Length{Value: 14, Unit: css.UnitPt}, 10, 1.5, 21},
		{css.Length{Value: 2, Unit: css.UnitEm}, 10, 3, 20},
	}
	for _, c := range cases {
		if got := ResolveFontSize(c.in, c.current, c.scale); math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("ResolveFontSize(%v%s) 期望 %g，实际 %g", c.in.Value, c.in.Unit, c.want, got)
		}
	}
}
