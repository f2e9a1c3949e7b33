package layout

import "testing"

// TestTabStopsPosition 覆盖等距与逐个指定两种制表位模式。
func TestTabStopsPosition(t *testing.T) {
	uniform := TabStops{Sizes: []float64{4}}
	perIndex := TabStops{Sizes: []float64{2, 5}, PerIndex: true}
	offset := TabStops{Offset: 3, Sizes: []float64{4}}
	cases := []struct {
		name  string
		stops TabStops
		pos   float64
		index int
		want  float64
	}{
		{"uniform/start", uniform, 0, 0, 4},
		{"uniform/on-stop", uniform, 4, 0, 8},
		{"uniform/negative", uniform, -1, 0, 0},
		{"per-index/first", perIndex, 0.5, 0, 2},
		{"per-index/second", perIndex, 2.5, 1, 7},
		{"per-index/before-offset", perIndex, 1, 1, 2},
		{"per-index/beyond-list", perIndex, 0, 3, 12},
		{"offset/before", offset, 1, 0, 3},
		{"offset/after", offset, 3.5, 0, 7},
		{"no-sizes", TabStops{}, 5, 0, 5},
	}
	for _, c := range cases {
		if got := c.stops.Position(c.pos, c.index); got != c.want {
			t.Fatalf("%s: Position(%g, %d) 期望 %g，实际 %g", c.name, c.pos, c.index, c.want, got)
		}
	}
}
