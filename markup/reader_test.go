package markup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tokens 把输入转成便于断言的 token 描述。
func tokens(text string) []string {
	r := NewReader(text)
	var out []string
	for !r.Done() {
		if r.Read() {
			out = append(out, "'"+string(r.Character())+"'")
			continue
		}
		el := r.Element()
		if el == nil {
			continue
		}
		switch {
		case el.IsEnd:
			out = append(out, "</"+el.Name+">")
		case el.IsSelfClosed:
			out = append(out, "<"+el.Name+"/>")
		default:
			out = append(out, "<"+el.Name+">")
		}
	}
	return out
}

func TestReaderTokens(t *testing.T) {
	got := tokens(`a<b>c</b><I>d</i>`)
	assert.Equal(t, []string{"'a'", "<b>", "'c'", "</b>", "<i>", "'d'", "</i>"}, got)
}

func TestReaderBreakAndEntities(t *testing.T) {
	got := tokens(`x<br>y<br/>&lt;&#65;&bogus;`)
	assert.Equal(t, []string{"'x'", "'\n'", "'y'", "'\n'", "'<'", "'A'", "'&'", "'b'", "'o'", "'g'", "'u'", "'s'", "';'"}, got)
}

func TestReaderMalformedTagsAreText(t *testing.T) {
	for _, in := range []string{`<p>`, `< b>`, `<b`, `<b x="1>`, `<b1>`, `<font color=red>`, `</b x>`, `a<`} {
		r := NewReader(in)
		var b strings.Builder
		for !r.Done() {
			require.True(t, r.Read(), in)
			b.WriteRune(r.Character())
		}
		assert.Equal(t, in, b.String())
	}
}

func TestReaderAttributes(t *testing.T) {
	r := NewReader(`<img src="a.png?x=1&amp;y=2" width=20 HEIGHT='10'/><span style="color: red; font-size: 12px">`)
	require.False(t, r.Read())
	img := r.Element()
	require.NotNil(t, img)
	assert.Equal(t, "img", img.Name)
	assert.True(t, img.IsSelfClosed)
	src, ok := img.Attr("src")
	assert.True(t, ok)
	assert.Equal(t, "a.png?x=1&y=2", src)
	w, _ := img.Attr("width")
	h, _ := img.Attr("height")
	assert.Equal(t, "20", w)
	assert.Equal(t, "10", h)
	assert.Equal(t, 0, r.Depth())

	require.False(t, r.Read())
	span := r.Element()
	require.NotNil(t, span)
	assert.Equal(t, map[string]string{"color": "red", "font-size": "12px"}, span.Style())
	assert.Equal(t, 1, r.Depth())
}

func TestReaderImgWithoutSlashIsSelfClosed(t *testing.T) {
	r := NewReader(`<img src=x.png>`)
	require.False(t, r.Read())
	assert.True(t, r.Element().IsSelfClosed)
	assert.Equal(t, 0, r.Depth())
	assert.Equal(t, `<img src=x.png>`, r.Element().Raw)
}

func TestReaderStackPopsToMatchingTag(t *testing.T) {
	r := NewReader(`<b><i><u>x</i>y</u>z</b>`)
	var depths []int
	for !r.Done() {
		r.Read()
		depths = append(depths, r.Depth())
	}
	// <b> <i> <u> x </i> y </u>(无匹配，丢弃) z </b>
	assert.Equal(t, []int{1, 2, 3, 3, 1, 1, 1, 1, 0}, depths)
}

func TestReaderPositionsAndCharIndex(t *testing.T) {
	r := NewReader(`<b>ab</b>&amp;c`)
	type tok struct{ pos, idx int }
	var got []tok
	for !r.Done() {
		if r.Read() {
			got = append(got, tok{r.Position(), r.CharIndex()})
		}
	}
	assert.Equal(t, []tok{{3, 0}, {4, 1}, {9, 2}, {14, 3}}, got)
	assert.Equal(t, "&amp;", r.Source(9, 14))
}

func TestElementStyleIsLazy(t *testing.T) {
	el := &Element{Name: "span", Attributes: map[string]string{"style": "color:red"}}
	assert.False(t, el.styleParsed)
	assert.Equal(t, "red", el.Style()["color"])
	assert.True(t, el.styleParsed)

	var nilEl *Element
	assert.Nil(t, nilEl.Style())
	assert.True(t, IsKnownTag("STRIKE"))
	assert.False(t, IsKnownTag("font"))
}
