package images

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.SetNRGBA(0, 0, color.NRGBA{R: 0xff, A: 0xff})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLoadDataURI(t *testing.T) {
	data := pngBytes(t, 3, 2)
	src := "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
	require.True(t, IsDataURI(src))

	got, err := NewCache().Load(src)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	img := NewCache().Image(src)
	assert.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())
}

func TestIsDataURI(t *testing.T) {
	assert.True(t, IsDataURI("DATA:image/png;BASE64,AAAA"))
	assert.False(t, IsDataURI("data:image/svg+xml,<svg/>"))
	assert.False(t, IsDataURI("http://example.com/a.png"))
	assert.False(t, IsDataURI("data"))
}

func TestLoadUnsupportedSource(t *testing.T) {
	c := NewCache()
	for _, src := range []string{"file:///etc/passwd", "a.png", "ftp://host/x.png", "data:text/plain,hello", ""} {
		_, err := c.Load(src)
		assert.ErrorIs(t, err, ErrUnsupportedSource, src)
	}
}

func TestImageFallsBackToPlaceholder(t *testing.T) {
	c := NewCache()
	assert.Same(t, Placeholder(), c.Image("a.png"))
	assert.Same(t, Placeholder(), c.Image("data:image/png;base64,bm90IGFuIGltYWdl"))
	assert.Equal(t, 0, c.Len())
}

func TestFailedLoadIsRetriedAfterTTL(t *testing.T) {
	data := pngBytes(t, 2, 2)
	var hits atomic.Int32
	var broken atomic.Bool
	broken.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if broken.Load() {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	now := time.Unix(0, 0)
	c := NewCache(WithHTTPClient(srv.Client()), WithFailureTTL(time.Minute))
	c.now = func() time.Time { return now }
	src := srv.URL + "/a.png"

	assert.Same(t, Placeholder(), c.Image(src))
	broken.Store(false)
	// 有效期内不重试
	assert.Same(t, Placeholder(), c.Image(src))
	assert.Equal(t, int32(1), hits.Load())

	now = now.Add(2 * time.Minute)
	assert.Equal(t, image.Rect(0, 0, 2, 2), c.Image(src).Bounds())
	assert.Equal(t, int32(2), hits.Load())
	assert.Equal(t, 1, c.Len())

	// 成功后不再访问网络
	assert.Equal(t, image.Rect(0, 0, 2, 2), c.Image(src).Bounds())
	assert.Equal(t, int32(2), hits.Load())
}

func TestFailureTTLDisabled(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewCache(WithHTTPClient(srv.Client()), WithFailureTTL(0))
	c.Image(srv.URL)
	c.Image(srv.URL)
	assert.Equal(t, int32(2), hits.Load())
}

func TestImageOverHTTP(t *testing.T) {
	data := pngBytes(t, 5, 4)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	c := NewCache(WithHTTPClient(srv.Client()))
	var wg sync.WaitGroup
	results := make([]image.Image, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.Image(srv.URL + "/a.png")
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), hits.Load())
	for _, img := range results {
		assert.Equal(t, image.Rect(0, 0, 5, 4), img.Bounds())
	}

	_, err := c.Load(srv.URL + "/missing.png")
	assert.Error(t, err)
	assert.Same(t, Placeholder(), c.Image(srv.URL+"/missing.png"))
}

func TestLoadRespectsMaxBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, 100))
	}))
	defer srv.Close()

	_, err := NewCache(WithHTTPClient(srv.Client()), WithMaxBytes(10)).Load(srv.URL)
	assert.Error(t, err)
}

func TestPlaceholder(t *testing.T) {
	p := Placeholder()
	assert.Equal(t, image.Rect(0, 0, PlaceholderSize, PlaceholderSize), p.Bounds())
	assert.Same(t, p, Placeholder())
}
