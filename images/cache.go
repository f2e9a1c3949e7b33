// Package images loads inline images for rich text from http(s) URLs and
// base64 data URIs, caching decoded results.
package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/singleflight"
)

// ErrUnsupportedSource 表示 src 既不是 http(s) 地址也不是 base64 data URI。
var ErrUnsupportedSource = errors.New("images: unsupported image source")

// DefaultMaxBytes 是单张图片允许下载的最大字节数。
const DefaultMaxBytes = 16 << 20

// DefaultFailureTTL 是加载失败的 src 直接返回占位图、不再重试的时长。
const DefaultFailureTTL = time.Minute

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger used for load failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) { c.log = l }
}

// WithHTTPClient replaces the client used for http and https sources.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Cache) { c.client = client }
}

// WithMaxBytes limits the size of downloaded images.
func WithMaxBytes(n int64) Option {
	return func(c *Cache) { c.maxBytes = n }
}

// WithFailureTTL 设置失败记录的有效期；d <= 0 时每次都重新加载失败的 src。
func WithFailureTTL(d time.Duration) Option {
	return func(c *Cache) { c.failureTTL = d }
}

// Cache 按 src 缓存解码后的图片，可并发使用。同一 src 的并发首次加载只会请求一次。
// 加载失败的 src 在 failureTTL 内返回占位图，过期后重新加载。
type Cache struct {
	mu         sync.RWMutex
	images     map[string]image.Image
	failed     map[string]time.Time // src -> 失败记录过期时间
	group      singleflight.Group
	client     *http.Client
	log        *slog.Logger
	maxBytes   int64
	failureTTL time.Duration
	now        func() time.Time
}

// NewCache creates an empty cache.
func NewCache(opts ...Option) *Cache {
	c := &Cache{
		images:     make(map[string]image.Image),
		failed:     make(map[string]time.Time),
		client:     &http.Client{Timeout: 30 * time.Second},
		log:        slog.Default(),
		maxBytes:   DefaultMaxBytes,
		failureTTL: DefaultFailureTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Image 返回 src 对应的图片；任何失败都返回占位图。
func (c *Cache) Image(src string) image.Image {
	if img, ok := c.lookup(src); ok {
		return img
	}

	v, _, _ := c.group.Do(src, func() (any, error) {
		if img, ok := c.lookup(src); ok {
			return img, nil
		}
		img, err := c.decode(context.Background(), src)
		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			c.log.Warn("images: 加载失败，使用占位图", "src", abbreviate(src), "err", err)
			if c.failureTTL > 0 {
				c.failed[src] = c.now().Add(c.failureTTL)
			}
			return Placeholder(), nil
		}
		delete(c.failed, src)
		c.images[src] = img
		return img, nil
	})
	return v.(image.Image)
}

// lookup 返回已缓存的图片，或仍在有效期内的失败记录对应的占位图。
func (c *Cache) lookup(src string) (image.Image, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if img, ok := c.images[src]; ok {
		return img, true
	}
	if until, ok := c.failed[src]; ok && c.now().Before(until) {
		return Placeholder(), true
	}
	return nil, false
}

// Put stores a decoded image under src, e.g. for images registered by the caller.
func (c *Cache) Put(src string, img image.Image) {
	c.mu.Lock()
	c.images[src] = img
	c.mu.Unlock()
}

// Len returns the number of cached images; failed sources are not counted.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

func (c *Cache) decode(ctx context.Context, src string) (image.Image, error) {
	data, err := c.LoadContext(ctx, src)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Load returns the raw bytes of src.
func (c *Cache) Load(src string) ([]byte, error) {
	return c.LoadContext(context.Background(), src)
}

// LoadContext 只接受 http、https 与 base64 data URI；其余返回 ErrUnsupportedSource。
func (c *Cache) LoadContext(ctx context.Context, src string) ([]byte, error) {
	switch {
	case IsDataURI(src):
		return DecodeDataURI(src)
	case hasScheme(src, "http"), hasScheme(src, "https"):
		return c.fetch(ctx, src)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSource, abbreviate(src))
	}
}

func (c *Cache) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("images: 构造请求失败: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("images: 请求 %s 失败: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("images: 请求 %s 返回 %s", url, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("images: 读取 %s 失败: %w", url, err)
	}
	if int64(len(data)) > c.maxBytes {
		return nil, fmt.Errorf("images: %s 超过 %d 字节", url, c.maxBytes)
	}
	return data, nil
}

// Decode decodes PNG, JPEG, GIF, BMP or WebP data.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("images: 解码失败: %w", err)
	}
	return img, nil
}

func hasScheme(src, scheme string) bool {
	return len(src) > len(scheme) && src[len(scheme)] == ':' && strings.EqualFold(src[:len(scheme)], scheme)
}

func abbreviate(src string) string {
	if len(src) > 64 {
		return src[:64] + "..."
	}
	return src
}
