package images

import (
	"image"
	"image/color"
	"sync"
)

// PlaceholderSize 是占位图的边长（px）。
const PlaceholderSize = 16

var (
	placeholderOnce sync.Once
	placeholder     *image.NRGBA
)

// Placeholder 返回加载失败时使用的占位图：浅灰底、深灰边框。
func Placeholder() image.Image {
	placeholderOnce.Do(func() {
		img := image.NewNRGBA(image.Rect(0, 0, PlaceholderSize, PlaceholderSize))
		fill := color.NRGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}
		border := color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
		for y := 0; y < PlaceholderSize; y++ {
			for x := 0; x < PlaceholderSize; x++ {
				c := fill
				if x == 0 || y == 0 || x == PlaceholderSize-1 || y == PlaceholderSize-1 {
					c = border
				}
				img.SetNRGBA(x, y, c)
			}
		}
		placeholder = img
	})
	return placeholder
}
