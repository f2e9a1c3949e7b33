// Package fonts exposes the built-in font files (the Go font families from
// golang.org/x/image) used when no user font matches a style.
package fonts

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// 内置字体族名称。
const (
	Sans = "Go"
	Mono = "Go Mono"
)

var files = map[string][]byte{
	"Go-Regular.ttf":        goregular.TTF,
	"Go-Bold.ttf":           gobold.TTF,
	"Go-Italic.ttf":         goitalic.TTF,
	"Go-BoldItalic.ttf":     gobolditalic.TTF,
	"GoMono-Regular.ttf":    gomono.TTF,
	"GoMono-Bold.ttf":       gomonobold.TTF,
	"GoMono-Italic.ttf":     gomonoitalic.TTF,
	"GoMono-BoldItalic.ttf": gomonobolditalic.TTF,
}

// Family 列出一个内置字体族四种样式对应的文件名。
type Family struct {
	Name       string
	Regular    string
	Bold       string
	Italic     string
	BoldItalic string
}

// Families 是全部内置字体族。
var Families = []Family{
	{Name: Sans, Regular: "Go-Regular.ttf", Bold: "Go-Bold.ttf", Italic: "Go-Italic.ttf", BoldItalic: "Go-BoldItalic.ttf"},
	{Name: Mono, Regular: "GoMono-Regular.ttf", Bold: "GoMono-Bold.ttf", Italic: "GoMono-Italic.ttf", BoldItalic: "GoMono-BoldItalic.ttf"},
}

// Lookup 按名称（不区分大小写）查找内置字体族。
func Lookup(name string) (Family, bool) {
	for _, f := range Families {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return Family{}, false
}

// Load 返回内置字体的字节数据，path 可写为 "embed:Go-Regular.ttf" 或直接 "Go-Regular.ttf"。
func Load(path string) ([]byte, error) {
	name := strings.TrimPrefix(path, "embed:")
	data, ok := files[name]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 不存在", name)
	}
	return data, nil
}

// Names returns the file names of all built-in fonts, sorted.
func Names() []string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
