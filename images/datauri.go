package images

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// IsDataURI reports whether src is a base64 data URI.
func IsDataURI(src string) bool {
	if !hasScheme(src, "data") {
		return false
	}
	comma := strings.IndexByte(src, ',')
	return comma > 0 && strings.HasSuffix(strings.ToLower(src[:comma]), ";base64")
}

// DecodeDataURI 解码 data:[<mediatype>];base64,<data>。数据中的空白会被忽略。
func DecodeDataURI(src string) ([]byte, error) {
	if !IsDataURI(src) {
		return nil, fmt.Errorf("%w: not a base64 data URI", ErrUnsupportedSource)
	}
	payload := src[strings.IndexByte(src, ',')+1:]
	payload = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, payload)
	enc := base64.StdEncoding
	if !strings.HasSuffix(payload, "=") && len(payload)%4 != 0 {
		enc = base64.RawStdEncoding
	}
	data, err := enc.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("images: data URI 解码失败: %w", err)
	}
	return data, nil
}
