package route

import (
	"strings"

	"github.com/debthin/debthin/internal/ecosystem"
)

// Normalize 将原始路径转换为 Request：去掉前导分隔符、识别可选的生态前缀
// （缺省回退到 primary 生态，兼容从不携带生态名的客户端）、并在首段为
// 套件树标记时对套件段做一次别名解析。对任何输入都成功，包括空路径。
func Normalize(set *ecosystem.Set, rawPath, rawQuery, scheme string) Request {
	segments := splitPath(rawPath)

	eco := set.Primary()
	if len(segments) > 0 {
		if matched, ok := set.Lookup(segments[0]); ok {
			eco = matched
			segments = segments[1:]
		}
	}

	// 别名解析只作用于套件段，且只发生在这里，保证全程恰好一次。
	if len(segments) >= 2 && segments[0] == SuiteTreeMarker {
		segments[1] = eco.ResolveSuite(segments[1])
	}

	return Request{
		Ecosystem: eco,
		Segments:  segments,
		Query:     rawQuery,
		Scheme:    scheme,
	}
}

func splitPath(rawPath string) []string {
	trimmed := strings.Trim(rawPath, "/")
	if trimmed == "" {
		return nil
	}
	parts := strings.Split(trimmed, "/")
	segments := parts[:0]
	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}
