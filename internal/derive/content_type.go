package derive

import "strings"

const plainTextType = "text/plain; charset=utf-8"

// TypeForKey 按扩展名推断内容类型，与离线管线上传时声明的表保持一致。
func TypeForKey(key string) string {
	switch {
	case strings.HasSuffix(key, ".gz"):
		return "application/x-gzip"
	case strings.HasSuffix(key, ".xz"):
		return "application/x-xz"
	case strings.HasSuffix(key, ".lz4"):
		return "application/x-lz4"
	case strings.HasSuffix(key, ".gpg"):
		return "application/pgp-keys"
	case strings.HasSuffix(key, ".html"):
		return "text/html; charset=utf-8"
	case strings.HasSuffix(key, ".json"):
		return "application/json"
	default:
		return plainTextType
	}
}
