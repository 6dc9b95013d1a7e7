package derive

import (
	"bytes"
	"errors"
)

var (
	fieldMarker     = []byte("Origin:")
	signatureMarker = []byte("-----BEGIN PGP SIGNATURE-----")

	errMissingOriginField = errors.New("clear-signed manifest missing Origin field")
)

// StripSignature 从清签清单中重建未包裹的正文：取首个以 Origin: 开头的行
// （含）到签名块标记行（不含，缺失时到文末）之间的行区间，去掉尾部空白后
// 追加恰好一个换行。Origin 行缺失视为清单损坏。
func StripSignature(manifest []byte) ([]byte, error) {
	lines := bytes.Split(manifest, []byte("\n"))

	start := -1
	end := len(lines)
	for i, line := range lines {
		if start < 0 && bytes.HasPrefix(line, fieldMarker) {
			start = i
			continue
		}
		if start >= 0 && bytes.HasPrefix(line, signatureMarker) {
			end = i
			break
		}
	}
	if start < 0 {
		return nil, errMissingOriginField
	}

	payload := bytes.Join(lines[start:end], []byte("\n"))
	payload = bytes.TrimRight(payload, " \t\r\n")
	return append(payload, '\n'), nil
}
