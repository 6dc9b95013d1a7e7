package derive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"

	"github.com/debthin/debthin/internal/route"
	"github.com/debthin/debthin/internal/storage"
)

// packagesSuffixes 是明文 Packages 请求尝试的压缩变体，保序：管线正常
// 产出 gz，其余两种对应它的备选压缩回退。
var packagesSuffixes = []string{".gz", ".xz", ".lz4"}

// packagesIndex 取压缩索引并整体解压进内存。策展后的索引足够小，
// 无需分块流式处理。全部变体缺失→NotFound；流损坏→DecodeError。
func (d *Deriver) packagesIndex(ctx context.Context, decision route.Decision) (*Result, error) {
	for _, suffix := range packagesSuffixes {
		key := decision.Key + suffix
		obj, err := d.store.Get(ctx, key)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		body, err := decompress(suffix, obj.Body)
		if err != nil {
			return nil, &DecodeError{Key: key, Err: err}
		}
		return &Result{
			Body:        body,
			ContentType: plainTextType,
			Source:      SourceDecompressed,
		}, nil
	}
	return nil, storage.ErrNotFound
}

// decompress 按压缩后缀选择解码器，单趟解到内存。
func decompress(suffix string, data []byte) ([]byte, error) {
	switch suffix {
	case ".gz":
		reader, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer reader.Close()
		return io.ReadAll(reader)
	case ".xz":
		reader, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return io.ReadAll(reader)
	case ".lz4":
		return io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
	default:
		return nil, fmt.Errorf("unsupported compression suffix: %s", suffix)
	}
}
