package storage

import (
	"context"
	"errors"
)

// Store 是离线管线产物的只读视图。键为生态前缀的相对路径，例如
//
//	debian/dists/trixie/main/binary-amd64/Packages.gz
//	debian/index.html
//	debian/dists/trixie/by-hash-index
//
// 网关本身从不写入；写入由离线上传工具完成。
type Store interface {
	// Get 返回指定键的对象。若不存在则返回 ErrNotFound。
	Get(ctx context.Context, key string) (*Object, error)
}

// Object 表示一次读取结果。ContentType 是后端声明的类型，可能为空，
// 为空时由派生层按扩展名推断。
type Object struct {
	Key         string
	Body        []byte
	ContentType string
}

// ErrNotFound 表示对象不存在。
var ErrNotFound = errors.New("storage object not found")
