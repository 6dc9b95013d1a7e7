package derive

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/debthin/debthin/internal/route"
	"github.com/debthin/debthin/internal/storage"
)

// indexObjectName 是离线管线为每个套件上传的哈希索引对象名。
const indexObjectName = "by-hash-index"

// byHash 经两步短依赖链解析摘要：先取套件的哈希索引，再按索引指向的
// 相对路径做一次原样取键。任何一步缺失都立即上抛 NotFound，绝不并行、
// 绝不重试。索引命中但对象缺失的二次 NotFound 也如实传播。
func (d *Deriver) byHash(ctx context.Context, decision route.Decision) (*Result, error) {
	index, err := d.suiteIndex(ctx, decision.SuitePrefix)
	if err != nil {
		return nil, err
	}

	relative, ok := index[decision.Digest]
	if !ok {
		return nil, storage.ErrNotFound
	}

	result, err := d.fetchVerbatim(ctx, decision.SuitePrefix+"/"+relative, SourceIndexResolved)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// suiteIndex 取并解析套件的哈希索引，结果进 TTL 缓存。索引只由管线重建，
// TTL 只是限定重新发布后的可见延迟。
func (d *Deriver) suiteIndex(ctx context.Context, suitePrefix string) (map[string]string, error) {
	key := suitePrefix + "/" + indexObjectName
	if cached, ok := d.indexes.Get(key); ok {
		return cached, nil
	}

	obj, err := d.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var index map[string]string
	if err := json.Unmarshal(obj.Body, &index); err != nil {
		return nil, &DecodeError{Key: key, Err: fmt.Errorf("parse hash index: %w", err)}
	}

	d.indexes.Add(key, index)
	return index, nil
}
