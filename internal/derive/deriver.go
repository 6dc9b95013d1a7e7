// Package derive executes routing decisions against the storage backend:
// verbatim serving, clear-sign wrapper stripping, per-arch Release synthesis,
// on-the-fly index decompression and by-hash digest resolution. Every
// derivation is a pure function of stored bytes, so identical requests are
// idempotent and safely cacheable by intermediaries.
package derive

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/debthin/debthin/internal/route"
	"github.com/debthin/debthin/internal/storage"
)

// Source 是可观测性用的诊断标签，区分结果的来路；不参与语义。
type Source string

const (
	SourceVerbatim      Source = "verbatim"
	SourceDerived       Source = "derived"
	SourceSynthesized   Source = "synthesized"
	SourceDecompressed  Source = "decompressed"
	SourceIndexResolved Source = "index-resolved"
)

// Result 是一次派生的成功结果。
type Result struct {
	Body        []byte
	ContentType string
	Source      Source
}

// DecodeError 表示存储对象解码失败（压缩流损坏、清签壳缺失标记）。
// 与 NotFound 严格区分：它指向管线应当发现的存储损坏，不能静默降级为 404。
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

const (
	indexCacheSize = 64
	indexCacheTTL  = 5 * time.Minute
)

// Deriver 持有存储后端与 by-hash 索引缓存，请求间共享、并发安全。
type Deriver struct {
	store   storage.Store
	indexes *expirable.LRU[string, map[string]string]
}

// NewDeriver 构建 Deriver。索引缓存带 TTL，管线重建索引后最多滞后一个
// TTL 周期即可见。
func NewDeriver(store storage.Store) *Deriver {
	return &Deriver{
		store:   store,
		indexes: expirable.NewLRU[string, map[string]string](indexCacheSize, nil, indexCacheTTL),
	}
}

// Derive 执行决策对应的派生策略。重定向不经过这里；其余每种 Kind 都有
// 唯一处理分支。存储缺失统一以 storage.ErrNotFound 上抛，一次不重试。
func (d *Deriver) Derive(ctx context.Context, decision route.Decision) (*Result, error) {
	switch decision.Kind {
	case route.KindRootIndex, route.KindStaticAsset, route.KindVerbatim:
		return d.fetchVerbatim(ctx, decision.Key, SourceVerbatim)
	case route.KindSuiteRelease:
		return d.suiteRelease(ctx, decision)
	case route.KindArchRelease:
		return d.archRelease(decision), nil
	case route.KindPackagesIndex:
		return d.packagesIndex(ctx, decision)
	case route.KindByHash:
		return d.byHash(ctx, decision)
	default:
		return nil, fmt.Errorf("underivable decision kind: %s", decision.Kind)
	}
}

// fetchVerbatim 单次取键并原样返回；内容类型优先采用存储声明，
// 否则按扩展名推断。
func (d *Deriver) fetchVerbatim(ctx context.Context, key string, source Source) (*Result, error) {
	obj, err := d.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	contentType := obj.ContentType
	if contentType == "" {
		contentType = TypeForKey(key)
	}
	return &Result{Body: obj.Body, ContentType: contentType, Source: source}, nil
}

// suiteRelease 取签名清单并剥掉签名壳，重建未包裹的 Release 正文。
func (d *Deriver) suiteRelease(ctx context.Context, decision route.Decision) (*Result, error) {
	obj, err := d.store.Get(ctx, decision.Key)
	if err != nil {
		return nil, err
	}
	payload, err := StripSignature(obj.Body)
	if err != nil {
		return nil, &DecodeError{Key: decision.Key, Err: err}
	}
	return &Result{
		Body:        payload,
		ContentType: plainTextType,
		Source:      SourceDerived,
	}, nil
}

// archRelease 纯合成，不取存储。正文必须与管线当时计算校验和的字节
// 完全一致，客户端会按清单摘要校验。
func (d *Deriver) archRelease(decision route.Decision) *Result {
	return &Result{
		Body:        ArchRelease(decision.Suite, decision.Component, decision.Architecture),
		ContentType: plainTextType,
		Source:      SourceSynthesized,
	}
}
