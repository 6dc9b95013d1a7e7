// Package route turns raw request paths into a single, deterministic routing
// decision. Classification is pure: it never consults storage, so the same
// path always yields the same decision regardless of what the offline
// pipeline has uploaded.
package route

import (
	"github.com/debthin/debthin/internal/ecosystem"
)

// SuiteTreeMarker 是套件树在路径与存储键中的固定首段。
const SuiteTreeMarker = "dists"

// Kind 枚举所有可能的路由结果。
type Kind int

const (
	// KindRootIndex 服务生态首页（<eco>/index.html）。
	KindRootIndex Kind = iota
	// KindStaticAsset 服务信任资产（密钥环文件）。
	KindStaticAsset
	// KindSuiteRelease 从 InRelease 剥离签名壳派生 Release。
	KindSuiteRelease
	// KindArchRelease 纯合成 per-arch Release，三行正文。
	KindArchRelease
	// KindPackagesIndex 现场解压压缩索引得到明文 Packages。
	KindPackagesIndex
	// KindByHash 经 by-hash 索引解析摘要后按原样服务。
	KindByHash
	// KindVerbatim 从存储原样服务。
	KindVerbatim
	// KindRedirect 重定向到上游归档。
	KindRedirect
)

// String 返回日志与诊断头使用的路由名。
func (k Kind) String() string {
	switch k {
	case KindRootIndex:
		return "root_index"
	case KindStaticAsset:
		return "static_asset"
	case KindSuiteRelease:
		return "suite_release"
	case KindArchRelease:
		return "arch_release"
	case KindPackagesIndex:
		return "packages_index"
	case KindByHash:
		return "by_hash"
	case KindVerbatim:
		return "verbatim"
	case KindRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision 是分类结果的带标签联合：Kind 决定哪些字段有效。
type Decision struct {
	Kind Kind

	// Key 是存储键（含生态前缀）。对 KindPackagesIndex 为不带压缩后缀的
	// 基础键；对 KindArchRelease 与 KindRedirect 为空。
	Key string

	// Suite/Component/Architecture 在套件树规则命中时填充。
	Suite        string
	Component    string
	Architecture string

	// SuitePrefix/Digest 仅 KindByHash 使用；SuitePrefix 含生态前缀，
	// 截止到套件段（例如 debian/dists/trixie）。
	SuitePrefix string
	Digest      string

	// Target 仅 KindRedirect 使用：相对上游的路径，不含查询串。
	Target string
}

// Request 是规范化后的请求，整个请求周期内只计算一次、不再修改。
type Request struct {
	Ecosystem *ecosystem.Ecosystem
	Segments  []string
	Query     string
	Scheme    string
}
