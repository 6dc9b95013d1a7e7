package route

import (
	"strings"
)

// rule 是一条谓词/决策对。规则表保序，先匹配者赢：次序是语义的一部分，
// 不是实现巧合（arch-release 必须先于 verbatim 的通配模式，
// packages-index 必须先于其压缩变体）。
type rule struct {
	name  string
	match func(req Request) (Decision, bool)
}

var rules = []rule{
	{name: "root-index", match: matchRootIndex},
	{name: "static-asset", match: matchStaticAsset},
	{name: "suite-release", match: matchSuiteRelease},
	{name: "arch-release", match: matchArchRelease},
	{name: "packages-index", match: matchPackagesIndex},
	{name: "by-hash", match: matchByHash},
	{name: "verbatim", match: matchVerbatim},
}

// Classify 对规范化请求执行有序级联，恒定返回恰好一个 Decision。
// 没有任何已知模式命中时落到重定向，不存在失败分支。
func Classify(req Request) Decision {
	for _, r := range rules {
		if decision, ok := r.match(req); ok {
			return decision
		}
	}
	return Decision{
		Kind:   KindRedirect,
		Target: strings.Join(req.Segments, "/"),
	}
}

// RuleNames 返回级联内的规则名，供诊断端与次序测试使用。
func RuleNames() []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.name
	}
	return names
}

func matchRootIndex(req Request) (Decision, bool) {
	if len(req.Segments) != 0 {
		return Decision{}, false
	}
	return Decision{
		Kind: KindRootIndex,
		Key:  storageKey(req, "index.html"),
	}, true
}

func matchStaticAsset(req Request) (Decision, bool) {
	if len(req.Segments) != 1 || !req.Ecosystem.IsTrustAsset(req.Segments[0]) {
		return Decision{}, false
	}
	return Decision{
		Kind: KindStaticAsset,
		Key:  storageKey(req, req.Segments[0]),
	}, true
}

func matchSuiteRelease(req Request) (Decision, bool) {
	seg := req.Segments
	if len(seg) != 3 || seg[0] != SuiteTreeMarker || seg[2] != "Release" {
		return Decision{}, false
	}
	return Decision{
		Kind:  KindSuiteRelease,
		Suite: seg[1],
		Key:   storageKey(req, SuiteTreeMarker, seg[1], "InRelease"),
	}, true
}

func matchArchRelease(req Request) (Decision, bool) {
	suite, component, arch, leaf, ok := suiteTreeBinaryPath(req)
	if !ok || leaf != "Release" {
		return Decision{}, false
	}
	return Decision{
		Kind:         KindArchRelease,
		Suite:        suite,
		Component:    component,
		Architecture: arch,
	}, true
}

func matchPackagesIndex(req Request) (Decision, bool) {
	suite, component, arch, leaf, ok := suiteTreeBinaryPath(req)
	if !ok || leaf != "Packages" {
		return Decision{}, false
	}
	return Decision{
		Kind:         KindPackagesIndex,
		Suite:        suite,
		Component:    component,
		Architecture: arch,
		Key:          storageKey(req, req.Segments...),
	}, true
}

func matchByHash(req Request) (Decision, bool) {
	seg := req.Segments
	if len(seg) < 5 || seg[0] != SuiteTreeMarker {
		return Decision{}, false
	}
	last := len(seg) - 1
	if seg[last-2] != "by-hash" || seg[last-1] != "SHA256" || !isHexDigest(seg[last]) {
		return Decision{}, false
	}
	return Decision{
		Kind:        KindByHash,
		Suite:       seg[1],
		SuitePrefix: storageKey(req, SuiteTreeMarker, seg[1]),
		Digest:      strings.ToLower(seg[last]),
	}, true
}

// verbatimLeaves 是按原样服务的套件树文件名。Release 也在其中：更早的
// arch-release 规则拿走配置内组件/架构的命中，余下的（未配置组件或架构、
// 或更深层级）按存储原样服务，缺失时 404 而非重定向。
var verbatimLeaves = map[string]struct{}{
	"Release":      {},
	"InRelease":    {},
	"Release.gpg":  {},
	"Packages.gz":  {},
	"Packages.xz":  {},
	"Packages.lz4": {},
}

func matchVerbatim(req Request) (Decision, bool) {
	seg := req.Segments
	if len(seg) < 3 || seg[0] != SuiteTreeMarker {
		return Decision{}, false
	}
	if _, ok := verbatimLeaves[seg[len(seg)-1]]; !ok {
		return Decision{}, false
	}
	return Decision{
		Kind:  KindVerbatim,
		Suite: seg[1],
		Key:   storageKey(req, seg...),
	}, true
}

// suiteTreeBinaryPath 解构 dists/<suite>/<component>/binary-<arch>/<leaf>，
// 仅当组件与架构都在生态配置集合内时命中。
func suiteTreeBinaryPath(req Request) (suite, component, arch, leaf string, ok bool) {
	seg := req.Segments
	if len(seg) != 5 || seg[0] != SuiteTreeMarker {
		return "", "", "", "", false
	}
	arch, found := strings.CutPrefix(seg[3], "binary-")
	if !found {
		return "", "", "", "", false
	}
	if !req.Ecosystem.HasComponent(seg[2]) || !req.Ecosystem.HasArchitecture(arch) {
		return "", "", "", "", false
	}
	return seg[1], seg[2], arch, seg[4], true
}

func storageKey(req Request, parts ...string) string {
	return req.Ecosystem.ID + "/" + strings.Join(parts, "/")
}

func isHexDigest(s string) bool {
	if len(s) != 64 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
