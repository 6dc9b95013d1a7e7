// Package ecosystem holds the immutable per-ecosystem tables the router and
// deriver consult: upstream archive reference, suite alias table, component
// and architecture sets, and the static trust assets served from storage.
package ecosystem

import (
	"errors"
	"fmt"
	"sort"

	"github.com/debthin/debthin/internal/config"
)

// Ecosystem 是单个包生态的只读视图，启动时从配置构建，请求路径上不再修改。
type Ecosystem struct {
	// ID 同时是存储键前缀与路径上的生态前缀段。
	ID string
	// Upstream 是 host[/base] 形式的上游归档引用，不含 scheme。
	Upstream string
	// Components/Architectures 保序，供诊断端输出；成员判定用下方的集合。
	Components    []string
	Architectures []string

	aliases     map[string]string
	components  map[string]struct{}
	archs       map[string]struct{}
	trustAssets map[string]struct{}
}

// ResolveSuite 将套件别名解析为 codename；未命中时原样返回。
// 规范 codename 不会作为别名键（配置校验保证），因此解析是幂等的。
func (e *Ecosystem) ResolveSuite(suite string) string {
	if codename, ok := e.aliases[suite]; ok {
		return codename
	}
	return suite
}

// HasComponent 判断组件是否在配置集合内。
func (e *Ecosystem) HasComponent(component string) bool {
	_, ok := e.components[component]
	return ok
}

// HasArchitecture 判断架构是否在配置集合内。
func (e *Ecosystem) HasArchitecture(arch string) bool {
	_, ok := e.archs[arch]
	return ok
}

// IsTrustAsset 判断路径是否为信任资产（密钥环文件）之一。
func (e *Ecosystem) IsTrustAsset(path string) bool {
	_, ok := e.trustAssets[path]
	return ok
}

// Aliases 返回按别名排序的别名表副本，供诊断端输出。
func (e *Ecosystem) Aliases() map[string]string {
	result := make(map[string]string, len(e.aliases))
	for alias, codename := range e.aliases {
		result[alias] = codename
	}
	return result
}

// TrustAssets 返回排序后的信任资产名列表。
func (e *Ecosystem) TrustAssets() []string {
	result := make([]string, 0, len(e.trustAssets))
	for name := range e.trustAssets {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// Set 聚合全部生态并记录 primary，供路径规范化时按前缀选择。
type Set struct {
	byID    map[string]*Ecosystem
	ordered []*Ecosystem
	primary *Ecosystem
}

// NewSet 根据配置构建生态集合。配置层已做过字段校验，这里只做结构性检查。
func NewSet(configs []config.EcosystemConfig) (*Set, error) {
	if len(configs) == 0 {
		return nil, errors.New("at least one ecosystem is required")
	}

	set := &Set{byID: make(map[string]*Ecosystem, len(configs))}
	for _, cfg := range configs {
		if _, exists := set.byID[cfg.Name]; exists {
			return nil, fmt.Errorf("duplicate ecosystem: %s", cfg.Name)
		}
		eco := build(cfg)
		set.byID[eco.ID] = eco
		set.ordered = append(set.ordered, eco)
		if cfg.Primary {
			if set.primary != nil {
				return nil, fmt.Errorf("multiple primary ecosystems: %s and %s", set.primary.ID, eco.ID)
			}
			set.primary = eco
		}
	}
	if set.primary == nil {
		return nil, errors.New("exactly one primary ecosystem is required")
	}
	return set, nil
}

func build(cfg config.EcosystemConfig) *Ecosystem {
	eco := &Ecosystem{
		ID:            cfg.Name,
		Upstream:      cfg.Upstream,
		Components:    append([]string(nil), cfg.Components...),
		Architectures: append([]string(nil), cfg.Architectures...),
		aliases:       make(map[string]string, len(cfg.Aliases)),
		components:    make(map[string]struct{}, len(cfg.Components)),
		archs:         make(map[string]struct{}, len(cfg.Architectures)),
		trustAssets:   make(map[string]struct{}, len(cfg.TrustAssets)),
	}
	for alias, codename := range cfg.Aliases {
		eco.aliases[alias] = codename
	}
	for _, component := range cfg.Components {
		eco.components[component] = struct{}{}
	}
	for _, arch := range cfg.Architectures {
		eco.archs[arch] = struct{}{}
	}
	for _, asset := range cfg.TrustAssets {
		eco.trustAssets[asset] = struct{}{}
	}
	return eco
}

// Lookup 按生态 ID 查询。
func (s *Set) Lookup(id string) (*Ecosystem, bool) {
	eco, ok := s.byID[id]
	return eco, ok
}

// Primary 返回缺省生态：路径未携带生态前缀时使用。
func (s *Set) Primary() *Ecosystem {
	return s.primary
}

// List 返回配置顺序的生态列表。
func (s *Set) List() []*Ecosystem {
	return append([]*Ecosystem(nil), s.ordered...)
}
