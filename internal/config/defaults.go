package config

// DefaultEcosystems 返回内置的两套生态定义。配置文件声明任意 [[Ecosystem]]
// 时内置表整体失效，不做合并，避免半覆盖造成的隐式行为。
//
// 别名表只收录滚动别名；规范 codename 永远不会作为别名键出现，
// 这是别名解析幂等性的前提。
func DefaultEcosystems() []EcosystemConfig {
	return []EcosystemConfig{
		{
			Name:          "debian",
			Upstream:      "deb.debian.org/debian",
			Components:    []string{"main", "contrib", "non-free", "non-free-firmware"},
			Architectures: []string{"amd64", "arm64", "all"},
			TrustAssets:   []string{"archive-keyring.gpg", "archive-keyring.asc"},
			Aliases: map[string]string{
				"stable":    "trixie",
				"testing":   "forky",
				"unstable":  "sid",
				"oldstable": "bookworm",
			},
			Primary: true,
		},
		{
			Name:          "ubuntu",
			Upstream:      "archive.ubuntu.com/ubuntu",
			Components:    []string{"main", "universe", "restricted", "multiverse"},
			Architectures: []string{"amd64", "arm64", "all"},
			TrustAssets:   []string{"archive-keyring.gpg", "archive-keyring.asc"},
			Aliases: map[string]string{
				"lts":   "noble",
				"devel": "questing",
			},
		},
	}
}
