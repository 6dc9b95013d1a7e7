package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate 针对语义级别做进一步校验，防止非法配置启动服务。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("配置为空")
	}

	g := c.Global
	if g.ListenPort <= 0 || g.ListenPort > 65535 {
		return newFieldError("Global.ListenPort", "必须在 1-65535")
	}
	if g.CacheMaxAge.DurationValue() <= 0 {
		return newFieldError("Global.CacheMaxAge", "必须大于 0")
	}

	switch g.StorageBackend {
	case StorageBackendFS:
		if g.StoragePath == "" {
			return newFieldError("Global.StoragePath", "不能为空")
		}
	case StorageBackendS3:
		if err := c.validateS3(); err != nil {
			return err
		}
	case StorageBackendMemory:
		// 无需额外参数。
	default:
		return newFieldError("Global.StorageBackend", "仅支持 fs/s3/memory")
	}

	if len(c.Ecosystems) == 0 {
		return errors.New("至少需要配置一个 Ecosystem")
	}

	seenNames := map[string]struct{}{}
	primaryCount := 0
	for i := range c.Ecosystems {
		eco := &c.Ecosystems[i]
		if err := validateEcosystem(eco); err != nil {
			return err
		}
		if _, exists := seenNames[eco.Name]; exists {
			return newFieldError(ecosystemField(eco.Name, "Name"), "重复")
		}
		seenNames[eco.Name] = struct{}{}
		if eco.Primary {
			primaryCount++
		}
	}
	if primaryCount != 1 {
		return errors.New("必须恰好标记一个 Primary 生态")
	}

	return nil
}

func (c *Config) validateS3() error {
	if strings.TrimSpace(c.S3.Endpoint) == "" {
		return newFieldError("S3.Endpoint", "不能为空")
	}
	if strings.TrimSpace(c.S3.AccessKey) == "" || strings.TrimSpace(c.S3.SecretKey) == "" {
		return newFieldError("S3.AccessKey/SecretKey", "必须同时提供")
	}
	if strings.TrimSpace(c.S3.Bucket) == "" {
		return newFieldError("S3.Bucket", "不能为空")
	}
	return nil
}

func validateEcosystem(eco *EcosystemConfig) error {
	if eco.Name == "" {
		return newFieldError("Ecosystem[].Name", "不能为空")
	}
	if strings.ContainsAny(eco.Name, "/ ") {
		return newFieldError(ecosystemField(eco.Name, "Name"), "不允许包含斜杠或空格")
	}
	if err := validateUpstream(eco.Upstream); err != nil {
		return fmt.Errorf("%s: %w", ecosystemField(eco.Name, "Upstream"), err)
	}
	if len(eco.Components) == 0 {
		return newFieldError(ecosystemField(eco.Name, "Components"), "不能为空")
	}
	if len(eco.Architectures) == 0 {
		return newFieldError(ecosystemField(eco.Name, "Architectures"), "不能为空")
	}

	// 别名解析必须幂等：codename 不能反过来作为别名键，否则二次解析会漂移。
	for alias, codename := range eco.Aliases {
		if strings.TrimSpace(alias) == "" || strings.TrimSpace(codename) == "" {
			return newFieldError(ecosystemField(eco.Name, "Aliases"), "键和值都不能为空")
		}
		if _, clash := eco.Aliases[codename]; clash {
			return newFieldError(
				ecosystemField(eco.Name, "Aliases"),
				fmt.Sprintf("codename %s 不能同时作为别名键", codename),
			)
		}
	}

	return nil
}

// validateUpstream 校验 host[/base] 形式的上游引用；scheme 由请求侧决定，
// 配置中不允许携带。
func validateUpstream(raw string) error {
	if raw == "" {
		return errors.New("缺少上游地址")
	}
	if strings.Contains(raw, "://") {
		return fmt.Errorf("不应包含协议头: %s", raw)
	}
	if strings.ContainsAny(raw, " ?#") {
		return fmt.Errorf("包含非法字符: %s", raw)
	}
	return nil
}
