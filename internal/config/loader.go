package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Load 读取并解析 TOML 配置文件，同时注入默认值与校验逻辑。
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.toml"
	}

	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置失败: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(durationDecodeHook())); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	applyGlobalDefaults(&cfg.Global)
	applyEcosystemDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Global.StorageBackend == StorageBackendFS {
		absStorage, err := filepath.Abs(cfg.Global.StoragePath)
		if err != nil {
			return nil, fmt.Errorf("无法解析存储目录: %w", err)
		}
		cfg.Global.StoragePath = absStorage
	}

	return &cfg, nil
}

// 支持的存储后端。memory 仅用于演示与测试，进程重启即失去全部对象。
const (
	StorageBackendFS     = "fs"
	StorageBackendS3     = "s3"
	StorageBackendMemory = "memory"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("ListenPort", 5000)
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFilePath", "")
	v.SetDefault("LogMaxSize", 100)
	v.SetDefault("LogMaxBackups", 10)
	v.SetDefault("LogCompress", true)
	v.SetDefault("StorageBackend", StorageBackendFS)
	v.SetDefault("StoragePath", "./storage")
	v.SetDefault("CacheMaxAge", "1h")
}

func applyGlobalDefaults(g *GlobalConfig) {
	if g.ListenPort == 0 {
		g.ListenPort = 5000
	}
	if g.StorageBackend == "" {
		g.StorageBackend = StorageBackendFS
	}
	g.StorageBackend = strings.ToLower(strings.TrimSpace(g.StorageBackend))
	if g.CacheMaxAge.DurationValue() == 0 {
		g.CacheMaxAge = Duration(time.Hour)
	}
}

// applyEcosystemDefaults 在配置未声明任何生态时注入内置定义，并为每个
// 生态补齐名称规范化与缺省 primary 标记。
func applyEcosystemDefaults(cfg *Config) {
	if len(cfg.Ecosystems) == 0 {
		cfg.Ecosystems = DefaultEcosystems()
	}

	hasPrimary := false
	for i := range cfg.Ecosystems {
		eco := &cfg.Ecosystems[i]
		eco.Name = strings.ToLower(strings.TrimSpace(eco.Name))
		eco.Upstream = strings.Trim(strings.TrimSpace(eco.Upstream), "/")
		if len(eco.TrustAssets) == 0 {
			eco.TrustAssets = []string{"archive-keyring.gpg", "archive-keyring.asc"}
		}
		if eco.Primary {
			hasPrimary = true
		}
	}
	if !hasPrimary && len(cfg.Ecosystems) > 0 {
		cfg.Ecosystems[0].Primary = true
	}
}

func durationDecodeHook() mapstructure.DecodeHookFunc {
	targetType := reflect.TypeOf(Duration(0))

	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != targetType {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			if v == "" {
				return Duration(0), nil
			}
			if parsed, err := time.ParseDuration(v); err == nil {
				return Duration(parsed), nil
			}
			if seconds, err := strconv.ParseFloat(v, 64); err == nil {
				return Duration(time.Duration(seconds * float64(time.Second))), nil
			}
			return nil, fmt.Errorf("无法解析 Duration 字段: %s", v)
		case int:
			return Duration(time.Duration(v) * time.Second), nil
		case int64:
			return Duration(time.Duration(v) * time.Second), nil
		case float64:
			return Duration(time.Duration(v * float64(time.Second))), nil
		case time.Duration:
			return Duration(v), nil
		case Duration:
			return v, nil
		default:
			return nil, fmt.Errorf("不支持的 Duration 类型: %T", v)
		}
	}
}
