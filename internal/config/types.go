package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration 提供更灵活的反序列化能力，同时兼容纯秒整数与 Go Duration 字符串。
type Duration time.Duration

// UnmarshalText 使 Viper 可以识别诸如 "30s"、"5m" 或纯数字秒值等配置写法。
func (d *Duration) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" {
		*d = Duration(0)
		return nil
	}

	if parsed, err := time.ParseDuration(raw); err == nil {
		*d = Duration(parsed)
		return nil
	}

	if intVal, err := parseInt(raw); err == nil {
		*d = Duration(time.Duration(intVal) * time.Second)
		return nil
	}

	return fmt.Errorf("invalid duration value: %s", raw)
}

// DurationValue 返回真实的 time.Duration，便于调用方计算。
func (d Duration) DurationValue() time.Duration {
	return time.Duration(d)
}

// parseInt 支持十进制或 0x 前缀的十六进制字符串解析。
func parseInt(value string) (int64, error) {
	if strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X") {
		return strconv.ParseInt(value, 0, 64)
	}
	return strconv.ParseInt(value, 10, 64)
}

// GlobalConfig 描述全局运行时行为。
type GlobalConfig struct {
	ListenPort     int      `mapstructure:"ListenPort"`
	LogLevel       string   `mapstructure:"LogLevel"`
	LogFilePath    string   `mapstructure:"LogFilePath"`
	LogMaxSize     int      `mapstructure:"LogMaxSize"`
	LogMaxBackups  int      `mapstructure:"LogMaxBackups"`
	LogCompress    bool     `mapstructure:"LogCompress"`
	StorageBackend string   `mapstructure:"StorageBackend"`
	StoragePath    string   `mapstructure:"StoragePath"`
	CacheMaxAge    Duration `mapstructure:"CacheMaxAge"`
}

// S3Config 描述 S3 兼容后端（Cloudflare R2 等）的连接参数，仅当
// StorageBackend 为 s3 时生效。
type S3Config struct {
	Endpoint  string `mapstructure:"Endpoint"`
	Region    string `mapstructure:"Region"`
	AccessKey string `mapstructure:"AccessKey"`
	SecretKey string `mapstructure:"SecretKey"`
	Bucket    string `mapstructure:"Bucket"`
	UseSSL    bool   `mapstructure:"UseSSL"`
}

// EcosystemConfig 声明一个包生态：上游归档、套件别名表、组件与架构集合。
// 这些表在启动时固化，请求路径上只读。
type EcosystemConfig struct {
	Name          string            `mapstructure:"Name"`
	Upstream      string            `mapstructure:"Upstream"`
	Components    []string          `mapstructure:"Components"`
	Architectures []string          `mapstructure:"Architectures"`
	TrustAssets   []string          `mapstructure:"TrustAssets"`
	Aliases       map[string]string `mapstructure:"Aliases"`
	Primary       bool              `mapstructure:"Primary"`
}

// Config 是 TOML 文件映射的整体结构。
type Config struct {
	Global     GlobalConfig      `mapstructure:",squash"`
	S3         S3Config          `mapstructure:"S3"`
	Ecosystems []EcosystemConfig `mapstructure:"Ecosystem"`
}

// EcosystemNames 返回生态名摘要，供 check-config 日志输出。
func EcosystemNames(ecosystems []EcosystemConfig) []string {
	if len(ecosystems) == 0 {
		return nil
	}
	result := make([]string, len(ecosystems))
	for i, eco := range ecosystems {
		mark := ""
		if eco.Primary {
			mark = ":primary"
		}
		result[i] = eco.Name + mark
	}
	return result
}
