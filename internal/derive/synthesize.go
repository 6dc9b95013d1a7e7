package derive

import "fmt"

// ArchRelease 合成 per-arch Release 正文，固定三行。字节序列是协议的一部分：
// 离线管线对同样的三行计算清单校验和，任何偏差都会让客户端校验失败。
func ArchRelease(suite, component, arch string) []byte {
	return []byte(fmt.Sprintf("Archive: %s\nComponent: %s\nArchitecture: %s\n", suite, component, arch))
}
