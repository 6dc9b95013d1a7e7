package logging

import "github.com/sirupsen/logrus"

// BaseFields 构建 action + 配置路径等基础字段，便于不同入口复用。
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// RequestFields 提供生态/路由/派生来源字段，供网关请求日志复用。
// source 在重定向与错误场景下为空。
func RequestFields(ecosystem, routeKind, source string) logrus.Fields {
	fields := logrus.Fields{
		"ecosystem":  ecosystem,
		"route_kind": routeKind,
	}
	if source != "" {
		fields["source"] = source
	}
	return fields
}
