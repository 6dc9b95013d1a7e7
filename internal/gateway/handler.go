// Package gateway orchestrates request resolution: normalize the path,
// classify it, run the derivation, and assemble the final response. Every
// request is an independent unit of work; the only shared state is the
// immutable ecosystem set and the storage backend.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/debthin/debthin/internal/derive"
	"github.com/debthin/debthin/internal/ecosystem"
	"github.com/debthin/debthin/internal/logging"
	"github.com/debthin/debthin/internal/route"
	"github.com/debthin/debthin/internal/server"
	"github.com/debthin/debthin/internal/storage"
)

// Handler 将分类与派生串起来，并产出最终响应。请求间共享同一个 Deriver，
// 其内部只有并发安全的索引缓存。
type Handler struct {
	set     *ecosystem.Set
	deriver *derive.Deriver
	logger  *logrus.Logger
	maxAge  time.Duration
}

// NewHandler constructs the gateway handler over the given storage backend.
func NewHandler(set *ecosystem.Set, store storage.Store, logger *logrus.Logger, maxAge time.Duration) *Handler {
	return &Handler{
		set:     set,
		deriver: derive.NewDeriver(store),
		logger:  logger,
		maxAge:  maxAge,
	}
}

// Handle 实现 server.GatewayHandler。识别的模式在存储缺失时回 404，
// 绝不重定向；只有未识别形状才指向上游。
func (h *Handler) Handle(c fiber.Ctx) error {
	started := time.Now()
	requestID := server.RequestID(c)

	req := route.Normalize(
		h.set,
		string(c.Request().URI().Path()),
		string(c.Request().URI().QueryString()),
		c.Protocol(),
	)
	decision := route.Classify(req)

	if decision.Kind == route.KindRedirect {
		return h.redirect(c, req, decision, requestID, started)
	}

	ctx := c.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := h.deriver.Derive(ctx, decision)
	switch {
	case err == nil:
		return h.serve(c, req, decision, result, requestID, started)
	case errors.Is(err, storage.ErrNotFound):
		h.logResult(req, decision, "", fiber.StatusNotFound, requestID, started, nil)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found"})
	default:
		var decodeErr *derive.DecodeError
		code := "storage_failed"
		if errors.As(err, &decodeErr) {
			code = "decode_failed"
		}
		h.logResult(req, decision, "", fiber.StatusBadGateway, requestID, started, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": code})
	}
}

func (h *Handler) serve(
	c fiber.Ctx,
	req route.Request,
	decision route.Decision,
	result *derive.Result,
	requestID string,
	started time.Time,
) error {
	if result.ContentType != "" {
		c.Set(fiber.HeaderContentType, result.ContentType)
	}
	c.Set(fiber.HeaderCacheControl, fmt.Sprintf("public, max-age=%d", int(h.maxAge.Seconds())))
	c.Set("X-Debthin-Source", string(result.Source))
	if requestID != "" {
		c.Set("X-Request-ID", requestID)
	}
	c.Response().Header.SetContentLength(len(result.Body))

	c.Status(fiber.StatusOK)
	h.logResult(req, decision, string(result.Source), fiber.StatusOK, requestID, started, nil)

	if c.Method() == fiber.MethodHead {
		return nil
	}
	return c.Send(result.Body)
}

// redirect 构建 301 目标：scheme 取自入站请求，保证明文与加密客户端
// 各自往返一致；原始查询串原样附加。
func (h *Handler) redirect(
	c fiber.Ctx,
	req route.Request,
	decision route.Decision,
	requestID string,
	started time.Time,
) error {
	location := req.Scheme + "://" + req.Ecosystem.Upstream + "/" + decision.Target
	if req.Query != "" {
		location += "?" + req.Query
	}

	c.Set(fiber.HeaderLocation, location)
	if requestID != "" {
		c.Set("X-Request-ID", requestID)
	}
	h.logResult(req, decision, "", fiber.StatusMovedPermanently, requestID, started, nil)
	return c.SendStatus(fiber.StatusMovedPermanently)
}

func (h *Handler) logResult(
	req route.Request,
	decision route.Decision,
	source string,
	status int,
	requestID string,
	started time.Time,
	err error,
) {
	fields := logging.RequestFields(req.Ecosystem.ID, decision.Kind.String(), source)
	fields["action"] = "resolve"
	fields["status"] = status
	fields["elapsed_ms"] = time.Since(started).Milliseconds()
	if decision.Key != "" {
		fields["key"] = decision.Key
	}
	if requestID != "" {
		fields["request_id"] = requestID
	}
	if err != nil {
		fields["error"] = err.Error()
		h.logger.WithFields(fields).Error("resolve_failed")
		return
	}
	h.logger.WithFields(fields).Info("resolve_complete")
}
