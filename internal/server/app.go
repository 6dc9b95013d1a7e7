package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// GatewayHandler describes the component that resolves every non-diagnostic
// request: serve from storage, derive, or redirect upstream. It allows
// injecting fake handlers during tests.
type GatewayHandler interface {
	Handle(fiber.Ctx) error
}

// GatewayHandlerFunc adapts a function to the GatewayHandler interface.
type GatewayHandlerFunc func(fiber.Ctx) error

// Handle makes GatewayHandlerFunc satisfy GatewayHandler.
func (f GatewayHandlerFunc) Handle(c fiber.Ctx) error {
	return f(c)
}

// AppOptions controls how the Fiber application should behave.
type AppOptions struct {
	Logger     *logrus.Logger
	Gateway    GatewayHandler
	ListenPort int
}

const contextKeyRequestID = "_debthin_request_id"

// NewApp builds a Fiber application with request-ID middleware and the
// catch-all gateway route. Diagnostics paths under /-/ bypass the gateway.
func NewApp(opts AppOptions) (*fiber.App, error) {
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.Gateway == nil {
		return nil, errors.New("gateway handler is required")
	}
	if opts.ListenPort <= 0 {
		return nil, fmt.Errorf("invalid listen port: %d", opts.ListenPort)
	}

	app := fiber.New(fiber.Config{
		CaseSensitive: true,
	})

	app.Use(recover.New())
	app.Use(requestContextMiddleware())

	app.All("/*", func(c fiber.Ctx) error {
		if isDiagnosticsPath(string(c.Request().URI().Path())) {
			return c.Next()
		}
		return opts.Gateway.Handle(c)
	})

	return app, nil
}

// requestContextMiddleware 负责生成请求 ID 并透传到响应头。
func requestContextMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		reqID := uuid.NewString()
		c.Locals(contextKeyRequestID, reqID)
		c.Set("X-Request-ID", reqID)
		return c.Next()
	}
}

// RequestID returns the request identifier stored by the middleware.
func RequestID(c fiber.Ctx) string {
	if value := c.Locals(contextKeyRequestID); value != nil {
		if reqID, ok := value.(string); ok {
			return reqID
		}
	}
	return ""
}

func isDiagnosticsPath(path string) bool {
	return strings.HasPrefix(path, "/-/")
}
