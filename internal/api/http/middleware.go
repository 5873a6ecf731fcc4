package http

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/spec-kit/employee-directory/internal/api/dto"
	"github.com/spec-kit/employee-directory/internal/observability"
	apperrors "github.com/spec-kit/employee-directory/pkg/util/errorutil"
)

// ServerOptions tunes the fiber app and its global middleware.
type ServerOptions struct {
	AppName        string
	BodyLimit      int
	RequestTimeout time.Duration
	CORSOrigins    string
}

// NewApp builds the fiber app with the error envelope and global middleware installed.
func NewApp(logger *zap.Logger, metrics *observability.Metrics, opts ServerOptions) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               opts.AppName,
		BodyLimit:             opts.BodyLimit,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			writeError(c, err, logger, metrics)
			return nil
		},
	})
	RegisterMiddlewares(app, logger, metrics, opts)
	return app
}

// RegisterMiddlewares attaches global middlewares. The request logger is outermost so it
// sees the status written by the error middleware.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, opts ServerOptions) {
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(errorHandlingMiddleware(logger, metrics))
	app.Use(cors.New(cors.Config{AllowOrigins: opts.CORSOrigins}))
	if opts.RequestTimeout > 0 {
		app.Use(requestTimeoutMiddleware(opts.RequestTimeout))
	}
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				writeError(c, err, logger, metrics)
				err = nil
			}
		}()
		return c.Next()
	}
}

func writeError(c *fiber.Ctx, err error, logger *zap.Logger, metrics *observability.Metrics) {
	domainErr := apperrors.ToDomainError(err)
	metrics.RecordError(c.Route().Path, c.Method(), domainErr.Code)

	body := dto.Envelope{Message: domainErr.Message, Success: false}
	if domainErr.HTTPStatus >= fiber.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("code", domainErr.Code),
			zap.String("path", c.Path()),
			zap.Error(domainErr))
		body.Message = "Internal Server Error"
		body.Error = domainErr.Diagnostic()
		if body.Error == "" {
			body.Error = domainErr.Message
		}
	} else if len(domainErr.Details) > 0 {
		body.Details = domainErr.Details
	}
	c.Status(domainErr.HTTPStatus)
	_ = c.JSON(body)
}
