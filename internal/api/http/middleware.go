package http

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/observability"
	"github.com/spec-kit/blog-service/internal/ratelimit"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// MiddlewareConfig selects the global middleware chain.
type MiddlewareConfig struct {
	Logger       *zap.Logger
	Metrics      *observability.Metrics
	Timeout      time.Duration
	AllowOrigins string
	Limiter      *ratelimit.Limiter
}

// RegisterMiddlewares attaches global middlewares. Errors returned further
// down the chain are rendered by RequestLogger through the app ErrorHandler.
func RegisterMiddlewares(app *fiber.App, cfg MiddlewareConfig) {
	app.Use(requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		Generator:  uuid.NewString,
		ContextKey: observability.RequestIDKey,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PATCH,PUT,DELETE,OPTIONS",
	}))
	app.Use(observability.RequestLogger(cfg.Logger, cfg.Metrics))
	app.Use(recoverMiddleware(cfg.Logger))
	if cfg.Timeout > 0 {
		app.Use(requestTimeoutMiddleware(cfg.Timeout))
	}
	if cfg.Limiter != nil {
		app.Use(ratelimit.Middleware(cfg.Limiter, cfg.Logger))
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

func recoverMiddleware(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(fmt.Errorf("panic: %v", r))
			}
		}()
		return c.Next()
	}
}

// NewErrorHandler renders every failure as {"error", "code", "details"?}.
// exposeStack adds the cause and stack of internal errors to the body.
func NewErrorHandler(logger *zap.Logger, metrics *observability.Metrics, exposeStack bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		domainErr := classify(err)
		metrics.RecordError(c.Route().Path, c.Method(), domainErr.Code)

		if domainErr.HTTPStatus >= fiber.StatusInternalServerError {
			fields := []zap.Field{zap.Error(err), zap.String("path", c.Path())}
			if id, ok := c.Locals(observability.RequestIDKey).(string); ok {
				fields = append(fields, zap.String("request_id", id))
			}
			logger.Error("request failed", fields...)
		}

		response := fiber.Map{
			"error": domainErr.Message,
			"code":  domainErr.Code,
		}
		if len(domainErr.Details) > 0 {
			response["details"] = domainErr.Details
		}
		if exposeStack && domainErr.Code == apperrors.CodeInternal {
			if stack := apperrors.StackTrace(domainErr); stack != "" {
				response["stack"] = stack
			}
		}
		return c.Status(domainErr.HTTPStatus).JSON(response)
	}
}

func classify(err error) *apperrors.DomainError {
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.ToDomainError(apperrors.NewTimeout())
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fromFiberError(fiberErr)
	}
	return apperrors.ToDomainError(err)
}

func fromFiberError(err *fiber.Error) *apperrors.DomainError {
	switch {
	case err.Code == fiber.StatusNotFound:
		return apperrors.NewDomainError(apperrors.CodeNotFound, "route not found", err.Code, nil)
	case err.Code == fiber.StatusRequestTimeout:
		return apperrors.ToDomainError(apperrors.NewTimeout())
	case err.Code == fiber.StatusTooManyRequests:
		return apperrors.ToDomainError(apperrors.NewRateLimited())
	case err.Code >= fiber.StatusInternalServerError:
		return apperrors.ToDomainError(apperrors.NewInternalError(err))
	default:
		return apperrors.NewDomainError(apperrors.CodeValidationFailed, err.Message, err.Code, nil)
	}
}
