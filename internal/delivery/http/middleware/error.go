package middleware

import (
	"errors"
	"fmt"

	"turf-hire/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// AppError carries the HTTP status and client-safe message for a failed
// request. Cause is logged but never rendered.
type AppError struct {
	StatusCode int
	Message    string
	Data       interface{}
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, message string, data interface{}, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

// rendered is what the client sees for an error.
type rendered struct {
	status  int
	message string
	data    interface{}
}

var internalError = rendered{status: fiber.StatusInternalServerError, message: response.MessageInternalServerError}

type ErrorMiddleware struct {
	logger *zap.Logger
}

func NewErrorMiddleware(logger *zap.Logger) *ErrorMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorMiddleware{logger: logger.With(zap.String("component", "errors"))}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Error("panic recovered",
					zap.String("panic", fmt.Sprint(r)),
					zap.String("rid", requestID(c)),
					zap.String("path", c.Path()),
					zap.Stack("stack"),
				)
				err = response.Error(c, internalError.status, internalError.message, nil)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		out := normalizeError(err)
		if out.status >= fiber.StatusInternalServerError {
			// the access log only sees the rendered response, so keep the cause here
			m.logger.Error("request failed",
				zap.String("rid", requestID(c)),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", out.status),
				zap.Error(err),
			)
		}
		return response.Error(c, out.status, out.message, out.data)
	}
}

func requestID(c fiber.Ctx) string {
	rid, _ := c.Locals(CtxRequestIDKey).(string)
	return rid
}

func normalizeError(err error) rendered {
	var appErr *AppError
	var fiberErr *fiber.Error

	switch {
	case err == nil:
		return internalError
	case errors.As(err, &appErr):
		if appErr.StatusCode <= 0 {
			return internalError
		}
		out := rendered{status: appErr.StatusCode, message: appErr.Message, data: appErr.Data}
		if out.message == "" {
			out.message = response.DefaultMessage(out.status)
		}
		if out.status >= fiber.StatusInternalServerError {
			return upstream(out)
		}
		return out
	case errors.As(err, &fiberErr):
		if fiberErr.Code <= 0 || fiberErr.Code >= fiber.StatusInternalServerError {
			return internalError
		}
		out := rendered{status: fiberErr.Code, message: fiberErr.Message}
		if out.message == "" {
			out.message = response.DefaultMessage(out.status)
		}
		return out
	}
	return internalError
}

// upstream passes gateway statuses through with their message and no data.
// Any other 5xx becomes a bare 500.
func upstream(r rendered) rendered {
	switch r.status {
	case fiber.StatusBadGateway, fiber.StatusServiceUnavailable, fiber.StatusGatewayTimeout:
		return rendered{status: r.status, message: r.message}
	}
	return internalError
}
