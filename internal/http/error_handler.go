package http

import (
	stdhttp "net/http"

	"proposal-service/internal/http/handler"
	"proposal-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const unknownRequestID = "unknown"

// NewHTTPErrorHandler handles errors that reach echo unhandled: middleware
// failures, unmatched routes and panics caught by Recover. Handlers reply on
// their own through the same mapping.
func NewHTTPErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := handler.MapError(err)

		requestID := c.Response().Header().Get(echo.HeaderXRequestID)
		if requestID == "" {
			requestID = unknownRequestID
		}
		body.RequestID = requestID

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.Int("status", status),
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.String("error", logger.SanitizeLogMessage(err.Error())),
		}
		if status >= stdhttp.StatusInternalServerError {
			log.Error("internal_server_error", fields...)
		} else {
			log.Warn("client_error", fields...)
		}

		if c.Request().Method == stdhttp.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.Error("write error response", zap.Error(err))
		}
	}
}
