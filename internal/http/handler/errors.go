package handler

import (
	"errors"
	"fmt"
	"net/http"

	"proposal-service/internal/domain/proposal"
	apperrors "proposal-service/pkg/errors"
	"proposal-service/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Message   string `json:"message"`
	Field     string `json:"field,omitempty"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// MapError maps internal errors to an HTTP status and a client-safe body.
// Anything unrecognised is a 500 with an opaque message.
func MapError(err error) (int, ErrorResponse) {
	var verr *proposal.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, ErrorResponse{Message: verr.Message, Field: verr.Field}
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok && msg != "" {
			message = msg
		} else if httpErr.Message != nil {
			message = fmt.Sprint(httpErr.Message)
		}
		if httpErr.Code >= http.StatusInternalServerError {
			message = msgInternalServerError
		}
		return httpErr.Code, ErrorResponse{Message: message}
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrLocked):
		status = http.StatusLocked
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrUnauthorized), errors.Is(err, apperrors.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, apperrors.ErrBadRequest), errors.Is(err, apperrors.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrEmailExists):
		status = http.StatusConflict
	}

	if status >= http.StatusInternalServerError {
		return status, ErrorResponse{Message: msgInternalServerError}
	}

	body := ErrorResponse{Message: http.StatusText(status)}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		body.Message = appErr.Message
		body.Code = appErr.Code
	}
	return status, body
}

// respondAppError writes the mapped error. Server errors are logged with the
// request id; their detail never reaches the client.
func respondAppError(c echo.Context, err error) error {
	status, body := MapError(err)
	body.RequestID = c.Response().Header().Get(echo.HeaderXRequestID)

	if status >= http.StatusInternalServerError {
		c.Logger().Errorf("request %s failed: %s", body.RequestID, logger.SanitizeLogMessage(err.Error()))
	}

	return c.JSON(status, body)
}
