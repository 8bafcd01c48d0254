package middleware

import "github.com/labstack/echo/v4"

const (
	jsonKeyMessage = "message"
	paramID        = "id"
)

func respondMessage(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{jsonKeyMessage: message})
}
