package auth

import (
	"errors"
	"net/http"
	"time"

	"proposal-service/internal/config"
	apperrors "proposal-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type Middleware struct {
	manager    *Manager
	cookieName string
	secure     bool
}

func NewMiddleware(manager *Manager, cfg config.SessionConfig) *Middleware {
	return &Middleware{
		manager:    manager,
		cookieName: cfg.CookieName,
		secure:     cfg.SecureCookie,
	}
}

// RequireSession rejects requests without a valid session cookie and stores
// the admin id under ContextKeyUserID.
func (m *Middleware) RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawToken := m.Token(c)
			if rawToken == "" {
				return respondError(c, http.StatusUnauthorized, msgMissingSession)
			}

			userID, err := m.manager.Authenticate(c.Request().Context(), rawToken)
			if err != nil {
				if errors.Is(err, apperrors.ErrUnauthorized) {
					m.ClearCookie(c)
					return respondError(c, http.StatusUnauthorized, msgInvalidOrExpiredSession)
				}
				return err
			}

			c.Set(ContextKeyUserID, userID)
			return next(c)
		}
	}
}

// Token returns the raw session token from the request cookie, or "".
func (m *Middleware) Token(c echo.Context) string {
	cookie, err := c.Cookie(m.cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (m *Middleware) SetCookie(c echo.Context, rawToken string, expiresAt time.Time) {
	cookie := m.sessionCookie(rawToken)
	cookie.Expires = expiresAt
	c.SetCookie(cookie)
}

// ClearCookie expires the session cookie in the browser.
func (m *Middleware) ClearCookie(c echo.Context) {
	cookie := m.sessionCookie("")
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0)
	c.SetCookie(cookie)
}

func (m *Middleware) sessionCookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     cookiePath,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// GetUserID returns the admin id stored by RequireSession.
func GetUserID(c echo.Context) (uuid.UUID, error) {
	switch id := c.Get(ContextKeyUserID).(type) {
	case uuid.UUID:
		return id, nil
	case nil:
		return uuid.Nil, apperrors.Unauthorized(msgUserNotAuthenticated)
	default:
		return uuid.Nil, apperrors.InternalServer(msgInvalidUserIDCtx, nil)
	}
}

func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{jsonKeyMessage: message})
}
