package handler

import (
	"context"
	"time"

	"proposal-service/internal/audit"
	"proposal-service/internal/auth"
	"proposal-service/internal/domain/user"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Consumer-side interfaces defined by handlers

type AuditLogger interface {
	LogFromContext(c echo.Context, resourceType audit.ResourceType, resourceID string, action audit.Action, status audit.Status, metadata map[string]any)
	LogError(c echo.Context, resourceType audit.ResourceType, resourceID string, action audit.Action, err error)
	Query(ctx context.Context, filter audit.Filter) ([]*audit.Event, error)
}

type SessionManager interface {
	Signup(ctx context.Context, input auth.SignupInput) (*auth.Result, error)
	Login(ctx context.Context, email, password string) (*auth.Result, error)
	Logout(ctx context.Context, rawToken string) error
	Authenticate(ctx context.Context, rawToken string) (uuid.UUID, error)
	CurrentUser(ctx context.Context, rawToken string) (*user.User, error)
}

type SessionCookies interface {
	Token(c echo.Context) string
	SetCookie(c echo.Context, rawToken string, expiresAt time.Time)
	ClearCookie(c echo.Context)
}

type CSRFTokenManager interface {
	GetOrCreateToken(userID uuid.UUID) (string, error)
	Revoke(userID uuid.UUID)
}
