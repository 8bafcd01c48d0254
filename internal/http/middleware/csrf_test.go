package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"proposal-service/internal/auth"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCSRF(t *testing.T, m *CSRFMiddleware, method string, userID *uuid.UUID, token string) int {
	t.Helper()

	req := httptest.NewRequest(method, "/api/proposals", nil)
	if token != "" {
		req.Header.Set(CSRFHeaderName, token)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	if userID != nil {
		c.Set(auth.ContextKeyUserID, *userID)
	}

	err := m.Middleware()(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})(c)
	require.NoError(t, err)
	return rec.Code
}

func TestCSRFMiddleware(t *testing.T) {
	m := NewCSRFMiddleware(context.Background())
	defer m.Stop()

	userID := uuid.New()
	token, err := m.GetOrCreateToken(userID)
	require.NoError(t, err)

	again, err := m.GetOrCreateToken(userID)
	require.NoError(t, err)
	assert.Equal(t, token, again)

	assert.Equal(t, http.StatusNoContent, runCSRF(t, m, http.MethodGet, &userID, ""))
	assert.Equal(t, http.StatusNoContent, runCSRF(t, m, http.MethodPost, nil, ""))
	assert.Equal(t, http.StatusForbidden, runCSRF(t, m, http.MethodPost, &userID, ""))
	assert.Equal(t, http.StatusForbidden, runCSRF(t, m, http.MethodPut, &userID, "wrong"))
	assert.Equal(t, http.StatusNoContent, runCSRF(t, m, http.MethodDelete, &userID, token))

	m.Revoke(userID)
	assert.Equal(t, http.StatusForbidden, runCSRF(t, m, http.MethodPost, &userID, token))
}

func TestCSRFMiddleware_ExpiredTokens(t *testing.T) {
	m := NewCSRFMiddleware(context.Background())
	defer m.Stop()

	now := time.Now()
	m.now = func() time.Time { return now }

	userID := uuid.New()
	token, err := m.GetOrCreateToken(userID)
	require.NoError(t, err)

	now = now.Add(csrfTokenTTL + time.Minute)
	assert.Equal(t, http.StatusForbidden, runCSRF(t, m, http.MethodPost, &userID, token))

	assert.Equal(t, 1, m.CleanupExpiredTokens())
	assert.Empty(t, m.tokens)

	fresh, err := m.GetOrCreateToken(userID)
	require.NoError(t, err)
	assert.NotEqual(t, token, fresh)
}
