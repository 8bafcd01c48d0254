package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"proposal-service/internal/audit"
	"proposal-service/internal/auth"
	"proposal-service/internal/config"
	"proposal-service/internal/http/middleware"
	"proposal-service/internal/infra/cache"
	"proposal-service/internal/repository/memory"
	"proposal-service/pkg/password"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testCookieName = "sid"

func newAuthHandler(t *testing.T) *AuthHandler {
	t.Helper()

	cfg := config.SessionConfig{TTL: time.Hour, CacheTTL: time.Minute, CookieName: testCookieName}
	manager := auth.NewManager(
		memory.NewUserRepository(),
		memory.NewSessionRepository(),
		cache.NewSessionCache(),
		password.NewHasher(bcrypt.MinCost),
		cfg,
		zap.NewNop(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	csrf := middleware.NewCSRFMiddleware(ctx)
	t.Cleanup(func() {
		cancel()
		csrf.Stop()
	})

	return NewAuthHandler(manager, auth.NewMiddleware(manager, cfg), csrf, audit.NewLogger(audit.NewMemoryStore(), zap.NewNop()))
}

func authRequest(t *testing.T, h echo.HandlerFunc, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	method := http.MethodPost
	if body == "" {
		method = http.MethodGet
	}
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()

	require.NoError(t, h(echo.New().NewContext(req, rec)))
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", testCookieName)
	return nil
}

func TestAuthHandler_SignupMeLogout(t *testing.T) {
	h := newAuthHandler(t)

	rec := authRequest(t, h.Signup, `{"email":"admin@noviq.io","password":"correct-horse","firstName":"Ada","lastName":"Lovelace"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	signup := decode[sessionResponse](t, rec)
	assert.Equal(t, "admin@noviq.io", signup.User.Email)
	assert.NotEmpty(t, signup.CSRFToken)

	cookie := sessionCookie(t, rec)
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, cookie.Value)

	rec = authRequest(t, h.Me, "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[sessionResponse](t, rec)
	assert.Equal(t, signup.User.ID, me.User.ID)
	assert.Equal(t, signup.CSRFToken, me.CSRFToken)

	rec = authRequest(t, h.Logout, "{}", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, -1, sessionCookie(t, rec).MaxAge)

	rec = authRequest(t, h.Me, "", cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	h := newAuthHandler(t)

	rec := authRequest(t, h.Signup, `{"email":"admin@noviq.io","password":"correct-horse","firstName":"Ada"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = authRequest(t, h.Login, `{"email":"ADMIN@noviq.io","password":"correct-horse"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, sessionCookie(t, rec).Value)

	rec = authRequest(t, h.Login, `{"email":"admin@noviq.io","password":"wrong-horse"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = authRequest(t, h.Login, `{"email":"nobody@noviq.io","password":"correct-horse"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_SignupErrors(t *testing.T) {
	h := newAuthHandler(t)

	body := `{"email":"admin@noviq.io","password":"correct-horse","firstName":"Ada"}`
	require.Equal(t, http.StatusCreated, authRequest(t, h.Signup, body, nil).Code)
	assert.Equal(t, http.StatusConflict, authRequest(t, h.Signup, body, nil).Code)

	rec := authRequest(t, h.Signup, `{"email":"not-an-email","password":"correct-horse","firstName":"Ada"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = authRequest(t, h.Signup, `{"email":"a@noviq.io","password":"correct-horse","firstName":"Ada","role":"owner"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "role", decode[ErrorResponse](t, rec).Field)
}

func TestAuthHandler_LogoutWithoutSession(t *testing.T) {
	h := newAuthHandler(t)

	rec := authRequest(t, h.Logout, "{}", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
