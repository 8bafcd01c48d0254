package handler

import (
	"net/http"

	"proposal-service/internal/audit"
	"proposal-service/internal/auth"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	sessions    SessionManager
	cookies     SessionCookies
	csrf        CSRFTokenManager
	auditLogger AuditLogger
}

func NewAuthHandler(sessions SessionManager, cookies SessionCookies, csrf CSRFTokenManager, auditLogger AuditLogger) *AuthHandler {
	return &AuthHandler{
		sessions:    sessions,
		cookies:     cookies,
		csrf:        csrf,
		auditLogger: auditLogger,
	}
}

type SignupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return respondAppError(c, err)
	}

	res, err := h.sessions.Signup(c.Request().Context(), auth.SignupInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.auditLogger.LogError(c, audit.ResourceTypeUser, "", audit.ActionSignup, err)
		return respondAppError(c, err)
	}

	c.Set(auth.ContextKeyUserID, res.User.ID)
	h.auditLogger.LogFromContext(c, audit.ResourceTypeUser, res.User.ID.String(), audit.ActionSignup, audit.StatusSuccess, nil)

	return h.respondSession(c, http.StatusCreated, res)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return respondAppError(c, err)
	}

	res, err := h.sessions.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		h.auditLogger.LogError(c, audit.ResourceTypeSession, "", audit.ActionLogin, err)
		return respondAppError(c, err)
	}

	c.Set(auth.ContextKeyUserID, res.User.ID)
	h.auditLogger.LogFromContext(c, audit.ResourceTypeSession, res.User.ID.String(), audit.ActionLogin, audit.StatusSuccess, nil)

	return h.respondSession(c, http.StatusOK, res)
}

// Logout always clears the cookie, even when the session is already gone.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	rawToken := h.cookies.Token(c)

	if userID, err := h.sessions.Authenticate(ctx, rawToken); err == nil {
		h.csrf.Revoke(userID)
		c.Set(auth.ContextKeyUserID, userID)
		h.auditLogger.LogFromContext(c, audit.ResourceTypeSession, userID.String(), audit.ActionLogout, audit.StatusSuccess, nil)
	}

	if err := h.sessions.Logout(ctx, rawToken); err != nil {
		return respondAppError(c, err)
	}

	h.cookies.ClearCookie(c)
	return respondMessage(c, http.StatusOK, msgLoggedOut)
}

// Me returns the signed-in admin and a CSRF token for unsafe requests.
func (h *AuthHandler) Me(c echo.Context) error {
	u, err := h.sessions.CurrentUser(c.Request().Context(), h.cookies.Token(c))
	if err != nil {
		return respondAppError(c, err)
	}

	csrfToken, err := h.csrf.GetOrCreateToken(u.ID)
	if err != nil {
		c.Logger().Errorf("Failed to issue CSRF token: %v", err)
		return respondError(c, http.StatusInternalServerError, msgCSRFTokenFail)
	}

	return c.JSON(http.StatusOK, sessionResponse{User: toUserResponse(u), CSRFToken: csrfToken})
}

func (h *AuthHandler) respondSession(c echo.Context, status int, res *auth.Result) error {
	csrfToken, err := h.csrf.GetOrCreateToken(res.User.ID)
	if err != nil {
		c.Logger().Errorf("Failed to issue CSRF token: %v", err)
		return respondError(c, http.StatusInternalServerError, msgCSRFTokenFail)
	}

	h.cookies.SetCookie(c, res.Token, res.ExpiresAt)
	return c.JSON(status, sessionResponse{User: toUserResponse(res.User), CSRFToken: csrfToken})
}
