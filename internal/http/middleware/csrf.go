package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"sync"
	"time"

	"proposal-service/internal/auth"
	"proposal-service/pkg/token"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	CSRFHeaderName = "X-CSRF-Token"

	csrfTokenBytes   = 32
	csrfTokenTTL     = 24 * time.Hour
	csrfSweepEvery   = time.Hour
	msgBadUserCtx    = "invalid user context"
	msgCSRFMissing   = "CSRF token required"
	msgCSRFMismatch  = "invalid CSRF token"
	msgCSRFNotIssued = "CSRF token not issued or expired"
)

type csrfEntry struct {
	value     string
	expiresAt time.Time
}

// CSRFMiddleware keeps one token per signed-in admin. The token is handed out
// with the session payload and must come back in X-CSRF-Token on every unsafe
// admin request.
type CSRFMiddleware struct {
	mu      sync.RWMutex
	tokens  map[uuid.UUID]csrfEntry
	now     func() time.Time
	cancel  context.CancelFunc
	stopped chan struct{}
}

// NewCSRFMiddleware starts the sweep of expired tokens; it runs until ctx is
// done or Stop is called.
func NewCSRFMiddleware(ctx context.Context) *CSRFMiddleware {
	sweepCtx, cancel := context.WithCancel(ctx)
	m := &CSRFMiddleware{
		tokens:  make(map[uuid.UUID]csrfEntry),
		now:     time.Now,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}

	go m.sweep(sweepCtx)

	return m
}

func (m *CSRFMiddleware) Stop() {
	m.cancel()
	<-m.stopped
}

func (m *CSRFMiddleware) sweep(ctx context.Context) {
	defer close(m.stopped)

	ticker := time.NewTicker(csrfSweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CleanupExpiredTokens()
		}
	}
}

// GetOrCreateToken returns the live token for userID, issuing one if needed.
func (m *CSRFMiddleware) GetOrCreateToken(userID uuid.UUID) (string, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if entry, ok := m.tokens[userID]; ok && now.Before(entry.expiresAt) {
		return entry.value, nil
	}

	value, err := token.GenerateHex(csrfTokenBytes)
	if err != nil {
		return "", err
	}

	m.tokens[userID] = csrfEntry{value: value, expiresAt: now.Add(csrfTokenTTL)}
	return value, nil
}

// Revoke drops the token for userID. Called on logout.
func (m *CSRFMiddleware) Revoke(userID uuid.UUID) {
	m.mu.Lock()
	delete(m.tokens, userID)
	m.mu.Unlock()
}

// CleanupExpiredTokens removes tokens past their expiry.
func (m *CSRFMiddleware) CleanupExpiredTokens() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for userID, entry := range m.tokens {
		if !now.Before(entry.expiresAt) {
			delete(m.tokens, userID)
			removed++
		}
	}
	return removed
}

func (m *CSRFMiddleware) lookup(userID uuid.UUID) (string, bool) {
	m.mu.RLock()
	entry, ok := m.tokens[userID]
	m.mu.RUnlock()

	if !ok || !m.now().Before(entry.expiresAt) {
		return "", false
	}
	return entry.value, true
}

// Middleware must run after RequireSession. Requests without an admin on the
// context pass through untouched.
func (m *CSRFMiddleware) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if isSafeMethod(c.Request().Method) {
				return next(c)
			}

			raw := c.Get(auth.ContextKeyUserID)
			if raw == nil {
				return next(c)
			}

			userID, ok := raw.(uuid.UUID)
			if !ok {
				return respondMessage(c, http.StatusUnauthorized, msgBadUserCtx)
			}

			provided := c.Request().Header.Get(CSRFHeaderName)
			if provided == "" {
				return respondMessage(c, http.StatusForbidden, msgCSRFMissing)
			}

			expected, ok := m.lookup(userID)
			if !ok {
				return respondMessage(c, http.StatusForbidden, msgCSRFNotIssued)
			}

			if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
				return respondMessage(c, http.StatusForbidden, msgCSRFMismatch)
			}

			return next(c)
		}
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
