package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"proposal-service/internal/config"
	"proposal-service/internal/domain/session"
	"proposal-service/internal/domain/user"
	"proposal-service/internal/infra/cache"
	"proposal-service/internal/repository"
	apperrors "proposal-service/pkg/errors"
	"proposal-service/pkg/password"
	"proposal-service/pkg/token"
	"proposal-service/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SignupInput carries a new admin account. Names are optional.
type SignupInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Result is an opened session. Token is only ever returned here; the store
// keeps its hash.
type Result struct {
	User      *user.User
	Token     string
	ExpiresAt time.Time
}

// Manager opens, validates and closes admin sessions.
type Manager struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	cache    *cache.SessionCache
	hasher   *password.Hasher
	ttl      time.Duration
	cacheTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

func NewManager(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	sessionCache *cache.SessionCache,
	hasher *password.Hasher,
	cfg config.SessionConfig,
	logger *zap.Logger,
) *Manager {
	return &Manager{
		users:    users,
		sessions: sessions,
		cache:    sessionCache,
		hasher:   hasher,
		ttl:      cfg.TTL,
		cacheTTL: cfg.CacheTTL,
		logger:   logger,
		now:      time.Now,
	}
}

func (m *Manager) Signup(ctx context.Context, input SignupInput) (*Result, error) {
	email := normalizeEmail(input.Email)
	if err := validator.Email(email); err != nil {
		return nil, apperrors.BadRequest(err.Error())
	}
	if err := validator.Password(input.Password); err != nil {
		return nil, apperrors.BadRequest(err.Error())
	}

	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	for _, name := range []string{firstName, lastName} {
		if err := validator.PersonName(name); err != nil {
			return nil, apperrors.BadRequest(err.Error())
		}
	}

	passwordHash, err := m.hasher.Hash(input.Password)
	if err != nil {
		return nil, apperrors.InternalServer(msgPasswordProcessFail, err)
	}

	u, err := m.users.Create(ctx, user.CreateUserInput{
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
	})
	if err != nil {
		return nil, err
	}

	return m.open(ctx, u)
}

// Login checks the credentials and opens a session. Unknown emails and wrong
// passwords fail the same way and take the same time.
func (m *Manager) Login(ctx context.Context, email, plain string) (*Result, error) {
	email = normalizeEmail(email)
	if email == "" || plain == "" {
		m.hasher.VerifyMissing(plain)
		return nil, apperrors.InvalidCredentials()
	}

	u, err := m.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		m.hasher.VerifyMissing(plain)
		return nil, apperrors.InvalidCredentials()
	}

	if !m.hasher.Verify(plain, u.PasswordHash) {
		return nil, apperrors.InvalidCredentials()
	}

	return m.open(ctx, u)
}

// Logout ends the session behind rawToken. An empty or unknown token is not
// an error.
func (m *Manager) Logout(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return nil
	}

	hash := token.Hash(rawToken)
	m.cache.Delete(hash)
	return m.sessions.Delete(ctx, hash)
}

// Authenticate resolves rawToken to the owning user id.
func (m *Manager) Authenticate(ctx context.Context, rawToken string) (uuid.UUID, error) {
	if rawToken == "" {
		return uuid.Nil, apperrors.Unauthorized(msgMissingSession)
	}

	hash := token.Hash(rawToken)
	if userID, ok := m.cache.Get(hash); ok {
		return userID, nil
	}

	s, err := m.sessions.GetByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return uuid.Nil, apperrors.Unauthorized(msgInvalidOrExpiredSession)
		}
		return uuid.Nil, err
	}

	now := m.now()
	if s.Expired(now) {
		if err := m.sessions.Delete(ctx, hash); err != nil {
			m.logger.Warn("failed to delete expired session", zap.Error(err))
		}
		return uuid.Nil, apperrors.Unauthorized(msgInvalidOrExpiredSession)
	}

	cacheUntil := now.Add(m.cacheTTL)
	if s.ExpiresAt.Before(cacheUntil) {
		cacheUntil = s.ExpiresAt
	}
	m.cache.Set(hash, s.UserID, cacheUntil)

	return s.UserID, nil
}

// CurrentUser returns the admin owning rawToken.
func (m *Manager) CurrentUser(ctx context.Context, rawToken string) (*user.User, error) {
	userID, err := m.Authenticate(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	u, err := m.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized(msgUserNotAuthenticated)
		}
		return nil, err
	}

	return u, nil
}

// StartCleanup purges expired sessions and cache entries until ctx is done.
func (m *Manager) StartCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultCleanupInterval
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.purgeExpired(ctx)
			}
		}
	}()
}

func (m *Manager) purgeExpired(ctx context.Context) {
	removed, err := m.sessions.DeleteExpired(ctx, m.now())
	if err != nil {
		m.logger.Warn("session cleanup failed", zap.Error(err))
		return
	}

	cached := m.cache.Clear()
	if removed > 0 || cached > 0 {
		m.logger.Debug("expired sessions removed",
			zap.Int64("sessions", removed),
			zap.Int("cached", cached),
		)
	}
}

func (m *Manager) open(ctx context.Context, u *user.User) (*Result, error) {
	rawToken, err := token.GenerateSessionToken()
	if err != nil {
		return nil, apperrors.InternalServer(msgGenerateTokenFail, err)
	}

	now := m.now()
	s := &session.Session{
		TokenHash: token.Hash(rawToken),
		UserID:    u.ID,
		ExpiresAt: now.Add(m.ttl),
		CreatedAt: now,
	}
	if err := m.sessions.Create(ctx, s); err != nil {
		return nil, err
	}

	return &Result{User: u, Token: rawToken, ExpiresAt: s.ExpiresAt}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
