package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"proposal-service/internal/domain/session"
	"proposal-service/internal/domain/user"
	"proposal-service/internal/repository"
	apperrors "proposal-service/pkg/errors"

	"github.com/google/uuid"
)

const (
	errUserNotFound    = "user not found"
	errSessionNotFound = "session not found"
)

var (
	_ repository.UserRepository    = (*UserRepository)(nil)
	_ repository.SessionRepository = (*SessionRepository)(nil)
)

type UserRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*user.User
	byEmail map[string]uuid.UUID
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[uuid.UUID]*user.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (r *UserRepository) Create(_ context.Context, input user.CreateUserInput) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(input.Email)
	if _, exists := r.byEmail[key]; exists {
		return nil, apperrors.EmailExists()
	}

	now := time.Now()
	u := &user.User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.byID[u.ID] = u
	r.byEmail[key] = u.ID

	copied := *u
	return &copied, nil
}

func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NotFound(errUserNotFound)
	}
	copied := *u
	return &copied, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[strings.ToLower(email)]
	r.mu.RUnlock()

	if !ok {
		return nil, apperrors.NotFound(errUserNotFound)
	}
	return r.GetByID(ctx, id)
}

type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]session.Session
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: make(map[string]session.Session)}
}

func (r *SessionRepository) Create(_ context.Context, s *session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.TokenHash] = *s
	return nil
}

func (r *SessionRepository) GetByHash(_ context.Context, tokenHash string) (*session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[tokenHash]
	if !ok {
		return nil, apperrors.NotFound(errSessionNotFound)
	}
	return &s, nil
}

func (r *SessionRepository) Delete(_ context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, tokenHash)
	return nil
}

func (r *SessionRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for hash, s := range r.sessions {
		if s.Expired(now) {
			delete(r.sessions, hash)
			removed++
		}
	}
	return removed, nil
}
