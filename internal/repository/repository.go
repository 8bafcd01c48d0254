package repository

import (
	"context"
	"time"

	"proposal-service/internal/domain/proposal"
	"proposal-service/internal/domain/session"
	"proposal-service/internal/domain/user"

	"github.com/google/uuid"
)

// MutateFunc changes a proposal in place. Returning an error aborts the write.
type MutateFunc func(p *proposal.Proposal) error

// ProposalRepository defines proposal and item data access operations.
// Implementations return apperrors.ErrNotFound for unknown ids.
type ProposalRepository interface {
	// List returns every proposal with its items, newest first.
	List(ctx context.Context) ([]*proposal.Proposal, error)
	Get(ctx context.Context, id int64) (*proposal.Proposal, error)
	// Create stores p and its items, assigning ids.
	Create(ctx context.Context, p *proposal.Proposal) (*proposal.Proposal, error)
	// Update loads the proposal under a row lock, runs mutate on it and writes
	// the changed fields plus the item diff in the same transaction.
	Update(ctx context.Context, id int64, mutate MutateFunc) (*proposal.Proposal, error)
	// Delete removes the proposal and its items.
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// UserRepository defines admin account data access operations
type UserRepository interface {
	Create(ctx context.Context, input user.CreateUserInput) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

// SessionRepository defines session data access operations
type SessionRepository interface {
	Create(ctx context.Context, s *session.Session) error
	GetByHash(ctx context.Context, tokenHash string) (*session.Session, error)
	Delete(ctx context.Context, tokenHash string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
