package postgres

import (
	"context"
	"proposal-service/internal/domain/session"
	"proposal-service/internal/repository"
	apperrors "proposal-service/pkg/errors"
	"time"
)

var _ repository.SessionRepository = (*SessionRepository)(nil)

type SessionRepository struct {
	db *DB
}

func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, s *session.Session) error {
	query := `
		INSERT INTO sessions (token_hash, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := r.db.Pool.Exec(ctx, query, s.TokenHash, s.UserID, s.ExpiresAt, s.CreatedAt); err != nil {
		return errFailedCreateSession(err)
	}

	return nil
}

func (r *SessionRepository) GetByHash(ctx context.Context, tokenHash string) (*session.Session, error) {
	query := `
		SELECT token_hash, user_id, expires_at, created_at
		FROM sessions
		WHERE token_hash = $1
	`

	s := &session.Session{}
	err := r.db.Pool.QueryRow(ctx, query, tokenHash).Scan(&s.TokenHash, &s.UserID, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errSessionNotFound)
		}
		return nil, errFailedGetSession(err)
	}

	return s, nil
}

func (r *SessionRepository) Delete(ctx context.Context, tokenHash string) error {
	if _, err := r.db.Pool.Exec(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash); err != nil {
		return errFailedDeleteSession(err)
	}
	return nil
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, errFailedDeleteExpiredSessions(err)
	}
	return result.RowsAffected(), nil
}
