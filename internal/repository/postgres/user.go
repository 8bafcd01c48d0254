package postgres

import (
	"context"
	"time"

	"proposal-service/internal/domain/user"
	"proposal-service/internal/repository"
	apperrors "proposal-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var _ repository.UserRepository = (*UserRepository)(nil)

const userColumns = `id, email, password_hash, first_name, last_name, created_at, updated_at`

// userRow mirrors the users table for pgx.RowToStructByName.
type userRow struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r userRow) toDomain() *user.User {
	return &user.User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, input user.CreateUserInput) (*user.User, error) {
	rows, _ := r.db.Pool.Query(ctx, `
		INSERT INTO users (id, email, password_hash, first_name, last_name)
		VALUES (@id, @email, @password_hash, @first_name, @last_name)
		RETURNING `+userColumns,
		pgx.NamedArgs{
			"id":            uuid.New(),
			"email":         input.Email,
			"password_hash": input.PasswordHash,
			"first_name":    input.FirstName,
			"last_name":     input.LastName,
		},
	)

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[userRow])
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.EmailExists()
		}
		return nil, errFailedCreateUser(err)
	}
	return row.toDomain(), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail expects an already normalized address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*user.User, error) {
	rows, _ := r.db.Pool.Query(ctx, query, arg)

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[userRow])
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errUserNotFound)
		}
		return nil, errFailedGetUser(err)
	}
	return row.toDomain(), nil
}
