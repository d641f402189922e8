package auth

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

const userColumns = "user_id, email, username, password_hash, role, is_active, created_at, updated_at"

type SQLStore struct {
	DB *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{DB: db} }

func (s *SQLStore) CreateUser(ctx context.Context, email, username, passwordHash string) (User, error) {
	const q = `
		INSERT INTO users (user_id, email, username, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns
	var u User
	err := s.DB.QueryRowContext(ctx, q, uuid.NewString(), email, username, passwordHash).Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash,
		&u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

// FindByLogin matches the username exactly or the email case-insensitively.
func (s *SQLStore) FindByLogin(ctx context.Context, login string) (User, error) {
	const q = `
		SELECT ` + userColumns + `
		FROM users
		WHERE username = $1 OR email = lower($1)
		LIMIT 1`
	return s.scanOne(ctx, q, login)
}

func (s *SQLStore) FindByID(ctx context.Context, id string) (User, error) {
	const q = `
		SELECT ` + userColumns + `
		FROM users
		WHERE user_id = $1`
	return s.scanOne(ctx, q, id)
}

func (s *SQLStore) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	const q = `UPDATE users SET password_hash = $1, updated_at = now() WHERE user_id = $2`
	_, err := s.DB.ExecContext(ctx, q, newHash, userID)
	return err
}

func (s *SQLStore) scanOne(ctx context.Context, q string, arg any) (User, error) {
	var u User
	err := s.DB.QueryRowContext(ctx, q, arg).Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash,
		&u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}
