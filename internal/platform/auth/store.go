package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type User struct {
	UserID       int64
	FullName     string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u *User) error
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) UserStore {
	return &Store{db: db}
}

// GetByEmail returns (nil, nil) when no user has that email. Lookup is
// case-sensitive, matching the stored value.
func (s *Store) GetByEmail(ctx context.Context, email string) (*User, error) {
	const q = `
SELECT user_id, full_name, email, password_hash, role, created_at
FROM users
WHERE email = ?
LIMIT 1
`
	var u User
	err := s.db.QueryRowContext(ctx, q, email).Scan(
		&u.UserID,
		&u.FullName,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) Create(ctx context.Context, u *User) error {
	const q = `
INSERT INTO users (full_name, email, password_hash, role, created_at)
VALUES (?, ?, ?, ?, NOW(6))
`
	res, err := s.db.ExecContext(ctx, q, u.FullName, u.Email, u.PasswordHash, u.Role)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.UserID = id
	return nil
}
