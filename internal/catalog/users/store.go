package users

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

type UserStore interface {
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, u *User) error
	UpdateProfile(ctx context.Context, id int64, fullName, email, passwordHash *string) (int64, error)
	UpdateRecord(ctx context.Context, id int64, fullName, email, role *string) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) UserStore { return &Store{db: db} }

func (s *Store) List(ctx context.Context) ([]User, error) {
	const q = `
SELECT user_id, full_name, email, role, created_at
FROM users
ORDER BY user_id ASC
`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.UserID, &u.FullName, &u.Email, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// GetByID returns (nil, nil) when the user does not exist.
func (s *Store) GetByID(ctx context.Context, id int64) (*User, error) {
	const q = `
SELECT user_id, full_name, email, role, created_at
FROM users
WHERE user_id = ?
LIMIT 1
`
	var u User
	err := s.db.QueryRowContext(ctx, q, id).Scan(&u.UserID, &u.FullName, &u.Email, &u.Role, &u.CreatedAt)
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

func (s *Store) UpdateProfile(ctx context.Context, id int64, fullName, email, passwordHash *string) (int64, error) {
	sets, args := buildSets(map[string]*string{
		"full_name":     fullName,
		"email":         email,
		"password_hash": passwordHash,
	})
	if len(sets) == 0 {
		return 0, nil
	}
	args = append(args, id)
	q := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE user_id = ?`
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) UpdateRecord(ctx context.Context, id int64, fullName, email, role *string) (int64, error) {
	sets, args := buildSets(map[string]*string{
		"full_name": fullName,
		"email":     email,
		"role":      role,
	})
	if len(sets) == 0 {
		return 0, nil
	}
	args = append(args, id)
	q := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE user_id = ?`
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) Delete(ctx context.Context, id int64) (int64, error) {
	const q = `DELETE FROM users WHERE user_id = ?`
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// buildSets keeps the SET clause order stable for readable queries.
var profileColumns = []string{"full_name", "email", "password_hash", "role"}

func buildSets(cols map[string]*string) ([]string, []any) {
	var sets []string
	var args []any
	for _, col := range profileColumns {
		if v, ok := cols[col]; ok && v != nil {
			sets = append(sets, col+" = ?")
			args = append(args, *v)
		}
	}
	return sets, args
}
