package users

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"libra-backend/internal/platform/apperr"
	"libra-backend/internal/platform/auth"
	platformdb "libra-backend/internal/platform/db"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type Service struct {
	store UserStore
	clock Clock
}

func NewService(db *sql.DB) *Service {
	return &Service{store: NewStore(db), clock: realClock{}}
}

func (s *Service) List(ctx context.Context) ([]UserResponse, error) {
	rows, err := s.store.List(ctx)
	if err != nil {
		return nil, apperr.ErrInternal("failed to list users")
	}
	out := make([]UserResponse, 0, len(rows))
	for _, u := range rows {
		out = append(out, u.toDTO())
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*UserResponse, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.ErrInternal("failed to get user")
	}
	if u == nil {
		return nil, apperr.ErrNotFound("user not found")
	}
	dto := u.toDTO()
	return &dto, nil
}

// Create is the staff-facing variant of registration: same validation,
// but the role is given explicitly.
func (s *Service) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := strings.TrimSpace(req.Email)
	if fullName == "" || email == "" || req.Password == "" {
		return nil, apperr.ErrInvalid("full_name, email and password are required")
	}

	role := auth.RoleStudent
	if req.Role != nil && *req.Role != "" {
		role = *req.Role
	}
	if !auth.ValidRole(role) {
		return nil, apperr.ErrInvalid("role must be student, librarian or admin")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.ErrInternal("failed to hash password")
	}

	u := &User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    s.clock.Now().UTC(),
	}
	if err := s.store.Create(ctx, u); err != nil {
		if platformdb.IsDuplicateKey(err) {
			return nil, apperr.ErrConflict("email already exists")
		}
		return nil, apperr.ErrInternal("failed to create user")
	}
	dto := u.toDTO()
	return &dto, nil
}

func (s *Service) UpdateMe(ctx context.Context, id int64, req UpdateMeRequest) (*UserResponse, error) {
	if req.FullName == nil && req.Email == nil && req.Password == nil {
		return nil, apperr.ErrInvalid("no fields to update")
	}
	if req.Password != nil && *req.Password == "" {
		return nil, apperr.ErrInvalid("password must not be empty")
	}

	var hash *string
	if req.Password != nil {
		h, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperr.ErrInternal("failed to hash password")
		}
		hs := string(h)
		hash = &hs
	}

	n, err := s.store.UpdateProfile(ctx, id, req.FullName, req.Email, hash)
	if err != nil {
		if platformdb.IsDuplicateKey(err) {
			return nil, apperr.ErrConflict("email already exists")
		}
		return nil, apperr.ErrInternal("failed to update user")
	}
	if n == 0 {
		// RowsAffected is 0 both for a missing row and for a no-op
		// update, so check existence before deciding.
		if err := s.mustExist(ctx, id); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateUserRequest) (*UserResponse, error) {
	if req.FullName == nil && req.Email == nil && req.Role == nil {
		return nil, apperr.ErrInvalid("no fields to update")
	}
	if req.Role != nil && !auth.ValidRole(*req.Role) {
		return nil, apperr.ErrInvalid("role must be student, librarian or admin")
	}

	n, err := s.store.UpdateRecord(ctx, id, req.FullName, req.Email, req.Role)
	if err != nil {
		if platformdb.IsDuplicateKey(err) {
			return nil, apperr.ErrConflict("email already exists")
		}
		return nil, apperr.ErrInternal("failed to update user")
	}
	if n == 0 {
		if err := s.mustExist(ctx, id); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, id)
}

// Delete refuses to orphan borrow history: the FK is RESTRICT and a
// violation surfaces as CONFLICT.
func (s *Service) Delete(ctx context.Context, id int64) error {
	n, err := s.store.Delete(ctx, id)
	if err != nil {
		if platformdb.IsFKViolation(err) {
			return apperr.ErrConflict("user has borrow records")
		}
		return apperr.ErrInternal("failed to delete user")
	}
	if n == 0 {
		return apperr.ErrNotFound("user not found")
	}
	return nil
}

func (s *Service) mustExist(ctx context.Context, id int64) error {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return apperr.ErrInternal("failed to get user")
	}
	if u == nil {
		return apperr.ErrNotFound("user not found")
	}
	return nil
}
