package auth

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"libra-backend/internal/platform/apperr"
	platformdb "libra-backend/internal/platform/db"
)

const (
	RoleStudent   = "student"
	RoleLibrarian = "librarian"
	RoleAdmin     = "admin"

	DefaultTokenTTL = time.Hour
)

func ValidRole(r string) bool {
	switch r {
	case RoleStudent, RoleLibrarian, RoleAdmin:
		return true
	}
	return false
}

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type Service struct {
	store   UserStore
	revoker Revoker
	secret  []byte
	ttl     time.Duration
	clock   Clock
}

func NewService(db *sql.DB, secret []byte, ttl time.Duration, revoker Revoker) *Service {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Service{
		store:   NewStore(db),
		revoker: revoker,
		secret:  secret,
		ttl:     ttl,
		clock:   realClock{},
	}
}

// Register creates a user with a bcrypt-hashed password. role defaults to
// student when empty.
func (s *Service) Register(ctx context.Context, fullName, email, password, role string) (*User, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(email)
	if fullName == "" {
		return nil, apperr.ErrInvalid("full_name is required")
	}
	if email == "" {
		return nil, apperr.ErrInvalid("email is required")
	}
	if password == "" {
		return nil, apperr.ErrInvalid("password is required")
	}
	if role == "" {
		role = RoleStudent
	}
	if !ValidRole(role) {
		return nil, apperr.ErrInvalid("role must be student, librarian or admin")
	}

	existing, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperr.ErrInternal("failed to look up email")
	}
	if existing != nil {
		return nil, apperr.ErrConflict("email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
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
		// The unique key is the arbiter; the pre-check above only exists
		// for a friendlier error on the common path.
		if platformdb.IsDuplicateKey(err) {
			return nil, apperr.ErrConflict("email already exists")
		}
		return nil, apperr.ErrInternal("failed to create user")
	}
	return u, nil
}

// Login verifies credentials and issues an HS256 token carrying the
// subject id, role and a jti used by the revocation list.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return "", apperr.ErrInternal("failed to look up email")
	}
	if u == nil {
		return "", apperr.ErrUnauthorized("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", apperr.ErrUnauthorized("invalid email or password")
	}

	now := s.clock.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  strconv.FormatInt(u.UserID, 10),
		"role": u.Role,
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperr.ErrInternal("failed to sign token")
	}
	return signed, nil
}

// Logout revokes the token's jti until its natural expiry. Tokens issued
// without a jti cannot be revoked and simply expire.
func (s *Service) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if jti == "" || s.revoker == nil {
		return nil
	}
	if err := s.revoker.Revoke(ctx, jti, expiresAt); err != nil {
		return apperr.ErrUnavailable("failed to record logout")
	}
	return nil
}
