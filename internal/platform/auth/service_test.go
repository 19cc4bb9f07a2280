package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"libra-backend/internal/platform/apperr"
)

type mockStore struct {
	getByEmailFn func(ctx context.Context, email string) (*User, error)
	createFn     func(ctx context.Context, u *User) error
}

var _ UserStore = (*mockStore)(nil)

func (m *mockStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	if m.getByEmailFn == nil {
		return nil, nil
	}
	return m.getByEmailFn(ctx, email)
}

func (m *mockStore) Create(ctx context.Context, u *User) error {
	if m.createFn == nil {
		return nil
	}
	return m.createFn(ctx, u)
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newTestService(store UserStore, revoker Revoker) *Service {
	return &Service{
		store:   store,
		revoker: revoker,
		secret:  []byte("test-secret"),
		ttl:     time.Hour,
		clock:   fixedClock{t: time.Now()},
	}
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func apiCode(t *testing.T, err error) apperr.Code {
	t.Helper()
	var api *apperr.APIError
	require.True(t, errors.As(err, &api), "expected *apperr.APIError, got %v", err)
	return api.Code
}

func TestRegister_DefaultsToStudent(t *testing.T) {
	ctx := context.Background()
	m := &mockStore{
		createFn: func(ctx context.Context, u *User) error {
			u.UserID = 7
			return nil
		},
	}
	svc := newTestService(m, nil)

	u, err := svc.Register(ctx, "Eda Yildiz", "eda@example.com", "supersecret", "")
	require.NoError(t, err)
	require.Equal(t, int64(7), u.UserID)
	require.Equal(t, RoleStudent, u.Role)
	require.NotEmpty(t, u.PasswordHash)
	require.NotEqual(t, "supersecret", u.PasswordHash)
}

func TestRegister_EmailTaken(t *testing.T) {
	ctx := context.Background()
	m := &mockStore{
		getByEmailFn: func(ctx context.Context, email string) (*User, error) {
			return &User{UserID: 1, Email: email}, nil
		},
	}
	svc := newTestService(m, nil)

	_, err := svc.Register(ctx, "Dup", "taken@example.com", "pw123456", "")
	require.Error(t, err)
	require.Equal(t, apperr.CodeConflict, apiCode(t, err))
}

func TestRegister_UnknownRole(t *testing.T) {
	svc := newTestService(&mockStore{}, nil)
	_, err := svc.Register(context.Background(), "X", "x@example.com", "pw", "superuser")
	require.Error(t, err)
	require.Equal(t, apperr.CodeInvalidArgument, apiCode(t, err))
}

func TestRegister_MissingFields(t *testing.T) {
	svc := newTestService(&mockStore{}, nil)
	for _, args := range [][3]string{
		{"", "x@example.com", "pw"},
		{"X", "", "pw"},
		{"X", "x@example.com", ""},
	} {
		_, err := svc.Register(context.Background(), args[0], args[1], args[2], "")
		require.Error(t, err)
		require.Equal(t, apperr.CodeInvalidArgument, apiCode(t, err))
	}
}

func TestLogin_IssuesTokenWithSubjectAndRole(t *testing.T) {
	ctx := context.Background()
	hash := mustHash(t, "hunter22")
	m := &mockStore{
		getByEmailFn: func(ctx context.Context, email string) (*User, error) {
			return &User{UserID: 42, Email: email, PasswordHash: hash, Role: RoleLibrarian}, nil
		},
	}
	svc := newTestService(m, nil)

	tokenStr, err := svc.Login(ctx, "lib@example.com", "hunter22")
	require.NoError(t, err)

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims := token.Claims.(jwt.MapClaims)
	require.Equal(t, "42", claims["sub"])
	require.Equal(t, RoleLibrarian, claims["role"])
	require.NotEmpty(t, claims["jti"])

	exp := int64(claims["exp"].(float64))
	iat := int64(claims["iat"].(float64))
	require.Equal(t, int64(time.Hour/time.Second), exp-iat)
}

func TestLogin_WrongPassword(t *testing.T) {
	hash := mustHash(t, "correct")
	m := &mockStore{
		getByEmailFn: func(ctx context.Context, email string) (*User, error) {
			return &User{UserID: 1, Email: email, PasswordHash: hash}, nil
		},
	}
	svc := newTestService(m, nil)

	_, err := svc.Login(context.Background(), "a@example.com", "wrong")
	require.Error(t, err)
	require.Equal(t, apperr.CodeUnauthorized, apiCode(t, err))
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := newTestService(&mockStore{}, nil)
	_, err := svc.Login(context.Background(), "ghost@example.com", "pw")
	require.Error(t, err)
	require.Equal(t, apperr.CodeUnauthorized, apiCode(t, err))
}

func TestLogout_RevokesJTI(t *testing.T) {
	ctx := context.Background()
	revoker := NewMemoryRevoker()
	svc := newTestService(&mockStore{}, revoker)

	until := time.Now().Add(time.Hour)
	require.NoError(t, svc.Logout(ctx, "some-jti", until))
	require.True(t, revoker.IsRevoked(ctx, "some-jti"))
	require.False(t, revoker.IsRevoked(ctx, "other-jti"))
}

func TestLogout_NoJTIIsNoop(t *testing.T) {
	svc := newTestService(&mockStore{}, NewMemoryRevoker())
	require.NoError(t, svc.Logout(context.Background(), "", time.Now().Add(time.Hour)))
}
