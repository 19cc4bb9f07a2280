package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("middleware-secret")

func newTestRouter(revoker Revoker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", RequireAuth(testSecret, revoker), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"sub":  c.GetString(CtxUserIDKey),
			"role": c.GetString(CtxRoleKey),
		})
	})
	return r
}

func signToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return s
}

func doGet(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	w := doGet(newTestRouter(nil), "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_NotBearer(t *testing.T) {
	w := doGet(newTestRouter(nil), "Basic abc123")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_Garbage(t *testing.T) {
	w := doGet(newTestRouter(nil), "Bearer not.a.token")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_WrongSecret(t *testing.T) {
	token := signToken(t, []byte("other-secret"), jwt.MapClaims{
		"sub": "1", "exp": time.Now().Add(time.Hour).Unix(),
	})
	w := doGet(newTestRouter(nil), "Bearer "+token)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_Expired(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "1", "exp": time.Now().Add(-time.Minute).Unix(),
	})
	w := doGet(newTestRouter(nil), "Bearer "+token)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_Valid(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "42", "role": RoleAdmin, "jti": "j1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	w := doGet(newTestRouter(NewMemoryRevoker()), "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"sub":"42"`)
	require.Contains(t, w.Body.String(), `"role":"admin"`)
}

// A well-formed token keeps working even if its user row was deleted:
// the guard only verifies the token, it never reads the store.
func TestRequireAuth_NoUserExistenceCheck(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "999999", "role": RoleStudent,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	w := doGet(newTestRouter(nil), "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuth_RevokedToken(t *testing.T) {
	revoker := NewMemoryRevoker()
	require.NoError(t, revoker.Revoke(context.Background(), "revoked-jti", time.Now().Add(time.Hour)))

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "1", "jti": "revoked-jti",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	w := doGet(newTestRouter(revoker), "Bearer "+token)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "token revoked")
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin-only", RequireAuth(testSecret, nil), RequireRole(RoleAdmin), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	student := signToken(t, testSecret, jwt.MapClaims{
		"sub": "1", "role": RoleStudent, "exp": time.Now().Add(time.Hour).Unix(),
	})
	admin := signToken(t, testSecret, jwt.MapClaims{
		"sub": "2", "role": RoleAdmin, "exp": time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+student)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}
