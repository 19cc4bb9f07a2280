package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"libra-backend/internal/platform/apperr"
)

const (
	CtxUserIDKey = "user_id"
	CtxRoleKey   = "role"
	CtxJTIKey    = "jti"
	CtxExpKey    = "token_exp"
)

// RequireAuth validates "Authorization: Bearer <token>" and puts
// sub/role/jti into the context. Verification is in-memory; the revoker
// is the only extra lookup and defaults to an in-process set.
func RequireAuth(secret []byte, revoker Revoker) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apperr.Body(apperr.CodeUnauthorized, "missing Authorization header"))
			return
		}

		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apperr.Body(apperr.CodeUnauthorized, "invalid Authorization header"))
			return
		}

		tokenStr := strings.TrimSpace(parts[1])
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apperr.Body(apperr.CodeUnauthorized, "empty token"))
			return
		}

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
			// Pin the alg so "none" and key-confusion tokens fail.
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || token == nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apperr.Body(apperr.CodeUnauthorized, "invalid or expired token"))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apperr.Body(apperr.CodeUnauthorized, "invalid claims"))
			return
		}

		sub, ok := claims["sub"].(string)
		if !ok || sub == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apperr.Body(apperr.CodeUnauthorized, "missing sub"))
			return
		}

		role := ""
		if r, ok := claims["role"].(string); ok {
			role = r
		}

		jti := ""
		if j, ok := claims["jti"].(string); ok {
			jti = j
		}
		if jti != "" && revoker != nil && revoker.IsRevoked(c.Request.Context(), jti) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apperr.Body(apperr.CodeUnauthorized, "token revoked"))
			return
		}

		var exp time.Time
		if e, ok := claims["exp"].(float64); ok {
			exp = time.Unix(int64(e), 0)
		}

		c.Set(CtxUserIDKey, sub)
		c.Set(CtxRoleKey, role)
		c.Set(CtxJTIKey, jti)
		c.Set(CtxExpKey, exp)
		c.Next()
	}
}

// RequireRole is the seam for per-role rules. The baseline policy gates
// every protected route on "any valid token" only, so nothing mounts
// this yet; adding role checks is a route-table change, not a handler one.
func RequireRole(roles ...string) gin.HandlerFunc {
	roleSet := make(map[string]struct{})
	for _, r := range roles {
		if r == "" {
			continue
		}
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		v, ok := c.Get(CtxRoleKey)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, apperr.Body(apperr.CodeUnauthorized, "missing role"))
			return
		}

		role, ok := v.(string)
		if !ok || role == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, apperr.Body(apperr.CodeUnauthorized, "invalid role"))
			return
		}

		if _, allowed := roleSet[role]; !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, apperr.Body(apperr.CodeUnauthorized, "forbidden"))
			return
		}

		c.Next()
	}
}
