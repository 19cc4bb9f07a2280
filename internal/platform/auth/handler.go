package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"libra-backend/internal/platform/apperr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(public, private gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	public.POST("/register", h.Register)
	public.POST("/login", h.Login)
	private.POST("/logout", h.Logout)
}

type RegisterRequest struct {
	FullName string  `json:"full_name" binding:"required"`
	Email    string  `json:"email" binding:"required"`
	Password string  `json:"password" binding:"required"`
	Role     *string `json:"role,omitempty"`
}

type UserResponse struct {
	UserID    int64     `json:"user_id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Register godoc
// @Summary  Register a new user
// @Tags     auth
// @Accept   json
// @Produce  json
// @Success  201 {object} UserResponse
// @Router   /register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeInvalidArgument, "invalid json or missing required fields"))
		return
	}

	role := ""
	if req.Role != nil {
		role = *req.Role
	}

	u, err := h.svc.Register(c.Request.Context(), req.FullName, req.Email, req.Password, role)
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.FromErr(err))
		return
	}

	c.JSON(http.StatusCreated, UserResponse{
		UserID:    u.UserID,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	})
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary  Exchange credentials for a bearer token
// @Tags     auth
// @Accept   json
// @Produce  json
// @Router   /login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeInvalidArgument, "invalid json or missing required fields"))
		return
	}

	token, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.FromErr(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Logout revokes the presented token's jti. The token would otherwise
// stay valid until its expiry.
func (h *Handler) Logout(c *gin.Context) {
	jti := c.GetString(CtxJTIKey)

	var exp time.Time
	if v, ok := c.Get(CtxExpKey); ok {
		if t, ok := v.(time.Time); ok {
			exp = t
		}
	}

	if err := h.svc.Logout(c.Request.Context(), jti, exp); err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.FromErr(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
