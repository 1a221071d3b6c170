package auth

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"libris-backend/internal/platform/apierr"
)

type Handler struct{ svc *Service }

// RegisterRoutes mounts the account endpoints. user and admin must already
// carry RequireAuth (and RequireRole for admin).
func RegisterRoutes(public, user, admin gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	public.POST("/auth/register", h.Register)
	public.POST("/auth/login", h.Login)
	user.POST("/auth/logout", h.Logout)
	user.GET("/me", h.Me)
	admin.GET("/admin/users", h.ListUsers)
}

type RegisterRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AccountResponse struct {
	UserID     int64     `json:"user_id"`
	FullName   string    `json:"full_name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	TotalFines string    `json:"total_fines"`
	CreatedAt  time.Time `json:"created_at"`
}

type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Account   AccountResponse `json:"account"`
}

func toAccountResponse(a *Account) AccountResponse {
	return AccountResponse{
		UserID:     a.UserID,
		FullName:   a.FullName,
		Email:      a.Email,
		Role:       a.Role,
		TotalFines: a.TotalFines.StringFixed(2),
		CreatedAt:  a.CreatedAt,
	}
}

// Register godoc
// @Summary  Create a patron account
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body RegisterRequest true "account"
// @Success  201 {object} AccountResponse
// @Router   /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.ErrInvalid("invalid request body"))
		return
	}
	acct, err := h.svc.Register(c.Request.Context(), RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAccountResponse(acct))
}

// Login godoc
// @Summary  Log in and receive a bearer token
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body LoginRequest true "credentials"
// @Success  200 {object} LoginResponse
// @Router   /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.ErrInvalid("invalid request body"))
		return
	}
	res, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, LoginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		Account:   toAccountResponse(res.Account),
	})
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), SessionIDFrom(c)); err != nil {
		apierr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Me(c *gin.Context) {
	acct, ok := AccountFrom(c)
	if !ok {
		apierr.Respond(c, apierr.ErrUnauthorized("not logged in"))
		return
	}
	c.JSON(http.StatusOK, toAccountResponse(acct))
}

func (h *Handler) ListUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	users, err := h.svc.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	out := make([]AccountResponse, 0, len(users))
	for i := range users {
		out = append(out, toAccountResponse(&users[i]))
	}
	c.JSON(http.StatusOK, gin.H{"users": out, "limit": limit, "offset": offset})
}
