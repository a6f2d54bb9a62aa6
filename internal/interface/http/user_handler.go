package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-catalog/internal/application"
	"github.com/oksasatya/go-ddd-catalog/internal/domain/entity"
	"github.com/oksasatya/go-ddd-catalog/pkg/helpers"
	"github.com/oksasatya/go-ddd-catalog/pkg/response"
)

// AuthUseCase is satisfied by application.AuthService.
type AuthUseCase interface {
	Register(ctx context.Context, in application.RegisterInput) (*entity.PublicUser, error)
	AuthenticateUser(ctx context.Context, email, password string) (*application.LoginResult, error)
	AuthenticateAdmin(ctx context.Context, email, password string) (*application.AdminLoginResult, error)
	GetProfile(ctx context.Context, userID int64) (*entity.PublicUser, error)
}

type UserHandler struct {
	Svc     AuthUseCase
	Cookies *helpers.Manager
}

func NewUserHandler(svc AuthUseCase, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{Svc: svc, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register POST /api/users/register
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, invalidPayload(err))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Email: req.Email, Password: req.Password, Name: req.Name,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, u, "User registered successfully", nil)
}

// Login POST /api/users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, invalidPayload(err))
		return
	}
	res, err := h.Svc.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}
	h.Cookies.SetAccess(c, res.Token, res.ExpiresAt)
	response.Success(c, http.StatusOK, res, "Login successful", nil)
}

// Profile GET /api/users/profile
func (h *UserHandler) Profile(c *gin.Context) {
	u, err := h.Svc.GetProfile(c.Request.Context(), actorID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "Profile found successfully", nil)
}

// Logout POST /api/users/logout. Tokens are stateless; only the cookie is cleared.
func (h *UserHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "Logged out", nil)
}
