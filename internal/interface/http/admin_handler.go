package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-catalog/pkg/helpers"
	"github.com/oksasatya/go-ddd-catalog/pkg/response"
)

type AdminHandler struct {
	Svc     AuthUseCase
	Cookies *helpers.Manager
}

func NewAdminHandler(svc AuthUseCase, cookieDomain string, cookieSecure bool) *AdminHandler {
	return &AdminHandler{Svc: svc, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

// Login POST /api/admin/login
func (h *AdminHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, invalidPayload(err))
		return
	}
	res, err := h.Svc.AuthenticateAdmin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}
	h.Cookies.SetAccess(c, res.Token, res.ExpiresAt)
	response.Success(c, http.StatusOK, res, "Admin login successful", nil)
}

// Profile GET /api/admin/profile
func (h *AdminHandler) Profile(c *gin.Context) {
	u, err := h.Svc.GetProfile(c.Request.Context(), actorID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "Admin profile found successfully", nil)
}
