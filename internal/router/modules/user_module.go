package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ddd-catalog/internal/interface/http"
	"github.com/oksasatya/go-ddd-catalog/internal/interface/middleware"
)

// UserModule wires the customer account routes.
// Public: POST /api/users/register, POST /api/users/login
// Protected: GET /api/users/profile, POST /api/users/logout
type UserModule struct {
	Handler *handlers.UserHandler
	Auth    middleware.Authenticator
	Limit   Limiter
}

func NewUserModule(h *handlers.UserHandler, auth middleware.Authenticator, limit Limiter) *UserModule {
	return &UserModule{Handler: h, Auth: auth, Limit: limit}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")

	// Public with rate limiting
	users.POST("/register", m.Limit.PerIPAndPath(5, time.Minute), m.Handler.Register)
	users.POST("/login", m.Limit.PerIPAndPath(10, time.Minute), m.Handler.Login)

	auth := users.Group("/")
	auth.Use(middleware.Auth(m.Auth))
	auth.Use(m.Limit.PerUser(120, time.Minute))
	{
		auth.GET("/profile", m.Handler.Profile)
		auth.POST("/logout", m.Handler.Logout)
	}
}
