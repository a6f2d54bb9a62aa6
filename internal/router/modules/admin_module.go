package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-catalog/internal/domain/entity"
	handlers "github.com/oksasatya/go-ddd-catalog/internal/interface/http"
	"github.com/oksasatya/go-ddd-catalog/internal/interface/middleware"
)

// AdminModule wires the back-office routes. Everything except login
// requires an ADMIN identity.
type AdminModule struct {
	Admin    *handlers.AdminHandler
	Products *handlers.ProductHandler
	Variants *handlers.VariantHandler
	Auth     middleware.Authenticator
	Limit    Limiter
}

func NewAdminModule(a *handlers.AdminHandler, p *handlers.ProductHandler, v *handlers.VariantHandler, auth middleware.Authenticator, limit Limiter) *AdminModule {
	return &AdminModule{Admin: a, Products: p, Variants: v, Auth: auth, Limit: limit}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	rg.POST("/admin/login", m.Limit.PerIPAndPath(10, time.Minute), m.Admin.Login)

	admin := rg.Group("/admin")
	admin.Use(middleware.Auth(m.Auth), middleware.RequireRole(entity.RoleAdmin))
	admin.Use(m.Limit.PerUser(300, time.Minute))
	{
		admin.GET("/profile", m.Admin.Profile)

		admin.GET("/products", m.Products.List)
		admin.GET("/products/:id", m.Products.Get)
		admin.POST("/products", m.Products.Create)
		admin.PUT("/products/:id", m.Products.Update)
		admin.DELETE("/products/:id", m.Products.Delete)

		admin.GET("/products/:id/variants", m.Variants.ListByProduct)
		admin.POST("/products/:id/variants", m.Variants.Create)
		admin.GET("/variants/:id", m.Variants.Get)
		admin.PUT("/variants/:id", m.Variants.Update)
		admin.DELETE("/variants/:id", m.Variants.Delete)

		admin.GET("/categories", m.Products.Categories)
		admin.GET("/stats", m.Products.Stats)
		admin.GET("/search/products", m.Products.Search)
	}
}
