package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ddd-catalog/internal/interface/http"
)

// CatalogModule exposes the read-only storefront routes.
type CatalogModule struct {
	Products *handlers.ProductHandler
	Variants *handlers.VariantHandler
}

func NewCatalogModule(p *handlers.ProductHandler, v *handlers.VariantHandler) *CatalogModule {
	return &CatalogModule{Products: p, Variants: v}
}

func (m *CatalogModule) Register(rg *gin.RouterGroup) {
	rg.GET("/products", m.Products.List)
	rg.GET("/products/:id", m.Products.Get)
	rg.GET("/products/:id/variants", m.Variants.ListByProduct)
	rg.GET("/variants/:id", m.Variants.Get)
}
