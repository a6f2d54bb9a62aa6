package router

import (
	"context"

	"github.com/oksasatya/go-ddd-catalog/internal/container"
	handlers "github.com/oksasatya/go-ddd-catalog/internal/interface/http"
	"github.com/oksasatya/go-ddd-catalog/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-catalog/internal/router/modules"
	"github.com/oksasatya/go-ddd-catalog/pkg/helpers"
)

// InitModules builds handlers from c and registers every module on r.
// c.Wire must have been called.
func InitModules(r *Registry, c *container.Container) {
	cfg := c.Config

	limiter := modules.Limiter{Redis: c.Redis}
	if cfg.IsDevelopment() {
		limiter.Allow = middleware.AllowPrivateIP()
	}

	users := handlers.NewUserHandler(c.Auth, cfg.CookieDomain, cfg.CookieSecure)
	admin := handlers.NewAdminHandler(c.Auth, cfg.CookieDomain, cfg.CookieSecure)
	products := handlers.NewProductHandler(c.Catalog, c.Images)
	variants := handlers.NewVariantHandler(c.VariantService, c.Images)

	r.AddRoot(modules.NewHealthModule(handlers.NewHealthHandler(healthChecks(c))))
	r.Add(modules.NewUserModule(users, c.Guard, limiter))
	r.Add(modules.NewCatalogModule(products, variants))
	r.Add(modules.NewAdminModule(admin, products, variants, c.Guard, limiter))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(limiter))
	}
}

func healthChecks(c *container.Container) map[string]handlers.Check {
	checks := map[string]handlers.Check{}
	if c.PGPool != nil {
		checks["postgres"] = c.PGPool.Ping
	}
	if c.Redis != nil {
		rdb := c.Redis
		checks["redis"] = func(ctx context.Context) error { return helpers.PingRedis(ctx, rdb) }
	}
	return checks
}
