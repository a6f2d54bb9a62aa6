package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-catalog/config"
	"github.com/oksasatya/go-ddd-catalog/internal/domain/entity"
	pginfra "github.com/oksasatya/go-ddd-catalog/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-catalog/pkg/helpers"
)

var defaultCategories = []string{"Electronics", "Fashion", "Home & Living", "Sports", "Books"}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	if cfg.SeedAdminPassword == "" {
		logger.Fatal("SEED_ADMIN_PASSWORD is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{AppName: cfg.AppName + "-seed", MaxConns: 2})
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	hash, err := helpers.NewBcryptHasher(cfg.BcryptCost).Hash(cfg.SeedAdminPassword)
	if err != nil {
		logger.Fatalf("failed to hash password: %v", err)
	}

	admin := &entity.User{Email: cfg.SeedAdminEmail, Password: hash, Name: cfg.SeedAdminName}
	if err := pginfra.NewUserRepository(pool).UpsertAdmin(ctx, admin); err != nil {
		logger.Fatalf("failed to seed admin: %v", err)
	}
	helpers.LogInfo(logger, "admin seeded", logrus.Fields{"id": admin.ID, "email": admin.Email})

	n, err := pginfra.NewCategoryRepository(pool).EnsureCategories(ctx, defaultCategories)
	if err != nil {
		logger.Fatalf("failed to seed categories: %v", err)
	}
	helpers.LogInfo(logger, "categories ensured", logrus.Fields{"inserted": n})
}
