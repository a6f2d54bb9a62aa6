package container

import (
	"errors"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-catalog/config"
	"github.com/oksasatya/go-ddd-catalog/internal/application"
	"github.com/oksasatya/go-ddd-catalog/internal/infrastructure/messaging"
	pginfra "github.com/oksasatya/go-ddd-catalog/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-catalog/internal/infrastructure/search"
	"github.com/oksasatya/go-ddd-catalog/internal/infrastructure/upload"
	"github.com/oksasatya/go-ddd-catalog/pkg/helpers"
)

// Container holds the components built in main and handed to the router.
// Redis, GCS, ES and Rabbit are optional; a nil client disables the feature
// that depends on it.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	PGPool *pgxpool.Pool
	JWT    *helpers.JWTManager

	Redis  *redis.Client
	GCS    *storage.Client
	ES     *elasticsearch.Client
	Rabbit *helpers.RabbitPublisher

	Users      *pginfra.UserRepository
	Products   *pginfra.ProductRepository
	Categories *pginfra.CategoryRepository
	Variants   *pginfra.VariantRepository

	Auth           *application.AuthService
	Guard          *application.Guard
	Catalog        *application.CatalogService
	VariantService *application.VariantService
	ProductIndex   *search.ProductIndex
	Images         upload.Resolver
}

func New(cfg *config.Config, logger *logrus.Logger, pool *pgxpool.Pool, jwt *helpers.JWTManager) *Container {
	return &Container{Config: cfg, Logger: logger, PGPool: pool, JWT: jwt}
}

// Wire builds repositories and services from the clients set on c.
// Call it once, after the optional clients are assigned.
func (c *Container) Wire() error {
	if c.Config == nil || c.JWT == nil {
		return errors.New("container: config and jwt manager are required")
	}

	c.Users = pginfra.NewUserRepository(c.PGPool)
	c.Products = pginfra.NewProductRepository(c.PGPool)
	c.Categories = pginfra.NewCategoryRepository(c.PGPool)
	c.Variants = pginfra.NewVariantRepository(c.PGPool)

	hasher := helpers.NewBcryptHasher(c.Config.BcryptCost)
	c.Auth = application.NewAuthService(c.Users, hasher, c.JWT, c.Logger)
	c.Guard = application.NewGuard(c.JWT, c.Users)

	c.Catalog = application.NewCatalogService(c.Products, c.Categories, c.Variants, c.Logger)
	c.VariantService = application.NewVariantService(c.Variants, c.Logger)

	if c.ES != nil {
		c.ProductIndex = search.NewProductIndex(c.ES, c.Config.ESProductsIndex)
		c.Catalog.Indexer = c.ProductIndex
	}
	if c.Rabbit != nil {
		events := messaging.NewCatalogEvents(c.Rabbit)
		c.Catalog.Events = events
		c.VariantService.Events = events
	}

	switch c.Config.ImageStorage {
	case "gcs":
		if c.GCS == nil {
			return errors.New("container: IMAGE_STORAGE=gcs but no GCS client")
		}
		c.Images = upload.NewGCSResolver(c.GCS, c.Config.GCSBucket, c.Config.GCSObjectPrefix)
	default:
		local, err := upload.NewLocalResolver(c.Config.UploadDir, c.Config.UploadURLPrefix)
		if err != nil {
			return err
		}
		c.Images = local
	}
	return nil
}

// Close releases the optional clients. The pg pool is closed by main.
func (c *Container) Close() {
	if c.Rabbit != nil {
		c.Rabbit.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.GCS != nil {
		_ = c.GCS.Close()
	}
}
