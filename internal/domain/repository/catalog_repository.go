package repository

import (
	"context"
	"time"

	"github.com/oksasatya/go-ddd-catalog/internal/domain/entity"
)

type ProductFilter struct {
	Search string
	Limit  int
	Offset int
}

// ProductPatch is applied by a single conditional update. Nil fields are kept.
type ProductPatch struct {
	Name        *string
	Description *string
	CategoryID  *int64
	ImageURL    *string
	UpdatedBy   int64
	UpdatedAt   time.Time
}

type ProductRepository interface {
	List(ctx context.Context, f ProductFilter) ([]entity.Product, int64, error)
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	// Create inserts p and returns the stored row. ErrInvalidReference when the
	// category does not exist.
	Create(ctx context.Context, p *entity.Product) (*entity.Product, error)
	// UpdateIfExists returns ErrNotFound when no row has the id.
	UpdateIfExists(ctx context.Context, id int64, patch ProductPatch) (*entity.Product, error)
	// Delete returns ErrNotFound when no row was removed.
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

type CategoryRepository interface {
	List(ctx context.Context) ([]entity.Category, error)
}

type VariantPatch struct {
	Name      *string
	SKU       *string
	Price     *float64
	Stock     *int
	ImageURL  *string
	UpdatedBy int64
	UpdatedAt time.Time
}

type VariantRepository interface {
	ListByProduct(ctx context.Context, productID int64) ([]entity.Variant, error)
	GetByID(ctx context.Context, id int64) (*entity.Variant, error)
	// CreateForProduct inserts v only if its parent product exists
	// (ErrInvalidReference otherwise). ErrDuplicate on SKU reuse.
	CreateForProduct(ctx context.Context, v *entity.Variant) (*entity.Variant, error)
	UpdateIfExists(ctx context.Context, id int64, patch VariantPatch) (*entity.Variant, error)
	// Delete returns the removed variant's product id, or ErrNotFound.
	Delete(ctx context.Context, id int64) (int64, error)
	Count(ctx context.Context) (int64, error)
}
