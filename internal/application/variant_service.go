package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-catalog/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-catalog/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-catalog/internal/domain/repository"
	"github.com/oksasatya/go-ddd-catalog/pkg/validation"
)

type VariantService struct {
	Variants repo.VariantRepository
	Events   EventPublisher
	Logger   *logrus.Logger
	Now      func() time.Time
}

func NewVariantService(variants repo.VariantRepository, logger *logrus.Logger) *VariantService {
	return &VariantService{Variants: variants, Logger: logger, Now: time.Now}
}

type CreateVariantInput struct {
	Name     string  `json:"name" validate:"required"`
	SKU      string  `json:"sku" validate:"required"`
	Price    float64 `json:"price" validate:"nonneg,lt=10000000000,cents"`
	Stock    int     `json:"stock" validate:"nonneg,lte=2147483647"`
	ImageURL *string `json:"-"`
}

// UpdateVariantInput cannot move a variant to another product.
type UpdateVariantInput struct {
	Name     *string  `json:"name" validate:"omitempty,min=1"`
	SKU      *string  `json:"sku" validate:"omitempty,min=1"`
	Price    *float64 `json:"price" validate:"omitempty,nonneg,lt=10000000000,cents"`
	Stock    *int     `json:"stock" validate:"omitempty,nonneg,lte=2147483647"`
	ImageURL *string  `json:"-"`
}

func (s *VariantService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// Create validates the input before touching the store; the parent check and
// the insert are a single statement.
func (s *VariantService) Create(ctx context.Context, productID int64, in CreateVariantInput, actorID int64) (*entity.Variant, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.SKU = strings.TrimSpace(in.SKU)
	details := map[string]string{}
	if err := validation.Struct(in); err != nil {
		details = validation.ToDetails(err)
	}
	if productID <= 0 {
		details["product_id"] = "is required"
	}
	if len(details) > 0 {
		return nil, apperror.Validation("Validation failed", details)
	}

	now := s.now()
	v, err := s.Variants.CreateForProduct(ctx, &entity.Variant{
		ProductID: productID,
		Name:      in.Name,
		SKU:       in.SKU,
		Price:     in.Price,
		Stock:     in.Stock,
		ImageURL:  in.ImageURL,
		CreatedBy: actorID,
		UpdatedBy: actorID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		if errors.Is(err, repo.ErrInvalidReference) {
			return nil, apperror.New(apperror.KindProductNotFound, "Product not found")
		}
		return nil, variantError(err, "failed to create variant")
	}
	s.emit(ctx, entity.EventVariantCreated, v.ID, v.ProductID, actorID)
	return v, nil
}

func (s *VariantService) ListByProduct(ctx context.Context, productID int64) ([]entity.Variant, error) {
	vs, err := s.Variants.ListByProduct(ctx, productID)
	if err != nil {
		return nil, apperror.Infrastructure("failed to list variants", err)
	}
	if vs == nil {
		vs = []entity.Variant{}
	}
	return vs, nil
}

func (s *VariantService) GetByID(ctx context.Context, id int64) (*entity.Variant, error) {
	v, err := s.Variants.GetByID(ctx, id)
	if err != nil {
		return nil, variantError(err, "failed to load variant")
	}
	return v, nil
}

func (s *VariantService) Update(ctx context.Context, id int64, in UpdateVariantInput, actorID int64) (*entity.Variant, error) {
	if in.Name != nil {
		v := strings.TrimSpace(*in.Name)
		in.Name = &v
	}
	if in.SKU != nil {
		v := strings.TrimSpace(*in.SKU)
		in.SKU = &v
	}
	if err := validation.Struct(in); err != nil {
		return nil, apperror.Validation("Validation failed", validation.ToDetails(err))
	}

	v, err := s.Variants.UpdateIfExists(ctx, id, repo.VariantPatch{
		Name:      in.Name,
		SKU:       in.SKU,
		Price:     in.Price,
		Stock:     in.Stock,
		ImageURL:  in.ImageURL,
		UpdatedBy: actorID,
		UpdatedAt: s.now(),
	})
	if err != nil {
		return nil, variantError(err, "failed to update variant")
	}
	s.emit(ctx, entity.EventVariantUpdated, v.ID, v.ProductID, actorID)
	return v, nil
}

func (s *VariantService) Delete(ctx context.Context, id, actorID int64) error {
	productID, err := s.Variants.Delete(ctx, id)
	if err != nil {
		return variantError(err, "failed to delete variant")
	}
	s.emit(ctx, entity.EventVariantDeleted, id, productID, actorID)
	return nil
}

func (s *VariantService) emit(ctx context.Context, eventType string, id, productID, actorID int64) {
	publish(ctx, s.Events, s.Logger, entity.CatalogEvent{
		Type:       eventType,
		EntityID:   id,
		ProductID:  productID,
		ActorID:    actorID,
		OccurredAt: s.now(),
	})
}

func variantError(err error, msg string) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return apperror.NotFound("Variant not found")
	case errors.Is(err, repo.ErrDuplicate):
		return apperror.New(apperror.KindDuplicateSKU, "SKU already exists")
	default:
		return apperror.Infrastructure(msg, err)
	}
}
