package application

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-catalog/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-catalog/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-catalog/internal/domain/repository"
	"github.com/oksasatya/go-ddd-catalog/pkg/validation"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100

	defaultSearchSize = 10
	maxSearchSize     = 50

	// maxOffset bounds (page-1)*pageSize; larger pages fall back to DefaultPage.
	maxOffset = math.MaxInt32
)

type CatalogService struct {
	Products   repo.ProductRepository
	Categories repo.CategoryRepository
	Variants   repo.VariantRepository
	// Indexer and Events are optional.
	Indexer ProductIndexer
	Events  EventPublisher
	Logger  *logrus.Logger
	Now     func() time.Time
}

func NewCatalogService(products repo.ProductRepository, categories repo.CategoryRepository, variants repo.VariantRepository, logger *logrus.Logger) *CatalogService {
	return &CatalogService{
		Products:   products,
		Categories: categories,
		Variants:   variants,
		Logger:     logger,
		Now:        time.Now,
	}
}

type ListQuery struct {
	Page     int
	PageSize int
	Search   string
}

// ParsePagination reads transport strings. Anything that is not a positive
// integer falls back to the default.
func ParsePagination(pageStr, sizeStr string) (page, size int) {
	page, size = DefaultPage, DefaultPageSize
	if n, err := strconv.Atoi(strings.TrimSpace(pageStr)); err == nil && n > 0 {
		page = n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(sizeStr)); err == nil && n > 0 {
		size = n
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return boundedPage(page, size), size
}

func boundedPage(page, size int) int {
	if page <= 0 || page-1 > maxOffset/size {
		return DefaultPage
	}
	return page
}

func (q ListQuery) normalize() ListQuery {
	if q.Page <= 0 {
		q.Page = DefaultPage
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	q.Page = boundedPage(q.Page, q.PageSize)
	q.Search = strings.TrimSpace(q.Search)
	return q
}

type CreateProductInput struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description" validate:"required"`
	CategoryID  int64   `json:"category_id" validate:"required,gt=0"`
	ImageURL    *string `json:"-"`
}

// UpdateProductInput has no attribution or timestamp fields; the service sets them.
type UpdateProductInput struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Description *string `json:"description" validate:"omitempty,min=1"`
	CategoryID  *int64  `json:"category_id" validate:"omitempty,gt=0"`
	ImageURL    *string `json:"-"`
}

func (s *CatalogService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *CatalogService) List(ctx context.Context, q ListQuery) (*entity.ProductPage, error) {
	q = q.normalize()
	skip := (q.Page - 1) * q.PageSize

	items, total, err := s.Products.List(ctx, repo.ProductFilter{Search: q.Search, Limit: q.PageSize, Offset: skip})
	if err != nil {
		return nil, apperror.Infrastructure("failed to list products", err)
	}
	if items == nil {
		items = []entity.Product{}
	}
	totalPages := int((total + int64(q.PageSize) - 1) / int64(q.PageSize))
	return &entity.ProductPage{
		Items: items,
		Pagination: entity.Pagination{
			Total:      total,
			Page:       q.Page,
			PageSize:   q.PageSize,
			TotalPages: totalPages,
			Skip:       skip,
		},
	}, nil
}

func (s *CatalogService) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := s.Products.GetByID(ctx, id)
	if err != nil {
		return nil, productError(err, "failed to load product")
	}
	return p, nil
}

func (s *CatalogService) Create(ctx context.Context, in CreateProductInput, actorID int64) (*entity.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if err := validation.Struct(in); err != nil {
		return nil, apperror.Validation("Validation failed", validation.ToDetails(err))
	}

	now := s.now()
	created, err := s.Products.Create(ctx, &entity.Product{
		Name:        in.Name,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		CategoryID:  in.CategoryID,
		CreatedBy:   actorID,
		UpdatedBy:   actorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, productError(err, "failed to create product")
	}
	s.afterWrite(ctx, entity.EventProductCreated, created, actorID)
	return created, nil
}

func (s *CatalogService) Update(ctx context.Context, id int64, in UpdateProductInput, actorID int64) (*entity.Product, error) {
	if in.Name != nil {
		v := strings.TrimSpace(*in.Name)
		in.Name = &v
	}
	if in.Description != nil {
		v := strings.TrimSpace(*in.Description)
		in.Description = &v
	}
	if err := validation.Struct(in); err != nil {
		return nil, apperror.Validation("Validation failed", validation.ToDetails(err))
	}

	updated, err := s.Products.UpdateIfExists(ctx, id, repo.ProductPatch{
		Name:        in.Name,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		ImageURL:    in.ImageURL,
		UpdatedBy:   actorID,
		UpdatedAt:   s.now(),
	})
	if err != nil {
		return nil, productError(err, "failed to update product")
	}
	s.afterWrite(ctx, entity.EventProductUpdated, updated, actorID)
	return updated, nil
}

// Delete removes the product only. Its variants are left in place.
func (s *CatalogService) Delete(ctx context.Context, id, actorID int64) error {
	if err := s.Products.Delete(ctx, id); err != nil {
		return productError(err, "failed to delete product")
	}
	if s.Indexer != nil {
		c, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
		defer cancel()
		if err := s.Indexer.RemoveProduct(c, id); err != nil {
			loggerOrDiscard(s.Logger).WithError(err).WithField("product_id", id).Warn("remove product from index failed")
		}
	}
	publish(ctx, s.Events, s.Logger, entity.CatalogEvent{
		Type:       entity.EventProductDeleted,
		EntityID:   id,
		ProductID:  id,
		ActorID:    actorID,
		OccurredAt: s.now(),
	})
	return nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]entity.Category, error) {
	cats, err := s.Categories.List(ctx)
	if err != nil {
		return nil, apperror.Infrastructure("failed to list categories", err)
	}
	if cats == nil {
		cats = []entity.Category{}
	}
	return cats, nil
}

func (s *CatalogService) CountProducts(ctx context.Context) (int64, error) {
	n, err := s.Products.Count(ctx)
	if err != nil {
		return 0, apperror.Infrastructure("failed to count products", err)
	}
	return n, nil
}

func (s *CatalogService) CountVariants(ctx context.Context) (int64, error) {
	n, err := s.Variants.Count(ctx)
	if err != nil {
		return 0, apperror.Infrastructure("failed to count variants", err)
	}
	return n, nil
}

func (s *CatalogService) Stats(ctx context.Context) (*entity.CatalogStats, error) {
	products, err := s.CountProducts(ctx)
	if err != nil {
		return nil, err
	}
	variants, err := s.CountVariants(ctx)
	if err != nil {
		return nil, err
	}
	return &entity.CatalogStats{Products: products, Variants: variants}, nil
}

// Search runs a full-text query against the product index. Without an index
// it returns no hits.
func (s *CatalogService) Search(ctx context.Context, q string, size int) ([]entity.ProductSearchHit, error) {
	q = strings.TrimSpace(q)
	if s.Indexer == nil || q == "" {
		return []entity.ProductSearchHit{}, nil
	}
	if size <= 0 || size > maxSearchSize {
		size = defaultSearchSize
	}
	hits, err := s.Indexer.SearchProducts(ctx, q, size)
	if err != nil {
		return nil, apperror.Infrastructure("product search unavailable", err)
	}
	if hits == nil {
		hits = []entity.ProductSearchHit{}
	}
	return hits, nil
}

func (s *CatalogService) afterWrite(ctx context.Context, eventType string, p *entity.Product, actorID int64) {
	if s.Indexer != nil {
		c, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
		defer cancel()
		if err := s.Indexer.IndexProduct(c, p); err != nil {
			loggerOrDiscard(s.Logger).WithError(err).WithField("product_id", p.ID).Warn("index product failed")
		}
	}
	publish(ctx, s.Events, s.Logger, entity.CatalogEvent{
		Type:       eventType,
		EntityID:   p.ID,
		ProductID:  p.ID,
		ActorID:    actorID,
		OccurredAt: s.now(),
	})
}

func productError(err error, msg string) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return apperror.NotFound("Product not found")
	case errors.Is(err, repo.ErrInvalidReference):
		return apperror.New(apperror.KindInvalidReference, "Category does not exist")
	default:
		return apperror.Infrastructure(msg, err)
	}
}
