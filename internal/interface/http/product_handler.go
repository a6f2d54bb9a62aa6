package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-catalog/internal/application"
	"github.com/oksasatya/go-ddd-catalog/internal/domain/entity"
	"github.com/oksasatya/go-ddd-catalog/pkg/response"
)

// CatalogUseCase is satisfied by application.CatalogService.
type CatalogUseCase interface {
	List(ctx context.Context, q application.ListQuery) (*entity.ProductPage, error)
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	Create(ctx context.Context, in application.CreateProductInput, actorID int64) (*entity.Product, error)
	Update(ctx context.Context, id int64, in application.UpdateProductInput, actorID int64) (*entity.Product, error)
	Delete(ctx context.Context, id, actorID int64) error
	ListCategories(ctx context.Context) ([]entity.Category, error)
	Stats(ctx context.Context) (*entity.CatalogStats, error)
	Search(ctx context.Context, q string, size int) ([]entity.ProductSearchHit, error)
}

type ProductHandler struct {
	Svc    CatalogUseCase
	Images ImageResolver
}

func NewProductHandler(svc CatalogUseCase, images ImageResolver) *ProductHandler {
	return &ProductHandler{Svc: svc, Images: images}
}

// createProductRequest binds JSON or multipart form fields.
type createProductRequest struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
	CategoryID  int64  `json:"category_id" form:"category_id"`
}

// updateProductRequest carries only caller-owned fields; attribution and
// timestamps in the payload are dropped here.
type updateProductRequest struct {
	Name        *string `json:"name" form:"name"`
	Description *string `json:"description" form:"description"`
	CategoryID  *int64  `json:"category_id" form:"category_id"`
}

// List GET /api/products?page=&limit=&search=
func (h *ProductHandler) List(c *gin.Context) {
	page, size := application.ParsePagination(c.Query("page"), c.Query("limit"))
	res, err := h.Svc.List(c.Request.Context(), application.ListQuery{
		Page: page, PageSize: size, Search: c.Query("search"),
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res.Items, "Products found successfully", res.Pagination)
}

// Get GET /api/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}
	p, err := h.Svc.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "Product found successfully", nil)
}

// Create POST /api/admin/products (JSON or multipart with "image")
func (h *ProductHandler) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBind(&req); err != nil {
		response.FromError(c, invalidPayload(err))
		return
	}
	img, err := optionalImage(c, h.Images)
	if err != nil {
		response.FromError(c, err)
		return
	}
	p, err := h.Svc.Create(c.Request.Context(), application.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		ImageURL:    img,
	}, actorID(c))
	if err != nil {
		discardImage(c, h.Images, img)
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, p, "Product created successfully", nil)
}

// Update PUT /api/admin/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}
	var req updateProductRequest
	if err := c.ShouldBind(&req); err != nil {
		response.FromError(c, invalidPayload(err))
		return
	}
	img, err := optionalImage(c, h.Images)
	if err != nil {
		response.FromError(c, err)
		return
	}
	p, err := h.Svc.Update(c.Request.Context(), id, application.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		ImageURL:    img,
	}, actorID(c))
	if err != nil {
		discardImage(c, h.Images, img)
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "Product updated successfully", nil)
}

// Delete DELETE /api/admin/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id, actorID(c)); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"id": id}, "Product deleted successfully", nil)
}

// Categories GET /api/admin/categories
func (h *ProductHandler) Categories(c *gin.Context) {
	cats, err := h.Svc.ListCategories(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, cats, "Categories found successfully", nil)
}

// Stats GET /api/admin/stats
func (h *ProductHandler) Stats(c *gin.Context) {
	s, err := h.Svc.Stats(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, s, "Catalog totals", nil)
}

// Search GET /api/admin/search/products?q=&size=
func (h *ProductHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	hits, err := h.Svc.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "Search results", nil)
}
