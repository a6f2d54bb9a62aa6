package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-catalog/internal/application"
	"github.com/oksasatya/go-ddd-catalog/internal/domain/entity"
	"github.com/oksasatya/go-ddd-catalog/pkg/response"
)

// VariantUseCase is satisfied by application.VariantService.
type VariantUseCase interface {
	Create(ctx context.Context, productID int64, in application.CreateVariantInput, actorID int64) (*entity.Variant, error)
	ListByProduct(ctx context.Context, productID int64) ([]entity.Variant, error)
	GetByID(ctx context.Context, id int64) (*entity.Variant, error)
	Update(ctx context.Context, id int64, in application.UpdateVariantInput, actorID int64) (*entity.Variant, error)
	Delete(ctx context.Context, id, actorID int64) error
}

type VariantHandler struct {
	Svc    VariantUseCase
	Images ImageResolver
}

func NewVariantHandler(svc VariantUseCase, images ImageResolver) *VariantHandler {
	return &VariantHandler{Svc: svc, Images: images}
}

type createVariantRequest struct {
	Name  string  `json:"name" form:"name"`
	SKU   string  `json:"sku" form:"sku"`
	Price float64 `json:"price" form:"price"`
	Stock int     `json:"stock" form:"stock"`
}

type updateVariantRequest struct {
	Name  *string  `json:"name" form:"name"`
	SKU   *string  `json:"sku" form:"sku"`
	Price *float64 `json:"price" form:"price"`
	Stock *int     `json:"stock" form:"stock"`
}

// ListByProduct GET /api/products/:id/variants
func (h *VariantHandler) ListByProduct(c *gin.Context) {
	pid, err := pathID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}
	vs, err := h.Svc.ListByProduct(c.Request.Context(), pid)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, vs, "Variants found successfully", nil)
}

// Get GET /api/variants/:id
func (h *VariantHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}
	v, err := h.Svc.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, v, "Variant found successfully", nil)
}

// Create POST /api/admin/products/:id/variants
func (h *VariantHandler) Create(c *gin.Context) {
	pid, err := pathID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}
	var req createVariantRequest
	if err := c.ShouldBind(&req); err != nil {
		response.FromError(c, invalidPayload(err))
		return
	}
	img, err := optionalImage(c, h.Images)
	if err != nil {
		response.FromError(c, err)
		return
	}
	v, err := h.Svc.Create(c.Request.Context(), pid, application.CreateVariantInput{
		Name:     req.Name,
		SKU:      req.SKU,
		Price:    req.Price,
		Stock:    req.Stock,
		ImageURL: img,
	}, actorID(c))
	if err != nil {
		discardImage(c, h.Images, img)
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, v, "Variant created successfully", nil)
}

// Update PUT /api/admin/variants/:id
func (h *VariantHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}
	var req updateVariantRequest
	if err := c.ShouldBind(&req); err != nil {
		response.FromError(c, invalidPayload(err))
		return
	}
	img, err := optionalImage(c, h.Images)
	if err != nil {
		response.FromError(c, err)
		return
	}
	v, err := h.Svc.Update(c.Request.Context(), id, application.UpdateVariantInput{
		Name:     req.Name,
		SKU:      req.SKU,
		Price:    req.Price,
		Stock:    req.Stock,
		ImageURL: img,
	}, actorID(c))
	if err != nil {
		discardImage(c, h.Images, img)
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, v, "Variant updated successfully", nil)
}

// Delete DELETE /api/admin/variants/:id
func (h *VariantHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id, actorID(c)); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"id": id}, "Variant deleted successfully", nil)
}
